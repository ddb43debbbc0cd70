package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const DefaultConfigRelPath = "configs/conf.yml"

// Loader 持有一份解析好的配置，文件变更时整体替换。
// 读取方通过 Current 拿到值拷贝，不会读到半更新的结构。
type Loader[T any] struct {
	mu       sync.RWMutex
	v        *viper.Viper
	path     string
	cur      T
	onChange []func(T)
	onError  func(error)
}

// Load 解析配置路径并加载，失败直接 panic，供进程启动使用。
//
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Load[T any](cfgName string) *Loader[T] {
	path, err := Resolve(cfgName)
	if err != nil {
		panic(err)
	}
	l, err := LoadFile[T](path)
	if err != nil {
		panic(err)
	}
	return l
}

// LoadFile 加载指定文件。
func LoadFile[T any](path string) (*Loader[T], error) {
	if !fileExist(path) {
		return nil, fmt.Errorf("config file not exist, configPath=%v", path)
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	l := &Loader[T]{v: v, path: path}
	cur, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.cur = cur
	return l, nil
}

func (l *Loader[T]) Path() string {
	return l.path
}

func (l *Loader[T]) Current() T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cur
}

// OnChange 注册热更新回调，回调里拿到的是新配置。
func (l *Loader[T]) OnChange(fn func(T)) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.onChange = append(l.onChange, fn)
	l.mu.Unlock()
}

// OnError 注册热更新解析失败的回调；失败时保留旧配置。
func (l *Loader[T]) OnError(fn func(error)) {
	l.mu.Lock()
	l.onError = fn
	l.mu.Unlock()
}

// Watch 开启 fsnotify 监听。
func (l *Loader[T]) Watch() {
	l.v.OnConfigChange(func(fsnotify.Event) {
		l.reload()
	})
	l.v.WatchConfig()
}

func (l *Loader[T]) reload() {
	next, err := l.decode()

	l.mu.Lock()
	if err != nil {
		onError := l.onError
		l.mu.Unlock()
		if onError != nil {
			onError(err)
		}
		return
	}
	l.cur = next
	callbacks := append([]func(T){}, l.onChange...)
	l.mu.Unlock()

	for _, fn := range callbacks {
		fn(next)
	}
}

func (l *Loader[T]) decode() (T, error) {
	var out T
	err := l.v.Unmarshal(&out, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return out, fmt.Errorf("viper unmarshal config data: %w", err)
	}
	return out, nil
}

// Resolve 把 cfgName 解析成绝对路径。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName, nil
		}
		return filepath.Join(curDir, cfgName), nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, DefaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config file not exist, searched %s from: %s", DefaultConfigRelPath, startDir)
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
