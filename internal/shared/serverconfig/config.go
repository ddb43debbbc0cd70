package serverconfig

import (
	"SanguoRich/internal/shared/config"
)

var (
	Conf   Config
	loader *config.Loader[Config]
)

// Load 加载 configs/conf.yml 并开启热更新；cfgName 为空时向上查找。
func Load(cfgName string) {
	loader = config.Load[Config](cfgName)
	Conf = loader.Current()
	loader.Watch()
}

// Current 返回最新一份配置（含热更新结果）。Load 之前返回零值。
func Current() Config {
	if loader == nil {
		return Conf
	}
	return loader.Current()
}

// OnChange 注册热更新回调。
func OnChange(fn func(Config)) {
	if loader != nil {
		loader.OnChange(fn)
	}
}

func OnError(fn func(error)) {
	if loader != nil {
		loader.OnError(fn)
	}
}
