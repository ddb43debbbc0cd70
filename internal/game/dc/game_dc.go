// Package dc 是对局快照的写回缓存：actor 线程里拍快照入队，后台 writer 只落最新版本。
package dc

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"SanguoRich/internal/game/app/port"
	"SanguoRich/internal/game/turn"
	"SanguoRich/modules/kit/errx"
	"SanguoRich/modules/kit/logx"
)

const (
	defaultFlushEvery = 3000 * time.Millisecond
	defaultRetryDelay = 200 * time.Millisecond
	// Close 时最多重试的次数，避免库一直不可用时卡死退出流程。
	closeRetries = 3
)

// Snapshotter 由 turn.Manager 实现。
type Snapshotter interface {
	BuildPersistSnapshot(version uint64) (*turn.GameSnapshot, bool)
}

type GameDC struct {
	repo       port.GameRepository
	entity     Snapshotter
	flushEvery time.Duration
	retryDelay time.Duration
	log        logx.Logger

	mu      sync.Mutex
	pending *turn.GameSnapshot
	version uint64
	saved   uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

type Option func(*GameDC)

func WithFlushEvery(d time.Duration) Option {
	return func(dc *GameDC) { dc.flushEvery = d }
}

func WithRetryDelay(d time.Duration) Option {
	return func(dc *GameDC) { dc.retryDelay = d }
}

func WithLogger(l logx.Logger) Option {
	return func(dc *GameDC) { dc.log = logx.OrNop(l) }
}

func NewGameDC(repo port.GameRepository, opts ...Option) *GameDC {
	d := &GameDC{
		repo:       repo,
		flushEvery: defaultFlushEvery,
		retryDelay: defaultRetryDelay,
		log:        logx.Nop(),
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	go d.writerLoop()
	return d
}

// Load 读档。存档不存在返回 (nil, nil)；存在时后续版本号从存档版本继续递增。
func (d *GameDC) Load(ctx context.Context, gameID string) (*turn.GameSnapshot, error) {
	if d.repo == nil {
		return nil, errx.ErrUnavailable.WithMsgf("game repository is nil")
	}
	s, err := d.repo.LoadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if s != nil {
		d.mu.Lock()
		d.version = s.Version
		d.saved = s.Version
		d.mu.Unlock()
	}
	return s, nil
}

// Bind 绑定要落盘的对象，通常是读档后新建的 turn.Manager。
func (d *GameDC) Bind(entity Snapshotter) {
	d.entity = entity
}

// Flush 有脏数据时拍一份快照入队，只能在持有 entity 的单写者线程里调用。
func (d *GameDC) Flush(ctx context.Context) error {
	if d.entity == nil {
		return nil
	}
	if d.repo == nil {
		return errx.ErrUnavailable.WithMsgf("game repository is nil")
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return nil
	}
	d.enqueueLatest(s)
	return nil
}

func (d *GameDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// SavedVersion 返回已成功落库的最大版本。
func (d *GameDC) SavedVersion() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saved
}

// Close 先 Flush 一次，再等待 writer 把剩余快照写完。
func (d *GameDC) Close(ctx context.Context) error {
	_ = d.Flush(ctx)

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *GameDC) buildNextSnapshot() (*turn.GameSnapshot, bool) {
	d.mu.Lock()
	next := d.version + 1
	d.mu.Unlock()

	s, ok := d.entity.BuildPersistSnapshot(next)
	if !ok {
		return nil, false
	}
	d.mu.Lock()
	d.version = next
	d.mu.Unlock()
	return s, true
}

func (d *GameDC) enqueueLatest(s *turn.GameSnapshot) {
	if s == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *GameDC) popPending() *turn.GameSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

// requeue 写库失败时放回；若期间已有更高版本入队，旧快照直接丢弃。
func (d *GameDC) requeue(s *turn.GameSnapshot) {
	d.mu.Lock()
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()
}

func (d *GameDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending(-1)
		case <-d.stop:
			d.consumePending(closeRetries)
			return
		}
	}
}

// consumePending 写到队列为空为止；retries<0 表示不限次数（运行期间），否则用于退出前的有限重试。
func (d *GameDC) consumePending(retries int) {
	failures := 0
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		if err := d.repo.Save(context.Background(), s); err != nil {
			d.log.Error("game snapshot save failed",
				zap.String("game_id", s.GameID),
				zap.Uint64("version", s.Version),
				zap.Error(err),
			)
			failures++
			if retries >= 0 && failures > retries {
				return
			}
			d.requeue(s)
			select {
			case <-time.After(d.retryDelay):
			case <-d.stopSignal(retries):
				// 运行期收到退出信号，交给 stop 分支做有限重试。
				return
			}
			continue
		}
		d.mu.Lock()
		if s.Version > d.saved {
			d.saved = s.Version
		}
		d.mu.Unlock()
	}
}

func (d *GameDC) stopSignal(retries int) <-chan struct{} {
	if retries >= 0 {
		return nil
	}
	return d.stop
}
