package event

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/multierr"
)

// Handler 处理一条事件。返回错误会让本次 Publish 失败。
type Handler func(ctx context.Context, evt Event) error

type subscription struct {
	handle  int
	name    string
	handler Handler
}

// Bus 是同步的进程内发布/订阅实现。
//
// Publish 按订阅顺序把事件交给每个订阅者；某个订阅者失败不会阻止后续订阅者，
// 所有错误合并后返回，调用方据此回滚。
type Bus struct {
	mu         sync.RWMutex
	subs       []subscription
	nextHandle int
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe 注册订阅者，返回取消订阅函数（可重复调用）。
func (b *Bus) Subscribe(name string, h Handler) (unsubscribe func()) {
	if h == nil {
		return func() {}
	}
	b.mu.Lock()
	handle := b.nextHandle
	b.nextHandle++
	b.subs = append(b.subs, subscription{handle: handle, name: name, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.subs = slices.DeleteFunc(b.subs, func(s subscription) bool { return s.handle == handle })
	}
}

// Subscribers 返回当前订阅者名字，按订阅顺序。
func (b *Bus) Subscribers() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.subs))
	for _, s := range b.subs {
		names = append(names, s.name)
	}
	return names
}

func (b *Bus) Publish(ctx context.Context, evt Event) error {
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	var err error
	for _, s := range subs {
		if herr := s.handler(ctx, evt); herr != nil {
			err = multierr.Append(err, fmt.Errorf("subscriber %s: %w", s.name, herr))
		}
	}
	return err
}
