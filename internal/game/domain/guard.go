package domain

import (
	"fmt"
	"sync/atomic"
)

// WriterGuard 是单写者令牌：对象构造时持有一个空闲令牌，每次访问先占用、返回时归还。
// 同一对象上出现重叠访问说明有两个写者在并发操作同一局游戏，直接 panic 暴露问题，
// 不用锁来掩盖。
//
// 注意：令牌不绑定 goroutine。actor 串行处理消息但可能换 goroutine，
// 只要访问不重叠就是合法的单写者。零值可用，Owner 只用于报错信息。
//
// 用法：defer g.Enter("Type.Method")()
type WriterGuard struct {
	busy  atomic.Int32
	Owner string
}

func (g *WriterGuard) Enter(op string) func() {
	if !g.busy.CompareAndSwap(0, 1) {
		panic(fmt.Sprintf("%s: concurrent access to %s during %s", CodeConcurrentAccess, g.Owner, op))
	}
	return g.exit
}

func (g *WriterGuard) exit() {
	g.busy.Store(0)
}
