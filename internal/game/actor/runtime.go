// Package actor 是 HTTP 等外层调用对局 actor 的入口：把 context 里的链路信息装进消息，用 RequestFuture 同步等待应答。
package actor

import (
	"context"
	"errors"
	"sync"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"SanguoRich/internal/game/actors"
	"SanguoRich/internal/game/event"
	"SanguoRich/internal/game/turn"
	"SanguoRich/modules/kit/errx"
	"SanguoRich/modules/kit/tracex"
)

const defaultAskTimeout = 3 * time.Second

type Runtime struct {
	system      *protoactor.ActorSystem
	root        *protoactor.RootContext
	manager     *protoactor.PID
	timeout     time.Duration
	defaultGame string
	stopOnce    sync.Once
}

func NewRuntime(deps actors.Deps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:      system,
		root:        root,
		manager:     manager,
		timeout:     askTimeout,
		defaultGame: deps.Catalog.DefaultID(),
	}
}

// Shutdown 停掉所有对局 actor（触发最后一次落盘）后关闭 actor 系统。
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	r.stopOnce.Do(func() {
		if r.root != nil && r.manager != nil {
			_ = r.root.StopFuture(r.manager).Wait()
		}
		if r.system != nil {
			r.system.Shutdown()
		}
	})
}

func (r *Runtime) DefaultGameID() string {
	return r.defaultGame
}

func (r *Runtime) State(ctx context.Context, gameID string) (*turn.GameSnapshot, error) {
	reply, err := r.ask(ctx, &actors.StateRequest{GameBaseMessage: r.base(ctx, gameID)})
	if err != nil {
		return nil, err
	}
	return reply.Snapshot, nil
}

func (r *Runtime) Start(ctx context.Context, gameID string) (*turn.GameSnapshot, error) {
	reply, err := r.ask(ctx, &actors.StartRequest{GameBaseMessage: r.base(ctx, gameID)})
	if err != nil {
		return nil, err
	}
	return reply.Snapshot, nil
}

func (r *Runtime) Advance(ctx context.Context, gameID string) (*turn.GameSnapshot, error) {
	reply, err := r.ask(ctx, &actors.AdvanceRequest{GameBaseMessage: r.base(ctx, gameID)})
	if err != nil {
		return nil, err
	}
	return reply.Snapshot, nil
}

func (r *Runtime) RollDice(ctx context.Context, gameID, playerID string) (turn.RollOutcome, *turn.GameSnapshot, error) {
	reply, err := r.ask(ctx, &actors.RollDiceRequest{GameBaseMessage: r.base(ctx, gameID), PlayerId: playerID})
	if err != nil {
		return turn.RollOutcome{}, nil, err
	}
	var out turn.RollOutcome
	if reply.Roll != nil {
		out = *reply.Roll
	}
	return out, reply.Snapshot, nil
}

func (r *Runtime) BuyCity(ctx context.Context, gameID, playerID string) (bool, *turn.GameSnapshot, error) {
	reply, err := r.ask(ctx, &actors.BuyCityRequest{GameBaseMessage: r.base(ctx, gameID), PlayerId: playerID})
	if err != nil {
		return false, nil, err
	}
	return reply.Bought, reply.Snapshot, nil
}

func (r *Runtime) Events(ctx context.Context, gameID string, limit int) ([]event.Event, error) {
	reply, err := r.ask(ctx, &actors.EventsRequest{GameBaseMessage: r.base(ctx, gameID), Limit: limit})
	if err != nil {
		return nil, err
	}
	return reply.Events, nil
}

// base 没有 correlation id 时新生成一个，保证每个命令的事件都能串起来。
func (r *Runtime) base(ctx context.Context, gameID string) actors.GameBaseMessage {
	if ctx == nil {
		ctx = context.Background()
	}
	if gameID == "" {
		gameID = r.defaultGame
	}
	ctx, correlationID := tracex.EnsureCorrelationID(ctx)
	traceID, _ := tracex.TraceIDFrom(ctx)
	causationID, _ := tracex.CausationIDFrom(ctx)
	return actors.GameBaseMessage{
		GameId:        gameID,
		TraceId:       traceID,
		CorrelationId: correlationID,
		CausationId:   causationID,
	}
}

func (r *Runtime) ask(ctx context.Context, msg actors.GameMessage) (*actors.Reply, error) {
	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}
	reply, ok := res.(*actors.Reply)
	if !ok || reply == nil {
		return nil, errx.ErrInternal.WithMsgf("unexpected actor reply %T", res)
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return reply, nil
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, errx.ErrUnavailable.WithMsgf("actor runtime 未初始化")
	}
	if pid == nil {
		return nil, errx.ErrUnavailable.WithMsgf("actor pid 为空")
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		if errors.Is(err, protoactor.ErrTimeout) {
			return nil, errx.ErrTimeout.WithMsgf("actor 请求超时").WithCause(err)
		}
		return nil, errx.ErrUnavailable.WithMsgf("actor 请求失败").WithCause(err)
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}
