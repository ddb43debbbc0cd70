package actors

import (
	"fmt"
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"SanguoRich/modules/kit/errx"
)

type handlerFunc func(ctx actor.Context, g *GameActor, req GameMessage)

// Dispatcher 按请求的具体类型把 GameMessage 路由到 GameHandler 上的方法。
type Dispatcher struct {
	handlers map[reflect.Type]handlerFunc
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{handlers: make(map[reflect.Type]handlerFunc)}
	register(d, GH.HandleState)
	register(d, GH.HandleStart)
	register(d, GH.HandleAdvance)
	register(d, GH.HandleRollDice)
	register(d, GH.HandleBuyCity)
	register(d, GH.HandleEvents)
	return d
}

// register 同一请求类型只能注册一次。
func register[Req GameMessage](d *Dispatcher, fn func(ctx actor.Context, g *GameActor, req Req)) {
	t := reflect.TypeFor[Req]()
	if _, dup := d.handlers[t]; dup {
		panic(fmt.Sprintf("duplicate game handler for %s", t))
	}
	d.handlers[t] = func(ctx actor.Context, g *GameActor, req GameMessage) {
		fn(ctx, g, req.(Req))
	}
}

func (d *Dispatcher) Has(req GameMessage) bool {
	_, ok := d.handlers[reflect.TypeOf(req)]
	return ok
}

func (d *Dispatcher) Dispatch(ctx actor.Context, g *GameActor, req GameMessage) {
	if req == nil {
		ctx.Respond(fail(errx.ErrInvalidArgument.WithMsgf("nil request")))
		return
	}
	h, ok := d.handlers[reflect.TypeOf(req)]
	if !ok {
		ctx.Respond(fail(errx.ErrInvalidArgument.WithMsgf("no handler for %T", req)))
		return
	}
	h(ctx, g, req)
}
