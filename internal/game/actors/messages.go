package actors

import (
	"context"

	"SanguoRich/internal/game/event"
	"SanguoRich/internal/game/turn"
	"SanguoRich/modules/kit/tracex"
)

// GameMessage 是投递给 GameActor 的请求。actor 之间不传 context，链路 id 跟着消息走。
type GameMessage interface {
	GameID() string
	Context() context.Context
	Meta() event.Meta
}

type GameBaseMessage struct {
	GameId        string
	TraceId       string
	CorrelationId string
	CausationId   string
}

func (m GameBaseMessage) GameID() string {
	return m.GameId
}

// Context 在 actor 线程里重建带链路 id 的 context。
func (m GameBaseMessage) Context() context.Context {
	ctx := context.Background()
	if m.TraceId != "" {
		ctx = tracex.WithTraceID(ctx, m.TraceId)
	}
	if m.CorrelationId != "" {
		ctx = tracex.WithCorrelationID(ctx, m.CorrelationId)
	}
	if m.CausationId != "" {
		ctx = tracex.WithCausationID(ctx, m.CausationId)
	}
	return ctx
}

func (m GameBaseMessage) Meta() event.Meta {
	return event.Meta{CorrelationID: m.CorrelationId, CausationID: m.CausationId}
}

type StateRequest struct {
	GameBaseMessage
}

type StartRequest struct {
	GameBaseMessage
}

type AdvanceRequest struct {
	GameBaseMessage
}

type RollDiceRequest struct {
	GameBaseMessage
	PlayerId string
}

type BuyCityRequest struct {
	GameBaseMessage
	PlayerId string
}

type EventsRequest struct {
	GameBaseMessage
	Limit int
}

// Reply 是所有请求的统一应答；Err 非空时其余字段无意义。
type Reply struct {
	Snapshot *turn.GameSnapshot
	Roll     *turn.RollOutcome
	Bought   bool
	Events   []event.Event
	Err      error
}

func fail(err error) *Reply {
	return &Reply{Err: err}
}
