// Package event 定义三国大富翁的领域事件、载荷以及进程内事件总线。
package event

import (
	"context"
	"time"

	"SanguoRich/modules/kit/tracex"

	"github.com/google/uuid"
)

// Event 是领域事件信封。Payload 一定可以 JSON 序列化。
type Event struct {
	ID            string    `json:"Id"`
	Type          Type      `json:"Type"`
	Source        string    `json:"Source"`
	GameID        string    `json:"GameId"`
	Payload       any       `json:"Payload"`
	CorrelationID string    `json:"CorrelationId"`
	CausationID   string    `json:"CausationId,omitempty"`
	OccurredAt    time.Time `json:"OccurredAt"`
}

// Meta 是调用方透传的关联信息：CorrelationID 贯穿一次命令/回合，CausationID 可选。
type Meta struct {
	CorrelationID string
	CausationID   string
}

// MetaFromContext 从 ctx 中读取 tracex 写入的关联 id。
func MetaFromContext(ctx context.Context) Meta {
	var m Meta
	m.CorrelationID, _ = tracex.CorrelationIDFrom(ctx)
	m.CausationID, _ = tracex.CausationIDFrom(ctx)
	return m
}

// Publisher 是事件发布端口。返回错误会触发调用方回滚。
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type PublisherFunc func(ctx context.Context, evt Event) error

func (f PublisherFunc) Publish(ctx context.Context, evt Event) error { return f(ctx, evt) }

// Factory 给事件填充 id、时间与来源。时钟和 id 生成器可替换，便于测试。
type Factory struct {
	Source string
	GameID string
	Now    func() time.Time
	NewID  func() string
}

func NewFactory(source, gameID string) Factory {
	return Factory{Source: source, GameID: gameID}
}

// New 创建事件，并把同一份时间与关联 id 盖到载荷上。
func (f Factory) New(typ Type, meta Meta, payload Payload) Event {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	at := now().UTC()
	id := ""
	if f.NewID != nil {
		id = f.NewID()
	} else {
		id = uuid.NewString()
	}
	if payload != nil {
		payload.stamp(Trace{OccurredAt: at, CorrelationId: meta.CorrelationID, CausationId: meta.CausationID})
	}
	return Event{
		ID:            id,
		Type:          typ,
		Source:        f.Source,
		GameID:        f.GameID,
		Payload:       payload,
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
		OccurredAt:    at,
	}
}
