package tracex

import (
	"context"

	"github.com/google/uuid"
)

// 一次命令（推进回合、买城、掷骰）从入口到所有事件共享同一个 correlation_id；
// causation_id 指向触发这批事件的命令 id。两者都随 ctx 透传，日志适配器会自动带上。

type traceIDKey struct{}
type correlationIDKey struct{}
type causationIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, traceIDKey{})
}

func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

func CorrelationIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, correlationIDKey{})
}

func WithCausationID(ctx context.Context, causationID string) context.Context {
	return context.WithValue(ctx, causationIDKey{}, causationID)
}

func CausationIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, causationIDKey{})
}

// EnsureCorrelationID 已有则原样返回，否则生成一个新的并写回 ctx。
func EnsureCorrelationID(ctx context.Context) (context.Context, string) {
	if id, ok := CorrelationIDFrom(ctx); ok {
		return ctx, id
	}
	id := NewID()
	return WithCorrelationID(ctx, id), id
}

// NewID 生成随机 id（uuid v4 文本）。
func NewID() string {
	return uuid.NewString()
}

func stringFrom(ctx context.Context, key any) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(key).(string)
	return s, ok && s != ""
}
