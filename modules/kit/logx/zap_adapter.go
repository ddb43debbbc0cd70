package logx

import (
	"context"

	"go.uber.org/zap"

	"SanguoRich/modules/kit/tracex"
)

// ZapLogger 把 zap.Logger 适配成 Logger；WithContext 把 tracex 里的链路 id 展开成字段。
type ZapLogger struct {
	z *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{z: l}
}

func (l *ZapLogger) WithContext(ctx context.Context) Logger {
	if l == nil {
		return NewZapLogger(nil)
	}
	fields := traceFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return &ZapLogger{z: l.z.With(fields...)}
}

// With 返回附带固定字段的子 Logger。
func (l *ZapLogger) With(fields ...zap.Field) *ZapLogger {
	if len(fields) == 0 {
		return l
	}
	return &ZapLogger{z: l.z.With(fields...)}
}

func (l *ZapLogger) Zap() *zap.Logger { return l.z }

func (l *ZapLogger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *ZapLogger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }
func (l *ZapLogger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *ZapLogger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }

// With 给任意 Logger 绑定固定字段（game_id 等）。zap 实现直接下沉，其它实现包一层。
func With(l Logger, fields ...zap.Field) Logger {
	l = OrNop(l)
	if len(fields) == 0 {
		return l
	}
	if z, ok := l.(*ZapLogger); ok {
		return z.With(fields...)
	}
	return &boundLogger{inner: l, fields: fields}
}

type boundLogger struct {
	inner  Logger
	fields []zap.Field
}

func (b *boundLogger) merge(fields []zap.Field) []zap.Field {
	out := make([]zap.Field, 0, len(b.fields)+len(fields))
	return append(append(out, b.fields...), fields...)
}

func (b *boundLogger) Info(msg string, fields ...zap.Field)  { b.inner.Info(msg, b.merge(fields)...) }
func (b *boundLogger) Error(msg string, fields ...zap.Field) { b.inner.Error(msg, b.merge(fields)...) }
func (b *boundLogger) Debug(msg string, fields ...zap.Field) { b.inner.Debug(msg, b.merge(fields)...) }
func (b *boundLogger) Warn(msg string, fields ...zap.Field)  { b.inner.Warn(msg, b.merge(fields)...) }

func (b *boundLogger) WithContext(ctx context.Context) Logger {
	return &boundLogger{inner: b.inner.WithContext(ctx), fields: b.fields}
}

func traceFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	var fields []zap.Field
	if id, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", id))
	}
	if id, ok := tracex.CorrelationIDFrom(ctx); ok {
		fields = append(fields, zap.String("correlation_id", id))
	}
	if id, ok := tracex.CausationIDFrom(ctx); ok {
		fields = append(fields, zap.String("causation_id", id))
	}
	return fields
}
