package logx

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"SanguoRich/modules/kit/tracex"
)

func TestWith_zap实现下沉固定字段(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := With(NewZapLogger(zap.New(core)), zap.String("game_id", "g1"))

	ctx := tracex.WithCorrelationID(context.Background(), "corr-1")
	l.WithContext(ctx).Info("turn advanced")

	fields := logs.All()[0].ContextMap()
	if fields["game_id"] != "g1" || fields["correlation_id"] != "corr-1" {
		t.Fatalf("期望同时带 game_id 与 correlation_id, got=%v", fields)
	}
}

type recordLogger struct {
	fields []zap.Field
}

func (r *recordLogger) Info(_ string, fields ...zap.Field)  { r.fields = fields }
func (r *recordLogger) Error(_ string, fields ...zap.Field) { r.fields = fields }
func (r *recordLogger) Debug(_ string, fields ...zap.Field) { r.fields = fields }
func (r *recordLogger) Warn(_ string, fields ...zap.Field)  { r.fields = fields }
func (r *recordLogger) WithContext(context.Context) Logger  { return r }

func TestWith_非zap实现包一层(t *testing.T) {
	rec := &recordLogger{}
	l := With(rec, zap.String("game_id", "g2"))
	l.WithContext(context.Background()).Warn("flush failed", zap.Int("attempt", 2))

	if len(rec.fields) != 2 || rec.fields[0].Key != "game_id" || rec.fields[1].Key != "attempt" {
		t.Fatalf("固定字段应排在前面, got=%v", rec.fields)
	}
}

func TestWith_nil安全(t *testing.T) {
	With(nil).Info("x")
	NewZapLogger(nil).WithContext(nil).Info("x")
}
