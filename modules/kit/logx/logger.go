package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是跨包复用的最小日志接口。
//
// 约束：
// - 保持 API 极简：结构化字段 + ctx 透传（trace/correlation 等）
// - 领域代码只依赖这个接口，缺省时用 Nop()，永远不因为日志缺失而失败
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	WithContext(ctx context.Context) Logger
}

// Nop 返回丢弃所有输出的 Logger。
func Nop() Logger {
	return NewZapLogger(nil)
}

// OrNop 在 l 为 nil 时返回 Nop()。
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}
