package transport

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"SanguoRich/modules/kit/logx"
	"SanguoRich/modules/kit/tracex"
)

// Access 是一次请求的访问记录：中间件创建，handler 补字段、写结果，请求结束时落一条日志。
type Access struct {
	mu       sync.Mutex
	action   string
	start    time.Time
	code     BizCode
	reason   string
	resolved bool
	fields   []zap.Field
}

type accessKey struct{}

// Begin 在 ctx 上挂一条访问记录；parent 没有 trace id 时生成一个。
func Begin(parent context.Context, action string) (context.Context, *Access) {
	if parent == nil {
		parent = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	if _, ok := tracex.TraceIDFrom(parent); !ok {
		parent = tracex.WithTraceID(parent, tracex.NewID())
	}
	a := &Access{action: action, start: time.Now(), code: SystemError}
	return context.WithValue(parent, accessKey{}, a), a
}

// From 读取访问记录，没有时返回 nil；nil 上的方法都是空操作。
func From(ctx context.Context) *Access {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(accessKey{}).(*Access)
	return a
}

// Annotate 追加业务字段（game_id、player_id 等）。
func (a *Access) Annotate(fields ...zap.Field) {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.fields = append(a.fields, fields...)
	a.mu.Unlock()
}

// Resolve 由 handler 显式给出结果；之后中间件不再从响应体推断。
func (a *Access) Resolve(code BizCode, reason string) {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.code, a.reason, a.resolved = code, reason, true
	a.mu.Unlock()
}

// Infer 只在 handler 没有 Resolve 时生效。
func (a *Access) Infer(code BizCode, reason string) {
	if a == nil {
		return
	}
	a.mu.Lock()
	if !a.resolved {
		a.code, a.reason = code, reason
	}
	a.mu.Unlock()
}

func (a *Access) Result() (BizCode, string) {
	if a == nil {
		return SystemError, ""
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.code, a.reason
}

// Write 输出访问日志，级别由业务码决定。
func (a *Access) Write(ctx context.Context, log logx.Logger) {
	if a == nil || log == nil {
		return
	}
	a.mu.Lock()
	fields := make([]zap.Field, 0, len(a.fields)+3)
	fields = append(fields, zap.Duration("latency", time.Since(a.start)))
	if a.code == OK {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if a.reason != "" {
			fields = append(fields, zap.String("error_reason", a.reason))
		}
	}
	fields = append(fields, a.fields...)
	action, code := a.action, a.code
	a.mu.Unlock()

	logx.ReportAccessWithLoggerContext(ctx, log, action, int(code), fields...)
}
