package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"SanguoRich/internal/shared/transport"
	"SanguoRich/modules/kit/logx"
)

type accessEntry struct {
	level  string
	fields map[string]any
}

type captureLogger struct {
	mu      sync.Mutex
	entries *[]accessEntry
}

func newCaptureLogger() *captureLogger {
	return &captureLogger{entries: &[]accessEntry{}}
}

func (l *captureLogger) add(level string, fields []zap.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		switch {
		case f.String != "":
			m[f.Key] = f.String
		default:
			m[f.Key] = f.Integer
		}
	}
	*l.entries = append(*l.entries, accessEntry{level: level, fields: m})
}

func (l *captureLogger) Info(_ string, fields ...zap.Field)  { l.add("info", fields) }
func (l *captureLogger) Warn(_ string, fields ...zap.Field)  { l.add("warn", fields) }
func (l *captureLogger) Error(_ string, fields ...zap.Field) { l.add("error", fields) }
func (l *captureLogger) Debug(_ string, fields ...zap.Field) { l.add("debug", fields) }
func (l *captureLogger) WithContext(context.Context) logx.Logger {
	return l
}

func serve(t *testing.T, log *captureLogger, h gin.HandlerFunc, header string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(AccessLog(log))
	e.GET("/x", h)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set(HeaderTraceID, header)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestAccessLog_从响应体提取业务码(t *testing.T) {
	log := newCaptureLogger()
	serve(t, log, func(c *gin.Context) {
		c.JSON(http.StatusConflict, gin.H{"code": 409, "message": "already rolled"})
	}, "")

	entries := *log.entries
	if len(entries) != 1 {
		t.Fatalf("期望一条访问日志，实际 %d", len(entries))
	}
	e := entries[0]
	if e.level != "warn" {
		t.Fatalf("409 应记 warn，实际 %s", e.level)
	}
	if e.fields["biz_code"] != int64(409) {
		t.Fatalf("biz_code 不符: %v", e.fields["biz_code"])
	}
	if e.fields["error_reason"] != "already rolled" {
		t.Fatalf("error_reason 不符: %v", e.fields["error_reason"])
	}
	if e.fields["action"] != "GET /x" {
		t.Fatalf("action 不符: %v", e.fields["action"])
	}
}

func TestAccessLog_无业务码按状态推断(t *testing.T) {
	log := newCaptureLogger()
	serve(t, log, func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "boom")
	}, "")
	if got := (*log.entries)[0].level; got != "error" {
		t.Fatalf("500 应记 error，实际 %s", got)
	}

	log = newCaptureLogger()
	serve(t, log, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	}, "")
	if got := (*log.entries)[0].level; got != "info" {
		t.Fatalf("200 应记 info，实际 %s", got)
	}
}

func TestAccessLog_透传traceID(t *testing.T) {
	log := newCaptureLogger()
	w := serve(t, log, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 0})
	}, "trace-abc")

	if got := w.Header().Get(HeaderTraceID); got != "trace-abc" {
		t.Fatalf("响应头 trace id 不符: %q", got)
	}
}

func TestAccessLog_handler显式结果优先并带业务字段(t *testing.T) {
	log := newCaptureLogger()
	serve(t, log, func(c *gin.Context) {
		a := transport.From(c.Request.Context())
		a.Annotate(zap.String("game_id", "g1"))
		a.Resolve(transport.NotFound, "SANGUO_GAME_NOT_FOUND")
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "对局不存在"})
	}, "")

	e := (*log.entries)[0]
	if e.fields["error_reason"] != "SANGUO_GAME_NOT_FOUND" {
		t.Fatalf("应使用 handler 给出的 reason: %v", e.fields["error_reason"])
	}
	if e.fields["game_id"] != "g1" {
		t.Fatalf("缺少业务字段 game_id: %v", e.fields)
	}
}

func TestAccessLog_响应体reason优先于message(t *testing.T) {
	log := newCaptureLogger()
	serve(t, log, func(c *gin.Context) {
		c.JSON(http.StatusConflict, gin.H{"code": 409, "reason": "SANGUO_TURN_NOT_ACTIVE_PLAYER", "message": "还没轮到该玩家"})
	}, "")
	if got := (*log.entries)[0].fields["error_reason"]; got != "SANGUO_TURN_NOT_ACTIVE_PLAYER" {
		t.Fatalf("error_reason 不符: %v", got)
	}
}
