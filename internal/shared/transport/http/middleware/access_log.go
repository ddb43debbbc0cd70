package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"SanguoRich/internal/shared/transport"
	"SanguoRich/modules/kit/logx"
	"SanguoRich/modules/kit/tracex"
)

// 超过此长度的响应体不再缓存，业务码按 HTTP 状态推断。
const maxCapturedBody = 64 << 10

// HeaderTraceID 请求/响应头里的 trace id。
const HeaderTraceID = "X-Trace-Id"

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body     bytes.Buffer
	overflow bool
}

func (w *bodyCaptureWriter) capture(data []byte) {
	if w.overflow {
		return
	}
	if w.body.Len()+len(data) > maxCapturedBody {
		w.overflow = true
		w.body.Reset()
		return
	}
	_, _ = w.body.Write(data)
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 每个请求落一条访问日志。
// handler 通过 transport.From(ctx).Resolve 给出的结果优先；否则从响应体的 code/reason 推断，再不行按 HTTP 状态推断。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		parent := c.Request.Context()
		if id := c.GetHeader(HeaderTraceID); id != "" {
			parent = tracex.WithTraceID(parent, id)
		}
		ctx, access := transport.Begin(parent, c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)
		if id, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(HeaderTraceID, id)
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		switch code, reason, ok := parseBody(bw.body.Bytes()); {
		case ok:
			access.Infer(transport.BizCode(code), reason)
		case c.Writer.Status() >= http.StatusBadRequest:
			access.Infer(transport.SystemError, http.StatusText(c.Writer.Status()))
		default:
			access.Infer(transport.OK, "")
		}
		access.Write(ctx, log)
	}
}

// parseBody 识别 {"code":..,"reason":..,"message":..}，reason 缺省时退回 message。
func parseBody(body []byte) (code int, reason string, ok bool) {
	if len(body) == 0 {
		return 0, "", false
	}
	var payload struct {
		Code    *int   `json:"code"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == nil {
		return 0, "", false
	}
	reason = payload.Reason
	if reason == "" && *payload.Code != transport.OK {
		reason = payload.Message
	}
	return *payload.Code, reason, true
}
