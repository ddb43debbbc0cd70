package http

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"SanguoRich/modules/kit/logx"
)

func TestNewHttpServer_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", gin.New(), logx.Nop())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("unexpected status code: got=%d want=%d", w.Code, nethttp.StatusOK)
	}
}

func TestNewHttpServer_空引擎自动创建(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", nil, nil, WithShutdownTimeout(time.Second))
	if s.Router() == nil {
		t.Fatalf("router 不应为空")
	}
	if s.shutdownTimeout != time.Second {
		t.Fatalf("shutdown timeout 未生效: %v", s.shutdownTimeout)
	}
}

func TestRun_ctx取消后优雅退出(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewHttpServer("127.0.0.1:0", nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("期望正常退出, err=%v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run 未在 ctx 取消后返回")
	}
}

func TestRun_监听失败直接返回(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewHttpServer("256.0.0.1:bad", nil, nil)

	select {
	case err := <-runAsync(s):
		if err == nil {
			t.Fatalf("非法地址应返回错误")
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run 未返回监听错误")
	}
}

func runAsync(s *Server) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- s.Run(context.Background()) }()
	return ch
}
