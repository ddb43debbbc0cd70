package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"SanguoRich/internal/shared/transport/http/middleware"
	"SanguoRich/modules/kit/logx"
)

const defaultShutdownTimeout = 10 * time.Second

// Server 包一层 gin + net/http：统一挂访问日志与 /healthz，Run 负责监听和优雅关闭。
type Server struct {
	engine          *gin.Engine
	srv             *nethttp.Server
	log             logx.Logger
	shutdownTimeout time.Duration
}

type Option func(*Server)

// WithShutdownTimeout ctx 取消后等待在途请求的上限。
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// NewHttpServer engine 为空时创建带 Recovery 的默认引擎。
func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger, opts ...Option) *Server {
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	logger = logx.OrNop(logger)
	engine.Use(middleware.AccessLog(logger))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"code": 0, "message": "ok"})
	})

	s := &Server{
		engine:          engine,
		log:             logger,
		shutdownTimeout: defaultShutdownTimeout,
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run 阻塞到 ctx 取消或监听失败。ctx 取消时优雅关闭并返回 nil。
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server started", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("http server shutdown timeout, force close", zap.Error(err))
		return s.srv.Close()
	}
	return nil
}

func (s *Server) Router() gin.IRouter {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}
