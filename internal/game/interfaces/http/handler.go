package http

import (
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"SanguoRich/internal/game/event"
	"SanguoRich/internal/game/interfaces/http/dto"
	"SanguoRich/internal/game/turn"
	"SanguoRich/internal/shared/transport"
	"SanguoRich/modules/kit/errx"
	"SanguoRich/modules/kit/logx"
	"SanguoRich/modules/kit/tracex"
)

const (
	HeaderCorrelationID = "X-Correlation-Id"

	defaultEventLimit = 50
	maxEventLimit     = 512
)

// Service 是 HTTP 层依赖的对局入口，由 actor.Runtime 实现。
type Service interface {
	State(ctx context.Context, gameID string) (*turn.GameSnapshot, error)
	Start(ctx context.Context, gameID string) (*turn.GameSnapshot, error)
	Advance(ctx context.Context, gameID string) (*turn.GameSnapshot, error)
	RollDice(ctx context.Context, gameID, playerID string) (turn.RollOutcome, *turn.GameSnapshot, error)
	BuyCity(ctx context.Context, gameID, playerID string) (bool, *turn.GameSnapshot, error)
	Events(ctx context.Context, gameID string, limit int) ([]event.Event, error)
}

type Response struct {
	Code    transport.BizCode `json:"code"`
	Message string            `json:"message"`
	Reason  string            `json:"reason,omitempty"`
	Data    any               `json:"data,omitempty"`
}

type Handler struct {
	svc Service
	log logx.Logger
}

func NewHandler(svc Service, log logx.Logger) *Handler {
	return &Handler{svc: svc, log: logx.OrNop(log)}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/games/:id")
	g.GET("", h.state)
	g.POST("/start", h.start)
	g.POST("/advance", h.advance)
	g.POST("/players/:pid/roll", h.roll)
	g.POST("/players/:pid/buy", h.buy)
	g.GET("/events", h.events)
}

func (h *Handler) state(c *gin.Context) {
	snap, err := h.svc.State(requestContext(c), c.Param("id"))
	h.respondState(c, "game state", snap, err)
}

func (h *Handler) start(c *gin.Context) {
	snap, err := h.svc.Start(requestContext(c), c.Param("id"))
	h.respondState(c, "game start", snap, err)
}

func (h *Handler) advance(c *gin.Context) {
	snap, err := h.svc.Advance(requestContext(c), c.Param("id"))
	h.respondState(c, "game advance", snap, err)
}

func (h *Handler) roll(c *gin.Context) {
	out, snap, err := h.svc.RollDice(requestContext(c), c.Param("id"), c.Param("pid"))
	if err != nil {
		h.fail(c, "game roll dice", err)
		return
	}
	ok(c, dto.FromRoll(out, snap))
}

func (h *Handler) buy(c *gin.Context) {
	bought, snap, err := h.svc.BuyCity(requestContext(c), c.Param("id"), c.Param("pid"))
	if err != nil {
		h.fail(c, "game buy city", err)
		return
	}
	ok(c, dto.BuyResult{Bought: bought, State: dto.FromSnapshot(snap)})
}

func (h *Handler) events(c *gin.Context) {
	limit := defaultEventLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxEventLimit {
			h.fail(c, "game events", errx.ErrInvalidArgument.WithData("limit", raw))
			return
		}
		limit = n
	}
	evts, err := h.svc.Events(requestContext(c), c.Param("id"), limit)
	if err != nil {
		h.fail(c, "game events", err)
		return
	}
	if evts == nil {
		evts = []event.Event{}
	}
	ok(c, evts)
}

func (h *Handler) respondState(c *gin.Context, action string, snap *turn.GameSnapshot, err error) {
	if err != nil {
		h.fail(c, action, err)
		return
	}
	ok(c, dto.FromSnapshot(snap))
}

func (h *Handler) fail(c *gin.Context, action string, err error) {
	code, status := toBizCode(err)
	msg, reason := errorMessage(err, code)
	ctx := c.Request.Context()
	transport.From(ctx).Resolve(code, reason)
	if code == transport.SystemError || code == transport.Timeout || code == transport.Unavailable {
		logx.ReportSysErrorWithLoggerContext(ctx, h.log, logx.NewSysLog(action, err), requestFields(c)...)
	} else {
		logx.ReportBizWithLoggerContext(ctx, h.log, logx.NewBizLog(action, reason, msg), requestFields(c)...)
	}
	c.JSON(status, Response{Code: code, Message: msg, Reason: reason})
}

func ok(c *gin.Context, data any) {
	transport.From(c.Request.Context()).Resolve(transport.OK, "")
	c.JSON(nethttp.StatusOK, Response{Code: transport.OK, Message: "ok", Data: data})
}

// requestContext 把请求头里的 correlation id 写进 ctx，缺省时由下游补发。
func requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	transport.From(ctx).Annotate(requestFields(c)...)
	if id := c.GetHeader(HeaderCorrelationID); id != "" {
		ctx = tracex.WithCorrelationID(ctx, id)
	}
	return ctx
}

func requestFields(c *gin.Context) []zap.Field {
	fields := []zap.Field{zap.String("game_id", c.Param("id"))}
	if pid := c.Param("pid"); pid != "" {
		fields = append(fields, zap.String("player_id", pid))
	}
	return fields
}
