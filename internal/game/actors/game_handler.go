package actors

import (
	"context"
	"errors"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"SanguoRich/modules/kit/errx"
	"SanguoRich/modules/kit/logx"
)

type GameHandler struct{}

var GH = &GameHandler{}

func (h *GameHandler) HandleState(ctx actor.Context, g *GameActor, _ *StateRequest) {
	ctx.Respond(g.stateReply())
}

func (h *GameHandler) HandleStart(ctx actor.Context, g *GameActor, req *StartRequest) {
	c := req.Context()
	if err := g.session.Turn.Start(c, req.Meta()); err != nil {
		ctx.Respond(g.failReply(c, "game.start", err))
		return
	}
	ctx.Respond(g.stateReply())
}

func (h *GameHandler) HandleAdvance(ctx actor.Context, g *GameActor, req *AdvanceRequest) {
	c := req.Context()
	if err := g.session.Turn.AdvanceTurn(c, req.Meta()); err != nil {
		ctx.Respond(g.failReply(c, "game.advance", err))
		return
	}
	ctx.Respond(g.stateReply())
}

func (h *GameHandler) HandleRollDice(ctx actor.Context, g *GameActor, req *RollDiceRequest) {
	c := req.Context()
	out, err := g.session.Turn.RollDice(c, req.Meta(), req.PlayerId)
	if err != nil {
		ctx.Respond(g.failReply(c, "game.roll_dice", err, zap.String("player_id", req.PlayerId)))
		return
	}
	reply := g.stateReply()
	reply.Roll = &out
	ctx.Respond(reply)
}

func (h *GameHandler) HandleBuyCity(ctx actor.Context, g *GameActor, req *BuyCityRequest) {
	c := req.Context()
	bought, err := g.session.Turn.BuyCity(c, req.Meta(), req.PlayerId)
	if err != nil {
		ctx.Respond(g.failReply(c, "game.buy_city", err, zap.String("player_id", req.PlayerId)))
		return
	}
	reply := g.stateReply()
	reply.Bought = bought
	ctx.Respond(reply)
}

func (h *GameHandler) HandleEvents(ctx actor.Context, g *GameActor, req *EventsRequest) {
	ctx.Respond(&Reply{Events: g.session.RecentEvents(req.Limit)})
}

func (g *GameActor) stateReply() *Reply {
	s := g.session.Turn.Snapshot()
	s.Version = g.dc.SavedVersion()
	return &Reply{Snapshot: &s}
}

// failReply 业务拒绝记 biz 日志，其余按系统错误上报。
func (g *GameActor) failReply(ctx context.Context, action string, err error, fields ...zap.Field) *Reply {
	var xe *errx.Error
	if errx.IsBiz(err) && errors.As(err, &xe) {
		logx.ReportBizWithLoggerContext(ctx, g.log, logx.NewBizLog(action, xe.CodeText(), xe.Msg()), fields...)
	} else {
		logx.ReportSysErrorWithLoggerContext(ctx, g.log, logx.NewSysLog(action, err), fields...)
	}
	return fail(err)
}
