package turn

import "SanguoRich/modules/kit/errx"

// 玩家命令的业务拒绝，走 biz 错误：不打栈，直接回给调用方。
const (
	CodeNotStarted      errx.Code = "SANGUO_TURN_NOT_STARTED"
	CodeAlreadyStarted  errx.Code = "SANGUO_TURN_ALREADY_STARTED"
	CodeNotActivePlayer errx.Code = "SANGUO_TURN_NOT_ACTIVE_PLAYER"
	CodeNotHumanPlayer  errx.Code = "SANGUO_TURN_NOT_HUMAN_PLAYER"
	CodeAlreadyRolled   errx.Code = "SANGUO_TURN_ALREADY_ROLLED"
	CodeNoCityHere      errx.Code = "SANGUO_TURN_NO_CITY_HERE"
)

var (
	ErrNotStarted      = errx.NewBiz(CodeNotStarted, "对局尚未开始")
	ErrAlreadyStarted  = errx.NewBiz(CodeAlreadyStarted, "对局已经开始")
	ErrNotActivePlayer = errx.NewBiz(CodeNotActivePlayer, "还没轮到该玩家")
	ErrNotHumanPlayer  = errx.NewBiz(CodeNotHumanPlayer, "AI 玩家不接受手动指令")
	ErrAlreadyRolled   = errx.NewBiz(CodeAlreadyRolled, "本回合已经掷过骰子")
	ErrNoCityHere      = errx.NewBiz(CodeNoCityHere, "当前格子没有城池")
)
