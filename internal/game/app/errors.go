package app

import "SanguoRich/modules/kit/errx"

const (
	CodeGameNotFound errx.Code = "SANGUO_GAME_NOT_FOUND"
	CodeBadScenario  errx.Code = "SANGUO_BAD_SCENARIO"
)

var (
	ErrGameNotFound = errx.NewBiz(CodeGameNotFound, "对局不存在")
	ErrBadScenario  = errx.NewFault(CodeBadScenario, "开局配置不合法")
)
