package domain

import "SanguoRich/modules/kit/errx"

// Code 表示三国大富翁领域错误码。
//
// 约定：
// - 契约错误 / 数据不变式错误用 errx.NewFault，一律返回 error，绝不静默修正
// - 业务拒绝（钱不够、已被占领、给自己交过路费）不是错误，返回 false
type Code = errx.Code

const (
	CodeInvalidArgument  Code = "SANGUO_INVALID_ARGUMENT"
	CodeDataIntegrity    Code = "SANGUO_DATA_INTEGRITY"
	CodeUnknownPlayer    Code = "SANGUO_UNKNOWN_PLAYER"
	CodeUnknownCity      Code = "SANGUO_UNKNOWN_CITY"
	CodeMoneyOutOfRange  Code = "SANGUO_MONEY_OUT_OF_RANGE"
	CodeMoneyOverflow    Code = "SANGUO_MONEY_OVERFLOW"
	CodeMoneyUnderflow   Code = "SANGUO_MONEY_UNDERFLOW"
	CodeMoneyParse       Code = "SANGUO_MONEY_PARSE"
	CodeTreasuryOverflow Code = "SANGUO_TREASURY_OVERFLOW"
	CodeRandomOutOfRange Code = "SANGUO_RANDOM_OUT_OF_RANGE"
	CodeGameEnded        Code = "SANGUO_GAME_ENDED"
	CodeConcurrentAccess Code = "SANGUO_CONCURRENT_ACCESS"
)

type Error = errx.Error

var (
	ErrInvalidArgument  = errx.NewFault(CodeInvalidArgument, "参数不合法")
	ErrDataIntegrity    = errx.NewFault(CodeDataIntegrity, "数据不变式被破坏")
	ErrUnknownPlayer    = errx.NewFault(CodeUnknownPlayer, "玩家不存在")
	ErrUnknownCity      = errx.NewFault(CodeUnknownCity, "城池不存在")
	ErrMoneyOutOfRange  = errx.NewFault(CodeMoneyOutOfRange, "金额超出范围")
	ErrMoneyOverflow    = errx.NewFault(CodeMoneyOverflow, "金额溢出")
	ErrMoneyUnderflow   = errx.NewFault(CodeMoneyUnderflow, "金额不足以扣减")
	ErrMoneyParse       = errx.NewFault(CodeMoneyParse, "金额解析失败")
	ErrTreasuryOverflow = errx.NewFault(CodeTreasuryOverflow, "国库计数溢出")
	ErrRandomOutOfRange = errx.NewFault(CodeRandomOutOfRange, "随机数超出范围")
	ErrGameEnded        = errx.NewFault(CodeGameEnded, "对局已结束")
)
