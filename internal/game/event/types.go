package event

// Type 是稳定的点分事件类型名，订阅方与事件日志依赖它，发布后不可改名。
type Type string

const (
	TypeTurnStarted  Type = "core.sanguo.game.turn.started"
	TypeTurnAdvanced Type = "core.sanguo.game.turn.advanced"
	TypeTurnEnded    Type = "core.sanguo.game.turn.ended"
	TypeGameEnded    Type = "core.sanguo.game.ended"

	TypeMonthSettled      Type = "core.sanguo.economy.month.settled"
	TypeSeasonApplied     Type = "core.sanguo.economy.season.applied"
	TypeYearPriceAdjusted Type = "core.sanguo.economy.year.price_adjusted"

	TypeCityBought   Type = "core.sanguo.city.bought"
	TypeCityTollPaid Type = "core.sanguo.city.toll_paid"

	TypeAiDecisionMade Type = "core.sanguo.ai.decision_made"
	TypeDiceRolled     Type = "core.sanguo.game.dice.rolled"
	TypeTokenMoved     Type = "core.sanguo.game.token.moved"
)

// 事件来源组件名。
const (
	SourceTurnManager    = "sanguo.turn_manager"
	SourceEconomyManager = "sanguo.economy_manager"
)

// 对局结束原因。
const (
	EndReasonHumanEliminated = "human_eliminated"
	EndReasonNoPlayers       = "no_players"
)
