package event

import (
	"time"

	"SanguoRich/internal/game/domain"
)

// Trace 是每个载荷都带的追踪字段，由 Factory.New 统一盖章。
type Trace struct {
	OccurredAt    time.Time `json:"OccurredAt"`
	CorrelationId string    `json:"CorrelationId"`
	CausationId   string    `json:"CausationId,omitempty"`
}

func (t *Trace) stamp(tr Trace) { *t = tr }

// Payload 只能是本包定义的载荷类型（以指针形式传入）。
type Payload interface {
	stamp(Trace)
}

// TurnPayload 用于 turn.started 与 turn.advanced。
type TurnPayload struct {
	GameId         string `json:"GameId"`
	TurnNumber     int    `json:"TurnNumber"`
	ActivePlayerId string `json:"ActivePlayerId"`
	Year           int    `json:"Year"`
	Month          int    `json:"Month"`
	Day            int    `json:"Day"`
	Trace
}

type TurnEndedPayload struct {
	GameId         string `json:"GameId"`
	TurnNumber     int    `json:"TurnNumber"`
	ActivePlayerId string `json:"ActivePlayerId"`
	Trace
}

type PlayerSettlement struct {
	PlayerId    string       `json:"PlayerId"`
	AmountDelta domain.Money `json:"AmountDelta"`
}

type MonthSettledPayload struct {
	GameId            string             `json:"GameId"`
	Year              int                `json:"Year"`
	Month             int                `json:"Month"`
	PlayerSettlements []PlayerSettlement `json:"PlayerSettlements"`
	Trace
}

type SeasonAppliedPayload struct {
	GameId            string   `json:"GameId"`
	Year              int      `json:"Year"`
	Season            int      `json:"Season"`
	AffectedRegionIds []string `json:"AffectedRegionIds"`
	YieldMultiplier   float64  `json:"YieldMultiplier"`
	Trace
}

// YearPriceAdjustedPayload 每座城池一条。
type YearPriceAdjustedPayload struct {
	GameId   string       `json:"GameId"`
	Year     int          `json:"Year"`
	CityId   string       `json:"CityId"`
	OldPrice domain.Money `json:"OldPrice"`
	NewPrice domain.Money `json:"NewPrice"`
	OldToll  domain.Money `json:"OldToll"`
	NewToll  domain.Money `json:"NewToll"`
	Trace
}

type CityBoughtPayload struct {
	GameId  string       `json:"GameId"`
	BuyerId string       `json:"BuyerId"`
	CityId  string       `json:"CityId"`
	Price   domain.Money `json:"Price"`
	Trace
}

// CityTollPaidPayload 满足 Amount == OwnerAmount + TreasuryOverflow。
type CityTollPaidPayload struct {
	GameId           string       `json:"GameId"`
	PayerId          string       `json:"PayerId"`
	OwnerId          string       `json:"OwnerId"`
	CityId           string       `json:"CityId"`
	Amount           domain.Money `json:"Amount"`
	OwnerAmount      domain.Money `json:"OwnerAmount"`
	TreasuryOverflow domain.Money `json:"TreasuryOverflow"`
	Bankrupt         bool         `json:"Bankrupt"`
	Trace
}

type GameEndedPayload struct {
	GameId     string `json:"GameId"`
	EndReason  string `json:"EndReason"`
	TurnNumber int    `json:"TurnNumber"`
	Trace
}

type AiDecisionMadePayload struct {
	GameId     string `json:"GameId"`
	PlayerId   string `json:"PlayerId"`
	TurnNumber int    `json:"TurnNumber"`
	Decision   string `json:"Decision"`
	Trace
}

type DiceRolledPayload struct {
	GameId     string `json:"GameId"`
	PlayerId   string `json:"PlayerId"`
	TurnNumber int    `json:"TurnNumber"`
	Value      int    `json:"Value"`
	Trace
}

type TokenMovedPayload struct {
	GameId       string `json:"GameId"`
	PlayerId     string `json:"PlayerId"`
	FromPosition int    `json:"FromPosition"`
	ToPosition   int    `json:"ToPosition"`
	Steps        int    `json:"Steps"`
	PassedStart  bool   `json:"PassedStart"`
	Trace
}
