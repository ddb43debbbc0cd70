package dto

import (
	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/turn"
)

type RollResult struct {
	PlayerID     string     `json:"playerId"`
	Dice         int        `json:"dice"`
	FromPosition int        `json:"fromPosition"`
	ToPosition   int        `json:"toPosition"`
	PassedStart  bool       `json:"passedStart"`
	Landing      Landing    `json:"landing"`
	State        *GameState `json:"state"`
}

type Landing struct {
	CityID   string `json:"cityId,omitempty"`
	Bought   bool   `json:"bought"`
	TollPaid bool   `json:"tollPaid"`
	Toll     *Toll  `json:"toll,omitempty"`
}

type Toll struct {
	OwnerID          string       `json:"ownerId"`
	Amount           domain.Money `json:"amount"`
	OwnerAmount      domain.Money `json:"ownerAmount"`
	TreasuryOverflow domain.Money `json:"treasuryOverflow"`
	Bankrupt         bool         `json:"bankrupt"`
}

type BuyResult struct {
	Bought bool       `json:"bought"`
	State  *GameState `json:"state"`
}

func FromRoll(out turn.RollOutcome, s *turn.GameSnapshot) *RollResult {
	r := &RollResult{
		PlayerID:     out.PlayerID,
		Dice:         out.Dice,
		FromPosition: out.FromPosition,
		ToPosition:   out.ToPosition,
		PassedStart:  out.PassedStart,
		Landing: Landing{
			CityID:   out.Landing.CityID,
			Bought:   out.Landing.Bought,
			TollPaid: out.Landing.TollPaid,
		},
		State: FromSnapshot(s),
	}
	if out.Landing.TollPaid {
		t := out.Landing.Toll
		r.Landing.Toll = &Toll{
			OwnerID:          t.OwnerID,
			Amount:           t.Amount,
			OwnerAmount:      t.OwnerAmount,
			TreasuryOverflow: t.TreasuryOverflow,
			Bankrupt:         t.Bankrupt,
		}
	}
	return r
}
