package dto

import (
	"fmt"

	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/turn"
)

type GameState struct {
	GameID         string       `json:"gameId"`
	Version        uint64       `json:"version"`
	TurnNumber     int          `json:"turnNumber"`
	ActivePlayerID string       `json:"activePlayerId"`
	TurnOrder      []string     `json:"turnOrder"`
	Date           string       `json:"date"`
	Started        bool         `json:"started"`
	Ended          bool         `json:"ended"`
	EndReason      string       `json:"endReason,omitempty"`
	Rolled         bool         `json:"rolled"`
	Treasury       domain.Money `json:"treasury"`
	Players        []Player     `json:"players"`
	Cities         []City       `json:"cities"`
	Season         *SeasonYield `json:"season,omitempty"`
}

type Player struct {
	ID            string       `json:"id"`
	Money         domain.Money `json:"money"`
	PositionIndex int          `json:"positionIndex"`
	OwnedCityIDs  []string     `json:"ownedCityIds"`
	IsEliminated  bool         `json:"isEliminated"`
}

type City struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	RegionID      string       `json:"regionId"`
	BasePrice     domain.Money `json:"basePrice"`
	BaseToll      domain.Money `json:"baseToll"`
	PositionIndex int          `json:"positionIndex"`
	OwnerID       string       `json:"ownerId,omitempty"`
}

type SeasonYield struct {
	Year       int      `json:"year"`
	Season     int      `json:"season"`
	RegionIDs  []string `json:"regionIds"`
	Multiplier float64  `json:"multiplier"`
}

// FromSnapshot 把快照转成接口视图，城池附带当前归属。
func FromSnapshot(s *turn.GameSnapshot) *GameState {
	if s == nil {
		return nil
	}
	out := &GameState{
		GameID:         s.GameID,
		Version:        s.Version,
		TurnNumber:     s.TurnNumber,
		ActivePlayerID: s.ActivePlayerID(),
		TurnOrder:      s.TurnOrder,
		Date:           fmt.Sprintf("%d-%02d-%02d", s.Year, s.Month, s.Day),
		Started:        s.Started,
		Ended:          s.Ended,
		EndReason:      s.EndReason,
		Rolled:         s.Rolled,
		Players:        make([]Player, 0, len(s.Players)),
		Cities:         make([]City, 0, len(s.Cities)),
	}
	if t, err := domain.FromMinorUnits(s.TreasuryMinorUnits); err == nil {
		out.Treasury = t
	}

	owners := make(map[string]string)
	for _, p := range s.Players {
		out.Players = append(out.Players, Player{
			ID:            p.PlayerID,
			Money:         p.Money,
			PositionIndex: p.PositionIndex,
			OwnedCityIDs:  p.OwnedCityIDs,
			IsEliminated:  p.IsEliminated,
		})
		for _, id := range p.OwnedCityIDs {
			owners[id] = p.PlayerID
		}
	}
	for _, c := range s.Cities {
		out.Cities = append(out.Cities, City{
			ID:            c.ID,
			Name:          c.Name,
			RegionID:      c.RegionID,
			BasePrice:     c.BasePrice,
			BaseToll:      c.BaseToll,
			PositionIndex: c.PositionIndex,
			OwnerID:       owners[c.ID],
		})
	}
	if !s.Yield.IsNeutral() {
		out.Season = &SeasonYield{
			Year:       s.Yield.Year,
			Season:     s.Yield.Season,
			RegionIDs:  s.Yield.RegionIDs,
			Multiplier: s.Yield.Multiplier,
		}
	}
	return out
}
