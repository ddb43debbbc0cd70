package model

import (
	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/economy"
	"SanguoRich/internal/game/turn"
)

// GameDoc 是对局快照在 MongoDB 中的文档，金额一律存最小单位整数。
type GameDoc struct {
	GameID             string      `bson:"_id"`
	Version            uint64      `bson:"version"`
	TurnNumber         int         `bson:"turn_number"`
	ActivePlayerIndex  int         `bson:"active_player_index"`
	TurnOrder          []string    `bson:"turn_order"`
	Year               int         `bson:"year"`
	Month              int         `bson:"month"`
	Day                int         `bson:"day"`
	Started            bool        `bson:"started"`
	Ended              bool        `bson:"ended"`
	EndReason          string      `bson:"end_reason,omitempty"`
	Rolled             bool        `bson:"rolled"`
	Players            []PlayerDoc `bson:"players"`
	Cities             []CityDoc   `bson:"cities"`
	TreasuryMinorUnits int64       `bson:"treasury_minor_units"`
	Yield              YieldDoc    `bson:"yield"`
}

type PlayerDoc struct {
	PlayerID      string   `bson:"player_id"`
	MoneyMinor    int64    `bson:"money_minor"`
	PositionIndex int      `bson:"position_index"`
	OwnedCityIDs  []string `bson:"owned_city_ids"`
	IsEliminated  bool     `bson:"is_eliminated"`
}

type CityDoc struct {
	ID             string `bson:"id"`
	Name           string `bson:"name"`
	RegionID       string `bson:"region_id"`
	BasePriceMinor int64  `bson:"base_price_minor"`
	BaseTollMinor  int64  `bson:"base_toll_minor"`
	PositionIndex  int    `bson:"position_index"`
}

type YieldDoc struct {
	Year       int      `bson:"year"`
	Season     int      `bson:"season"`
	RegionIDs  []string `bson:"region_ids"`
	Multiplier float64  `bson:"multiplier"`
}

func GameSnapshotToDoc(s turn.GameSnapshot) GameDoc {
	doc := GameDoc{
		GameID:             s.GameID,
		Version:            s.Version,
		TurnNumber:         s.TurnNumber,
		ActivePlayerIndex:  s.ActivePlayerIndex,
		TurnOrder:          s.TurnOrder,
		Year:               s.Year,
		Month:              s.Month,
		Day:                s.Day,
		Started:            s.Started,
		Ended:              s.Ended,
		EndReason:          s.EndReason,
		Rolled:             s.Rolled,
		TreasuryMinorUnits: s.TreasuryMinorUnits,
		Yield: YieldDoc{
			Year:       s.Yield.Year,
			Season:     s.Yield.Season,
			RegionIDs:  s.Yield.RegionIDs,
			Multiplier: s.Yield.Multiplier,
		},
	}
	for _, p := range s.Players {
		doc.Players = append(doc.Players, PlayerDoc{
			PlayerID:      p.PlayerID,
			MoneyMinor:    p.Money.MinorUnits(),
			PositionIndex: p.PositionIndex,
			OwnedCityIDs:  p.OwnedCityIDs,
			IsEliminated:  p.IsEliminated,
		})
	}
	for _, c := range s.Cities {
		doc.Cities = append(doc.Cities, CityDoc{
			ID:             c.ID,
			Name:           c.Name,
			RegionID:       c.RegionID,
			BasePriceMinor: c.BasePrice.MinorUnits(),
			BaseTollMinor:  c.BaseToll.MinorUnits(),
			PositionIndex:  c.PositionIndex,
		})
	}
	return doc
}

// GameDocToSnapshot 金额越界说明库里数据被改坏，直接报错。
func GameDocToSnapshot(doc GameDoc) (turn.GameSnapshot, error) {
	s := turn.GameSnapshot{
		GameID:             doc.GameID,
		Version:            doc.Version,
		TurnNumber:         doc.TurnNumber,
		ActivePlayerIndex:  doc.ActivePlayerIndex,
		TurnOrder:          doc.TurnOrder,
		Year:               doc.Year,
		Month:              doc.Month,
		Day:                doc.Day,
		Started:            doc.Started,
		Ended:              doc.Ended,
		EndReason:          doc.EndReason,
		Rolled:             doc.Rolled,
		TreasuryMinorUnits: doc.TreasuryMinorUnits,
		Yield: economy.YieldAdjustment{
			Year:       doc.Yield.Year,
			Season:     doc.Yield.Season,
			RegionIDs:  doc.Yield.RegionIDs,
			Multiplier: doc.Yield.Multiplier,
		},
	}
	if s.Yield.Multiplier == 0 && len(s.Yield.RegionIDs) == 0 {
		s.Yield = economy.NeutralYield()
	}
	for _, p := range doc.Players {
		money, err := domain.FromMinorUnits(p.MoneyMinor)
		if err != nil {
			return turn.GameSnapshot{}, err
		}
		s.Players = append(s.Players, domain.PlayerSnapshot{
			PlayerID:      p.PlayerID,
			Money:         money,
			PositionIndex: p.PositionIndex,
			OwnedCityIDs:  p.OwnedCityIDs,
			IsEliminated:  p.IsEliminated,
		})
	}
	for _, c := range doc.Cities {
		price, err := domain.FromMinorUnits(c.BasePriceMinor)
		if err != nil {
			return turn.GameSnapshot{}, err
		}
		toll, err := domain.FromMinorUnits(c.BaseTollMinor)
		if err != nil {
			return turn.GameSnapshot{}, err
		}
		s.Cities = append(s.Cities, turn.CitySnapshot{
			ID:            c.ID,
			Name:          c.Name,
			RegionID:      c.RegionID,
			BasePrice:     price,
			BaseToll:      toll,
			PositionIndex: c.PositionIndex,
		})
	}
	return s, nil
}
