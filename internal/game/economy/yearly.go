package economy

import (
	"context"
	"maps"
	"slices"

	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/event"
	"SanguoRich/internal/game/rng"
)

// 年度漂移倍率 = driftBase + rng.NextDouble()，即 [0.5, 1.5]。
const driftBase = 0.5

// PriceChange 记录一座城池的年度调价结果。
type PriceChange struct {
	CityID   string
	OldPrice domain.Money
	NewPrice domain.Money
	OldToll  domain.Money
	NewToll  domain.Money
}

// ApplyYearlyPriceAdjustment 按城池 id 排序，每座城池取两次随机数（价格一次、过路费一次），
// 结果封顶在 Money 上限。随机数不在 [0,1] 内是致命错误；任一步失败恢复全部城池。
func (m *Manager) ApplyYearlyPriceAdjustment(ctx context.Context, meta event.Meta, board *domain.BoardState, year int, src rng.Source) ([]PriceChange, error) {
	if board == nil {
		return nil, domain.ErrInvalidArgument.WithData("field", "board")
	}
	if src == nil {
		return nil, domain.ErrInvalidArgument.WithData("field", "rng")
	}
	original := board.GetCitiesSnapshot()
	fail := func(err error) ([]PriceChange, error) {
		if rerr := board.RestoreCities(original); rerr != nil {
			return nil, rerr
		}
		return nil, err
	}

	changes := make([]PriceChange, 0, len(original))
	for _, id := range slices.Sorted(maps.Keys(original)) {
		city := original[id]
		newPrice, err := drift(city.BasePrice(), src.NextDouble(), id, "price")
		if err != nil {
			return fail(err)
		}
		newToll, err := drift(city.BaseToll(), src.NextDouble(), id, "toll")
		if err != nil {
			return fail(err)
		}
		if err := board.ReplaceCity(city.WithPrices(newPrice, newToll)); err != nil {
			return fail(err)
		}
		change := PriceChange{
			CityID:   id,
			OldPrice: city.BasePrice(),
			NewPrice: newPrice,
			OldToll:  city.BaseToll(),
			NewToll:  newToll,
		}
		payload := &event.YearPriceAdjustedPayload{
			GameId:   m.gameID,
			Year:     year,
			CityId:   id,
			OldPrice: change.OldPrice,
			NewPrice: change.NewPrice,
			OldToll:  change.OldToll,
			NewToll:  change.NewToll,
		}
		if err := m.publish(ctx, m.events.New(event.TypeYearPriceAdjusted, meta, payload)); err != nil {
			return fail(err)
		}
		changes = append(changes, change)
	}
	return changes, nil
}

func drift(base domain.Money, d float64, cityID, field string) (domain.Money, error) {
	if !(d >= 0 && d <= 1) {
		return domain.Money{}, domain.ErrRandomOutOfRange.
			WithData("value", d).WithData("city_id", cityID).WithData("field", field)
	}
	return base.ScaleCapped(driftBase + d)
}
