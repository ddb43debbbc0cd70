package economy

import (
	"context"

	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/event"
)

// Settlement 是单个玩家一次月结的入账额。
type Settlement struct {
	PlayerID    string
	AmountDelta domain.Money
}

// CalculateMonthSettlements 为每个未淘汰玩家累加其城池的过路费（按当前季度收益倍率调整）。
// 已淘汰玩家直接跳过，不产生 0 记录；玩家名下的城池在表中不存在是数据完整性故障。
func (m *Manager) CalculateMonthSettlements(players []*domain.Player, citiesByID map[string]domain.City) ([]Settlement, error) {
	out := make([]Settlement, 0, len(players))
	for _, p := range players {
		if p == nil {
			return nil, domain.ErrInvalidArgument.WithData("field", "players")
		}
		if p.IsEliminated() {
			continue
		}
		total := domain.Zero()
		for _, cityID := range p.OwnedCityIDs() {
			city, ok := citiesByID[cityID]
			if !ok {
				return nil, domain.ErrDataIntegrity.
					WithMsgf("玩家 %s 名下的城池 %s 不存在", p.ID(), cityID).
					WithData("player_id", p.ID()).WithData("city_id", cityID)
			}
			toll, err := city.BaseToll().Scale(m.yield.MultiplierFor(city.RegionID()))
			if err != nil {
				return nil, err
			}
			if total, err = total.Add(toll); err != nil {
				return nil, err
			}
		}
		out = append(out, Settlement{PlayerID: p.ID(), AmountDelta: total})
	}
	return out, nil
}

// SettleMonth 结算 year/month 这个刚结束的月份：入账（封顶，溢出进国库）后发布 month.settled。
// 任一步失败都会把所有玩家与国库恢复到结算前。
func (m *Manager) SettleMonth(ctx context.Context, meta event.Meta, board *domain.BoardState, year, month int) ([]Settlement, error) {
	if board == nil {
		return nil, domain.ErrInvalidArgument.WithData("field", "board")
	}
	settlements, err := m.CalculateMonthSettlements(board.Players(), board.GetCitiesSnapshot())
	if err != nil {
		return nil, err
	}

	snap := captureBoard(board)
	payload := &event.MonthSettledPayload{
		GameId:            m.gameID,
		Year:              year,
		Month:             month,
		PlayerSettlements: make([]event.PlayerSettlement, 0, len(settlements)),
	}
	for _, s := range settlements {
		p, ok := board.TryGetPlayer(s.PlayerID)
		if !ok {
			return nil, rollback(board, snap, domain.ErrUnknownPlayer.WithData("player_id", s.PlayerID))
		}
		_, overflow, err := p.ReceiveCapped(s.AmountDelta)
		if err != nil {
			return nil, rollback(board, snap, err)
		}
		if err := board.Treasury().Deposit(overflow); err != nil {
			return nil, rollback(board, snap, err)
		}
		m.reportCapped(ctx, s.PlayerID, "month_settlement", overflow)
		payload.PlayerSettlements = append(payload.PlayerSettlements, event.PlayerSettlement{
			PlayerId:    s.PlayerID,
			AmountDelta: s.AmountDelta,
		})
	}

	if err := m.publish(ctx, m.events.New(event.TypeMonthSettled, meta, payload)); err != nil {
		return nil, rollback(board, snap, err)
	}
	return settlements, nil
}

// ApplySeasonEvent 安装季度收益倍率并发布 season.applied；发布失败时恢复之前的倍率。
func (m *Manager) ApplySeasonEvent(ctx context.Context, meta event.Meta, year, season int, regionIDs []string, multiplier float64) error {
	prev := m.yield
	if err := m.SetActiveSeasonYieldAdjustment(year, season, regionIDs, multiplier); err != nil {
		return err
	}
	payload := &event.SeasonAppliedPayload{
		GameId:            m.gameID,
		Year:              year,
		Season:            season,
		AffectedRegionIds: m.ActiveSeasonYieldAdjustment().RegionIDs,
		YieldMultiplier:   multiplier,
	}
	if err := m.publish(ctx, m.events.New(event.TypeSeasonApplied, meta, payload)); err != nil {
		m.yield = prev
		return err
	}
	return nil
}
