package turn

import (
	"context"
	"maps"

	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/economy"
	"SanguoRich/internal/game/event"

	"go.uber.org/multierr"
)

// AdvanceTurn 结束当前回合并推进到下一位存活玩家。
//
// 单次调用内的事件顺序固定：
// turn.ended → [month.settled] → [season.applied] → [year.price_adjusted × 城池] → turn.advanced → turn.started → [AI 行动]。
// 跨界结算任一步失败，玩家、国库、城池、季度倍率与回合游标全部恢复到调用前。
func (m *Manager) AdvanceTurn(ctx context.Context, meta event.Meta) error {
	defer m.guard.Enter("TurnManager.AdvanceTurn")()
	if err := requireMeta(meta); err != nil {
		return err
	}
	switch {
	case m.ended:
		return domain.ErrGameEnded.WithData("game_id", m.cfg.GameID).WithData("end_reason", m.endReason)
	case !m.started:
		return ErrNotStarted.WithData("game_id", m.cfg.GameID)
	}

	if m.humanEliminated() {
		return m.endGame(ctx, meta, event.EndReasonHumanEliminated)
	}

	ended := &event.TurnEndedPayload{GameId: m.cfg.GameID, TurnNumber: m.turnNumber, ActivePlayerId: m.activeID()}
	if err := m.publish(ctx, event.TypeTurnEnded, meta, ended); err != nil {
		return err
	}

	point := m.capture()
	over, err := m.advance(ctx, meta)
	if err != nil {
		return m.restore(point, err)
	}
	m.markDirty()
	if over {
		return nil
	}
	if active := m.activeID(); m.cfg.IsAI(active) {
		return m.runAI(ctx, meta, active)
	}
	return nil
}

func (m *Manager) advance(ctx context.Context, meta event.Meta) (gameOver bool, err error) {
	survivors, next := m.pruneAndRotate()
	if len(survivors) == 0 {
		m.turnOrder = nil
		m.activeIndex = 0
		return true, m.endGame(ctx, meta, event.EndReasonNoPlayers)
	}

	prev := m.date
	date, err := prev.AddDays(1)
	if err != nil {
		return false, err
	}
	m.turnOrder = survivors
	m.activeIndex = next
	m.turnNumber++
	m.date = date
	m.rolled = false

	yearChanged := date.Year() != prev.Year()
	if yearChanged || date.Month() != prev.Month() {
		// 结算的是刚刚结束的那个月。
		if _, err := m.economy.SettleMonth(ctx, meta, m.board, prev.Year(), prev.Month()); err != nil {
			return false, err
		}
	}
	if yearChanged || date.Quarter() != prev.Quarter() {
		if err := m.rollSeason(ctx, meta, date); err != nil {
			return false, err
		}
	}
	if yearChanged {
		if _, err := m.economy.ApplyYearlyPriceAdjustment(ctx, meta, m.board, date.Year(), m.rng); err != nil {
			return false, err
		}
	}

	if err := m.publish(ctx, event.TypeTurnAdvanced, meta, m.turnPayload()); err != nil {
		return false, err
	}
	if err := m.publish(ctx, event.TypeTurnStarted, meta, m.turnPayload()); err != nil {
		return false, err
	}
	return false, nil
}

func (m *Manager) humanEliminated() bool {
	for _, p := range m.board.Players() {
		if !m.cfg.IsAI(p.ID()) && p.IsEliminated() {
			return true
		}
	}
	return false
}

// pruneAndRotate 剔除已淘汰的 AI（人类玩家永不剔除），并找出当前玩家之后的第一位存活者。
func (m *Manager) pruneAndRotate() (survivors []string, next int) {
	alive := func(id string) bool {
		if !m.cfg.IsAI(id) {
			return true
		}
		p, ok := m.board.TryGetPlayer(id)
		return ok && !p.IsEliminated()
	}
	n := len(m.turnOrder)
	for _, id := range m.turnOrder {
		if alive(id) {
			survivors = append(survivors, id)
		}
	}
	if len(survivors) == 0 {
		return nil, 0
	}
	for step := 1; step <= n; step++ {
		id := m.turnOrder[(m.activeIndex+step)%n]
		if !alive(id) {
			continue
		}
		for i, s := range survivors {
			if s == id {
				return survivors, i
			}
		}
	}
	return survivors, 0
}

// rollSeason 先重置为中性倍率，再取一次随机数决定是否触发区域事件。
func (m *Manager) rollSeason(ctx context.Context, meta event.Meta, date domain.CalendarDate) error {
	m.economy.ResetSeasonYieldAdjustment()
	d := m.rng.NextDouble()
	if !(d >= 0 && d <= 1) {
		return domain.ErrRandomOutOfRange.WithData("value", d).WithData("draw", "season_trigger")
	}
	if d >= m.cfg.SeasonEventChance {
		return nil
	}
	regions := m.board.Regions()
	if len(regions) == 0 {
		return nil
	}
	idx := m.rng.NextInt(0, len(regions))
	if idx < 0 || idx >= len(regions) {
		return domain.ErrRandomOutOfRange.WithData("value", idx).WithData("draw", "season_region")
	}
	return m.economy.ApplySeasonEvent(ctx, meta, date.Year(), date.Quarter(), []string{regions[idx]}, m.cfg.SeasonYieldMultiplier)
}

type cursor struct {
	turnOrder   []string
	turnNumber  int
	activeIndex int
	date        domain.CalendarDate
	rolled      bool
	ended       bool
	endReason   string
}

type rollbackPoint struct {
	cursor   cursor
	players  []domain.PlayerSnapshot
	treasury int64
	cities   map[string]domain.City
	yield    economy.YieldAdjustment
}

func (m *Manager) capture() rollbackPoint {
	p := rollbackPoint{
		cursor: cursor{
			turnOrder:   append([]string(nil), m.turnOrder...),
			turnNumber:  m.turnNumber,
			activeIndex: m.activeIndex,
			date:        m.date,
			rolled:      m.rolled,
			ended:       m.ended,
			endReason:   m.endReason,
		},
		treasury: m.board.Treasury().Snapshot(),
		cities:   m.board.GetCitiesSnapshot(),
		yield:    m.economy.ActiveSeasonYieldAdjustment(),
	}
	for _, pl := range m.board.Players() {
		p.players = append(p.players, pl.Snapshot())
	}
	return p
}

func (m *Manager) restore(p rollbackPoint, cause error) error {
	var err error
	for _, ps := range p.players {
		pl, ok := m.board.TryGetPlayer(ps.PlayerID)
		if !ok {
			err = multierr.Append(err, domain.ErrUnknownPlayer.WithData("player_id", ps.PlayerID))
			continue
		}
		err = multierr.Append(err, pl.Restore(ps))
	}
	m.board.Treasury().Restore(p.treasury)
	err = multierr.Append(err, m.board.RestoreCities(maps.Clone(p.cities)))
	m.economy.RestoreSeasonYieldAdjustment(p.yield)

	c := p.cursor
	m.turnOrder = c.turnOrder
	m.turnNumber = c.turnNumber
	m.activeIndex = c.activeIndex
	m.date = c.date
	m.rolled = c.rolled
	m.ended = c.ended
	m.endReason = c.endReason

	if err != nil {
		return multierr.Append(cause, domain.ErrDataIntegrity.WithMsgf("回合回滚失败").WithCause(err))
	}
	return cause
}
