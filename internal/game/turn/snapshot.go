package turn

import (
	"maps"
	"slices"

	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/economy"
)

// CitySnapshot 是城池的可序列化值拷贝。
type CitySnapshot struct {
	ID            string
	Name          string
	RegionID      string
	BasePrice     domain.Money
	BaseToll      domain.Money
	PositionIndex int
}

func citySnapshotOf(c domain.City) CitySnapshot {
	return CitySnapshot{
		ID:            c.ID(),
		Name:          c.Name(),
		RegionID:      c.RegionID(),
		BasePrice:     c.BasePrice(),
		BaseToll:      c.BaseToll(),
		PositionIndex: c.PositionIndex(),
	}
}

func (s CitySnapshot) City() (domain.City, error) {
	return domain.NewCity(s.ID, s.Name, s.RegionID, s.BasePrice, s.BaseToll, s.PositionIndex)
}

// GameSnapshot 是一局游戏的完整持久化快照（存档 / 读档 / 查询）。
type GameSnapshot struct {
	GameID             string
	Version            uint64
	TurnNumber         int
	ActivePlayerIndex  int
	TurnOrder          []string
	Year               int
	Month              int
	Day                int
	Started            bool
	Ended              bool
	EndReason          string
	Rolled             bool
	Players            []domain.PlayerSnapshot
	Cities             []CitySnapshot
	TreasuryMinorUnits int64
	Yield              economy.YieldAdjustment
}

// ActivePlayerID 没有存活玩家时返回空串。
func (s GameSnapshot) ActivePlayerID() string {
	if s.ActivePlayerIndex < 0 || s.ActivePlayerIndex >= len(s.TurnOrder) {
		return ""
	}
	return s.TurnOrder[s.ActivePlayerIndex]
}

// Snapshot 拍下当前完整状态，城池按 id 排序。
func (m *Manager) Snapshot() GameSnapshot {
	defer m.guard.Enter("TurnManager.Snapshot")()
	return m.snapshot(0)
}

func (m *Manager) snapshot(version uint64) GameSnapshot {
	s := GameSnapshot{
		GameID:             m.cfg.GameID,
		Version:            version,
		TurnNumber:         m.turnNumber,
		ActivePlayerIndex:  m.activeIndex,
		TurnOrder:          slices.Clone(m.turnOrder),
		Year:               m.date.Year(),
		Month:              m.date.Month(),
		Day:                m.date.Day(),
		Started:            m.started,
		Ended:              m.ended,
		EndReason:          m.endReason,
		Rolled:             m.rolled,
		TreasuryMinorUnits: m.board.Treasury().Snapshot(),
		Yield:              m.economy.ActiveSeasonYieldAdjustment(),
	}
	for _, p := range m.board.Players() {
		s.Players = append(s.Players, p.Snapshot())
	}
	cities := m.board.GetCitiesSnapshot()
	for _, id := range slices.Sorted(maps.Keys(cities)) {
		s.Cities = append(s.Cities, citySnapshotOf(cities[id]))
	}
	return s
}

func (m *Manager) Dirty() bool {
	defer m.guard.Enter("TurnManager.Dirty")()
	return m.dirty
}

func (m *Manager) ClearDirty() {
	defer m.guard.Enter("TurnManager.ClearDirty")()
	m.dirty = false
}

// BuildPersistSnapshot 只有脏数据时才生成快照，并清除脏标记。
func (m *Manager) BuildPersistSnapshot(version uint64) (*GameSnapshot, bool) {
	defer m.guard.Enter("TurnManager.BuildPersistSnapshot")()
	if !m.dirty {
		return nil, false
	}
	s := m.snapshot(version)
	m.dirty = false
	return &s, true
}

// Restore 把整局状态恢复到快照。玩家集合必须与当前棋盘一致。
func (m *Manager) Restore(s GameSnapshot) error {
	defer m.guard.Enter("TurnManager.Restore")()
	if s.GameID != m.cfg.GameID {
		return domain.ErrInvalidArgument.WithMsgf("快照 %s 不属于对局 %s", s.GameID, m.cfg.GameID)
	}
	date, err := domain.NewCalendarDate(s.Year, s.Month, s.Day)
	if err != nil {
		return err
	}
	cities := make(map[string]domain.City, len(s.Cities))
	for _, cs := range s.Cities {
		c, err := cs.City()
		if err != nil {
			return err
		}
		cities[c.ID()] = c
	}
	for _, id := range s.TurnOrder {
		if _, ok := m.board.TryGetPlayer(id); !ok {
			return domain.ErrUnknownPlayer.WithData("player_id", id)
		}
	}
	// 先全部校验再落地，避免恢复到一半留下混合状态。
	players := make([]*domain.Player, len(s.Players))
	for i, ps := range s.Players {
		p, ok := m.board.TryGetPlayer(ps.PlayerID)
		if !ok {
			return domain.ErrUnknownPlayer.WithData("player_id", ps.PlayerID)
		}
		if err := ps.Validate(); err != nil {
			return err
		}
		players[i] = p
	}
	for i, ps := range s.Players {
		if err := players[i].Restore(ps); err != nil {
			return err
		}
	}
	if err := m.board.RestoreCities(cities); err != nil {
		return err
	}
	m.board.Treasury().Restore(s.TreasuryMinorUnits)
	m.economy.RestoreSeasonYieldAdjustment(s.Yield)

	m.turnOrder = slices.Clone(s.TurnOrder)
	m.turnNumber = s.TurnNumber
	m.activeIndex = s.ActivePlayerIndex
	m.date = date
	m.started = s.Started
	m.ended = s.Ended
	m.endReason = s.EndReason
	m.rolled = s.Rolled
	m.dirty = false
	return nil
}

// RebuildBoard 从快照重建棋盘（读档时先建棋盘，再由 Manager.Restore 恢复游标）。
func RebuildBoard(s GameSnapshot, rules domain.EconomyRules) (*domain.BoardState, error) {
	players := make([]*domain.Player, 0, len(s.Players))
	for _, ps := range s.Players {
		p, err := domain.RestorePlayer(ps)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	cities := make(map[string]domain.City, len(s.Cities))
	for _, cs := range s.Cities {
		c, err := cs.City()
		if err != nil {
			return nil, err
		}
		cities[c.ID()] = c
	}
	treasury, err := domain.RestoreTreasury(s.TreasuryMinorUnits)
	if err != nil {
		return nil, err
	}
	return domain.NewBoardState(players, cities, rules, treasury)
}
