package memory

import (
	"context"
	"slices"
	"sync"

	"SanguoRich/internal/game/turn"
)

// GameRepository 进程内存档，未配置 MongoDB 时使用；进程退出即丢失。
type GameRepository struct {
	mu    sync.RWMutex
	games map[string]turn.GameSnapshot
}

func NewGameRepository() *GameRepository {
	return &GameRepository{games: make(map[string]turn.GameSnapshot)}
}

func (r *GameRepository) LoadGame(_ context.Context, gameID string) (*turn.GameSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.games[gameID]
	if !ok {
		return nil, nil
	}
	out := clone(s)
	return &out, nil
}

// Save 只接受更高版本，乱序到达的旧快照直接忽略。
func (r *GameRepository) Save(_ context.Context, s *turn.GameSnapshot) error {
	if s == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.games[s.GameID]; ok && cur.Version >= s.Version {
		return nil
	}
	r.games[s.GameID] = clone(*s)
	return nil
}

func clone(s turn.GameSnapshot) turn.GameSnapshot {
	s.TurnOrder = slices.Clone(s.TurnOrder)
	s.Cities = slices.Clone(s.Cities)
	s.Yield.RegionIDs = slices.Clone(s.Yield.RegionIDs)
	s.Players = slices.Clone(s.Players)
	for i := range s.Players {
		s.Players[i].OwnedCityIDs = slices.Clone(s.Players[i].OwnedCityIDs)
	}
	return s
}
