package port

import (
	"context"

	"SanguoRich/internal/game/event"
	"SanguoRich/internal/game/turn"
)

// GameRepository 存取整局快照。对局不存在时 LoadGame 返回 (nil, nil)。
type GameRepository interface {
	LoadGame(ctx context.Context, gameID string) (*turn.GameSnapshot, error)
	Save(ctx context.Context, s *turn.GameSnapshot) error
}

// EventJournal 追加领域事件流水。
type EventJournal interface {
	Append(ctx context.Context, evt event.Event) error
}
