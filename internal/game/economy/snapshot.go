package economy

import (
	"SanguoRich/internal/game/domain"

	"go.uber.org/multierr"
)

// boardSnapshot 是补偿回滚用的纯值拷贝：相关玩家 + 国库计数。
type boardSnapshot struct {
	players  []domain.PlayerSnapshot
	treasury int64
}

// captureBoard 不传 ids 时拍下全部玩家。
func captureBoard(board *domain.BoardState, ids ...string) boardSnapshot {
	var s boardSnapshot
	if len(ids) == 0 {
		for _, p := range board.Players() {
			s.players = append(s.players, p.Snapshot())
		}
	} else {
		for _, id := range ids {
			if p, ok := board.TryGetPlayer(id); ok {
				s.players = append(s.players, p.Snapshot())
			}
		}
	}
	s.treasury = board.Treasury().Snapshot()
	return s
}

func (s boardSnapshot) restore(board *domain.BoardState) error {
	var err error
	for _, ps := range s.players {
		p, ok := board.TryGetPlayer(ps.PlayerID)
		if !ok {
			err = multierr.Append(err, domain.ErrUnknownPlayer.WithData("player_id", ps.PlayerID))
			continue
		}
		err = multierr.Append(err, p.Restore(ps))
	}
	board.Treasury().Restore(s.treasury)
	return err
}

// rollback 恢复快照并返回原始错误；恢复本身失败时把两个错误合并返回。
func rollback(board *domain.BoardState, s boardSnapshot, cause error) error {
	if rerr := s.restore(board); rerr != nil {
		return multierr.Append(cause, domain.ErrDataIntegrity.WithMsgf("回滚失败").WithCause(rerr))
	}
	return cause
}
