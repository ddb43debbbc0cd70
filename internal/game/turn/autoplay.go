package turn

import (
	"context"

	"SanguoRich/internal/game/ai"
	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/event"
)

// RollOutcome 描述一次掷骰移动及落地结算。Dice 为 0 表示没有移动（棋盘未配置格子数或玩家已淘汰）。
type RollOutcome struct {
	PlayerID     string
	Dice         int
	FromPosition int
	ToPosition   int
	PassedStart  bool
	Landing      Landing
}

type Landing struct {
	CityID   string
	Bought   bool
	TollPaid bool
	Toll     domain.TollReceipt
}

// runAI 让 AI 基于自己的只读视图做决策。掷骰后的落地结算与人类完全走同一套经济入口。
func (m *Manager) runAI(ctx context.Context, meta event.Meta, playerID string) error {
	p, ok := m.board.TryGetPlayer(playerID)
	if !ok {
		return domain.ErrUnknownPlayer.WithData("player_id", playerID)
	}
	if p.IsEliminated() {
		return nil
	}
	decision := m.policyFor(playerID).Decide(ctx, p.ToView())
	payload := &event.AiDecisionMadePayload{
		GameId:     m.cfg.GameID,
		PlayerId:   playerID,
		TurnNumber: m.turnNumber,
		Decision:   string(decision),
	}
	if err := m.publish(ctx, event.TypeAiDecisionMade, meta, payload); err != nil {
		return err
	}
	if decision != ai.DecisionRollDice {
		return nil
	}
	_, err := m.rollAndMove(ctx, meta, p, true)
	return err
}

func (m *Manager) rollAndMove(ctx context.Context, meta event.Meta, p *domain.Player, autoBuy bool) (RollOutcome, error) {
	out := RollOutcome{PlayerID: p.ID(), FromPosition: p.PositionIndex()}
	out.ToPosition = out.FromPosition
	total := m.totalPositions()
	if total <= 0 || p.IsEliminated() {
		return out, nil
	}

	die := m.rng.NextInt(1, 7)
	if die < 1 || die > 6 {
		return out, domain.ErrRandomOutOfRange.WithData("value", die).WithData("draw", "dice")
	}
	rolled := &event.DiceRolledPayload{GameId: m.cfg.GameID, PlayerId: p.ID(), TurnNumber: m.turnNumber, Value: die}
	if err := m.publish(ctx, event.TypeDiceRolled, meta, rolled); err != nil {
		return out, err
	}
	m.rolled = true
	m.markDirty()

	sum := out.FromPosition + die
	out.Dice = die
	out.ToPosition = sum % total
	out.PassedStart = sum >= total
	moved := &event.TokenMovedPayload{
		GameId:       m.cfg.GameID,
		PlayerId:     p.ID(),
		FromPosition: out.FromPosition,
		ToPosition:   out.ToPosition,
		Steps:        die,
		PassedStart:  out.PassedStart,
	}
	if err := m.publish(ctx, event.TypeTokenMoved, meta, moved); err != nil {
		return out, err
	}
	if err := p.MoveTo(out.ToPosition); err != nil {
		return out, err
	}

	landing, err := m.resolveLanding(ctx, meta, p, out.ToPosition, autoBuy)
	out.Landing = landing
	return out, err
}

// resolveLanding：落在他人城池上交过路费；落在无主城池上且 autoBuy 时尝试购买。
func (m *Manager) resolveLanding(ctx context.Context, meta event.Meta, p *domain.Player, pos int, autoBuy bool) (Landing, error) {
	city, ok := m.board.CityAtPosition(pos)
	if !ok {
		return Landing{}, nil
	}
	landing := Landing{CityID: city.ID()}
	owner, found, err := m.board.TryGetOwnerOfCity(city.ID())
	if err != nil {
		return landing, err
	}
	switch {
	case found && owner.ID() != p.ID():
		receipt, paid, err := m.economy.TryPayTollAndPublish(ctx, meta, m.board, p.ID(), owner.ID(), city.ID(), m.cfg.TollMultiplier)
		if err != nil {
			return landing, err
		}
		landing.TollPaid, landing.Toll = paid, receipt
	case !found && autoBuy:
		bought, err := m.economy.TryBuyCityAndPublish(ctx, meta, m.board, p.ID(), city.ID(), m.cfg.PriceMultiplier)
		if err != nil {
			return landing, err
		}
		landing.Bought = bought
	}
	return landing, nil
}

// RollDice 是人类玩家的掷骰指令：每回合一次，落地后自动交过路费，买城需要另发 BuyCity。
func (m *Manager) RollDice(ctx context.Context, meta event.Meta, playerID string) (RollOutcome, error) {
	defer m.guard.Enter("TurnManager.RollDice")()
	p, err := m.humanCommand(meta, playerID)
	if err != nil {
		return RollOutcome{}, err
	}
	if m.rolled {
		return RollOutcome{}, ErrAlreadyRolled.WithData("player_id", playerID)
	}
	return m.rollAndMove(ctx, meta, p, false)
}

// BuyCity 购买当前所在格子的城池。被他人占有或钱不够返回 false。
func (m *Manager) BuyCity(ctx context.Context, meta event.Meta, playerID string) (bool, error) {
	defer m.guard.Enter("TurnManager.BuyCity")()
	p, err := m.humanCommand(meta, playerID)
	if err != nil {
		return false, err
	}
	city, ok := m.board.CityAtPosition(p.PositionIndex())
	if !ok {
		return false, ErrNoCityHere.WithData("position_index", p.PositionIndex())
	}
	bought, err := m.economy.TryBuyCityAndPublish(ctx, meta, m.board, playerID, city.ID(), m.cfg.PriceMultiplier)
	if bought {
		m.markDirty()
	}
	return bought, err
}

func (m *Manager) humanCommand(meta event.Meta, playerID string) (*domain.Player, error) {
	if err := requireMeta(meta); err != nil {
		return nil, err
	}
	switch {
	case m.ended:
		return nil, domain.ErrGameEnded.WithData("game_id", m.cfg.GameID)
	case !m.started:
		return nil, ErrNotStarted.WithData("game_id", m.cfg.GameID)
	case m.cfg.IsAI(playerID):
		return nil, ErrNotHumanPlayer.WithData("player_id", playerID)
	case m.activeID() != playerID:
		return nil, ErrNotActivePlayer.WithData("player_id", playerID).WithData("active_player_id", m.activeID())
	}
	p, ok := m.board.TryGetPlayer(playerID)
	if !ok {
		return nil, domain.ErrUnknownPlayer.WithData("player_id", playerID)
	}
	return p, nil
}
