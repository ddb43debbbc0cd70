// Package turn 是单局游戏的回合状态机：推进日历、跨月/季/年结算、轮转玩家、驱动 AI。
package turn

import (
	"context"
	"slices"
	"time"

	"SanguoRich/internal/game/ai"
	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/economy"
	"SanguoRich/internal/game/event"
	"SanguoRich/internal/game/rng"
	"SanguoRich/modules/kit/logx"

	"go.uber.org/zap"
)

// Manager 的状态隐含在三个字段里：turnNumber、activeIndex、date。
// 与领域对象一样只允许单写者访问，重叠调用直接 panic。
type Manager struct {
	guard domain.WriterGuard

	cfg       Config
	board     *domain.BoardState
	economy   *economy.Manager
	publisher event.Publisher
	events    event.Factory
	rng       rng.Source
	log       logx.Logger

	turnOrder   []string
	turnNumber  int
	activeIndex int
	date        domain.CalendarDate
	started     bool
	ended       bool
	endReason   string
	rolled      bool
	dirty       bool
}

type Option func(*Manager)

func WithLogger(l logx.Logger) Option {
	return func(m *Manager) { m.log = logx.OrNop(l) }
}

// WithClock 替换事件时间来源。
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.events.Now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.events.NewID = newID }
}

// NewManager 创建回合引擎。回合顺序即 board 中玩家的加入顺序。
func NewManager(cfg Config, board *domain.BoardState, econ *economy.Manager, publisher event.Publisher, src rng.Source, opts ...Option) (*Manager, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	switch {
	case board == nil:
		return nil, domain.ErrInvalidArgument.WithData("field", "board")
	case econ == nil:
		return nil, domain.ErrInvalidArgument.WithData("field", "economy")
	case publisher == nil:
		return nil, domain.ErrInvalidArgument.WithData("field", "publisher")
	case src == nil:
		return nil, domain.ErrInvalidArgument.WithData("field", "rng")
	}
	m := &Manager{
		guard:      domain.WriterGuard{Owner: "turn:" + cfg.GameID},
		cfg:        cfg,
		board:      board,
		economy:    econ,
		publisher:  publisher,
		events:     event.NewFactory(event.SourceTurnManager, cfg.GameID),
		rng:        src,
		log:        logx.Nop(),
		turnOrder:  board.PlayerIDs(),
		turnNumber: 1,
		date:       cfg.StartDate,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) GameID() string { return m.cfg.GameID }

func (m *Manager) IsAI(playerID string) bool { return m.cfg.IsAI(playerID) }

func (m *Manager) Board() *domain.BoardState {
	defer m.guard.Enter("TurnManager.Board")()
	return m.board
}

func (m *Manager) TurnNumber() int {
	defer m.guard.Enter("TurnManager.TurnNumber")()
	return m.turnNumber
}

func (m *Manager) CurrentDate() domain.CalendarDate {
	defer m.guard.Enter("TurnManager.CurrentDate")()
	return m.date
}

// ActivePlayerID 没有存活玩家时返回空串。
func (m *Manager) ActivePlayerID() string {
	defer m.guard.Enter("TurnManager.ActivePlayerID")()
	return m.activeID()
}

func (m *Manager) TurnOrder() []string {
	defer m.guard.Enter("TurnManager.TurnOrder")()
	return slices.Clone(m.turnOrder)
}

func (m *Manager) IsEnded() (bool, string) {
	defer m.guard.Enter("TurnManager.IsEnded")()
	return m.ended, m.endReason
}

// TotalPositions 显式配置优先；否则按出现过的最大位置 +1 推算。
func (m *Manager) TotalPositions() int {
	defer m.guard.Enter("TurnManager.TotalPositions")()
	return m.totalPositions()
}

// Start 发布第 1 回合的 turn.started；首个玩家是 AI 时立即自动行动。
func (m *Manager) Start(ctx context.Context, meta event.Meta) error {
	defer m.guard.Enter("TurnManager.Start")()
	if err := requireMeta(meta); err != nil {
		return err
	}
	switch {
	case m.ended:
		return domain.ErrGameEnded.WithData("game_id", m.cfg.GameID)
	case m.started:
		return ErrAlreadyStarted.WithData("game_id", m.cfg.GameID)
	}
	if len(m.turnOrder) == 0 {
		m.started = true
		return m.endGame(ctx, meta, event.EndReasonNoPlayers)
	}
	if err := m.publish(ctx, event.TypeTurnStarted, meta, m.turnPayload()); err != nil {
		return err
	}
	m.started = true
	m.markDirty()
	if active := m.activeID(); m.cfg.IsAI(active) {
		return m.runAI(ctx, meta, active)
	}
	return nil
}

func (m *Manager) activeID() string {
	if m.activeIndex < 0 || m.activeIndex >= len(m.turnOrder) {
		return ""
	}
	return m.turnOrder[m.activeIndex]
}

func (m *Manager) totalPositions() int {
	if m.cfg.TotalPositions > 0 {
		return m.cfg.TotalPositions
	}
	return m.board.MaxPosition() + 1
}

func (m *Manager) publish(ctx context.Context, typ event.Type, meta event.Meta, payload event.Payload) error {
	evt := m.events.New(typ, meta, payload)
	if err := m.publisher.Publish(ctx, evt); err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, m.log, logx.NewSysLog("turn.publish", err),
			zap.String("game_id", m.cfg.GameID),
			zap.String("event_type", string(typ)),
			zap.Int("turn_number", m.turnNumber),
		)
		return err
	}
	return nil
}

func (m *Manager) turnPayload() *event.TurnPayload {
	return &event.TurnPayload{
		GameId:         m.cfg.GameID,
		TurnNumber:     m.turnNumber,
		ActivePlayerId: m.activeID(),
		Year:           m.date.Year(),
		Month:          m.date.Month(),
		Day:            m.date.Day(),
	}
}

func (m *Manager) endGame(ctx context.Context, meta event.Meta, reason string) error {
	payload := &event.GameEndedPayload{GameId: m.cfg.GameID, EndReason: reason, TurnNumber: m.turnNumber}
	if err := m.publish(ctx, event.TypeGameEnded, meta, payload); err != nil {
		return err
	}
	m.ended = true
	m.endReason = reason
	m.markDirty()
	m.log.WithContext(ctx).Info("game ended",
		zap.String("game_id", m.cfg.GameID),
		zap.String("end_reason", reason),
		zap.Int("turn_number", m.turnNumber),
	)
	return nil
}

func (m *Manager) policyFor(playerID string) ai.DecisionPolicy {
	if p, ok := m.cfg.Policies[playerID]; ok && p != nil {
		return p
	}
	return m.cfg.DefaultPolicy
}

func (m *Manager) markDirty() { m.dirty = true }

func requireMeta(meta event.Meta) error {
	if meta.CorrelationID == "" {
		return domain.ErrInvalidArgument.WithData("field", "correlation_id")
	}
	return nil
}
