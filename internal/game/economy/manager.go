// Package economy 负责月结、季度收益调整、年度调价，以及“修改状态 + 发布事件”的原子组合。
//
// 所有 *AndPublish 方法遵循同一个补偿流程：快照 → 修改 → 发布 → 发布失败时恢复快照并返回原错误。
package economy

import (
	"context"
	"time"

	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/event"
	"SanguoRich/modules/kit/logx"

	"go.uber.org/zap"
)

// Manager 是单局游戏的经济管理器，和 BoardState 一样只允许单写者使用。
type Manager struct {
	gameID    string
	publisher event.Publisher
	events    event.Factory
	log       logx.Logger
	reporter  logx.ErrorReporter
	yield     YieldAdjustment
}

type Option func(*Manager)

func WithLogger(l logx.Logger) Option {
	return func(m *Manager) { m.log = logx.OrNop(l) }
}

func WithReporter(r logx.ErrorReporter) Option {
	return func(m *Manager) { m.reporter = logx.ReporterOrNop(r) }
}

// WithClock 替换事件时间来源。
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.events.Now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.events.NewID = newID }
}

func NewManager(gameID string, publisher event.Publisher, opts ...Option) (*Manager, error) {
	if gameID == "" {
		return nil, domain.ErrInvalidArgument.WithData("field", "game_id")
	}
	if publisher == nil {
		return nil, domain.ErrInvalidArgument.WithData("field", "publisher")
	}
	m := &Manager{
		gameID:    gameID,
		publisher: publisher,
		events:    event.NewFactory(event.SourceEconomyManager, gameID),
		log:       logx.Nop(),
		reporter:  logx.NopReporter(),
		yield:     NeutralYield(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) GameID() string { return m.gameID }

// SetActiveSeasonYieldAdjustment 安装本季度的区域收益倍率。空白区域 id 视为不存在。
func (m *Manager) SetActiveSeasonYieldAdjustment(year, season int, regionIDs []string, multiplier float64) error {
	y, err := newYieldAdjustment(year, season, regionIDs, multiplier)
	if err != nil {
		return err
	}
	m.yield = y
	return nil
}

// ResetSeasonYieldAdjustment 恢复中性倍率，每个新季度开始时必须调用。
func (m *Manager) ResetSeasonYieldAdjustment() {
	m.yield = NeutralYield()
}

func (m *Manager) ActiveSeasonYieldAdjustment() YieldAdjustment {
	return m.yield.clone()
}

// RestoreSeasonYieldAdjustment 用于回滚与读档，原样写回，不做校验。
func (m *Manager) RestoreSeasonYieldAdjustment(y YieldAdjustment) {
	m.yield = y.clone()
}

func (m *Manager) publish(ctx context.Context, evt event.Event) error {
	if err := m.publisher.Publish(ctx, evt); err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, m.log, logx.NewSysLog("economy.publish", err),
			zap.String("game_id", m.gameID),
			zap.String("event_type", string(evt.Type)),
		)
		return err
	}
	return nil
}

// reportCapped 余额封顶属于业务结果，不是错误：溢出已进国库，这里只做尽力而为的上报。
func (m *Manager) reportCapped(ctx context.Context, playerID, reason string, overflow domain.Money) {
	if overflow.IsZero() {
		return
	}
	m.reporter.CaptureMessage(ctx, "sanguo.money_capped", map[string]any{
		"game_id":              m.gameID,
		"player_id":            playerID,
		"reason":               reason,
		"overflow_minor_units": overflow.MinorUnits(),
	})
}
