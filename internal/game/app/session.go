package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"SanguoRich/internal/game/app/port"
	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/economy"
	"SanguoRich/internal/game/event"
	"SanguoRich/internal/game/rng"
	"SanguoRich/internal/game/turn"
	"SanguoRich/modules/kit/logx"
)

const defaultRecorderLimit = 512

// Session 把一局游戏的棋盘、经济、回合引擎和事件总线装配在一起。
// 与 turn.Manager 一样只允许单写者使用（由 GameActor 保证）。
type Session struct {
	Turn     *turn.Manager
	Economy  *economy.Manager
	Bus      *event.Bus
	Recorder *event.Recorder
	Seed     int64
}

type SessionOptions struct {
	Log           logx.Logger
	Reporter      logx.ErrorReporter
	Journal       port.EventJournal
	RecorderLimit int
	Clock         func() time.Time
	// Source 替换随机源，缺省按 Setup.Seed 创建 rng.Seeded。
	Source rng.Source
}

// OpenSession 新开一局；snap 非空时从快照恢复。
func OpenSession(setup *Setup, snap *turn.GameSnapshot, opts SessionOptions) (*Session, error) {
	log := logx.OrNop(opts.Log)
	reporter := logx.ReporterOrNop(opts.Reporter)

	var (
		board *domain.BoardState
		err   error
	)
	if snap != nil {
		board, err = turn.RebuildBoard(*snap, setup.Rules)
	} else {
		board, err = setup.NewBoard()
	}
	if err != nil {
		return nil, err
	}

	limit := opts.RecorderLimit
	if limit <= 0 {
		limit = defaultRecorderLimit
	}
	bus := event.NewBus()
	recorder := event.NewRecorder(limit)
	bus.Subscribe("recorder", recorder.Handle)
	bus.Subscribe("log", event.LogHandler(log))
	if opts.Journal != nil {
		bus.Subscribe("journal", journalHandler(opts.Journal, log))
	}

	econOpts := []economy.Option{economy.WithLogger(log), economy.WithReporter(reporter)}
	turnOpts := []turn.Option{turn.WithLogger(log)}
	if opts.Clock != nil {
		econOpts = append(econOpts, economy.WithClock(opts.Clock))
		turnOpts = append(turnOpts, turn.WithClock(opts.Clock))
	}

	econ, err := economy.NewManager(setup.GameID(), bus, econOpts...)
	if err != nil {
		return nil, err
	}
	src := opts.Source
	if src == nil {
		src = rng.NewSeeded(setup.Seed)
	}
	mgr, err := turn.NewManager(setup.Turn, board, econ, bus, src, turnOpts...)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		if err := mgr.Restore(*snap); err != nil {
			return nil, err
		}
	}

	log.Info("game session opened",
		zap.Bool("restored", snap != nil),
		zap.Int64("seed", setup.Seed),
	)
	return &Session{
		Turn:     mgr,
		Economy:  econ,
		Bus:      bus,
		Recorder: recorder,
		Seed:     setup.Seed,
	}, nil
}

// journalHandler 流水是旁路记录：写失败只记日志，不让对局回滚。
func journalHandler(j port.EventJournal, log logx.Logger) event.Handler {
	return func(ctx context.Context, evt event.Event) error {
		if err := j.Append(ctx, evt); err != nil {
			logx.ReportSysErrorWithLoggerContext(ctx, log, logx.NewSysLog("journal.append", err),
				zap.String("game_id", evt.GameID),
				zap.String("event_id", evt.ID),
				zap.String("event_type", string(evt.Type)),
			)
		}
		return nil
	}
}

// RecentEvents 返回最近 limit 条事件，limit<=0 返回全部缓存。
func (s *Session) RecentEvents(limit int) []event.Event {
	events := s.Recorder.Events()
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events
}
