package actors

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"SanguoRich/internal/game/app"
	"SanguoRich/internal/game/app/port"
	"SanguoRich/internal/game/dc"
	"SanguoRich/modules/kit/errx"
	"SanguoRich/modules/kit/logx"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

const (
	loadTimeout  = 5 * time.Second
	closeTimeout = 3 * time.Second
)

// Deps 是 GameActor 运行所需的外部依赖，由 cmd 装配。
type Deps struct {
	Catalog    *app.Catalog
	Repo       port.GameRepository
	Journal    port.EventJournal
	Log        logx.Logger
	Reporter   logx.ErrorReporter
	FlushEvery time.Duration
}

// GameActor 独占一局游戏的 Session；所有命令在同一个 actor 里串行执行，满足单写者约束。
type GameActor struct {
	state      State
	gameID     string
	deps       Deps
	log        logx.Logger
	dc         *dc.GameDC
	session    *app.Session
	dispatcher *Dispatcher
	flushStop  chan struct{}
}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

func NewGameActor(gameID string, deps Deps) *GameActor {
	log := logx.With(deps.Log, zap.String("game_id", gameID))
	opts := []dc.Option{dc.WithLogger(log)}
	if deps.FlushEvery > 0 {
		opts = append(opts, dc.WithFlushEvery(deps.FlushEvery))
	}
	return &GameActor{
		state:      None,
		gameID:     gameID,
		deps:       deps,
		log:        log,
		dc:         dc.NewGameDC(deps.Repo, opts...),
		dispatcher: NewDispatcher(),
	}
}

func (g *GameActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		g.state = Init
		g.init(ctx)
		return
	case *actor.Stopping:
		g.stopFlushLoop()
		g.closeDC()
		g.state = Stopping
		return
	case *actor.Stopped:
		g.stopFlushLoop()
		g.state = Offline
		return
	case *actor.Restarting:
		g.stopFlushLoop()
		g.closeDC()
		g.state = Init
		return
	case flushTick:
		if g.state != Online {
			return
		}
		if err := g.dc.Flush(context.Background()); err != nil {
			g.log.Error("game periodic flush failed", zap.Error(err))
		}
		return
	case GameMessage:
		if g.state != Online {
			ctx.Respond(fail(errx.ErrUnavailable.WithMsgf("game %s not online", g.gameID)))
			return
		}
		g.dispatcher.Dispatch(ctx, g, msg)
	default:
		return
	}
}

func (g *GameActor) init(ctx actor.Context) {
	if err := g.open(); err != nil {
		g.log.Error("game actor init failed", zap.Error(err))
		g.state = Stopping
		ctx.Stop(ctx.Self())
		return
	}
	g.state = Online
	g.startFlushLoop(ctx)
}

func (g *GameActor) open() error {
	setup, ok := g.deps.Catalog.Lookup(g.gameID)
	if !ok {
		return app.ErrGameNotFound.WithData("game_id", g.gameID)
	}
	loadCtx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	snap, err := g.dc.Load(loadCtx, g.gameID)
	if err != nil {
		return err
	}
	session, err := app.OpenSession(setup, snap, app.SessionOptions{
		Log:      g.log,
		Reporter: g.deps.Reporter,
		Journal:  g.deps.Journal,
	})
	if err != nil {
		return err
	}
	g.session = session
	g.dc.Bind(session.Turn)
	return nil
}

func (g *GameActor) closeDC() {
	closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := g.dc.Close(closeCtx); err != nil {
		g.log.Error("game dc close failed", zap.Error(err))
	}
}

func (g *GameActor) GameID() string {
	return g.gameID
}

func (g *GameActor) Session() *app.Session {
	return g.session
}

func (g *GameActor) startFlushLoop(ctx actor.Context) {
	if g.flushStop != nil {
		return
	}
	interval := g.dc.FlushEvery()
	if interval <= 0 {
		return
	}
	g.flushStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, flushTick{})
			case <-stop:
				return
			}
		}
	}(g.flushStop, interval)
}

func (g *GameActor) stopFlushLoop() {
	if g.flushStop == nil {
		return
	}
	close(g.flushStop)
	g.flushStop = nil
}
