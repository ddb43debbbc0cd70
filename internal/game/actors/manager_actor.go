package actors

import (
	"github.com/asynkron/protoactor-go/actor"

	"SanguoRich/internal/game/app"
)

// ManagerActor 按 game id 路由请求，首次访问时拉起对应的 GameActor。
type ManagerActor struct {
	deps       Deps
	gameActors map[string]*actor.PID
}

func NewManagerActor(deps Deps) *ManagerActor {
	return &ManagerActor{
		deps:       deps,
		gameActors: make(map[string]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		m.forget(msg.Who)
	case GameMessage:
		gameID := msg.GameID()
		if _, ok := m.deps.Catalog.Lookup(gameID); !ok {
			ctx.Respond(fail(app.ErrGameNotFound.WithData("game_id", gameID)))
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, gameID))
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, gameID string) *actor.PID {
	if pid, ok := m.gameActors[gameID]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGameActor(gameID, m.deps)
	})
	pid := ctx.Spawn(props)
	m.gameActors[gameID] = pid
	return pid
}

// forget GameActor 初始化失败或被停止后，下次请求重新拉起。
func (m *ManagerActor) forget(who *actor.PID) {
	if who == nil {
		return
	}
	for id, pid := range m.gameActors {
		if pid != nil && pid.Id == who.Id {
			delete(m.gameActors, id)
			return
		}
	}
}
