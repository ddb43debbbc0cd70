package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"SanguoRich/internal/game/actor"
	"SanguoRich/internal/game/actors"
	"SanguoRich/internal/game/app"
	"SanguoRich/internal/game/app/port"
	journalmysql "SanguoRich/internal/game/infra/journal/mysql"
	"SanguoRich/internal/game/infra/persistence/memory"
	gamemongo "SanguoRich/internal/game/infra/persistence/mongodb"
	gamehttp "SanguoRich/internal/game/interfaces/http"
	"SanguoRich/internal/shared/infrastructure/db"
	sharedmongo "SanguoRich/internal/shared/infrastructure/mongo"
	"SanguoRich/internal/shared/logs"
	"SanguoRich/internal/shared/serverconfig"
	transporthttp "SanguoRich/internal/shared/transport/http"
	"SanguoRich/modules/kit/logx"
)

const defaultHTTPPort = 8080

func main() {
	serverconfig.Load("")
	conf := serverconfig.Current()
	if err := logs.Init("game", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", conf))

	// 只有日志级别支持热更新；对局规则变更需要重启。
	serverconfig.OnChange(func(c serverconfig.Config) {
		logs.SetLevel(c.Log.Level)
		logs.Info("config reloaded", zap.String("log_level", c.Log.Level))
	})
	serverconfig.OnError(func(err error) {
		logs.Warn("config reload failed, keep previous", zap.Error(err))
	})

	setup, err := app.NewSetup(conf.Game)
	if err != nil {
		logs.Fatal("build game setup failed", zap.Error(err))
	}
	catalog, err := app.NewCatalog(setup)
	if err != nil {
		logs.Fatal("build game catalog failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo := openRepository(ctx, conf.MongoDB)
	defer closeRepo()

	deps := actors.Deps{
		Catalog:    catalog,
		Repo:       repo,
		Log:        logs.Kit(),
		Reporter:   logx.NewLoggerReporter(logs.Kit()),
		FlushEvery: conf.Game.FlushEvery,
	}
	if conf.MySQL.Enabled {
		journal, closeJournal := openJournal(ctx, conf.MySQL)
		defer closeJournal()
		deps.Journal = journal
	}

	runtime := actor.NewRuntime(deps, conf.Game.AskTimeout)
	logs.Info("game runtime started",
		zap.String("game_id", runtime.DefaultGameID()),
		zap.Int64("seed", setup.Seed),
	)

	server := transporthttp.NewHttpServer(httpAddr(conf.HTTPServer), nil, logs.Kit())
	gamehttp.NewHandler(runtime, logs.Kit()).RegisterRoutes(server.Router())

	if err := server.Run(ctx); err != nil {
		logs.Error("服务异常退出", zap.Error(err))
	} else {
		logs.Info("收到退出信号，准备优雅退出")
	}
	// HTTP 先停，actor 后停，保证最后一次落盘之后不再有新命令。
	runtime.Shutdown()
}

// openRepository 配了 MongoDB 就用 MongoDB，否则退化为进程内存储（重启即丢）。
func openRepository(ctx context.Context, cfg serverconfig.MongoDBConfig) (port.GameRepository, func()) {
	if cfg.URI == "" {
		logs.Warn("mongodb uri empty, game state kept in memory only")
		return memory.NewGameRepository(), func() {}
	}
	client, err := sharedmongo.Open(ctx, cfg, logs.Logger())
	if err != nil {
		logs.Fatal("open mongodb failed", zap.Error(err))
	}
	repo := gamemongo.NewGameRepository(client.Database(cfg.Database))
	return repo, func() {
		_ = client.Disconnect(context.Background())
	}
}

func openJournal(ctx context.Context, cfg serverconfig.MySQLConfig) (port.EventJournal, func()) {
	gormDB, err := db.Open(cfg, logs.Kit())
	if err != nil {
		logs.Fatal("open db failed", zap.Error(err))
	}
	j := journalmysql.New(gormDB)
	if err := j.AutoMigrate(ctx); err != nil {
		logs.Fatal("migrate event journal failed", zap.Error(err))
	}
	return j, func() {
		_ = db.Close(gormDB)
	}
}

func httpAddr(cfg serverconfig.HTTPServerConfig) string {
	host := cfg.Host
	if host == "" {
		host = "0.0.0.0"
	}
	listenPort := cfg.Port
	if listenPort == 0 {
		listenPort = defaultHTTPPort
	}
	return fmt.Sprintf("%s:%d", host, listenPort)
}
