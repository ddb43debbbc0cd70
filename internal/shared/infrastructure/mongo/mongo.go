package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"SanguoRich/internal/shared/serverconfig"
)

const (
	defaultConnectTimeout = 3 * time.Second
	appName               = "sanguo-rich"
)

var ErrEmptyURI = errors.New("mongodb uri is empty")

func connectTimeout(cfg serverconfig.MongoDBConfig) time.Duration {
	if cfg.ConnectTimeoutS <= 0 {
		return defaultConnectTimeout
	}
	return time.Duration(cfg.ConnectTimeoutS) * time.Second
}

func clientOptions(cfg serverconfig.MongoDBConfig) *options.ClientOptions {
	timeout := connectTimeout(cfg)
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
}

// Open 建立连接并 Ping 一次；Ping 不通时断开并返回错误，不留半开的客户端。
func Open(ctx context.Context, cfg serverconfig.MongoDBConfig, l *zap.Logger) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, ErrEmptyURI
	}
	if l == nil {
		l = zap.NewNop()
	}

	client, err := mongo.Connect(clientOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout(cfg))
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	l.Info("open mongodb success", zap.String("database", cfg.Database))
	return client, nil
}
