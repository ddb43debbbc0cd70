package event

import (
	"context"

	"SanguoRich/modules/kit/logx"

	"go.uber.org/zap"
)

// LogHandler 把每条事件记成一行 DEBUG 日志，永远不返回错误。
func LogHandler(l logx.Logger) Handler {
	l = logx.OrNop(l)
	return func(ctx context.Context, evt Event) error {
		l.WithContext(ctx).Debug("domain_event",
			zap.String("event_id", evt.ID),
			zap.String("event_type", string(evt.Type)),
			zap.String("event_source", evt.Source),
			zap.String("game_id", evt.GameID),
			zap.String("correlation_id", evt.CorrelationID),
			zap.Any("payload", evt.Payload),
		)
		return nil
	}
}
