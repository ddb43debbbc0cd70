package http

import (
	"errors"
	nethttp "net/http"

	"SanguoRich/internal/game/app"
	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/turn"
	"SanguoRich/internal/shared/transport"
	"SanguoRich/modules/kit/errx"
)

// toBizCode 把领域/系统错误映射成业务码与 HTTP 状态码。
func toBizCode(err error) (transport.BizCode, int) {
	switch {
	case errors.Is(err, app.ErrGameNotFound),
		errors.Is(err, domain.ErrUnknownPlayer),
		errors.Is(err, domain.ErrUnknownCity):
		return transport.NotFound, nethttp.StatusNotFound
	case errors.Is(err, turn.ErrNoCityHere):
		return transport.Unprocessable, nethttp.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrGameEnded), errx.IsBiz(err):
		return transport.Conflict, nethttp.StatusConflict
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, errx.ErrInvalidArgument):
		return transport.InvalidParam, nethttp.StatusBadRequest
	case errors.Is(err, errx.ErrTimeout):
		return transport.Timeout, nethttp.StatusGatewayTimeout
	case errors.Is(err, errx.ErrUnavailable):
		return transport.Unavailable, nethttp.StatusServiceUnavailable
	default:
		return transport.SystemError, nethttp.StatusInternalServerError
	}
}

// errorMessage 业务拒绝透出领域文案，系统错误只给通用文案；reason 一律是错误码。
func errorMessage(err error, code transport.BizCode) (msg, reason string) {
	reason = string(errx.CodeOf(err))
	var xe *errx.Error
	if code == transport.SystemError || !errors.As(err, &xe) {
		return "服务器内部错误", reason
	}
	return xe.Msg(), reason
}
