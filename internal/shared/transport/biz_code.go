package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
// 取值沿用 HTTP 语义：0 成功，4xx 业务拒绝，5xx 系统错误。
type BizCode int

const (
	OK            = 0
	InvalidParam  = 400
	NotFound      = 404
	Conflict      = 409
	Unprocessable = 422
	SystemError   = 500
	Unavailable   = 503
	Timeout       = 504
)
