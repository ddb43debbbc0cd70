package errx

// 跨服务统一的系统类 / 故障类错误码。
//
// 约束：
// - 这里只放“技术类”和“契约类”通用码，方便告警与排障时跨模块归一化
// - 业务域错误码（例如 SANGUO_UNKNOWN_CITY）由各业务包自行定义，不在 kit 里集中

const (
	// CodeInternal 表示服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示依赖不可用（DB/Mongo/下游 actor 等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 表示请求/依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeInvalidArgument 表示调用方违反了参数契约（空 id、负数金额、越界倍率等）。
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// CodeDataIntegrity 表示内存中的数据不变式已被破坏，不能继续推进。
	CodeDataIntegrity Code = "DATA_INTEGRITY"
)

var (
	ErrInternal        = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable     = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout         = NewSys(CodeTimeout, "请求超时")
	ErrInvalidArgument = NewFault(CodeInvalidArgument, "参数不合法")
	ErrDataIntegrity   = NewFault(CodeDataIntegrity, "数据不变式被破坏")
)
