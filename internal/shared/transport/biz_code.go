package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

const (
	// OK 表示请求成功。
	OK = 0
	// InvalidParam 表示请求参数有误。
	InvalidParam = 400
	// Forbidden 表示无权操作目标对象。
	Forbidden = 403
	// NotFound 表示目标对象不存在。
	NotFound = 404
	// SystemError 表示服务内部错误（access 日志里按 ERROR 级别输出）。
	SystemError = 500
	// UpstreamUnavailable 表示依赖的存储或服务不可用。
	UpstreamUnavailable = 503

	// InvalidCommand 表示指令不满足游戏规则。
	InvalidCommand = 1001
	// InsufficientTroops 表示兵力不足。
	InsufficientTroops = 1002
	// InsufficientResources 表示资源不足。
	InsufficientResources = 1003
)
