package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserNotFound = 10002
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// 会员订单模块错误 300xx
	ErrOrderValidation = 30001
	ErrOrderNotFound   = 30002
	ErrOrderConflict   = 30003
	ErrOrderBusy       = 30004
	ErrPaymentGateway  = 30005

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
