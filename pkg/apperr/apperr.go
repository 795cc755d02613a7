// Package apperr 定义业务错误分类，handler 层据此映射 HTTP 状态码与稳定的错误类型。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类型
type Kind string

const (
	KindValidation       Kind = "VALIDATION_ERROR"
	KindNotFound         Kind = "NOT_FOUND"
	KindPermissionDenied Kind = "PERMISSION_DENIED"
	KindTransient        Kind = "TRANSIENT"
	KindInternal         Kind = "SERVER_ERROR"
)

// 细分原因，供客户端做精确判断
const (
	ReasonPendingOrderExists = "PENDING_ORDER_EXISTS"
	ReasonOrderExpired       = "ORDER_EXPIRED"
	ReasonIllegalTransition  = "ILLEGAL_TRANSITION"
	ReasonDowngrade          = "DOWNGRADE_NOT_SUPPORTED"
	ReasonAmountMismatch     = "AMOUNT_MISMATCH"
	ReasonLockTimeout        = "LOCK_TIMEOUT"
	ReasonGatewayFailure     = "GATEWAY_FAILURE"
	ReasonRateLimited        = "RATE_LIMITED"
	ReasonPlanInUse          = "PLAN_IN_USE"
)

// Error 业务错误
type Error struct {
	Kind    Kind
	Reason  string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// HTTPStatus 映射 HTTP 状态码
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindTransient:
		if e.Reason == ReasonRateLimited {
			return http.StatusTooManyRequests
		}
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WithReason 设置细分原因
func (e *Error) WithReason(reason string) *Error {
	e.Reason = reason
	return e
}

// Wrap 附加底层错误
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func PermissionDenied(format string, args ...any) *Error {
	return newError(KindPermissionDenied, format, args...)
}

// Conflict 重复的待支付订单等冲突，按校验错误的一个变体返回
func Conflict(format string, args ...any) *Error {
	return newError(KindValidation, format, args...).WithReason(ReasonPendingOrderExists)
}

// Transient 可重试的临时错误（如锁等待超时）
func Transient(format string, args ...any) *Error {
	return newError(KindTransient, format, args...)
}

func Internal(format string, args ...any) *Error {
	return newError(KindInternal, format, args...)
}

// From 提取 *Error，非业务错误统一视为内部错误
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("internal server error").Wrap(err)
}

// IsKind 判断错误类型
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HasReason 判断细分原因
func HasReason(err error, reason string) bool {
	var e *Error
	return errors.As(err, &e) && e.Reason == reason
}
