package response

import (
	"net/http"

	"course_platform/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Success   bool        `json:"success"`
	Code      int         `json:"code"`           // 业务码
	Kind      string      `json:"kind,omitempty"` // 错误类型，成功时为空
	Reason    string      `json:"reason,omitempty"`
	Message   string      `json:"message"` // 提示信息
	Data      interface{} `json:"data"`    // 数据
	RequestID string      `json:"request_id,omitempty"`
}

func requestID(c *gin.Context) string {
	if v, ok := c.Get("RequestID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	SuccessWithMessage(c, "success", data)
}

// SuccessWithMessage 成功响应并携带提示
func SuccessWithMessage(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success:   true,
		Code:      CodeSuccess,
		Message:   msg,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:      errCode,
		Kind:      kindForHTTP(httpCode),
		Message:   msg,
		Data:      nil,
		RequestID: requestID(c),
	})
}

// FromError 将业务错误转换为响应
func FromError(c *gin.Context, err error) {
	e := apperr.From(err)
	msg := e.Message
	if e.Kind == apperr.KindInternal && msg == "" {
		msg = "internal server error"
	}
	c.JSON(e.HTTPStatus(), Response{
		Code:      codeFor(e),
		Kind:      string(e.Kind),
		Reason:    e.Reason,
		Message:   msg,
		Data:      nil,
		RequestID: requestID(c),
	})
}

func codeFor(e *apperr.Error) int {
	switch e.Kind {
	case apperr.KindValidation:
		if e.Reason == apperr.ReasonPendingOrderExists {
			return ErrOrderConflict
		}
		return ErrOrderValidation
	case apperr.KindNotFound:
		return ErrOrderNotFound
	case apperr.KindPermissionDenied:
		return ErrNoPermission
	case apperr.KindTransient:
		if e.Reason == apperr.ReasonRateLimited {
			return ErrTooManyRequests
		}
		return ErrOrderBusy
	default:
		if e.Reason == apperr.ReasonGatewayFailure {
			return ErrPaymentGateway
		}
		return ErrServerInternal
	}
}

func kindForHTTP(httpCode int) string {
	switch httpCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(apperr.KindValidation)
	case http.StatusUnauthorized, http.StatusForbidden:
		return string(apperr.KindPermissionDenied)
	case http.StatusNotFound:
		return string(apperr.KindNotFound)
	case http.StatusTooManyRequests, http.StatusConflict:
		return string(apperr.KindTransient)
	default:
		return string(apperr.KindInternal)
	}
}
