package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type traceKey struct{}

// TraceMiddleware 添加请求追踪ID
// TraceID 同时写入 request context，服务层日志通过 TraceID(ctx) 读取
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set("traceID", traceID)
		c.Header("X-Trace-ID", traceID)
		c.Request = c.Request.WithContext(WithTraceID(c.Request.Context(), traceID))

		c.Next()
	}
}

// WithTraceID 写入追踪ID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceID 读取追踪ID，不存在时返回空串
func TraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceKey{}).(string); ok {
		return v
	}
	return ""
}
