package user

import (
	"course_platform/internal/domain/user/handler"
	"course_platform/internal/domain/user/repository"
	"course_platform/internal/domain/user/service"
	"course_platform/internal/pkg/middleware"
	"course_platform/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule 用户模块
// 账号与登录由认证服务负责，这里只暴露会员权益查询
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	userRepo := repository.NewUserRepository(ctx.DB)
	userService := service.NewUserService(userRepo)
	userHandler := handler.NewUserHandler(userService)

	setupRoutes(ctx.Router, userHandler, ctx.Config.JWT.Secret)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler, secret string) {
	userGroup := r.Group("/users")
	userGroup.Use(middleware.AuthMiddleware(secret))
	{
		userGroup.GET("/me/membership", h.GetMembership)
	}
}
