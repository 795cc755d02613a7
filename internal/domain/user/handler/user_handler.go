package handler

import (
	"course_platform/internal/domain/user/service"
	"course_platform/internal/pkg/middleware"
	"course_platform/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// GetMembership 查询当前用户会员权益
// @Summary 当前会员权益
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.MembershipView}
// @Failure 404 {object} response.Response
// @Router /users/me/membership [get]
func (h *UserHandler) GetMembership(c *gin.Context) {
	view, err := h.service.GetMembership(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, view)
}
