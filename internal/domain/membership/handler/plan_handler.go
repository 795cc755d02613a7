package handler

import (
	"course_platform/internal/domain/membership/service"
	"course_platform/pkg/response"

	"github.com/gin-gonic/gin"
)

// PlanHandler 会员套餐处理器
type PlanHandler struct {
	service service.PlanService
}

func NewPlanHandler(service service.PlanService) *PlanHandler {
	return &PlanHandler{service: service}
}

// ListPlans 套餐列表，管理员可见已下架套餐
// @Summary 套餐列表
// @Tags membership
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]PlanResponse}
// @Router /membership/plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context(), callerOf(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	list := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		list = append(list, toPlanResponse(&plans[i]))
	}
	response.Success(c, list)
}

// @Summary 套餐详情
// @Tags membership
// @Produce json
// @Security BearerAuth
// @Param id path string true "套餐ID"
// @Success 200 {object} response.Response{data=PlanResponse}
// @Router /membership/plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.service.GetPlan(c.Request.Context(), callerOf(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toPlanResponse(plan))
}

// CreatePlan 创建套餐
// @Summary 创建套餐
// @Tags membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body PlanInput true "套餐"
// @Success 200 {object} response.Response{data=PlanResponse}
// @Router /membership/plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var input PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	plan, err := h.service.CreatePlan(c.Request.Context(), callerOf(c), service.CreatePlanInput{
		Name:          input.Name,
		Level:         input.Level,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		DurationUnit:  input.DurationUnit,
		DurationValue: input.DurationValue,
		Description:   input.Description,
		IsActive:      input.IsActive,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toPlanResponse(plan))
}

// UpdatePlan 部分更新套餐，PUT 与 PATCH 共用
// @Summary 更新套餐
// @Tags membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "套餐ID"
// @Param input body PlanPatchInput true "需要修改的字段"
// @Success 200 {object} response.Response{data=PlanResponse}
// @Router /membership/plans/{id} [patch]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var input PlanPatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	plan, err := h.service.UpdatePlan(c.Request.Context(), callerOf(c), c.Param("id"), service.UpdatePlanInput{
		Name:          input.Name,
		Level:         input.Level,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		DurationUnit:  input.DurationUnit,
		DurationValue: input.DurationValue,
		Description:   input.Description,
		IsActive:      input.IsActive,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toPlanResponse(plan))
}

// DeletePlan 删除套餐，有订单引用时仅下架
// @Summary 删除套餐
// @Tags membership
// @Security BearerAuth
// @Param id path string true "套餐ID"
// @Success 200 {object} response.Response
// @Router /membership/plans/{id} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	if err := h.service.DeletePlan(c.Request.Context(), callerOf(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "plan deleted", nil)
}
