package handler

import (
	"time"

	"course_platform/internal/domain/membership/model"
	"course_platform/internal/domain/membership/service"

	"github.com/shopspring/decimal"
)

// CreateOrderInput 下单参数
type CreateOrderInput struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// PayOrderInput 支付参数，为空时使用默认支付方式
type PayOrderInput struct {
	PaymentMethod string `json:"payment_method"`
}

// OrderActionInput 订单操作：cancel / refund
type OrderActionInput struct {
	Action string `json:"action" binding:"required,oneof=cancel refund"`
}

// ListOrdersQuery 订单列表参数
type ListOrdersQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Scope  string `form:"scope"`
	Status string `form:"status"`
}

// PlanInput 创建套餐参数
type PlanInput struct {
	Name          string           `json:"name" binding:"required"`
	Level         int              `json:"level" binding:"required,min=1"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	DurationUnit  string           `json:"duration_unit"`
	DurationValue int              `json:"duration_value" binding:"required,min=1"`
	Description   string           `json:"description"`
	IsActive      *bool            `json:"is_active"`
}

// PlanPatchInput 套餐部分更新参数
type PlanPatchInput struct {
	Name          *string          `json:"name"`
	Level         *int             `json:"level"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	DurationUnit  *string          `json:"duration_unit"`
	DurationValue *int             `json:"duration_value"`
	Description   *string          `json:"description"`
	IsActive      *bool            `json:"is_active"`
}

// PlanDetail 订单中的套餐快照
type PlanDetail struct {
	Name string `json:"name"`
	Days int    `json:"days"`
}

// OrderResponse 订单响应
type OrderResponse struct {
	ID               string     `json:"id"`
	OrderNo          string     `json:"order_no"`
	UserID           string     `json:"user_id"`
	PlanID           *string    `json:"plan_id"`
	PlanDetail       PlanDetail `json:"plan_detail"`
	OrderType        string     `json:"order_type"`
	Amount           string     `json:"amount"`
	DiscountAmount   string     `json:"discount_amount"`
	OriginalPrice    string     `json:"original_price"`
	Status           string     `json:"status"`
	StatusDisplay    string     `json:"status_display"`
	PaymentMethod    *string    `json:"payment_method"`
	PaidAt           *time.Time `json:"paid_at"`
	CreatedAt        time.Time  `json:"created_at"`
	RemainingSeconds int64      `json:"remaining_seconds"`
}

func toOrderResponse(o *model.Order, now time.Time) OrderResponse {
	return OrderResponse{
		ID:               o.ID,
		OrderNo:          o.OrderNo,
		UserID:           o.UserID,
		PlanID:           o.PlanID,
		PlanDetail:       PlanDetail{Name: o.PlanName, Days: o.PlanDays},
		OrderType:        string(o.OrderType),
		Amount:           o.Amount.StringFixed(2),
		DiscountAmount:   o.DiscountAmount.StringFixed(2),
		OriginalPrice:    o.OriginalPrice().StringFixed(2),
		Status:           string(o.Status),
		StatusDisplay:    o.Status.Display(),
		PaymentMethod:    o.PaymentMethod,
		PaidAt:           o.PaidAt,
		CreatedAt:        o.CreatedAt,
		RemainingSeconds: int64(service.RemainingTime(o, now) / time.Second),
	}
}

// PlanResponse 套餐响应
type PlanResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Level         int     `json:"level"`
	Price         string  `json:"price"`
	OriginalPrice *string `json:"original_price"`
	DurationUnit  string  `json:"duration_unit"`
	DurationValue int     `json:"duration_value"`
	DurationDays  int     `json:"duration_days"`
	Description   string  `json:"description"`
	IsActive      bool    `json:"is_active"`
}

func toPlanResponse(p *model.Plan) PlanResponse {
	resp := PlanResponse{
		ID:            p.ID,
		Name:          p.Name,
		Level:         p.Level,
		Price:         p.Price.StringFixed(2),
		DurationUnit:  p.DurationUnit,
		DurationValue: p.DurationValue,
		DurationDays:  p.DurationDays,
		Description:   p.Description,
		IsActive:      p.IsActive,
	}
	if p.OriginalPrice != nil {
		op := p.OriginalPrice.StringFixed(2)
		resp.OriginalPrice = &op
	}
	return resp
}
