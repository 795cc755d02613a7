package model

import (
	"time"

	baseModel "course_platform/pkg/model"

	"github.com/shopspring/decimal"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusRefunded  OrderStatus = "REFUNDED"
	OrderStatusExpired   OrderStatus = "EXPIRED"
)

var statusDisplay = map[OrderStatus]string{
	OrderStatusPending:   "待支付",
	OrderStatusPaid:      "已支付",
	OrderStatusCancelled: "已取消",
	OrderStatusRefunded:  "已退款",
	OrderStatusExpired:   "已过期",
}

// Display 状态中文名
func (s OrderStatus) Display() string {
	return statusDisplay[s]
}

func (s OrderStatus) Valid() bool {
	_, ok := statusDisplay[s]
	return ok
}

// transitions 合法的状态流转
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled, OrderStatusExpired},
	OrderStatusPaid:    {OrderStatusRefunded},
	// 网关确认已扣款的过期订单仍然履约
	OrderStatusExpired: {OrderStatusPaid},
}

// CanTransitionTo 判断状态流转是否合法
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// OrderType 订单类型
type OrderType string

const (
	OrderTypeNew     OrderType = "NEW"
	OrderTypeRenewal OrderType = "RENEWAL"
	OrderTypeUpgrade OrderType = "UPGRADE"
)

// 支付方式
const (
	PaymentMethodAlipay = "ALIPAY"
	PaymentMethodWechat = "WECHAT"
	PaymentMethodMock   = "MOCK"
)

// Order 会员订单
// PlanName / PlanDays / PlanLevel 为下单时的套餐快照，权益计算只依赖快照
type Order struct {
	baseModel.BaseModel
	OrderNo        string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_no"`
	UserID         string          `gorm:"type:uuid;index;not null" json:"user_id"`
	PlanID         *string         `gorm:"type:uuid;index" json:"plan_id"`
	PlanName       string          `gorm:"type:varchar(50);not null" json:"plan_name"`
	PlanDays       int             `gorm:"not null" json:"plan_days"`
	PlanLevel      int             `gorm:"not null;default:0" json:"plan_level"`
	OrderType      OrderType       `gorm:"type:varchar(10);not null;default:NEW" json:"order_type"`
	Amount         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"discount_amount"`
	Status         OrderStatus     `gorm:"type:varchar(20);index;not null;default:PENDING" json:"status"`
	PaymentMethod  *string         `gorm:"type:varchar(20)" json:"payment_method"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
}

func (Order) TableName() string {
	return "member_orders"
}

// OriginalPrice 下单时的套餐价格
func (o *Order) OriginalPrice() decimal.Decimal {
	return o.Amount.Add(o.DiscountAmount)
}

// Method 支付方式，未发起支付时为空
func (o *Order) Method() string {
	if o.PaymentMethod == nil {
		return ""
	}
	return *o.PaymentMethod
}
