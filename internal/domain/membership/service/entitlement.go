package service

import (
	"time"

	"course_platform/internal/domain/membership/model"
	userModel "course_platform/internal/domain/user/model"
	"course_platform/pkg/apperr"

	"github.com/shopspring/decimal"
)

// Entitlement 用户会员权益快照
// ReferenceAmount / ReferenceDays 为最近一次购买的金额与天数，作为升级抵扣的日均价基准
type Entitlement struct {
	Level           int
	ExpireAt        *time.Time
	ReferenceAmount decimal.Decimal
	ReferenceDays   int
}

// Active 会员是否有效
func (e Entitlement) Active(now time.Time) bool {
	return e.ExpireAt != nil && e.ExpireAt.After(now)
}

// EntitlementOf 从用户读取权益
func EntitlementOf(u *userModel.User) Entitlement {
	return Entitlement{
		Level:           u.Level,
		ExpireAt:        u.MembershipExpireAt,
		ReferenceAmount: u.MembershipReferenceAmount,
		ReferenceDays:   u.MembershipReferenceDays,
	}
}

// ApplyTo 将权益写回用户
func (e Entitlement) ApplyTo(u *userModel.User) {
	u.Level = e.Level
	u.MembershipExpireAt = e.ExpireAt
	u.MembershipReferenceAmount = e.ReferenceAmount
	u.MembershipReferenceDays = e.ReferenceDays
}

// ApplyPayment 支付成功后的权益变更
// planLevel 仅对 NEW / UPGRADE 生效，续费不改变等级
func ApplyPayment(ent Entitlement, order *model.Order, planLevel int, now time.Time) (Entitlement, error) {
	if order.PlanDays <= 0 {
		return ent, apperr.Internal("order %s has no plan duration snapshot", order.OrderNo)
	}
	days := time.Duration(order.PlanDays) * day
	next := ent

	switch order.OrderType {
	case model.OrderTypeNew:
		if planLevel <= 0 {
			return ent, apperr.Internal("order %s has no plan level", order.OrderNo)
		}
		expire := now.Add(days)
		next.Level = planLevel
		next.ExpireAt = &expire
		next.ReferenceAmount = order.Amount
		next.ReferenceDays = order.PlanDays

	case model.OrderTypeRenewal:
		var expire time.Time
		if ent.Active(now) {
			expire = ent.ExpireAt.Add(days)
		} else {
			expire = now.Add(days)
		}
		next.ExpireAt = &expire
		next.ReferenceAmount = ent.ReferenceAmount.Add(order.Amount)
		next.ReferenceDays = ent.ReferenceDays + order.PlanDays

	case model.OrderTypeUpgrade:
		if planLevel <= 0 {
			return ent, apperr.Internal("order %s has no plan level", order.OrderNo)
		}
		// 原剩余价值已折算为抵扣，不再叠加旧的到期时间
		expire := now.Add(days)
		next.Level = planLevel
		next.ExpireAt = &expire
		next.ReferenceAmount = order.Amount.Add(order.DiscountAmount)
		next.ReferenceDays = order.PlanDays

	default:
		return ent, apperr.Internal("unknown order type %q", order.OrderType)
	}
	return next, nil
}

// ApplyRefund 退款后的权益回退，等级保持不变
func ApplyRefund(ent Entitlement, order *model.Order) Entitlement {
	next := ent
	if ent.ExpireAt != nil {
		expire := ent.ExpireAt.Add(-time.Duration(order.PlanDays) * day)
		next.ExpireAt = &expire
	}

	next.ReferenceDays = ent.ReferenceDays - order.PlanDays
	if next.ReferenceDays < 0 {
		next.ReferenceDays = 0
	}

	next.ReferenceAmount = ent.ReferenceAmount.Sub(order.Amount)
	if next.ReferenceAmount.IsNegative() {
		next.ReferenceAmount = decimal.Zero
	}
	return next
}
