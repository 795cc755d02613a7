package service

import (
	"time"

	"course_platform/internal/domain/membership/model"
	"course_platform/pkg/apperr"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// Quote 下单报价
type Quote struct {
	OrderType      model.OrderType
	Amount         decimal.Decimal
	DiscountAmount decimal.Decimal
	RemainingDays  int
}

// Prorate 根据当前会员权益计算订单类型与金额
// 升级抵扣 = 参考金额 / 参考天数 × 剩余整天数，四舍五入到分，不超过套餐价
func Prorate(ent Entitlement, plan *model.Plan, now time.Time) (Quote, error) {
	price := plan.Price.Round(2)
	quote := Quote{OrderType: model.OrderTypeNew, Amount: price, DiscountAmount: decimal.Zero}

	if !ent.Active(now) {
		return quote, nil
	}

	switch {
	case ent.Level == plan.Level:
		quote.OrderType = model.OrderTypeRenewal
		return quote, nil
	case ent.Level > plan.Level:
		return Quote{}, apperr.Validation("downgrade purchase is not supported").WithReason(apperr.ReasonDowngrade)
	}

	quote.OrderType = model.OrderTypeUpgrade
	quote.RemainingDays = RemainingDays(ent.ExpireAt, now)
	if ent.ReferenceDays <= 0 || quote.RemainingDays <= 0 {
		return quote, nil
	}

	discount := ent.ReferenceAmount.
		Mul(decimal.NewFromInt(int64(quote.RemainingDays))).
		Div(decimal.NewFromInt(int64(ent.ReferenceDays))).
		Round(2)
	if discount.GreaterThan(price) {
		discount = price
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	quote.DiscountAmount = discount
	quote.Amount = price.Sub(discount)
	return quote, nil
}

// RemainingDays 剩余整天数，不足一天的部分舍去
func RemainingDays(expireAt *time.Time, now time.Time) int {
	if expireAt == nil || !expireAt.After(now) {
		return 0
	}
	return int(expireAt.Sub(now) / day)
}
