package service

import (
	"context"
	"time"

	"course_platform/internal/domain/membership/model"
	"course_platform/internal/domain/membership/repository"
	"course_platform/pkg/metrics"

	"go.uber.org/zap"
)

// OrderExpiration 待支付订单有效期，按创建时间计算
const OrderExpiration = 30 * time.Minute

// Expirer 待支付订单过期处理
// Check 在读取订单时按需过期单个订单，Sweep 批量过期，两者使用同一阈值
type Expirer struct {
	orders  repository.OrderRepository
	metrics *metrics.MetricsCollector
	log     *zap.Logger
	now     func() time.Time
}

func NewExpirer(orders repository.OrderRepository, m *metrics.MetricsCollector, log *zap.Logger) *Expirer {
	return &Expirer{orders: orders, metrics: m, log: log, now: time.Now}
}

// IsExpired 判断待支付订单是否超时
func IsExpired(o *model.Order, now time.Time) bool {
	return o.Status == model.OrderStatusPending && now.Sub(o.CreatedAt) > OrderExpiration
}

// RemainingTime 待支付订单距过期的剩余时间，其他状态为 0
func RemainingTime(o *model.Order, now time.Time) time.Duration {
	if o.Status != model.OrderStatusPending {
		return 0
	}
	left := OrderExpiration - now.Sub(o.CreatedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Check 超时的待支付订单置为已过期，返回订单当前是否为已过期
// 条件更新失败说明订单已被其他流转处理，此时重新读取状态
func (e *Expirer) Check(ctx context.Context, o *model.Order) (bool, error) {
	if !IsExpired(o, e.now()) {
		return o.Status == model.OrderStatusExpired, nil
	}

	updated, err := e.orders.ExpireIfPending(ctx, o.ID)
	if err != nil {
		return false, err
	}
	if updated {
		o.Status = model.OrderStatusExpired
		if e.metrics != nil {
			e.metrics.RecordOrderTransition(string(o.OrderType), string(model.OrderStatusExpired))
		}
		e.log.Info("order expired", zap.String("order_no", o.OrderNo))
		return true, nil
	}

	current, err := e.orders.GetByNo(ctx, o.OrderNo)
	if err != nil {
		return false, err
	}
	*o = *current
	return o.Status == model.OrderStatusExpired, nil
}

// Sweep 批量过期，返回本次过期的订单数
func (e *Expirer) Sweep(ctx context.Context) (int64, error) {
	n, err := e.orders.ExpireBefore(ctx, e.now().Add(-OrderExpiration))
	if err != nil {
		return 0, err
	}
	if e.metrics != nil {
		e.metrics.RecordSweep(n)
	}
	return n, nil
}
