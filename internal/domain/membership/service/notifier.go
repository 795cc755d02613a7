package service

import (
	"context"
	"fmt"

	"course_platform/internal/domain/membership/model"
	"course_platform/internal/pkg/push"
	"course_platform/internal/pkg/worker"
)

// Notifier 订单状态通知，在事务提交后调用，不影响订单结果
type Notifier interface {
	OrderPaid(order *model.Order)
	OrderRefunded(order *model.Order)
}

// PushNotifier 通过 worker pool 异步推送到用户账号
type PushNotifier struct {
	pool   *worker.WorkerPool
	pusher push.Pusher
}

func NewPushNotifier(pool *worker.WorkerPool, pusher push.Pusher) *PushNotifier {
	return &PushNotifier{pool: pool, pusher: pusher}
}

func (n *PushNotifier) OrderPaid(order *model.Order) {
	body := fmt.Sprintf("您的订单 %s 已支付成功，%s 会员权益已生效。", order.OrderNo, order.PlanName)
	n.send(order, "支付成功", body)
}

func (n *PushNotifier) OrderRefunded(order *model.Order) {
	body := fmt.Sprintf("您的订单 %s 已退款 %s 元。", order.OrderNo, order.Amount.StringFixed(2))
	n.send(order, "退款成功", body)
}

func (n *PushNotifier) send(order *model.Order, title, body string) {
	userID := order.UserID
	ext := map[string]string{"order_no": order.OrderNo, "status": string(order.Status)}
	n.pool.AddTask(worker.Task{
		Name: "push:" + order.OrderNo,
		Run: func(ctx context.Context) error {
			return n.pusher.PushToAccount(userID, title, body, ext)
		},
	})
}

// nopNotifier 不发送通知
type nopNotifier struct{}

func (nopNotifier) OrderPaid(*model.Order)     {}
func (nopNotifier) OrderRefunded(*model.Order) {}
