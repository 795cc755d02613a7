package service

import (
	"context"
	"encoding/binary"
	"fmt"
	"net/http"
	"time"

	"course_platform/internal/domain/membership/model"
	"course_platform/internal/domain/membership/repository"
	payModel "course_platform/internal/domain/payment/model"
	payRepo "course_platform/internal/domain/payment/repository"
	"course_platform/internal/domain/payment/strategy"
	userModel "course_platform/internal/domain/user/model"
	userRepo "course_platform/internal/domain/user/repository"
	"course_platform/internal/pkg/config"
	"course_platform/internal/pkg/middleware"
	"course_platform/pkg/apperr"
	"course_platform/pkg/cache"
	"course_platform/pkg/metrics"
	"course_platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ActionCancel = "cancel"
	ActionRefund = "refund"

	ScopeMy = "my"

	queryCachePrefix = "payment_query:"
	orderRatePrefix  = "order_rate:"
	refundReason     = "用户/管理员申请退款"
)

// Caller 当前操作人，来自 JWT
type Caller struct {
	UserID string
	Admin  bool
}

// PaymentResult 发起支付的结果
// 同步到账（模拟支付、零元订单）时 Paid 为 true，否则 Instruction 交给客户端完成支付
type PaymentResult struct {
	OrderNo     string                       `json:"order_no"`
	Status      model.OrderStatus            `json:"status"`
	Method      string                       `json:"payment_method"`
	Paid        bool                         `json:"paid"`
	Instruction *strategy.PaymentInstruction `json:"instruction,omitempty"`
}

// ReconciliationResult 主动查询网关后的结果
// Degraded 为 true 表示网关不可用，返回的是本地最后已知状态
type ReconciliationResult struct {
	OrderNo     string            `json:"order_no"`
	Status      model.OrderStatus `json:"status"`
	TradeStatus string            `json:"trade_status,omitempty"`
	TotalAmount string            `json:"total_amount,omitempty"`
	TradeNo     string            `json:"trade_no,omitempty"`
	SendPayDate string            `json:"send_pay_date,omitempty"`
	BuyerUserID string            `json:"buyer_user_id,omitempty"`
	Degraded    bool              `json:"degraded"`
}

// OrderService 会员订单服务
type OrderService interface {
	CreateOrder(ctx context.Context, caller Caller, planID string) (*model.Order, error)
	GetOrder(ctx context.Context, caller Caller, orderNo string) (*model.Order, error)
	PayOrder(ctx context.Context, caller Caller, orderNo, method string) (*PaymentResult, error)
	QueryPayment(ctx context.Context, orderNo string) (*ReconciliationResult, error)
	OrderAction(ctx context.Context, caller Caller, orderNo, action string) error
	ListOrders(ctx context.Context, caller Caller, query OrderQuery, page utils.Pagination) ([]model.Order, int64, error)
	HandleNotify(ctx context.Context, method string, r *http.Request) (strategy.PaymentGateway, error)
}

// OrderDeps 订单服务依赖
type OrderDeps struct {
	Tx           Transactor
	Guard        *UserGuard
	Expirer      *Expirer
	Orders       repository.OrderRepository
	Plans        repository.PlanRepository
	Users        userRepo.UserRepository
	Transactions payRepo.TransactionRepository
	Gateways     *strategy.Gateways
	Cache        cache.CacheService
	Notifier     Notifier
	Metrics      *metrics.MetricsCollector
	Logger       *zap.Logger
	Config       config.MembershipConfig
}

type orderService struct {
	OrderDeps
	now func() time.Time
}

func NewOrderService(deps OrderDeps) OrderService {
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &orderService{OrderDeps: deps, now: time.Now}
}

func (s *orderService) logger(ctx context.Context) *zap.Logger {
	if traceID := middleware.TraceID(ctx); traceID != "" {
		return s.Logger.With(zap.String("trace_id", traceID))
	}
	return s.Logger
}

// CreateOrder 创建待支付订单
func (s *orderService) CreateOrder(ctx context.Context, caller Caller, planID string) (*model.Order, error) {
	if err := s.checkOrderRate(ctx, caller.UserID); err != nil {
		return nil, err
	}

	plan, err := s.Plans.GetActive(ctx, planID)
	if err != nil {
		return nil, err
	}

	var order *model.Order
	err = s.Guard.WithUserLock(ctx, caller.UserID, func(txCtx context.Context, user *userModel.User) error {
		now := s.now()
		quote, err := Prorate(EntitlementOf(user), plan, now)
		if err != nil {
			return err
		}

		pending, err := s.Orders.ListPendingByUser(txCtx, caller.UserID)
		if err != nil {
			return err
		}
		for i := range pending {
			expired, err := s.Expirer.Check(txCtx, &pending[i])
			if err != nil {
				return err
			}
			if !expired && pending[i].Status == model.OrderStatusPending {
				return apperr.Conflict("you have an unpaid order %s, please pay or cancel it first", pending[i].OrderNo)
			}
		}

		order = &model.Order{
			OrderNo:        newOrderNo(now),
			UserID:         caller.UserID,
			PlanID:         &plan.ID,
			PlanName:       plan.Name,
			PlanDays:       plan.DurationDays,
			PlanLevel:      plan.Level,
			OrderType:      quote.OrderType,
			Amount:         quote.Amount,
			DiscountAmount: quote.DiscountAmount,
			Status:         model.OrderStatusPending,
		}
		order.CreatedAt = now
		return s.Orders.Create(txCtx, order)
	})
	if err != nil {
		return nil, err
	}

	s.recordTransition(order)
	s.logger(ctx).Info("order created",
		zap.String("order_no", order.OrderNo),
		zap.String("user_id", order.UserID),
		zap.String("order_type", string(order.OrderType)),
		zap.String("amount", order.Amount.StringFixed(2)),
		zap.String("discount", order.DiscountAmount.StringFixed(2)))
	return order, nil
}

// checkOrderRate 每用户每分钟下单次数限制，计数存储不可用时放行
func (s *orderService) checkOrderRate(ctx context.Context, userID string) error {
	limit := s.Config.OrderRatePerMinute
	if limit <= 0 || s.Cache == nil {
		return nil
	}
	n, err := s.Cache.IncrWithTTL(ctx, orderRatePrefix+userID, time.Minute)
	if err != nil {
		s.logger(ctx).Warn("order rate counter unavailable", zap.Error(err))
		return nil
	}
	if n > int64(limit) {
		return apperr.Transient("too many orders, please retry later").WithReason(apperr.ReasonRateLimited)
	}
	return nil
}

// GetOrder 查询订单，本人或管理员可见
func (s *orderService) GetOrder(ctx context.Context, caller Caller, orderNo string) (*model.Order, error) {
	order, err := s.Orders.GetByNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.UserID && !caller.Admin {
		return nil, apperr.PermissionDenied("no permission to view this order")
	}
	if _, err := s.Expirer.Check(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// PayOrder 发起支付，只能支付本人订单
func (s *orderService) PayOrder(ctx context.Context, caller Caller, orderNo, method string) (*PaymentResult, error) {
	order, err := s.Orders.GetByNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.UserID {
		return nil, apperr.PermissionDenied("no permission to pay for this order")
	}

	expired, err := s.Expirer.Check(ctx, order)
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, apperr.Validation("order has expired").WithReason(apperr.ReasonOrderExpired)
	}
	if order.Status != model.OrderStatusPending {
		return nil, apperr.Validation("order in status %s cannot be paid", order.Status).WithReason(apperr.ReasonIllegalTransition)
	}

	if method == "" {
		method = s.Config.DefaultMethod
	}
	gw, err := s.Gateways.Get(method)
	if err != nil {
		return nil, err
	}

	// 零元订单（全额抵扣）无需经过网关
	if order.Amount.IsZero() {
		paid, err := s.confirmPaid(ctx, order.OrderNo, method, nil)
		if err != nil {
			return nil, err
		}
		return &PaymentResult{OrderNo: paid.OrderNo, Status: paid.Status, Method: method, Paid: true}, nil
	}

	instruction, err := gw.CreatePayment(ctx, strategy.PaymentRequest{
		OrderNo: order.OrderNo,
		Amount:  order.Amount,
		Subject: order.PlanName,
	})
	if err != nil {
		return nil, gatewayError(err, "create payment")
	}

	if gw.Synchronous() {
		paid, err := s.confirmPaid(ctx, order.OrderNo, method, nil)
		if err != nil {
			return nil, err
		}
		return &PaymentResult{OrderNo: paid.OrderNo, Status: paid.Status, Method: method, Paid: true, Instruction: instruction}, nil
	}

	if err := s.Orders.SetPaymentMethod(ctx, order.ID, method); err != nil {
		return nil, err
	}
	s.logger(ctx).Info("payment initiated",
		zap.String("order_no", order.OrderNo),
		zap.String("method", method))
	return &PaymentResult{OrderNo: order.OrderNo, Status: model.OrderStatusPending, Method: method, Instruction: instruction}, nil
}

// confirmPaid 确认到账：订单置为已支付、写入支付流水并更新会员权益，在同一事务内完成
// 已支付时直接返回；trade 为空表示非网关确认（模拟支付或零元订单），此时只接受待支付订单
func (s *orderService) confirmPaid(ctx context.Context, orderNo, method string, trade *strategy.TradeStatus) (*model.Order, error) {
	peek, err := s.Orders.GetByNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}

	var order *model.Order
	applied := false
	err = s.Guard.WithUserLock(ctx, peek.UserID, func(txCtx context.Context, user *userModel.User) error {
		order, err = s.Orders.LockByNo(txCtx, orderNo)
		if err != nil {
			return err
		}

		from := order.Status
		if from == model.OrderStatusPaid {
			return nil
		}
		// 过期订单只有网关确认已扣款时才履约
		if !from.CanTransitionTo(model.OrderStatusPaid) || (from == model.OrderStatusExpired && trade == nil) {
			return apperr.Validation("order in status %s cannot be paid", from).WithReason(apperr.ReasonIllegalTransition)
		}
		if from == model.OrderStatusExpired {
			// 按下单时的订单类型履约，期间若已有其他订单生效，权益会再叠加一次
			s.logger(ctx).Warn("fulfilling expired order after late payment",
				zap.String("order_no", order.OrderNo),
				zap.String("user_id", order.UserID),
				zap.String("order_type", string(order.OrderType)),
				zap.String("trade_no", trade.TradeNo))
		}

		planLevel, err := s.resolvePlanLevel(txCtx, order)
		if err != nil {
			return err
		}

		now := s.now()
		next, err := ApplyPayment(EntitlementOf(user), order, planLevel, now)
		if err != nil {
			return err
		}
		next.ApplyTo(user)
		if err := s.Users.SaveEntitlement(txCtx, user); err != nil {
			return err
		}

		order.Status = model.OrderStatusPaid
		order.PaidAt = &now
		order.PaymentMethod = &method
		ok, err := s.Orders.Transition(txCtx, order, from)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Internal("order %s changed while locked", orderNo)
		}

		record := &payModel.Transaction{
			OrderID:  order.ID,
			OrderNo:  order.OrderNo,
			Type:     payModel.TransactionPayment,
			Amount:   order.Amount,
			Platform: method,
			Status:   payModel.TransactionSuccess,
		}
		if trade != nil {
			if trade.TradeNo != "" {
				tradeNo := trade.TradeNo
				record.ExternalID = &tradeNo
			}
			record.RawPayload = trade.Raw
		}
		if err := s.Transactions.Append(txCtx, record); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if applied {
		s.afterStateChange(ctx, order)
		if s.Metrics != nil {
			amount, _ := order.Amount.Float64()
			s.Metrics.RecordOrderAmount("payment", amount)
		}
		s.Notifier.OrderPaid(order)
		s.logger(ctx).Info("order paid",
			zap.String("order_no", order.OrderNo),
			zap.String("user_id", order.UserID),
			zap.String("method", method))
	}
	return order, nil
}

// resolvePlanLevel 优先使用订单快照，旧订单回落到套餐表
func (s *orderService) resolvePlanLevel(ctx context.Context, order *model.Order) (int, error) {
	if order.OrderType == model.OrderTypeRenewal {
		return 0, nil
	}
	if order.PlanLevel > 0 {
		return order.PlanLevel, nil
	}
	if order.PlanID == nil {
		return 0, apperr.Internal("order %s has no plan snapshot", order.OrderNo)
	}
	plan, err := s.Plans.GetByID(ctx, *order.PlanID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return 0, apperr.Internal("plan of order %s no longer exists", order.OrderNo).Wrap(err)
		}
		return 0, err
	}
	return plan.Level, nil
}

// QueryPayment 向网关查询支付结果并同步本地状态
func (s *orderService) QueryPayment(ctx context.Context, orderNo string) (*ReconciliationResult, error) {
	var cached ReconciliationResult
	if s.Cache != nil {
		if err := s.Cache.Get(ctx, queryCachePrefix+orderNo, &cached); err == nil {
			return &cached, nil
		}
	}

	order, err := s.Orders.GetByNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}

	method := order.Method()
	if method == "" {
		method = s.Config.DefaultMethod
	}

	var trade *strategy.TradeStatus
	gw, err := s.Gateways.Get(method)
	if err == nil {
		trade, err = gw.Query(ctx, orderNo)
	}
	if err != nil {
		s.logger(ctx).Warn("payment query failed, returning local status",
			zap.String("order_no", orderNo),
			zap.String("method", method),
			zap.Error(err))
		if _, err := s.Expirer.Check(ctx, order); err != nil {
			return nil, err
		}
		return &ReconciliationResult{OrderNo: orderNo, Status: order.Status, Degraded: true}, nil
	}

	if trade.Paid {
		order, err = s.fulfil(ctx, order, method, trade)
		if err != nil {
			return nil, err
		}
	} else if _, err := s.Expirer.Check(ctx, order); err != nil {
		return nil, err
	}

	result := &ReconciliationResult{
		OrderNo:     orderNo,
		Status:      order.Status,
		TradeStatus: trade.Status,
		TotalAmount: trade.TotalAmount.StringFixed(2),
		TradeNo:     trade.TradeNo,
		SendPayDate: trade.SendPayDate,
		BuyerUserID: trade.BuyerUserID,
	}
	if s.Cache != nil && s.Config.QueryCacheTTL > 0 {
		if err := s.Cache.Set(ctx, queryCachePrefix+orderNo, result, s.Config.QueryCacheTTL); err != nil {
			s.logger(ctx).Warn("cache payment query failed", zap.Error(err))
		}
	}
	return result, nil
}

// fulfil 网关确认已支付后履约
// 金额不一致直接拒绝；已取消或已退款的订单只记录日志，需人工处理
func (s *orderService) fulfil(ctx context.Context, order *model.Order, method string, trade *strategy.TradeStatus) (*model.Order, error) {
	if !trade.TotalAmount.Equal(order.Amount) {
		s.logger(ctx).Error("payment amount mismatch",
			zap.String("order_no", order.OrderNo),
			zap.String("order_amount", order.Amount.StringFixed(2)),
			zap.String("paid_amount", trade.TotalAmount.StringFixed(2)),
			zap.String("trade_no", trade.TradeNo))
		return nil, apperr.Validation("payment amount mismatch: order %s, paid %s",
			order.Amount.StringFixed(2), trade.TotalAmount.StringFixed(2)).WithReason(apperr.ReasonAmountMismatch)
	}

	switch order.Status {
	case model.OrderStatusPending, model.OrderStatusExpired:
		return s.confirmPaid(ctx, order.OrderNo, method, trade)
	case model.OrderStatusCancelled, model.OrderStatusRefunded:
		s.logger(ctx).Error("gateway reports payment for closed order",
			zap.String("order_no", order.OrderNo),
			zap.String("status", string(order.Status)),
			zap.String("trade_no", trade.TradeNo))
	}
	return order, nil
}

// HandleNotify 处理网关异步通知，返回用于应答的网关
func (s *orderService) HandleNotify(ctx context.Context, method string, r *http.Request) (strategy.PaymentGateway, error) {
	gw, err := s.Gateways.Get(method)
	if err != nil {
		return nil, err
	}

	trade, err := gw.VerifyNotification(ctx, r)
	if err != nil {
		s.logger(ctx).Warn("invalid payment notification", zap.String("method", method), zap.Error(err))
		return nil, apperr.Validation("invalid payment notification").Wrap(err)
	}

	order, err := s.Orders.GetByNo(ctx, trade.OrderNo)
	if err != nil {
		return nil, err
	}

	if !trade.Paid {
		if _, err := s.Expirer.Check(ctx, order); err != nil {
			return nil, err
		}
		return gw, nil
	}

	if _, err := s.fulfil(ctx, order, method, trade); err != nil {
		return nil, err
	}
	return gw, nil
}

// OrderAction 取消或退款
func (s *orderService) OrderAction(ctx context.Context, caller Caller, orderNo, action string) error {
	switch action {
	case ActionCancel:
		return s.cancel(ctx, caller, orderNo)
	case ActionRefund:
		return s.refund(ctx, caller, orderNo)
	default:
		return apperr.Validation("unsupported action %q", action)
	}
}

func (s *orderService) cancel(ctx context.Context, caller Caller, orderNo string) error {
	order, err := s.Orders.GetByNo(ctx, orderNo)
	if err != nil {
		return err
	}
	if order.UserID != caller.UserID && !caller.Admin {
		return apperr.PermissionDenied("no permission to cancel this order")
	}

	expired, err := s.Expirer.Check(ctx, order)
	if err != nil {
		return err
	}
	if expired {
		return apperr.Validation("order has expired and cannot be cancelled").WithReason(apperr.ReasonOrderExpired)
	}
	if !order.Status.CanTransitionTo(model.OrderStatusCancelled) {
		return apperr.Validation("order in status %s cannot be cancelled", order.Status).WithReason(apperr.ReasonIllegalTransition)
	}

	order.Status = model.OrderStatusCancelled
	ok, err := s.Orders.Transition(ctx, order, model.OrderStatusPending)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("order status changed, please refresh").WithReason(apperr.ReasonIllegalTransition)
	}

	s.afterStateChange(ctx, order)
	s.logger(ctx).Info("order cancelled",
		zap.String("order_no", orderNo),
		zap.String("operator", caller.UserID))
	return nil
}

// refund 全额退款，仅管理员
// 先调用网关退款，成功后再在同一事务内回退订单、流水与权益
func (s *orderService) refund(ctx context.Context, caller Caller, orderNo string) error {
	order, err := s.Orders.GetByNo(ctx, orderNo)
	if err != nil {
		return err
	}
	if !caller.Admin {
		return apperr.PermissionDenied("only administrators can refund orders")
	}
	if order.Status == model.OrderStatusRefunded {
		return nil
	}
	if !order.Status.CanTransitionTo(model.OrderStatusRefunded) {
		return apperr.Validation("order in status %s cannot be refunded", order.Status).WithReason(apperr.ReasonIllegalTransition)
	}

	var refund *strategy.RefundResult
	if order.Amount.IsPositive() {
		gw, err := s.Gateways.Get(order.Method())
		if err != nil {
			return apperr.Internal("payment method %q is not available for refund", order.Method()).WithReason(apperr.ReasonGatewayFailure).Wrap(err)
		}
		refund, err = gw.Refund(ctx, strategy.RefundRequest{
			OrderNo:   order.OrderNo,
			RequestNo: order.OrderNo + "R",
			Amount:    order.Amount,
			Reason:    refundReason,
		})
		if err != nil {
			s.logger(ctx).Error("gateway refund failed",
				zap.String("order_no", orderNo),
				zap.String("method", order.Method()),
				zap.Error(err))
			return apperr.Internal("refund failed: %v", err).WithReason(apperr.ReasonGatewayFailure).Wrap(err)
		}
	}

	applied := false
	err = s.Guard.WithUserLock(ctx, order.UserID, func(txCtx context.Context, user *userModel.User) error {
		locked, err := s.Orders.LockByNo(txCtx, orderNo)
		if err != nil {
			return err
		}
		if locked.Status == model.OrderStatusRefunded {
			order = locked
			return nil
		}
		if !locked.Status.CanTransitionTo(model.OrderStatusRefunded) {
			return apperr.Validation("order in status %s cannot be refunded", locked.Status).WithReason(apperr.ReasonIllegalTransition)
		}

		ApplyRefund(EntitlementOf(user), locked).ApplyTo(user)
		if err := s.Users.SaveEntitlement(txCtx, user); err != nil {
			return err
		}

		locked.Status = model.OrderStatusRefunded
		ok, err := s.Orders.Transition(txCtx, locked, model.OrderStatusPaid)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Internal("order %s changed while locked", orderNo)
		}

		record := &payModel.Transaction{
			OrderID:  locked.ID,
			OrderNo:  locked.OrderNo,
			Type:     payModel.TransactionRefund,
			Amount:   locked.Amount,
			Platform: locked.Method(),
			Status:   payModel.TransactionSuccess,
		}
		if refund != nil {
			if refund.ExternalRef != "" {
				ref := refund.ExternalRef
				record.ExternalID = &ref
			}
			record.RawPayload = refund.Raw
		}
		if err := s.Transactions.Append(txCtx, record); err != nil {
			return err
		}
		order = locked
		applied = true
		return nil
	})
	if err != nil {
		return err
	}

	if applied {
		s.afterStateChange(ctx, order)
		if s.Metrics != nil {
			amount, _ := order.Amount.Float64()
			s.Metrics.RecordOrderAmount("refund", amount)
		}
		s.Notifier.OrderRefunded(order)
		s.logger(ctx).Info("order refunded",
			zap.String("order_no", orderNo),
			zap.String("operator", caller.UserID))
	}
	return nil
}

// OrderQuery 订单列表条件
type OrderQuery struct {
	Scope  string            // 管理员传 my 只看自己的订单
	Status model.OrderStatus // 为空表示全部状态
}

// ListOrders 订单列表，管理员且 scope 不为 my 时查看全部
func (s *orderService) ListOrders(ctx context.Context, caller Caller, query OrderQuery, page utils.Pagination) ([]model.Order, int64, error) {
	if query.Status != "" && !query.Status.Valid() {
		return nil, 0, apperr.Validation("unknown order status %q", query.Status)
	}
	filter := repository.OrderFilter{UserID: caller.UserID, Status: query.Status}
	if caller.Admin && query.Scope != ScopeMy {
		filter.UserID = ""
	}

	offset, limit := page.GetPageOffset()
	orders, total, err := s.Orders.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	kept := orders[:0]
	for i := range orders {
		if _, err := s.Expirer.Check(ctx, &orders[i]); err != nil {
			return nil, 0, err
		}
		// 按待支付过滤时，刚被判定过期的订单不再返回
		if filter.Status != "" && orders[i].Status != filter.Status {
			total--
			continue
		}
		kept = append(kept, orders[i])
	}
	return kept, total, nil
}

func (s *orderService) afterStateChange(ctx context.Context, order *model.Order) {
	s.recordTransition(order)
	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, queryCachePrefix+order.OrderNo); err != nil {
			s.logger(ctx).Warn("invalidate payment query cache failed", zap.Error(err))
		}
	}
}

func (s *orderService) recordTransition(order *model.Order) {
	if s.Metrics != nil {
		s.Metrics.RecordOrderTransition(string(order.OrderType), string(order.Status))
	}
}

// gatewayError 参数校验错误原样返回，其余视为网关故障
func gatewayError(err error, op string) error {
	if apperr.IsKind(err, apperr.KindValidation) {
		return err
	}
	return apperr.Internal("payment gateway %s failed", op).WithReason(apperr.ReasonGatewayFailure).Wrap(err)
}

// newOrderNo VIP + 秒级时间戳 + 4 位随机数
func newOrderNo(now time.Time) string {
	id := uuid.New()
	n := binary.BigEndian.Uint32(id[:4]) % 10000
	return fmt.Sprintf("VIP%s%04d", now.Format("20060102150405"), n)
}
