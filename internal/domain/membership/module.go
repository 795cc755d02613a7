package membership

import (
	"context"
	"fmt"

	"course_platform/internal/domain/membership/handler"
	"course_platform/internal/domain/membership/repository"
	"course_platform/internal/domain/membership/service"
	payRepo "course_platform/internal/domain/payment/repository"
	"course_platform/internal/domain/payment/strategy"
	userRepo "course_platform/internal/domain/user/repository"
	"course_platform/internal/pkg/config"
	"course_platform/internal/pkg/middleware"
	"course_platform/internal/pkg/registry"
	"course_platform/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MembershipModule 会员套餐、订单与支付
type MembershipModule struct{}

func init() {
	registry.Register(&MembershipModule{})
}

func (m *MembershipModule) Name() string {
	return "membership"
}

func (m *MembershipModule) Priority() int {
	return 2
}

func (m *MembershipModule) Init(ctx *registry.ModuleContext) error {
	log := ctx.Logger.Named("membership")
	cfg := ctx.Config.Membership

	gateways, err := buildGateways(context.Background(), ctx.Config, ctx.Metrics, log)
	if err != nil {
		return err
	}

	orders := repository.NewOrderRepository(ctx.DB)
	plans := repository.NewPlanRepository(ctx.DB)
	users := userRepo.NewUserRepository(ctx.DB)
	transactions := payRepo.NewTransactionRepository(ctx.DB)

	guard := service.NewUserGuard(ctx.TxManager, users, cfg.LockWait, ctx.Metrics).WithLocalLock()
	expirer := service.NewExpirer(orders, ctx.Metrics, log)

	var notifier service.Notifier
	if ctx.Workers != nil && ctx.Pusher != nil {
		notifier = service.NewPushNotifier(ctx.Workers, ctx.Pusher)
	}

	orderService := service.NewOrderService(service.OrderDeps{
		Tx:           ctx.TxManager,
		Guard:        guard,
		Expirer:      expirer,
		Orders:       orders,
		Plans:        plans,
		Users:        users,
		Transactions: transactions,
		Gateways:     gateways,
		Cache:        ctx.Cache,
		Notifier:     notifier,
		Metrics:      ctx.Metrics,
		Logger:       log,
		Config:       cfg,
	})
	planService := service.NewPlanService(ctx.TxManager, plans, orders, log)

	sweeper := service.NewSweeper(expirer, cfg.SweepInterval, log)
	ctx.AddJob("order-sweeper", sweeper.Run)

	setupRoutes(ctx.Router, handler.NewOrderHandler(orderService), handler.NewPlanHandler(planService), ctx.Config.JWT.Secret)
	return nil
}

// buildGateways 按配置注册支付渠道，未配置的渠道不可用
func buildGateways(ctx context.Context, cfg *config.Config, m *metrics.MetricsCollector, log *zap.Logger) (*strategy.Gateways, error) {
	gateways := strategy.NewGateways()
	register := func(gw strategy.PaymentGateway) {
		if m != nil {
			gw = strategy.Instrument(gw, m)
		}
		gateways.Register(gw)
		log.Info("payment gateway registered", zap.String("method", gw.Method()))
	}

	if cfg.Alipay.AppID != "" {
		gw, err := strategy.NewAlipayStrategy(cfg.Alipay)
		if err != nil {
			return nil, fmt.Errorf("init alipay: %w", err)
		}
		register(gw)
	}
	if cfg.Wechat.MchID != "" {
		gw, err := strategy.NewWechatStrategy(ctx, cfg.Wechat)
		if err != nil {
			return nil, fmt.Errorf("init wechat pay: %w", err)
		}
		register(gw)
	}
	if cfg.Membership.MockPayment {
		register(strategy.NewMockStrategy())
	}
	if len(gateways.Methods()) == 0 {
		log.Warn("no payment gateway configured, orders can only be created")
	}
	return gateways, nil
}

func setupRoutes(r *gin.Engine, orders *handler.OrderHandler, plans *handler.PlanHandler, secret string) {
	group := r.Group("/membership")
	group.Use(middleware.AuthMiddleware(secret))
	{
		group.GET("/plans", plans.ListPlans)
		group.GET("/plans/:id", plans.GetPlan)
		group.POST("/plans", plans.CreatePlan)
		group.PATCH("/plans/:id", plans.UpdatePlan)
		group.PUT("/plans/:id", plans.UpdatePlan)
		group.DELETE("/plans/:id", plans.DeletePlan)

		group.POST("/orders", orders.CreateOrder)
		group.GET("/orders", orders.ListOrders)
		group.GET("/orders/:order_no", orders.GetOrder)
		group.POST("/orders/:order_no/pay", orders.PayOrder)
		group.GET("/orders/:order_no/payment", orders.QueryPayment)
		group.POST("/orders/:order_no/action", orders.OrderAction)
	}

	// 网关回调不走 JWT，由各渠道验签
	r.POST("/payment/notify/:channel", orders.Notify)
}
