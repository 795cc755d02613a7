package strategy

import (
	"context"
	"net/http"
	"time"
	"unicode/utf8"

	"course_platform/pkg/apperr"
	"course_platform/pkg/metrics"

	"github.com/shopspring/decimal"
)

// 支付宝接口对参数的限制
const (
	maxOrderNoLen = 64
	maxSubjectLen = 256
)

var maxAmount = decimal.RequireFromString("999999.99")

// PaymentRequest 发起支付
type PaymentRequest struct {
	OrderNo string
	Amount  decimal.Decimal
	Subject string
}

// PaymentInstruction 交给客户端完成支付的信息
// 页面支付返回 PayURL，扫码支付返回 CodeURL
type PaymentInstruction struct {
	Method  string `json:"method"`
	PayURL  string `json:"pay_url,omitempty"`
	CodeURL string `json:"code_url,omitempty"`
}

// TradeStatus 网关侧的交易状态
type TradeStatus struct {
	OrderNo     string
	TradeNo     string
	Status      string // 网关原始状态，如 TRADE_SUCCESS / SUCCESS
	Paid        bool
	TotalAmount decimal.Decimal
	SendPayDate string
	BuyerUserID string
	Raw         string
}

// RefundRequest 全额退款
type RefundRequest struct {
	OrderNo   string
	RequestNo string // 退款请求号，网关据此去重
	Amount    decimal.Decimal
	Reason    string
}

// RefundResult 退款结果
type RefundResult struct {
	RefundedAmount decimal.Decimal
	ExternalRef    string
	Raw            string
}

// PaymentGateway 支付网关
type PaymentGateway interface {
	// Method 支付方式，如 ALIPAY
	Method() string
	// Synchronous 为 true 时 CreatePayment 成功即视为到账
	Synchronous() bool
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentInstruction, error)
	Query(ctx context.Context, orderNo string) (*TradeStatus, error)
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
	// VerifyNotification 验签并解析异步通知
	VerifyNotification(ctx context.Context, r *http.Request) (*TradeStatus, error)
	// AckNotification 回写网关要求的应答
	AckNotification(w http.ResponseWriter)
}

// ValidatePaymentParams 调用网关前的参数校验
func ValidatePaymentParams(req PaymentRequest) error {
	if req.OrderNo == "" || len(req.OrderNo) > maxOrderNoLen {
		return apperr.Validation("invalid order number")
	}
	if !req.Amount.IsPositive() {
		return apperr.Validation("payment amount must be greater than 0")
	}
	if req.Amount.GreaterThan(maxAmount) {
		return apperr.Validation("payment amount exceeds limit")
	}
	if req.Subject == "" || utf8.RuneCountInString(req.Subject) > maxSubjectLen {
		return apperr.Validation("invalid payment subject")
	}
	return nil
}

// toCents 元转分
func toCents(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

// fromCents 分转元
func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Gateways 按支付方式注册的网关
type Gateways struct {
	gateways map[string]PaymentGateway
}

func NewGateways() *Gateways {
	return &Gateways{gateways: make(map[string]PaymentGateway)}
}

// Register 注册网关
func (g *Gateways) Register(gw PaymentGateway) {
	g.gateways[gw.Method()] = gw
}

// Get 获取网关，未注册的支付方式返回校验错误
func (g *Gateways) Get(method string) (PaymentGateway, error) {
	gw, ok := g.gateways[method]
	if !ok {
		return nil, apperr.Validation("unsupported payment method: %s", method)
	}
	return gw, nil
}

// Methods 已注册的支付方式
func (g *Gateways) Methods() []string {
	methods := make([]string, 0, len(g.gateways))
	for m := range g.gateways {
		methods = append(methods, m)
	}
	return methods
}

// instrumented 记录网关调用耗时与结果
type instrumented struct {
	PaymentGateway
	metrics *metrics.MetricsCollector
}

// Instrument 为网关加上调用指标
func Instrument(gw PaymentGateway, m *metrics.MetricsCollector) PaymentGateway {
	if m == nil {
		return gw
	}
	return &instrumented{PaymentGateway: gw, metrics: m}
}

func (i *instrumented) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentInstruction, error) {
	start := time.Now()
	res, err := i.PaymentGateway.CreatePayment(ctx, req)
	i.metrics.RecordGatewayCall(i.Method(), "create", time.Since(start), err)
	return res, err
}

func (i *instrumented) Query(ctx context.Context, orderNo string) (*TradeStatus, error) {
	start := time.Now()
	res, err := i.PaymentGateway.Query(ctx, orderNo)
	i.metrics.RecordGatewayCall(i.Method(), "query", time.Since(start), err)
	return res, err
}

func (i *instrumented) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	start := time.Now()
	res, err := i.PaymentGateway.Refund(ctx, req)
	i.metrics.RecordGatewayCall(i.Method(), "refund", time.Since(start), err)
	return res, err
}
