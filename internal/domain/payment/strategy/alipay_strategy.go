package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"course_platform/internal/pkg/config"

	"github.com/shopspring/decimal"
	"github.com/smartwalle/alipay/v3"
)

const (
	MethodAlipay = "ALIPAY"

	alipayPageProductCode = "FAST_INSTANT_TRADE_PAY"
)

// AlipayStrategy 支付宝电脑网站支付
type AlipayStrategy struct {
	client *alipay.Client
	config config.AlipayConfig
}

func NewAlipayStrategy(cfg config.AlipayConfig) (*AlipayStrategy, error) {
	if cfg.AppID == "" {
		return nil, errors.New("alipay config missing")
	}

	client, err := alipay.New(cfg.AppID, cfg.PrivateKey, cfg.IsProduction)
	if err != nil {
		return nil, err
	}

	// 加载支付宝公钥 (用于验证签名)
	if err = client.LoadAliPayPublicKey(cfg.PublicKey); err != nil {
		return nil, err
	}

	return &AlipayStrategy{
		client: client,
		config: cfg,
	}, nil
}

func (s *AlipayStrategy) Method() string {
	return MethodAlipay
}

func (s *AlipayStrategy) Synchronous() bool {
	return false
}

// CreatePayment 生成支付页面地址，订单在异步通知或查询确认前保持待支付
func (s *AlipayStrategy) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentInstruction, error) {
	if err := ValidatePaymentParams(req); err != nil {
		return nil, err
	}

	p := alipay.TradePagePay{}
	p.NotifyURL = s.config.NotifyURL
	p.ReturnURL = s.config.ReturnURL
	p.Subject = req.Subject
	p.OutTradeNo = req.OrderNo
	p.TotalAmount = req.Amount.StringFixed(2)
	p.ProductCode = alipayPageProductCode

	payURL, err := s.client.TradePagePay(p)
	if err != nil {
		return nil, fmt.Errorf("alipay page pay: %w", err)
	}
	return &PaymentInstruction{Method: MethodAlipay, PayURL: payURL.String()}, nil
}

func (s *AlipayStrategy) Query(ctx context.Context, orderNo string) (*TradeStatus, error) {
	rsp, err := s.client.TradeQuery(alipay.TradeQuery{OutTradeNo: orderNo})
	if err != nil {
		return nil, fmt.Errorf("alipay trade query: %w", err)
	}
	if rsp.Code != alipay.CodeSuccess {
		return nil, fmt.Errorf("alipay trade query: %s %s", rsp.SubCode, rsp.SubMsg)
	}

	status := &TradeStatus{
		OrderNo:     rsp.OutTradeNo,
		TradeNo:     rsp.TradeNo,
		Status:      string(rsp.TradeStatus),
		Paid:        isAlipayPaid(rsp.TradeStatus),
		SendPayDate: rsp.SendPayDate,
		BuyerUserID: rsp.BuyerUserId,
		Raw:         marshalRaw(rsp),
	}
	if status.TotalAmount, err = parseAmount(rsp.TotalAmount); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *AlipayStrategy) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	rsp, err := s.client.TradeRefund(alipay.TradeRefund{
		OutTradeNo:   req.OrderNo,
		RefundAmount: req.Amount.StringFixed(2),
		RefundReason: req.Reason,
		OutRequestNo: req.RequestNo,
	})
	if err != nil {
		return nil, fmt.Errorf("alipay trade refund: %w", err)
	}
	if rsp.Code != alipay.CodeSuccess {
		return nil, fmt.Errorf("alipay trade refund: %s %s", rsp.SubCode, rsp.SubMsg)
	}

	refunded, err := parseAmount(rsp.RefundFee)
	if err != nil {
		return nil, err
	}
	return &RefundResult{
		RefundedAmount: refunded,
		ExternalRef:    rsp.TradeNo,
		Raw:            marshalRaw(rsp),
	}, nil
}

func (s *AlipayStrategy) VerifyNotification(ctx context.Context, r *http.Request) (*TradeStatus, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse alipay notification: %w", err)
	}

	noti, err := s.client.DecodeNotification(r.Form)
	if err != nil {
		return nil, fmt.Errorf("verify alipay notification: %w", err)
	}

	amount, err := parseAmount(noti.TotalAmount)
	if err != nil {
		return nil, err
	}
	return &TradeStatus{
		OrderNo:     noti.OutTradeNo,
		TradeNo:     noti.TradeNo,
		Status:      string(noti.TradeStatus),
		Paid:        isAlipayPaid(noti.TradeStatus),
		TotalAmount: amount,
		SendPayDate: noti.GmtPayment,
		BuyerUserID: noti.BuyerId,
		Raw:         r.Form.Encode(),
	}, nil
}

// AckNotification 支付宝要求返回纯文本 success
func (s *AlipayStrategy) AckNotification(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("success"))
}

// TRADE_SUCCESS 或 TRADE_FINISHED 表示成功
func isAlipayPaid(status alipay.TradeStatus) bool {
	return status == alipay.TradeStatusSuccess || status == alipay.TradeStatusFinished
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse gateway amount %q: %w", s, err)
	}
	return d, nil
}

func marshalRaw(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

var _ PaymentGateway = (*AlipayStrategy)(nil)
