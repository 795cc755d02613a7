package strategy

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"course_platform/internal/pkg/config"

	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/core/auth/verifiers"
	"github.com/wechatpay-apiv3/wechatpay-go/core/downloader"
	"github.com/wechatpay-apiv3/wechatpay-go/core/notify"
	"github.com/wechatpay-apiv3/wechatpay-go/core/option"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/native"
	"github.com/wechatpay-apiv3/wechatpay-go/services/refunddomestic"
	"github.com/wechatpay-apiv3/wechatpay-go/utils"
)

const (
	MethodWechat = "WECHAT"

	wechatTradeSuccess = "SUCCESS"
	wechatCurrency     = "CNY"
)

// WechatStrategy 微信 Native 扫码支付
type WechatStrategy struct {
	client  *core.Client
	config  config.WechatPayConfig
	handler *notify.Handler
}

func NewWechatStrategy(ctx context.Context, cfg config.WechatPayConfig) (*WechatStrategy, error) {
	if cfg.MchID == "" {
		return nil, errors.New("wechat pay config missing")
	}

	// 1. 加载商户私钥
	mchPrivateKey, err := utils.LoadPrivateKey(cfg.MchPrivateKey)
	if err != nil {
		return nil, err
	}

	// 2. 初始化 Client，同时注册平台证书自动下载
	opts := []core.ClientOption{
		option.WithWechatPayAutoAuthCipher(cfg.MchID, cfg.MchCertificateSerial, mchPrivateKey, cfg.APIv3Key),
	}
	client, err := core.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	// 3. 通知验签使用已下载的平台证书
	certVisitor := downloader.MgrInstance().GetCertificateVisitor(cfg.MchID)
	handler := notify.NewNotifyHandler(cfg.APIv3Key, verifiers.NewSHA256WithRSAVerifier(certVisitor))

	return &WechatStrategy{
		client:  client,
		config:  cfg,
		handler: handler,
	}, nil
}

func (s *WechatStrategy) Method() string {
	return MethodWechat
}

func (s *WechatStrategy) Synchronous() bool {
	return false
}

// CreatePayment 下单并返回二维码链接
func (s *WechatStrategy) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentInstruction, error) {
	if err := ValidatePaymentParams(req); err != nil {
		return nil, err
	}

	svc := native.NativeApiService{Client: s.client}
	resp, _, err := svc.Prepay(ctx, native.PrepayRequest{
		Appid:       core.String(s.config.AppID),
		Mchid:       core.String(s.config.MchID),
		Description: core.String(req.Subject),
		OutTradeNo:  core.String(req.OrderNo),
		NotifyUrl:   core.String(s.config.NotifyURL),
		Amount: &native.Amount{
			Total:    core.Int64(toCents(req.Amount)),
			Currency: core.String(wechatCurrency),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wechat native prepay: %w", err)
	}
	if resp.CodeUrl == nil {
		return nil, errors.New("wechat native prepay: empty code_url")
	}
	return &PaymentInstruction{Method: MethodWechat, CodeURL: *resp.CodeUrl}, nil
}

func (s *WechatStrategy) Query(ctx context.Context, orderNo string) (*TradeStatus, error) {
	svc := native.NativeApiService{Client: s.client}
	tx, _, err := svc.QueryOrderByOutTradeNo(ctx, native.QueryOrderByOutTradeNoRequest{
		OutTradeNo: core.String(orderNo),
		Mchid:      core.String(s.config.MchID),
	})
	if err != nil {
		return nil, fmt.Errorf("wechat query order: %w", err)
	}
	return transactionStatus(tx), nil
}

func (s *WechatStrategy) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	cents := toCents(req.Amount)
	svc := refunddomestic.RefundsApiService{Client: s.client}
	resp, _, err := svc.Create(ctx, refunddomestic.CreateRequest{
		OutTradeNo:  core.String(req.OrderNo),
		OutRefundNo: core.String(req.RequestNo),
		Reason:      core.String(req.Reason),
		Amount: &refunddomestic.AmountReq{
			Refund:   core.Int64(cents),
			Total:    core.Int64(cents),
			Currency: core.String(wechatCurrency),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wechat refund: %w", err)
	}

	result := &RefundResult{RefundedAmount: req.Amount, Raw: marshalRaw(resp)}
	if resp.RefundId != nil {
		result.ExternalRef = *resp.RefundId
	}
	if resp.Amount != nil && resp.Amount.Refund != nil {
		result.RefundedAmount = fromCents(*resp.Amount.Refund)
	}
	return result, nil
}

func (s *WechatStrategy) VerifyNotification(ctx context.Context, r *http.Request) (*TradeStatus, error) {
	tx := new(payments.Transaction)
	if _, err := s.handler.ParseNotifyRequest(ctx, r, tx); err != nil {
		return nil, fmt.Errorf("verify wechat notification: %w", err)
	}
	return transactionStatus(tx), nil
}

// AckNotification 微信要求返回 JSON 应答
func (s *WechatStrategy) AckNotification(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"code":"SUCCESS","message":"成功"}`))
}

func transactionStatus(tx *payments.Transaction) *TradeStatus {
	status := &TradeStatus{
		OrderNo: stringValue(tx.OutTradeNo),
		TradeNo: stringValue(tx.TransactionId),
		Status:  stringValue(tx.TradeState),
		Raw:     marshalRaw(tx),
	}
	status.Paid = status.Status == wechatTradeSuccess
	status.SendPayDate = stringValue(tx.SuccessTime)
	if tx.Amount != nil && tx.Amount.Total != nil {
		status.TotalAmount = fromCents(*tx.Amount.Total)
	}
	if tx.Payer != nil {
		status.BuyerUserID = stringValue(tx.Payer.Openid)
	}
	return status
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ PaymentGateway = (*WechatStrategy)(nil)
