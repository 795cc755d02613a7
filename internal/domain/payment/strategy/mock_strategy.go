package strategy

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const MethodMock = "MOCK"

// MockStrategy 模拟支付，发起即到账，仅用于开发与测试环境
type MockStrategy struct {
	mu       sync.Mutex
	payments map[string]*TradeStatus
}

func NewMockStrategy() *MockStrategy {
	return &MockStrategy{payments: make(map[string]*TradeStatus)}
}

func (s *MockStrategy) Method() string {
	return MethodMock
}

func (s *MockStrategy) Synchronous() bool {
	return true
}

func (s *MockStrategy) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentInstruction, error) {
	if err := ValidatePaymentParams(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[req.OrderNo] = &TradeStatus{
		OrderNo:     req.OrderNo,
		TradeNo:     "MOCK" + uuid.New().String()[:8],
		Status:      "TRADE_SUCCESS",
		Paid:        true,
		TotalAmount: req.Amount,
	}
	return &PaymentInstruction{Method: MethodMock}, nil
}

func (s *MockStrategy) Query(ctx context.Context, orderNo string) (*TradeStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.payments[orderNo]
	if !ok {
		return &TradeStatus{OrderNo: orderNo, Status: "WAIT_BUYER_PAY"}, nil
	}
	copied := *st
	return &copied, nil
}

func (s *MockStrategy) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	return &RefundResult{
		RefundedAmount: req.Amount,
		ExternalRef:    req.RequestNo,
	}, nil
}

// VerifyNotification 模拟通知不做验签，直接读取表单
func (s *MockStrategy) VerifyNotification(ctx context.Context, r *http.Request) (*TradeStatus, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(r.Form.Get("total_amount"))
	if err != nil {
		return nil, fmt.Errorf("parse mock notification amount: %w", err)
	}
	status := r.Form.Get("trade_status")
	return &TradeStatus{
		OrderNo:     r.Form.Get("out_trade_no"),
		TradeNo:     r.Form.Get("trade_no"),
		Status:      status,
		Paid:        status == "TRADE_SUCCESS",
		TotalAmount: amount,
		Raw:         r.Form.Encode(),
	}, nil
}

func (s *MockStrategy) AckNotification(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("success"))
}

var _ PaymentGateway = (*MockStrategy)(nil)
