package strategy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"course_platform/pkg/apperr"
	"course_platform/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePaymentParams(t *testing.T) {
	valid := PaymentRequest{OrderNo: "VIP202401011200001234", Amount: decimal.RequireFromString("30.00"), Subject: "月度会员"}

	tests := []struct {
		name   string
		mutate func(r *PaymentRequest)
		ok     bool
	}{
		{"valid", func(r *PaymentRequest) {}, true},
		{"empty order no", func(r *PaymentRequest) { r.OrderNo = "" }, false},
		{"order no too long", func(r *PaymentRequest) { r.OrderNo = strings.Repeat("9", 65) }, false},
		{"zero amount", func(r *PaymentRequest) { r.Amount = decimal.Zero }, false},
		{"negative amount", func(r *PaymentRequest) { r.Amount = decimal.RequireFromString("-1") }, false},
		{"max amount", func(r *PaymentRequest) { r.Amount = decimal.RequireFromString("999999.99") }, true},
		{"over max amount", func(r *PaymentRequest) { r.Amount = decimal.RequireFromString("1000000.00") }, false},
		{"empty subject", func(r *PaymentRequest) { r.Subject = "" }, false},
		{"subject 256 runes", func(r *PaymentRequest) { r.Subject = strings.Repeat("会", 256) }, true},
		{"subject too long", func(r *PaymentRequest) { r.Subject = strings.Repeat("a", 257) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := ValidatePaymentParams(req)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.IsKind(err, apperr.KindValidation))
			}
		})
	}
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(28500), toCents(decimal.RequireFromString("285.00")))
	assert.Equal(t, int64(1), toCents(decimal.RequireFromString("0.005")))
	assert.True(t, fromCents(1999).Equal(decimal.RequireFromString("19.99")))
}

func TestGateways(t *testing.T) {
	g := NewGateways()
	g.Register(NewMockStrategy())

	gw, err := g.Get(MethodMock)
	require.NoError(t, err)
	assert.True(t, gw.Synchronous())

	_, err = g.Get("PAYPAL")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Equal(t, []string{MethodMock}, g.Methods())
}

func TestMockStrategy(t *testing.T) {
	ctx := context.Background()
	s := NewMockStrategy()

	st, err := s.Query(ctx, "VIP1")
	require.NoError(t, err)
	assert.False(t, st.Paid)

	_, err = s.CreatePayment(ctx, PaymentRequest{OrderNo: "VIP1", Amount: decimal.RequireFromString("30"), Subject: "plan"})
	require.NoError(t, err)

	st, err = s.Query(ctx, "VIP1")
	require.NoError(t, err)
	assert.True(t, st.Paid)
	assert.True(t, st.TotalAmount.Equal(decimal.RequireFromString("30")))

	res, err := s.Refund(ctx, RefundRequest{OrderNo: "VIP1", RequestNo: "VIP1R", Amount: decimal.RequireFromString("30")})
	require.NoError(t, err)
	assert.Equal(t, "VIP1R", res.ExternalRef)
}

func TestMockStrategyNotification(t *testing.T) {
	s := NewMockStrategy()
	form := url.Values{}
	form.Set("out_trade_no", "VIP1")
	form.Set("trade_no", "T1")
	form.Set("trade_status", "TRADE_SUCCESS")
	form.Set("total_amount", "30.00")

	req := httptest.NewRequest(http.MethodPost, "/payment/notify/mock", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	st, err := s.VerifyNotification(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "VIP1", st.OrderNo)
	assert.True(t, st.Paid)

	w := httptest.NewRecorder()
	s.AckNotification(w)
	assert.Equal(t, "success", w.Body.String())
}

type failingGateway struct {
	*MockStrategy
}

func (f failingGateway) Query(ctx context.Context, orderNo string) (*TradeStatus, error) {
	return nil, errors.New("gateway down")
}

func TestInstrument(t *testing.T) {
	m := metrics.NewMetricsCollector()
	gw := Instrument(failingGateway{NewMockStrategy()}, m)

	_, err := gw.Query(context.Background(), "VIP1")
	assert.Error(t, err)
	_, err = gw.Refund(context.Background(), RefundRequest{OrderNo: "VIP1", Amount: decimal.RequireFromString("1")})
	assert.NoError(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "payment_gateway_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
