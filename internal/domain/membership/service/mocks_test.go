package service

import (
	"context"
	"net/http"
	"time"

	"course_platform/internal/domain/membership/model"
	"course_platform/internal/domain/membership/repository"
	"course_platform/internal/domain/payment/strategy"

	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) GetByNo(ctx context.Context, orderNo string) (*model.Order, error) {
	args := m.Called(ctx, orderNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) LockByNo(ctx context.Context, orderNo string) (*model.Order, error) {
	args := m.Called(ctx, orderNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListPendingByUser(ctx context.Context, userID string) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter repository.OrderFilter, offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, filter, offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Transition(ctx context.Context, order *model.Order, from model.OrderStatus) (bool, error) {
	args := m.Called(ctx, order, from)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) SetPaymentMethod(ctx context.Context, orderID, method string) error {
	return m.Called(ctx, orderID, method).Error(0)
}

func (m *MockOrderRepository) ExpireIfPending(ctx context.Context, orderID string) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) ExpireBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByPlan(ctx context.Context, planID string, statuses ...model.OrderStatus) (int64, error) {
	args := m.Called(ctx, planID, statuses)
	return args.Get(0).(int64), args.Error(1)
}

type inTxKey struct{}

// stubTx 直接执行 fn，并在 ctx 上打标记以便断言调用发生在事务内
type stubTx struct{}

func (stubTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, inTxKey{}, true))
}

func inTx() any {
	return mock.MatchedBy(func(ctx context.Context) bool { return ctx.Value(inTxKey{}) != nil })
}

// MockPlanRepository is a mock of PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) GetActive(ctx context.Context, id string) (*model.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plan), args.Error(1)
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id string) (*model.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plan), args.Error(1)
}

func (m *MockPlanRepository) LockByID(ctx context.Context, id string) (*model.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plan), args.Error(1)
}

func (m *MockPlanRepository) List(ctx context.Context, includeInactive bool) ([]model.Plan, error) {
	args := m.Called(ctx, includeInactive)
	return args.Get(0).([]model.Plan), args.Error(1)
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *model.Plan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *MockPlanRepository) Update(ctx context.Context, plan *model.Plan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *MockPlanRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockGateway is a mock of PaymentGateway
type MockGateway struct {
	mock.Mock
	method string
	sync   bool
}

func (m *MockGateway) Method() string {
	return m.method
}

func (m *MockGateway) Synchronous() bool {
	return m.sync
}

func (m *MockGateway) CreatePayment(ctx context.Context, req strategy.PaymentRequest) (*strategy.PaymentInstruction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*strategy.PaymentInstruction), args.Error(1)
}

func (m *MockGateway) Query(ctx context.Context, orderNo string) (*strategy.TradeStatus, error) {
	args := m.Called(ctx, orderNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*strategy.TradeStatus), args.Error(1)
}

func (m *MockGateway) Refund(ctx context.Context, req strategy.RefundRequest) (*strategy.RefundResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*strategy.RefundResult), args.Error(1)
}

func (m *MockGateway) VerifyNotification(ctx context.Context, r *http.Request) (*strategy.TradeStatus, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*strategy.TradeStatus), args.Error(1)
}

func (m *MockGateway) AckNotification(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}
