package service

import (
	"context"
	"testing"
	"time"

	"course_platform/internal/domain/user/model"
	"course_platform/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) LockByID(ctx context.Context, id string, lockWait time.Duration) (*model.User, error) {
	args := m.Called(ctx, id, lockWait)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) SaveEntitlement(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func createTestUser(id string) *model.User {
	u := &model.User{
		Mobile:   "13800138000",
		Nickname: "TestUser",
		Role:     model.RoleUser,
		Status:   model.StatusNormal,
	}
	u.ID = id
	return u
}

func TestGetMembership(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("Active member", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := &userService{repo: mockRepo, now: func() time.Time { return now }}

		expire := now.Add(15*24*time.Hour + time.Hour)
		user := createTestUser("u1")
		user.Level = 2
		user.MembershipExpireAt = &expire
		user.MembershipReferenceAmount = decimal.RequireFromString("30.00")
		user.MembershipReferenceDays = 30
		mockRepo.On("GetByID", ctx, "u1").Return(user, nil)

		view, err := svc.GetMembership(ctx, "u1")

		assert.NoError(t, err)
		assert.True(t, view.Active)
		assert.Equal(t, 2, view.Level)
		assert.Equal(t, 15, view.RemainingDays)
		assert.Equal(t, 30, view.ReferenceDays)
		assert.True(t, view.ReferenceAmount.Equal(decimal.RequireFromString("30")))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Expired member keeps level but is inactive", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := &userService{repo: mockRepo, now: func() time.Time { return now }}

		expire := now.Add(-time.Hour)
		user := createTestUser("u2")
		user.Level = 3
		user.MembershipExpireAt = &expire
		mockRepo.On("GetByID", ctx, "u2").Return(user, nil)

		view, err := svc.GetMembership(ctx, "u2")

		assert.NoError(t, err)
		assert.False(t, view.Active)
		assert.Equal(t, 3, view.Level)
		assert.Equal(t, 0, view.RemainingDays)
	})

	t.Run("User not found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo)
		mockRepo.On("GetByID", ctx, "missing").Return(nil, apperr.NotFound("user missing not found"))

		view, err := svc.GetMembership(ctx, "missing")

		assert.Nil(t, view)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}
