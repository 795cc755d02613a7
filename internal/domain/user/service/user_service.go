package service

import (
	"context"
	"time"

	"course_platform/internal/domain/user/model"
	"course_platform/internal/domain/user/repository"

	"github.com/shopspring/decimal"
)

// MembershipView 当前用户的会员权益
type MembershipView struct {
	UserID          string          `json:"user_id"`
	Level           int             `json:"level"`
	Active          bool            `json:"active"`
	ExpireAt        *time.Time      `json:"expire_at"`
	RemainingDays   int             `json:"remaining_days"`
	ReferenceAmount decimal.Decimal `json:"reference_amount"`
	ReferenceDays   int             `json:"reference_days"`
}

// UserService 用户服务接口
type UserService interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetMembership(ctx context.Context, userID string) (*MembershipView, error)
}

// userService 实现
type userService struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo, now: time.Now}
}

// GetUser 获取单个用户
func (s *userService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetMembership 查询会员权益
// 等级不随退款回退，是否有效只看到期时间
func (s *userService) GetMembership(ctx context.Context, userID string) (*MembershipView, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	view := &MembershipView{
		UserID:          user.ID,
		Level:           user.Level,
		Active:          user.IsMemberActive(now),
		ExpireAt:        user.MembershipExpireAt,
		ReferenceAmount: user.MembershipReferenceAmount,
		ReferenceDays:   user.MembershipReferenceDays,
	}
	if view.Active {
		view.RemainingDays = int(user.MembershipExpireAt.Sub(now) / (24 * time.Hour))
	}
	return view, nil
}
