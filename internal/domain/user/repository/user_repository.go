package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"course_platform/internal/domain/user/model"
	"course_platform/pkg/apperr"
	"course_platform/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pgLockNotAvailable postgres lock_timeout 触发时的错误码
const pgLockNotAvailable = "55P03"

// UserRepository 接口定义
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// LockByID 在当前事务中对用户行加排他锁，等待超过 lockWait 返回 TRANSIENT
	LockByID(ctx context.Context, id string, lockWait time.Duration) (*model.User, error)
	// SaveEntitlement 只写会员权益字段
	SaveEntitlement(ctx context.Context, user *model.User) error
}

// userRepository 实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建新的仓库实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return database.GetTxFromContext(ctx, r.db).Create(user).Error
}

// GetByID 根据ID获取用户
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := database.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) LockByID(ctx context.Context, id string, lockWait time.Duration) (*model.User, error) {
	tx := database.GetTxFromContext(ctx, r.db)

	if tx.Dialector.Name() == "postgres" && lockWait > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockWait.Milliseconds())
		if err := tx.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("set lock timeout: %w", err)
		}
	}

	var user model.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", id)
		}
		if IsLockTimeout(err) {
			return nil, apperr.Transient("user is busy, please retry").WithReason(apperr.ReasonLockTimeout).Wrap(err)
		}
		return nil, fmt.Errorf("lock user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) SaveEntitlement(ctx context.Context, user *model.User) error {
	return database.GetTxFromContext(ctx, r.db).
		Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"level":                       user.Level,
			"membership_expire_at":        user.MembershipExpireAt,
			"membership_reference_amount": user.MembershipReferenceAmount,
			"membership_reference_days":   user.MembershipReferenceDays,
		}).Error
}

// IsLockTimeout 判断是否为加锁超时
func IsLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgLockNotAvailable
	}
	return false
}
