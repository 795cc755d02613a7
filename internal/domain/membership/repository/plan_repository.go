package repository

import (
	"context"
	"errors"
	"fmt"

	"course_platform/internal/domain/membership/model"
	"course_platform/pkg/apperr"
	"course_platform/pkg/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanRepository 会员套餐仓储
type PlanRepository interface {
	// GetActive 获取上架中的套餐，不存在或已下架返回 NOT_FOUND
	GetActive(ctx context.Context, id string) (*model.Plan, error)
	GetByID(ctx context.Context, id string) (*model.Plan, error)
	// LockByID 在当前事务中对套餐行加排他锁，引用该套餐的订单写入需等待锁释放
	LockByID(ctx context.Context, id string) (*model.Plan, error)
	List(ctx context.Context, includeInactive bool) ([]model.Plan, error)
	Create(ctx context.Context, plan *model.Plan) error
	Update(ctx context.Context, plan *model.Plan) error
	// Delete 物理删除，仍有订单引用时返回 PLAN_IN_USE
	Delete(ctx context.Context, id string) error
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) GetActive(ctx context.Context, id string) (*model.Plan, error) {
	var plan model.Plan
	err := database.GetTxFromContext(ctx, r.db).
		Where("id = ? AND is_active = ?", id, true).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("plan is invalid or no longer available")
		}
		return nil, fmt.Errorf("get active plan: %w", err)
	}
	return &plan, nil
}

func (r *planRepository) GetByID(ctx context.Context, id string) (*model.Plan, error) {
	return r.first(database.GetTxFromContext(ctx, r.db), id)
}

func (r *planRepository) LockByID(ctx context.Context, id string) (*model.Plan, error) {
	return r.first(database.GetTxFromContext(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *planRepository) first(tx *gorm.DB, id string) (*model.Plan, error) {
	var plan model.Plan
	if err := tx.Where("id = ?", id).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("plan %s not found", id)
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return &plan, nil
}

func (r *planRepository) List(ctx context.Context, includeInactive bool) ([]model.Plan, error) {
	var plans []model.Plan
	q := database.GetTxFromContext(ctx, r.db)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("level ASC, price ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

func (r *planRepository) Create(ctx context.Context, plan *model.Plan) error {
	return database.GetTxFromContext(ctx, r.db).Create(plan).Error
}

func (r *planRepository) Update(ctx context.Context, plan *model.Plan) error {
	return database.GetTxFromContext(ctx, r.db).Save(plan).Error
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	err := database.GetTxFromContext(ctx, r.db).Unscoped().Where("id = ?", id).Delete(&model.Plan{}).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperr.Validation("plan %s is referenced by orders", id).WithReason(apperr.ReasonPlanInUse).Wrap(err)
	}
	return err
}
