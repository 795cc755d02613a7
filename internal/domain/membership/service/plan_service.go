package service

import (
	"context"
	"strings"

	"course_platform/internal/domain/membership/model"
	"course_platform/internal/domain/membership/repository"
	"course_platform/pkg/apperr"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreatePlanInput 创建套餐参数
type CreatePlanInput struct {
	Name          string
	Level         int
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	DurationUnit  string
	DurationValue int
	Description   string
	IsActive      *bool
}

// UpdatePlanInput 部分更新，nil 表示不修改
type UpdatePlanInput struct {
	Name          *string
	Level         *int
	Price         *decimal.Decimal
	OriginalPrice *decimal.Decimal
	DurationUnit  *string
	DurationValue *int
	Description   *string
	IsActive      *bool
}

// onlyActivation 是否只修改上下架状态
func (in UpdatePlanInput) onlyActivation() bool {
	return in.Name == nil && in.Level == nil && in.Price == nil && in.OriginalPrice == nil &&
		in.DurationUnit == nil && in.DurationValue == nil && in.Description == nil
}

// PlanService 套餐管理，除列表与详情外仅管理员可用
type PlanService interface {
	ListPlans(ctx context.Context, caller Caller) ([]model.Plan, error)
	GetPlan(ctx context.Context, caller Caller, id string) (*model.Plan, error)
	CreatePlan(ctx context.Context, caller Caller, in CreatePlanInput) (*model.Plan, error)
	UpdatePlan(ctx context.Context, caller Caller, id string, in UpdatePlanInput) (*model.Plan, error)
	DeletePlan(ctx context.Context, caller Caller, id string) error
}

type planService struct {
	tx     Transactor
	plans  repository.PlanRepository
	orders repository.OrderRepository
	log    *zap.Logger
}

func NewPlanService(tx Transactor, plans repository.PlanRepository, orders repository.OrderRepository, log *zap.Logger) PlanService {
	return &planService{tx: tx, plans: plans, orders: orders, log: log}
}

func (s *planService) ListPlans(ctx context.Context, caller Caller) ([]model.Plan, error) {
	return s.plans.List(ctx, caller.Admin)
}

// GetPlan 非管理员只能查看上架中的套餐
func (s *planService) GetPlan(ctx context.Context, caller Caller, id string) (*model.Plan, error) {
	if caller.Admin {
		return s.plans.GetByID(ctx, id)
	}
	return s.plans.GetActive(ctx, id)
}

func (s *planService) CreatePlan(ctx context.Context, caller Caller, in CreatePlanInput) (*model.Plan, error) {
	if !caller.Admin {
		return nil, apperr.PermissionDenied("only administrators can manage plans")
	}

	plan := &model.Plan{
		Name:          strings.TrimSpace(in.Name),
		Level:         in.Level,
		Price:         in.Price.Round(2),
		DurationUnit:  strings.ToUpper(in.DurationUnit),
		DurationValue: in.DurationValue,
		Description:   in.Description,
		IsActive:      true,
	}
	if plan.DurationUnit == "" {
		plan.DurationUnit = model.UnitMonth
	}
	if in.OriginalPrice != nil {
		op := in.OriginalPrice.Round(2)
		plan.OriginalPrice = &op
	}
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	plan.NormalizeDuration()

	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}
	s.log.Info("plan created", zap.String("plan_id", plan.ID), zap.String("name", plan.Name))
	return plan, nil
}

// UpdatePlan 已有支付订单的套餐只允许上下架，价格与权益保持不变
func (s *planService) UpdatePlan(ctx context.Context, caller Caller, id string, in UpdatePlanInput) (*model.Plan, error) {
	if !caller.Admin {
		return nil, apperr.PermissionDenied("only administrators can manage plans")
	}
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !in.onlyActivation() {
		paid, err := s.orders.CountByPlan(ctx, id, model.OrderStatusPaid, model.OrderStatusRefunded)
		if err != nil {
			return nil, err
		}
		if paid > 0 {
			return nil, apperr.Validation("plan has paid orders, only is_active can be changed")
		}
	}

	if in.Name != nil {
		plan.Name = strings.TrimSpace(*in.Name)
	}
	if in.Level != nil {
		plan.Level = *in.Level
	}
	if in.Price != nil {
		plan.Price = in.Price.Round(2)
	}
	if in.OriginalPrice != nil {
		op := in.OriginalPrice.Round(2)
		plan.OriginalPrice = &op
	}
	if in.DurationUnit != nil {
		plan.DurationUnit = strings.ToUpper(*in.DurationUnit)
	}
	if in.DurationValue != nil {
		plan.DurationValue = *in.DurationValue
	}
	if in.Description != nil {
		plan.Description = *in.Description
	}
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	plan.NormalizeDuration()

	if err := s.plans.Update(ctx, plan); err != nil {
		return nil, err
	}
	s.log.Info("plan updated", zap.String("plan_id", plan.ID), zap.Bool("is_active", plan.IsActive))
	return plan, nil
}

// DeletePlan 有订单引用时下架，否则物理删除
// 引用计数与删除在同一事务内完成，期间套餐行加锁，并发下单的外键检查会等待
func (s *planService) DeletePlan(ctx context.Context, caller Caller, id string) error {
	if !caller.Admin {
		return apperr.PermissionDenied("only administrators can manage plans")
	}

	var refs int64
	err := s.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		plan, err := s.plans.LockByID(txCtx, id)
		if err != nil {
			return err
		}
		if refs, err = s.orders.CountByPlan(txCtx, id); err != nil {
			return err
		}
		if refs > 0 {
			plan.IsActive = false
			return s.plans.Update(txCtx, plan)
		}
		return s.plans.Delete(txCtx, id)
	})
	switch {
	case err == nil && refs > 0:
		s.log.Info("plan deactivated", zap.String("plan_id", id), zap.Int64("orders", refs))
		return nil
	case err == nil:
		s.log.Info("plan deleted", zap.String("plan_id", id))
		return nil
	case apperr.HasReason(err, apperr.ReasonPlanInUse):
		// 外键拦下了删除，事务已回滚，改为下架
		return s.deactivate(ctx, id)
	default:
		return err
	}
}

func (s *planService) deactivate(ctx context.Context, id string) error {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return err
	}
	plan.IsActive = false
	if err := s.plans.Update(ctx, plan); err != nil {
		return err
	}
	s.log.Warn("plan referenced during delete, deactivated instead", zap.String("plan_id", id))
	return nil
}

func validatePlan(p *model.Plan) error {
	switch {
	case p.Name == "":
		return apperr.Validation("plan name is required")
	case len([]rune(p.Name)) > 50:
		return apperr.Validation("plan name is too long")
	case p.Level < 1:
		return apperr.Validation("plan level must be at least 1")
	case p.Price.IsNegative():
		return apperr.Validation("plan price cannot be negative")
	case p.Price.GreaterThan(maxPlanPrice):
		return apperr.Validation("plan price exceeds %s", maxPlanPrice.StringFixed(2))
	case !model.ValidUnit(p.DurationUnit):
		return apperr.Validation("unsupported duration unit %q", p.DurationUnit)
	case p.DurationValue <= 0:
		return apperr.Validation("duration value must be positive")
	}
	return nil
}

var maxPlanPrice = decimal.RequireFromString("999999.99")
