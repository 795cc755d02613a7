package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"course_platform/internal/domain/membership/model"
	"course_platform/pkg/apperr"
	"course_platform/pkg/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderFilter 订单列表过滤条件，UserID 为空表示全部用户
type OrderFilter struct {
	UserID string
	Status model.OrderStatus
}

// OrderRepository 会员订单仓储
// 订单只做状态流转，不提供删除
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByNo(ctx context.Context, orderNo string) (*model.Order, error)
	// LockByNo 在当前事务中对订单行加排他锁
	LockByNo(ctx context.Context, orderNo string) (*model.Order, error)
	ListPendingByUser(ctx context.Context, userID string) ([]model.Order, error)
	List(ctx context.Context, filter OrderFilter, offset, limit int) ([]model.Order, int64, error)
	// Transition 仅当订单仍处于 from 状态时写入新状态，返回是否更新成功
	// from 到目标状态不在状态机内时返回 ILLEGAL_TRANSITION
	Transition(ctx context.Context, order *model.Order, from model.OrderStatus) (bool, error)
	SetPaymentMethod(ctx context.Context, orderID, method string) error
	// ExpireIfPending 单个订单过期，已被其他流转抢先时返回 false
	ExpireIfPending(ctx context.Context, orderID string) (bool, error)
	// ExpireBefore 批量过期创建时间早于 before 的待支付订单
	ExpireBefore(ctx context.Context, before time.Time) (int64, error)
	CountByPlan(ctx context.Context, planID string, statuses ...model.OrderStatus) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	err := database.GetTxFromContext(ctx, r.db).Create(order).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Transient("order number collision, please retry").Wrap(err)
	}
	return err
}

func (r *orderRepository) GetByNo(ctx context.Context, orderNo string) (*model.Order, error) {
	return r.first(database.GetTxFromContext(ctx, r.db), orderNo)
}

func (r *orderRepository) LockByNo(ctx context.Context, orderNo string) (*model.Order, error) {
	tx := database.GetTxFromContext(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.first(tx, orderNo)
}

func (r *orderRepository) first(tx *gorm.DB, orderNo string) (*model.Order, error) {
	var order model.Order
	if err := tx.Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %s not found", orderNo)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) ListPendingByUser(ctx context.Context, userID string) ([]model.Order, error) {
	var orders []model.Order
	err := database.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND status = ?", userID, model.OrderStatusPending).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter, offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := database.GetTxFromContext(ctx, r.db).Model(&model.Order{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) Transition(ctx context.Context, order *model.Order, from model.OrderStatus) (bool, error) {
	if !from.CanTransitionTo(order.Status) {
		return false, apperr.Validation("order %s cannot move from %s to %s", order.OrderNo, from, order.Status).
			WithReason(apperr.ReasonIllegalTransition)
	}
	result := database.GetTxFromContext(ctx, r.db).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", order.ID, from).
		Updates(map[string]interface{}{
			"status":         order.Status,
			"paid_at":        order.PaidAt,
			"payment_method": order.PaymentMethod,
		})
	if result.Error != nil {
		return false, fmt.Errorf("transition order %s: %w", order.OrderNo, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) SetPaymentMethod(ctx context.Context, orderID, method string) error {
	return database.GetTxFromContext(ctx, r.db).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
		Update("payment_method", method).Error
}

func (r *orderRepository) ExpireIfPending(ctx context.Context, orderID string) (bool, error) {
	result := database.GetTxFromContext(ctx, r.db).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
		Update("status", model.OrderStatusExpired)
	if result.Error != nil {
		return false, fmt.Errorf("expire order: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) ExpireBefore(ctx context.Context, before time.Time) (int64, error) {
	result := database.GetTxFromContext(ctx, r.db).
		Model(&model.Order{}).
		Where("status = ? AND created_at < ?", model.OrderStatusPending, before).
		Update("status", model.OrderStatusExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("sweep expired orders: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *orderRepository) CountByPlan(ctx context.Context, planID string, statuses ...model.OrderStatus) (int64, error) {
	var count int64
	q := database.GetTxFromContext(ctx, r.db).Model(&model.Order{}).Where("plan_id = ?", planID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Count(&count).Error
	return count, err
}
