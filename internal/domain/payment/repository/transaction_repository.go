package repository

import (
	"context"
	"fmt"
	"time"

	"course_platform/internal/domain/payment/model"
	"course_platform/pkg/database"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionRepository 支付流水仓储，只追加不修改
type TransactionRepository interface {
	Append(ctx context.Context, tx *model.Transaction) error
	ListByOrder(ctx context.Context, orderID string) ([]model.Transaction, error)
	CountByOrder(ctx context.Context, orderID string, txType model.TransactionType) (int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Append(ctx context.Context, tx *model.Transaction) error {
	if err := database.GetTxFromContext(ctx, r.db).Create(tx).Error; err != nil {
		return fmt.Errorf("append %s transaction for %s: %w", tx.Type, tx.OrderNo, err)
	}
	return nil
}

func (r *transactionRepository) ListByOrder(ctx context.Context, orderID string) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := database.GetTxFromContext(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&txs).Error
	return txs, err
}

func (r *transactionRepository) CountByOrder(ctx context.Context, orderID string, txType model.TransactionType) (int64, error) {
	var count int64
	err := database.GetTxFromContext(ctx, r.db).
		Model(&model.Transaction{}).
		Where("order_id = ? AND type = ?", orderID, txType).
		Count(&count).Error
	return count, err
}

// LedgerRow 对账汇总行
type LedgerRow struct {
	Platform string          `db:"platform" json:"platform"`
	Type     string          `db:"type" json:"type"`
	Count    int64           `db:"cnt" json:"count"`
	Amount   decimal.Decimal `db:"total" json:"amount"`
}

// LedgerReport 按支付平台与流水类型汇总成功流水，供运维对账使用
type LedgerReport struct {
	db *sqlx.DB
}

func NewLedgerReport(db *sqlx.DB) *LedgerReport {
	return &LedgerReport{db: db}
}

const ledgerSummarySQL = `
SELECT platform, type, COUNT(*) AS cnt, COALESCE(SUM(amount), 0) AS total
FROM payment_transactions
WHERE status = ? AND created_at >= ? AND created_at < ?
GROUP BY platform, type
ORDER BY platform, type`

// Summary 统计 [from, to) 区间内的成功流水
func (r *LedgerReport) Summary(ctx context.Context, from, to time.Time) ([]LedgerRow, error) {
	rows := []LedgerRow{}
	query := r.db.Rebind(ledgerSummarySQL)
	if err := r.db.SelectContext(ctx, &rows, query, model.TransactionSuccess, from, to); err != nil {
		return nil, fmt.Errorf("ledger summary: %w", err)
	}
	return rows, nil
}
