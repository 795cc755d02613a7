package repository

import (
	"context"
	"testing"
	"time"

	"course_platform/internal/domain/payment/model"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.Transaction{}))
	return db
}

func newTx(orderID string, txType model.TransactionType, platform, amount string) *model.Transaction {
	return &model.Transaction{
		OrderID:  orderID,
		OrderNo:  "VIP" + orderID,
		Type:     txType,
		Amount:   decimal.RequireFromString(amount),
		Platform: platform,
		Status:   model.TransactionSuccess,
	}
}

func TestTransactionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, newTx("o1", model.TransactionPayment, "ALIPAY", "30.00")))
	require.NoError(t, repo.Append(ctx, newTx("o1", model.TransactionRefund, "ALIPAY", "30.00")))
	require.NoError(t, repo.Append(ctx, newTx("o2", model.TransactionPayment, "WECHAT", "285.00")))

	txs, err := repo.ListByOrder(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.NotEmpty(t, txs[0].ID)

	count, err := repo.CountByOrder(ctx, "o1", model.TransactionPayment)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountByOrder(ctx, "o2", model.TransactionRefund)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestLedgerReportSummary(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, newTx("o1", model.TransactionPayment, "ALIPAY", "30.00")))
	require.NoError(t, repo.Append(ctx, newTx("o2", model.TransactionPayment, "ALIPAY", "285.50")))
	require.NoError(t, repo.Append(ctx, newTx("o1", model.TransactionRefund, "ALIPAY", "30.00")))
	failed := newTx("o3", model.TransactionPayment, "WECHAT", "99.00")
	failed.Status = model.TransactionFailed
	require.NoError(t, repo.Append(ctx, failed))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	report := NewLedgerReport(sqlx.NewDb(sqlDB, "sqlite3"))

	rows, err := report.Summary(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "ALIPAY", rows[0].Platform)
	assert.Equal(t, "PAYMENT", rows[0].Type)
	assert.Equal(t, int64(2), rows[0].Count)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("315.50")), rows[0].Amount.String())

	assert.Equal(t, "REFUND", rows[1].Type)
	assert.True(t, rows[1].Amount.Equal(decimal.RequireFromString("30")))
}
