package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type txProbe struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&txProbe{}))
	return db
}

func TestRunInTransaction(t *testing.T) {
	db := setupTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	t.Run("commit on success", func(t *testing.T) {
		err := tm.RunInTransaction(ctx, func(ctx context.Context) error {
			assert.True(t, InTransaction(ctx))
			return tm.GetTx(ctx).Create(&txProbe{Name: "committed"}).Error
		})
		require.NoError(t, err)

		var count int64
		db.Model(&txProbe{}).Where("name = ?", "committed").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := tm.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := tm.GetTx(ctx).Create(&txProbe{Name: "rolled-back"}).Error; err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		var count int64
		db.Model(&txProbe{}).Where("name = ?", "rolled-back").Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("nested call reuses outer transaction", func(t *testing.T) {
		err := tm.RunInTransaction(ctx, func(outer context.Context) error {
			return tm.RunInTransaction(outer, func(inner context.Context) error {
				assert.Same(t, tm.GetTx(outer), tm.GetTx(inner))
				return nil
			})
		})
		assert.NoError(t, err)
	})

	t.Run("no transaction outside", func(t *testing.T) {
		assert.False(t, InTransaction(ctx))
	})
}
