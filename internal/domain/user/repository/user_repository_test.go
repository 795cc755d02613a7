package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"course_platform/internal/domain/user/model"
	"course_platform/pkg/apperr"
	"course_platform/pkg/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestLockByID(t *testing.T) {
	t.Run("Sets lock timeout and selects for update", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db)
		tm := database.NewTransactionManager(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("SET LOCAL lock_timeout = '2000ms'")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 .*FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "level"}).AddRow("u1", 2))
		mock.ExpectCommit()

		var locked *model.User
		err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
			var err error
			locked, err = repo.LockByID(ctx, "u1", 2*time.Second)
			return err
		})

		require.NoError(t, err)
		assert.Equal(t, "u1", locked.ID)
		assert.Equal(t, 2, locked.Level)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Lock timeout maps to transient error", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db)
		tm := database.NewTransactionManager(db)

		mock.ExpectBegin()
		mock.ExpectExec("SET LOCAL lock_timeout").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`FOR UPDATE`).WillReturnError(&pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"})
		mock.ExpectRollback()

		err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
			_, err := repo.LockByID(ctx, "u1", time.Second)
			return err
		})

		assert.True(t, apperr.IsKind(err, apperr.KindTransient))
		assert.True(t, apperr.HasReason(err, apperr.ReasonLockTimeout))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing user", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db)
		tm := database.NewTransactionManager(db)

		mock.ExpectBegin()
		mock.ExpectExec("SET LOCAL lock_timeout").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
			_, err := repo.LockByID(ctx, "missing", time.Second)
			return err
		})

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSaveEntitlement(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	expire := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	user := &model.User{
		Level:                     2,
		MembershipExpireAt:        &expire,
		MembershipReferenceAmount: decimal.RequireFromString("30.00"),
		MembershipReferenceDays:   30,
	}
	user.ID = "u1"

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET .*"membership_reference_days"=.*WHERE id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SaveEntitlement(context.Background(), user)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsLockTimeout(t *testing.T) {
	assert.True(t, IsLockTimeout(&pgconn.PgError{Code: "55P03"}))
	assert.False(t, IsLockTimeout(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsLockTimeout(gorm.ErrRecordNotFound))
}
