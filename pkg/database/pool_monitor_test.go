package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestPoolMonitorSample(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	core, logs := observer.New(zap.WarnLevel)
	pm := NewPoolMonitor(sqlDB, time.Minute, time.Hour, zap.New(core))

	snap, waited := pm.Sample()
	assert.Equal(t, 1, snap.MaxOpen)
	assert.False(t, snap.Saturated())
	assert.Zero(t, waited)
	assert.Equal(t, 0, logs.Len())

	conn, err := sqlDB.Conn(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	snap, _ = pm.Sample()
	assert.True(t, snap.Saturated())
	assert.Equal(t, 1, logs.FilterMessage("database pool under pressure").Len())
}

func TestPoolMonitorStopsOnCancel(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	pm := NewPoolMonitor(sqlDB, time.Millisecond, time.Second, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pm.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}
