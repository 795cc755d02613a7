package database

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// PoolSnapshot 连接池快照
type PoolSnapshot struct {
	OpenConnections int
	InUse           int
	Idle            int
	MaxOpen         int
	WaitCount       int64
	WaitDuration    time.Duration
}

// Saturated 连接全部占用
func (s PoolSnapshot) Saturated() bool {
	return s.MaxOpen > 0 && s.InUse >= s.MaxOpen
}

// PoolMonitor 定期采样连接池，等待明显增加时告警
// 指标本身由 MetricsCollector.RegisterDB 导出，这里只负责日志告警
type PoolMonitor struct {
	db            *sql.DB
	interval      time.Duration
	waitThreshold time.Duration
	log           *zap.Logger

	last PoolSnapshot
}

func NewPoolMonitor(db *sql.DB, interval, waitThreshold time.Duration, log *zap.Logger) *PoolMonitor {
	return &PoolMonitor{db: db, interval: interval, waitThreshold: waitThreshold, log: log}
}

// Run 阻塞直到 ctx 取消
func (pm *PoolMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(pm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pm.Sample()
		}
	}
}

// Sample 采样一次并返回本次与上次之间新增的等待
func (pm *PoolMonitor) Sample() (PoolSnapshot, time.Duration) {
	stats := pm.db.Stats()
	snap := PoolSnapshot{
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		MaxOpen:         stats.MaxOpenConnections,
		WaitCount:       stats.WaitCount,
		WaitDuration:    stats.WaitDuration,
	}

	waited := snap.WaitDuration - pm.last.WaitDuration
	if waited > pm.waitThreshold || snap.Saturated() {
		pm.log.Warn("database pool under pressure",
			zap.Int("in_use", snap.InUse),
			zap.Int("max_open", snap.MaxOpen),
			zap.Int64("new_waits", snap.WaitCount-pm.last.WaitCount),
			zap.Duration("waited", waited))
	}
	pm.last = snap
	return snap, waited
}
