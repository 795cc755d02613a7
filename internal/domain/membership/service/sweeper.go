package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper 定时批量过期待支付订单
type Sweeper struct {
	expirer  *Expirer
	interval time.Duration
	log      *zap.Logger
}

func NewSweeper(expirer *Expirer, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{expirer: expirer, interval: interval, log: log}
}

// Run 阻塞运行直到 ctx 取消，单次失败只记录日志
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("order sweeper started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("order sweeper stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce 执行一次批量过期
func (s *Sweeper) RunOnce(ctx context.Context) int64 {
	n, err := s.expirer.Sweep(ctx)
	if err != nil {
		s.log.Error("sweep expired orders failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		s.log.Info("expired pending orders", zap.Int64("count", n))
	}
	return n
}
