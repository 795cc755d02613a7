package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWorkerPoolProcessesTasks(t *testing.T) {
	pool := NewWorkerPool(zap.NewNop(), 2, 10)
	pool.Start()

	var count int32
	for i := 0; i < 5; i++ {
		ok := pool.AddTask(Task{Name: "count", Run: func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		}})
		assert.True(t, ok)
	}

	pool.Stop(context.Background())
	assert.Equal(t, int32(5), atomic.LoadInt32(&count))
}

func TestWorkerPoolRetries(t *testing.T) {
	pool := NewWorkerPool(zap.NewNop(), 1, 1).WithRetry(2, time.Millisecond)
	pool.Start()

	var attempts int32
	pool.AddTask(Task{Name: "flaky", Run: func(ctx context.Context) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("temporary")
		}
		return nil
	}})

	pool.Stop(context.Background())
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestWorkerPoolGivesUpAfterMaxRetry(t *testing.T) {
	pool := NewWorkerPool(zap.NewNop(), 1, 1).WithRetry(1, time.Millisecond)
	pool.Start()

	var attempts int32
	pool.AddTask(Task{Name: "broken", Run: func(ctx context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("permanent")
	}})

	pool.Stop(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestWorkerPoolRejectsAfterStop(t *testing.T) {
	pool := NewWorkerPool(zap.NewNop(), 1, 1)
	pool.Start()
	pool.Stop(context.Background())

	ok := pool.AddTask(Task{Name: "late", Run: func(ctx context.Context) error { return nil }})
	assert.False(t, ok)

	// 重复 Stop 不会 panic
	pool.Stop(context.Background())
}

func TestWorkerPoolDropsWhenFull(t *testing.T) {
	pool := NewWorkerPool(zap.NewNop(), 1, 1)
	// 未启动 worker，队列容量为 1
	assert.True(t, pool.AddTask(Task{Name: "a", Run: func(ctx context.Context) error { return nil }}))
	assert.False(t, pool.AddTask(Task{Name: "b", Run: func(ctx context.Context) error { return nil }}))

	pool.Start()
	pool.Stop(context.Background())
}
