package service

import (
	"context"
	"sync"
	"time"

	userModel "course_platform/internal/domain/user/model"
	userRepo "course_platform/internal/domain/user/repository"
	"course_platform/pkg/apperr"
	"course_platform/pkg/metrics"
)

// Transactor 事务执行器，database.TransactionManager 实现该接口
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserGuard 以用户为粒度串行化订单写操作
// 事务内对用户行 SELECT ... FOR UPDATE；单实例部署可额外启用进程内锁
type UserGuard struct {
	tx       Transactor
	users    userRepo.UserRepository
	lockWait time.Duration
	local    *keyedMutex
	metrics  *metrics.MetricsCollector
}

func NewUserGuard(tx Transactor, users userRepo.UserRepository, lockWait time.Duration, m *metrics.MetricsCollector) *UserGuard {
	return &UserGuard{tx: tx, users: users, lockWait: lockWait, metrics: m}
}

// WithLocalLock 启用进程内按用户加锁
func (g *UserGuard) WithLocalLock() *UserGuard {
	g.local = newKeyedMutex()
	return g
}

// WithUserLock 在持有用户锁的事务中执行 fn
// 等待超过 lockWait 返回 TRANSIENT，事务提交或回滚后释放锁
func (g *UserGuard) WithUserLock(ctx context.Context, userID string, fn func(ctx context.Context, user *userModel.User) error) error {
	start := time.Now()
	if g.local != nil {
		unlock, err := g.local.lock(ctx, userID, g.lockWait)
		if err != nil {
			return err
		}
		defer unlock()
	}

	return g.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		user, err := g.users.LockByID(txCtx, userID, g.lockWait)
		if err != nil {
			return err
		}
		if g.metrics != nil {
			g.metrics.ObserveLockWait(time.Since(start))
		}
		return fn(txCtx, user)
	})
}

type keyedLock struct {
	ch   chan struct{}
	refs int
}

// keyedMutex 按 key 加锁，支持超时
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

func (k *keyedMutex) lock(ctx context.Context, key string, wait time.Duration) (func(), error) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{ch: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case l.ch <- struct{}{}:
		return func() {
			<-l.ch
			k.release(key, l)
		}, nil
	case <-timer.C:
		k.release(key, l)
		return nil, apperr.Transient("user is busy, please retry").WithReason(apperr.ReasonLockTimeout)
	case <-ctx.Done():
		k.release(key, l)
		return nil, apperr.Transient("request cancelled while waiting for lock").WithReason(apperr.ReasonLockTimeout).Wrap(ctx.Err())
	}
}

func (k *keyedMutex) release(key string, l *keyedLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}
