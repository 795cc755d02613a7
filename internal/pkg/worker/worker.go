package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task 异步任务
type Task struct {
	Name  string
	Run   func(ctx context.Context) error
	Retry int // 已重试次数
}

// WorkerPool 固定数量的 worker 消费任务队列，失败任务按退避重试
type WorkerPool struct {
	taskQueue chan Task
	workerNum int
	maxRetry  int
	backoff   time.Duration
	log       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewWorkerPool(log *zap.Logger, workerNum int, bufferSize int) *WorkerPool {
	if workerNum <= 0 {
		workerNum = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		taskQueue: make(chan Task, bufferSize),
		workerNum: workerNum,
		maxRetry:  3, // 最多重试3次
		backoff:   time.Second,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// WithRetry 调整重试策略
func (p *WorkerPool) WithRetry(maxRetry int, backoff time.Duration) *WorkerPool {
	p.maxRetry = maxRetry
	p.backoff = backoff
	return p
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.workerNum; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.log.Info("worker pool started", zap.Int("workers", p.workerNum))
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for task := range p.taskQueue {
		p.process(id, task)
	}
}

func (p *WorkerPool) process(id int, task Task) {
	for {
		err := task.Run(p.ctx)
		if err == nil {
			return
		}
		if task.Retry >= p.maxRetry || p.ctx.Err() != nil {
			p.logFailedTask(task, err)
			return
		}
		task.Retry++
		p.log.Warn("task failed, retrying",
			zap.Int("worker", id),
			zap.String("task", task.Name),
			zap.Int("attempt", task.Retry),
			zap.Error(err))

		// 延迟重试，避免立即重试
		select {
		case <-time.After(time.Duration(task.Retry) * p.backoff):
		case <-p.ctx.Done():
			p.logFailedTask(task, err)
			return
		}
	}
}

func (p *WorkerPool) logFailedTask(task Task, err error) {
	p.log.Error("task failed permanently",
		zap.String("task", task.Name),
		zap.Int("retries", task.Retry),
		zap.Error(err))
}

// AddTask 提交任务，队列已满或已关闭时丢弃并返回 false
func (p *WorkerPool) AddTask(task Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.log.Warn("worker pool stopped, task dropped", zap.String("task", task.Name))
		return false
	}

	select {
	case p.taskQueue <- task:
		return true
	default:
		p.log.Warn("worker pool queue full, task dropped", zap.String("task", task.Name))
		return false
	}
}

// Stop 停止接收任务，等待队列中已有任务处理完成
// ctx 到期后取消仍在重试等待中的任务
func (p *WorkerPool) Stop(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.taskQueue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.cancel()
		<-done
	}
	p.cancel()
}
