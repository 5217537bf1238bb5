package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Task is a unit of work executed by the pool.
type Task func(context.Context) error

// WorkerPool runs tasks on a fixed number of goroutines pulling from a
// queue. Submit blocks when the queue is full, so concurrency stays bounded
// no matter how many tasks are fanned out at once.
type WorkerPool struct {
	maxWorkers  int
	taskQueue   chan queuedTask
	workerWg    sync.WaitGroup
	quit        chan struct{}
	activeCount int32
	totalTasks  int64
	failedTasks int64
	avgExecTime int64 // nanoseconds
	started     bool
	mu          sync.RWMutex
}

type queuedTask struct {
	ctx  context.Context
	task Task
	done chan error
}

// NewWorkerPool creates a pool of maxWorkers workers.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	return &WorkerPool{
		maxWorkers: maxWorkers,
		taskQueue:  make(chan queuedTask, maxWorkers),
		quit:       make(chan struct{}),
	}
}

// Start launches the workers.
func (p *WorkerPool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("worker pool already started")
	}

	for i := 0; i < p.maxWorkers; i++ {
		p.workerWg.Add(1)
		go p.worker()
	}

	p.started = true
	return nil
}

func (p *WorkerPool) worker() {
	defer p.workerWg.Done()

	for {
		select {
		case qt := <-p.taskQueue:
			if qt.task == nil {
				continue
			}

			start := time.Now()
			atomic.AddInt32(&p.activeCount, 1)
			atomic.AddInt64(&p.totalTasks, 1)

			err := qt.task(qt.ctx)
			if err != nil {
				atomic.AddInt64(&p.failedTasks, 1)
			}

			elapsed := time.Since(start).Nanoseconds()
			oldAvg := atomic.LoadInt64(&p.avgExecTime)
			atomic.StoreInt64(&p.avgExecTime, (oldAvg*9+elapsed)/10)
			atomic.AddInt32(&p.activeCount, -1)

			if qt.done != nil {
				select {
				case qt.done <- err:
				case <-qt.ctx.Done():
				}
			}

		case <-p.quit:
			return
		}
	}
}

// Submit enqueues a task, blocking until a queue slot frees up or ctx is
// done. The returned channel receives the task's error exactly once.
func (p *WorkerPool) Submit(ctx context.Context, task Task) (<-chan error, error) {
	p.mu.RLock()
	if !p.started {
		p.mu.RUnlock()
		return nil, fmt.Errorf("worker pool not started")
	}
	p.mu.RUnlock()

	done := make(chan error, 1)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.quit:
		return nil, fmt.Errorf("worker pool stopped")
	case p.taskQueue <- queuedTask{ctx: ctx, task: task, done: done}:
		return done, nil
	}
}

// Stop shuts down the pool and waits for in-flight tasks to finish.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	close(p.quit)
	p.workerWg.Wait()
	p.started = false
}

// ActiveWorkers returns the number of workers currently running a task.
func (p *WorkerPool) ActiveWorkers() int32 {
	return atomic.LoadInt32(&p.activeCount)
}

// WorkerPoolStats holds statistics about the worker pool.
type WorkerPoolStats struct {
	MaxWorkers    int
	ActiveWorkers int32
	QueueSize     int
	TotalTasks    int64
	FailedTasks   int64
	SuccessRate   float64
	AvgExecTimeMs float64
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() WorkerPoolStats {
	total := atomic.LoadInt64(&p.totalTasks)
	failed := atomic.LoadInt64(&p.failedTasks)
	avgNs := atomic.LoadInt64(&p.avgExecTime)

	successRate := float64(0)
	if total > 0 {
		successRate = float64(total-failed) / float64(total)
	}

	return WorkerPoolStats{
		MaxWorkers:    p.maxWorkers,
		ActiveWorkers: atomic.LoadInt32(&p.activeCount),
		QueueSize:     len(p.taskQueue),
		TotalTasks:    total,
		FailedTasks:   failed,
		SuccessRate:   successRate,
		AvgExecTimeMs: float64(avgNs) / 1e6,
	}
}
