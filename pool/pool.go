// ABOUTME: Simple worker pool for parallelizing batch tasks
// ABOUTME: Provides submit-and-wait pattern for per-trial signal reductions

package pool

import (
	"runtime"
	"sync"
)

// WorkerPool runs submitted tasks on a fixed set of goroutines sized to
// the available CPUs. Tasks are plain closures; the pool has no result
// channel because batch reductions write into caller-owned slices.
type WorkerPool struct {
	tasks    chan func()
	workerWg sync.WaitGroup // worker goroutine lifetimes
	taskWg   sync.WaitGroup // submitted task completion
}

// NewWorkerPool creates a pool with one worker per CPU and a task
// channel of the given capacity.
func NewWorkerPool(bufferSize int) *WorkerPool {
	p := &WorkerPool{
		tasks: make(chan func(), bufferSize),
	}

	for range runtime.NumCPU() {
		p.workerWg.Add(1)

		go func() {
			defer p.workerWg.Done()

			for task := range p.tasks {
				task()
				p.taskWg.Done()
			}
		}()
	}

	return p
}

// Submit queues a task. Blocks when the task channel is full.
func (p *WorkerPool) Submit(task func()) {
	p.taskWg.Add(1)
	p.tasks <- task
}

// Wait blocks until every submitted task has completed.
func (p *WorkerPool) Wait() {
	p.taskWg.Wait()
}

// Close stops accepting tasks and waits for the workers to exit.
func (p *WorkerPool) Close() {
	close(p.tasks)
	p.workerWg.Wait()
}
