// Package parallel runs independent scanline work across a fixed set of
// goroutines.
//
// Generators split their output into bands of rows; each band is a closure
// that touches only its own rows, so no locking is needed around the output
// buffer.
package parallel

import (
	"runtime"
	"sync"
)

// WorkerPool is a fixed set of goroutines pulling bands from one shared
// queue. An idle worker always takes the next band, so a slow band (the
// storm region of a surface, for example) does not hold the others up.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queue   chan func()
	wg      sync.WaitGroup

	// mu guards closed and keeps Close from closing queue under a sender.
	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		queue:   make(chan func(), max(8, workers*4)),
	}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for work := range p.queue {
		work()
	}
}

// ExecuteAll runs every function in work and waits for all of them.
// On a closed pool the work runs on the calling goroutine instead, so
// callers always get a finished result.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		for _, fn := range work {
			fn()
		}
		return
	}

	var done sync.WaitGroup
	done.Add(len(work))
	for _, fn := range work {
		p.queue <- func() {
			defer done.Done()
			fn()
		}
	}
	p.mu.RUnlock()

	done.Wait()
}

// Close waits for queued work to finish and stops the workers. Close is
// safe to call multiple times.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}
