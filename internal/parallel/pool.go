// Package parallel provides the band-parallel execution used by the
// software rasterizer.
//
// A frame is split into horizontal bands of rows. Each band is one work
// item and owns its rows exclusively, so workers never write the same
// pixel and need no locking on the frame buffers.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a pool of goroutines with per-worker queues. A worker
// whose queue is empty steals from the others, which balances bands that
// cover more geometry than their neighbours.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	workQueues []chan func()
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool

	// mu orders handoffs against Close: ExecuteAll queues under the read
	// lock, Close closes done under the write lock, so every queued item
	// is in a queue its worker drains before exiting.
	mu sync.RWMutex

	// executed counts completed work items, for tests and the HUD.
	executed atomic.Uint64
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.workQueues[id]

	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			p.run(work)
		default:
			if stolen := p.steal(id); stolen != nil {
				p.run(stolen)
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case work := <-own:
				p.run(work)
			}
		}
	}
}

func (p *WorkerPool) run(work func()) {
	if work == nil {
		return
	}
	p.executed.Add(1)
	work()
}

func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			p.run(work)
		default:
			return
		}
	}
}

// steal takes one item from another worker's queue, or returns nil.
func (p *WorkerPool) steal(self int) func() {
	for i := range p.workers {
		if i == self {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll runs every item and waits for all of them. Items are dealt
// round-robin to the worker queues. On a closed pool the items run on
// the calling goroutine, so callers always get their work done, also
// when Close runs concurrently. Work items must not call ExecuteAll on
// the same pool.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	p.mu.RLock()
	if !p.running.Load() {
		p.mu.RUnlock()
		for _, fn := range work {
			if fn != nil {
				fn()
			}
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for i, fn := range work {
		p.workQueues[i%p.workers] <- func() {
			defer wg.Done()
			if fn != nil {
				fn()
			}
		}
	}
	p.mu.RUnlock()
	wg.Wait()
}

// ForEachBand splits height rows into bands and calls fn once per band,
// in parallel, waiting for all bands to finish.
func (p *WorkerPool) ForEachBand(height int, fn func(b Band)) {
	bands := SplitRows(height, p.workers*BandsPerWorker)
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b) }
	}
	p.ExecuteAll(work)
}

// Close stops the workers after the queued work has run.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int { return p.workers }

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool { return p.running.Load() }

// Executed returns the number of work items the workers have started.
// Once ExecuteAll returns, its items are all counted.
func (p *WorkerPool) Executed() uint64 { return p.executed.Load() }
