package worker

import (
	"context"
	"sync"
)

// Job is a unit of work run by the pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a job produces
type Result interface {
	GetError() error
}

type indexedJob struct {
	index int
	job   Job
}

type indexedResult struct {
	index  int
	result Result
}

// Pool runs jobs on a fixed number of goroutines.
// Results are returned in submission order.
type Pool struct {
	workers int
	jobs    chan indexedJob
	results chan indexedResult
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu        sync.Mutex
	submitted int
	collected map[int]Result
	drained   chan struct{}
}

// NewPool creates a pool bound to ctx; cancelling ctx stops the workers
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		workers:   workers,
		jobs:      make(chan indexedJob, workers*2),
		results:   make(chan indexedResult, workers*2),
		ctx:       ctx,
		cancel:    cancel,
		collected: make(map[int]Result),
		drained:   make(chan struct{}),
	}
	go p.collect()
	return p
}

// collect drains results as they arrive so workers never block on a full buffer
func (p *Pool) collect() {
	defer close(p.drained)
	for ir := range p.results {
		p.mu.Lock()
		p.collected[ir.index] = ir.result
		p.mu.Unlock()
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case ij, ok := <-p.jobs:
			if !ok {
				return
			}
			res := ij.job.Execute(p.ctx)
			select {
			case p.results <- indexedResult{index: ij.index, result: res}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job; it returns false once the pool is cancelled
func (p *Pool) Submit(job Job) bool {
	p.mu.Lock()
	idx := p.submitted
	p.submitted++
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- indexedJob{index: idx, job: job}:
		return true
	}
}

// Wait closes the queue, waits for the workers and returns results in submission order.
// Jobs that never ran because of cancellation have a nil slot.
func (p *Pool) Wait() []Result {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
	<-p.drained
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Result, p.submitted)
	for idx, r := range p.collected {
		out[idx] = r
	}
	return out
}

// Shutdown cancels outstanding work
func (p *Pool) Shutdown() {
	p.cancel()
}
