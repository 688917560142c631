// Package worker proves independent claims concurrently. Each job runs its
// own controller; jobs share nothing, so the pool needs no locking beyond its
// channels.
package worker

import (
	"context"
	"sync"
)

// Job is one unit of work.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job.
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of goroutines. A collector goroutine
// drains results as they arrive, so Submit never blocks on result
// backpressure no matter how many jobs are queued ahead of Wait.
type Pool struct {
	workers   int
	jobs      chan Job
	results   chan Result
	collector *ResultCollector
	collectWG sync.WaitGroup
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool builds a pool with the given parallelism (minimum 1).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:   workers,
		jobs:      make(chan Job, workers*2),
		results:   make(chan Result, workers*2),
		collector: NewResultCollector(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the workers and the result collector.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	p.collectWG.Add(1)
	go func() {
		defer p.collectWG.Done()
		for res := range p.results {
			p.collector.Add(res)
		}
	}()
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			res := job.Execute(p.ctx)
			select {
			case p.results <- res:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. Submissions after Shutdown are dropped.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Wait closes the queue, waits for the workers to drain it and returns every
// result. Call exactly once, after all Submits.
func (p *Pool) Wait() []Result {
	close(p.jobs)
	p.wg.Wait()
	p.closeResults()
	p.collectWG.Wait()
	return p.collector.Results()
}

// Shutdown cancels in-flight jobs and releases the workers.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
	p.collectWG.Wait()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() { close(p.results) })
}

// ResultCollector accumulates results from concurrent workers.
type ResultCollector struct {
	mu      sync.Mutex
	results []Result
}

// NewResultCollector builds an empty collector.
func NewResultCollector() *ResultCollector {
	return &ResultCollector{results: make([]Result, 0)}
}

// Add records one result.
func (c *ResultCollector) Add(result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

// Results returns everything collected so far.
func (c *ResultCollector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}
