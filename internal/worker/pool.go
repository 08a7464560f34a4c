package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of workers. Results are streamed on
// Results() and must be drained by the caller until it is closed, or the
// pool shut down.
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeJobs  sync.Once
	closeOnce  sync.Once
}

// NewPool creates a new worker pool bound to ctx
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers),
		results:    make(chan Result, workers),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It returns false once the pool is shut down.
func (p *Pool) Submit(job Job) bool {
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- job:
		return true
	}
}

// Close signals that no more jobs will be submitted. Results is closed once
// the queued jobs finish.
func (p *Pool) Close() {
	p.closeJobs.Do(func() {
		close(p.jobQueue)
	})
}

// Results streams job results as they complete
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Shutdown cancels running jobs and waits for the workers to exit
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

// Run submits jobs from a separate goroutine and hands every result to fn in
// completion order. The first error returned by fn shuts the pool down and is
// returned.
func Run(ctx context.Context, workers int, jobs []Job, fn func(Result) error) error {
	pool := NewPool(ctx, workers)
	pool.Start()

	go func() {
		defer pool.Close()
		for _, job := range jobs {
			if !pool.Submit(job) {
				return
			}
		}
	}()

	for result := range pool.Results() {
		if err := fn(result); err != nil {
			pool.Shutdown()
			return err
		}
	}

	pool.Shutdown()
	return ctx.Err()
}
