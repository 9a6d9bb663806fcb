// Package worker provides a goroutine pool for decoding many raw HL7
// messages in parallel. The codec itself is synchronous; parallelism lives
// entirely in this outer layer.
package worker

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gohl7/hl7v2"
	"github.com/gohl7/hl7v2/pkg/logger"
)

// DecodeFunc decodes one raw payload. The default is hl7v2.Decode with the
// pool's options.
type DecodeFunc func(payload []byte) (*hl7v2.Message, error)

// Pool manages worker goroutines decoding jobs in parallel.
type Pool struct {
	workers int
	decode  DecodeFunc
	jobs    chan Job
	results chan *JobResult
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	closed  atomic.Bool
	log     *logger.Logger

	submitted atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
}

// NewPool creates a pool of workers decoding with the given codec options.
// If workers <= 0, it defaults to runtime.NumCPU().
func NewPool(workers int, opts ...hl7v2.Option) *Pool {
	decode := func(payload []byte) (*hl7v2.Message, error) {
		return hl7v2.Decode(payload, opts...)
	}
	return NewPoolFunc(workers, decode)
}

// NewPoolFunc creates a pool using a caller-supplied decode function.
func NewPoolFunc(workers int, decode DecodeFunc) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		workers: workers,
		decode:  decode,
		jobs:    make(chan Job, workers*2),
		results: make(chan *JobResult, workers*2),
		ctx:     ctx,
		cancel:  cancel,
		log:     logger.Default(),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// SetLogger replaces the pool's logger.
func (p *Pool) SetLogger(l *logger.Logger) {
	if l != nil {
		p.log = l
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			start := time.Now()
			msg, err := p.decode(job.Payload)
			r := &JobResult{
				ID:       job.ID,
				Index:    job.Index,
				Message:  msg,
				Err:      err,
				Duration: time.Since(start),
			}
			p.completed.Add(1)
			if err != nil {
				p.failed.Add(1)
				p.log.Debug("decode job %q failed: %v", job.ID, err)
			}
			select {
			case <-p.ctx.Done():
				return
			case p.results <- r:
			}
		}
	}
}

// Submit queues a job, blocking while the queue is full. It returns false
// once the pool is closed.
func (p *Pool) Submit(job Job) bool {
	if p.closed.Load() {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- job:
		p.submitted.Add(1)
		return true
	}
}

// Results returns the channel of completed job results.
func (p *Pool) Results() <-chan *JobResult {
	return p.results
}

// Close stops accepting jobs, waits for in-flight jobs to finish, and
// closes the results channel.
func (p *Pool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	close(p.jobs)
	p.wg.Wait()
	p.cancel()
	close(p.results)
}

// Stats returns submitted/completed/failed counters.
func (p *Pool) Stats() (submitted, completed, failed uint64) {
	return p.submitted.Load(), p.completed.Load(), p.failed.Load()
}

// DecodeBatch decodes payloads in parallel and returns results in
// submission order. It is a convenience wrapper owning its own pool.
func DecodeBatch(ctx context.Context, payloads [][]byte, workers int, opts ...hl7v2.Option) (*BatchResult, error) {
	p := NewPool(workers, opts...)

	go func() {
		defer close(p.jobs)
		for i, payload := range payloads {
			select {
			case <-ctx.Done():
				return
			case p.jobs <- Job{Index: i, Payload: payload}:
				p.submitted.Add(1)
			}
		}
	}()

	br := &BatchResult{
		Results:   make([]*JobResult, len(payloads)),
		TotalJobs: len(payloads),
	}
	for i := 0; i < len(payloads); i++ {
		select {
		case <-ctx.Done():
			p.cancel()
			return br, ctx.Err()
		case r := <-p.results:
			br.Results[r.Index] = r
			if r.Err != nil {
				br.Failed++
			}
		}
	}
	p.wg.Wait()
	p.cancel()
	return br, nil
}
