package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countJob struct {
	counter *atomic.Int64
	fail    bool
}

type countResult struct {
	err error
}

func (r *countResult) GetError() error { return r.err }

func (j *countJob) Execute(ctx context.Context) Result {
	j.counter.Add(1)
	if j.fail {
		return &countResult{err: errors.New("job failed")}
	}
	return &countResult{}
}

func TestPoolRunsAllJobs(t *testing.T) {
	var counter atomic.Int64

	pool := NewPool(3)
	pool.Start()
	for i := 0; i < 20; i++ {
		pool.Submit(&countJob{counter: &counter})
	}
	results := pool.Wait()

	if counter.Load() != 20 {
		t.Errorf("executed = %d, want 20", counter.Load())
	}
	if len(results) != 20 {
		t.Errorf("results = %d, want 20", len(results))
	}
}

// A single worker with far more jobs than the queue can buffer must
// still accept every Submit and finish; results may not require a
// reader while jobs are still being queued.
func TestPoolAcceptsMoreJobsThanBuffer(t *testing.T) {
	var counter atomic.Int64

	pool := NewPool(1)
	pool.Start()

	done := make(chan []Result, 1)
	go func() {
		for i := 0; i < 64; i++ {
			pool.Submit(&countJob{counter: &counter})
		}
		done <- pool.Wait()
	}()

	select {
	case results := <-done:
		if counter.Load() != 64 {
			t.Errorf("executed = %d, want 64", counter.Load())
		}
		if len(results) != 64 {
			t.Errorf("results = %d, want 64", len(results))
		}
	case <-time.After(10 * time.Second):
		t.Fatal("pool stalled before all submitted jobs completed")
	}
}

func TestPoolCollectsFailures(t *testing.T) {
	var counter atomic.Int64

	pool := NewPool(2)
	pool.Start()
	pool.Submit(&countJob{counter: &counter})
	pool.Submit(&countJob{counter: &counter, fail: true})
	results := pool.Wait()

	failed := 0
	for _, result := range results {
		if result.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("failed results = %d, want 1", failed)
	}
}

func TestPoolDefaultsToOneWorker(t *testing.T) {
	var counter atomic.Int64

	pool := NewPool(0)
	pool.Start()
	pool.Submit(&countJob{counter: &counter})
	results := pool.Wait()

	if len(results) != 1 || counter.Load() != 1 {
		t.Errorf("results = %d, executed = %d", len(results), counter.Load())
	}
}
