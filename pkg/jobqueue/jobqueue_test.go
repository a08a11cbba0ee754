package jobqueue

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestLocalRunsConcurrentJobs(t *testing.T) {
	e := NewLocal()
	const n = 50
	var count int32
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{Kind: Concurrent, Run: func() { atomic.AddInt32(&count, 1) }}
	}
	e.AddJobs(jobs)
	if count != n {
		t.Errorf("count = %d, want %d", count, n)
	}
}

func TestLocalSequentialRunsAfterConcurrent(t *testing.T) {
	e := NewLocal()
	var mu sync.Mutex
	var order []string

	jobs := []Job{
		{Kind: Concurrent, Run: func() {
			mu.Lock()
			order = append(order, "concurrent")
			mu.Unlock()
		}},
		{Kind: Sequential, Run: func() {
			mu.Lock()
			order = append(order, "sequential")
			mu.Unlock()
		}},
	}
	e.AddJobs(jobs)

	if len(order) != 2 || order[1] != "sequential" {
		t.Fatalf("order = %v, want concurrent job(s) then sequential last", order)
	}
}

// TestLocalSequentialCanResubmit exercises the nested-AddJobs pattern the
// scanfill driver relies on: a Sequential job's closure calling AddJobs
// again must run to completion, including its own nested jobs, before the
// outer AddJobs call returns.
func TestLocalSequentialCanResubmit(t *testing.T) {
	e := NewLocal()
	var rounds int32

	var round func(n int)
	round = func(n int) {
		if n == 0 {
			return
		}
		e.AddJobs([]Job{
			{Kind: Sequential, Run: func() {
				atomic.AddInt32(&rounds, 1)
				round(n - 1)
			}},
		})
	}

	round(5)
	if rounds != 5 {
		t.Errorf("rounds = %d, want 5", rounds)
	}
}

func TestAddJobSingle(t *testing.T) {
	e := NewLocal()
	var ran bool
	e.AddJob(Job{Kind: Concurrent, Run: func() { ran = true }})
	if !ran {
		t.Error("AddJob did not run its job")
	}
}
