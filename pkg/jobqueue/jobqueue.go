// Package jobqueue provides the runnable-job executor collaborator the
// scanfill engine schedules tile work through (spec.md §6). It mirrors
// the teacher's own ad hoc parallelism (pkg/stdimg/floodfill.go's
// runtime.NumCPU-sized worker pool over a sync.WaitGroup) generalized
// into a small two-kind job model.
package jobqueue

import (
	"runtime"
	"sync"
)

// JobKind distinguishes jobs that may run concurrently with others in the
// same batch from ones that must run only after every earlier job in the
// batch has finished.
type JobKind int

const (
	// Concurrent jobs may run in any order, in parallel with other
	// concurrent jobs of the same batch.
	Concurrent JobKind = iota
	// Sequential jobs run only after all preceding jobs in the batch
	// have completed, and block any later job in the batch until they
	// finish.
	Sequential
)

// Job is one unit of work submitted to an Executor.
type Job struct {
	Kind JobKind
	Run  func()
}

// Executor accepts jobs and runs them according to the kind semantics
// above.
type Executor interface {
	AddJob(j Job)
	AddJobs(jobs []Job)
}

// Local is a goroutine-pool Executor that runs entirely in-process. Its
// AddJobs call blocks until the whole batch — including any jobs
// resubmitted from within a Sequential job's closure — has drained,
// which is what lets scanfill's public Fill methods be synchronous
// (spec.md §4.1).
type Local struct {
	workers int
}

// NewLocal creates an executor with a worker count matching
// runtime.NumCPU(), the same sizing the teacher uses for its parallel
// compositing pass.
func NewLocal() *Local {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	return &Local{workers: workers}
}

func (e *Local) AddJob(j Job) {
	e.AddJobs([]Job{j})
}

// AddJobs walks the batch in order: each run of consecutive Concurrent
// jobs executes across a bounded worker pool, and each Sequential job
// runs on the calling goroutine after every earlier job has finished and
// before any later job starts. A Sequential job's closure is free to call
// AddJobs again (e.g. to submit the next round) — that's an ordinary
// nested call, not a suspended coroutine, matching spec.md §9's note that
// the coordinator "job" is plain reposting, not coroutine resumption.
func (e *Local) AddJobs(jobs []Job) {
	var pending []func()
	for _, j := range jobs {
		switch j.Kind {
		case Concurrent:
			pending = append(pending, j.Run)
		case Sequential:
			if len(pending) > 0 {
				e.runConcurrent(pending)
				pending = nil
			}
			j.Run()
		}
	}
	if len(pending) > 0 {
		e.runConcurrent(pending)
	}
}

func (e *Local) runConcurrent(jobs []func()) {
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for _, run := range jobs {
		sem <- struct{}{}
		go func(run func()) {
			defer wg.Done()
			defer func() { <-sem }()
			run()
		}(run)
	}
	wg.Wait()
}
