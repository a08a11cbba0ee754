package scanfill

import (
	"github.com/nordlicht/tilefill/pkg/jobqueue"
	"github.com/nordlicht/tilefill/pkg/raster"
)

// run drives the tile-parallel fill to completion: it seeds a single span
// at startPoint's tile and resubmits rounds of concurrent per-tile jobs,
// coordinated by a Sequential job that merges each round's propagation
// and posts the next one, until a round produces no further work
// (spec.md §4.6).
//
// Unlike the original, which threads this recursion through its own
// runnable-job interface (PopulateFillTasks resubmitting itself), this
// does it with plain recursive calls from inside the coordinator
// closure — jobqueue.Local.AddJobs already guarantees a Sequential job's
// closure runs to completion (including any jobs it submits) before
// AddJobs returns, so nesting the call is sufficient and needs no
// separate "job" type to represent resubmission.
func run(executor jobqueue.Executor, start Point, refDevice raster.Device, workingRect raster.Rect, factory Factory) {
	ox, oy := refDevice.Offset()
	seedTile := raster.TileIDAt(start.X, start.Y, ox, oy)
	pending := PropagationMap{
		seedTile: {{X1: start.X, X2: start.X, Y: start.Y, Dy: 1}},
	}

	var coordinate func(PropagationMap)
	coordinate = func(pending PropagationMap) {
		if len(pending) == 0 {
			return
		}

		type tileWork struct {
			id    raster.TileID
			spans []Span
		}
		work := make([]tileWork, 0, len(pending))
		for id, spans := range pending {
			work = append(work, tileWork{id, spans})
		}

		results := make([]PropagationMap, len(work))

		jobs := make([]jobqueue.Job, 0, len(work)+1)
		for i, w := range work {
			i, w := i, w
			jobs = append(jobs, jobqueue.Job{
				Kind: jobqueue.Concurrent,
				Run: func() {
					policy := factory()
					policy.BeginProcessing(w.id, workingRect)
					results[i] = processTile(w.id, w.spans, policy, workingRect)
					policy.EndProcessing()
				},
			})
		}
		jobs = append(jobs, jobqueue.Job{
			Kind: jobqueue.Sequential,
			Run: func() {
				var next PropagationMap
				for _, r := range results {
					next = next.merge(r)
				}
				coordinate(next)
			},
		})

		executor.AddJobs(jobs)
	}

	coordinate(pending)
}
