package sim

import (
	"runtime"

	"github.com/Arceliar/phony"

	"github.com/routetree/yggtree/record"
	"github.com/routetree/yggtree/topo"
)

// SweepJob is one independent root-election experiment: a pre-built
// store (already linked and, if desired, biased towards a candidate
// root) plus the seed to initialize it with. Each job owns its store
// exclusively: no two jobs ever share a Store, so a single run's
// determinism guarantees hold per job regardless of how many jobs run
// at once.
type SweepJob[T record.ID] struct {
	Label string
	Store *topo.Store[T]
	Seed  int64
}

// SweepOutcome pairs a job's label with its result.
type SweepOutcome struct {
	Label  string
	Result Result
	Err    error
}

// worker is a phony actor that runs whatever jobs land in its inbox. This
// mirrors ironwood's own use of phony.Inbox for independent per-peer
// actors (network.peer, network.dhtree): the point there, as here, is
// that unrelated work items never need to coordinate with each other,
// so each gets its own actor and the runtime schedules them across
// GOMAXPROCS for free.
type worker[T record.ID] struct {
	phony.Inbox
}

// Sweep runs every job to convergence, fanning the work out across
// min(GOMAXPROCS, len(jobs)) phony worker actors. It never runs two
// ticks of the *same* store concurrently, only independent stores for
// independent candidate roots, so it cannot perturb the sequential
// tick/drain ordering a single run depends on.
func Sweep[T record.ID](jobs []SweepJob[T]) []SweepOutcome {
	outcomes := make([]SweepOutcome, len(jobs))
	if len(jobs) == 0 {
		return outcomes
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers < 1 {
		workers = 1
	}
	pool := make([]*worker[T], workers)
	for i := range pool {
		pool[i] = &worker[T]{}
	}

	done := make(chan int, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		w := pool[i%workers]
		w.Act(nil, func() {
			d := New[T](job.Seed)
			res, err := Run(d, job.Store)
			outcomes[i] = SweepOutcome{Label: job.Label, Result: res, Err: err}
			done <- i
		})
	}
	for range jobs {
		<-done
	}
	return outcomes
}
