// Package sim drives a topo.Store to convergence: seeded time
// initialization, the fixed tick/drain sweep order, and an idle-window
// stop condition.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/routetree/yggtree/record"
	"github.com/routetree/yggtree/topo"
)

// Driver owns the deterministic RNG used to jitter initial clocks. A
// Driver is single-use: construct one per run.
type Driver[T record.ID] struct {
	rng *rand.Rand
}

// New returns a Driver seeded from seed. Never touches math/rand's global
// source, so concurrent sweeps (see Sweep) never contend with each other
// or produce cross-run correlated jitter.
func New[T record.ID](seed int64) *Driver[T] {
	return &Driver[T]{rng: rand.New(rand.NewSource(seed))}
}

// Result reports how a run terminated.
type Result struct {
	Steps     int
	Converged bool
}

// ErrNonConvergent is returned when a run exceeds its absolute step cap
// without reaching the 4*Timeout idle window.
type ErrNonConvergent struct {
	Steps int
	Cap   int
}

func (e *ErrNonConvergent) Error() string {
	return fmt.Sprintf("yggtree: simulation did not converge within %d steps (cap %d)", e.Steps, e.Cap)
}

// stepCapMultiplier bounds how many ticks a run may take before it is
// declared non-convergent, scaled by network size.
const stepCapMultiplier = 100

// Run initializes node clocks with the driver's seeded RNG and idles the
// store until 4*Timeout consecutive ticks pass with no change. It then
// builds every node's forwarding table and returns.
func Run[T record.ID](d *Driver[T], store *topo.Store[T]) (Result, error) {
	ids := store.SortedIDs()
	for _, id := range ids {
		node := store.Nodes[id]
		node.Self.Time = int64(d.rng.Intn(int(topo.Timeout) + 1))
		node.Self.Tstamp = topo.Timeout
		node.Root.Time = node.Self.Time
		node.Root.Tstamp = node.Self.Tstamp
	}

	// The floor covers the idle window counted from the latest step at
	// which any node sends its first advertisement (Timeout+RefreshEvery+1,
	// given the initial clocks above), so tiny graphs can still converge.
	stepCap := stepCapMultiplier * len(ids)
	if floor := int(topo.Timeout+topo.RefreshEvery+1) + int(4*topo.Timeout); stepCap < floor {
		stepCap = floor
	}

	step := 0
	lastChange := 0
	for step-lastChange < int(4*topo.Timeout) {
		step++
		if step > stepCap {
			return Result{Steps: step, Converged: false}, &ErrNonConvergent{Steps: step, Cap: stepCap}
		}
		changed := false
		for _, id := range ids {
			changed = store.TickNode(id) || changed
		}
		for _, id := range ids {
			changed = store.DrainNode(id) || changed
		}
		if changed {
			lastChange = step
		}
	}
	store.BuildTables()
	return Result{Steps: step, Converged: true}, nil
}
