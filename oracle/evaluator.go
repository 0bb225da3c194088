package oracle

import (
	"fmt"
	"sort"

	"github.com/routetree/yggtree/record"
	"github.com/routetree/yggtree/topo"
)

// Evaluator builds the next-hop cache for a converged store and compares
// traced routed paths against the Dijkstra oracle.
type Evaluator[T record.ID] struct {
	store *topo.Store[T]
	ids   []T
	idx   map[T]int
	cache []int // N*N, cache[s*N+d] = next-hop index from s towards d
}

// NewEvaluator builds the N*N next-hop cache from the store's (already
// converged, already table-built) nodes.
func NewEvaluator[T record.ID](store *topo.Store[T]) *Evaluator[T] {
	ids := store.SortedIDs()
	n := len(ids)
	idx := make(map[T]int, n)
	for i, id := range ids {
		idx[id] = i
	}
	e := &Evaluator[T]{store: store, ids: ids, idx: idx, cache: make([]int, n*n)}
	for sIdx, sourceID := range ids {
		source := store.Nodes[sourceID]
		for dIdx, destID := range ids {
			if sIdx == dIdx {
				e.cache[sIdx*n+dIdx] = dIdx
				continue
			}
			dest := store.Nodes[destID]
			hop := source.NextHop(dest.Self.Coords)
			e.cache[sIdx*n+dIdx] = idx[hop]
		}
	}
	return e
}

// Histogram maps oracleHops -> routedHops -> pair count.
type Histogram map[int]map[int]int

// TraceResult holds the stretch histogram. Dropped counts pairs that
// failed to route in both directions (each trace hit the stranded-root
// sentinel or exceeded the hop bound without reaching its destination).
type TraceResult struct {
	Hist    Histogram
	Dropped int
}

// maxHopsFactor bounds how many forwarding steps a trace may take before
// it is abandoned as a drop; a converged network never loops, so
// genuine routes finish well within N hops. This only guards against
// the malformed-table edge case, it is not expected to trigger on a
// converged store.
const maxHopsFactor = 4

// TestPaths traces every pair with a finite oracle distance, in both
// directions (source-routed traffic takes the cheaper direction), and
// accumulates the resulting stretch histogram.
func (e *Evaluator[T]) TestPaths(oracle *Matrix) TraceResult {
	n := len(e.ids)
	hist := make(Histogram)
	dropped := 0
	maxHops := maxHopsFactor * n
	for sIdx := 0; sIdx < n; sIdx++ {
		for dIdx := 0; dIdx < n; dIdx++ {
			if sIdx == dIdx {
				continue
			}
			eHops := oracle.At(sIdx, dIdx)
			if eHops == 0 {
				continue // disconnected component, skip
			}
			best := -1
			anyRouted := false
			for _, pair := range [2][2]int{{sIdx, dIdx}, {dIdx, sIdx}} {
				hops, ok := e.trace(pair[0], pair[1], maxHops)
				if !ok {
					continue
				}
				anyRouted = true
				if best < 0 || hops < best {
					best = hops
				}
			}
			if !anyRouted {
				dropped++
				continue
			}
			if hist[int(eHops)] == nil {
				hist[int(eHops)] = make(map[int]int)
			}
			hist[int(eHops)][best]++
		}
	}
	return TraceResult{Hist: hist, Dropped: dropped}
}

// trace follows the next-hop cache from locIdx to destIdx, returning the
// hop count or false if it hit the stranded-root sentinel (next hop ==
// current location, but not at the destination) or exceeded maxHops.
func (e *Evaluator[T]) trace(locIdx, destIdx, maxHops int) (int, bool) {
	n := len(e.ids)
	hops := 0
	for locIdx != destIdx {
		if hops >= maxHops {
			return 0, false
		}
		next := e.cache[locIdx*n+destIdx]
		if next == locIdx {
			return 0, false // non-progress sentinel: would-be dropped packet
		}
		locIdx = next
		hops++
	}
	return hops, true
}

// AvgStretch computes (sum routed*count) / (sum oracle*count).
func AvgStretch(hist Histogram) float64 {
	var num, den float64
	for eHops, row := range hist {
		for nHops, count := range row {
			den += float64(eHops) * float64(count)
			num += float64(nHops) * float64(count)
		}
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// MaxStretch returns the largest routed/oracle ratio observed.
func MaxStretch(hist Histogram) float64 {
	var max float64
	for eHops, row := range hist {
		if eHops == 0 {
			continue
		}
		for nHops := range row {
			stretch := float64(nHops) / float64(eHops)
			if stretch > max {
				max = stretch
			}
		}
	}
	return max
}

// Lines renders the histogram as "<oracle_hops> <routed_hops> <count>"
// lines, sorted ascending by both keys.
func Lines(hist Histogram) []string {
	eKeys := make([]int, 0, len(hist))
	for e := range hist {
		eKeys = append(eKeys, e)
	}
	sort.Ints(eKeys)
	var lines []string
	for _, e := range eKeys {
		row := hist[e]
		nKeys := make([]int, 0, len(row))
		for n := range row {
			nKeys = append(nKeys, n)
		}
		sort.Ints(nKeys)
		for _, nHops := range nKeys {
			lines = append(lines, fmt.Sprintf("%d %d %d", e, nHops, row[nHops]))
		}
	}
	return lines
}
