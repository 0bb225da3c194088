package oracle

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routetree/yggtree/loader"
	"github.com/routetree/yggtree/sim"
	"github.com/routetree/yggtree/topo"
)

func line4() *topo.Store[int] {
	s := topo.NewStore[int]()
	for _, id := range []int{1, 2, 3, 4} {
		s.AddNode(id, topo.DegreePeerCount)
	}
	s.Link(1, 2)
	s.Link(2, 3)
	s.Link(3, 4)
	return s
}

func TestAllPairs_LineDistances(t *testing.T) {
	s := line4()
	m := AllPairs(s)
	assert.Equal(t, 4, m.N)
	assert.Equal(t, uint16(0), m.At(0, 0))
	assert.Equal(t, uint16(1), m.At(0, 1))
	assert.Equal(t, uint16(3), m.At(0, 3))
	assert.Equal(t, m.At(0, 3), m.At(3, 0), "distance must be symmetric on an undirected graph")
}

func TestAllPairs_Disconnected(t *testing.T) {
	s := topo.NewStore[int]()
	s.AddNode(1, topo.DegreePeerCount)
	s.AddNode(2, topo.DegreePeerCount)
	m := AllPairs(s)
	assert.Equal(t, uint16(0), m.At(0, 1), "unreachable distinct nodes must report 0")
}

func TestEvaluator_UnitStretchOnConvergedLine(t *testing.T) {
	s := line4()
	_, err := sim.Run(sim.New[int](3), s)
	require.NoError(t, err)

	matrix := AllPairs(s)
	eval := NewEvaluator(s)
	trace := eval.TestPaths(matrix)

	assert.Zero(t, trace.Dropped, "a converged line graph must route every pair")
	assert.InDelta(t, 1.0, AvgStretch(trace.Hist), 1e-9, "greedy tree routing on a line is always shortest-path optimal")
	assert.InDelta(t, 1.0, MaxStretch(trace.Hist), 1e-9)
}

func TestLines_SortedOutput(t *testing.T) {
	hist := Histogram{
		2: {2: 3, 3: 1},
		1: {1: 5},
	}
	lines := Lines(hist)
	require.Equal(t, []string{"1 1 5", "2 2 3", "2 3 1"}, lines)
}

func TestAvgStretch_EmptyHistogram(t *testing.T) {
	assert.Zero(t, AvgStretch(Histogram{}))
}

func TestSizeStats_OnConvergedLine(t *testing.T) {
	s := line4()
	_, err := sim.Run(sim.New[int](9), s)
	require.NoError(t, err)

	peer := PeerSizes(s)
	assert.Equal(t, 4, sum(peer), "one peer-count sample per node")

	cert := CertSizes(s)
	assert.Equal(t, 4, sum(cert))

	path := PathSizes(s)
	assert.Equal(t, 4, sum(path))
	assert.Greater(t, MaxSize(path), 0)
}

// TestRun_Grid4x4MeanStretchWithinBound is scenario S1: a 4x4 grid (16
// nodes, 24 edges) with random id assignment from a fixed seed must
// converge with every pair routed and mean stretch in [1.0, 1.25].
func TestRun_Grid4x4MeanStretchWithinBound(t *testing.T) {
	const seed = 12345
	shuffleRNG := rand.New(rand.NewSource(seed))
	grid := loader.Grid{
		SideLength: 4,
		Policy:     topo.DegreePeerCount,
		Shuffle: func(ids []int) {
			shuffleRNG.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		},
	}
	store, err := grid.Load()
	require.NoError(t, err)
	require.Equal(t, 16, store.Len())

	edges := 0
	for _, n := range store.Nodes {
		edges += len(n.Links)
	}
	require.Equal(t, 24*2, edges, "a 4x4 grid has 24 undirected edges")

	_, err = sim.Run(sim.New[int](seed), store)
	require.NoError(t, err)

	matrix := AllPairs(store)
	eval := NewEvaluator(store)
	trace := eval.TestPaths(matrix)

	assert.Zero(t, trace.Dropped, "no pair may fail to route on a connected grid")
	mean := AvgStretch(trace.Hist)
	assert.GreaterOrEqual(t, mean, 1.0, "mean stretch can never undercut the oracle")
	assert.LessOrEqual(t, mean, 1.25, "mean stretch on a 4x4 grid must stay within the measured bound")
}

func sum(sizes Sizes) int {
	total := 0
	for _, n := range sizes {
		total += n
	}
	return total
}
