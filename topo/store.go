// Package topo implements the per-node tree state machine (root election,
// coordinate maintenance) and the precomputed forwarding table used for
// greedy tree-metric routing. It is the Go analogue of ironwood's
// network.dhtree, generalized from a single peered process to an
// in-process store of simulated nodes.
package topo

import (
	"sort"

	"github.com/routetree/yggtree/record"
)

// Timeout is expressed in simulated ticks, not wall-clock time
// (ironwood's treeTIMEOUT is a time.Duration; here it is a tick count,
// since the simulator has no real clock).
const (
	LinkCost        = 1
	Timeout   int64 = 60
	DropRetention   = 4 * Timeout
	RefreshEvery    = Timeout / 4
)

// DegreePolicy selects how NodeState.Self.Degree is maintained on refresh.
type DegreePolicy int

const (
	// DegreePeerCount reports the live peer count, enabling the
	// is-better-parent / forwarding-table tie-breaks to actually do
	// something. Default policy for this module.
	DegreePeerCount DegreePolicy = iota
	// DegreeZero always reports zero degree, disabling degree-based
	// tie-breaks entirely.
	DegreeZero
)

// NodeState is one node's mutable routing state. Links holds neighbor ids
// only, never pointers to other NodeStates, so that message delivery goes
// through the owning Store and no Go-level reference cycle exists between
// nodes.
type NodeState[T record.ID] struct {
	Self  *record.PathRecord[T]
	Root  *record.PathRecord[T]
	Peers map[T]*record.PathRecord[T]
	Drop  map[T]*record.PathRecord[T] // keyed by TreeID
	Links map[T]struct{}
	Inbox []record.Message[T]
	Table *trieNode[T]

	degree DegreePolicy
}

// NewNode creates a node with Self populated and Root pointing at itself.
func NewNode[T record.ID](id T, policy DegreePolicy) *NodeState[T] {
	self := record.NewOwn(id)
	return &NodeState[T]{
		Self:   self,
		Root:   self.Clone(),
		Peers:  make(map[T]*record.PathRecord[T]),
		Drop:   make(map[T]*record.PathRecord[T]),
		Links:  make(map[T]struct{}),
		degree: policy,
	}
}

// BiasTreeID offsets a node's TreeID so it wins root election regardless
// of NodeID ordering.
func (n *NodeState[T]) BiasTreeID(offset T) {
	n.Self.TreeID = offset
	n.Root.TreeID = offset
}

// Store owns every node in a simulated topology and is the sole mutator
// of cross-node state (message delivery) between driver sweeps.
type Store[T record.ID] struct {
	Nodes map[T]*NodeState[T]
}

// NewStore returns an empty store.
func NewStore[T record.ID]() *Store[T] {
	return &Store[T]{Nodes: make(map[T]*NodeState[T])}
}

// AddNode inserts a freshly created node, returning it for further setup
// (e.g. BiasTreeID) by the caller loader.
func (s *Store[T]) AddNode(id T, policy DegreePolicy) *NodeState[T] {
	if n, ok := s.Nodes[id]; ok {
		return n
	}
	n := NewNode(id, policy)
	s.Nodes[id] = n
	return n
}

// Link establishes an undirected edge between two nodes. Self-loops are
// rejected.
func (s *Store[T]) Link(a, b T) {
	if a == b {
		return
	}
	s.Nodes[a].Links[b] = struct{}{}
	s.Nodes[b].Links[a] = struct{}{}
}

// SortedIDs returns every node id in ascending order, the fixed iteration
// order the driver must use for both tick and drain sweeps.
func (s *Store[T]) SortedIDs() []T {
	ids := make([]T, 0, len(s.Nodes))
	for id := range s.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return record.Less(ids[i], ids[j]) })
	return ids
}

// Len reports the number of nodes in the store.
func (s *Store[T]) Len() int {
	return len(s.Nodes)
}

// BuildTables materializes every node's forwarding table. Called once by
// the driver after convergence; never invalidated afterward.
func (s *Store[T]) BuildTables() {
	for _, n := range s.Nodes {
		n.buildTable()
	}
}
