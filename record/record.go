// Package record implements the path-vector descriptors exchanged between
// nodes during tree construction: PathRecord and the tree-distance metric.
package record

// ID is the type constraint satisfied by a node or tree identifier.
// Loaders may key nodes by int (grid, edge-list, AS-relationship graphs)
// or string (DIMES, which prefixes ids with "N" or "R").
type ID interface {
	comparable
	Ordered
}

// Ordered is satisfied by any type with a total order via <.
type Ordered interface {
	~int | ~int64 | ~uint64 | ~string
}

// Less reports whether a orders before b.
func Less[T Ordered](a, b T) bool {
	return a < b
}

// PathRecord is one node's advertised position in the tree, plus the
// path-vector hop history it has physically traversed.
//
// Invariants: Path[0] == NodeID; Coords is non-empty and ends with the
// origin's NodeID when the origin is not the root; Coords[0] is the
// root's NodeID; a record is "own" iff Path == [NodeID].
type PathRecord[T ID] struct {
	NodeID T
	TreeID T
	Coords []T
	Tstamp int64
	Degree int
	Path   []T
	Time   int64
}

// NewOwn builds the initial self-record for a freshly created node: its
// own root, no path traversed yet.
func NewOwn[T ID](nodeID T) *PathRecord[T] {
	return &PathRecord[T]{
		NodeID: nodeID,
		TreeID: nodeID,
		Coords: []T{nodeID},
		Path:   []T{nodeID},
	}
}

// IsOwn reports whether this record has never left its origin.
func (r *PathRecord[T]) IsOwn() bool {
	return len(r.Path) == 1 && r.Path[0] == r.NodeID
}

// Clone returns an independent value-copy: Coords and Path are copied
// slices, so a receiver appending to its own clone never mutates the
// sender's record. Always used on the send path.
func (r *PathRecord[T]) Clone() *PathRecord[T] {
	c := *r
	c.Coords = append([]T(nil), r.Coords...)
	c.Path = append([]T(nil), r.Path...)
	return &c
}

// Equal reports whether two records carry identical fields, used by
// round-trip clone tests.
func (r *PathRecord[T]) Equal(o *PathRecord[T]) bool {
	if r.NodeID != o.NodeID || r.TreeID != o.TreeID || r.Tstamp != o.Tstamp ||
		r.Degree != o.Degree || r.Time != o.Time {
		return false
	}
	return sliceEqual(r.Coords, o.Coords) && sliceEqual(r.Path, o.Path)
}

func sliceEqual[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// lcaIndex returns the index of the last position at which a and b
// agree, or -1 if their first elements differ (different roots).
func lcaIndex[T comparable](a, b []T) int {
	lca := -1
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		if a[i] != b[i] {
			break
		}
		lca = i
	}
	return lca
}

// TreeDist returns the number of tree edges between two coord sequences:
// len(a) + len(b) - 2*(lcaIdx+1).
func TreeDist[T comparable](a, b []T) int {
	lca := lcaIndex(a, b)
	return len(a) + len(b) - 2*(lca+1)
}

// Message is a pair of fresh clones delivered atomically to one peer:
// the sender's own record, and the sender's current root record.
type Message[T ID] struct {
	Sender *PathRecord[T]
	Root   *PathRecord[T]
}

// Clone deep-copies both sub-records, so each linked neighbor receives an
// independent message even though they were all derived from the same
// broadcast.
func (m *Message[T]) Clone() *Message[T] {
	return &Message[T]{Sender: m.Sender.Clone(), Root: m.Root.Clone()}
}
