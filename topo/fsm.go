package topo

import (
	"sort"

	"github.com/routetree/yggtree/record"
)

// Tick runs one node's per-tick maintenance: advance the clock, possibly
// refresh our own advertisement, clean up stale root/drop state, and (if
// refreshed) produce the broadcast message for every link. It never
// touches neighbor state directly: Store.TickNode delivers the
// returned messages, so this method has no way to mutate another
// node's state.
func (n *NodeState[T]) Tick() (changed bool, broadcast *record.Message[T]) {
	n.Self.Time++
	if n.Self.Time > n.Self.Tstamp+RefreshEvery {
		n.Self.Tstamp = n.Self.Time
		switch n.degree {
		case DegreePeerCount:
			n.Self.Degree = len(n.Peers)
		case DegreeZero:
			n.Self.Degree = 0
		}
	}
	changed = n.cleanRoot()
	n.cleanDropped()
	if n.Self.Tstamp == n.Self.Time {
		broadcast = &record.Message[T]{
			Sender: n.Self.Clone(),
			Root:   n.Root.Clone(),
		}
	}
	return changed, broadcast
}

// cleanRoot expires a root advertisement that has gone stale and falls
// back to self-rooting, or re-asserts self-rooting if our own tree id
// still wins.
func (n *NodeState[T]) cleanRoot() bool {
	changed := false
	if n.Root != nil && n.Self.Time-n.Root.Time > Timeout {
		n.Drop[n.Root.TreeID] = n.Root
		n.Root = nil
		changed = true
	}
	if n.Root == nil || record.Less(n.Root.TreeID, n.Self.TreeID) {
		n.Self.Coords = []T{n.Self.NodeID}
		n.Root = n.Self.Clone()
		changed = true
	} else if n.Root.TreeID == n.Self.TreeID {
		n.Root = n.Self.Clone()
	}
	return changed
}

// cleanDropped expires drop-table entries older than DropRetention.
// Keys are visited in sorted order purely to keep iteration
// deterministic across Go map randomization; the result is
// order-independent since every stale entry is removed regardless of
// visitation order.
func (n *NodeState[T]) cleanDropped() {
	ids := make([]T, 0, len(n.Drop))
	for id := range n.Drop {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return record.Less(ids[i], ids[j]) })
	for _, id := range ids {
		if n.Self.Time-n.Drop[id].Time > DropRetention {
			delete(n.Drop, id)
		}
	}
}

// HandleMessage appends our own id to both sub-records' hop history,
// records the sender as a peer, and decides whether to adopt the
// advertised root using the ordered rule table in decideAdopt.
func (n *NodeState[T]) HandleMessage(msg record.Message[T]) (changed bool) {
	for _, sub := range []*record.PathRecord[T]{msg.Sender, msg.Root} {
		sub.Path = append(sub.Path, n.Self.NodeID)
		sub.Time = n.Self.Time
	}
	sender := msg.Sender
	n.Peers[sender.NodeID] = sender

	rootAdv := msg.Root
	var isSameParent, isBetterParent bool
	if n.Root != nil && len(n.Root.Path) > 1 && len(rootAdv.Path) > 1 {
		if parent, ok := n.Peers[n.Root.Path[len(n.Root.Path)-2]]; ok {
			isSameParent = parent.NodeID == sender.NodeID
			isBetterParent = sender.Degree > parent.Degree
		}
	}

	adopt := decideAdopt(n, rootAdv, isSameParent, isBetterParent)
	if adopt {
		if n.Root == nil || !pathEqual(n.Root.Path, rootAdv.Path) {
			changed = true
		}
		n.Root = rootAdv
		n.Self.Coords = append([]T(nil), n.Root.Path...)
	}
	return changed
}

// decideAdopt applies the root-adoption rule table top-down; the first
// matching rule wins.
func decideAdopt[T record.ID](n *NodeState[T], rootAdv *record.PathRecord[T], isSameParent, isBetterParent bool) bool {
	if containsExceptLast(rootAdv.Path, n.Self.NodeID) {
		return false // loop
	}
	if dropped, ok := n.Drop[rootAdv.TreeID]; ok && dropped.Tstamp >= rootAdv.Tstamp {
		return false
	}
	switch {
	case n.Root == nil:
		return true
	case record.Less(n.Root.TreeID, rootAdv.TreeID):
		return true
	case n.Root.TreeID != rootAdv.TreeID:
		return false
	case n.Root.Tstamp > rootAdv.Tstamp:
		return false
	case len(rootAdv.Path) < len(n.Root.Path):
		return true
	case isBetterParent && len(rootAdv.Path) == len(n.Root.Path):
		return true
	case isSameParent && n.Root.Tstamp < rootAdv.Tstamp:
		return true
	default:
		return false
	}
}

func containsExceptLast[T comparable](path []T, id T) bool {
	if len(path) == 0 {
		return false
	}
	for _, p := range path[:len(path)-1] {
		if p == id {
			return true
		}
	}
	return false
}

func pathEqual[T comparable](a, b []T) bool {
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

// DrainInbox processes every queued message in LIFO order, most
// recently queued first, and returns whether any of them changed this
// node's accepted root. Processing order must stay fixed for a given
// inbox contents to keep converged outcomes reproducible.
func (n *NodeState[T]) DrainInbox() bool {
	changed := false
	for i := len(n.Inbox) - 1; i >= 0; i-- {
		changed = n.HandleMessage(n.Inbox[i]) || changed
	}
	n.Inbox = n.Inbox[:0]
	return changed
}
