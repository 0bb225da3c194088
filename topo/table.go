package topo

import "github.com/routetree/yggtree/record"

// trieNode is one level of the forwarding trie: the next hop recorded for
// the coord prefix ending here, plus child edges keyed by the following
// coord. Generalizes ironwood's nested publicKey-keyed maps (routerInfo,
// the per-peer merkle tree) to an arbitrary-length coordinate sequence,
// since ironwood routes on a fixed-size key rather than a coord path.
type trieNode[T record.ID] struct {
	nextHop    T
	hasNextHop bool
	children   map[T]*trieNode[T]
}

func newTrieNode[T record.ID]() *trieNode[T] {
	return &trieNode[T]{children: make(map[T]*trieNode[T])}
}

// buildTable walks every peer's coords one coord at a time, creating
// trie edges as needed, applying the parent-wins / shortest-to-root /
// higher-degree selection rule at each position.
func (n *NodeState[T]) buildTable() {
	parent := n.Self.NodeID
	if len(n.Self.Coords) >= 2 {
		parent = n.Self.Coords[len(n.Self.Coords)-2]
	}
	root := newTrieNode[T]()
	for _, peer := range n.Peers {
		current := root
		for _, coord := range peer.Coords {
			child, ok := current.children[coord]
			if !ok {
				child = newTrieNode[T]()
				current.children[coord] = child
			}
			switch {
			case peer.NodeID == parent:
				child.nextHop, child.hasNextHop = peer.NodeID, true
			case !child.hasNextHop:
				child.nextHop, child.hasNextHop = peer.NodeID, true
			default:
				existing := n.Peers[child.nextHop]
				switch {
				case existing == nil:
					child.nextHop, child.hasNextHop = peer.NodeID, true
				case len(peer.Coords) < len(existing.Coords):
					child.nextHop, child.hasNextHop = peer.NodeID, true
				case len(peer.Coords) == len(existing.Coords) && peer.Degree > existing.Degree:
					child.nextHop, child.hasNextHop = peer.NodeID, true
				}
			}
			current = child
		}
	}
	n.Table = root
}

// NextHop walks the precomputed trie along destCoords, short-circuiting
// to a direct peer if the walk stops at one, and falling back to the
// parent-derived next hop otherwise. If no next hop exists at all, it
// returns the node's own id as a stranded-component sentinel. Callers
// must treat next-hop == self (with self != dest) as a non-progress
// drop, not as arrival.
func (n *NodeState[T]) NextHop(destCoords []T) T {
	var parent *T
	if len(n.Self.Coords) >= 2 {
		p := n.Self.Coords[len(n.Self.Coords)-2]
		parent = &p
	}
	currentHop := parent
	current := n.Table
	var lastCoord T
	for _, c := range destCoords {
		lastCoord = c
		if current == nil {
			break
		}
		child, ok := current.children[c]
		if !ok {
			break
		}
		current = child
		if child.hasNextHop {
			h := child.nextHop
			currentHop = &h
		}
	}
	if _, isPeer := n.Peers[lastCoord]; isPeer {
		return lastCoord
	}
	if currentHop != nil {
		return *currentHop
	}
	return n.Self.NodeID
}

// LookupSlow is a linear O(peers) lookup, kept to cross-check the fast
// trie in tests: both must agree on a converged network.
func (n *NodeState[T]) LookupSlow(dest *record.PathRecord[T]) (T, bool) {
	var best *record.PathRecord[T]
	var bestDist int
	for _, peer := range n.Peers {
		dist := len(peer.Path) - 1 + record.TreeDist(peer.Coords, dest.Coords)
		switch {
		case best == nil:
			best, bestDist = peer, dist
		case dist < bestDist:
			best, bestDist = peer, dist
		case dist == bestDist && peer.Degree > best.Degree:
			best, bestDist = peer, dist
		}
	}
	if best == nil {
		var zero T
		return zero, false
	}
	return best.Path[len(best.Path)-2], true
}
