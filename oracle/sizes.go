package oracle

import (
	"fmt"

	"github.com/routetree/yggtree/record"
	"github.com/routetree/yggtree/topo"
)

// Sizes is a frequency distribution: size -> number of nodes (or links)
// observed at that size.
type Sizes map[int]int

// PeerSizes returns the per-node peer-count distribution.
func PeerSizes[T record.ID](store *topo.Store[T]) Sizes {
	sizes := make(Sizes)
	for _, n := range store.Nodes {
		sizes[len(n.Peers)]++
	}
	return sizes
}

// certsFor returns the set of unique path-certificates a node holds: one
// per (sender, path-to-next-hop) pair across all of its peers' combined
// coords+path, de-duplicating shared prefixes.
func certsFor[T record.ID](n *topo.NodeState[T]) map[string]struct{} {
	certs := make(map[string]struct{})
	for _, peer := range n.Peers {
		hops := append(append([]T(nil), peer.Coords...), peer.Path[1:]...)
		for hopIdx := 0; hopIdx < len(hops)-1; hopIdx++ {
			sender := hops[hopIdx]
			if sender == n.Self.NodeID {
				continue
			}
			path := hops[0 : hopIdx+2]
			cert := fmt.Sprintf("%v:%v", sender, path)
			certs[cert] = struct{}{}
		}
	}
	return certs
}

// CertSizes returns the per-node unique-certificate-count distribution.
func CertSizes[T record.ID](store *topo.Store[T]) Sizes {
	sizes := make(Sizes)
	for _, n := range store.Nodes {
		sizes[len(certsFor(n))]++
	}
	return sizes
}

// MinLinkCertSizes returns, per node, the distribution of the minimum
// number of certs that must be traded over each individual link: a cert
// only "counts" against a link if no other peer already carries it.
func MinLinkCertSizes[T record.ID](store *topo.Store[T]) Sizes {
	sizes := make(Sizes)
	for _, n := range store.Nodes {
		perPeer := make(map[T]map[string]struct{}, len(n.Peers))
		for peerID, peer := range n.Peers {
			certs := make(map[string]struct{})
			hops := append(append([]T(nil), peer.Coords...), peer.Path[1:]...)
			for hopIdx := 0; hopIdx < len(hops)-1; hopIdx++ {
				sender := hops[hopIdx]
				if sender == n.Self.NodeID {
					continue
				}
				path := hops[0 : hopIdx+2]
				certs[fmt.Sprintf("%v:%v", sender, path)] = struct{}{}
			}
			perPeer[peerID] = certs
		}
		for peerID, certs := range perPeer {
			required := 0
			for cert := range certs {
				isRequired := true
				for otherID, otherCerts := range perPeer {
					if otherID == peerID {
						continue
					}
					if _, ok := otherCerts[cert]; ok {
						isRequired = false
						break
					}
				}
				if isRequired {
					required++
				}
			}
			sizes[required]++
		}
	}
	return sizes
}

// PathSizes returns, per node, the distribution of the total hop count
// across its routing table: sum over peers of len(coords)+len(path)-1.
func PathSizes[T record.ID](store *topo.Store[T]) Sizes {
	sizes := make(Sizes)
	for _, n := range store.Nodes {
		total := 0
		for _, peer := range n.Peers {
			total += len(peer.Coords) + len(peer.Path) - 1
		}
		sizes[total]++
	}
	return sizes
}

// AvgSize returns the count-weighted mean of a size distribution.
func AvgSize(sizes Sizes) float64 {
	var sum, count float64
	for size, n := range sizes {
		sum += float64(size) * float64(n)
		count += float64(n)
	}
	if count == 0 {
		return 0
	}
	return sum / count
}

// MaxSize returns the largest observed size, or 0 if sizes is empty.
func MaxSize(sizes Sizes) int {
	max := 0
	first := true
	for size := range sizes {
		if first || size > max {
			max, first = size, false
		}
	}
	return max
}

// MinSize returns the smallest observed size, or 0 if sizes is empty.
func MinSize(sizes Sizes) int {
	min := 0
	first := true
	for size := range sizes {
		if first || size < min {
			min, first = size, false
		}
	}
	return min
}
