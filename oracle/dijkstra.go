// Package oracle computes all-pairs shortest paths with Dijkstra
// (ground truth for stretch evaluation) and traces routed paths across a
// converged topo.Store's forwarding tables to build the resulting
// stretch histogram.
package oracle

import (
	"container/heap"

	"github.com/routetree/yggtree/record"
	"github.com/routetree/yggtree/topo"
)

// Matrix is an N*N flat distance table indexed by source*N+dest, using
// uint16 to stay memory-bounded on large graphs. A value of 0 between
// distinct nodes means unreachable (different connected components).
// Indices follow topo.Store.SortedIDs' order; callers that need to map
// an id to an index should build that lookup once from the same sorted
// slice.
type Matrix struct {
	N    int
	Dist []uint16
}

// At returns the distance between the nodes at indices i and j.
func (m *Matrix) At(i, j int) uint16 {
	return m.Dist[i*m.N+j]
}

func (m *Matrix) set(i, j int, d uint16) {
	m.Dist[i*m.N+j] = d
}

// AllPairs runs single-source Dijkstra from every node (unit edge
// weight = topo.LinkCost) and assembles the flat distance matrix.
// Implemented directly on container/heap rather than an ecosystem graph
// library; see DESIGN.md for why.
func AllPairs[T record.ID](store *topo.Store[T]) *Matrix {
	ids := store.SortedIDs()
	n := len(ids)
	idx := make(map[T]int, n)
	for i, id := range ids {
		idx[id] = i
	}
	m := &Matrix{N: n, Dist: make([]uint16, n*n)}

	for sourceIdx, sourceID := range ids {
		dists := singleSource(store, ids, idx, sourceID)
		for destIdx := range ids {
			m.set(sourceIdx, destIdx, dists[destIdx])
		}
	}
	return m
}

type pqItem struct {
	idx  int
	dist uint16
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

func singleSource[T record.ID](store *topo.Store[T], ids []T, idx map[T]int, source T) []uint16 {
	n := len(ids)
	dists := make([]uint16, n)
	visited := make([]bool, n)

	pq := &priorityQueue{{idx: idx[source], dist: 0}}
	heap.Init(pq)
	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		if visited[item.idx] {
			continue
		}
		visited[item.idx] = true
		dists[item.idx] = item.dist
		node := store.Nodes[ids[item.idx]]
		for peerID := range node.Links {
			pIdx := idx[peerID]
			if visited[pIdx] {
				continue
			}
			heap.Push(pq, pqItem{idx: pIdx, dist: item.dist + topo.LinkCost})
		}
	}
	return dists
}
