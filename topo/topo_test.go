package topo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routetree/yggtree/record"
)

func TestNewNode_StartsAsOwnRoot(t *testing.T) {
	n := NewNode(5, DegreePeerCount)
	assert.True(t, n.Self.IsOwn())
	assert.Equal(t, n.Self.NodeID, n.Root.NodeID)
	assert.Empty(t, n.Peers)
	assert.Empty(t, n.Links)
	assert.Empty(t, n.Drop)
}

func TestBiasTreeID(t *testing.T) {
	n := NewNode(5, DegreePeerCount)
	n.BiasTreeID(1_000_000_005)
	assert.Equal(t, 1_000_000_005, n.Self.TreeID)
	assert.Equal(t, 1_000_000_005, n.Root.TreeID)
}

func TestStore_AddNode_Idempotent(t *testing.T) {
	s := NewStore[int]()
	a := s.AddNode(1, DegreePeerCount)
	b := s.AddNode(1, DegreePeerCount)
	assert.Same(t, a, b)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Link_RejectsSelfLoop(t *testing.T) {
	s := NewStore[int]()
	s.AddNode(1, DegreePeerCount)
	s.Link(1, 1)
	assert.Empty(t, s.Nodes[1].Links)
}

func TestStore_Link_Undirected(t *testing.T) {
	s := NewStore[int]()
	s.AddNode(1, DegreePeerCount)
	s.AddNode(2, DegreePeerCount)
	s.Link(1, 2)
	_, ok1 := s.Nodes[1].Links[2]
	_, ok2 := s.Nodes[2].Links[1]
	assert.True(t, ok1)
	assert.True(t, ok2)
}

func TestSortedIDs(t *testing.T) {
	s := NewStore[int]()
	for _, id := range []int{5, 1, 3} {
		s.AddNode(id, DegreePeerCount)
	}
	assert.Equal(t, []int{1, 3, 5}, s.SortedIDs())
}

func TestHandleMessage_AdoptsHigherTreeID(t *testing.T) {
	n := NewNode(5, DegreePeerCount)
	sender := record.NewOwn(1)
	root := record.NewOwn(1)
	root.TreeID = 10
	msg := record.Message[int]{Sender: sender, Root: root}

	changed := n.HandleMessage(msg)
	require.True(t, changed)
	assert.Equal(t, 10, n.Root.TreeID)
	assert.Equal(t, n.Root.Path, n.Self.Coords)
}

func TestHandleMessage_RejectsLoop(t *testing.T) {
	n := NewNode(5, DegreePeerCount)
	n.Self.TreeID = -1 // guarantee any advertised root would otherwise be adopted
	n.Root.TreeID = -1

	sender := record.NewOwn(1)
	root := &record.PathRecord[int]{NodeID: 1, TreeID: 10, Coords: []int{1, 5, 2}, Path: []int{2, 5}}
	msg := record.Message[int]{Sender: sender, Root: root}

	changed := n.HandleMessage(msg)
	assert.False(t, changed, "a path containing this node's own id before the last hop must be rejected as a loop")
}

func TestHandleMessage_RejectsDroppedTreeID(t *testing.T) {
	n := NewNode(5, DegreePeerCount)
	dropped := record.NewOwn(1)
	dropped.TreeID = 10
	dropped.Tstamp = 100
	n.Drop[10] = dropped

	sender := record.NewOwn(2)
	root := &record.PathRecord[int]{NodeID: 1, TreeID: 10, Tstamp: 50, Coords: []int{1}, Path: []int{2}}
	msg := record.Message[int]{Sender: sender, Root: root}

	changed := n.HandleMessage(msg)
	assert.False(t, changed, "a root re-advertised with a tstamp no newer than the one we already dropped must not be re-adopted")
}

func TestDrainInbox_ProcessesLIFO(t *testing.T) {
	n := NewNode(5, DegreePeerCount)

	// n.Peers[senderID] is overwritten unconditionally on every handled
	// message, with no root-adoption tie-break in the way, so it is a
	// clean observable for processing order: whichever message is
	// processed LAST wins the map entry.
	first := &record.PathRecord[int]{NodeID: 1, Degree: 111, Coords: []int{1}, Path: []int{1}}
	second := &record.PathRecord[int]{NodeID: 1, Degree: 222, Coords: []int{1}, Path: []int{1}}
	n.Inbox = []record.Message[int]{
		{Sender: first, Root: record.NewOwn(1)},  // index 0: processed LAST under LIFO drain
		{Sender: second, Root: record.NewOwn(1)}, // index 1: processed FIRST under LIFO drain
	}

	n.DrainInbox()

	assert.Equal(t, 111, n.Peers[1].Degree, "LIFO drain must process index 0 after index 1, so it wins the final peer record")
	assert.Empty(t, n.Inbox)
}

func line3() *Store[int] {
	s := NewStore[int]()
	n1 := s.AddNode(1, DegreePeerCount)
	n2 := s.AddNode(2, DegreePeerCount)
	n3 := s.AddNode(3, DegreePeerCount)
	s.Link(1, 2)
	s.Link(2, 3)

	n1.Self.Coords = []int{1}
	n1.Peers[2] = &record.PathRecord[int]{NodeID: 2, TreeID: 1, Coords: []int{1, 2}, Path: []int{2, 1}}

	n2.Self.Coords = []int{1, 2}
	n2.Peers[1] = &record.PathRecord[int]{NodeID: 1, TreeID: 1, Coords: []int{1}, Path: []int{1, 2}}
	n2.Peers[3] = &record.PathRecord[int]{NodeID: 3, TreeID: 1, Coords: []int{1, 2, 3}, Path: []int{3, 2}}

	n3.Self.Coords = []int{1, 2, 3}
	n3.Peers[2] = &record.PathRecord[int]{NodeID: 2, TreeID: 1, Coords: []int{1, 2}, Path: []int{2, 3}}

	return s
}

func TestBuildTable_AndNextHop_Line(t *testing.T) {
	s := line3()
	s.BuildTables()

	n1 := s.Nodes[1]
	n2 := s.Nodes[2]
	n3 := s.Nodes[3]

	assert.Equal(t, 2, n1.NextHop(n3.Self.Coords), "node 1 must route to node 3 via node 2")
	assert.Equal(t, 3, n2.NextHop(n3.Self.Coords), "node 2 is directly peered with node 3")
	assert.Equal(t, 2, n3.NextHop(n1.Self.Coords), "node 3 must route to node 1 via node 2")
}

func TestLookupSlow_AgreesWithBuildTable(t *testing.T) {
	s := line3()
	s.BuildTables()

	n1 := s.Nodes[1]
	n3 := s.Nodes[3]

	fast := n1.NextHop(n3.Self.Coords)
	slow, ok := n1.LookupSlow(n3.Self)
	require.True(t, ok)
	assert.Equal(t, fast, slow)
}

func TestNextHop_SelfSentinel_WhenNoPeers(t *testing.T) {
	n := NewNode(1, DegreePeerCount)
	n.Self.Coords = []int{1}
	n.buildTable()
	assert.Equal(t, 1, n.NextHop([]int{1, 2, 3}), "a node with no peers toward a destination must return itself as the stranded sentinel")
}
