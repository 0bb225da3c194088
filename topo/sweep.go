package topo

// TickNode runs one node's Tick and, if it produced a broadcast, delivers
// a fresh clone to every linked neighbor's inbox. This is the only place
// cross-node state is mutated outside of a node's own fields.
func (s *Store[T]) TickNode(id T) bool {
	node := s.Nodes[id]
	changed, msg := node.Tick()
	if msg != nil {
		for peerID := range node.Links {
			peer := s.Nodes[peerID]
			peer.Inbox = append(peer.Inbox, *msg.Clone())
		}
	}
	return changed
}

// DrainNode drains one node's inbox.
func (s *Store[T]) DrainNode(id T) bool {
	return s.Nodes[id].DrainInbox()
}
