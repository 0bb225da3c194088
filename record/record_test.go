package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOwn(t *testing.T) {
	r := NewOwn(5)
	assert.True(t, r.IsOwn())
	assert.Equal(t, 5, r.NodeID)
	assert.Equal(t, 5, r.TreeID)
	assert.Equal(t, []int{5}, r.Coords)
	assert.Equal(t, []int{5}, r.Path)
}

func TestIsOwn_FalseAfterTraversal(t *testing.T) {
	r := NewOwn(1)
	r.Path = append(r.Path, 2)
	assert.False(t, r.IsOwn())
}

func TestClone_Independence(t *testing.T) {
	r := NewOwn("a")
	c := r.Clone()
	c.Coords = append(c.Coords, "b")
	c.Path = append(c.Path, "b")
	assert.Len(t, r.Coords, 1, "mutating the clone must not affect the original")
	assert.Len(t, r.Path, 1)
	assert.True(t, r.Equal(NewOwn("a")))
}

func TestEqual(t *testing.T) {
	a := NewOwn(1)
	b := NewOwn(1)
	require.True(t, a.Equal(b))
	b.Tstamp = 5
	assert.False(t, a.Equal(b))
}

func TestTreeDist(t *testing.T) {
	cases := []struct {
		name string
		a, b []int
		want int
	}{
		{"identical", []int{1, 2, 3}, []int{1, 2, 3}, 0},
		{"siblings", []int{1, 2, 3}, []int{1, 2, 4}, 2},
		{"different root", []int{1, 2}, []int{9, 2}, 4},
		{"ancestor", []int{1}, []int{1, 2, 3}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TreeDist(tc.a, tc.b))
			assert.Equal(t, tc.want, TreeDist(tc.b, tc.a), "TreeDist must be symmetric")
		})
	}
}

func TestLess(t *testing.T) {
	assert.True(t, Less(1, 2))
	assert.False(t, Less(2, 1))
	assert.True(t, Less("a", "b"))
}

func TestMessageClone(t *testing.T) {
	msg := &Message[int]{Sender: NewOwn(1), Root: NewOwn(2)}
	clone := msg.Clone()
	clone.Sender.Path = append(clone.Sender.Path, 9)
	assert.Len(t, msg.Sender.Path, 1)
	assert.NotSame(t, msg.Sender, clone.Sender)
	assert.NotSame(t, msg.Root, clone.Root)
}
