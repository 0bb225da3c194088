// Package loader builds topo.Store topologies from on-disk graph formats:
// CAIDA AS-relationship dumps, DIMES gzip edge CSVs, generic edge lists,
// and a synthetic square grid for smoke-testing. Every loader returns a
// store that has been linked but never ticked; callers drive convergence
// separately (see package sim).
package loader

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/routetree/yggtree/record"
	"github.com/routetree/yggtree/topo"
)

// rootBias is added to a chosen root's TreeID so it wins the path-vector
// election regardless of how node ids order.
const rootBias = 1_000_000_000

// EdgeList reads a generic whitespace-separated "a b" edge-per-line graph
// (caida-style "#" comment lines are skipped), producing a topo.Store[int].
// If root is non-nil, the matching node's tree id is biased to win
// election.
type EdgeList struct {
	Path   string
	Root   *int
	Policy topo.DegreePolicy
}

// Load parses the int-keyed generic edge-list format.
func (l EdgeList) Load() (*topo.Store[int], error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("loader: open edge list: %w", err)
	}
	defer f.Close()

	store := topo.NewStore[int]()
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("loader: edge list line %d: want 2 fields, got %d", lineNum, len(fields))
		}
		a, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("loader: edge list line %d: %w", lineNum, err)
		}
		b, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("loader: edge list line %d: %w", lineNum, err)
		}
		addBiasedNode(store, a, l.Root, l.Policy)
		addBiasedNode(store, b, l.Root, l.Policy)
		store.Link(a, b)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loader: scan edge list: %w", err)
	}
	return store, nil
}

func addBiasedNode(store *topo.Store[int], id int, root *int, policy topo.DegreePolicy) {
	n := store.AddNode(id, policy)
	if root != nil && id == *root && n.Self.TreeID == n.Self.NodeID {
		n.BiasTreeID(id + rootBias)
	}
}

// ASRel reads a CAIDA AS-relationship dump ("ASx|ASy|z" per line, trailing
// fields ignored) into a topo.Store[int].
type ASRel struct {
	Path   string
	Root   *int
	Policy topo.DegreePolicy
}

// Load parses the pipe-delimited relationship format.
func (a ASRel) Load() (*topo.Store[int], error) {
	f, err := os.Open(a.Path)
	if err != nil {
		return nil, fmt.Errorf("loader: open asrel: %w", err)
	}
	defer f.Close()

	store := topo.NewStore[int]()
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		fields := strings.Fields(strings.ReplaceAll(raw, "|", " "))
		if len(fields) < 2 {
			return nil, fmt.Errorf("loader: asrel line %d: want at least 2 fields, got %d", lineNum, len(fields))
		}
		x, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("loader: asrel line %d: %w", lineNum, err)
		}
		y, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("loader: asrel line %d: %w", lineNum, err)
		}
		addBiasedNode(store, x, a.Root, a.Policy)
		addBiasedNode(store, y, a.Root, a.Policy)
		store.Link(x, y)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loader: scan asrel: %w", err)
	}
	return store, nil
}

// DegreeMax finds the node with the degIdx'th-highest degree in an AS-rel
// file, breaking ties by descending node id. It is meant to be fed back
// in as ASRel.Root for a second, root-biased pass.
func DegreeMax(path string, degIdx int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("loader: open asrel: %w", err)
	}
	defer f.Close()

	deg := make(map[int]int)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		fields := strings.Fields(strings.ReplaceAll(raw, "|", " "))
		if len(fields) < 2 {
			continue
		}
		x, errX := strconv.Atoi(fields[0])
		y, errY := strconv.Atoi(fields[1])
		if errX != nil || errY != nil {
			continue
		}
		deg[x]++
		deg[y]++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("loader: scan asrel: %w", err)
	}
	if degIdx < 0 || degIdx >= len(deg) {
		return 0, fmt.Errorf("loader: degree index %d out of range (%d nodes)", degIdx, len(deg))
	}
	ids := make([]int, 0, len(deg))
	for id := range deg {
		ids = append(ids, id)
	}
	sortByDegreeDesc(ids, deg)
	return ids[degIdx], nil
}

func sortByDegreeDesc(ids []int, deg map[int]int) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0; j-- {
			a, b := ids[j-1], ids[j]
			if deg[a] < deg[b] || (deg[a] == deg[b] && a < b) {
				ids[j-1], ids[j] = ids[j], ids[j-1]
			} else {
				break
			}
		}
	}
}

// Dimes reads a gzip-compressed DIMES-format edge CSV ("srcIP,dstIP,..."
// per line) into a topo.Store[string]. Node ids are prefixed "N", or "R"
// for whichever id equals Root, to carry the root-marker through without
// mutating numeric identity. Lines naming an unknown ("?") endpoint are
// skipped.
type Dimes struct {
	Path   string
	Root   string
	Policy topo.DegreePolicy
}

// Load decompresses and parses the CSV.
func (d Dimes) Load() (*topo.Store[string], error) {
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, fmt.Errorf("loader: open dimes graph: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("loader: gzip dimes graph: %w", err)
	}
	defer gz.Close()

	store := topo.NewStore[string]()
	scanner := bufio.NewScanner(gz)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			return nil, fmt.Errorf("loader: dimes line %d: want at least 2 fields, got %d", lineNum, len(fields))
		}
		rawA := strings.TrimSpace(fields[0])
		rawB := strings.TrimSpace(fields[1])
		if strings.Contains(rawA, "?") || strings.Contains(rawB, "?") {
			continue
		}
		nodeA, nodeB := "N"+rawA, "N"+rawB
		if d.Root != "" && rawA == d.Root {
			nodeA = "R" + rawA
		}
		if d.Root != "" && rawB == d.Root {
			nodeB = "R" + rawB
		}
		store.AddNode(nodeA, d.Policy)
		store.AddNode(nodeB, d.Policy)
		if nodeA != nodeB {
			store.Link(nodeA, nodeB)
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("loader: scan dimes graph: %w", err)
	}
	return store, nil
}

// Grid builds a sideLength*sideLength toroidal-free rectangular lattice:
// each node is linked to its row-neighbor and column-neighbor. Shuffle,
// when non-nil, is used to permute node id assignment order (callers
// pass a seeded math/rand.Rand-backed shuffler; a nil Shuffle keeps ids
// in row-major order for reproducible unit tests).
type Grid struct {
	SideLength int
	Policy     topo.DegreePolicy
	Shuffle    func([]int)
}

// Load generates the lattice.
func (g Grid) Load() (*topo.Store[int], error) {
	if g.SideLength < 1 {
		return nil, fmt.Errorf("loader: grid side length must be positive, got %d", g.SideLength)
	}
	total := g.SideLength * g.SideLength
	ids := make([]int, total)
	for i := range ids {
		ids[i] = i
	}
	if g.Shuffle != nil {
		g.Shuffle(ids)
	}

	store := topo.NewStore[int]()
	for _, id := range ids {
		store.AddNode(id, g.Policy)
	}
	for index := 0; index < total; index++ {
		if index%g.SideLength != 0 {
			store.Link(ids[index], ids[index-1])
		}
		if index >= g.SideLength {
			store.Link(ids[index], ids[index-g.SideLength])
		}
	}
	return store, nil
}

// Loader is implemented by every concrete graph source for a given id
// type.
type Loader[T record.ID] interface {
	Load() (*topo.Store[T], error)
}
