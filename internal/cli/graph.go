package cli

import (
	"fmt"

	"github.com/routetree/yggtree/internal/config"
	"github.com/routetree/yggtree/loader"
	"github.com/routetree/yggtree/topo"
)

// buildIntStore resolves every graph.kind that loads into a
// topo.Store[int]. Dimes graphs are not loaded here, since DIMES ids are
// strings; none of the CLI commands accept them.
func buildIntStore(exp *config.Experiment) (*topo.Store[int], error) {
	policy := exp.DegreePolicy()
	switch exp.Graph.Kind {
	case "edgelist":
		var root *int
		if exp.Graph.Root != "" {
			r, err := parseIntRoot(exp.Graph.Root)
			if err != nil {
				return nil, err
			}
			root = &r
		}
		return loader.EdgeList{Path: exp.Graph.Path, Root: root, Policy: policy}.Load()
	case "asrel":
		var root *int
		if exp.Graph.Root != "" {
			r, err := parseIntRoot(exp.Graph.Root)
			if err != nil {
				return nil, err
			}
			root = &r
		} else if exp.Graph.DegreeIdx != 0 {
			r, err := loader.DegreeMax(exp.Graph.Path, exp.Graph.DegreeIdx)
			if err != nil {
				return nil, err
			}
			root = &r
		}
		return loader.ASRel{Path: exp.Graph.Path, Root: root, Policy: policy}.Load()
	case "grid":
		return loader.Grid{SideLength: exp.Graph.SideLength, Policy: policy}.Load()
	default:
		return nil, fmt.Errorf("cli: graph.kind %q does not produce an int-keyed graph", exp.Graph.Kind)
	}
}

func parseIntRoot(s string) (int, error) {
	var v int
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return 0, fmt.Errorf("cli: graph.root %q is not an integer: %w", s, err)
	}
	return v, nil
}
