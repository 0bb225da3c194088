// Package config loads the YAML experiment configuration describing one
// simulation run or sweep, following the nested-struct/yaml.Decoder
// pattern mpisat-qumo's relay command uses for its own config file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/routetree/yggtree/topo"
)

// Experiment describes a single run: which graph to load, how to root
// it, and the metrics server to serve results on.
type Experiment struct {
	Graph struct {
		Kind       string `yaml:"kind"` // "edgelist", "asrel", "dimes", "grid"
		Path       string `yaml:"path"`
		SideLength int    `yaml:"side_length"`
		Root       string `yaml:"root"`
		DegreeIdx  int    `yaml:"degree_idx"`
	} `yaml:"graph"`

	Degree struct {
		ReportPeerCount bool `yaml:"report_peer_count"`
	} `yaml:"degree"`

	Seed int64 `yaml:"seed"`

	Metrics struct {
		Listen string `yaml:"listen"`
	} `yaml:"metrics"`
}

// DegreePolicy translates the YAML degree-reporting toggle into the
// topo package's policy enum.
func (e *Experiment) DegreePolicy() topo.DegreePolicy {
	if e.Degree.ReportPeerCount {
		return topo.DegreePeerCount
	}
	return topo.DegreeZero
}

// Load reads and decodes a YAML experiment file, filling in defaults
// (degree.report_peer_count defaults to true, i.e. topo.DegreePeerCount;
// metrics listen address defaults to :2112, the common Prometheus
// exporter port).
func Load(path string) (*Experiment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	var exp Experiment
	exp.Degree.ReportPeerCount = true // kept unless the file sets it
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&exp); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if exp.Graph.Kind == "" {
		return nil, fmt.Errorf("config: %s: graph.kind is required", path)
	}
	if exp.Metrics.Listen == "" {
		exp.Metrics.Listen = ":2112"
	}
	return &exp, nil
}
