// Command yggtree-sim drives tree-routing convergence experiments from
// the command line: run a single graph to convergence, sweep candidate
// roots, or serve the resulting stretch/size stats as Prometheus
// metrics.
package main

import "github.com/routetree/yggtree/internal/cli"

func main() {
	cli.Execute()
}
