// Package cli wires the yggtree-sim subcommands together with cobra,
// following the pattern pythseq-gotree's cmd package uses: one
// cobra.Command value per file, registered onto rootCmd from init().
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "yggtree-sim",
	Short: "Simulate tree-based compact routing over a static graph",
	Long: `yggtree-sim loads a graph, runs the path-vector tree-construction
protocol to convergence, and reports the routing stretch against a
Dijkstra oracle.`,
}

// Execute runs the selected subcommand, logging and exiting non-zero on
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("yggtree-sim failed", "err", err)
		os.Exit(1)
	}
}

func exitWithMessage(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
