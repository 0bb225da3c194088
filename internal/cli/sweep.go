package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/routetree/yggtree/internal/config"
	"github.com/routetree/yggtree/sim"
)

var (
	sweepConfigPath string
	sweepRoots      string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one independent convergence experiment per candidate root and compare step counts",
	Run: func(cmd *cobra.Command, args []string) {
		exp, err := config.Load(sweepConfigPath)
		if err != nil {
			exitWithMessage(err)
		}
		roots, err := parseRootList(sweepRoots)
		if err != nil {
			exitWithMessage(err)
		}
		if len(roots) == 0 {
			exitWithMessage(fmt.Errorf("cli: sweep requires at least one --roots entry"))
		}

		jobs := make([]sim.SweepJob[int], 0, len(roots))
		for i, root := range roots {
			root := root
			jobExp := *exp
			jobExp.Graph.Root = strconv.Itoa(root)
			store, err := buildIntStore(&jobExp)
			if err != nil {
				exitWithMessage(err)
			}
			jobs = append(jobs, sim.SweepJob[int]{
				Label: fmt.Sprintf("root=%d", root),
				Store: store,
				Seed:  exp.Seed + int64(i),
			})
		}

		outcomes := sim.Sweep(jobs)
		for _, outcome := range outcomes {
			if outcome.Err != nil {
				fmt.Printf("%s: error: %v\n", outcome.Label, outcome.Err)
				continue
			}
			fmt.Printf("%s: converged=%v steps=%d\n", outcome.Label, outcome.Result.Converged, outcome.Result.Steps)
		}
	},
}

func parseRootList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	roots := make([]int, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("cli: invalid --roots entry %q: %w", field, err)
		}
		roots = append(roots, v)
	}
	return roots, nil
}

func init() {
	sweepCmd.Flags().StringVarP(&sweepConfigPath, "config", "c", "config.yaml", "path to experiment config file")
	sweepCmd.Flags().StringVar(&sweepRoots, "roots", "", "comma-separated candidate root node ids")
	rootCmd.AddCommand(sweepCmd)
}
