package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/routetree/yggtree/internal/config"
	"github.com/routetree/yggtree/oracle"
	"github.com/routetree/yggtree/sim"
)

var runConfigPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single experiment to convergence and print the stretch report",
	Run: func(cmd *cobra.Command, args []string) {
		exp, err := config.Load(runConfigPath)
		if err != nil {
			exitWithMessage(err)
		}
		if exp.Graph.Kind == "dimes" {
			exitWithMessage(fmt.Errorf("cli: run does not yet support dimes graphs, use a string-keyed driver directly"))
		}
		store, err := buildIntStore(exp)
		if err != nil {
			exitWithMessage(err)
		}

		started := time.Now()
		driver := sim.New[int](exp.Seed)
		result, err := sim.Run(driver, store)
		if err != nil {
			exitWithMessage(err)
		}
		fmt.Printf("converged in %d steps (%s)\n", result.Steps, time.Since(started))

		matrix := oracle.AllPairs(store)
		eval := oracle.NewEvaluator(store)
		trace := eval.TestPaths(matrix)

		fmt.Printf("avg_stretch=%.4f max_stretch=%.4f dropped=%d\n",
			oracle.AvgStretch(trace.Hist), oracle.MaxStretch(trace.Hist), trace.Dropped)
		for _, line := range oracle.Lines(trace.Hist) {
			fmt.Println(line)
		}

		peer := oracle.PeerSizes(store)
		cert := oracle.CertSizes(store)
		linkCert := oracle.MinLinkCertSizes(store)
		path := oracle.PathSizes(store)
		fmt.Printf("peer_size avg=%.2f max=%d min=%d\n", oracle.AvgSize(peer), oracle.MaxSize(peer), oracle.MinSize(peer))
		fmt.Printf("cert_size avg=%.2f max=%d min=%d\n", oracle.AvgSize(cert), oracle.MaxSize(cert), oracle.MinSize(cert))
		fmt.Printf("min_link_cert_size avg=%.2f max=%d min=%d\n", oracle.AvgSize(linkCert), oracle.MaxSize(linkCert), oracle.MinSize(linkCert))
		fmt.Printf("path_size avg=%.2f max=%d min=%d\n", oracle.AvgSize(path), oracle.MaxSize(path), oracle.MinSize(path))
	},
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "config.yaml", "path to experiment config file")
	rootCmd.AddCommand(runCmd)
}
