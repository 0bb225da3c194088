package cli

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/routetree/yggtree/internal/config"
	"github.com/routetree/yggtree/metrics"
	"github.com/routetree/yggtree/oracle"
	"github.com/routetree/yggtree/sim"
)

var serveMetricsConfigPath string

var serveMetricsCmd = &cobra.Command{
	Use:   "serve-metrics",
	Short: "Run an experiment once, then serve its stretch and size stats on /metrics",
	Run: func(cmd *cobra.Command, args []string) {
		exp, err := config.Load(serveMetricsConfigPath)
		if err != nil {
			exitWithMessage(err)
		}
		store, err := buildIntStore(exp)
		if err != nil {
			exitWithMessage(err)
		}

		driver := sim.New[int](exp.Seed)
		result, err := sim.Run(driver, store)
		if err != nil {
			exitWithMessage(err)
		}

		matrix := oracle.AllPairs(store)
		eval := oracle.NewEvaluator(store)
		trace := eval.TestPaths(matrix)

		reg := metrics.New()
		reg.ObserveTrace(trace, store.Len(), result.Steps)
		reg.ObserveSizes(
			oracle.PeerSizes(store),
			oracle.CertSizes(store),
			oracle.MinLinkCertSizes(store),
			oracle.PathSizes(store),
		)

		mux := http.NewServeMux()
		mux.Handle("/metrics", reg.Handler())

		slog.Info("serving metrics", "addr", exp.Metrics.Listen, "steps", result.Steps)
		if err := http.ListenAndServe(exp.Metrics.Listen, mux); err != nil {
			exitWithMessage(fmt.Errorf("cli: metrics server: %w", err))
		}
	},
}

func init() {
	serveMetricsCmd.Flags().StringVarP(&serveMetricsConfigPath, "config", "c", "config.yaml", "path to experiment config file")
	rootCmd.AddCommand(serveMetricsCmd)
}
