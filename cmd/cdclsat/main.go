// Command cdclsat loads a DIMACS CNF instance, solves it, and prints a
// DIMACS-style result and (if satisfiable) model. It is a thin driver over
// internal/sat, following the teacher's own main.go in spirit: parse one
// file, solve, print stats, exit. The flag surface is intentionally small.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/go-sat/cdcl/internal/metrics"
	"github.com/go-sat/cdcl/internal/proofio"
	"github.com/go-sat/cdcl/internal/sat"
	"github.com/go-sat/cdcl/parsers"
)

var (
	flagTimeout     time.Duration
	flagProofPath   string
	flagCheckProof  bool
	flagVerbose     bool
	flagMetricsAddr string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cdclsat [instance.cnf]",
		Short: "Solve a DIMACS CNF instance with a CDCL SAT solver",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}

	flags := cmd.Flags()
	flags.DurationVar(&flagTimeout, "timeout", -1, "abort the search after this long (negative means no limit)")
	flags.StringVar(&flagProofPath, "proof", "", "write a DRUP/DRAT proof to this path")
	flags.BoolVar(&flagCheckProof, "check-proof", false, "verify every learnt clause against an independent checker as it is produced")
	flags.BoolVar(&flagVerbose, "verbose", false, "log search progress at debug level")
	flags.StringVar(&flagMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while solving (e.g. :9090); disabled if empty")

	return cmd
}

func runSolve(cmd *cobra.Command, args []string) error {
	logger := logrus.New()
	if flagVerbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	opts := sat.DefaultOptions
	opts.Timeout = flagTimeout
	opts.Logger = logger
	opts.ProofEnabled = flagProofPath != ""
	opts.ProofCheckEnabled = flagCheckProof

	solver := sat.NewSolver(opts)

	instanceFile := args[0]
	if err := parsers.LoadDIMACS(instanceFile, false, solver); err != nil {
		return err
	}

	if opts.ProofEnabled {
		f, err := os.Create(flagProofPath)
		if err != nil {
			return err
		}
		defer f.Close()
		solver.WithProofWriter(proofio.NewWriter(f))
	}

	if flagMetricsAddr != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(metrics.NewCollector(solver, "cdclsat"))
		serveMetrics(logger, flagMetricsAddr, registry)
	}

	fmt.Printf("c variables: %d\n", solver.NumVariables())
	fmt.Printf("c clauses:   %d\n", solver.NumConstraints())

	start := time.Now()
	status := solver.Solve()
	elapsed := time.Since(start)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d\n", solver.Conflicts())
	fmt.Printf("c restarts:   %d\n", solver.Restarts())

	switch status {
	case sat.True:
		fmt.Println("s SATISFIABLE")
		printModel(solver)
	case sat.False:
		fmt.Println("s UNSATISFIABLE")
	default:
		fmt.Println("s UNKNOWN")
	}

	if err := solver.LastError(); err != nil {
		return err
	}
	return nil
}

// serveMetrics starts a background HTTP server exposing registry on
// /metrics for the lifetime of the process; any server error, including a
// failure to bind addr, is logged as a warning rather than returned, since
// a metrics outage should never take the solve down with it.
func serveMetrics(logger *logrus.Logger, addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Warn("metrics server stopped")
		}
	}()
}

func printModel(s *sat.Solver) {
	fmt.Print("v")
	for v := 0; v < s.NumVariables(); v++ {
		if s.Value(sat.PositiveLiteral(v)) == sat.True {
			fmt.Printf(" %d", v+1)
		} else {
			fmt.Printf(" -%d", v+1)
		}
	}
	fmt.Println(" 0")
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cdclsat:", err)
		os.Exit(1)
	}
}
