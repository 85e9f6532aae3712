package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/kop-cichra/slsbench/internal/batch"
	"github.com/kop-cichra/slsbench/internal/metrics"
	"github.com/kop-cichra/slsbench/internal/progress"
	"github.com/kop-cichra/slsbench/internal/solver"
)

type runOptions struct {
	solverPath  string
	workers     int
	manifest    bool
	metricsFile string
	preflight   bool
	progress    bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a solver repeatedly and log every run",
		Long: `Run a solver n times against one CNF file. Every run appends one line to
<out_file> and one line with the raw solver output to <out_file>.raw.`,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.solverPath, "solver-path", "", "solver executable (overrides config and environment)")
	f.IntVar(&opts.workers, "workers", 0, "solver processes to run at once (default from config, 1)")
	f.BoolVar(&opts.manifest, "manifest", false, "write <out_file>.manifest.json after the batch")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	f.BoolVar(&opts.preflight, "preflight", false, "parse the CNF file before the first run")
	f.BoolVar(&opts.progress, "progress", false, "show a progress bar on stderr")

	cmd.AddCommand(newRunGSATCmd(opts), newRunProbSATCmd(opts))
	return cmd
}

func newRunGSATCmd(opts *runOptions) *cobra.Command {
	var (
		probability float64
		seed        string
	)
	cmd := &cobra.Command{
		Use:   "gsat <n_runs> <max_flips> <in_file> <out_file>",
		Short: "Run the GSAT-style solver",
		Example: `  slsbench run gsat 1000 3000 uf20-01.cnf gsat2_uf20-01.log
  slsbench run gsat 500 3000 uf50-01.cnf out.log --workers 4 --progress`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			runs, err := intArg("n_runs", args[0], 0)
			if err != nil {
				return err
			}
			maxFlips, err := intArg("max_flips", args[1], 1)
			if err != nil {
				return err
			}

			gcfg := cc.Config.Solvers.GSAT
			s := solver.NewGSAT(firstNonEmpty(opts.solverPath, gcfg.Path), maxFlips)
			s.Probability = gcfg.Probability
			s.Seed = gcfg.Seed
			if cmd.Flags().Changed("probability") {
				s.Probability = probability
			}
			if cmd.Flags().Changed("seed") {
				s.Seed = seed
			}

			return runBatch(cmd, cc, opts, s, batch.Spec{Runs: runs, CNFPath: args[2], OutPath: args[3]})
		},
	}
	cmd.Flags().Float64Var(&probability, "probability", solver.DefaultGSATProbability, "random walk probability (-p)")
	cmd.Flags().StringVar(&seed, "seed", solver.DefaultGSATSeed, "random seed (-r); \"time\" seeds from the clock")
	return cmd
}

func newRunProbSATCmd(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "probsat <n_runs> <in_file> <out_file>",
		Short:   "Run the probSAT-style solver",
		Example: `  slsbench run probsat 1000 uf20-01.cnf probsat_uf20-01.log`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			runs, err := intArg("n_runs", args[0], 0)
			if err != nil {
				return err
			}

			pcfg := cc.Config.Solvers.ProbSAT
			s := solver.NewProbSAT(firstNonEmpty(opts.solverPath, pcfg.Path), pcfg.Args...)

			return runBatch(cmd, cc, opts, s, batch.Spec{Runs: runs, CNFPath: args[1], OutPath: args[2]})
		},
	}
}

func runBatch(cmd *cobra.Command, cc *CommandContext, opts *runOptions, s solver.Solver, spec batch.Spec) error {
	bcfg := cc.Config.Batch
	runner := &batch.Runner{
		Solver:    s,
		Workers:   bcfg.Workers,
		Logger:    cc.Logger,
		Preflight: bcfg.Preflight || opts.preflight,
		Manifest:  bcfg.Manifest || opts.manifest,
	}
	if cmd.Flags().Changed("workers") {
		runner.Workers = opts.workers
	}

	var reg *prometheus.Registry
	if opts.metricsFile != "" {
		reg, runner.Metrics = metrics.NewRegistry()
	}

	if opts.progress {
		bar := progress.NewBar(progress.Config{Writer: cc.Err, Total: spec.Runs})
		runner.Observer = bar
		defer bar.Finish()
	}

	_, runErr := runner.Run(cmd.Context(), spec)

	// metrics of a partial batch are still worth keeping
	if reg != nil {
		if err := metrics.WriteTextfile(reg, opts.metricsFile); err != nil {
			cc.Logger.WithError(err).Warn("cannot write metrics file", "path", opts.metricsFile)
		}
	}
	return runErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
