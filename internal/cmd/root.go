package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kop-cichra/slsbench/internal/config"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "slsbench",
		Short: "Benchmark harness for stochastic local-search SAT solvers",
		Long: `slsbench runs GSAT- and probSAT-style solvers many times against a CNF file,
logs the outcome of every run, and turns those logs into CDF and histogram
reports of the number of steps to a solution.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file (default ./"+config.DefaultFile+" when present)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "", "log format: text or json")
	root.PersistentFlags().Bool("no-color", false, "disable colored output")

	// --bin_count and --bin-count are the same flag
	root.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	root.AddCommand(
		newRunCmd(),
		newCDFCmd(),
		newHistCmd(),
		newCDFOverlayCmd(),
		newHistOverlayCmd(),
		newStatsCmd(),
		newInspectCmd(),
		newDoctorCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
