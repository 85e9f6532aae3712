package cmd

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/kop-cichra/slsbench/internal/report"
	"github.com/kop-cichra/slsbench/internal/sample"
)

// noDataMessage is printed instead of a plot when a log has no successes.
const noDataMessage = "No successful runs found in the log."

type reportFlags struct {
	width          float64
	height         float64
	binCount       string
	filterOutliers bool
	label1         string
	label2         string
}

func (f *reportFlags) addSize(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "image width in inches (default 6.4, overlays 10)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "image height in inches (default 4.8, overlays 6)")
}

func (f *reportFlags) addBins(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.binCount, "bin-count", "auto", "number of bins, or auto, sturges, fd")
	cmd.Flags().BoolVar(&f.filterOutliers, "filter-outliers", false, "bin only the samples inside the IQR fences")
}

func (f *reportFlags) addLabels(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.label1, "label1", report.DefaultLabel1, "legend label for the first log")
	cmd.Flags().StringVar(&f.label2, "label2", report.DefaultLabel2, "legend label for the second log")
}

func (f *reportFlags) options(cc *CommandContext) (report.Options, error) {
	opts := report.Options{
		Width:          inches(firstPositive(f.width, cc.Config.Report.Width)),
		Height:         inches(firstPositive(f.height, cc.Config.Report.Height)),
		FilterOutliers: f.filterOutliers,
		Out:            cc.Out,
		NoColor:        cc.NoColor,
	}
	if f.binCount != "" {
		rule, err := report.ParseBinRule(f.binCount)
		if err != nil {
			return report.Options{}, err
		}
		opts.Bins = rule
	}
	return opts, nil
}

func inches(v float64) vg.Length {
	return vg.Length(v) * vg.Inch
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func loadSeries(cc *CommandContext, path, label string) (report.Series, error) {
	scan, err := sample.ReadFile(path)
	if err != nil {
		return report.Series{}, err
	}
	cc.Logger.Debug("log read", "file", path,
		"success", scan.Success, "failure", scan.Failure,
		"parse_error", scan.ParseError, "malformed", scan.Malformed)
	return report.Series{Source: path, Label: label, Steps: scan.Steps}, nil
}

// renderReport runs fn and turns an empty sample into the console notice.
func renderReport(cc *CommandContext, fn func() error) error {
	err := fn()
	if stderrors.Is(err, sample.ErrNoData) {
		fmt.Fprintln(cc.Out, noDataMessage)
		return nil
	}
	return err
}

func newCDFCmd() *cobra.Command {
	f := &reportFlags{}
	cmd := &cobra.Command{
		Use:     "cdf <input_file> <output_file>",
		Short:   "Plot the CDF of steps to success",
		Long:    `Plot the empirical CDF of the step counts of successful runs, after IQR outlier trimming.`,
		Example: `  slsbench cdf gsat2_uf20-01.log cdf.png`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			opts, err := f.options(cc)
			if err != nil {
				return err
			}
			return renderReport(cc, func() error {
				s, err := loadSeries(cc, args[0], "")
				if err != nil {
					return err
				}
				return report.CDF(s, args[1], opts)
			})
		},
	}
	f.addSize(cmd)
	return cmd
}

func newHistCmd() *cobra.Command {
	f := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "hist <input_file> <output_file>",
		Short: "Plot a histogram of steps to success",
		Long: `Plot a histogram of the step counts of successful runs with 50th and 90th
percentile markers, and print the bin counts.`,
		Example: `  slsbench hist gsat2_uf20-01.log hist.png --bin_count 30`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			opts, err := f.options(cc)
			if err != nil {
				return err
			}
			return renderReport(cc, func() error {
				s, err := loadSeries(cc, args[0], "")
				if err != nil {
					return err
				}
				return report.Histogram(s, args[1], opts)
			})
		},
	}
	f.addSize(cmd)
	f.addBins(cmd)
	return cmd
}

func newCDFOverlayCmd() *cobra.Command {
	f := &reportFlags{}
	cmd := &cobra.Command{
		Use:     "cdf-overlay <input_file1> <input_file2> <output_file>",
		Short:   "Plot the CDFs of two logs on shared axes",
		Example: `  slsbench cdf-overlay gsat2_uf20.log probsat_uf20.log cdf.png --label1 GSAT --label2 probSAT`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			opts, err := f.options(cc)
			if err != nil {
				return err
			}
			return renderReport(cc, func() error {
				a, b, err := loadPair(cc, args[0], args[1], f)
				if err != nil {
					return err
				}
				return report.OverlayCDF(a, b, args[2], opts)
			})
		},
	}
	f.addSize(cmd)
	f.addLabels(cmd)
	return cmd
}

func newHistOverlayCmd() *cobra.Command {
	f := &reportFlags{}
	cmd := &cobra.Command{
		Use:     "hist-overlay <input_file1> <input_file2> <output_file>",
		Short:   "Plot the histograms of two logs on shared axes",
		Example: `  slsbench hist-overlay gsat2_uf20.log probsat_uf20.log hist.png --bin_count 40`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			opts, err := f.options(cc)
			if err != nil {
				return err
			}
			return renderReport(cc, func() error {
				a, b, err := loadPair(cc, args[0], args[1], f)
				if err != nil {
					return err
				}
				return report.OverlayHistogram(a, b, args[2], opts)
			})
		},
	}
	f.addSize(cmd)
	f.addBins(cmd)
	f.addLabels(cmd)
	return cmd
}

func loadPair(cc *CommandContext, path1, path2 string, f *reportFlags) (report.Series, report.Series, error) {
	a, err := loadSeries(cc, path1, f.label1)
	if err != nil {
		return report.Series{}, report.Series{}, err
	}
	b, err := loadSeries(cc, path2, f.label2)
	if err != nil {
		return report.Series{}, report.Series{}, err
	}
	return a, b, nil
}
