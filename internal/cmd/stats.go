package cmd

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kop-cichra/slsbench/internal/sample"
	"github.com/kop-cichra/slsbench/internal/ux"
)

// logStats is what the stats command prints.
type logStats struct {
	File       string        `json:"file" yaml:"file"`
	Runs       int           `json:"runs" yaml:"runs"`
	Success    int           `json:"success" yaml:"success"`
	Failure    int           `json:"failure" yaml:"failure"`
	ParseError int           `json:"parse_error" yaml:"parse_error"`
	Malformed  int           `json:"malformed" yaml:"malformed"`
	Steps      *sample.Stats `json:"steps,omitempty" yaml:"steps,omitempty"`
}

func (s *logStats) table(st *ux.Styles) *ux.Table {
	t := &ux.Table{Title: s.File, Styles: st}
	t.Add("runs", s.Runs)
	t.Add("success", s.Success)
	t.Add("failure", s.Failure)
	t.Add("parse errors", s.ParseError)
	if s.Malformed > 0 {
		t.Add("malformed lines", s.Malformed)
	}
	if s.Runs > 0 {
		t.Add("success rate", fmt.Sprintf("%.2f%%", 100*float64(s.Success)/float64(s.Runs)))
	}
	if st := s.Steps; st != nil {
		t.Add("min", st.Min)
		t.Add("q1", fmt.Sprintf("%.2f", st.Q1))
		t.Add("median", fmt.Sprintf("%.2f", st.Median))
		t.Add("mean", fmt.Sprintf("%.2f", st.Mean))
		t.Add("stddev", fmt.Sprintf("%.2f", st.StdDev))
		t.Add("q3", fmt.Sprintf("%.2f", st.Q3))
		t.Add("p90", fmt.Sprintf("%.2f", st.P90))
		t.Add("max", st.Max)
		t.Add("iqr fences", fmt.Sprintf("[%.2f, %.2f]", st.Lower, st.Upper))
		t.Add("kept after filter", fmt.Sprintf("%d of %d", st.Kept, st.Count))
	}
	return t
}

func newStatsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "stats <input_file>",
		Short: "Summarise a run log",
		Long: `Count the outcomes in a summary log and describe the step counts of its
successful runs: quartiles, 90th percentile and the outlier fences used by the
reports.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			formatter, err := ux.NewFormatter(format, &ux.FormatterOptions{Writer: cc.Out, NoColor: cc.NoColor})
			if err != nil {
				return err
			}

			scan, err := sample.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := &logStats{
				File:       args[0],
				Runs:       scan.Runs(),
				Success:    scan.Success,
				Failure:    scan.Failure,
				ParseError: scan.ParseError,
				Malformed:  scan.Malformed,
			}
			switch st, err := sample.Describe(scan.Steps); {
			case err == nil:
				out.Steps = &st
			case !stderrors.Is(err, sample.ErrNoData):
				return err
			}

			if format == "" || format == "text" {
				return formatter.Format(out.table(cc.Styles))
			}
			return formatter.Format(out)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, yaml")
	return cmd
}
