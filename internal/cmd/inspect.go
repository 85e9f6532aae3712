package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kop-cichra/slsbench/internal/cnf"
	"github.com/kop-cichra/slsbench/internal/ux"
)

type inspectResult struct {
	cnf.Info `yaml:",inline"`
	Verdict  string `json:"verdict,omitempty" yaml:"verdict,omitempty"`
}

func newInspectCmd() *cobra.Command {
	var (
		checkSat bool
		timeout  time.Duration
		format   string
	)
	cmd := &cobra.Command{
		Use:   "inspect <cnf_file>",
		Short: "Describe a DIMACS CNF file",
		Long: `Parse a DIMACS CNF file and report its size. With --check-sat a complete
solver decides satisfiability within the timeout, which tells whether a batch
made only of failures is expected: local search cannot prove UNSAT.`,
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

			info, err := cnf.Inspect(args[0])
			if err != nil {
				return err
			}
			res := &inspectResult{Info: *info}
			if checkSat {
				start := time.Now()
				v, err := cnf.CheckSatisfiable(cmd.Context(), args[0], timeout)
				if err != nil {
					return err
				}
				res.Verdict = v.String()
				cc.Logger.Debug("satisfiability checked", "verdict", res.Verdict, "duration", time.Since(start))
			}

			if format != "" && format != "text" {
				return formatter.Format(res)
			}
			t := &ux.Table{Title: info.Path, Styles: cc.Styles}
			t.Add("header", fmt.Sprintf("p cnf %d %d", info.HeaderVars, info.HeaderClauses))
			t.Add("variables", info.Vars)
			t.Add("clauses", info.Clauses)
			t.Add("unit literals", info.Units)
			if info.TriviallyUnsat {
				t.Add("status", cc.Styles.Error.Render("UNSAT (unit propagation)"))
			}
			if res.Verdict != "" {
				t.Add("verdict", res.Verdict)
			}
			return formatter.Format(t)
		},
	}
	cmd.Flags().BoolVar(&checkSat, "check-sat", false, "decide satisfiability with a complete solver")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "time limit for --check-sat")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, yaml")
	return cmd
}
