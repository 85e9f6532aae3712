package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kop-cichra/slsbench/internal/errors"
	"github.com/kop-cichra/slsbench/internal/health"
	"github.com/kop-cichra/slsbench/internal/solver"
	"github.com/kop-cichra/slsbench/internal/ux"
)

type doctorReport struct {
	Status health.Status  `json:"status" yaml:"status"`
	Checks []health.Named `json:"checks" yaml:"checks"`
}

func newDoctorCmd() *cobra.Command {
	var (
		format  string
		dir     string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the configured solvers run",
		Long: `Run each configured solver once on a trivial instance and check that it
prints a result line slsbench can classify, then check that the log directory
is writable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			formatter, err := ux.NewFormatter(format, &ux.FormatterOptions{Writer: cc.Out, NoColor: cc.NoColor})
			if err != nil {
				return err
			}

			scfg := cc.Config.Solvers
			gsat := solver.NewGSAT(scfg.GSAT.Path, 100)
			gsat.Probability = scfg.GSAT.Probability
			gsat.Seed = scfg.GSAT.Seed

			m := health.NewManager().WithTimeout(timeout)
			m.AddChecker(health.NewSolverChecker(gsat, nil))
			m.AddChecker(health.NewSolverChecker(solver.NewProbSAT(scfg.ProbSAT.Path, scfg.ProbSAT.Args...), nil))
			m.AddChecker(health.NewDirChecker(dir))

			results := m.Check(cmd.Context())
			rep := &doctorReport{Status: health.Overall(results), Checks: results}

			if format == "" || format == "text" {
				t := &ux.Table{Title: "slsbench doctor", Styles: cc.Styles}
				for _, r := range results {
					t.Add(r.Name, fmt.Sprintf("%s  %s", statusStyle(cc.Styles, r.Status), r.Message))
				}
				t.Add("overall", statusStyle(cc.Styles, rep.Status))
				err = formatter.Format(t)
			} else {
				err = formatter.Format(rep)
			}
			if err != nil {
				return err
			}

			if rep.Status == health.StatusUnhealthy {
				return errors.New(errors.ErrCodeSolverNotFound, "environment check failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, yaml")
	cmd.Flags().StringVar(&dir, "log-dir", ".", "directory the logs will be written to")
	cmd.Flags().DurationVar(&timeout, "timeout", health.DefaultTimeout, "time limit per check")
	return cmd
}

func statusStyle(st *ux.Styles, s health.Status) string {
	switch s {
	case health.StatusHealthy:
		return st.Success.Render(s.String())
	case health.StatusDegraded:
		return st.Warning.Render(s.String())
	default:
		return st.Error.Render(s.String())
	}
}
