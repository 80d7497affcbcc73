package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manybody/secondq/config"
	"github.com/manybody/secondq/errors"
)

// NormalCmd represents the normal (Wick expansion) command
var NormalCmd = &cobra.Command{
	Use:   "normal <expression>",
	Short: "Normal-order an expression over the Fermi vacuum",
	Long: `Normal-order every term of an expression with the generalized Wick theorem.

Each annihilator-before-creator inversion branches into a transposed term
and a contracted term, with fermionic sign bookkeeping. Terms violating the
exclusion principle vanish.

Examples:
  secondq normal "{ a-(o0) a+(o1) }"
  secondq normal "f^{g0}_{g1} { a+(g0) a-(g1) }" --same-index-only
  secondq normal "{ a-(o0) a+(o1) }" --latex`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNormal,
}

var (
	normalSameIndexOnly bool
	normalWorkers       int
	normalLatex         bool
)

func init() {
	NormalCmd.Flags().BoolVar(&normalSameIndexOnly, "same-index-only", false, "Contract only operators carrying the same index")
	NormalCmd.Flags().IntVar(&normalWorkers, "workers", 0, "Expand terms in parallel with this many workers (0 uses the configured default)")
	NormalCmd.Flags().BoolVar(&normalLatex, "latex", false, "Render the result as LaTeX")
}

func runNormal(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	eng, err := engineFromConfig(cfg, normalSameIndexOnly)
	if err != nil {
		return err
	}

	expr, err := parseOrReport(eng, strings.Join(args, "\n"))
	if err != nil {
		return err
	}

	workers := normalWorkers
	if workers == 0 {
		workers = cfg.Engine.Workers
	}

	var ordered = expr
	if workers > 1 {
		ordered, err = eng.ParallelVacuumNormalOrder(context.Background(), expr, workers)
	} else {
		ordered, err = eng.VacuumNormalOrder(expr)
	}
	if err != nil {
		return errors.Wrap(err, "normal order")
	}

	if normalLatex {
		fmt.Println(eng.Latex(ordered, " \\\\\n"))
		return nil
	}
	printExpression(ordered)
	return nil
}
