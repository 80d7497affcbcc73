package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manybody/secondq/config"
	"github.com/manybody/secondq/errors"
)

// BCHCmd represents the bch (commutator series) command
var BCHCmd = &cobra.Command{
	Use:   "bch <expression> <expression>",
	Short: "Expand a truncated BCH commutator series",
	Long: `Expand e^{-D} C e^{D} as the nested commutator series

  C + [C,D] + 1/2! [[C,D],D] + ... + 1/n! [..[C,D],..,D]

truncated at the given order. Each commutator is normal-ordered and
canonicalized, so the series terminates early when a nesting vanishes.

Examples:
  secondq bch "{ a+(o0) a-(o1) }" "{ a+(v0) a-(o2) }" --order 2`,
	Args: cobra.ExactArgs(2),
	RunE: runBCH,
}

var (
	bchOrder int
	bchLatex bool
)

func init() {
	BCHCmd.Flags().IntVar(&bchOrder, "order", 4, "Truncation order of the commutator series")
	BCHCmd.Flags().BoolVar(&bchLatex, "latex", false, "Render the result as LaTeX")
}

func runBCH(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	eng, err := engineFromConfig(cfg, false)
	if err != nil {
		return err
	}

	c, err := parseOrReport(eng, args[0])
	if err != nil {
		return err
	}
	d, err := parseOrReport(eng, args[1])
	if err != nil {
		return err
	}

	series, err := eng.BCHSeries(c, d, bchOrder)
	if err != nil {
		return errors.Wrap(err, "expand series")
	}

	if bchLatex {
		fmt.Println(eng.Latex(series, " \\\\\n"))
		return nil
	}
	printExpression(series)
	return nil
}
