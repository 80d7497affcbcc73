package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manybody/secondq/config"
	"github.com/manybody/secondq/errors"
)

// OpCmd represents the op (operator builder) command
var OpCmd = &cobra.Command{
	Use:   "op <name> <pattern>...",
	Short: "Build a second-quantized operator from index-space patterns",
	Long: `Build a tensor-weighted operator expression from index-space patterns.

A pattern is a space-separated list of space labels, each optionally
suffixed with + for creation. Creations receive fresh indices in pattern
order, annihilations in reverse order, so the tensor pairs its upper and
lower slots the conventional way.

Examples:
  secondq op T "v+ o"            # Singles cluster operator
  secondq op T "v+ v+ o o" --antisym
  secondq op F "o+ o" "o+ v" "v+ o" "v+ v"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runOp,
}

var (
	opAntisym bool
	opLatex   bool
)

func init() {
	OpCmd.Flags().BoolVar(&opAntisym, "antisym", false, "Declare the tensor antisymmetric")
	OpCmd.Flags().BoolVar(&opLatex, "latex", false, "Render the result as LaTeX")
}

func runOp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	eng, err := engineFromConfig(cfg, false)
	if err != nil {
		return err
	}

	expr, err := eng.BuildOperatorExpr(args[0], args[1:], opAntisym)
	if err != nil {
		return errors.Wrapf(err, "build operator %s", args[0])
	}

	if opLatex {
		fmt.Println(eng.Latex(expr, " \\\\\n"))
		return nil
	}
	printExpression(expr)
	return nil
}
