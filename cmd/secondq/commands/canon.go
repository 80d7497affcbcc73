package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manybody/secondq/algebra"
	"github.com/manybody/secondq/config"
	"github.com/manybody/secondq/errors"
)

// CanonCmd represents the canon (canonicalization) command
var CanonCmd = &cobra.Command{
	Use:   "canon <expression>",
	Short: "Reduce an expression to canonical form",
	Long: `Reduce every term to its canonical representative: dummy indices are
relabeled to the lexicographically minimal assignment, operator blocks are
sorted, and tensor slots honor declared symmetries.

Terms that differ only by dummy relabeling merge; antisymmetric tensors
with repeated slots vanish.

Examples:
  secondq canon "C^{o1}_{o0} { a+(o0) a-(o1) }"
  secondq canon "T^{v0,v1}_{o0,o1} { a+(v0) }" --antisym T`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCanon,
}

var (
	canonAntisym []string
	canonSym     []string
	canonLatex   bool
)

func init() {
	CanonCmd.Flags().StringSliceVar(&canonAntisym, "antisym", nil, "Declare tensor names as antisymmetric")
	CanonCmd.Flags().StringSliceVar(&canonSym, "sym", nil, "Declare tensor names as symmetric")
	CanonCmd.Flags().BoolVar(&canonLatex, "latex", false, "Render the result as LaTeX")
}

func runCanon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	eng, err := engineFromConfig(cfg, false)
	if err != nil {
		return err
	}
	for _, name := range canonAntisym {
		if err := eng.DeclareTensorSymmetry(name, algebra.Antisymmetric); err != nil {
			return err
		}
	}
	for _, name := range canonSym {
		if err := eng.DeclareTensorSymmetry(name, algebra.Symmetric); err != nil {
			return err
		}
	}

	expr, err := parseOrReport(eng, strings.Join(args, "\n"))
	if err != nil {
		return err
	}

	canon, err := eng.Canonicalize(expr)
	if err != nil {
		return errors.Wrap(err, "canonicalize")
	}

	if canonLatex {
		fmt.Println(eng.Latex(canon, " \\\\\n"))
		return nil
	}
	printExpression(canon)
	return nil
}
