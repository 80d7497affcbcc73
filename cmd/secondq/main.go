package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/manybody/secondq/cmd/secondq/commands"
	"github.com/manybody/secondq/logger"
)

var rootCmd = &cobra.Command{
	Use:   "secondq",
	Short: "secondq - Symbolic second-quantization operator algebra",
	Long: `secondq - Symbolic algebra for second-quantized operator expressions.

secondq normal-orders operator products with the generalized Wick theorem,
reduces expressions to canonical form, and expands similarity-transformed
operators as truncated Baker-Campbell-Hausdorff series.

Available commands:
  normal  - Normal-order an expression over the Fermi vacuum
  canon   - Reduce an expression to canonical form
  bch     - Expand a truncated BCH commutator series
  op      - Build a second-quantized operator from index-space patterns
  derive  - Run a derivation described by a model file
  archive - Manage archived derivation results
  spaces  - Show configured index spaces
  config  - Manage configuration

Examples:
  secondq normal "{ a-(o0) a+(o1) }"     # Wick expansion
  secondq canon "C^{o1}_{o0} { a+(o0) a-(o1) }"
  secondq op T "v+ o" --antisym          # Cluster operator
  secondq derive ccsd.toml --save        # Derive and archive
  secondq archive list                   # List archived derivations`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(verbosity, jsonOutput); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")

	rootCmd.AddCommand(commands.NormalCmd)
	rootCmd.AddCommand(commands.CanonCmd)
	rootCmd.AddCommand(commands.BCHCmd)
	rootCmd.AddCommand(commands.OpCmd)
	rootCmd.AddCommand(commands.DeriveCmd)
	rootCmd.AddCommand(commands.ArchiveCmd)
	rootCmd.AddCommand(commands.SpacesCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
