package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/manybody/secondq/algebra"
	"github.com/manybody/secondq/config"
	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/logger"
	"github.com/manybody/secondq/store"
)

// DeriveCmd represents the derive (model file) command
var DeriveCmd = &cobra.Command{
	Use:   "derive <model.toml>",
	Short: "Run a derivation described by a model file",
	Long: `Run the derivation described by a TOML model file: the file declares the
index spaces, the named operators, and one derivation (normal ordering,
canonicalization, or a truncated BCH series).

With --watch the command stays alive and reruns the derivation whenever
the model file changes. With --save the result is archived.

Examples:
  secondq derive ccsd.toml
  secondq derive ccsd.toml --save
  secondq derive ccsd.toml --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runDerive,
}

var (
	deriveWatch bool
	deriveSave  bool
	deriveLatex bool
)

func init() {
	DeriveCmd.Flags().BoolVar(&deriveWatch, "watch", false, "Rerun the derivation when the model file changes")
	DeriveCmd.Flags().BoolVar(&deriveSave, "save", false, "Archive the derivation result")
	DeriveCmd.Flags().BoolVar(&deriveLatex, "latex", false, "Render the result as LaTeX")
}

func runDerive(cmd *cobra.Command, args []string) error {
	path := args[0]

	if err := deriveOnce(path); err != nil {
		if !deriveWatch {
			return err
		}
		// In watch mode a broken model is not fatal, the next edit
		// gets another chance.
		pterm.Warning.Printf("Derivation failed: %v\n", err)
	}

	if !deriveWatch {
		return nil
	}

	watcher, err := config.NewWatcher(path)
	if err != nil {
		return errors.Wrap(err, "watch model file")
	}
	defer watcher.Stop()

	watcher.OnReload(func(_ *config.Config) error {
		if err := deriveOnce(path); err != nil {
			pterm.Warning.Printf("Derivation failed: %v\n", err)
		}
		return nil
	})
	watcher.Start()
	pterm.Info.Printf("Watching %s (ctrl-c to stop)\n", path)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	return nil
}

// deriveOnce loads the model and runs its derivation end to end.
func deriveOnce(path string) error {
	m, err := config.LoadModel(path)
	if err != nil {
		return err
	}

	reg, err := config.BuildRegistry(m.Spaces)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	var opts []algebra.Option
	if cfg.Engine.MaxWickTerms > 0 {
		opts = append(opts, algebra.WithMaxWickTerms(cfg.Engine.MaxWickTerms))
	}
	if cfg.Engine.MaxCanonicalCandidates > 0 {
		opts = append(opts, algebra.WithMaxCanonicalCandidates(cfg.Engine.MaxCanonicalCandidates))
	}
	if m.Derivation.SameIndexOnly {
		opts = append(opts, algebra.WithSameIndexContractionsOnly())
	}
	eng := algebra.NewEngine(reg, opts...)

	operators := make(map[string]*algebra.Expression, len(m.Operators))
	for _, def := range m.Operators {
		expr, err := eng.BuildOperatorExpr(def.Name, def.Patterns, def.Antisymmetric)
		if err != nil {
			return errors.Wrapf(err, "build operator %s", def.Name)
		}
		operators[def.Name] = expr
	}

	var (
		input  string
		result *algebra.Expression
	)
	switch m.Derivation.Kind {
	case config.DeriveNormal:
		expr, err := parseOrReport(eng, m.Derivation.Expression)
		if err != nil {
			return err
		}
		input = expr.String()
		result, err = eng.VacuumNormalOrder(expr)
		if err != nil {
			return errors.Wrap(err, "normal order")
		}
	case config.DeriveCanonicalize:
		expr, err := parseOrReport(eng, m.Derivation.Expression)
		if err != nil {
			return err
		}
		input = expr.String()
		result, err = eng.Canonicalize(expr)
		if err != nil {
			return errors.Wrap(err, "canonicalize")
		}
	case config.DeriveBCH:
		left := operators[m.Derivation.Left]
		right := operators[m.Derivation.Right]
		input = left.String() + "\n" + right.String()
		result, err = eng.BCHSeries(left, right, m.Derivation.Order)
		if err != nil {
			return errors.Wrap(err, "expand series")
		}
	default:
		return errors.Configurationf("unknown derivation kind %q", m.Derivation.Kind)
	}

	logger.Infow("derivation complete",
		"model", m.Name,
		"kind", string(m.Derivation.Kind),
		"terms", result.Size(),
	)

	if deriveLatex {
		fmt.Println(eng.Latex(result, " \\\\\n"))
	} else {
		printExpression(result)
	}

	if deriveSave {
		return saveDerivation(cfg, m, input, result)
	}
	return nil
}

func saveDerivation(cfg *config.Config, m *config.Model, input string, result *algebra.Expression) error {
	db, err := store.OpenWithMigrations(cfg.Archive.Path, logger.Logger)
	if err != nil {
		return errors.Wrap(err, "open archive")
	}
	defer db.Close()

	saved, err := store.NewDerivationStore(db).Save(context.Background(), &store.Derivation{
		Name:      m.Name,
		Kind:      string(m.Derivation.Kind),
		Input:     input,
		Result:    result.String(),
		TermCount: result.Size(),
		Order:     m.Derivation.Order,
	})
	if err != nil {
		return err
	}
	pterm.Success.Printf("Archived derivation %s (%s)\n", saved.Name, saved.ID)
	return nil
}
