package commands

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/manybody/secondq/algebra"
	"github.com/manybody/secondq/config"
	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/space"
)

// defaultSpaces is the particle-hole split used when no spaces are
// configured: occupied holes, unoccupied particles, and a general space
// spanning both.
func defaultSpaces() []config.SpaceConfig {
	return []config.SpaceConfig{
		{Label: "o", Statistics: "fermion", Occupation: "occupied", Stems: []string{"i", "j", "k", "l"}},
		{Label: "v", Statistics: "fermion", Occupation: "unoccupied", Stems: []string{"a", "b", "c", "d"}},
		{Label: "g", Statistics: "fermion", Occupation: "general", Stems: []string{"p", "q", "r", "s"}, Elementary: []string{"o", "v"}},
	}
}

// registryFromConfig builds the index-space registry from cfg, falling
// back to the default particle-hole spaces when none are configured.
func registryFromConfig(cfg *config.Config) (*space.Registry, error) {
	spaces := cfg.Spaces
	if len(spaces) == 0 {
		spaces = defaultSpaces()
	}
	return config.BuildRegistry(spaces)
}

// engineFromConfig builds an algebra engine from the loaded configuration.
func engineFromConfig(cfg *config.Config, sameIndexOnly bool) (*algebra.Engine, error) {
	reg, err := registryFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	var opts []algebra.Option
	if cfg.Engine.MaxWickTerms > 0 {
		opts = append(opts, algebra.WithMaxWickTerms(cfg.Engine.MaxWickTerms))
	}
	if cfg.Engine.MaxCanonicalCandidates > 0 {
		opts = append(opts, algebra.WithMaxCanonicalCandidates(cfg.Engine.MaxCanonicalCandidates))
	}
	if sameIndexOnly {
		opts = append(opts, algebra.WithSameIndexContractionsOnly())
	}
	return algebra.NewEngine(reg, opts...), nil
}

// parseOrReport parses text into an expression, printing structured parse
// diagnostics to stderr before returning the error.
func parseOrReport(eng *algebra.Engine, text string) (*algebra.Expression, error) {
	expr, err := eng.BuildExpression(text)
	if err != nil {
		var perr *algebra.ParseError
		if errors.As(err, &perr) {
			fmt.Fprintln(os.Stderr, perr.FormatError(errorContext()))
			return nil, errors.Wrap(err, "parse expression")
		}
		return nil, err
	}
	return expr, nil
}

// errorContext picks colored or plain diagnostics depending on whether
// stderr is a terminal.
func errorContext() algebra.ErrorContext {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return algebra.ErrorContextTerminal
	}
	return algebra.ErrorContextPlain
}

// printExpression renders expr, using "0" for the empty expression so
// vanished results are visible on the command line.
func printExpression(expr *algebra.Expression) {
	s := expr.String()
	if s == "" {
		s = "0"
	}
	fmt.Println(s)
}
