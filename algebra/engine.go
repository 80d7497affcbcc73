package algebra

import (
	"sync"

	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/logger"
	"github.com/manybody/secondq/space"
)

// Limits caps the combinatorial phases of the engine. Exceeding a cap fails
// with a resource-limit error instead of exhausting memory.
type Limits struct {
	// MaxWickTerms bounds the number of branches a single Wick expansion
	// may process, queued and emitted together.
	MaxWickTerms int
	// MaxCanonicalCandidates bounds the relabeling assignments enumerated
	// while canonicalizing one term.
	MaxCanonicalCandidates int
}

// DefaultLimits is generous for the short operator strings typical of
// many-body derivations while still catching runaway expansions.
var DefaultLimits = Limits{
	MaxWickTerms:           1 << 20,
	MaxCanonicalCandidates: 1 << 16,
}

// Engine bundles everything an algebraic operation needs: the space
// registry, the declared tensor symmetries, and resource limits. Engines
// carry no hidden globals, so independent engines can coexist.
type Engine struct {
	registry *space.Registry
	limits   Limits

	mu         sync.Mutex
	symmetries map[string]Symmetry

	// sameIndexOnly restricts Wick contractions to identical indices,
	// treating distinct indices as distinct spin orbitals.
	sameIndexOnly bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLimits replaces the default resource limits.
func WithLimits(l Limits) Option {
	return func(e *Engine) { e.limits = l }
}

// WithMaxWickTerms caps a single Wick expansion.
func WithMaxWickTerms(n int) Option {
	return func(e *Engine) { e.limits.MaxWickTerms = n }
}

// WithMaxCanonicalCandidates caps the canonical relabeling search.
func WithMaxCanonicalCandidates(n int) Option {
	return func(e *Engine) { e.limits.MaxCanonicalCandidates = n }
}

// WithSameIndexContractionsOnly restricts contractions to operator pairs on
// the very same index; pairs on distinct indices of one space contract to
// zero instead of a symbolic Kronecker factor.
func WithSameIndexContractionsOnly() Option {
	return func(e *Engine) { e.sameIndexOnly = true }
}

// NewEngine builds an engine over the given registry.
func NewEngine(reg *space.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry:   reg,
		limits:     DefaultLimits,
		symmetries: make(map[string]Symmetry),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's space registry.
func (e *Engine) Registry() *space.Registry { return e.registry }

// Limits returns the engine's resource limits.
func (e *Engine) Limits() Limits { return e.limits }

// DeclareTensorSymmetry records the permutation symmetry of a tensor name.
// Redeclaring a name with the same symmetry is a no-op; redeclaring it with
// a different one is a symmetry error, since both declarations cannot hold.
func (e *Engine) DeclareTensorSymmetry(name string, s Symmetry) error {
	if name == "" {
		return errors.Symmetryf("cannot declare symmetry for an empty tensor name")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if prev, ok := e.symmetries[name]; ok && prev != s {
		return errors.Symmetryf("tensor %q already declared %s, cannot redeclare %s", name, prev, s)
	}
	e.symmetries[name] = s
	logger.Debugw("tensor symmetry declared", logger.FieldTensor, name, "symmetry", s.String())
	return nil
}

// TensorSymmetry returns the declared symmetry of name, Nonsymmetric when
// undeclared.
func (e *Engine) TensorSymmetry(name string) Symmetry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.symmetries[name]
}

// Index validates (label, ordinal) against the registry and returns the
// epoch-tagged index.
func (e *Engine) Index(label string, ordinal int) (space.Index, error) {
	return e.registry.Index(label, ordinal)
}

// BuildOperator builds an operator of the given kind from an index spec in
// either grammar form ("o_0" or "o0").
func (e *Engine) BuildOperator(kind OperatorKind, spec string) (Operator, error) {
	label, ordinal, err := space.ParseSpec(spec)
	if err != nil {
		return Operator{}, errors.Mark(err, errors.ErrConfiguration)
	}
	ix, err := e.registry.Index(label, ordinal)
	if err != nil {
		return Operator{}, err
	}
	return NewOperator(kind, ix), nil
}

// Creation builds a creation operator from an index spec.
func (e *Engine) Creation(spec string) (Operator, error) {
	return e.BuildOperator(Creation, spec)
}

// Annihilation builds an annihilation operator from an index spec.
func (e *Engine) Annihilation(spec string) (Operator, error) {
	return e.BuildOperator(Annihilation, spec)
}

// validateTerm rejects terms holding indices from unknown spaces or an
// earlier registry epoch.
func (e *Engine) validateTerm(t *Term) error {
	for _, ix := range t.indices() {
		if err := e.registry.Validate(ix); err != nil {
			return err
		}
	}
	return nil
}

// validateExpression runs validateTerm over every term.
func (e *Engine) validateExpression(expr *Expression) error {
	for _, ent := range expr.Entries() {
		if err := e.validateTerm(ent.Term); err != nil {
			return err
		}
	}
	return nil
}

// fermionic reports whether an operator obeys Fermi statistics. Unknown
// spaces default to fermionic; validation catches them before this matters.
func (e *Engine) fermionic(op Operator) bool {
	s, ok := e.registry.Space(op.Index.Space)
	if !ok {
		return true
	}
	return s.Statistics == space.Fermion
}

// Reindex applies an index substitution to every operator and tensor slot
// of expr, returning a new expression. Every target index is validated
// against the registry first; on error the input is untouched.
func (e *Engine) Reindex(expr *Expression, subst map[space.Index]space.Index) (*Expression, error) {
	for from, to := range subst {
		if err := e.registry.Validate(to); err != nil {
			return nil, errors.Wrapf(err, "reindex %s -> %s", from, to)
		}
	}
	lookup := func(ix space.Index) space.Index {
		for from, to := range subst {
			if from.Equal(ix) {
				return to
			}
		}
		return ix
	}
	out := NewExpression()
	for _, ent := range expr.Entries() {
		out.AddTermScaled(substituteTerm(ent.Term, lookup), ent.Coefficient)
	}
	return out, nil
}

// substituteTerm rewrites every index occurrence through lookup.
func substituteTerm(t *Term, lookup func(space.Index) space.Index) *Term {
	out := t.Clone()
	for i := range out.ops {
		out.ops[i].Index = lookup(out.ops[i].Index)
	}
	for i := range out.tensors {
		for j := range out.tensors[i].Upper {
			out.tensors[i].Upper[j] = lookup(out.tensors[i].Upper[j])
		}
		for j := range out.tensors[i].Lower {
			out.tensors[i].Lower[j] = lookup(out.tensors[i].Lower[j])
		}
	}
	return out
}
