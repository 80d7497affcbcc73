package algebra

import (
	"sort"

	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/rational"
	"github.com/manybody/secondq/space"
)

// CanonicalizeTerm reduces t to the lexicographically minimal representative
// among all rewrites permitted by declared symmetry, folding the relating
// sign into the coefficient:
//
//  1. dummy indices (those occurring at least twice in the term) are
//     relabeled over their per-space ordinal sets;
//  2. a normal-ordered operator block is sorted with creations ascending and
//     annihilations descending, each fermionic transposition flipping sign;
//  3. slots of tensors declared symmetric or antisymmetric are sorted, the
//     antisymmetric case flipping sign per transposition and vanishing on a
//     repeated index inside one slot group;
//  4. tensor factors are ordered by their rendered form.
//
// Unbraced operator products keep their operator order: reordering them
// would change their value. The search is bounded by the engine's
// MaxCanonicalCandidates cap. A vanished term returns with coefficient
// zero. CanonicalizeTerm is idempotent and never mutates t.
func (e *Engine) CanonicalizeTerm(t *Term) (*Term, error) {
	if err := e.validateTerm(t); err != nil {
		return nil, err
	}
	if t.Coefficient().IsZero() {
		return t.Clone(), nil
	}

	assignments, err := e.dummyAssignments(t)
	if err != nil {
		return nil, err
	}

	var best *Term
	var bestKey string
	for _, lookup := range assignments {
		candidate := substituteTerm(t, lookup)
		candidate, vanished, err := e.normalizeCandidate(candidate)
		if err != nil {
			return nil, err
		}
		if vanished {
			out := t.Clone()
			out.SetCoefficient(rational.Zero())
			return out, nil
		}
		key := candidate.Key()
		if best == nil || key < bestKey {
			best, bestKey = candidate, key
		}
	}
	return best, nil
}

// normalizeCandidate applies the sign-tracked deterministic rewrites (steps
// 2-4 above) to one relabeling candidate, mutating it in place.
func (e *Engine) normalizeCandidate(t *Term) (*Term, bool, error) {
	sign := 1
	if t.normalOrdered {
		split := 0
		for split < len(t.ops) && t.ops[split].IsCreation() {
			split++
		}
		sign *= e.sortBlock(t.ops[:split], func(a, b Operator) bool { return a.less(b) })
		sign *= e.sortBlock(t.ops[split:], func(a, b Operator) bool { return b.less(a) })
	}
	for i := range t.tensors {
		sym := e.TensorSymmetry(t.tensors[i].Name)
		if sym == Nonsymmetric {
			continue
		}
		for _, slots := range [][]space.Index{t.tensors[i].Upper, t.tensors[i].Lower} {
			swaps := sortIndices(slots)
			if sym == Antisymmetric {
				if hasDuplicateIndex(slots) {
					return nil, true, nil
				}
				if swaps%2 == 1 {
					sign = -sign
				}
			}
		}
	}
	sort.Slice(t.tensors, func(i, j int) bool {
		return t.tensors[i].String() < t.tensors[j].String()
	})
	if sign < 0 {
		t.coeff = t.coeff.Neg()
	}
	return t, false, nil
}

// sortBlock insertion-sorts one same-kind operator block, returning +1 or
// -1 for the accumulated fermionic transposition parity.
func (e *Engine) sortBlock(ops []Operator, less func(a, b Operator) bool) int {
	sign := 1
	for i := 1; i < len(ops); i++ {
		for j := i; j > 0 && less(ops[j], ops[j-1]); j-- {
			if e.fermionic(ops[j]) && e.fermionic(ops[j-1]) {
				sign = -sign
			}
			ops[j], ops[j-1] = ops[j-1], ops[j]
		}
	}
	return sign
}

// sortIndices insertion-sorts a slot group ascending, returning the number
// of transpositions performed.
func sortIndices(ixs []space.Index) int {
	swaps := 0
	for i := 1; i < len(ixs); i++ {
		for j := i; j > 0 && ixs[j].Less(ixs[j-1]); j-- {
			ixs[j], ixs[j-1] = ixs[j-1], ixs[j]
			swaps++
		}
	}
	return swaps
}

func hasDuplicateIndex(ixs []space.Index) bool {
	for i := 0; i < len(ixs); i++ {
		for j := i + 1; j < len(ixs); j++ {
			if ixs[i].Equal(ixs[j]) {
				return true
			}
		}
	}
	return false
}

// dummyAssignments enumerates every relabeling of the term's dummy indices:
// per space, the dummies permute over their own ordinal set, so free
// indices are never renamed and collisions cannot arise. The identity
// assignment is always first.
func (e *Engine) dummyAssignments(t *Term) ([]func(space.Index) space.Index, error) {
	counts := make(map[space.Index]int)
	for _, ix := range t.indices() {
		counts[ix]++
	}
	perSpace := make(map[string][]int)
	for ix, n := range counts {
		if n >= 2 {
			perSpace[ix.Space] = append(perSpace[ix.Space], ix.Ordinal)
		}
	}
	labels := make([]string, 0, len(perSpace))
	for label := range perSpace {
		sort.Ints(perSpace[label])
		labels = append(labels, label)
	}
	sort.Strings(labels)

	total := 1
	for _, label := range labels {
		n := len(perSpace[label])
		for k := 2; k <= n; k++ {
			total *= k
			if total > e.limits.MaxCanonicalCandidates {
				return nil, errors.ResourceLimitf(
					"canonicalization of %q exceeds %d relabeling candidates",
					t.Key(), e.limits.MaxCanonicalCandidates)
			}
		}
	}

	assignments := []map[space.Index]space.Index{{}}
	for _, label := range labels {
		ordinals := perSpace[label]
		perms := permutations(ordinals)
		next := make([]map[space.Index]space.Index, 0, len(assignments)*len(perms))
		for _, base := range assignments {
			for _, perm := range perms {
				m := make(map[space.Index]space.Index, len(base)+len(ordinals))
				for k, v := range base {
					m[k] = v
				}
				for i, o := range ordinals {
					from := space.Index{Space: label, Ordinal: o}
					m[from] = space.Index{Space: label, Ordinal: perm[i], Epoch: e.registry.Epoch()}
				}
				next = append(next, m)
			}
		}
		assignments = next
	}

	out := make([]func(space.Index) space.Index, 0, len(assignments))
	for _, m := range assignments {
		m := m
		out = append(out, func(ix space.Index) space.Index {
			if to, ok := m[space.Index{Space: ix.Space, Ordinal: ix.Ordinal}]; ok {
				return to
			}
			return ix
		})
	}
	return out, nil
}

// permutations returns all orderings of vals, identity first.
func permutations(vals []int) [][]int {
	if len(vals) <= 1 {
		return [][]int{append([]int(nil), vals...)}
	}
	var out [][]int
	for i := range vals {
		rest := make([]int, 0, len(vals)-1)
		rest = append(rest, vals[:i]...)
		rest = append(rest, vals[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]int{vals[i]}, p...))
		}
	}
	return out
}

// Canonicalize rebuilds expr with every term in canonical form, merging
// terms whose canonical keys coincide. The receiver is untouched; on error
// nothing partial is returned. Canonicalize is idempotent.
func (e *Engine) Canonicalize(expr *Expression) (*Expression, error) {
	out := NewExpression()
	for _, ent := range expr.Entries() {
		canon, err := e.CanonicalizeTerm(ent.Term)
		if err != nil {
			return nil, err
		}
		out.AddTermScaled(canon, ent.Coefficient)
	}
	return out, nil
}
