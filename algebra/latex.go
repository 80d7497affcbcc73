package algebra

import (
	"strconv"
	"strings"

	"github.com/manybody/secondq/rational"
	"github.com/manybody/secondq/space"
)

// Latex renders the expression for typesetting, one term per line joined by
// sep. Indices render with their space's stems (o0 over stems i,j becomes
// i; o2 wraps to i_{1}), operators as \hat{a}^\dagger and \hat{a}, and
// normal-ordered blocks as braced groups.
func (e *Engine) Latex(expr *Expression, sep string) string {
	var lines []string
	for _, ent := range expr.Entries() {
		line := e.LatexTerm(ent.Term.Clone().SetCoefficient(ent.Coefficient))
		if len(lines) > 0 && !strings.HasPrefix(line, "-") {
			line = "+" + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, sep)
}

// LatexTerm renders one term, coefficient included.
func (e *Engine) LatexTerm(t *Term) string {
	var parts []string
	for _, tl := range t.Tensors() {
		parts = append(parts, e.latexTensor(tl))
	}
	if t.NumOperators() > 0 {
		var ops []string
		for _, op := range t.Operators() {
			ops = append(ops, e.latexOperator(op))
		}
		body := strings.Join(ops, " ")
		if t.IsNormalOrdered() {
			body = `\{ ` + body + ` \}`
		}
		parts = append(parts, body)
	}
	body := strings.Join(parts, " ")

	c := t.Coefficient()
	switch {
	case body == "":
		return latexRational(c)
	case c.IsOne():
		return body
	case c.IsMinusOne():
		return "-" + body
	default:
		return latexRational(c) + " " + body
	}
}

func latexRational(c rational.Rational) string {
	if c.IsInt() {
		return c.String()
	}
	num, den := c.Num(), c.Denom()
	prefix := ""
	if num.Sign() < 0 {
		prefix = "-"
		num = num.Neg(num)
	}
	return prefix + `\frac{` + num.String() + `}{` + den.String() + `}`
}

func (e *Engine) latexOperator(op Operator) string {
	ix := e.latexIndex(op.Index)
	if op.IsCreation() {
		return latexCreation + "_{" + ix + "}"
	}
	return latexAnnihilation + "_{" + ix + "}"
}

func (e *Engine) latexTensor(tl TensorLabel) string {
	render := func(ixs []space.Index) string {
		var names []string
		for _, ix := range ixs {
			names = append(names, e.latexIndex(ix))
		}
		return strings.Join(names, " ")
	}
	return tl.Name + "^{" + render(tl.Upper) + "}_{" + render(tl.Lower) + "}"
}

// latexIndex maps an index onto its space's stem names, wrapping past the
// stem list with a numeric subscript.
func (e *Engine) latexIndex(ix space.Index) string {
	sp, ok := e.registry.Space(ix.Space)
	if !ok || len(sp.Stems) == 0 {
		return ix.String()
	}
	stem := sp.Stems[ix.Ordinal%len(sp.Stems)]
	if wrap := ix.Ordinal / len(sp.Stems); wrap > 0 {
		return stem + "_{" + strconv.Itoa(wrap) + "}"
	}
	return stem
}
