// Package algebra implements symbolic second quantization: indexed
// creation and annihilation operators over fermionic and bosonic spaces,
// mergeable expressions of tensor-weighted operator products, Wick normal
// ordering, canonicalization, and Baker-Campbell-Hausdorff expansion.
//
// Every operation runs against an explicit Engine carrying the space
// registry, the declared tensor symmetries, and resource limits. Nothing
// in this package touches process-global state, so independent engines
// can coexist in one process.
package algebra

// Glyph string constants for the rendered operator grammar. These are the
// stable text forms shared by String renderings, the expression parser,
// and the LaTeX exporter.
const (
	GlyphCreation     = "a+" // creation operator
	GlyphAnnihilation = "a-" // annihilation operator
)

// Structural tokens of the rendered grammar.
const (
	TokenBlockOpen = "{" // opens a normal-ordered operator block
	TokenBlockClose = "}" // closes a normal-ordered operator block
	TokenUpperOpen = "^{" // opens a tensor upper slot group
	TokenLowerOpen = "_{" // opens a tensor lower slot group
	TokenSlotClose = "}"  // closes a slot group
	TokenSlotSep   = ","  // separates indices inside a slot group
)

// KroneckerName is the tensor name minted for the symbolic contraction
// factor between distinct indices of overlapping spaces.
const KroneckerName = "delta"

// LaTeX forms of the operator glyphs.
const (
	latexCreation     = `\hat{a}^\dagger`
	latexAnnihilation = `\hat{a}`
)

// Lookup tables between operator kinds and their glyphs.
var (
	kindToGlyph map[OperatorKind]string
	glyphToKind map[string]OperatorKind
)

func init() {
	kindToGlyph = map[OperatorKind]string{
		Creation:     GlyphCreation,
		Annihilation: GlyphAnnihilation,
	}
	glyphToKind = make(map[string]OperatorKind, len(kindToGlyph))
	for k, g := range kindToGlyph {
		glyphToKind[g] = k
	}
}

// KindForGlyph resolves a grammar glyph back to its operator kind.
func KindForGlyph(glyph string) (OperatorKind, bool) {
	k, ok := glyphToKind[glyph]
	return k, ok
}
