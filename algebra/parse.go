package algebra

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manybody/secondq/rational"
	"github.com/manybody/secondq/space"
)

// BuildExpression parses the textual grammar into an Expression:
//
//	expression    := term_line (newline sign? term_line)*
//	term_line     := sign? rational? tensor_factor* operator_block?
//	rational      := integer | integer "/" integer
//	tensor_factor := name "^{" index_list? "}" "_{" index_list? "}"
//	operator_block:= "{" op+ "}" | op+          braces mark normal order
//	op            := ("a+"|"a-") "(" index ")"
//	index         := label "_" ordinal | label ordinal
//
// Both index forms ("o_0" and "o0") are accepted. A braced block is
// verified to actually be normal-ordered. The empty string is the zero
// expression. Malformed input fails with a *ParseError carrying position,
// token, and suggestions.
func (e *Engine) BuildExpression(text string) (*Expression, error) {
	expr := NewExpression()
	if strings.TrimSpace(text) == "" {
		return expr, nil
	}
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		s := &lineScanner{engine: e, line: line, num: i + 1}
		term, err := s.parseTermLine()
		if err != nil {
			return nil, err
		}
		expr.AddTerm(term)
	}
	return expr, nil
}

// lineScanner is a single-pass cursor over one term line.
type lineScanner struct {
	engine *Engine
	line   string
	num    int
	pos    int
}

func (s *lineScanner) eof() bool { return s.pos >= len(s.line) }

func (s *lineScanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.line[s.pos]
}

func (s *lineScanner) skipSpaces() {
	for !s.eof() && (s.line[s.pos] == ' ' || s.line[s.pos] == '\t') {
		s.pos++
	}
}

// has reports whether the unread input starts with prefix.
func (s *lineScanner) has(prefix string) bool {
	return strings.HasPrefix(s.line[s.pos:], prefix)
}

// atOperator reports whether an operator glyph opens at the cursor.
func (s *lineScanner) atOperator() bool {
	return (s.has(GlyphCreation + "(")) || (s.has(GlyphAnnihilation + "("))
}

func (s *lineScanner) errorf(kind ErrorKind, format string, args ...interface{}) *ParseError {
	return NewParseError(kind, fmt.Sprintf(format, args...)).WithPosition(s.num, s.pos)
}

func (s *lineScanner) parseTermLine() (*Term, error) {
	s.skipSpaces()

	sign := rational.One()
	switch s.peek() {
	case '+':
		s.pos++
	case '-':
		sign = rational.MinusOne()
		s.pos++
	}
	s.skipSpaces()

	coeff := rational.One()
	if isDigit(s.peek()) {
		c, err := s.parseRational()
		if err != nil {
			return nil, err
		}
		coeff = c
	}

	term := NewTerm()
	braced := false
	opsStarted := false
	for {
		s.skipSpaces()
		if s.eof() {
			break
		}
		switch {
		case s.has(TokenBlockOpen):
			if err := s.parseBracedBlock(term); err != nil {
				return nil, err
			}
			braced = true
			s.skipSpaces()
			if !s.eof() {
				return nil, s.errorf(ErrorKindSyntax, "unexpected input after operator block").
					WithToken(s.line[s.pos:])
			}
		case s.atOperator():
			op, err := s.parseOperator()
			if err != nil {
				return nil, err
			}
			term.AddOperators(op)
			opsStarted = true
		default:
			if opsStarted {
				return nil, s.errorf(ErrorKindSyntax, "tensor factor cannot follow operators").
					WithToken(s.line[s.pos:]).
					WithSuggestion("write all tensor factors before the operator block")
			}
			tl, err := s.parseTensor()
			if err != nil {
				return nil, err
			}
			term.AddTensor(tl)
		}
		if braced {
			break
		}
	}

	term.SetCoefficient(sign.Mul(coeff))
	if braced {
		if err := term.SetNormalOrdered(true); err != nil {
			return nil, NewParseError(ErrorKindOrder,
				"braced operator block is not normal-ordered").
				WithPosition(s.num, 0).
				WithToken(term.renderOps(false)).
				WithSuggestion("remove the braces or reorder with creations first").
				WithUnderlying(err)
		}
	}
	return term, nil
}

func (s *lineScanner) parseRational() (rational.Rational, error) {
	start := s.pos
	for isDigit(s.peek()) {
		s.pos++
	}
	num, err := strconv.ParseInt(s.line[start:s.pos], 10, 64)
	if err != nil {
		return rational.Rational{}, s.errorf(ErrorKindSyntax, "malformed integer %q", s.line[start:s.pos]).
			WithToken(s.line[start:s.pos]).
			WithUnderlying(err)
	}
	den := int64(1)
	if s.peek() == '/' {
		s.pos++
		dstart := s.pos
		for isDigit(s.peek()) {
			s.pos++
		}
		if dstart == s.pos {
			return rational.Rational{}, s.errorf(ErrorKindSyntax, "missing denominator after '/'").
				WithSuggestion("write rationals as p/q, e.g. 1/2")
		}
		den, err = strconv.ParseInt(s.line[dstart:s.pos], 10, 64)
		if err != nil {
			return rational.Rational{}, s.errorf(ErrorKindSyntax, "malformed denominator %q", s.line[dstart:s.pos]).
				WithToken(s.line[dstart:s.pos]).
				WithUnderlying(err)
		}
	}
	c, err := rational.New(num, den)
	if err != nil {
		return rational.Rational{}, s.errorf(ErrorKindSyntax, "invalid coefficient %d/%d", num, den).
			WithUnderlying(err)
	}
	return c, nil
}

func (s *lineScanner) parseBracedBlock(term *Term) error {
	s.pos++ // consume "{"
	count := 0
	for {
		s.skipSpaces()
		if s.eof() {
			return s.errorf(ErrorKindSyntax, "unterminated operator block").
				WithSuggestion("close the block with '}'")
		}
		if s.has(TokenBlockClose) {
			s.pos++
			break
		}
		if !s.atOperator() {
			return s.errorf(ErrorKindSyntax, "expected operator inside block").
				WithToken(s.remainderToken()).
				WithSuggestion("blocks may only contain a+(...) and a-(...) operators")
		}
		op, err := s.parseOperator()
		if err != nil {
			return err
		}
		term.AddOperators(op)
		count++
	}
	if count == 0 {
		return s.errorf(ErrorKindSyntax, "empty operator block")
	}
	return nil
}

func (s *lineScanner) parseOperator() (Operator, error) {
	glyph := s.line[s.pos : s.pos+2]
	kind, ok := KindForGlyph(glyph)
	if !ok {
		return Operator{}, s.errorf(ErrorKindSyntax, "unknown operator glyph %q", glyph).WithToken(glyph)
	}
	s.pos += 2
	if s.peek() != '(' {
		return Operator{}, s.errorf(ErrorKindSyntax, "expected '(' after %s", glyph)
	}
	s.pos++
	start := s.pos
	for !s.eof() && s.peek() != ')' {
		s.pos++
	}
	if s.eof() {
		return Operator{}, s.errorf(ErrorKindSyntax, "unterminated operator index").
			WithSuggestion("close the operator with ')'")
	}
	spec := s.line[start:s.pos]
	s.pos++ // consume ")"
	ix, err := s.parseIndex(spec, start)
	if err != nil {
		return Operator{}, err
	}
	return NewOperator(kind, ix), nil
}

func (s *lineScanner) parseIndex(spec string, at int) (space.Index, error) {
	label, ordinal, err := space.ParseSpec(spec)
	if err != nil {
		return space.Index{}, NewParseError(ErrorKindIndex, fmt.Sprintf("malformed index %q", spec)).
			WithPosition(s.num, at).
			WithToken(spec).
			WithSuggestion("write indices as o_0 or o0").
			WithUnderlying(err)
	}
	ix, err := s.engine.registry.Index(label, ordinal)
	if err != nil {
		return space.Index{}, NewParseError(ErrorKindIndex, fmt.Sprintf("index %q references an unknown space", spec)).
			WithPosition(s.num, at).
			WithToken(spec).
			WithSuggestion("registered spaces: " + s.engine.spaceLabels()).
			WithUnderlying(err)
	}
	return ix, nil
}

func (s *lineScanner) parseTensor() (TensorLabel, error) {
	start := s.pos
	for !s.eof() && isNameByte(s.peek(), s.pos > start) {
		s.pos++
	}
	name := s.line[start:s.pos]
	if name == "" {
		return TensorLabel{}, s.errorf(ErrorKindSyntax, "expected tensor factor or operator").
			WithToken(s.remainderToken())
	}
	if !s.has(TokenUpperOpen) {
		return TensorLabel{}, s.errorf(ErrorKindSyntax, "tensor %q missing upper slots", name).
			WithToken(name).
			WithSuggestion("write tensors as name^{...}_{...}")
	}
	s.pos += len(TokenUpperOpen)
	upper, err := s.parseIndexList()
	if err != nil {
		return TensorLabel{}, err
	}
	if !s.has(TokenLowerOpen) {
		return TensorLabel{}, s.errorf(ErrorKindSyntax, "tensor %q missing lower slots", name).
			WithToken(name).
			WithSuggestion("write tensors as name^{...}_{...}")
	}
	s.pos += len(TokenLowerOpen)
	lower, err := s.parseIndexList()
	if err != nil {
		return TensorLabel{}, err
	}
	return NewTensorLabel(name, upper, lower), nil
}

// parseIndexList consumes a possibly empty comma-separated index list up to
// and including its closing brace.
func (s *lineScanner) parseIndexList() ([]space.Index, error) {
	var out []space.Index
	for {
		if s.has(TokenSlotClose) {
			s.pos++
			return out, nil
		}
		start := s.pos
		for !s.eof() && s.peek() != ',' && s.peek() != '}' {
			s.pos++
		}
		if s.eof() {
			return nil, s.errorf(ErrorKindSyntax, "unterminated slot group").
				WithSuggestion("close the slot group with '}'")
		}
		ix, err := s.parseIndex(s.line[start:s.pos], start)
		if err != nil {
			return nil, err
		}
		out = append(out, ix)
		if s.peek() == ',' {
			s.pos++
		}
	}
}

// remainderToken returns a short window of unread input for diagnostics.
func (s *lineScanner) remainderToken() string {
	rest := s.line[s.pos:]
	if len(rest) > 12 {
		rest = rest[:12]
	}
	return rest
}

// spaceLabels lists the registered space labels for error suggestions.
func (e *Engine) spaceLabels() string {
	spaces := e.registry.Spaces()
	labels := make([]string, 0, len(spaces))
	for _, sp := range spaces {
		labels = append(labels, sp.Label)
	}
	if len(labels) == 0 {
		return "(none)"
	}
	return strings.Join(labels, ", ")
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// isNameByte accepts tensor name characters: a leading letter, then
// letters and digits.
func isNameByte(b byte, interior bool) bool {
	if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') {
		return true
	}
	return interior && isDigit(b)
}
