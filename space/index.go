package space

import (
	"strconv"

	"github.com/manybody/secondq/errors"
)

// Index is a labeled slot within a space: (space label, ordinal). Two
// indices are equal iff label and ordinal match; the Epoch records which
// registry generation minted the index so use-after-reset is detectable
// rather than silently wrong.
type Index struct {
	Space   string
	Ordinal int
	Epoch   uint64
}

// Equal reports whether ix and other name the same slot. Epoch is not part
// of identity.
func (ix Index) Equal(other Index) bool {
	return ix.Space == other.Space && ix.Ordinal == other.Ordinal
}

// Less orders indices by (space label, ordinal).
func (ix Index) Less(other Index) bool {
	if ix.Space != other.Space {
		return ix.Space < other.Space
	}
	return ix.Ordinal < other.Ordinal
}

// String renders the condensed form used by canonical printing: "o0".
func (ix Index) String() string {
	return ix.Space + strconv.Itoa(ix.Ordinal)
}

// ParseSpec splits an index spec into label and ordinal. Both the input
// form "o_0" and the condensed form "o0" are accepted. The error carries no
// kind; callers mark it as a parse or configuration failure as appropriate.
func ParseSpec(spec string) (label string, ordinal int, err error) {
	if len(spec) < 2 {
		return "", 0, errors.Newf("index %q too short (want label followed by ordinal)", spec)
	}
	c := spec[0]
	if c < 'a' || c > 'z' {
		return "", 0, errors.Newf("index %q must start with a lowercase space label", spec)
	}
	digits := spec[1:]
	if digits[0] == '_' {
		digits = digits[1:]
	}
	if digits == "" {
		return "", 0, errors.Newf("index %q has no ordinal", spec)
	}
	n, convErr := strconv.Atoi(digits)
	if convErr != nil || n < 0 {
		return "", 0, errors.Newf("index %q has malformed ordinal %q", spec, digits)
	}
	return string(c), n, nil
}
