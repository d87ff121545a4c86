package expand

import (
	"errors"
	"fmt"
	"strings"
)

// Token prefixes understood by the engine. Both close with ')'.
const (
	MacroPrefix    = "$("
	MetadataPrefix = "%("
)

const closeMarker = ')'

// Resolver maps a token name to its replacement text. The returned value may
// itself contain tokens of the same prefix; the engine expands it fully before
// splicing. A resolver error aborts the whole expansion.
type Resolver func(name string) (string, error)

// ErrUnterminated reports a token that opens but never closes.
var ErrUnterminated = errors.New("unterminated substitution token")

// ErrOverlap reports a token that opens inside another token's name span
// without being fully contained in it. The contained form is legal and is
// resolved inner-first; the overlapping form can never find its close marker.
var ErrOverlap = errors.New("substitution token opened before enclosing token closed")

// Expand replaces every prefix-marked token in text using lookup and returns
// the fully expanded result. Text without any token is returned unchanged.
func Expand(text, prefix string, lookup Resolver) (string, error) {
	p := strings.Index(text, prefix)
	if p < 0 {
		return text, nil
	}

	value, rest, err := expandToken(text[p:], prefix, lookup, false)
	if err != nil {
		return "", err
	}

	// Spliced values are final; scanning resumes strictly after them.
	tail, err := Expand(rest, prefix, lookup)
	if err != nil {
		return "", err
	}
	return text[:p] + value + tail, nil
}

// expandToken consumes the token at the start of s (which must begin with
// prefix) and returns its fully expanded replacement together with the
// untouched remainder of s. respliced marks a retry after a contained token
// was resolved in place, which turns a missing close marker into ErrOverlap.
func expandToken(s, prefix string, lookup Resolver, respliced bool) (string, string, error) {
	body := s[len(prefix):]
	c := strings.IndexByte(body, closeMarker)
	n := strings.Index(body, prefix)

	if c < 0 {
		if respliced {
			return "", "", fmt.Errorf("%w: %q", ErrOverlap, truncate(s))
		}
		return "", "", fmt.Errorf("%w: %q", ErrUnterminated, truncate(s))
	}

	if n >= 0 && n < c {
		// Another token opens inside this one's name span. Resolve the
		// contained token first, splice it into the name, and re-read the
		// outer token. Anything that is not fully contained fails to close
		// on the retry.
		inner := len(prefix) + n
		value, rest, err := expandToken(s[inner:], prefix, lookup, false)
		if err != nil {
			return "", "", err
		}
		return expandToken(s[:inner]+value+rest, prefix, lookup, true)
	}

	name := body[:c]
	value, err := lookup(name)
	if err != nil {
		return "", "", err
	}

	// The resolver's value may reference further names; it is expanded fully
	// before substitution, never after.
	value, err = Expand(value, prefix, lookup)
	if err != nil {
		return "", "", err
	}
	return value, s[len(prefix)+c+1:], nil
}

// truncate keeps error messages readable for pathological inputs.
func truncate(s string) string {
	const max = 40
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
