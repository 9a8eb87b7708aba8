package nulldot

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ERR_INVALID_CONFIGURATION = errors.New("Invalid configuration")
	ERR_MALFORMED_INPUT       = errors.New("Malformed input")
	ERR_INVALID_VARIANT       = errors.New("Invalid variant")
)

// Symbols is the alphabet of the encoded text
type Symbols struct {
	Zero          string
	One           string
	CharDelimiter string
	WordDelimiter string
}

// DefaultSymbols are the symbols of the first release
var DefaultSymbols = Symbols{
	Zero:          ",",
	One:           ".",
	CharDelimiter: "_",
	WordDelimiter: "__",
}

// Validate checks that every symbol is set, that all four differ and that
// encoded text can be split back unambiguously: glyphs share no character
// with a delimiter and do not prefix each other.
func (s Symbols) Validate() error {
	named := []struct {
		name, value string
	}{
		{"zero", s.Zero},
		{"one", s.One},
		{"char delimiter", s.CharDelimiter},
		{"word delimiter", s.WordDelimiter},
	}

	for i, a := range named {
		if a.value == "" {
			return fmt.Errorf("%w: %s symbol is empty", ERR_INVALID_CONFIGURATION, a.name)
		}
		for _, b := range named[i+1:] {
			if a.value == b.value {
				return fmt.Errorf("%w: %s and %s symbol are both %q", ERR_INVALID_CONFIGURATION, a.name, b.name, a.value)
			}
		}
	}

	for _, glyph := range named[:2] {
		for _, delim := range named[2:] {
			if strings.ContainsAny(glyph.value, delim.value) {
				return fmt.Errorf("%w: %s symbol %q shares characters with the %s %q", ERR_INVALID_CONFIGURATION, glyph.name, glyph.value, delim.name, delim.value)
			}
		}
	}

	if strings.HasPrefix(s.Zero, s.One) || strings.HasPrefix(s.One, s.Zero) {
		return fmt.Errorf("%w: %q and %q are ambiguous", ERR_INVALID_CONFIGURATION, s.Zero, s.One)
	}

	if strings.Contains(s.CharDelimiter, s.WordDelimiter) {
		return fmt.Errorf("%w: char delimiter %q contains the word delimiter", ERR_INVALID_CONFIGURATION, s.CharDelimiter)
	}

	// a word delimiter is either disjoint from the char delimiter or a run
	// of it, otherwise a char delimiter followed by word delimiters splits
	// at the wrong place
	if strings.ContainsAny(s.WordDelimiter, s.CharDelimiter) &&
		strings.Repeat(s.CharDelimiter, len(s.WordDelimiter)/len(s.CharDelimiter)) != s.WordDelimiter {
		return fmt.Errorf("%w: word delimiter %q overlaps the char delimiter %q", ERR_INVALID_CONFIGURATION, s.WordDelimiter, s.CharDelimiter)
	}

	return nil
}

// glyphs parses one code into its bit value. Every glyph must be either
// the zero or the one symbol and there must be exactly width of them.
func (s Symbols) glyphs(code string, width uint) (uint32, error) {
	var (
		v    uint32
		bits uint
	)
	for len(code) > 0 {
		switch {
		case strings.HasPrefix(code, s.Zero):
			v <<= 1
			code = code[len(s.Zero):]
		case strings.HasPrefix(code, s.One):
			v = v<<1 | 1
			code = code[len(s.One):]
		default:
			return 0, fmt.Errorf("%w: unexpected symbol at %q", ERR_MALFORMED_INPUT, code)
		}
		bits++
		if bits > width {
			return 0, fmt.Errorf("%w: code longer than %d symbols", ERR_MALFORMED_INPUT, width)
		}
	}
	if bits != width {
		return 0, fmt.Errorf("%w: code has %d of %d symbols", ERR_MALFORMED_INPUT, bits, width)
	}
	return v, nil
}

// render writes the width lowest bits of v, most significant first
func (s Symbols) render(b *strings.Builder, v uint32, width uint) {
	for i := int(width) - 1; i >= 0; i-- {
		if v>>uint(i)&1 == 0 {
			b.WriteString(s.Zero)
		} else {
			b.WriteString(s.One)
		}
	}
}
