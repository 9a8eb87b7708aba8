// Package nulldot turns text into a string of two glyph symbols and back.
//
// Every non-space character is XORed with a byte of a keyed sequence,
// scrambled by the ops of a Variant and written as a fixed width code of
// zero and one glyphs followed by the char delimiter. A space becomes the
// word delimiter. Decoding with the same key and configuration restores the
// text; decoding with another key yields garbage of the same length.
//
// This is obfuscation, not encryption.
package nulldot

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/jpicht/nulldot/lib/keystream"
)

const space = ' '

// Source produces the keyed byte sequence. Generate(key, n) must be a
// prefix of Generate(key, m) for n < m.
type Source interface {
	Generate(key string, n int) ([]byte, error)
}

// Codec encodes and decodes text. It is immutable and safe for
// concurrent use.
type Codec struct {
	symbols Symbols
	variant *Variant
	source  Source
}

// Option configures a Codec
type Option func(*Codec)

// WithSymbols replaces DefaultSymbols
func WithSymbols(s Symbols) Option {
	return func(c *Codec) { c.symbols = s }
}

// WithVariant replaces Classic7
func WithVariant(v *Variant) Option {
	return func(c *Codec) { c.variant = v }
}

// WithSource replaces the default SHA-512 keystream
func WithSource(s Source) Option {
	return func(c *Codec) { c.source = s }
}

// New creates a Codec. Without options it is configured like the first
// release except for the keystream.
func New(opts ...Option) (*Codec, error) {
	c := &Codec{
		symbols: DefaultSymbols,
		variant: Classic7,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.source == nil {
		c.source = keystream.New(keystream.SHA512)
	}

	if err := c.symbols.Validate(); err != nil {
		return nil, err
	}
	if err := c.variant.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Symbols returns the configured symbols
func (c *Codec) Symbols() Symbols {
	return c.symbols
}

// Variant returns the configured variant
func (c *Codec) Variant() *Variant {
	return c.variant
}

// Encode converts data to its canonical text and encodes it
func (c *Codec) Encode(data interface{}, key string) (string, error) {
	text, err := Stringify(data)
	if err != nil {
		return "", err
	}
	return c.EncodeString(text, key)
}

// EncodeString encodes text with key
func (c *Codec) EncodeString(text, key string) (string, error) {
	units := utf16.Encode([]rune(text))

	n := 0
	for _, u := range units {
		if u != space {
			n++
		}
	}

	seq, err := c.source.Generate(key, n)
	if err != nil {
		return "", err
	}

	var (
		b strings.Builder
		k int
	)
	for _, u := range units {
		if u == space {
			b.WriteString(c.symbols.WordDelimiter)
			continue
		}
		c.symbols.render(&b, c.variant.forward(uint32(u), seq[k]), c.variant.Width)
		b.WriteString(c.symbols.CharDelimiter)
		k++
	}
	return b.String(), nil
}

// Decode restores the text encoded with key
//
// Groups between word delimiters are joined by one space each, so runs of
// spaces come back intact.
func (c *Codec) Decode(encoded, key string) (string, error) {
	seq, err := c.source.Generate(key, strings.Count(encoded, c.symbols.CharDelimiter))
	if err != nil {
		return "", err
	}

	var (
		units []uint16
		k     int
	)
	for i, word := range strings.Split(encoded, c.symbols.WordDelimiter) {
		if i > 0 {
			units = append(units, space)
		}
		for _, code := range strings.Split(word, c.symbols.CharDelimiter) {
			if code == "" {
				continue
			}
			v, err := c.symbols.glyphs(code, c.variant.Width)
			if err != nil {
				return "", err
			}
			if k >= len(seq) {
				return "", fmt.Errorf("%w: code %q is not terminated", ERR_MALFORMED_INPUT, code)
			}
			units = append(units, uint16(c.variant.inverse(v, seq[k])))
			k++
		}
	}
	return string(utf16.Decode(units)), nil
}
