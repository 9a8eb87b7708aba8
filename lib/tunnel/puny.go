package tunnel

import "github.com/jpicht/nulldot/lib/nulldot"

// Symbols only uses Greek letters, so encoded text survives punycode and
// contains no dots.
var Symbols = nulldot.Symbols{
	Zero:          "ο",
	One:           "ι",
	CharDelimiter: "ν",
	WordDelimiter: "ω",
}

// NewCodec creates a codec using Symbols
func NewCodec(v *nulldot.Variant, opts ...nulldot.Option) (*nulldot.Codec, error) {
	return nulldot.New(append([]nulldot.Option{nulldot.WithSymbols(Symbols), nulldot.WithVariant(v)}, opts...)...)
}
