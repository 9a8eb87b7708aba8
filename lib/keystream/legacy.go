package keystream

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

var (
	legacyA, _ = new(big.Int).SetString("636413622384679300563641362238467930056364136223846793005636413622384679300563641362238467930056364136223846793005636413622384679300563641362238467930056364136223846793005636413622384679300563641362238467930056364136223846793005", 10)
	legacyB, _ = new(big.Int).SetString("144269636413622384679300563641362238467930056364136223846793005636413622384679300550406364136223846793005636413622384679300563641362238467930056364136223846793005636413622384679300563641362238467930058889634076364136223846793005", 10)

	legacyModulus = big.NewInt(256)
)

// Legacy reproduces the sequence of the first nulldot release bit for bit.
// Encoded text produced by that release only decodes with this generator.
//
// Its state collapses to a single byte after the first step, so it is
// kept for compatibility only.
type Legacy struct{}

// Generate returns the first n bytes of the legacy sequence for key
func (Legacy) Generate(key string, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ERR_INVALID_LENGTH, n)
	}

	digest := sha512Hex(key)
	state, _ := new(big.Int).SetString(strings.Repeat(digest, 3), 16)
	mul, _ := new(big.Int).SetString(sha512Hex(digest), 16)

	seq := make([]byte, n)
	for i := range seq {
		state.Mul(state, mul)
		state.Add(state, legacyA)
		state.Add(state, legacyB)
		state.Mod(state, legacyModulus)

		out := new(big.Int).Rsh(state, 8)
		out.Xor(out, state)
		out.Mod(out, legacyModulus)
		seq[i] = byte(out.Uint64())
	}
	return seq, nil
}

func sha512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
