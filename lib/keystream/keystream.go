// Package keystream derives deterministic byte sequences from a secret key.
//
// The state is a 512 bit integer seeded from a wide hash of the key and
// advanced by a fixed round function (rotations, half swap, prime XOR and
// a multiply-add lattice modulo a large prime) once per emitted byte.
// The output is reproducible, not secure.
package keystream

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/blake2b"
)

var (
	ERR_INVALID_LENGTH = errors.New("Invalid length")
	ERR_UNKNOWN_HASH   = errors.New("Unknown hash")
)

// Hasher maps a key to its digest. It must be a pure function.
type Hasher func(key string) []byte

// SHA512 is the default Hasher
func SHA512(key string) []byte {
	sum := sha512.Sum512([]byte(key))
	return sum[:]
}

// BLAKE2b is a Hasher using BLAKE2b-512
func BLAKE2b(key string) []byte {
	sum := blake2b.Sum512([]byte(key))
	return sum[:]
}

// HasherByName resolves "sha512" or "blake2b"
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", "sha512", "sha-512":
		return SHA512, nil
	case "blake2b", "blake2b-512":
		return BLAKE2b, nil
	}
	return nil, fmt.Errorf("%w: %q", ERR_UNKNOWN_HASH, name)
}

// Generator produces keyed byte sequences. It holds no per-key state and
// is safe for concurrent use.
type Generator struct {
	hash Hasher
}

// New creates a Generator; a nil Hasher selects SHA512
func New(h Hasher) *Generator {
	if h == nil {
		h = SHA512
	}
	return &Generator{hash: h}
}

// Generate returns the first n bytes of the sequence for key
func (g *Generator) Generate(key string, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ERR_INVALID_LENGTH, n)
	}
	seq := make([]byte, n)
	s := g.Stream(key)
	for i := range seq {
		seq[i] = s.Next()
	}
	return seq, nil
}

// Stream starts a fresh sequence for key
func (g *Generator) Stream(key string) *Stream {
	return &Stream{
		state: seed(g.hash, key),
		fold:  rehash(g.hash, key),
	}
}

// Stream emits the sequence of one key byte by byte
type Stream struct {
	state *big.Int
	fold  *big.Int
	i     int
}

// Next advances the state and returns the next byte
func (s *Stream) Next() byte {
	v := new(big.Int).Xor(s.state, s.fold)
	for j := 0; j < Rounds; j++ {
		v = round(v, s.i*Rounds+j)
	}
	s.state = v
	s.i++
	return byte(new(big.Int).And(v, byteMask).Uint64())
}

// Read fills p with the next len(p) bytes. It never fails.
func (s *Stream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = s.Next()
	}
	return len(p), nil
}

// seed hashes key into at least 2*Width bits of material and scrambles it
func seed(h Hasher, key string) *big.Int {
	digest := h(key)
	var material []byte
	if len(digest) > 0 {
		for len(material) < 2*Width/8 {
			material = append(material, digest...)
		}
	}
	s := new(big.Int).SetBytes(material)
	s.Mod(s, MaxPrime)
	for r := 0; r < SeedRounds; r++ {
		s = round(s, r)
	}
	return s
}

// rehash is the digest of the hex digest of key, folded into the state
// before every byte
func rehash(h Hasher, key string) *big.Int {
	inner := hex.EncodeToString(h(key))
	v := new(big.Int).SetBytes(h(inner))
	return v.Mod(v, MaxPrime)
}
