package keystream

import "math/big"

const (
	// Width is the bit width the state is rotated in
	Width = 512

	// Rounds is the number of sub-rounds per emitted byte
	Rounds = 8

	// SeedRounds is the number of rounds applied to the hashed key
	SeedRounds = 4

	rotateRight = 7
	rotateLeft  = 13
)

var (
	// Primes are XORed into the state round by round and added in the
	// lattice transform. The last one is the largest and is the modulus.
	Primes = []*big.Int{
		// 2^127-1
		mustHex("7fffffffffffffffffffffffffffffff"),
		// 2^255-19
		mustHex("7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed"),
		// p384
		mustHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffff0000000000000000ffffffff"),
		// 2^512-569
		mustHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffdc7"),
	}

	// Multipliers are the fractional parts of φ, √2, √3 and √5 scaled
	// to 512 bits and forced odd.
	Multipliers = []*big.Int{
		mustHex("9e3779b97f4a7c15f39cc0605cedc8341082276bf3a27251f86c6a11d0c18e952767f0b153d27b7f0347045b5bf1827f01886f0928403002c1d64ba40f335e37"),
		mustHex("6a09e667f3bcc908b2fb1366ea957d3e3adec17512775099da2f590b0667322a95f90608757145875163fcdfb907b6721ee950bc8738f694f0090e6c7bf44ed1"),
		mustHex("bb67ae8584caa73b25742d7078b83b8925d834cc53da4798c720a6486e45a6e2490bcfd95ef15dbda9930aae12228f87cc4cf24da3a1ec68d0cd33a01ad9a383"),
		mustHex("3c6ef372fe94f82be73980c0b9db906821044ed7e744e4a3f0d8d423a1831d2a4ecfe162a7a4f6fe068e08b6b7e304fe0310de125080600583ac97481e66bc6d"),
	}

	// MaxPrime is the modulus of the state
	MaxPrime = Primes[len(Primes)-1]

	widthMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), Width), big.NewInt(1))
	byteMask  = big.NewInt(0xff)
)

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("keystream: bad constant " + s)
	}
	return n
}
