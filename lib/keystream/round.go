package keystream

import "math/big"

// rotr rotates x right by n within Width bits
func rotr(x *big.Int, n uint) *big.Int {
	n %= Width
	v := new(big.Int).And(x, widthMask)
	lo := new(big.Int).Rsh(v, n)
	hi := new(big.Int).Lsh(v, Width-n)
	hi.And(hi, widthMask)
	return lo.Or(lo, hi)
}

// rotl rotates x left by n within Width bits
func rotl(x *big.Int, n uint) *big.Int {
	return rotr(x, Width-n%Width)
}

// swapHalves exchanges the upper and lower Width/2 bits
func swapHalves(x *big.Int) *big.Int {
	return rotr(x, Width/2)
}

// lattice folds x through the multipliers:
// x = (x * m[j] + p[j]) mod MaxPrime
func lattice(x *big.Int) *big.Int {
	v := new(big.Int).Set(x)
	for j, m := range Multipliers {
		v.Mul(v, m)
		v.Add(v, Primes[j%len(Primes)])
		v.Mod(v, MaxPrime)
	}
	return v
}

// round applies one round of the mixing function. idx selects the prime
// XORed into the state.
func round(s *big.Int, idx int) *big.Int {
	v := rotr(s, rotateRight)
	v = swapHalves(v)
	v = rotl(v, rotateLeft)
	v.Xor(v, Primes[idx%len(Primes)])
	return lattice(v)
}
