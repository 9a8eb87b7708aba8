package nulldot

import (
	"fmt"
	"sort"
	"strings"
)

// Op is one reversible step of the per character transform. Values are
// always reduced to the variant's width.
type Op interface {
	Forward(v uint32, k byte, width uint) uint32
	Inverse(v uint32, k byte, width uint) uint32
}

type (
	// XorKey XORs the generator byte into the value
	XorKey struct{}

	// XorConst XORs a fixed constant into the value
	XorConst uint32

	// Rotate rotates the value left by the given amount
	Rotate uint

	// SwapHalves exchanges the upper and lower half of the value. Needs
	// an even width.
	SwapHalves struct{}
)

func mask(width uint) uint32 {
	return uint32(1)<<width - 1
}

func rotl(v uint32, n, width uint) uint32 {
	n %= width
	v &= mask(width)
	return (v<<n | v>>(width-n)) & mask(width)
}

func (XorKey) Forward(v uint32, k byte, width uint) uint32 { return (v ^ uint32(k)) & mask(width) }
func (XorKey) Inverse(v uint32, k byte, width uint) uint32 { return (v ^ uint32(k)) & mask(width) }

func (c XorConst) Forward(v uint32, _ byte, width uint) uint32 { return (v ^ uint32(c)) & mask(width) }
func (c XorConst) Inverse(v uint32, _ byte, width uint) uint32 { return (v ^ uint32(c)) & mask(width) }

func (r Rotate) Forward(v uint32, _ byte, width uint) uint32 { return rotl(v, uint(r), width) }
func (r Rotate) Inverse(v uint32, _ byte, width uint) uint32 {
	return rotl(v, width-uint(r)%width, width)
}

func (SwapHalves) Forward(v uint32, _ byte, width uint) uint32 { return rotl(v, width/2, width) }
func (SwapHalves) Inverse(v uint32, _ byte, width uint) uint32 { return rotl(v, width/2, width) }

// Variant is a code width and the ordered ops applied to every character.
// Encoding runs Ops in order, decoding runs the inverses backwards.
type Variant struct {
	Name  string
	Width uint
	Ops   []Op
}

var (
	// Classic7 is the XOR-only 7 bit transform of the first release
	Classic7 = &Variant{
		Name:  "classic7",
		Width: 7,
		Ops:   []Op{XorKey{}},
	}

	// Rotor7 adds rotations and a constant to the 7 bit transform
	Rotor7 = &Variant{
		Name:  "rotor7",
		Width: 7,
		Ops:   []Op{XorKey{}, Rotate(3), XorConst(0x55), Rotate(5)},
	}

	// Wide16 uses 16 bit codes and carries any UTF-16 code unit
	Wide16 = &Variant{
		Name:  "wide16",
		Width: 16,
		Ops:   []Op{XorKey{}, Rotate(5), SwapHalves{}, XorConst(0xa5c3), Rotate(11)},
	}

	variants = map[string]*Variant{}
)

func init() {
	for _, v := range []*Variant{Classic7, Rotor7, Wide16} {
		variants[v.Name] = v
	}
}

// VariantByName returns a built-in variant
func VariantByName(name string) (*Variant, error) {
	if v, ok := variants[strings.ToLower(name)]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: unknown variant %q", ERR_INVALID_VARIANT, name)
}

// Variants lists the names of the built-in variants
func Variants() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the width and the ops
func (v *Variant) Validate() error {
	if v == nil {
		return fmt.Errorf("%w: nil", ERR_INVALID_VARIANT)
	}
	if v.Width < 1 || v.Width > 16 {
		return fmt.Errorf("%w: width %d not in 1..16", ERR_INVALID_VARIANT, v.Width)
	}
	for i, op := range v.Ops {
		switch op.(type) {
		case nil:
			return fmt.Errorf("%w: op %d is nil", ERR_INVALID_VARIANT, i)
		case SwapHalves:
			if v.Width%2 != 0 {
				return fmt.Errorf("%w: half swap needs an even width, got %d", ERR_INVALID_VARIANT, v.Width)
			}
		}
	}
	return nil
}

// CodeSpace is the number of distinct codes
func (v *Variant) CodeSpace() uint32 {
	return uint32(1) << v.Width
}

func (v *Variant) forward(c uint32, k byte) uint32 {
	c &= mask(v.Width)
	for _, op := range v.Ops {
		c = op.Forward(c, k, v.Width) & mask(v.Width)
	}
	return c
}

func (v *Variant) inverse(c uint32, k byte) uint32 {
	c &= mask(v.Width)
	for i := len(v.Ops) - 1; i >= 0; i-- {
		c = v.Ops[i].Inverse(c, k, v.Width) & mask(v.Width)
	}
	return c
}
