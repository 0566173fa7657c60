package math

import (
	"math/big"

	"filippo.io/bigmod"
)

type Modulus struct {
	value bigmod.Modulus
}

// Non-constant time function, to be used for testing purposes and initialization only.
// Panics on invalid input; value must represent a natural number, either in decimal or with a 0x prefix.
func NewModulus(value string) *Modulus {
	n, ok := new(big.Int).SetString(value, 0)
	if !ok {
		panic("invalid modulus value: " + value)
	}
	m, err := bigmod.NewModulus(n.Bytes())
	if err != nil {
		panic("invalid modulus value: " + value + ", error: " + err.Error())
	}
	return &Modulus{*m}
}

func (m *Modulus) Equal(other *Modulus) bool {
	return m == other || (&m.value).Nat().Equal((&other.value).Nat()) == 1
}

// Size returns the number of bytes of the big-endian encoding of the modulus (and of all values reduced by it).
func (m *Modulus) Size() int {
	return (&m.value).Size()
}

func (m *Modulus) BitLen() int {
	return (&m.value).BitLen()
}

func (m *Modulus) Bytes() []byte {
	return (&m.value).Nat().Bytes(&m.value)
}

// Non-constant time, returns the modulus as big.Int. Used for initialization only.
func (m *Modulus) bigInt() *big.Int {
	return new(big.Int).SetBytes(m.Bytes())
}
