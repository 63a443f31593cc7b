package ion

import (
	"fmt"
	"math/big"
	"strings"
)

// Decimal is an arbitrary-precision Ion decimal: coefficient * 10^exponent.
// Ion distinguishes a coefficient of negative zero from positive zero — the
// two compare numerically equal but hash differently and must round-trip
// distinctly — which a plain *big.Int cannot represent on its own (big.Int
// normalizes zero to a single, signless value). Decimal tracks that bit
// explicitly alongside the sign-magnitude coefficient.
type Decimal struct {
	Coefficient *big.Int
	Exponent    int32
	negZero     bool
}

// NewDecimal creates a decimal with the given coefficient and exponent.
func NewDecimal(coefficient *big.Int, exponent int32) Decimal {
	return Decimal{Coefficient: coefficient, Exponent: exponent}
}

// NewDecimalInt creates a decimal with the given int64 coefficient and
// exponent.
func NewDecimalInt(n int64, exponent int32) Decimal {
	return Decimal{Coefficient: big.NewInt(n), Exponent: exponent}
}

// NewNegativeZeroDecimal creates a decimal whose coefficient is negative
// zero, at the given exponent.
func NewNegativeZeroDecimal(exponent int32) Decimal {
	return Decimal{Coefficient: new(big.Int), Exponent: exponent, negZero: true}
}

// IsNegativeZero reports whether this decimal's coefficient is the
// distinguished negative zero.
func (d Decimal) IsNegativeZero() bool {
	return d.negZero && d.Coefficient.Sign() == 0
}

// Sign returns -1, 0, or 1, treating negative zero as zero: negative zero is
// numerically equal to zero, only its wire/hash representation differs.
func (d Decimal) Sign() int {
	return d.Coefficient.Sign()
}

// Cmp numerically compares two decimals, disregarding the negative-zero
// distinction (negative zero and positive zero compare equal).
func (d Decimal) Cmp(o Decimal) int {
	dd, oo := rescaleDecimals(d, o)
	return dd.Coefficient.Cmp(oo.Coefficient)
}

// Equal reports numeric equality, disregarding the negative-zero
// distinction. Callers that care about negative zero (e.g. Ion Hash, P1
// round-trip checks restricted to Decimal/Decimal pairs) should also compare
// IsNegativeZero.
func (d Decimal) Equal(o Decimal) bool {
	return d.Cmp(o) == 0
}

func rescaleDecimals(a, b Decimal) (Decimal, Decimal) {
	switch {
	case a.Exponent < b.Exponent:
		return a, b.upscale(a.Exponent)
	case a.Exponent > b.Exponent:
		return a.upscale(b.Exponent), b
	default:
		return a, b
	}
}

var ten = big.NewInt(10)

// upscale rewrites d at a smaller exponent (losslessly, since it only
// multiplies the coefficient by a power of ten).
func (d Decimal) upscale(exponent int32) Decimal {
	diff := int64(d.Exponent) - int64(exponent)
	if diff < 0 {
		panic("ion: upscale to a larger exponent")
	}

	pow := new(big.Int).Exp(ten, big.NewInt(diff), nil)
	n := new(big.Int).Mul(d.Coefficient, pow)

	return Decimal{Coefficient: n, Exponent: exponent}
}

// String formats the decimal in Ion text form, e.g. "1.23", "5d10", "-0.".
func (d Decimal) String() string {
	if d.IsNegativeZero() {
		if d.Exponent == 0 {
			return "-0."
		}
		return fmt.Sprintf("-0d%d", d.Exponent)
	}

	switch {
	case d.Exponent == 0:
		return d.Coefficient.String() + "."

	case d.Exponent > 0:
		return d.Coefficient.String() + "d" + fmt.Sprintf("%d", d.Exponent)

	default:
		str := d.Coefficient.String()
		idx := len(str) + int(d.Exponent)

		prefix := 1
		if d.Coefficient.Sign() < 0 {
			prefix++
		}

		if idx >= prefix {
			return str[:idx] + "." + str[idx:]
		}

		b := strings.Builder{}
		b.WriteString(str[:prefix])
		if len(str) > prefix {
			b.WriteString(".")
			b.WriteString(str[prefix:])
		}
		b.WriteString("d")
		b.WriteString(fmt.Sprintf("%d", idx-prefix))
		return b.String()
	}
}

func (d Decimal) Type() Type   { return DecimalType }
func (d Decimal) IsNull() bool { return false }
