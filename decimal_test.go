package ion

import (
	"math/big"
	"testing"
)

func TestDecimalToString(t *testing.T) {
	test := func(n int64, exponent int32, expected string) {
		t.Run(expected, func(t *testing.T) {
			d := NewDecimalInt(n, exponent)
			actual := d.String()
			if actual != expected {
				t.Errorf("expected '%v', got '%v'", expected, actual)
			}
		})
	}

	test(0, 0, "0.")
	test(0, 1, "0d1")
	test(0, -1, "0d-1")

	test(1, 0, "1.")
	test(1, 1, "1d1")
	test(1, -1, "1d-1")

	test(-1, 0, "-1.")
	test(-1, 1, "-1d1")
	test(-1, -1, "-1d-1")

	test(123, 0, "123.")
	test(-456, 0, "-456.")

	test(123, 5, "123d5")
	test(-456, 5, "-456d5")

	test(123, -1, "12.3")
	test(123, -2, "1.23")
	test(123, -3, "1.23d-1")
	test(123, -4, "1.23d-2")

	test(-456, -1, "-45.6")
	test(-456, -2, "-4.56")
	test(-456, -3, "-4.56d-1")
	test(-456, -4, "-4.56d-2")
}

func TestDecimalNegativeZero(t *testing.T) {
	d := NewNegativeZeroDecimal(0)
	if !d.IsNegativeZero() {
		t.Fatal("expected IsNegativeZero")
	}
	if d.Sign() != 0 {
		t.Errorf("expected sign 0, got %v", d.Sign())
	}
	if d.String() != "-0." {
		t.Errorf("expected -0., got %v", d.String())
	}

	positiveZero := NewDecimalInt(0, 0)
	if positiveZero.IsNegativeZero() {
		t.Fatal("positive zero should not report IsNegativeZero")
	}
	if !d.Equal(positiveZero) {
		t.Error("-0 and 0 should compare numerically equal")
	}
}

func TestDecimalCmp(t *testing.T) {
	a := NewDecimal(big.NewInt(123), -2) // 1.23
	b := NewDecimal(big.NewInt(1230), -3) // 1.230, same value, different scale
	if a.Cmp(b) != 0 {
		t.Errorf("expected equal, got cmp=%v", a.Cmp(b))
	}

	c := NewDecimal(big.NewInt(124), -2) // 1.24
	if a.Cmp(c) >= 0 {
		t.Errorf("expected a < c, got cmp=%v", a.Cmp(c))
	}
}
