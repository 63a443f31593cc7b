package ion

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"testing"
)

func TestAppendUint(t *testing.T) {
	test := func(val uint64, elen uint64, ebits []byte) {
		t.Run(fmt.Sprintf("%x", val), func(t *testing.T) {
			if got := uintLen(val); got != elen {
				t.Errorf("uintLen: expected %v, got %v", elen, got)
			}
			bits := appendUint(nil, val)
			if !bytes.Equal(bits, ebits) {
				t.Errorf("appendUint: expected % x, got % x", ebits, bits)
			}
			if got := readUint(bits); got != val {
				t.Errorf("readUint: expected %v, got %v", val, got)
			}
		})
	}

	test(0, 1, []byte{0})
	test(0xFF, 1, []byte{0xFF})
	test(0x1FF, 2, []byte{0x01, 0xFF})
	test(math.MaxUint64, 8, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
}

func TestAppendInt(t *testing.T) {
	test := func(val int64, ebits []byte) {
		t.Run(fmt.Sprintf("%x", val), func(t *testing.T) {
			bits := appendInt(nil, val)
			if !bytes.Equal(bits, ebits) {
				t.Errorf("expected % x, got % x", ebits, bits)
			}
			if got := readInt(bits); got != val {
				t.Errorf("readInt: expected %v, got %v", val, got)
			}
		})
	}

	test(0, []byte{})
	test(0x7F, []byte{0x7F})
	test(-0x7F, []byte{0xFF})

	test(0xFF, []byte{0x00, 0xFF})
	test(-0xFF, []byte{0x80, 0xFF})

	test(0x7FFF, []byte{0x7F, 0xFF})
	test(-0x7FFF, []byte{0xFF, 0xFF})

	test(math.MaxInt64, []byte{0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
}

func TestAppendBigInt(t *testing.T) {
	test := func(val *big.Int, ebits []byte) {
		t.Run(val.String(), func(t *testing.T) {
			bits := appendBigInt(nil, val)
			if !bytes.Equal(bits, ebits) {
				t.Errorf("expected % x, got % x", ebits, bits)
			}
			if got := readBigInt(bits); got.Cmp(val) != 0 {
				t.Errorf("readBigInt: expected %v, got %v", val, got)
			}
		})
	}

	test(big.NewInt(0), []byte{})
	test(big.NewInt(0x7F), []byte{0x7F})
	test(big.NewInt(-0x7F), []byte{0xFF})

	test(big.NewInt(0xFF), []byte{0x00, 0xFF})
	test(big.NewInt(-0xFF), []byte{0x80, 0xFF})

	test(big.NewInt(0x7FFF), []byte{0x7F, 0xFF})
	test(big.NewInt(-0x7FFF), []byte{0xFF, 0xFF})
}

func TestAppendVarUint(t *testing.T) {
	test := func(val uint64, elen uint64, ebits []byte) {
		t.Run(fmt.Sprintf("%x", val), func(t *testing.T) {
			if got := varUintLen(val); got != elen {
				t.Errorf("varUintLen: expected %v, got %v", elen, got)
			}
			bits := appendVarUint(nil, val)
			if !bytes.Equal(bits, ebits) {
				t.Errorf("appendVarUint: expected % x, got % x", ebits, bits)
			}
			got, n, ok := readVarUint(bits)
			if !ok || got != val || n != len(bits) {
				t.Errorf("readVarUint: expected (%v, %v, true), got (%v, %v, %v)", val, len(bits), got, n, ok)
			}
		})
	}

	test(0, 1, []byte{0x80})
	test(0x7F, 1, []byte{0xFF})
	test(0xFF, 2, []byte{0x01, 0xFF})
	test(0x1FF, 2, []byte{0x03, 0xFF})
	test(0x3FFF, 2, []byte{0x7F, 0xFF})
	test(0x7FFF, 3, []byte{0x01, 0x7F, 0xFF})
	test(0x7FFFFFFFFFFFFFFF, 9, []byte{0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0xFF})
	test(0xFFFFFFFFFFFFFFFF, 10, []byte{0x01, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0xFF})
}

func TestAppendVarInt(t *testing.T) {
	test := func(val int64, elen uint64, ebits []byte) {
		t.Run(fmt.Sprintf("%x", val), func(t *testing.T) {
			if got := varIntLen(val); got != elen {
				t.Errorf("varIntLen: expected %v, got %v", elen, got)
			}
			bits := appendVarInt(nil, val)
			if !bytes.Equal(bits, ebits) {
				t.Errorf("appendVarInt: expected % x, got % x", ebits, bits)
			}
			got, n, negZero, ok := readVarInt(bits)
			if !ok || n != len(bits) {
				t.Errorf("readVarInt: failed to round-trip % x", bits)
			}
			if val == 0 && !negZero && got != 0 {
				t.Errorf("readVarInt: expected zero, got %v", got)
			}
			if val != 0 && got != val {
				t.Errorf("readVarInt: expected %v, got %v", val, got)
			}
		})
	}

	test(0, 1, []byte{0x80})

	test(0x3F, 1, []byte{0xBF})
	test(-0x3F, 1, []byte{0xFF})

	test(0x7F, 2, []byte{0x00, 0xFF})
	test(-0x7F, 2, []byte{0x40, 0xFF})

	test(0x1FFF, 2, []byte{0x3F, 0xFF})
	test(-0x1FFF, 2, []byte{0x7F, 0xFF})

	test(0x3FFF, 3, []byte{0x00, 0x7F, 0xFF})
	test(-0x3FFF, 3, []byte{0x40, 0x7F, 0xFF})
}

func TestReadVarIntNegativeZero(t *testing.T) {
	v, n, negZero, ok := readVarInt([]byte{0xC0})
	if !ok || n != 1 || !negZero || v != 0 {
		t.Errorf("expected (0, 1, true, true), got (%v, %v, %v, %v)", v, n, negZero, ok)
	}
}

func TestReadDecimalCoefficient(t *testing.T) {
	coeff, negZero := readDecimalCoefficient(nil)
	if negZero || coeff.Sign() != 0 {
		t.Errorf("empty coefficient: expected positive zero, got %v negZero=%v", coeff, negZero)
	}

	coeff, negZero = readDecimalCoefficient([]byte{0x80})
	if !negZero {
		t.Errorf("0x80: expected negative zero")
	}
	if coeff.Sign() != 0 {
		t.Errorf("0x80: expected zero magnitude, got %v", coeff)
	}

	coeff, negZero = readDecimalCoefficient([]byte{0x01})
	if negZero || coeff.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("0x01: expected 1, got %v negZero=%v", coeff, negZero)
	}

	coeff, negZero = readDecimalCoefficient([]byte{0x81})
	if negZero || coeff.Cmp(big.NewInt(-1)) != 0 {
		t.Errorf("0x81: expected -1, got %v negZero=%v", coeff, negZero)
	}
}

func TestAppendTag(t *testing.T) {
	test := func(code byte, length uint64, elen uint64, ebits []byte) {
		t.Run(fmt.Sprintf("%x/%x", code, length), func(t *testing.T) {
			if got := tagLen(length); got != elen {
				t.Errorf("tagLen: expected %v, got %v", elen, got)
			}
			bits := appendTag(nil, code, length)
			if !bytes.Equal(bits, ebits) {
				t.Errorf("expected % x, got % x", ebits, bits)
			}
		})
	}

	test(0x80, 0, 1, []byte{0x80})
	test(0x80, 13, 1, []byte{0x8D})
	test(0x80, 14, 2, []byte{0x8E, 0x8E})
	test(0x80, 200, 3, []byte{0x8E, 0x01, 0xC8})
}
