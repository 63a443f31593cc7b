package ion

import (
	"math"
	"math/big"
	"testing"
)

func TestTypeToString(t *testing.T) {
	for i := NoType; i <= StructType+1; i++ {
		str := i.String()
		if str == "" {
			t.Errorf("expected a non-empty string for type %v", uint8(i))
		}
	}
}

func TestIntSizeToString(t *testing.T) {
	for i := NullInt; i <= BigInt+1; i++ {
		str := i.String()
		if str == "" {
			t.Errorf("expected a non-empty string for size %v", uint8(i))
		}
	}
}

func TestIntSize(t *testing.T) {
	tests := []struct {
		v    Int
		want IntSize
	}{
		{NewInt(0), Int32},
		{NewInt(1234), Int32},
		{NewInt(math.MaxInt32), Int32},
		{NewInt(math.MaxInt32 + 1), Uint64},
		{NewInt(math.MaxInt64), Uint64},
		{NewInt(-1), Int32},
		{NewInt(math.MinInt32), Int32},
		{NewInt(math.MinInt32 - 1), Int64},
		{NewBigInt(new(big.Int).Lsh(big.NewInt(1), 100)), BigInt},
	}
	for _, tt := range tests {
		if got := tt.v.Size(); got != tt.want {
			t.Errorf("Size(%v): expected %v, got %v", tt.v.BigInt(), tt.want, got)
		}
	}
}
