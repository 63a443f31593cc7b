package ion

import (
	"bytes"
	"math"
)

// Equal reports whether a and b are equal under the Ion data model: Int
// values compare numerically regardless of whether either spilled to
// big.Int, structs compare as a multiset of (name, value) pairs rather than
// positionally, decimals carry their negative-zero distinction, and
// timestamps compare instant, precision, and timezone kind together.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Annotation:
		bv, ok := b.(Annotation)
		if !ok || len(av.Names) != len(bv.Names) {
			return false
		}
		for i := range av.Names {
			if av.Names[i] != bv.Names[i] {
				return false
			}
		}
		return Equal(av.Value, bv.Value)

	case Null:
		bv, ok := b.(Null)
		return ok && av.T == bv.T

	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv

	case Int:
		bv, ok := b.(Int)
		return ok && av.BigInt().Cmp(bv.BigInt()) == 0

	case Float32:
		bv, ok := b.(Float32)
		return ok && math.Float32bits(float32(av)) == math.Float32bits(float32(bv))

	case Float64:
		bv, ok := b.(Float64)
		return ok && math.Float64bits(float64(av)) == math.Float64bits(float64(bv))

	case Decimal:
		bv, ok := b.(Decimal)
		return ok && av.Equal(bv) && av.IsNegativeZero() == bv.IsNegativeZero()

	case Timestamp:
		bv, ok := b.(Timestamp)
		return ok && av.Equal(bv)

	case String:
		bv, ok := b.(String)
		return ok && av == bv

	case Symbol:
		bv, ok := b.(Symbol)
		if !ok || av.NoText != bv.NoText {
			return false
		}
		return av.NoText || av.Text == bv.Text

	case Clob:
		bv, ok := b.(Clob)
		return ok && bytes.Equal(av, bv)

	case Blob:
		bv, ok := b.(Blob)
		return ok && bytes.Equal(av, bv)

	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true

	case SExpr:
		bv, ok := b.(SExpr)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true

	case *Struct:
		bv, ok := b.(*Struct)
		return ok && structsEqual(av, bv)

	default:
		return false
	}
}

// structsEqual compares two structs as a multiset of (name, value) pairs:
// field order and repeated names don't matter, only that every field on one
// side has an unmatched, equal counterpart on the other.
func structsEqual(a, b *Struct) bool {
	af, bf := a.Fields(), b.Fields()
	if len(af) != len(bf) {
		return false
	}

	used := make([]bool, len(bf))
	for _, fa := range af {
		matched := false
		for i, fb := range bf {
			if used[i] || fa.Name != fb.Name {
				continue
			}
			if Equal(fa.Value, fb.Value) {
				used[i] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
