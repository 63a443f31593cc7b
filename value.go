/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

import (
	"math"
	"math/big"
)

// Value is the common interface satisfied by every Ion value variant: Null,
// Bool, Int, Float32, Float64, Decimal, Timestamp, String, Symbol, Clob,
// Blob, List, SExpr, Struct, and Annotation.
type Value interface {
	// Type reports the Ion type of this value. An Annotation reports the
	// type of the value it wraps.
	Type() Type
	// IsNull reports whether this value is the typed null of its Type.
	IsNull() bool
}

// Unannotate strips any Annotation wrapper(s), returning the innermost value.
func Unannotate(v Value) Value {
	for {
		a, ok := v.(Annotation)
		if !ok {
			return v
		}
		v = a.Value
	}
}

// AnnotationsOf returns the flattened annotation texts wrapping v, or nil if
// v is not annotated.
func AnnotationsOf(v Value) []string {
	a, ok := v.(Annotation)
	if !ok {
		return nil
	}
	return a.Names
}

// Annotation wraps any other Value with a non-empty, ordered sequence of
// symbol texts. Per the invariant that annotations never nest at the wire
// level, NewAnnotation flattens an inner Annotation into a single wrapper.
type Annotation struct {
	Names []string
	Value Value
}

// NewAnnotation builds an Annotation, flattening any nested annotation on v.
func NewAnnotation(names []string, v Value) Annotation {
	if len(names) == 0 {
		panic("ion: annotation must have at least one name")
	}
	if inner, ok := v.(Annotation); ok {
		flat := make([]string, 0, len(names)+len(inner.Names))
		flat = append(flat, names...)
		flat = append(flat, inner.Names...)
		return Annotation{Names: flat, Value: inner.Value}
	}
	return Annotation{Names: names, Value: v}
}

func (a Annotation) Type() Type    { return a.Value.Type() }
func (a Annotation) IsNull() bool  { return a.Value.IsNull() }

// Null is a typed null value, e.g. null.int or null.struct.
type Null struct {
	T Type
}

func (n Null) Type() Type   { return n.T }
func (n Null) IsNull() bool { return true }

// Bool is an Ion boolean.
type Bool bool

func (b Bool) Type() Type   { return BoolType }
func (b Bool) IsNull() bool { return false }

// Int is a signed Ion integer of arbitrary width. Values that fit in an
// int64 are kept inline; wider values spill to a *big.Int. This mirrors the
// wire's own two-speed encoding (UInt magnitude vs arbitrarily long UInt
// magnitude) without allocating on every small integer.
type Int struct {
	small int64
	big   *big.Int
}

// NewInt wraps a native int64 as an Ion Int.
func NewInt(v int64) Int {
	return Int{small: v}
}

// NewBigInt wraps an arbitrary-precision integer as an Ion Int, normalizing
// to the inline int64 form when the value fits.
func NewBigInt(v *big.Int) Int {
	if v.IsInt64() {
		return Int{small: v.Int64()}
	}
	return Int{big: new(big.Int).Set(v)}
}

// IsBig reports whether this Int's value required big.Int storage.
func (i Int) IsBig() bool { return i.big != nil }

// Int64 returns the value and true if it fits in an int64.
func (i Int) Int64() (int64, bool) {
	if i.big != nil {
		return 0, false
	}
	return i.small, true
}

// BigInt returns the value as a *big.Int, regardless of whether it fits in
// an int64.
func (i Int) BigInt() *big.Int {
	if i.big != nil {
		return i.big
	}
	return big.NewInt(i.small)
}

// Size classifies the narrowest native Go integer type that can losslessly
// hold this value, mirroring the wire's own small-vs-big split.
func (i Int) Size() IntSize {
	if i.big != nil {
		return BigInt
	}
	switch {
	case i.small >= math.MinInt32 && i.small <= math.MaxInt32:
		return Int32
	case i.small >= 0:
		return Uint64
	default:
		return Int64
	}
}

// Sign returns -1, 0, or 1 depending on the sign of the value.
func (i Int) Sign() int {
	if i.big != nil {
		return i.big.Sign()
	}
	switch {
	case i.small < 0:
		return -1
	case i.small > 0:
		return 1
	default:
		return 0
	}
}

func (i Int) Type() Type   { return IntType }
func (i Int) IsNull() bool { return false }

// Float32 is a single-precision Ion float.
type Float32 float32

func (f Float32) Type() Type   { return FloatType }
func (f Float32) IsNull() bool { return false }

// Float64 is a double-precision Ion float.
type Float64 float64

func (f Float64) Type() Type   { return FloatType }
func (f Float64) IsNull() bool { return false }

// String is an Ion string: arbitrary, directly represented Unicode text.
type String string

func (s String) Type() Type   { return StringType }
func (s String) IsNull() bool { return false }

// Symbol is an Ion symbol: text resolved through a symbol table. A symbol
// whose text could not be resolved (id 0, or an import absent from the
// catalog) is represented with NoText set; its Text is meaningless.
type Symbol struct {
	Text   string
	NoText bool
}

// NewSymbol wraps known symbol text.
func NewSymbol(text string) Symbol {
	return Symbol{Text: text}
}

// UnknownSymbol represents the SID-0 "unknown text" sentinel.
func UnknownSymbol() Symbol {
	return Symbol{NoText: true}
}

func (s Symbol) Type() Type   { return SymbolType }
func (s Symbol) IsNull() bool { return false }

// Clob is an Ion character large object: an opaque octet sequence that is
// rendered as escaped-ASCII text rather than base64 in Ion text.
type Clob []byte

func (c Clob) Type() Type   { return ClobType }
func (c Clob) IsNull() bool { return false }

// Blob is an Ion binary large object: an opaque octet sequence.
type Blob []byte

func (b Blob) Type() Type   { return BlobType }
func (b Blob) IsNull() bool { return false }

// List is an ordered, heterogeneous sequence of values.
type List []Value

func (l List) Type() Type   { return ListType }
func (l List) IsNull() bool { return false }

// SExpr is an s-expression: like List, but rendered with lisp-like syntax in
// Ion text and occupying a distinct type code on the wire.
type SExpr []Value

func (s SExpr) Type() Type   { return SexpType }
func (s SExpr) IsNull() bool { return false }
