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
	"encoding/binary"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/tetradata/ion-binary-go/internal/ionlog"
)

// An Encoder accumulates top-level values and serialises them, along with a
// local symbol table covering every symbol text they reference, into a
// binary Ion stream. Symbol IDs are assigned in a first pass over the
// accumulated values, so the table can be emitted before anything that uses
// it — there is no forward-reference or patch-up pass.
type Encoder struct {
	values []Value
}

// NewEncoder creates an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Add appends a value to be encoded.
func (e *Encoder) Add(v Value) *Encoder {
	e.values = append(e.values, v)
	return e
}

// Encode serialises every added value, preceded by a binary version marker
// and (if any symbol text was used) a local symbol table, into a single
// buffer.
func (e *Encoder) Encode() ([]byte, error) {
	symbols, err := collectSymbols(e.values)
	if err != nil {
		return nil, err
	}

	out := append([]byte(nil), ion10BVM...)

	if len(symbols.ordered) > 0 {
		if uint64(len(symbols.ordered)) > math.MaxInt32-9 {
			return nil, &SymbolTableOverflowError{Count: len(symbols.ordered)}
		}
		b, err := appendSymbolTableDirective(nil, symbols.ordered)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}

	for _, v := range e.values {
		b, err := appendValue(nil, v, symbols)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}

	ionlog.Get().Debugw("ion: encoded stream", "values", len(e.values), "symbols", len(symbols.ordered), "bytes", len(out))
	return out, nil
}

// symbolIDs maps symbol text to the local ID this Encoder assigned it,
// starting at 10 (the first ID past the nine system symbols).
type symbolIDs struct {
	ids     map[string]uint64
	ordered []string
}

func (s *symbolIDs) id(text string) uint64 {
	return s.ids[text]
}

func collectSymbols(values []Value) (*symbolIDs, error) {
	s := &symbolIDs{ids: make(map[string]uint64)}
	for _, v := range values {
		if err := collectSymbolsIn(v, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *symbolIDs) add(text string) error {
	if text == "" {
		return nil
	}
	if !utf8.ValidString(text) {
		return &InvalidUTF8StringError{Text: text}
	}
	if _, ok := s.ids[text]; ok {
		return nil
	}
	s.ids[text] = 10 + uint64(len(s.ordered))
	s.ordered = append(s.ordered, text)
	return nil
}

func collectSymbolsIn(v Value, s *symbolIDs) error {
	switch tv := v.(type) {
	case Annotation:
		for _, name := range tv.Names {
			if err := s.add(name); err != nil {
				return err
			}
		}
		return collectSymbolsIn(tv.Value, s)
	case Symbol:
		if !tv.NoText {
			return s.add(tv.Text)
		}
		return nil
	case List:
		for _, c := range tv {
			if err := collectSymbolsIn(c, s); err != nil {
				return err
			}
		}
		return nil
	case SExpr:
		for _, c := range tv {
			if err := collectSymbolsIn(c, s); err != nil {
				return err
			}
		}
		return nil
	case *Struct:
		for _, f := range tv.Fields() {
			if err := s.add(f.Name); err != nil {
				return err
			}
			if err := collectSymbolsIn(f.Value, s); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func appendSymbolTableDirective(b []byte, symbols []string) ([]byte, error) {
	var body []byte
	body = appendVarUint(body, 7) // field id for "symbols"

	var listBody []byte
	for _, sym := range symbols {
		listBody = appendStringValue(listBody, sym)
	}
	body = appendTag(body, 0xB0, uint64(len(listBody)))
	body = append(body, listBody...)

	var annPrefix []byte
	annPrefix = appendVarUint(annPrefix, 3) // "$ion_symbol_table"

	structBody := appendTag(nil, 0xD0, uint64(len(body)))
	structBody = append(structBody, body...)

	wrapped := append(annPrefix, structBody...)
	var wrapper []byte
	wrapper = appendVarUint(wrapper, uint64(len(annPrefix)))
	wrapper = append(wrapper, wrapped...)

	b = appendTag(b, 0xE0, uint64(len(wrapper)))
	b = append(b, wrapper...)
	return b, nil
}

func appendStringValue(b []byte, s string) []byte {
	b = appendTag(b, 0x80, uint64(len(s)))
	return append(b, s...)
}

func appendValue(b []byte, v Value, symbols *symbolIDs) ([]byte, error) {
	switch tv := v.(type) {
	case Annotation:
		return appendAnnotated(b, tv, symbols)
	case Null:
		return append(b, nullTypeCode(tv.T)|0x0F), nil
	case Bool:
		if tv {
			return append(b, 0x11), nil
		}
		return append(b, 0x10), nil
	case Int:
		return appendIntValue(b, tv), nil
	case Float32:
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], math.Float32bits(float32(tv)))
		b = appendTag(b, 0x40, 4)
		return append(b, buf[:]...), nil
	case Float64:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(float64(tv)))
		b = appendTag(b, 0x40, 8)
		return append(b, buf[:]...), nil
	case Decimal:
		return appendDecimalValue(b, tv), nil
	case Timestamp:
		return appendTimestampValue(b, tv)
	case String:
		if !utf8.ValidString(string(tv)) {
			return nil, &InvalidUTF8StringError{Text: string(tv)}
		}
		return appendStringValue(b, string(tv)), nil
	case Symbol:
		return appendSymbolValue(b, tv, symbols), nil
	case Clob:
		b = appendTag(b, 0x90, uint64(len(tv)))
		return append(b, tv...), nil
	case Blob:
		b = appendTag(b, 0xA0, uint64(len(tv)))
		return append(b, tv...), nil
	case List:
		return appendSequence(b, 0xB0, []Value(tv), symbols)
	case SExpr:
		return appendSequence(b, 0xC0, []Value(tv), symbols)
	case *Struct:
		return appendStructValue(b, tv, symbols)
	default:
		return nil, &UsageError{API: "Encoder.Encode", Msg: "unrecognised Value implementation"}
	}
}

func nullTypeCode(t Type) byte {
	switch t {
	case BoolType:
		return 0x10
	case IntType:
		return 0x20
	case FloatType:
		return 0x40
	case DecimalType:
		return 0x50
	case TimestampType:
		return 0x60
	case SymbolType:
		return 0x70
	case StringType:
		return 0x80
	case ClobType:
		return 0x90
	case BlobType:
		return 0xA0
	case ListType:
		return 0xB0
	case SexpType:
		return 0xC0
	case StructType:
		return 0xD0
	default:
		return 0x00
	}
}

// appendIntValue encodes a top-level Int value (typedesc 2 or 3). Unlike
// Decimal's coefficient subfield, the sign here lives entirely in the type
// code: the magnitude octets carry no sign bit of their own.
func appendIntValue(b []byte, v Int) []byte {
	bi := v.BigInt()
	if bi.Sign() == 0 {
		return append(b, 0x20)
	}

	magBytes := new(big.Int).Abs(bi).Bytes()

	code := byte(0x20)
	if bi.Sign() < 0 {
		code = 0x30
	}
	b = appendTag(b, code, uint64(len(magBytes)))
	return append(b, magBytes...)
}

func appendDecimalValue(b []byte, d Decimal) []byte {
	if d.IsNegativeZero() {
		var body []byte
		body = appendVarInt(body, int64(d.Exponent))
		body = append(body, 0x80)
		b = appendTag(b, 0x50, uint64(len(body)))
		return append(b, body...)
	}
	if d.Sign() == 0 && d.Exponent == 0 {
		return append(b, 0x50)
	}

	var body []byte
	body = appendVarInt(body, int64(d.Exponent))
	body = appendBigInt(body, d.Coefficient)

	b = appendTag(b, 0x50, uint64(len(body)))
	return append(b, body...)
}

func appendTimestampValue(b []byte, ts Timestamp) ([]byte, error) {
	var body []byte

	if ts.OffsetUnknown() {
		body = append(body, 0xC0) // VarInt negative zero: one byte, sign bit set, magnitude 0
	} else {
		body = appendVarInt(body, int64(ts.OffsetMinutes()))
	}

	// Time-of-day fields go on the wire in UTC; the offset above recovers
	// local time on decode.
	dt := ts.DateTime
	if ts.Precision() > Day {
		dt = dt.UTC()
	}

	y, mo, day := dt.Date()
	body = appendVarUint(body, uint64(y))
	if ts.Precision() == Year {
		b = appendTag(b, 0x60, uint64(len(body)))
		return append(b, body...), nil
	}

	body = appendVarUint(body, uint64(mo))
	if ts.Precision() == Month {
		b = appendTag(b, 0x60, uint64(len(body)))
		return append(b, body...), nil
	}

	body = appendVarUint(body, uint64(day))
	if ts.Precision() == Day {
		b = appendTag(b, 0x60, uint64(len(body)))
		return append(b, body...), nil
	}

	h, mi, sec := dt.Clock()
	body = appendVarUint(body, uint64(h))
	body = appendVarUint(body, uint64(mi))
	if ts.Precision() == Minute {
		b = appendTag(b, 0x60, uint64(len(body)))
		return append(b, body...), nil
	}

	body = appendVarUint(body, uint64(sec))
	if ts.Precision() == Second {
		b = appendTag(b, 0x60, uint64(len(body)))
		return append(b, body...), nil
	}

	digits := int(ts.FractionDigits())
	if digits == 0 {
		digits = 9
	}
	nsec := dt.Nanosecond()
	scale := 9 - digits
	coeff := int64(nsec)
	for i := 0; i < scale; i++ {
		coeff /= 10
	}
	body = appendVarInt(body, int64(-digits))
	if coeff != 0 {
		body = appendInt(body, coeff)
	}

	b = appendTag(b, 0x60, uint64(len(body)))
	return append(b, body...), nil
}

func appendSymbolValue(b []byte, s Symbol, symbols *symbolIDs) []byte {
	var id uint64
	if !s.NoText {
		id = symbols.id(s.Text)
	}
	if id == 0 {
		return append(b, 0x71, 0x00)
	}
	b = appendTag(b, 0x70, uintLen(id))
	return appendUint(b, id)
}

func appendSequence(b []byte, code byte, children []Value, symbols *symbolIDs) ([]byte, error) {
	var body []byte
	for _, c := range children {
		var err error
		body, err = appendValue(body, c, symbols)
		if err != nil {
			return nil, err
		}
	}
	b = appendTag(b, code, uint64(len(body)))
	return append(b, body...), nil
}

func appendStructValue(b []byte, st *Struct, symbols *symbolIDs) ([]byte, error) {
	var body []byte
	for _, f := range st.Fields() {
		var id uint64
		if f.Name != "" {
			id = symbols.id(f.Name)
		}
		body = appendVarUint(body, id)

		var err error
		body, err = appendValue(body, f.Value, symbols)
		if err != nil {
			return nil, err
		}
	}
	// Fields are emitted in user order, never the sorted-ids form: the
	// encoder never claims an ordering guarantee it doesn't check.
	b = appendTag(b, 0xD0, uint64(len(body)))
	return append(b, body...), nil
}

func appendAnnotated(b []byte, ann Annotation, symbols *symbolIDs) ([]byte, error) {
	var idBytes []byte
	for _, name := range ann.Names {
		var id uint64
		if name != "" {
			id = symbols.id(name)
		}
		idBytes = appendVarUint(idBytes, id)
	}

	inner, err := appendValue(nil, ann.Value, symbols)
	if err != nil {
		return nil, err
	}

	var wrapped []byte
	wrapped = appendVarUint(wrapped, uint64(len(idBytes)))
	wrapped = append(wrapped, idBytes...)
	wrapped = append(wrapped, inner...)

	b = appendTag(b, 0xE0, uint64(len(wrapped)))
	return append(b, wrapped...), nil
}
