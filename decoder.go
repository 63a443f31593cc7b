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
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/tetradata/ion-binary-go/internal/ionlog"
)

var ion10BVM = []byte{0xE0, 0x01, 0x00, 0xEA}

// A Decoder reads a binary Ion stream already materialised in memory,
// producing fully realised Values one top-level value at a time. It
// consumes local symbol table directives internally rather than surfacing
// them, tracking the currently active SymbolTable as it goes.
type Decoder struct {
	data []byte
	pos  int

	cat   Catalog
	table SymbolTable
}

// NewDecoderBytes creates a Decoder over an in-memory binary Ion stream. A
// nil Catalog is treated as empty: imports of shared tables absent from it
// must carry an explicit max_id or decoding fails.
func NewDecoderBytes(data []byte, cat Catalog) *Decoder {
	if cat == nil {
		cat = NewCatalog()
	}
	return &Decoder{
		data:  data,
		cat:   cat,
		table: NewLocalSymbolTable(nil, nil),
	}
}

// NewDecoder reads all of r and creates a Decoder over the result. Binary
// Ion's framing requires the whole value to size its containers; this
// library does not support incremental decoding of a partial buffer.
func NewDecoder(r io.Reader, cat Catalog) (*Decoder, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(&IOError{Err: err}, "ion: reading decoder input")
	}
	return NewDecoderBytes(data, cat), nil
}

// RegisterSharedTable adds a shared symbol table to the Decoder's catalog,
// making it resolvable by local symbol tables decoded afterward.
func (d *Decoder) RegisterSharedTable(sst SharedSymbolTable) {
	d.cat.Add(sst)
}

// SymbolTable returns the symbol table currently in effect, i.e. the one
// that will be used to resolve the next value's symbol IDs.
func (d *Decoder) SymbolTable() SymbolTable {
	return d.table
}

// ConsumeValue reads and returns the next top-level value, transparently
// absorbing any binary version markers and local symbol table directives
// encountered along the way. ok is false, with a nil error, once the stream
// is exhausted.
func (d *Decoder) ConsumeValue() (Value, bool, error) {
	for {
		if d.pos >= len(d.data) {
			return nil, false, nil
		}

		if d.data[d.pos] == 0xE0 {
			if err := d.readBVM(); err != nil {
				return nil, false, err
			}
			ionlog.Get().Debugw("ion: binary version marker consumed, resetting symbol table", "offset", d.pos-4)
			d.table = NewLocalSymbolTable(nil, nil)
			continue
		}

		v, err := d.readValue(true)
		if err != nil {
			return nil, false, err
		}
		if v == nil {
			// A top-level nop pad; keep scanning.
			continue
		}

		if ann, ok := v.(Annotation); ok && isSymbolTableDirective(ann) {
			st := ann.Value.(*Struct)
			if err := d.installSymbolTable(st); err != nil {
				return nil, false, err
			}
			continue
		}

		return v, true, nil
	}
}

// ConsumeAll reads every remaining top-level value.
func (d *Decoder) ConsumeAll() ([]Value, error) {
	var values []Value
	for {
		v, ok, err := d.ConsumeValue()
		if err != nil {
			return nil, err
		}
		if !ok {
			return values, nil
		}
		values = append(values, v)
	}
}

func isSymbolTableDirective(ann Annotation) bool {
	if len(ann.Names) != 1 || ann.Names[0] != "$ion_symbol_table" {
		return false
	}
	_, ok := ann.Value.(*Struct)
	return ok
}

func (d *Decoder) readBVM() error {
	if d.pos+4 > len(d.data) {
		return &TruncatedError{Offset: uint64(d.pos), Msg: "truncated binary version marker"}
	}
	b := d.data[d.pos : d.pos+4]
	if b[0] != ion10BVM[0] || b[3] != ion10BVM[3] {
		return &BinaryVersionMarkerNotFoundError{Offset: uint64(d.pos)}
	}
	major, minor := int(b[1]), int(b[2])
	if !bytes.Equal(b, ion10BVM) {
		return &UnsupportedVersionError{Major: major, Minor: minor, Offset: uint64(d.pos)}
	}
	d.pos += 4
	return nil
}

// readLength resolves a typedesc's length nibble to an actual byte count,
// reading the trailing VarUInt when the nibble is the escape value 14.
func (d *Decoder) readLength(low byte, descOffset uint64) (uint64, error) {
	if low < 0x0E {
		return uint64(low), nil
	}
	v, n, ok := readVarUint(d.data[d.pos:])
	if !ok {
		return 0, &TruncatedError{Offset: descOffset, Msg: "truncated length VarUInt"}
	}
	d.pos += n
	return v, nil
}

func (d *Decoder) take(n uint64, descOffset uint64) ([]byte, error) {
	if uint64(len(d.data)-d.pos) < n {
		return nil, &TruncatedError{Offset: descOffset, Msg: "value extends past end of input"}
	}
	b := d.data[d.pos : d.pos+int(n)]
	d.pos += int(n)
	return b, nil
}

// readValue reads one complete typedesc-and-payload value. It returns a nil
// Value (with a nil error) when the typedesc described a nop pad, which
// produces no value. topLevel gates nothing in the dispatch itself; callers
// use it to decide whether a resulting Annotation is a symbol table
// directive.
func (d *Decoder) readValue(topLevel bool) (Value, error) {
	if d.pos >= len(d.data) {
		return nil, &TruncatedError{Offset: uint64(d.pos), Msg: "expected a typedesc byte"}
	}

	descOffset := uint64(d.pos)
	tb := d.data[d.pos]
	high := tb >> 4
	low := tb & 0x0F
	d.pos++

	switch high {
	case 0x0:
		return d.readNullOrPad(low, descOffset)
	case 0x1:
		return d.readBool(low, descOffset)
	case 0x2:
		return d.readPositiveInt(low, descOffset)
	case 0x3:
		return d.readNegativeInt(low, descOffset)
	case 0x4:
		return d.readFloat(low, descOffset)
	case 0x5:
		return d.readDecimal(low, descOffset)
	case 0x6:
		return d.readTimestampValue(low, descOffset)
	case 0x7:
		return d.readSymbol(low, descOffset)
	case 0x8:
		return d.readString(low, descOffset)
	case 0x9:
		return d.readLob(low, descOffset, ClobType)
	case 0xA:
		return d.readLob(low, descOffset, BlobType)
	case 0xB:
		return d.readSequence(low, descOffset, ListType)
	case 0xC:
		return d.readSequence(low, descOffset, SexpType)
	case 0xD:
		return d.readStruct(low, descOffset)
	case 0xE:
		return d.readAnnotationWrapper(low, descOffset)
	default:
		return nil, &InvalidReservedTypeError{Offset: descOffset}
	}
}

func (d *Decoder) readNullOrPad(low byte, descOffset uint64) (Value, error) {
	if low == 0x0F {
		return Null{T: NullType}, nil
	}
	n, err := d.readLength(low, descOffset)
	if err != nil {
		return nil, err
	}
	if _, err := d.take(n, descOffset); err != nil {
		return nil, err
	}
	return nil, nil
}

func (d *Decoder) readBool(low byte, descOffset uint64) (Value, error) {
	switch low {
	case 0x00:
		return Bool(false), nil
	case 0x01:
		return Bool(true), nil
	case 0x0F:
		return Null{T: BoolType}, nil
	default:
		return nil, &InvalidBoolLengthError{Length: low, Offset: descOffset}
	}
}

func (d *Decoder) readPositiveInt(low byte, descOffset uint64) (Value, error) {
	if low == 0x0F {
		return Null{T: IntType}, nil
	}
	n, err := d.readLength(low, descOffset)
	if err != nil {
		return nil, err
	}
	payload, err := d.take(n, descOffset)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return NewInt(0), nil
	}
	if n <= 8 {
		u := readUint(payload)
		if u <= math.MaxInt64 {
			return NewInt(int64(u)), nil
		}
		return NewBigInt(new(big.Int).SetUint64(u)), nil
	}
	return NewBigInt(new(big.Int).SetBytes(payload)), nil
}

func (d *Decoder) readNegativeInt(low byte, descOffset uint64) (Value, error) {
	if low == 0x0F {
		return Null{T: IntType}, nil
	}
	n, err := d.readLength(low, descOffset)
	if err != nil {
		return nil, err
	}
	payload, err := d.take(n, descOffset)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &NegativeIntegerZeroError{Offset: descOffset}
	}
	bi := new(big.Int).SetBytes(payload)
	if bi.Sign() == 0 {
		return nil, &NegativeIntegerZeroError{Offset: descOffset}
	}
	bi.Neg(bi)
	return NewBigInt(bi), nil
}

func (d *Decoder) readFloat(low byte, descOffset uint64) (Value, error) {
	switch low {
	case 0x00:
		return Float64(0), nil
	case 0x04:
		payload, err := d.take(4, descOffset)
		if err != nil {
			return nil, err
		}
		return Float32(math.Float32frombits(binary.BigEndian.Uint32(payload))), nil
	case 0x08:
		payload, err := d.take(8, descOffset)
		if err != nil {
			return nil, err
		}
		return Float64(math.Float64frombits(binary.BigEndian.Uint64(payload))), nil
	case 0x0F:
		return Null{T: FloatType}, nil
	default:
		return nil, &InvalidLengthError{Length: uint64(low), Offset: descOffset, Msg: "float"}
	}
}

func (d *Decoder) readDecimal(low byte, descOffset uint64) (Value, error) {
	if low == 0x0F {
		return Null{T: DecimalType}, nil
	}
	if low == 0x00 {
		return NewDecimalInt(0, 0), nil
	}
	n, err := d.readLength(low, descOffset)
	if err != nil {
		return nil, err
	}
	payload, err := d.take(n, descOffset)
	if err != nil {
		return nil, err
	}

	exp, consumed, _, ok := readVarInt(payload)
	if !ok {
		return nil, &TruncatedError{Offset: descOffset, Msg: "truncated decimal exponent"}
	}

	coeff, negZero := readDecimalCoefficient(payload[consumed:])
	if negZero {
		return NewNegativeZeroDecimal(int32(exp)), nil
	}
	return NewDecimal(coeff, int32(exp)), nil
}

func (d *Decoder) readSymbol(low byte, descOffset uint64) (Value, error) {
	if low == 0x0F {
		return Null{T: SymbolType}, nil
	}
	n, err := d.readLength(low, descOffset)
	if err != nil {
		return nil, err
	}
	payload, err := d.take(n, descOffset)
	if err != nil {
		return nil, err
	}

	var id uint64
	if n > 0 {
		id = readUint(payload)
	}
	if id == 0 {
		return UnknownSymbol(), nil
	}
	text, ok := d.table.FindByID(id)
	if !ok {
		if id <= d.table.MaxID() {
			// A reserved slot with unknown text, e.g. from an import absent
			// from the catalog.
			return UnknownSymbol(), nil
		}
		return nil, &InvalidSymbolIDError{ID: id, Offset: descOffset}
	}
	return NewSymbol(text), nil
}

func (d *Decoder) readString(low byte, descOffset uint64) (Value, error) {
	if low == 0x0F {
		return Null{T: StringType}, nil
	}
	n, err := d.readLength(low, descOffset)
	if err != nil {
		return nil, err
	}
	payload, err := d.take(n, descOffset)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(payload) {
		return nil, &InvalidUTF8Error{Offset: descOffset}
	}
	return String(string(payload)), nil
}

func (d *Decoder) readLob(low byte, descOffset uint64, t Type) (Value, error) {
	if low == 0x0F {
		return Null{T: t}, nil
	}
	n, err := d.readLength(low, descOffset)
	if err != nil {
		return nil, err
	}
	payload, err := d.take(n, descOffset)
	if err != nil {
		return nil, err
	}
	buf := append([]byte(nil), payload...)
	if t == ClobType {
		return Clob(buf), nil
	}
	return Blob(buf), nil
}

func (d *Decoder) readSequence(low byte, descOffset uint64, t Type) (Value, error) {
	if low == 0x0F {
		return Null{T: t}, nil
	}
	n, err := d.readLength(low, descOffset)
	if err != nil {
		return nil, err
	}
	payload, err := d.take(n, descOffset)
	if err != nil {
		return nil, err
	}

	children, err := d.readContainerChildren(payload, descOffset)
	if err != nil {
		return nil, err
	}
	if t == ListType {
		return List(children), nil
	}
	return SExpr(children), nil
}

func (d *Decoder) readContainerChildren(payload []byte, descOffset uint64) ([]Value, error) {
	sub := &Decoder{data: payload, cat: d.cat, table: d.table}
	var children []Value
	for sub.pos < len(sub.data) {
		v, err := sub.readValue(false)
		if err != nil {
			return nil, errors.Wrapf(err, "ion: decoding container element (container at offset %d)", descOffset)
		}
		if v == nil {
			continue
		}
		children = append(children, v)
	}
	return children, nil
}

func (d *Decoder) readStruct(low byte, descOffset uint64) (Value, error) {
	if low == 0x0F {
		return Null{T: StructType}, nil
	}

	var n uint64
	sorted := false
	if low == 0x01 {
		sorted = true
		v, nn, ok := readVarUint(d.data[d.pos:])
		if !ok {
			return nil, &TruncatedError{Offset: descOffset, Msg: "truncated sorted-struct length"}
		}
		d.pos += nn
		n = v
	} else {
		var err error
		n, err = d.readLength(low, descOffset)
		if err != nil {
			return nil, err
		}
	}

	payload, err := d.take(n, descOffset)
	if err != nil {
		return nil, err
	}
	return d.readStructFields(payload, sorted, descOffset)
}

func (d *Decoder) readStructFields(payload []byte, sorted bool, descOffset uint64) (*Struct, error) {
	sub := &Decoder{data: payload, cat: d.cat, table: d.table}
	st := NewStruct()

	var lastID int64 = -1
	for sub.pos < len(sub.data) {
		fieldOffset := uint64(sub.pos)
		id, n, ok := readVarUint(sub.data[sub.pos:])
		if !ok {
			return nil, &TruncatedError{Offset: fieldOffset, Msg: "truncated field name id"}
		}
		sub.pos += n

		if sorted {
			if int64(id) <= lastID {
				return nil, &StructFieldsNotSortedError{Offset: descOffset}
			}
			lastID = int64(id)
		}

		v, err := sub.readValue(false)
		if err != nil {
			return nil, errors.Wrapf(err, "ion: decoding struct field (struct at offset %d)", descOffset)
		}
		if v == nil {
			// A field-position nop pad: the field id is discarded along with it.
			continue
		}

		name := ""
		if id != 0 {
			text, ok := d.table.FindByID(id)
			if !ok {
				return nil, &InvalidSymbolIDError{ID: id, Offset: fieldOffset}
			}
			name = text
		}
		st.Append(name, v)
	}
	return st, nil
}

func (d *Decoder) readAnnotationWrapper(low byte, descOffset uint64) (Value, error) {
	switch low {
	case 0x00, 0x01, 0x02, 0x0F:
		return nil, &InvalidAnnotationStructureError{Offset: descOffset}
	}

	n, err := d.readLength(low, descOffset)
	if err != nil {
		return nil, err
	}
	payload, err := d.take(n, descOffset)
	if err != nil {
		return nil, err
	}
	return d.readAnnotationBody(payload, descOffset)
}

func (d *Decoder) readAnnotationBody(payload []byte, descOffset uint64) (Value, error) {
	annLen, consumed, ok := readVarUint(payload)
	if !ok || annLen == 0 {
		return nil, &InvalidAnnotationStructureError{Offset: descOffset}
	}
	if uint64(consumed)+annLen >= uint64(len(payload)) {
		return nil, &InvalidAnnotationStructureError{Offset: descOffset}
	}

	idBytes := payload[consumed : uint64(consumed)+annLen]
	rest := payload[uint64(consumed)+annLen:]

	var names []string
	for len(idBytes) > 0 {
		id, m, ok := readVarUint(idBytes)
		if !ok {
			return nil, &InvalidAnnotationStructureError{Offset: descOffset}
		}
		idBytes = idBytes[m:]

		if id == 0 {
			names = append(names, "")
			continue
		}
		text, ok := d.table.FindByID(id)
		if !ok {
			return nil, &InvalidSymbolIDError{ID: id, Offset: descOffset}
		}
		names = append(names, text)
	}
	if len(names) == 0 || len(rest) == 0 {
		return nil, &InvalidAnnotationStructureError{Offset: descOffset}
	}

	restHigh := rest[0] >> 4
	restLow := rest[0] & 0x0F
	if restHigh == 0x0E {
		return nil, &InvalidAnnotationStructureError{Offset: descOffset}
	}
	if restHigh == 0x00 && restLow != 0x0F {
		return nil, &InvalidAnnotationStructureError{Offset: descOffset}
	}

	sub := &Decoder{data: rest, cat: d.cat, table: d.table}
	v, err := sub.readValue(false)
	if err != nil {
		return nil, err
	}
	if v == nil || sub.pos != len(rest) {
		return nil, &InvalidAnnotationStructureError{Offset: descOffset}
	}

	return NewAnnotation(names, v), nil
}

func (d *Decoder) readTimestampValue(low byte, descOffset uint64) (Value, error) {
	if low == 0x0F {
		return Null{T: TimestampType}, nil
	}
	n, err := d.readLength(low, descOffset)
	if err != nil {
		return nil, err
	}
	payload, err := d.take(n, descOffset)
	if err != nil {
		return nil, err
	}
	return d.readTimestamp(payload, descOffset)
}

func (d *Decoder) readTimestamp(payload []byte, descOffset uint64) (Value, error) {
	pos := 0

	offsetMinutes, n, offsetUnknown, ok := readVarInt(payload[pos:])
	if !ok {
		return nil, &TruncatedError{Offset: descOffset, Msg: "truncated timestamp offset"}
	}
	pos += n

	yearVal, n, ok := readVarUint(payload[pos:])
	if !ok {
		return nil, &TruncatedError{Offset: descOffset, Msg: "truncated timestamp year"}
	}
	pos += n
	year := int(yearVal)
	if year < 1 || year > 9999 {
		return nil, &InvalidTimestampError{Msg: "year out of range", Offset: descOffset}
	}

	requireUnknownOffset := func() error {
		if !offsetUnknown || offsetMinutes != 0 {
			return &InvalidTimestampError{Msg: "day-precision or coarser timestamp must have an unknown offset", Offset: descOffset}
		}
		return nil
	}

	if pos >= len(payload) {
		if err := requireUnknownOffset(); err != nil {
			return nil, err
		}
		ts, err := tryCreateTimestamp(year, 1, 1, Year)
		if err != nil {
			return nil, &InvalidTimestampError{Msg: err.Error(), Offset: descOffset}
		}
		return ts, nil
	}

	monthVal, n, ok := readVarUint(payload[pos:])
	if !ok {
		return nil, &TruncatedError{Offset: descOffset, Msg: "truncated timestamp month"}
	}
	pos += n
	month := int(monthVal)

	if pos >= len(payload) {
		if err := requireUnknownOffset(); err != nil {
			return nil, err
		}
		ts, err := tryCreateTimestamp(year, month, 1, Month)
		if err != nil {
			return nil, &InvalidTimestampError{Msg: err.Error(), Offset: descOffset}
		}
		return ts, nil
	}

	dayVal, n, ok := readVarUint(payload[pos:])
	if !ok {
		return nil, &TruncatedError{Offset: descOffset, Msg: "truncated timestamp day"}
	}
	pos += n
	day := int(dayVal)

	if pos >= len(payload) {
		if err := requireUnknownOffset(); err != nil {
			return nil, err
		}
		ts, err := tryCreateTimestamp(year, month, day, Day)
		if err != nil {
			return nil, &InvalidTimestampError{Msg: err.Error(), Offset: descOffset}
		}
		return ts, nil
	}

	hourVal, n, ok := readVarUint(payload[pos:])
	if !ok {
		return nil, &TruncatedError{Offset: descOffset, Msg: "truncated timestamp hour"}
	}
	pos += n
	minuteVal, n, ok := readVarUint(payload[pos:])
	if !ok {
		return nil, &TruncatedError{Offset: descOffset, Msg: "truncated timestamp minute"}
	}
	pos += n
	hour, minute := int(hourVal), int(minuteVal)

	precision := Minute
	second := 0
	nsec := 0
	var fractionDigits uint8

	if pos < len(payload) {
		secondVal, n, ok := readVarUint(payload[pos:])
		if !ok {
			return nil, &TruncatedError{Offset: descOffset, Msg: "truncated timestamp second"}
		}
		pos += n
		second = int(secondVal)
		precision = Second

		if pos < len(payload) {
			fracExp, n, _, ok := readVarInt(payload[pos:])
			if !ok {
				return nil, &TruncatedError{Offset: descOffset, Msg: "truncated timestamp fraction exponent"}
			}
			pos += n

			coeff, _ := readDecimalCoefficient(payload[pos:])
			if !(fracExp == 0 && coeff.Sign() == 0) {
				if fracExp > 0 || fracExp < -9 {
					return nil, &InvalidTimestampError{Msg: "fractional second exponent out of range", Offset: descOffset}
				}
				digits := int(-fracExp)
				scale := 9 + int(fracExp)
				pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
				ns := new(big.Int).Mul(coeff, pow)
				nsec = int(ns.Int64())
				precision = Nanosecond
				fractionDigits = uint8(digits)
			}
		}
	}

	sign := int64(1)
	if offsetUnknown {
		sign = -1
	}

	ts, err := tryCreateTimestampWithNSecAndOffset(
		[]int{year, month, day, hour, minute, second},
		nsec, offsetMinutes, sign, precision, fractionDigits)
	if err != nil {
		return nil, &InvalidTimestampError{Msg: err.Error(), Offset: descOffset}
	}
	return ts, nil
}

// installSymbolTable interprets a $ion_symbol_table-annotated struct as a
// local symbol table directive: append mode when its imports field is the
// symbol $ion_symbol_table (referring to the table currently in effect),
// reset mode otherwise.
func (d *Decoder) installSymbolTable(st *Struct) error {
	var importsField, symbolsField Value
	var haveImports, haveSymbols bool

	for _, f := range st.Fields() {
		switch f.Name {
		case "imports":
			if haveImports {
				return &DuplicateSymbolTableFieldError{Field: "imports"}
			}
			haveImports = true
			importsField = f.Value
		case "symbols":
			if haveSymbols {
				return &DuplicateSymbolTableFieldError{Field: "symbols"}
			}
			haveSymbols = true
			symbolsField = f.Value
		}
	}

	appendMode := false
	var imports []SharedSymbolTable

	if haveImports {
		if sym, ok := Unannotate(importsField).(Symbol); ok && !sym.NoText && sym.Text == "$ion_symbol_table" {
			appendMode = true
		} else if lv, ok := Unannotate(importsField).(List); ok {
			for _, iv := range lv {
				is, ok := Unannotate(iv).(*Struct)
				if !ok {
					continue
				}
				imp, err := d.resolveImport(is)
				if err != nil {
					return err
				}
				if imp != nil {
					imports = append(imports, imp)
				}
			}
		}
	}

	var symbols []string
	if haveSymbols {
		if lv, ok := Unannotate(symbolsField).(List); ok {
			for _, sv := range lv {
				if s, ok := Unannotate(sv).(String); ok {
					symbols = append(symbols, string(s))
				} else {
					symbols = append(symbols, "")
				}
			}
		}
	}

	if appendMode {
		prevImports := d.table.Imports()
		prevLocals := d.table.Symbols()
		synthetic := NewSharedSymbolTable("", 0, prevLocals)
		imports = append(append([]SharedSymbolTable{}, prevImports...), synthetic)
	}

	d.table = NewLocalSymbolTable(imports, symbols)
	ionlog.Get().Debugw("ion: installed local symbol table", "appendMode", appendMode, "symbols", len(symbols), "imports", len(imports))
	return nil
}

func (d *Decoder) resolveImport(is *Struct) (SharedSymbolTable, error) {
	nameV, _ := is.Find("name")
	name, ok := Unannotate(nameV).(String)
	if !ok || name == "" {
		return nil, nil
	}

	version := 1
	if versionV, ok := is.Find("version"); ok {
		if iv, ok := Unannotate(versionV).(Int); ok {
			if v, fits := iv.Int64(); fits && v >= 1 {
				version = int(v)
			}
		}
	}

	var maxID uint64
	haveMaxID := false
	if maxIDV, ok := is.Find("max_id"); ok {
		if iv, ok := Unannotate(maxIDV).(Int); ok {
			if v, fits := iv.Int64(); fits && v >= 0 {
				maxID = uint64(v)
				haveMaxID = true
			}
		}
	}

	sst := d.cat.FindExact(string(name), version)
	if sst == nil {
		sst = d.cat.FindLatest(string(name))
	}
	if sst == nil {
		if !haveMaxID {
			return nil, &UnknownLocalTableImportError{Name: string(name), Version: version}
		}
		return &bogusSST{name: string(name), version: version, maxID: maxID}, nil
	}
	if haveMaxID {
		sst = sst.Adjust(maxID)
	}
	return sst, nil
}
