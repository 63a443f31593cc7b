package ion

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func decodeAll(t *testing.T, data []byte, cat Catalog) []Value {
	t.Helper()
	dec := NewDecoderBytes(data, cat)
	values, err := dec.ConsumeAll()
	require.NoError(t, err, "ConsumeAll")
	return values
}

func TestDecodeBoolsAndBVM(t *testing.T) {
	data := []byte{0xE0, 0x01, 0x00, 0xEA, 0x11, 0x10}
	values := decodeAll(t, data, nil)
	if len(values) != 2 {
		t.Fatalf("expected 2 values, got %v", len(values))
	}
	if values[0] != Bool(true) {
		t.Errorf("expected true, got %v", values[0])
	}
	if values[1] != Bool(false) {
		t.Errorf("expected false, got %v", values[1])
	}
}

func TestDecodeMissingBVM(t *testing.T) {
	dec := NewDecoderBytes([]byte{0x11}, nil)
	_, _, err := dec.ConsumeValue()
	if err != nil {
		t.Fatalf("expected a value with no leading BVM to decode fine, got %v", err)
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	dec := NewDecoderBytes([]byte{0xE0, 0x02, 0x00, 0xEA}, nil)
	_, _, err := dec.ConsumeValue()
	var uv *UnsupportedVersionError
	if !errors.As(err, &uv) {
		t.Fatalf("expected UnsupportedVersionError, got %T: %v", err, err)
	}
}

func TestDecodeSmallPositiveInt(t *testing.T) {
	// 0x21 0x01 => positive int, length 1, magnitude 0x01
	values := decodeAll(t, []byte{0x21, 0x01}, nil)
	i, ok := values[0].(Int)
	if !ok {
		t.Fatalf("expected Int, got %T", values[0])
	}
	if v, fits := i.Int64(); !fits || v != 1 {
		t.Errorf("expected 1, got %v (fits=%v)", v, fits)
	}
}

func TestDecodeNegativeIntegerZeroIsIllegal(t *testing.T) {
	dec := NewDecoderBytes([]byte{0x31, 0x00}, nil)
	_, _, err := dec.ConsumeValue()
	var nz *NegativeIntegerZeroError
	if !errors.As(err, &nz) {
		t.Fatalf("expected NegativeIntegerZeroError, got %T: %v", err, err)
	}
}

func TestDecodeTypedNull(t *testing.T) {
	values := decodeAll(t, []byte{0x5F}, nil) // null.decimal
	n, ok := values[0].(Null)
	if !ok || n.T != DecimalType {
		t.Fatalf("expected null.decimal, got %#v", values[0])
	}
	if !values[0].IsNull() {
		t.Error("expected IsNull true")
	}
}

func TestDecodeString(t *testing.T) {
	values := decodeAll(t, []byte{0x83, 'f', 'o', 'o'}, nil)
	if values[0] != String("foo") {
		t.Errorf("expected \"foo\", got %v", values[0])
	}
}

func TestDecodeInvalidUTF8String(t *testing.T) {
	dec := NewDecoderBytes([]byte{0x82, 0xFF, 0xFE}, nil)
	_, _, err := dec.ConsumeValue()
	var u *InvalidUTF8Error
	if !errors.As(err, &u) {
		t.Fatalf("expected InvalidUTF8Error, got %T: %v", err, err)
	}
}

func TestDecodeAnnotatedValue(t *testing.T) {
	// annotation wrapper: tq=0xE? length, annot-length VarUInt(1), symbol id 10
	// (VarUInt 0x8A), wrapped bool true (0x11). Needs a local symbol table so
	// id 10 resolves; roundtrip through the encoder instead of hand
	// constructing a symbol table directive by hand.
	enc := NewEncoder()
	enc.Add(NewAnnotation([]string{"foo"}, Bool(true)))
	data, err := enc.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	values := decodeAll(t, data, nil)
	if len(values) != 1 {
		t.Fatalf("expected 1 value, got %v", len(values))
	}
	ann, ok := values[0].(Annotation)
	if !ok {
		t.Fatalf("expected Annotation, got %T", values[0])
	}
	if len(ann.Names) != 1 || ann.Names[0] != "foo" {
		t.Errorf("expected annotation \"foo\", got %v", ann.Names)
	}
	if ann.Value != Bool(true) {
		t.Errorf("expected wrapped true, got %v", ann.Value)
	}
}

func TestDecodeLocalSymbolTableAppend(t *testing.T) {
	enc := NewEncoder()
	enc.Add(NewStruct().Append("a", Bool(true)))
	first, err := enc.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Hand-build a second stream: an append-mode symbol table directive
	// adding "b", then a struct using both "a" (from the first table, now
	// appended-over) and "b".
	body := buildAppendDirectiveBody(t, []string{"b"})
	wrapped := wrapAsSymbolTableDirective(body)

	data := append([]byte{}, first...)
	data = append(data, wrapped...)

	// struct {a: true, b: false} referencing local ids 10 ("a") and 11 ("b")
	var structBody []byte
	structBody = appendVarUint(structBody, 10)
	structBody = append(structBody, 0x11)
	structBody = appendVarUint(structBody, 11)
	structBody = append(structBody, 0x10)
	data = append(data, appendTag(nil, 0xD0, uint64(len(structBody)))...)
	data = append(data, structBody...)

	values := decodeAll(t, data, nil)
	if len(values) != 2 {
		t.Fatalf("expected 2 values, got %v", len(values))
	}
	st, ok := values[1].(*Struct)
	if !ok {
		t.Fatalf("expected *Struct, got %T", values[1])
	}
	a, ok := st.Find("a")
	if !ok || a != Bool(true) {
		t.Errorf("expected a=true, got %v (ok=%v)", a, ok)
	}
	b, ok := st.Find("b")
	if !ok || b != Bool(false) {
		t.Errorf("expected b=false, got %v (ok=%v)", b, ok)
	}
}

// buildAppendDirectiveBody builds the body (inside the struct's typedesc) of
// a $ion_symbol_table directive in append mode, defining the given symbols.
func buildAppendDirectiveBody(t *testing.T, symbols []string) []byte {
	t.Helper()
	var body []byte
	body = appendVarUint(body, 6) // "imports"
	body = append(body, 0x71, 0x03) // symbol id 3, "$ion_symbol_table"

	var listBody []byte
	for _, s := range symbols {
		listBody = appendStringValue(listBody, s)
	}
	body = appendVarUint(body, 7) // "symbols"
	body = appendTag(body, 0xB0, uint64(len(listBody)))
	body = append(body, listBody...)
	return body
}

func wrapAsSymbolTableDirective(body []byte) []byte {
	var annPrefix []byte
	annPrefix = appendVarUint(annPrefix, 3) // "$ion_symbol_table"

	structBody := appendTag(nil, 0xD0, uint64(len(body)))
	structBody = append(structBody, body...)

	wrapped := append(annPrefix, structBody...)
	var wrapper []byte
	wrapper = appendVarUint(wrapper, uint64(len(annPrefix)))
	wrapper = append(wrapper, wrapped...)

	return append(appendTag(nil, 0xE0, uint64(len(wrapper))), wrapper...)
}

func TestRoundTripScalars(t *testing.T) {
	values := []Value{
		Null{T: NullType},
		Null{T: StructType},
		Bool(true),
		Bool(false),
		NewInt(0),
		NewInt(-1),
		NewInt(12345),
		NewBigInt(new(big.Int).Lsh(big.NewInt(1), 100)),
		NewBigInt(new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 100))),
		Float32(1.5),
		Float64(-2.5),
		NewDecimalInt(1234, -2),
		NewNegativeZeroDecimal(-2),
		String(""),
		String("hello, ion"),
		NewSymbol("greeting"),
		Clob("clob data"),
		Blob([]byte{0x00, 0x01, 0xFF}),
	}

	for _, v := range values {
		v := v
		t.Run(v.Type().String(), func(t *testing.T) {
			enc := NewEncoder().Add(v)
			data, err := enc.Encode()
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			got := decodeAll(t, data, nil)
			if len(got) != 1 {
				t.Fatalf("expected 1 value, got %v", len(got))
			}
			if !Equal(got[0], v) {
				t.Errorf("expected %#v, got %#v", v, got[0])
			}
			if d, ok := v.(Decimal); ok {
				if gd, ok := got[0].(Decimal); ok && d.IsNegativeZero() != gd.IsNegativeZero() {
					t.Errorf("negative-zero-ness did not round-trip: %v vs %v", d, gd)
				}
			}
		})
	}
}

func TestRoundTripContainers(t *testing.T) {
	list := List{NewInt(1), String("two"), Bool(true)}
	sexp := SExpr{NewSymbol("+"), NewInt(1), NewInt(2)}
	st := NewStruct().Append("x", NewInt(1)).Append("y", NewInt(2))
	ann := NewAnnotation([]string{"version1"}, st)
	nested := List{st, list, Null{T: ListType}}

	for _, v := range []Value{list, sexp, st, ann, nested} {
		v := v
		enc := NewEncoder().Add(v)
		data, err := enc.Encode()
		require.NoError(t, err, "Encode")
		got := decodeAll(t, data, nil)
		require.Len(t, got, 1)
		if !Equal(got[0], v) {
			t.Errorf("expected %#v, got %#v", v, got[0])
		}
	}

	// The nested case's outer List also gets a length spot check with go-cmp:
	// the decoded List must hold as many elements as the encoded one. (Equal
	// above already compares List elements positionally.)
	enc := NewEncoder().Add(nested)
	data, err := enc.Encode()
	require.NoError(t, err, "Encode")
	got := decodeAll(t, data, nil)
	gotList, ok := got[0].(List)
	require.True(t, ok, "expected List, got %T", got[0])
	if diff := cmp.Diff(len(nested), len(gotList)); diff != "" {
		t.Errorf("nested List length mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripTimestamps(t *testing.T) {
	tests := []Timestamp{
		NewSimpleTimestamp(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), Year),
		NewSimpleTimestamp(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), Month),
		NewSimpleTimestamp(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), Day),
		NewTimestamp(time.Date(2023, 6, 1, 12, 30, 0, 0, time.UTC), Minute, UTC),
		NewTimestamp(time.Date(2023, 6, 1, 12, 30, 45, 0, time.UTC), Second, UTC),
		NewTimestampWithFractionalSeconds(time.Date(2023, 6, 1, 12, 30, 45, 123000000, time.UTC), Nanosecond, UTC, 3),
	}

	for _, ts := range tests {
		ts := ts
		t.Run(ts.Precision().String(), func(t *testing.T) {
			enc := NewEncoder().Add(ts)
			data, err := enc.Encode()
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got := decodeAll(t, data, nil)
			gotTS, ok := got[0].(Timestamp)
			if !ok {
				t.Fatalf("expected Timestamp, got %T", got[0])
			}
			if !gotTS.Equal(ts) {
				t.Errorf("expected %v, got %v", ts.Format(), gotTS.Format())
			}
		})
	}
}

func TestStructFieldsNotSortedError(t *testing.T) {
	// L=1 (sorted form), VarUInt length, then two fields with descending ids.
	// Field ids 5 and 3 are both in the system symbol table's range (1-9) so
	// the sortedness check is what fails, not symbol resolution.
	var body []byte
	body = appendVarUint(body, 5)
	body = append(body, 0x10)
	body = appendVarUint(body, 3)
	body = append(body, 0x10)

	data := []byte{0xD1}
	data = appendVarUint(data, uint64(len(body)))
	data = append(data, body...)

	dec := NewDecoderBytes(data, nil)
	_, _, err := dec.ConsumeValue()
	var sf *StructFieldsNotSortedError
	if !errors.As(err, &sf) {
		t.Fatalf("expected StructFieldsNotSortedError, got %T: %v", err, err)
	}
}

func TestTruncatedInput(t *testing.T) {
	dec := NewDecoderBytes([]byte{0x83, 'a'}, nil) // string claims length 3, only 1 byte follows
	_, _, err := dec.ConsumeValue()
	var te *TruncatedError
	if !errors.As(err, &te) {
		t.Fatalf("expected TruncatedError, got %T: %v", err, err)
	}
}
