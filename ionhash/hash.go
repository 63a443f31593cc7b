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

// Package ionhash computes the Ion Hash digest of an ion.Value: a
// deterministic hash that agrees for any two Ion-equivalent values
// regardless of their wire encoding. It is deliberately independent of the
// ion package's own binary encoder — like the original implementation's
// dedicated hash-encoding module, it derives representation bytes for
// hashing on its own terms rather than reusing the wire encoder's output
// byte-for-byte.
package ionhash

import (
	"bytes"
	"encoding/binary"
	"hash"
	"math"
	"math/big"
	"sort"

	ion "github.com/tetradata/ion-binary-go"
	"github.com/tetradata/ion-binary-go/internal/ionlog"
	"golang.org/x/xerrors"
)

// An UnknownSymbolTextError is returned when hashing a symbol whose text
// cannot be resolved (symbol ID 0, or an import absent from the catalog),
// unless the caller opted into the SID-0 hashing convention via
// WithUnknownSymbolText.
type UnknownSymbolTextError struct{}

func (e *UnknownSymbolTextError) Error() string {
	return "ionhash: symbol text is unknown; pass WithUnknownSymbolText to hash it via the SID-0 convention"
}

// An Option configures a Hasher or a one-shot Hash call.
type Option func(*Hasher)

// WithUnknownSymbolText allows hashing symbols with unresolved text (SID 0,
// or an import absent from the catalog) using the SID-0 convention: an
// empty representation with the null qualifier bit set. Without this
// option, such a symbol is an UnknownSymbolTextError.
func WithUnknownSymbolText() Option {
	return func(h *Hasher) { h.allowUnknownText = true }
}

// Hash computes the one-shot Ion Hash digest of v using newHash (e.g.
// sha256.New) as the underlying digest function.
func Hash(v ion.Value, newHash func() hash.Hash, opts ...Option) ([]byte, error) {
	h := NewHasher(newHash, opts...)
	if err := h.Add(v); err != nil {
		return nil, err
	}
	return h.Sum(), nil
}

// A Hasher accumulates a running Ion Hash digest across multiple values (or
// pre-computed hashes), combining each new contribution with the "dot"
// operation: a byte-lexicographically-sorted pairwise digest. Each dot is
// symmetric in its two operands, so two contributions combine to the same
// result in either order; with three or more, the result depends on the
// order they were added in.
type Hasher struct {
	newHash          func() hash.Hash
	allowUnknownText bool
	buffer           []byte
}

// NewHasher creates an empty accumulator.
func NewHasher(newHash func() hash.Hash, opts ...Option) *Hasher {
	h := &Hasher{newHash: newHash}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Add hashes v and dots it into the running digest.
func (h *Hasher) Add(v ion.Value) error {
	d, err := h.digestValue(v)
	if err != nil {
		return xerrors.Errorf("ionhash: hashing value: %w", err)
	}
	h.dot(d)
	return nil
}

// AddHashed dots an already-computed digest into the running digest,
// without re-hashing it first. This lets a caller fold in a value it
// hashed earlier (or a sibling's already-known hash) without re-serialising
// it.
func (h *Hasher) AddHashed(digest []byte) {
	h.dot(append([]byte(nil), digest...))
}

// Sum returns the current accumulated digest.
func (h *Hasher) Sum() []byte {
	ionlog.Get().Debugw("ionhash: digest finalized", "bytes", len(h.buffer))
	return append([]byte(nil), h.buffer...)
}

// dot combines value into the accumulator: the smaller (byte-lexicographic)
// of the two buffers is placed first, the two are concatenated, and the
// result is hashed again. An empty operand leaves the accumulator
// unchanged; dotting into an empty accumulator just adopts the operand.
func (h *Hasher) dot(value []byte) {
	if len(value) == 0 {
		return
	}
	if len(h.buffer) == 0 {
		h.buffer = value
		return
	}

	var combined []byte
	if bytes.Compare(h.buffer, value) < 0 {
		combined = append(append([]byte{}, h.buffer...), value...)
	} else {
		combined = append(append([]byte{}, value...), h.buffer...)
	}

	sum := h.newHash()
	sum.Write(combined)
	h.buffer = sum.Sum(nil)
}

// digestValue computes the framed, escaped digest of a single value:
// H(0x0B ‖ TQ ‖ escape(representation) ‖ 0x0E).
func (h *Hasher) digestValue(v ion.Value) ([]byte, error) {
	if ann, ok := v.(ion.Annotation); ok {
		return h.digestAnnotation(ann)
	}

	tq, rep, err := h.representation(v)
	if err != nil {
		return nil, err
	}

	framed := make([]byte, 0, len(rep)+3)
	framed = append(framed, 0x0B, tq)
	framed = append(framed, escape(rep)...)
	framed = append(framed, 0x0E)

	sum := h.newHash()
	sum.Write(framed)
	return sum.Sum(nil), nil
}

func (h *Hasher) digestAnnotation(ann ion.Annotation) ([]byte, error) {
	framed := []byte{0x0B, tqAnnotation}
	for _, name := range ann.Names {
		d, err := h.digestValue(ion.NewSymbol(name))
		if err != nil {
			return nil, err
		}
		framed = append(framed, d...)
	}
	inner, err := h.digestValue(ann.Value)
	if err != nil {
		return nil, err
	}
	framed = append(framed, inner...)
	framed = append(framed, 0x0E)

	sum := h.newHash()
	sum.Write(framed)
	return sum.Sum(nil), nil
}

const (
	tqAnnotation            = 0xE0 | qualifierRepresentation
	qualifierNull           = 0x0F
	qualifierRepresentation = 0x00
)

func typeNibble(t ion.Type) byte {
	switch t {
	case ion.NullType:
		return 0x00
	case ion.BoolType:
		return 0x10
	case ion.IntType:
		return 0x20
	case ion.FloatType:
		return 0x40
	case ion.DecimalType:
		return 0x50
	case ion.TimestampType:
		return 0x60
	case ion.SymbolType:
		return 0x70
	case ion.StringType:
		return 0x80
	case ion.ClobType:
		return 0x90
	case ion.BlobType:
		return 0xA0
	case ion.ListType:
		return 0xB0
	case ion.SexpType:
		return 0xC0
	case ion.StructType:
		return 0xD0
	default:
		return 0x00
	}
}

// representation computes a value's TQ byte and representation payload.
// Container representations are the byte-lexicographically sorted
// concatenation of child digests, per the Ion Hash "nested" rule; everything
// else is the value's own binary-style payload.
func (h *Hasher) representation(v ion.Value) (byte, []byte, error) {
	if v.IsNull() {
		return typeNibble(v.Type()) | qualifierNull, nil, nil
	}

	switch tv := v.(type) {
	case ion.Bool:
		q := byte(0x00)
		if tv {
			q = 0x01
		}
		return 0x10 | q, nil, nil

	case ion.Int:
		bi := tv.BigInt()
		if bi.Sign() == 0 {
			return 0x20 | qualifierRepresentation, nil, nil
		}
		code := typeNibble(ion.IntType)
		if bi.Sign() < 0 {
			code = 0x30
		}
		return code | qualifierRepresentation, new(big.Int).Abs(bi).Bytes(), nil

	case ion.Float32:
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], math.Float32bits(float32(tv)))
		return typeNibble(ion.FloatType) | qualifierRepresentation, buf[:], nil

	case ion.Float64:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(float64(tv)))
		return typeNibble(ion.FloatType) | qualifierRepresentation, buf[:], nil

	case ion.Decimal:
		return typeNibble(ion.DecimalType) | qualifierRepresentation, decimalRepresentation(tv), nil

	case ion.Timestamp:
		return typeNibble(ion.TimestampType) | qualifierRepresentation, timestampRepresentation(tv), nil

	case ion.Symbol:
		if tv.NoText {
			if !h.allowUnknownText {
				return 0, nil, &UnknownSymbolTextError{}
			}
			return typeNibble(ion.SymbolType) | qualifierNull, nil, nil
		}
		return typeNibble(ion.SymbolType) | qualifierRepresentation, []byte(tv.Text), nil

	case ion.String:
		return typeNibble(ion.StringType) | qualifierRepresentation, []byte(tv), nil

	case ion.Clob:
		return typeNibble(ion.ClobType) | qualifierRepresentation, []byte(tv), nil

	case ion.Blob:
		return typeNibble(ion.BlobType) | qualifierRepresentation, []byte(tv), nil

	case ion.List:
		rep, err := h.sortedChildRepresentation([]ion.Value(tv))
		return typeNibble(ion.ListType) | qualifierRepresentation, rep, err

	case ion.SExpr:
		rep, err := h.sortedChildRepresentation([]ion.Value(tv))
		return typeNibble(ion.SexpType) | qualifierRepresentation, rep, err

	case *ion.Struct:
		rep, err := h.structRepresentation(tv)
		return typeNibble(ion.StructType) | qualifierRepresentation, rep, err

	default:
		return 0, nil, xerrors.Errorf("ionhash: no representation defined for %T", v)
	}
}

func (h *Hasher) sortedChildRepresentation(children []ion.Value) ([]byte, error) {
	hashes := make([][]byte, 0, len(children))
	for _, c := range children {
		d, err := h.digestValue(c)
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, d)
	}
	return sortedConcat(hashes), nil
}

func (h *Hasher) structRepresentation(st *ion.Struct) ([]byte, error) {
	hashes := make([][]byte, 0, st.Len())
	for _, f := range st.Fields() {
		nameHash, err := h.digestValue(ion.NewSymbol(f.Name))
		if err != nil {
			return nil, err
		}
		valueHash, err := h.digestValue(f.Value)
		if err != nil {
			return nil, err
		}

		sum := h.newHash()
		sum.Write(nameHash)
		sum.Write(valueHash)
		hashes = append(hashes, sum.Sum(nil))
	}
	return sortedConcat(hashes), nil
}

func sortedConcat(hashes [][]byte) []byte {
	sort.Slice(hashes, func(i, j int) bool {
		return bytes.Compare(hashes[i], hashes[j]) < 0
	})
	var out []byte
	for _, hb := range hashes {
		out = append(out, hb...)
	}
	return out
}

// escape inserts 0x0C before each occurrence of the three octets that would
// otherwise be ambiguous with the framing markers (0x0B start, 0x0C escape,
// 0x0E end).
func escape(b []byte) []byte {
	needsEscape := false
	for _, c := range b {
		if c == 0x0B || c == 0x0C || c == 0x0E {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return b
	}

	out := make([]byte, 0, len(b)+4)
	for _, c := range b {
		if c == 0x0B || c == 0x0C || c == 0x0E {
			out = append(out, 0x0C)
		}
		out = append(out, c)
	}
	return out
}

func decimalRepresentation(d ion.Decimal) []byte {
	var body []byte
	body = appendVarInt(body, int64(d.Exponent))

	if d.IsNegativeZero() {
		return append(body, 0x80)
	}
	if d.Coefficient.Sign() == 0 {
		return body
	}

	mag := new(big.Int).Abs(d.Coefficient).Bytes()
	if mag[0]&0x80 != 0 {
		lead := byte(0)
		if d.Coefficient.Sign() < 0 {
			lead = 0x80
		}
		body = append(body, lead)
		body = append(body, mag...)
		return body
	}
	if d.Coefficient.Sign() < 0 {
		mag[0] |= 0x80
	}
	return append(body, mag...)
}

func timestampRepresentation(ts ion.Timestamp) []byte {
	var body []byte
	if ts.OffsetUnknown() {
		body = append(body, 0xC0)
	} else {
		body = appendVarInt(body, int64(ts.OffsetMinutes()))
	}

	y, mo, day := ts.DateTime.Date()
	body = appendVarUint(body, uint64(y))
	if ts.Precision() == ion.Year {
		return body
	}
	body = appendVarUint(body, uint64(mo))
	if ts.Precision() == ion.Month {
		return body
	}
	body = appendVarUint(body, uint64(day))
	if ts.Precision() == ion.Day {
		return body
	}

	hr, mi, sec := ts.DateTime.Clock()
	body = appendVarUint(body, uint64(hr))
	body = appendVarUint(body, uint64(mi))
	if ts.Precision() == ion.Minute {
		return body
	}
	body = appendVarUint(body, uint64(sec))
	if ts.Precision() == ion.Second {
		return body
	}

	digits := int(ts.FractionDigits())
	if digits == 0 {
		digits = 9
	}
	nsec := ts.DateTime.Nanosecond()
	scale := 9 - digits
	coeff := int64(nsec)
	for i := 0; i < scale; i++ {
		coeff /= 10
	}
	body = appendVarInt(body, int64(-digits))
	if coeff != 0 {
		body = appendUint(body, uint64(coeff))
	}
	return body
}

// appendVarUint, appendVarInt, and appendUint duplicate ion package
// internals deliberately: Ion Hash's representation bytes are computed by a
// module independent of the wire encoder, as in the original implementation
// (ion_hash_encoder.rs lived apart from the main encoder).

func appendVarUint(b []byte, v uint64) []byte {
	var buf [10]byte
	i := 9
	buf[i] = 0x80 | byte(v&0x7F)
	v >>= 7
	for v > 0 {
		i--
		buf[i] = byte(v & 0x7F)
		v >>= 7
	}
	return append(b, buf[i:]...)
}

func appendVarInt(b []byte, v int64) []byte {
	var buf [10]byte

	signbit := byte(0)
	mag := uint64(v)
	if v < 0 {
		signbit = 0x40
		mag = uint64(-v)
	}

	next := mag >> 6
	if next == 0 {
		return append(b, 0x80|signbit|byte(mag&0x3F))
	}

	i := 9
	buf[i] = 0x80 | byte(mag&0x7F)
	mag >>= 7
	next = mag >> 6

	for next > 0 {
		i--
		buf[i] = byte(mag & 0x7F)
		mag >>= 7
		next = mag >> 6
	}

	i--
	buf[i] = signbit | byte(mag&0x3F)

	return append(b, buf[i:]...)
}

func appendUint(b []byte, v uint64) []byte {
	var buf [8]byte
	i := 7
	buf[i] = byte(v & 0xFF)
	v >>= 8
	for v > 0 {
		i--
		buf[i] = byte(v & 0xFF)
		v >>= 8
	}
	return append(b, buf[i:]...)
}
