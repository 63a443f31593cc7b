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

package ionhash

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"testing"

	ion "github.com/tetradata/ion-binary-go"
)

func TestHashIntZeroMatchesKnownDigest(t *testing.T) {
	// Integer(0) frames as 0x0B 0x20 0x0E: type nibble 0x20, qualifier bits
	// 0 (no nullity, no SID-0), empty representation. The qualifier must
	// not be OR'd into the type nibble for non-null values.
	want := sha256.Sum256([]byte{0x0B, 0x20, 0x0E})

	got, err := Hash(ion.NewInt(0), sha256.New)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !bytes.Equal(got, want[:]) {
		t.Errorf("Integer(0) digest: expected % x, got % x", want, got)
	}
}

func TestHashIntIsStable(t *testing.T) {
	a, err := Hash(ion.NewInt(1), sha256.New)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash(ion.NewInt(1), sha256.New)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("hashing the same value twice gave different digests: % x vs % x", a, b)
	}
}

func TestHashDistinguishesValues(t *testing.T) {
	a, err := Hash(ion.NewInt(1), sha256.New)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash(ion.NewInt(2), sha256.New)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("expected distinct values to hash differently")
	}
}

func TestHashStructFieldOrderIndependent(t *testing.T) {
	st1 := ion.NewStruct().Append("a", ion.NewInt(1)).Append("b", ion.NewInt(2))
	st2 := ion.NewStruct().Append("b", ion.NewInt(2)).Append("a", ion.NewInt(1))

	h1, err := Hash(st1, sha256.New)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := Hash(st2, sha256.New)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !bytes.Equal(h1, h2) {
		t.Errorf("structs with the same fields in different order hashed differently: % x vs % x", h1, h2)
	}
}

func TestHashListOrderSensitive(t *testing.T) {
	l1 := ion.List{ion.NewInt(1), ion.NewInt(2)}
	l2 := ion.List{ion.NewInt(2), ion.NewInt(1)}

	h1, err := Hash(l1, sha256.New)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := Hash(l2, sha256.New)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if bytes.Equal(h1, h2) {
		t.Error("expected lists with the same elements in different order to hash differently")
	}
}

func TestHashAnnotationWraps(t *testing.T) {
	plain, err := Hash(ion.Bool(true), sha256.New)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	annotated, err := Hash(ion.NewAnnotation([]string{"foo"}, ion.Bool(true)), sha256.New)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if bytes.Equal(plain, annotated) {
		t.Error("expected an annotated value to hash differently from its unannotated form")
	}
}

func TestHashNegativeZeroDecimalDiffersFromZero(t *testing.T) {
	negZero, err := Hash(ion.NewNegativeZeroDecimal(0), sha256.New)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	posZero, err := Hash(ion.NewDecimalInt(0, 0), sha256.New)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if bytes.Equal(negZero, posZero) {
		t.Error("expected -0. and 0. to hash differently under Ion Hash")
	}
}

func TestHashUnknownSymbolText(t *testing.T) {
	sym := ion.UnknownSymbol()

	_, err := Hash(sym, sha256.New)
	var u *UnknownSymbolTextError
	if !errors.As(err, &u) {
		t.Fatalf("expected UnknownSymbolTextError without the option, got %v", err)
	}

	digest, err := Hash(sym, sha256.New, WithUnknownSymbolText())
	if err != nil {
		t.Fatalf("Hash with WithUnknownSymbolText: %v", err)
	}
	if len(digest) == 0 {
		t.Error("expected a non-empty digest for SID-0 hashing")
	}
}

func TestHasherDotIsOrderIndependent(t *testing.T) {
	h1 := NewHasher(sha256.New)
	if err := h1.Add(ion.NewInt(1)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := h1.Add(ion.NewInt(2)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	h2 := NewHasher(sha256.New)
	if err := h2.Add(ion.NewInt(2)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := h2.Add(ion.NewInt(1)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if !bytes.Equal(h1.Sum(), h2.Sum()) {
		t.Error("expected dotting the same two values in either order to converge")
	}
}

func TestHasherAddHashedMatchesAdd(t *testing.T) {
	direct := NewHasher(sha256.New)
	if err := direct.Add(ion.NewInt(42)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	precomputed, err := Hash(ion.NewInt(42), sha256.New)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	viaAddHashed := NewHasher(sha256.New)
	viaAddHashed.AddHashed(precomputed)

	if !bytes.Equal(direct.Sum(), viaAddHashed.Sum()) {
		t.Error("expected AddHashed(Hash(v)) to match Add(v)")
	}
}

func TestEscapeInsertsEscapeBytes(t *testing.T) {
	in := []byte{0x01, 0x0B, 0x02, 0x0C, 0x03, 0x0E, 0x04}
	out := escape(in)
	want := []byte{0x01, 0x0C, 0x0B, 0x02, 0x0C, 0x0C, 0x03, 0x0C, 0x0E, 0x04}
	if !bytes.Equal(out, want) {
		t.Errorf("expected % x, got % x", want, out)
	}

	noEscapes := []byte{0x01, 0x02, 0x03}
	if out := escape(noEscapes); !bytes.Equal(out, noEscapes) {
		t.Errorf("expected unescaped bytes unchanged, got % x", out)
	}
}
