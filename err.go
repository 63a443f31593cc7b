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

import "fmt"

// A UsageError is returned when an API is used in a way its contract forbids,
// e.g. handing the Encoder a Value implementation it does not recognise.
type UsageError struct {
	API string
	Msg string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("ion: usage error in %v: %v", e.API, e.Msg)
}

// An IOError wraps a failure reading from an underlying io.Reader.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("ion: i/o error: %v", e.Err)
}

// A TruncatedError is returned when the stream ends before a value's
// declared length, or a primitive's terminating byte, has been satisfied.
type TruncatedError struct {
	Offset uint64
	Msg    string
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("ion: truncated input: %v (offset %v)", e.Msg, e.Offset)
}

// A BinaryVersionMarkerNotFoundError is returned when a top-level 0xE0 byte
// does not start a well-formed binary version marker (E0 xx xx EA). A stream
// that has no leading binary version marker at all is not rejected: its
// values decode against the system symbol table.
type BinaryVersionMarkerNotFoundError struct {
	Offset uint64
}

func (e *BinaryVersionMarkerNotFoundError) Error() string {
	return fmt.Sprintf("ion: binary version marker not found (offset %v)", e.Offset)
}

// An UnsupportedVersionError is returned when a stream's binary version
// marker names a major/minor version this library does not understand.
type UnsupportedVersionError struct {
	Major  int
	Minor  int
	Offset uint64
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("ion: unsupported version %v.%v (offset %v)", e.Major, e.Minor, e.Offset)
}

// An InvalidReservedTypeError is returned when a typedesc names the reserved
// type code 15.
type InvalidReservedTypeError struct {
	Offset uint64
}

func (e *InvalidReservedTypeError) Error() string {
	return fmt.Sprintf("ion: reserved typedesc encountered (offset %v)", e.Offset)
}

// An InvalidBoolLengthError is returned when a bool typedesc's length
// nibble is anything other than 0 (false), 1 (true), or 15 (null.bool).
type InvalidBoolLengthError struct {
	Length byte
	Offset uint64
}

func (e *InvalidBoolLengthError) Error() string {
	return fmt.Sprintf("ion: invalid bool length %v (offset %v)", e.Length, e.Offset)
}

// A NegativeIntegerZeroError is returned when a negative-int typedesc
// describes a magnitude of zero, which Ion defines as illegal.
type NegativeIntegerZeroError struct {
	Offset uint64
}

func (e *NegativeIntegerZeroError) Error() string {
	return fmt.Sprintf("ion: negative integer zero is illegal (offset %v)", e.Offset)
}

// An InvalidUTF8Error is returned when a string's payload is not valid
// UTF-8.
type InvalidUTF8Error struct {
	Offset uint64
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("ion: invalid UTF-8 in string payload (offset %v)", e.Offset)
}

// An InvalidSymbolIDError is returned when a symbol value references an ID
// that is not present in the active symbol table.
type InvalidSymbolIDError struct {
	ID     uint64
	Offset uint64
}

func (e *InvalidSymbolIDError) Error() string {
	return fmt.Sprintf("ion: symbol ID %v not found in symbol table (offset %v)", e.ID, e.Offset)
}

// An InvalidTimestampError is returned when a timestamp's calendar fields
// describe an impossible date, or an out-of-range offset/fraction.
type InvalidTimestampError struct {
	Msg    string
	Offset uint64
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("ion: invalid timestamp: %v (offset %v)", e.Msg, e.Offset)
}

// An InvalidAnnotationStructureError is returned when an annotation
// wrapper's declared annotation-id-list length is zero or the wrapper has
// no wrapped value.
type InvalidAnnotationStructureError struct {
	Offset uint64
}

func (e *InvalidAnnotationStructureError) Error() string {
	return fmt.Sprintf("ion: invalid annotation wrapper structure (offset %v)", e.Offset)
}

// A StructFieldsNotSortedError is returned when a struct is declared with
// the sorted-fields length form (L=1) but its field IDs are not strictly
// ascending.
type StructFieldsNotSortedError struct {
	Offset uint64
}

func (e *StructFieldsNotSortedError) Error() string {
	return fmt.Sprintf("ion: struct declared sorted fields but field IDs are not strictly ascending (offset %v)", e.Offset)
}

// A DuplicateSymbolTableFieldError is returned when a local symbol table
// directive struct repeats one of "imports"/"symbols".
type DuplicateSymbolTableFieldError struct {
	Field string
}

func (e *DuplicateSymbolTableFieldError) Error() string {
	return fmt.Sprintf("ion: duplicate field %q in local symbol table directive", e.Field)
}

// An UnknownLocalTableImportError is returned when a local symbol table
// imports a shared table that is absent from the catalog and carries no
// explicit max_id to reserve its ID range.
type UnknownLocalTableImportError struct {
	Name    string
	Version int
}

func (e *UnknownLocalTableImportError) Error() string {
	return fmt.Sprintf("ion: import of shared table %v/%v not found in catalog and lacks a max_id", e.Name, e.Version)
}

// A SymbolNotFoundError describes a failed symbol-ID lookup. Nothing in this
// package returns it: SymbolTable.FindByID reports a miss with a false
// result, and the decoder reports an InvalidSymbolIDError.
type SymbolNotFoundError struct {
	ID uint64
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("ion: symbol ID %v not found", e.ID)
}

// A SymbolIDTooLargeError describes a symbol ID beyond what this library
// represents. Nothing in this package returns it; the encoder reports its
// own limit with SymbolTableOverflowError.
type SymbolIDTooLargeError struct {
	ID uint64
}

func (e *SymbolIDTooLargeError) Error() string {
	return fmt.Sprintf("ion: symbol ID %v too large", e.ID)
}

// A SymbolTableOverflowError is returned by the encoder when the local
// symbol table would need to assign an ID beyond 2^31-1.
type SymbolTableOverflowError struct {
	Count int
}

func (e *SymbolTableOverflowError) Error() string {
	return fmt.Sprintf("ion: local symbol table overflow, %v symbols assigned", e.Count)
}

// An InvalidUTF8StringError is returned by the encoder when a String or
// Symbol value's text is not valid UTF-8.
type InvalidUTF8StringError struct {
	Text string
}

func (e *InvalidUTF8StringError) Error() string {
	return fmt.Sprintf("ion: value text is not valid UTF-8: %q", e.Text)
}

// A NumericOverflowError describes a decimal or timestamp field outside the
// range this library can encode. The encoder does not check those ranges
// and never returns it.
type NumericOverflowError struct {
	Msg string
}

func (e *NumericOverflowError) Error() string {
	return fmt.Sprintf("ion: numeric overflow: %v", e.Msg)
}

// An InvalidLengthError is returned when a typedesc's length nibble (or its
// VarUInt-extended form) does not match any form this library understands
// for that type, e.g. a float of length other than 0, 4, or 8.
type InvalidLengthError struct {
	Length uint64
	Offset uint64
	Msg    string
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("ion: invalid length %v for %v (offset %v)", e.Length, e.Msg, e.Offset)
}
