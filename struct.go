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

// Field is one (name, value) pair of a Struct, named by symbol text rather
// than numeric id at the value layer.
type Field struct {
	Name  string
	Value Value
}

// Struct is an Ion struct: an ordered sequence of named fields. Decoding
// preserves wire order; equality (see Equal) is a multiset over (name,
// value) pairs, not positional.
type Struct struct {
	fields []Field
}

// NewStruct returns an empty Struct builder.
func NewStruct() *Struct {
	return &Struct{}
}

// Append adds a field to the end of the struct, preserving insertion order.
// Like Set (its alias), it does not deduplicate by name: Ion structs may
// legally repeat a field name.
func (s *Struct) Append(name string, v Value) *Struct {
	s.fields = append(s.fields, Field{Name: name, Value: v})
	return s
}

// Set is an alias for Append, read naturally at call sites that build a
// struct field by field.
func (s *Struct) Set(name string, v Value) *Struct {
	return s.Append(name, v)
}

// Fields returns the fields in wire order.
func (s *Struct) Fields() []Field {
	return s.fields
}

// Len returns the number of fields, including repeated names.
func (s *Struct) Len() int {
	return len(s.fields)
}

// Find returns the value of the first field with the given name, and true
// if found. Ion structs may repeat a name; callers that need every
// occurrence should range over Fields directly.
func (s *Struct) Find(name string) (Value, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (s *Struct) Type() Type   { return StructType }
func (s *Struct) IsNull() bool { return false }
