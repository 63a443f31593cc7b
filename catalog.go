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

// A Catalog provides access to shared symbol tables a decoder may need to
// resolve a local symbol table's imports. Callers populate a Catalog before
// decoding; the library never mutates one itself.
type Catalog interface {
	// FindExact finds the shared symbol table with the given name and
	// version, or nil if absent.
	FindExact(name string, version int) SharedSymbolTable
	// FindLatest finds the shared symbol table with the given name and the
	// largest known version, or nil if absent.
	FindLatest(name string) SharedSymbolTable
	// Add registers a shared symbol table, making it resolvable by
	// subsequent FindExact/FindLatest calls.
	Add(sst SharedSymbolTable)
}

type basicCatalog struct {
	ssts   map[string]SharedSymbolTable
	latest map[string]SharedSymbolTable
}

// NewCatalog creates an in-memory Catalog seeded with the given shared
// symbol tables.
func NewCatalog(ssts ...SharedSymbolTable) Catalog {
	cat := &basicCatalog{
		ssts:   make(map[string]SharedSymbolTable),
		latest: make(map[string]SharedSymbolTable),
	}
	for _, sst := range ssts {
		cat.Add(sst)
	}
	return cat
}

func (c *basicCatalog) Add(sst SharedSymbolTable) {
	key := fmt.Sprintf("%v/%v", sst.Name(), sst.Version())
	c.ssts[key] = sst

	cur, ok := c.latest[sst.Name()]
	if !ok || sst.Version() > cur.Version() {
		c.latest[sst.Name()] = sst
	}
}

func (c *basicCatalog) FindExact(name string, version int) SharedSymbolTable {
	key := fmt.Sprintf("%v/%v", name, version)
	return c.ssts[key]
}

func (c *basicCatalog) FindLatest(name string) SharedSymbolTable {
	return c.latest[name]
}
