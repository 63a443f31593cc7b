package ion

import "fmt"

// A SymbolTable maps binary-representation symbol IDs to text-representation
// strings and vice versa.
type SymbolTable interface {
	// Imports returns the symbol tables this table imports, system table first.
	Imports() []SharedSymbolTable
	// Symbols returns the symbols this symbol table defines locally.
	Symbols() []string
	// MaxID returns the maximum ID this symbol table defines.
	MaxID() uint64

	// FindByName finds the ID of a symbol by its name.
	FindByName(symbol string) (uint64, bool)
	// FindByID finds the name of a symbol given its ID.
	FindByID(id uint64) (string, bool)
}

// A SharedSymbolTable is distributed out-of-band and referenced from a local
// SymbolTable's imports to save space on the wire.
type SharedSymbolTable interface {
	SymbolTable

	// Name returns the name of this shared symbol table.
	Name() string
	// Version returns the version of this shared symbol table.
	Version() int
	// Adjust returns a new shared symbol table limited or extended to the
	// given max ID, per the import's declared max_id.
	Adjust(maxID uint64) SharedSymbolTable
}

type sst struct {
	name    string
	version int
	symbols []string
	index   map[string]uint64
	maxID   uint64
}

// NewSharedSymbolTable creates a new shared symbol table for registration in
// a Catalog.
func NewSharedSymbolTable(name string, version int, symbols []string) SharedSymbolTable {
	syms := make([]string, len(symbols))
	copy(syms, symbols)

	return &sst{
		name:    name,
		version: version,
		symbols: syms,
		index:   buildIndex(syms, 1),
		maxID:   uint64(len(syms)),
	}
}

func (s *sst) Name() string    { return s.name }
func (s *sst) Version() int    { return s.version }
func (s *sst) Imports() []SharedSymbolTable {
	return nil
}

func (s *sst) Symbols() []string {
	syms := make([]string, s.maxID)
	copy(syms, s.symbols)
	return syms
}

func (s *sst) MaxID() uint64 { return s.maxID }

func (s *sst) Adjust(maxID uint64) SharedSymbolTable {
	if maxID == s.maxID {
		return s
	}

	if maxID > uint64(len(s.symbols)) {
		return &sst{name: s.name, version: s.version, symbols: s.symbols, index: s.index, maxID: maxID}
	}

	symbols := s.symbols[:maxID]
	return &sst{name: s.name, version: s.version, symbols: symbols, index: buildIndex(symbols, 1), maxID: maxID}
}

func (s *sst) FindByName(sym string) (uint64, bool) {
	id, ok := s.index[sym]
	return id, ok
}

func (s *sst) FindByID(id uint64) (string, bool) {
	if id <= 0 || id > uint64(len(s.symbols)) {
		return "", false
	}
	return s.symbols[id-1], true
}

// V1SystemSymbolTable is the implied system symbol table for Ion 1.0,
// occupying ids 1 through 9 in every table.
var V1SystemSymbolTable = NewSharedSymbolTable("$ion", 1, []string{
	"$ion",
	"$ion_1_0",
	"$ion_symbol_table",
	"name",
	"version",
	"imports",
	"symbols",
	"max_id",
	"$ion_shared_symbol_table",
})

// A bogusSST represents a shared table imported by a local table that cannot
// be found in the catalog but carries an explicit max_id. It reserves the ID
// range with unknown text so subsequent imports still land on the right IDs.
type bogusSST struct {
	name    string
	version int
	maxID   uint64
}

var _ SharedSymbolTable = &bogusSST{}

func (s *bogusSST) Name() string               { return s.name }
func (s *bogusSST) Version() int               { return s.version }
func (s *bogusSST) Imports() []SharedSymbolTable { return nil }
func (s *bogusSST) Symbols() []string          { return nil }
func (s *bogusSST) MaxID() uint64              { return s.maxID }

func (s *bogusSST) Adjust(maxID uint64) SharedSymbolTable {
	return &bogusSST{name: s.name, version: s.version, maxID: maxID}
}

func (s *bogusSST) FindByName(sym string) (uint64, bool) { return 0, false }
func (s *bogusSST) FindByID(id uint64) (string, bool)    { return "", false }

// A lst is a local symbol table, transmitted in-band along with the binary
// data it describes. It may include SharedSymbolTables by reference.
type lst struct {
	imports     []SharedSymbolTable
	offsets     []uint64
	maxImportID uint64

	symbols []string
	index   map[string]uint64
}

// NewLocalSymbolTable creates a new local symbol table from the given
// imports (in declared order, not including the system table) and locally
// defined symbols.
func NewLocalSymbolTable(imports []SharedSymbolTable, symbols []string) SymbolTable {
	imps, offsets, maxID := processImports(imports)
	syms := make([]string, len(symbols))
	copy(syms, symbols)

	return &lst{
		imports:     imps,
		offsets:     offsets,
		maxImportID: maxID,
		symbols:     syms,
		index:       buildIndex(syms, maxID+1),
	}
}

func (t *lst) Imports() []SharedSymbolTable {
	imps := make([]SharedSymbolTable, len(t.imports))
	copy(imps, t.imports)
	return imps
}

func (t *lst) Symbols() []string {
	syms := make([]string, len(t.symbols))
	copy(syms, t.symbols)
	return syms
}

func (t *lst) MaxID() uint64 {
	return t.maxImportID + uint64(len(t.symbols))
}

func (t *lst) FindByName(s string) (uint64, bool) {
	for i, imp := range t.imports {
		if id, ok := imp.FindByName(s); ok {
			return t.offsets[i] + id, true
		}
	}

	if id, ok := t.index[s]; ok {
		return id, true
	}

	return 0, false
}

func (t *lst) FindByID(id uint64) (string, bool) {
	if id <= 0 {
		return "", false
	}
	if id <= t.maxImportID {
		return t.findByIDInImports(id)
	}

	idx := id - t.maxImportID - 1
	if idx < uint64(len(t.symbols)) {
		return t.symbols[idx], true
	}

	return "", false
}

func (t *lst) findByIDInImports(id uint64) (string, bool) {
	i := 1
	off := uint64(0)

	for ; i < len(t.imports); i++ {
		if id <= t.offsets[i] {
			break
		}
		off = t.offsets[i]
	}

	return t.imports[i-1].FindByID(id - off)
}

func (t *lst) String() string {
	return fmt.Sprintf("ion.SymbolTable{imports: %d, symbols: %v}", len(t.imports), t.symbols)
}

// processImports prepends the system table (if not already present),
// returning the augmented import list, each import's starting ID offset,
// and the combined max ID across all imports.
func processImports(imports []SharedSymbolTable) ([]SharedSymbolTable, []uint64, uint64) {
	var imps []SharedSymbolTable
	if len(imports) > 0 && imports[0].Name() == "$ion" {
		imps = make([]SharedSymbolTable, len(imports))
		copy(imps, imports)
	} else {
		imps = make([]SharedSymbolTable, len(imports)+1)
		imps[0] = V1SystemSymbolTable
		copy(imps[1:], imports)
	}

	maxID := uint64(0)
	offsets := make([]uint64, len(imps))
	for i, imp := range imps {
		offsets[i] = maxID
		maxID += imp.MaxID()
	}

	return imps, offsets, maxID
}

// buildIndex builds an index from symbol name to symbol ID, first definition
// of a repeated name wins per Ion's symbol table semantics.
func buildIndex(symbols []string, offset uint64) map[string]uint64 {
	index := make(map[string]uint64)

	for i, sym := range symbols {
		if sym != "" {
			if _, ok := index[sym]; !ok {
				index[sym] = offset + uint64(i)
			}
		}
	}

	return index
}
