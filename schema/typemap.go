package schema

import "strings"

// TypeMap translates between native column types and semantic types.
//
// The mapping is not symmetric. Several native types collapse onto one semantic
// type, so native to semantic to native does not reproduce the original name.
// A TypeMap is read-only after construction and safe for concurrent use.
type TypeMap struct {
	semantic map[string]Type
	native   map[Type]string
	booleans map[string]bool
}

// NewTypeMap builds a type map. Keys of semantic are lower-case base type names.
// booleans lists full native spellings that mean BOOLEAN before normalisation,
// such as "tinyint(1)".
func NewTypeMap(semantic map[string]Type, native map[Type]string, booleans ...string) *TypeMap {
	m := &TypeMap{
		semantic: make(map[string]Type, len(semantic)),
		native:   make(map[Type]string, len(native)),
		booleans: make(map[string]bool, len(booleans)+1),
	}
	for k, v := range semantic {
		m.semantic[strings.ToLower(k)] = v
	}
	for k, v := range native {
		m.native[k] = v
	}
	m.booleans["boolean"] = true
	for _, b := range booleans {
		m.booleans[strings.ToLower(b)] = true
	}
	return m
}

// Semantic maps a native type name to its semantic type.
// The name is cut at the first parenthesis and the first space and lower-cased;
// unknown names map to STRING.
func (m *TypeMap) Semantic(native string) Type {
	if m.booleans[strings.ToLower(strings.TrimSpace(native))] {
		return Boolean
	}
	if t, ok := m.semantic[Normalize(native)]; ok {
		return t
	}
	return String
}

// Native maps a semantic type to the native type used in DDL.
func (m *TypeMap) Native(t Type) (string, bool) {
	n, ok := m.native[t]
	return n, ok
}

// Normalize reduces a native type spelling to its lower-case base name,
// e.g. "VARCHAR(255)" to "varchar" and "timestamp without time zone" to "timestamp".
func Normalize(native string) string {
	native = strings.TrimSpace(native)
	if i := strings.IndexByte(native, '('); i >= 0 {
		native = native[:i]
	}
	if i := strings.IndexByte(native, ' '); i > 0 {
		native = native[:i]
	}
	return strings.ToLower(strings.TrimRight(native, " "))
}
