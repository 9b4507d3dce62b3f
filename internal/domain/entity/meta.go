package entity

// Accessor reads one field value off an entity, for building cursor
// boundaries out of fetched rows.
type Accessor[T any] func(*T) any

// Meta is the compile-time field registry for an entity type. Order-by and
// equality-filter keys are validated against Fields before any query is
// issued, so there is no per-request reflection.
type Meta[T any] struct {
	// Name is the entity type name used in not-found messages.
	Name string
	// Table is the storage table the entity maps to.
	Table string
	// Fields maps internal column names to accessors.
	Fields map[string]Accessor[T]
	// WriteOnly lists columns that bulk payloads may write but that are
	// not accepted as order or filter keys. Secrets belong here so their
	// values never end up inside a page token.
	WriteOnly []string
	// ID returns the surrogate identifier used as the pagination tie-break.
	ID func(*T) int64
}

// Has reports whether field names a queryable attribute of the entity.
func (m *Meta[T]) Has(field string) bool {
	_, ok := m.Fields[field]
	return ok
}

// HasColumn reports whether field names a writable column, queryable or
// not.
func (m *Meta[T]) HasColumn(field string) bool {
	if m.Has(field) {
		return true
	}
	for _, w := range m.WriteOnly {
		if w == field {
			return true
		}
	}
	return false
}

// Value reads the named field from ent.
func (m *Meta[T]) Value(ent *T, field string) (any, bool) {
	acc, ok := m.Fields[field]
	if !ok {
		return nil, false
	}
	return acc(ent), true
}
