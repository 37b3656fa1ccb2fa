package sqlschema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Table is one tracked table definition: an insertion-ordered set of columns
// plus an ordered primary-key column name list. Columns are keyed by name and
// hold dense 1..N positions matching their current order; every structural
// mutation renumbers.
//
// A Table is not safe for concurrent mutation. The DDL interpreter mutates a
// private clone and swaps it into the catalog, so readers holding a *Table
// obtained between statements always see a consistent definition.
type Table struct {
	ID TableID

	// DefaultCharset is the table-level DEFAULT CHARACTER SET, if declared.
	// It participates in charset resolution for columns added by later
	// ALTER statements.
	DefaultCharset string

	columns    *orderedmap.OrderedMap[string, *Column]
	primaryKey []string
}

// NewTable returns an empty table definition with the given identity.
func NewTable(id TableID) *Table {
	return &Table{
		ID:      id,
		columns: orderedmap.New[string, *Column](),
	}
}

// Len returns the number of columns.
func (t *Table) Len() int {
	return t.columns.Len()
}

// Column returns the named column, or nil if absent.
func (t *Table) Column(name string) *Column {
	var col, _ = t.columns.Get(name)
	return col
}

// Columns returns the columns in positional order.
func (t *Table) Columns() []*Column {
	var out = make([]*Column, 0, t.columns.Len())
	for pair := t.columns.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// ColumnNames returns the column names in positional order.
func (t *Table) ColumnNames() []string {
	var out = make([]string, 0, t.columns.Len())
	for pair := t.columns.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// AddColumn appends a column at the end of the table. A column with the same
// name is replaced in place instead, keeping its position.
func (t *Table) AddColumn(col *Column) {
	t.columns.Set(col.Name, col)
	t.renumber()
}

// InsertColumnFirst places the column at position 1, shifting the rest down.
func (t *Table) InsertColumnFirst(col *Column) {
	t.columns.Set(col.Name, col)
	t.columns.MoveToFront(col.Name)
	t.renumber()
}

// InsertColumnAfter places the column immediately after the named anchor
// column. An unknown anchor appends at the end instead.
func (t *Table) InsertColumnAfter(col *Column, after string) {
	t.columns.Set(col.Name, col)
	if _, ok := t.columns.Get(after); ok && after != col.Name {
		t.columns.MoveAfter(col.Name, after)
	} else {
		t.columns.MoveToBack(col.Name)
	}
	t.renumber()
}

// ReplaceColumn swaps the definition of an existing column, preserving its
// position in the column order. It reports whether the column existed.
func (t *Table) ReplaceColumn(name string, col *Column) bool {
	var prev, ok = t.columns.Get(name)
	if !ok {
		return false
	}
	if col.Name == name {
		col.Position = prev.Position
		t.columns.Set(name, col)
		return true
	}
	// Renamed column: splice the new name in at the old slot.
	t.columns.Set(col.Name, col)
	t.columns.MoveAfter(col.Name, name)
	t.columns.Delete(name)
	for i, pk := range t.primaryKey {
		if pk == name {
			t.primaryKey[i] = col.Name
		}
	}
	t.renumber()
	return true
}

// RemoveColumn deletes the named column, renumbers the remainder, and drops
// the name from the primary-key list. It reports whether a column was removed.
func (t *Table) RemoveColumn(name string) bool {
	if _, ok := t.columns.Delete(name); !ok {
		return false
	}
	var pk = t.primaryKey[:0]
	for _, col := range t.primaryKey {
		if col != name {
			pk = append(pk, col)
		}
	}
	t.primaryKey = pk
	t.renumber()
	return true
}

// SetPrimaryKey replaces the primary-key column list. Names that do not match
// an existing column are dropped rather than recorded dangling.
func (t *Table) SetPrimaryKey(names ...string) {
	t.primaryKey = nil
	for _, name := range names {
		if _, ok := t.columns.Get(name); ok {
			t.primaryKey = append(t.primaryKey, name)
		}
	}
}

// PrimaryKey returns the ordered primary-key column names.
func (t *Table) PrimaryKey() []string {
	var out = make([]string, len(t.primaryKey))
	copy(out, t.primaryKey)
	return out
}

// Clone returns a deep copy sharing no state with the receiver.
func (t *Table) Clone() *Table {
	var out = NewTable(t.ID)
	out.DefaultCharset = t.DefaultCharset
	for pair := t.columns.Oldest(); pair != nil; pair = pair.Next() {
		out.columns.Set(pair.Key, pair.Value.Clone())
	}
	out.primaryKey = append([]string(nil), t.primaryKey...)
	return out
}

func (t *Table) renumber() {
	var pos = 1
	for pair := t.columns.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.Position = pos
		pos++
	}
}
