package sqlschema

// Tables is the mutable catalog of tracked table definitions, keyed by
// TableID. It is exclusively mutated by the DDL interpreter; downstream
// consumers read it between statements. Callers must serialize access, the
// catalog performs no locking of its own.
type Tables struct {
	tables map[TableID]*Table
}

// NewTables returns an empty catalog.
func NewTables() *Tables {
	return &Tables{tables: make(map[TableID]*Table)}
}

// Len returns the number of tracked tables.
func (t *Tables) Len() int {
	return len(t.tables)
}

// Get returns the table with the given identity, or nil if untracked.
func (t *Tables) Get(id TableID) *Table {
	return t.tables[id]
}

// Lookup is Get by string triple, for callers which don't build TableIDs.
func (t *Tables) Lookup(database, schema, table string) *Table {
	return t.tables[TableID{Database: database, Schema: schema, Table: table}]
}

// Put registers the table under its own identity, replacing any prior
// definition outright.
func (t *Tables) Put(table *Table) {
	t.tables[table.ID] = table
}

// Remove deletes and returns the named table, or nil if it wasn't tracked.
func (t *Tables) Remove(id TableID) *Table {
	var table = t.tables[id]
	delete(t.tables, id)
	return table
}

// IDs returns the identities of all tracked tables, in no particular order.
func (t *Tables) IDs() []TableID {
	var out = make([]TableID, 0, len(t.tables))
	for id := range t.tables {
		out = append(out, id)
	}
	return out
}
