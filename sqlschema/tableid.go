package sqlschema

// TableID uniquely identifies a table within a catalog. Database and Schema
// are both optional; MySQL only ever populates Database, but the Schema slot
// is kept so that identifiers generalize to three-part-name dialects.
// Comparisons are case-sensitive, matching server behavior on the
// case-sensitive filesystems it defaults to.
type TableID struct {
	Database string
	Schema   string
	Table    string
}

// String renders the identifier in dotted form, omitting empty parts.
func (id TableID) String() string {
	var out string
	if id.Database != "" {
		out = id.Database + "."
	}
	if id.Schema != "" {
		out += id.Schema + "."
	}
	return out + id.Table
}
