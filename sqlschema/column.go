package sqlschema

// Column describes one column of a tracked table. Length and Scale are -1
// when not applicable to the type. Position is the 1-based ordinal of the
// column within its table; the owning Table keeps positions dense and
// contiguous as columns are added, moved, and removed.
type Column struct {
	Name            string
	TypeName        string
	Type            GenericType
	Length          int
	Scale           int
	Charset         string
	Optional        bool
	AutoIncremented bool
	Generated       bool
	Position        int
}

// Clone returns an independent copy of the column.
func (c *Column) Clone() *Column {
	var out = *c
	return &out
}
