// Package sqlschema models relational schema information tracked out-of-band
// from a replicated database: table identities, typed columns with stable
// ordinal positions, and a mutable catalog of table definitions. It holds no
// dialect knowledge; the mysqlddl package mutates it as DDL is interpreted.
package sqlschema

// GenericType is a dialect-independent classification of a column type,
// analogous to the standard SQL type categories. The dialect-specific type
// keyword is preserved separately in Column.TypeName.
type GenericType int

const (
	TypeOther GenericType = iota
	TypeBit
	TypeTinyInt
	TypeSmallInt
	TypeInteger
	TypeBigInt
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeChar
	TypeVarchar
	TypeBinary
	TypeVarBinary
	TypeBlob
	TypeDate
	TypeTime
	TypeTimestamp
	TypeBoolean
)

var genericTypeNames = map[GenericType]string{
	TypeOther:     "OTHER",
	TypeBit:       "BIT",
	TypeTinyInt:   "TINYINT",
	TypeSmallInt:  "SMALLINT",
	TypeInteger:   "INTEGER",
	TypeBigInt:    "BIGINT",
	TypeFloat:     "FLOAT",
	TypeDouble:    "DOUBLE",
	TypeDecimal:   "DECIMAL",
	TypeChar:      "CHAR",
	TypeVarchar:   "VARCHAR",
	TypeBinary:    "BINARY",
	TypeVarBinary: "VARBINARY",
	TypeBlob:      "BLOB",
	TypeDate:      "DATE",
	TypeTime:      "TIME",
	TypeTimestamp: "TIMESTAMP",
	TypeBoolean:   "BOOLEAN",
}

func (t GenericType) String() string {
	if name, ok := genericTypeNames[t]; ok {
		return name
	}
	return "OTHER"
}
