package mysqlddl

import (
	"strings"
	"unicode/utf8"

	"github.com/vermilion1/schematrack/sqlschema"
)

// dataType is the parsed form of one column type expression, before
// resolution into a generic type code.
type dataType struct {
	name    string   // canonical uppercase keyword(s), e.g. "BIGINT SIGNED"
	length  int      // -1 when not declared
	scale   int      // -1 when not declared
	options []string // ENUM/SET option literals, declaration order
}

// genericTypes maps the base dialect type keyword to its generic
// classification. Signedness suffixes never change the classification, only
// the canonical name. Process-wide constant data.
var genericTypes = map[string]sqlschema.GenericType{
	"BIT":              sqlschema.TypeBit,
	"TINYINT":          sqlschema.TypeTinyInt,
	"BOOL":             sqlschema.TypeBoolean,
	"BOOLEAN":          sqlschema.TypeBoolean,
	"SMALLINT":         sqlschema.TypeSmallInt,
	"MEDIUMINT":        sqlschema.TypeInteger,
	"INT":              sqlschema.TypeInteger,
	"INTEGER":          sqlschema.TypeInteger,
	"BIGINT":           sqlschema.TypeBigInt,
	"YEAR":             sqlschema.TypeInteger,
	"FLOAT":            sqlschema.TypeFloat,
	"DOUBLE":           sqlschema.TypeDouble,
	"DOUBLE PRECISION": sqlschema.TypeDouble,
	"REAL":             sqlschema.TypeDouble,
	"DECIMAL":          sqlschema.TypeDecimal,
	"DEC":              sqlschema.TypeDecimal,
	"FIXED":            sqlschema.TypeDecimal,
	"NUMERIC":          sqlschema.TypeDecimal,
	"CHAR":             sqlschema.TypeChar,
	"NCHAR":            sqlschema.TypeChar,
	"VARCHAR":          sqlschema.TypeVarchar,
	"NVARCHAR":         sqlschema.TypeVarchar,
	"TINYTEXT":         sqlschema.TypeVarchar,
	"TEXT":             sqlschema.TypeVarchar,
	"MEDIUMTEXT":       sqlschema.TypeVarchar,
	"LONGTEXT":         sqlschema.TypeVarchar,
	"BINARY":           sqlschema.TypeBinary,
	"VARBINARY":        sqlschema.TypeVarBinary,
	"TINYBLOB":         sqlschema.TypeBlob,
	"BLOB":             sqlschema.TypeBlob,
	"MEDIUMBLOB":       sqlschema.TypeBlob,
	"LONGBLOB":         sqlschema.TypeBlob,
	"DATE":             sqlschema.TypeDate,
	"TIME":             sqlschema.TypeTime,
	"DATETIME":         sqlschema.TypeTimestamp,
	"TIMESTAMP":        sqlschema.TypeTimestamp,
	"ENUM":             sqlschema.TypeChar,
	"SET":              sqlschema.TypeChar,
	"JSON":             sqlschema.TypeOther,
}

// characterTypes are the base keywords for which a trailing BINARY modifier
// flips the classification to BLOB, mirroring how the server stores such
// columns with a binary collation.
var characterTypes = map[string]bool{
	"CHAR": true, "NCHAR": true, "VARCHAR": true, "NVARCHAR": true,
	"TINYTEXT": true, "TEXT": true, "MEDIUMTEXT": true, "LONGTEXT": true,
	"ENUM": true, "SET": true,
}

// resolve maps the parsed type expression onto a generic type code and the
// effective length and scale. Unknown type keywords classify as OTHER rather
// than failing, keeping interpretation lenient.
func (dt dataType) resolve() (sqlschema.GenericType, int, int) {
	var base = dt.name
	for _, suffix := range []string{" SIGNED", " UNSIGNED", " ZEROFILL"} {
		base = strings.ReplaceAll(base, suffix, "")
	}

	if strings.HasSuffix(base, " BINARY") {
		if characterTypes[strings.TrimSuffix(base, " BINARY")] {
			return sqlschema.TypeBlob, dt.length, dt.scale
		}
		base = strings.TrimSuffix(base, " BINARY")
	}

	switch base {
	case "ENUM":
		return sqlschema.TypeChar, longestOption(dt.options), dt.scale
	case "SET":
		return sqlschema.TypeChar, joinedOptionsLength(dt.options), dt.scale
	}

	var generic, ok = genericTypes[base]
	if !ok {
		generic = sqlschema.TypeOther
	}
	return generic, dt.length, dt.scale
}

// longestOption returns the character count of the longest ENUM option, the
// effective storage length of an ENUM column.
func longestOption(options []string) int {
	var longest = 0
	for _, opt := range options {
		if n := utf8.RuneCountInString(opt); n > longest {
			longest = n
		}
	}
	return longest
}

// joinedOptionsLength returns the effective length of a SET column: the
// length of all options joined by commas, with a floor of one when any
// options exist at all.
func joinedOptionsLength(options []string) int {
	if len(options) == 0 {
		return 0
	}
	var total = len(options) - 1
	for _, opt := range options {
		total += utf8.RuneCountInString(opt)
	}
	if total < 1 {
		return 1
	}
	return total
}

// ParseEnumAndSetOptions extracts the ordered option literals from an ENUM
// or SET type expression such as "ENUM('a','b','c') CHARACTER SET utf8".
// Options are returned unquoted with escapes decoded; trailing modifiers
// after the closing parenthesis are ignored. Usable standalone, independent
// of full statement parsing.
func ParseEnumAndSetOptions(typeExpression string) []string {
	var options = []string{}
	var i = strings.IndexByte(typeExpression, '(')
	if i < 0 {
		return options
	}
	i++
	for i < len(typeExpression) {
		switch typeExpression[i] {
		case ')':
			return options
		case '\'', '"':
			var end = skipQuoted(typeExpression, i)
			options = append(options, unquote(typeExpression[i:end]))
			i = end
		default:
			i++
		}
	}
	return options
}
