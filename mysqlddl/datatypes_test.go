package mysqlddl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vermilion1/schematrack/sqlschema"
)

func TestParseEnumAndSetOptions(t *testing.T) {
	for _, tc := range []struct {
		expr   string
		expect string
	}{
		{"ENUM('a','b','c')", "a,b,c"},
		{"ENUM('a')", "a"},
		{"ENUM()", ""},
		{"ENUM ('a','b','c') CHARACTER SET", "a,b,c"},
		{"ENUM ('a') CHARACTER SET", "a"},
		{"ENUM () CHARACTER SET", ""},
		{"SET('a','b','c')", "a,b,c"},
		{"SET('a')", "a"},
		{"SET()", ""},
		{"SET ('a','b','c') CHARACTER SET", "a,b,c"},
		{"SET ('a') CHARACTER SET", "a"},
		{"SET () CHARACTER SET", ""},
		{"ENUM('','ANY','X509','SPECIFIED')", ",ANY,X509,SPECIFIED"},
		{"ENUM('it''s','a\\'b')", "it's,a'b"},
		{"ENUM('a,b','c')", "a,b,c"},
	} {
		t.Run(tc.expr, func(t *testing.T) {
			var options = ParseEnumAndSetOptions(tc.expr)
			require.Equal(t, tc.expect, strings.Join(options, ","))
		})
	}
}

func TestDataTypeResolve(t *testing.T) {
	for _, tc := range []struct {
		name    string
		dt      dataType
		generic sqlschema.GenericType
		length  int
		scale   int
	}{
		{"PlainInt", dataType{name: "INT", length: -1, scale: -1}, sqlschema.TypeInteger, -1, -1},
		{"IntegerSynonym", dataType{name: "INTEGER", length: -1, scale: -1}, sqlschema.TypeInteger, -1, -1},
		{"IntDisplayWidth", dataType{name: "INT", length: 11, scale: -1}, sqlschema.TypeInteger, 11, -1},
		{"UnsignedKeepsCode", dataType{name: "INT UNSIGNED", length: -1, scale: -1}, sqlschema.TypeInteger, -1, -1},
		{"SignedBigint", dataType{name: "BIGINT SIGNED", length: -1, scale: -1}, sqlschema.TypeBigInt, -1, -1},
		{"Varchar", dataType{name: "VARCHAR", length: 22, scale: -1}, sqlschema.TypeVarchar, 22, -1},
		{"Decimal", dataType{name: "DECIMAL", length: 10, scale: 2}, sqlschema.TypeDecimal, 10, 2},
		{"Float", dataType{name: "FLOAT", length: -1, scale: -1}, sqlschema.TypeFloat, -1, -1},
		{"CharBinary", dataType{name: "CHAR BINARY", length: 60, scale: -1}, sqlschema.TypeBlob, 60, -1},
		{"TextIsVarcharFamily", dataType{name: "MEDIUMTEXT", length: -1, scale: -1}, sqlschema.TypeVarchar, -1, -1},
		{"EnumLongestOption", dataType{name: "ENUM", length: -1, scale: -1, options: []string{"", "ANY", "X509", "SPECIFIED"}}, sqlschema.TypeChar, 9, -1},
		{"EnumSingleChar", dataType{name: "ENUM", length: -1, scale: -1, options: []string{"a", "b", "c"}}, sqlschema.TypeChar, 1, -1},
		{"EnumEmpty", dataType{name: "ENUM", length: -1, scale: -1, options: []string{}}, sqlschema.TypeChar, 0, -1},
		{"SetJoinedLength", dataType{name: "SET", length: -1, scale: -1, options: []string{"a", "b", "c"}}, sqlschema.TypeChar, 5, -1},
		{"SetSingleOption", dataType{name: "SET", length: -1, scale: -1, options: []string{"a"}}, sqlschema.TypeChar, 1, -1},
		{"SetEmptyOption", dataType{name: "SET", length: -1, scale: -1, options: []string{""}}, sqlschema.TypeChar, 1, -1},
		{"SetNoOptions", dataType{name: "SET", length: -1, scale: -1, options: []string{}}, sqlschema.TypeChar, 0, -1},
		{"UnknownIsOther", dataType{name: "GEOMETRY", length: -1, scale: -1}, sqlschema.TypeOther, -1, -1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var generic, length, scale = tc.dt.resolve()
			require.Equal(t, tc.generic, generic)
			require.Equal(t, tc.length, length)
			require.Equal(t, tc.scale, scale)
		})
	}
}
