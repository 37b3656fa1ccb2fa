// Package mysqlddl interprets the stream of raw DDL statement text observed
// on a MySQL replication connection, maintaining an in-memory sqlschema
// catalog that stays consistent with the live database without ever executing
// SQL. It deliberately errs on the side of leniency: statements it cannot
// understand are skipped so that schema tracking never halts a replication
// stream.
package mysqlddl

import (
	"strings"
)

type tokenKind int

const (
	tokenWord tokenKind = iota // bare identifier, possibly @-prefixed
	tokenKeyword
	tokenQuotedIdent // `x` or "x"
	tokenString      // '...'
	tokenNumber
	tokenSymbol
)

// token is one lexical element of a statement. Text holds the decoded form
// for quoted kinds and the original casing for words; Pos is the byte offset
// of the token within its statement.
type token struct {
	kind tokenKind
	text string
	pos  int
}

// ddlKeywords is the fixed, case-insensitive keyword vocabulary of the
// subset of the dialect this interpreter understands. Process-wide constant
// data, never mutated after init.
var ddlKeywords = map[string]bool{}

func init() {
	for _, kw := range []string{
		"ADD", "AFTER", "ALTER", "AS", "AUTO_INCREMENT", "BINARY", "BY",
		"CASCADE", "CHANGE", "CHARACTER", "CHARSET", "CHECK", "COLLATE",
		"COLUMN", "COMMENT", "CONSTRAINT", "CREATE", "DATABASE", "DEFAULT",
		"DROP", "ENGINE", "ENUM", "EXISTS", "FIRST", "FOREIGN", "FULLTEXT",
		"GLOBAL", "GRANT", "IF", "INDEX", "KEY", "LIKE", "LOCAL", "MODIFY",
		"NAMES", "NOT", "NULL", "ON", "PRIMARY", "REFERENCES", "RENAME",
		"RESTRICT", "REVOKE", "SCHEMA", "SESSION", "SET", "SIGNED",
		"SPATIAL", "TABLE", "TO", "UNIQUE", "UNSIGNED", "UPDATE", "USE",
		"USING", "ZEROFILL",
	} {
		ddlKeywords[kw] = true
	}
}

// SplitStatements segments a script into individual statements on `;`
// boundaries, ignoring terminators inside quoted spans and comments. Each
// statement is the exact original text with surrounding whitespace, comments,
// and the terminator stripped; blank and comment-only segments produce
// nothing. A trailing statement without a terminator is still emitted.
func SplitStatements(script string) []string {
	var stmts []string
	var start = -1
	var emit = func(end int) {
		if start >= 0 {
			if stmt := strings.TrimSpace(script[start:end]); stmt != "" {
				stmts = append(stmts, stmt)
			}
			start = -1
		}
	}

	var i = 0
	for i < len(script) {
		var c = script[i]
		switch {
		case c == ';':
			emit(i)
			i++
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '\'' || c == '"' || c == '`':
			if start < 0 {
				start = i
			}
			i = skipQuoted(script, i)
		case c == '#':
			i = skipToLineEnd(script, i)
		case c == '-' && i+1 < len(script) && script[i+1] == '-':
			i = skipToLineEnd(script, i)
		case c == '/' && i+1 < len(script) && script[i+1] == '*':
			i = skipBlockComment(script, i)
		default:
			if start < 0 {
				start = i
			}
			i++
		}
	}
	emit(len(script))
	return stmts
}

// skipQuoted advances past a quoted span starting at index i, honoring both
// backslash escapes and doubled-quote escapes. An unterminated span runs to
// the end of input.
func skipQuoted(s string, i int) int {
	var quote = s[i]
	i++
	for i < len(s) {
		switch {
		case s[i] == '\\' && quote != '`' && i+1 < len(s):
			i += 2
		case s[i] == quote:
			if i+1 < len(s) && s[i+1] == quote {
				i += 2 // escaped by doubling
				continue
			}
			return i + 1
		default:
			i++
		}
	}
	return i
}

func skipToLineEnd(s string, i int) int {
	for i < len(s) && s[i] != '\n' {
		i++
	}
	return i
}

func skipBlockComment(s string, i int) int {
	i += 2
	for i < len(s) {
		if s[i] == '*' && i+1 < len(s) && s[i+1] == '/' {
			return i + 2
		}
		i++
	}
	return i
}

// scanTokens tokenizes a single statement. Comments and whitespace are
// discarded; quoted identifiers and string literals are decoded. Scanning is
// self-contained per statement, no lexer state survives between statements.
func scanTokens(stmt string) []token {
	var toks []token
	var i = 0
	for i < len(stmt) {
		var c = stmt[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '#':
			i = skipToLineEnd(stmt, i)
		case c == '-' && i+1 < len(stmt) && stmt[i+1] == '-':
			i = skipToLineEnd(stmt, i)
		case c == '/' && i+1 < len(stmt) && stmt[i+1] == '*':
			i = skipBlockComment(stmt, i)
		case c == '\'':
			var end = skipQuoted(stmt, i)
			toks = append(toks, token{kind: tokenString, text: unquote(stmt[i:end]), pos: i})
			i = end
		case c == '`' || c == '"':
			var end = skipQuoted(stmt, i)
			toks = append(toks, token{kind: tokenQuotedIdent, text: unquote(stmt[i:end]), pos: i})
			i = end
		case c >= '0' && c <= '9':
			var end = i
			for end < len(stmt) && (isDigit(stmt[end]) || stmt[end] == '.') {
				end++
			}
			toks = append(toks, token{kind: tokenNumber, text: stmt[i:end], pos: i})
			i = end
		case isWordStart(c):
			var end = i
			for end < len(stmt) && stmt[end] == '@' {
				end++ // @user and @@system variable prefixes
			}
			for end < len(stmt) && isWordChar(stmt[end]) {
				end++
			}
			var text = stmt[i:end]
			var kind = tokenWord
			if ddlKeywords[strings.ToUpper(text)] {
				kind = tokenKeyword
			}
			toks = append(toks, token{kind: kind, text: text, pos: i})
			i = end
		case c == ':' && i+1 < len(stmt) && stmt[i+1] == '=':
			toks = append(toks, token{kind: tokenSymbol, text: ":=", pos: i})
			i += 2
		default:
			toks = append(toks, token{kind: tokenSymbol, text: stmt[i : i+1], pos: i})
			i++
		}
	}
	return toks
}

// unquote strips the surrounding quote characters and decodes backslash and
// doubled-quote escapes.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	var quote = s[0]
	var body = s[1:]
	if body[len(body)-1] == quote {
		body = body[:len(body)-1]
	}
	var out strings.Builder
	for i := 0; i < len(body); i++ {
		switch {
		case body[i] == '\\' && quote != '`' && i+1 < len(body):
			i++
			out.WriteByte(body[i])
		case body[i] == quote && i+1 < len(body) && body[i+1] == quote:
			i++
			out.WriteByte(quote)
		default:
			out.WriteByte(body[i])
		}
	}
	return out.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordStart(c byte) bool {
	return c == '_' || c == '@' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isWordChar(c byte) bool {
	return isWordStart(c) && c != '@' || isDigit(c)
}
