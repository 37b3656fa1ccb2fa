package mysqlddl

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vermilion1/schematrack/sqlschema"
)

// Parser is the dialect engine: it recognizes statement kinds, extracts
// structural data, and drives mutation of a sqlschema catalog and its own
// SystemVariables store. One Parser instance accumulates session state
// (current database, variables, per-database charsets) across Parse calls.
//
// Parse never returns an error. Statements that are unrecognized or
// malformed are skipped so that a replication stream is never halted by an
// unsupported statement; the surrounding replication layer owns surfacing
// unparseable DDL through its own diagnostics.
type Parser struct {
	vars             *SystemVariables
	listeners        Listeners
	currentDatabase  string
	databaseCharsets map[string]string
}

// NewParser returns a parser with a fresh system-variables store and no
// current database.
func NewParser() *Parser {
	return &Parser{
		vars:             NewSystemVariables(),
		databaseCharsets: make(map[string]string),
	}
}

// AddListener registers a listener for structural change events.
func (p *Parser) AddListener(listener Listener) {
	p.listeners.Add(listener)
}

// SystemVariables exposes the parser's variable store for read access by
// collaborators needing session charset context.
func (p *Parser) SystemVariables() *SystemVariables {
	return p.vars
}

// CurrentDatabase returns the database selected by the most recent USE
// statement, or "" when none has been selected.
func (p *Parser) CurrentDatabase() string {
	return p.currentDatabase
}

// Parse interprets every statement of the script in order against the given
// catalog. Catalog mutations are applied whole-statement-at-a-time: listeners
// and concurrent-free readers only ever observe statement-boundary states.
func (p *Parser) Parse(script string, tables *sqlschema.Tables) {
	for _, stmt := range SplitStatements(script) {
		p.parseStatement(stmt, tables)
	}
}

func (p *Parser) parseStatement(stmt string, tables *sqlschema.Tables) {
	var c = newTokenCursor(scanTokens(stmt))
	var err error
	switch {
	case c.canConsume("CREATE", "TABLE"):
		err = p.parseCreateTable(c, stmt, tables)
	case c.canConsume("CREATE", "DATABASE"), c.canConsume("CREATE", "SCHEMA"):
		err = p.parseCreateDatabase(c)
	case c.canConsume("ALTER", "TABLE"):
		err = p.parseAlterTable(c, stmt, tables)
	case c.canConsume("DROP", "TABLE"):
		err = p.parseDropTable(c, stmt, tables)
	case c.canConsume("DROP", "DATABASE"), c.canConsume("DROP", "SCHEMA"):
		err = p.parseDropDatabase(c, tables)
	case c.canConsume("SET"):
		err = p.parseSet(c)
	case c.canConsume("USE"):
		err = p.parseUse(c)
	case c.canConsume("GRANT"), c.canConsume("REVOKE"):
		// Recognized and accepted, but privileges are not tracked.
	default:
		logrus.WithField("statement", abbreviate(stmt)).Trace("ignoring unrecognized statement")
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"statement": abbreviate(stmt),
			"reason":    err,
		}).Debug("skipping malformed statement")
	}
}

func (p *Parser) emit(eventType EventType, id sqlschema.TableID, ddl string) {
	p.listeners.HandleDDLEvent(Event{Type: eventType, Table: id, DDL: ddl})
}

// parseTableID reads a possibly database-qualified table name. Unqualified
// names inherit the current database selected by USE.
func (p *Parser) parseTableID(c *tokenCursor) (sqlschema.TableID, error) {
	var first, err = c.consumeIdent()
	if err != nil {
		return sqlschema.TableID{}, err
	}
	if c.canConsume(".") {
		var second, err = c.consumeIdent()
		if err != nil {
			return sqlschema.TableID{}, err
		}
		return sqlschema.TableID{Database: first, Table: second}, nil
	}
	return sqlschema.TableID{Database: p.currentDatabase, Table: first}, nil
}

func (p *Parser) parseCreateTable(c *tokenCursor, stmt string, tables *sqlschema.Tables) error {
	c.canConsume("IF", "NOT", "EXISTS")
	var id, err = p.parseTableID(c)
	if err != nil {
		return err
	}

	// CREATE TABLE a LIKE b copies the known definition of b, or registers
	// an empty table when b isn't tracked.
	if c.canConsume("LIKE") {
		var table = sqlschema.NewTable(id)
		if otherID, err := p.parseTableID(c); err == nil {
			if src := tables.Get(otherID); src != nil {
				table = src.Clone()
				table.ID = id
			}
		}
		tables.Put(table)
		p.emit(EventCreateTable, id, stmt)
		return nil
	}

	if err := c.expect("("); err != nil {
		return err
	}
	defs, err := c.splitParenGroups()
	if err != nil {
		return err
	}
	var tableCharset = p.parseTableOptions(c)

	var table = sqlschema.NewTable(id)
	table.DefaultCharset = tableCharset
	var primaryKey []string
	for _, def := range defs {
		var dc = newTokenCursor(def)
		switch {
		case dc.canConsume("PRIMARY", "KEY"):
			names, err := parseKeyColumns(dc)
			if err != nil {
				return err
			}
			primaryKey = names
		case dc.peek().kind == tokenKeyword && constraintLeadKeywords[strings.ToUpper(dc.peek().text)]:
			// Secondary indexes and constraints don't affect the
			// tracked structure.
		default:
			name, err := dc.consumeName()
			if err != nil {
				return err
			}
			spec, err := parseColumnSpec(dc)
			if err != nil {
				return err
			}
			var col = p.buildColumn(name, spec, tableCharset)
			table.AddColumn(col)
			if spec.inlinePK {
				primaryKey = append(primaryKey, name)
			}
		}
	}
	table.SetPrimaryKey(primaryKey...)

	tables.Put(table)
	p.emit(EventCreateTable, id, stmt)
	return nil
}

// constraintLeadKeywords are the leading keywords of table-level index and
// constraint definitions, all of which are consumed without effect.
var constraintLeadKeywords = map[string]bool{
	"UNIQUE": true, "KEY": true, "INDEX": true, "FULLTEXT": true,
	"SPATIAL": true, "CONSTRAINT": true, "FOREIGN": true, "CHECK": true,
}

// parseKeyColumns reads the parenthesized column name list of a key
// definition, skipping an optional index name and USING clause before it.
// Names may be bare, quoted, or string-quoted; per-column length prefixes
// and ASC/DESC markers are ignored.
func parseKeyColumns(c *tokenCursor) ([]string, error) {
	for !c.done() && !c.peekWord(0, "(") {
		c.next()
	}
	if err := c.expect("("); err != nil {
		return nil, err
	}
	var names []string
	var depth = 0
	for !c.done() {
		var tok = c.next()
		switch {
		case tok.kind == tokenSymbol && tok.text == "(":
			depth++
		case tok.kind == tokenSymbol && tok.text == ")":
			if depth == 0 {
				return names, nil
			}
			depth--
		case depth > 0 || tok.kind == tokenSymbol:
			// Length prefix contents and commas.
		case strings.EqualFold(tok.text, "ASC") || strings.EqualFold(tok.text, "DESC"):
		default:
			names = append(names, tok.text)
		}
	}
	return nil, errMissingParen
}

// columnSpec is the parsed remainder of a column definition after its name:
// the type expression plus the attributes this interpreter models.
type columnSpec struct {
	dt       dataType
	charset  string // declared CHARACTER SET value, possibly "default"
	optional bool
	auto     bool
	inlinePK bool
}

// parseColumnSpec reads a column's type and attribute list. It stops at a
// FIRST or AFTER placement clause, which belongs to the enclosing ALTER
// action. Attributes outside the tracked model are consumed and ignored.
func parseColumnSpec(c *tokenCursor) (columnSpec, error) {
	var spec = columnSpec{optional: true}
	var err error
	if spec.dt, err = parseDataType(c); err != nil {
		return spec, err
	}
	for !c.done() {
		switch {
		case c.canConsume("NOT", "NULL"):
			spec.optional = false
		case c.canConsume("NULL"):
			spec.optional = true
		case c.canConsume("DEFAULT"):
			consumeValueExpr(c)
		case c.canConsume("AUTO_INCREMENT"):
			spec.auto = true
		case c.canConsume("PRIMARY", "KEY"):
			spec.inlinePK = true
			spec.optional = false
		case c.canConsume("UNIQUE", "KEY"), c.canConsume("UNIQUE"), c.canConsume("KEY"):
		case c.canConsume("CHARACTER", "SET"), c.canConsume("CHARSET"):
			if cs, err := c.consumeIdent(); err == nil {
				spec.charset = cs
			}
		case c.canConsume("COLLATE"):
			c.next()
		case c.canConsume("COMMENT"):
			c.canConsume("=")
			c.next()
		case c.canConsume("ON", "UPDATE"), c.canConsume("ON", "DELETE"):
			consumeValueExpr(c)
		case c.peekWord(0, "FIRST") || c.peekWord(0, "AFTER"):
			return spec, nil
		default:
			c.next()
		}
	}
	return spec, nil
}

// consumeValueExpr consumes one default-value expression: a literal, a
// signed number, or a function call such as CURRENT_TIMESTAMP(6).
func consumeValueExpr(c *tokenCursor) {
	if c.peekWord(0, "(") {
		c.skipBalanced()
		return
	}
	if tok := c.next(); tok.kind == tokenSymbol && (tok.text == "-" || tok.text == "+") {
		c.next()
	}
	c.skipBalanced()
}

// parseDataType reads a type expression: the (possibly multi-word) type
// keyword, optional length/scale or ENUM/SET option list, and the modifier
// suffixes that fold into the canonical type name.
func parseDataType(c *tokenCursor) (dataType, error) {
	var dt = dataType{length: -1, scale: -1}
	word, err := c.consumeIdent()
	if err != nil {
		return dt, err
	}
	dt.name = strings.ToUpper(word)
	if dt.name == "NATIONAL" {
		if word, err = c.consumeIdent(); err != nil {
			return dt, err
		}
		dt.name = strings.ToUpper(word)
	}
	if dt.name == "DOUBLE" && c.canConsume("PRECISION") {
		dt.name = "DOUBLE PRECISION"
	}
	if dt.name == "CHARACTER" && c.canConsume("VARYING") {
		dt.name = "VARCHAR"
	}

	var base = dt.name
	switch base {
	case "ENUM", "SET":
		if err := c.expect("("); err != nil {
			return dt, err
		}
		dt.options = []string{}
		var depth = 0
	optionLoop:
		for !c.done() {
			var tok = c.next()
			switch {
			case tok.kind == tokenString:
				dt.options = append(dt.options, tok.text)
			case tok.kind == tokenSymbol && tok.text == "(":
				depth++
			case tok.kind == tokenSymbol && tok.text == ")":
				if depth == 0 {
					break optionLoop
				}
				depth--
			}
		}
	default:
		if c.canConsume("(") {
			if tok := c.peek(); tok.kind == tokenNumber {
				c.next()
				if n, err := strconv.Atoi(tok.text); err == nil {
					dt.length = n
				}
				if c.canConsume(",") {
					if tok := c.next(); tok.kind == tokenNumber {
						if n, err := strconv.Atoi(tok.text); err == nil {
							dt.scale = n
						}
					}
				}
			}
			if err := c.expect(")"); err != nil {
				return dt, err
			}
		}
	}

	for {
		switch {
		case c.canConsume("UNSIGNED"):
			dt.name += " UNSIGNED"
		case c.canConsume("SIGNED"):
			dt.name += " SIGNED"
		case c.canConsume("ZEROFILL"):
			dt.name += " ZEROFILL"
		case characterTypes[base] && c.canConsume("BINARY"):
			dt.name += " BINARY"
		default:
			return dt, nil
		}
	}
}

// buildColumn resolves a parsed column definition into the schema model,
// applying the charset cascade for character types.
func (p *Parser) buildColumn(name string, spec columnSpec, tableCharset string) *sqlschema.Column {
	var generic, length, scale = spec.dt.resolve()
	var col = &sqlschema.Column{
		Name:            name,
		TypeName:        spec.dt.name,
		Type:            generic,
		Length:          length,
		Scale:           scale,
		Optional:        spec.optional,
		AutoIncremented: spec.auto,
		Generated:       spec.auto,
	}
	var base = strings.SplitN(spec.dt.name, " ", 2)[0]
	if characterTypes[base] {
		col.Charset = p.resolveColumnCharset(spec.charset, tableCharset)
	}
	return col
}

// resolveColumnCharset applies the charset cascade, lowest precedence last:
// an explicit column charset wins, then the table default, then the current
// database default, then the server default. The literal keyword "default"
// at the column level resolves through the cascade instead of being stored.
func (p *Parser) resolveColumnCharset(declared, tableDefault string) string {
	if declared != "" && !strings.EqualFold(declared, "DEFAULT") {
		return declared
	}
	if tableDefault != "" {
		return tableDefault
	}
	if cs, ok := p.vars.Get(varCharsetDatabase); ok {
		return cs
	}
	if cs, ok := p.vars.Get(varCharsetServer); ok {
		return cs
	}
	return ""
}

// parseTableOptions scans the option list after the column definitions.
// Only the default charset influences tracked state; everything else is
// consumed and discarded.
func (p *Parser) parseTableOptions(c *tokenCursor) string {
	var charset = ""
	for !c.done() {
		switch {
		case c.canConsume("DEFAULT"):
		case c.canConsume("CHARACTER", "SET"), c.canConsume("CHARSET"):
			c.canConsume("=")
			if cs, err := c.consumeIdent(); err == nil {
				charset = cs
			}
		case c.canConsume("COLLATE"), c.canConsume("ENGINE"),
			c.canConsume("AUTO_INCREMENT"), c.canConsume("COMMENT"):
			c.canConsume("=")
			c.next()
		default:
			c.next()
		}
	}
	return charset
}

func (p *Parser) parseAlterTable(c *tokenCursor, stmt string, tables *sqlschema.Tables) error {
	var id, err = p.parseTableID(c)
	if err != nil {
		return err
	}

	// An ALTER against a table we've never seen a CREATE for still has to
	// be tracked: synthesize an empty definition and let the actions
	// accumulate columns into it.
	var table *sqlschema.Table
	if existing := tables.Get(id); existing != nil {
		table = existing.Clone()
	} else {
		table = sqlschema.NewTable(id)
	}

	for _, action := range c.splitTopLevel() {
		if err := p.applyAlterAction(newTokenCursor(action), table); err != nil {
			return err
		}
	}

	if table.ID != id {
		tables.Remove(id) // RENAME TO moved the table
	}
	tables.Put(table)
	p.emit(EventAlterTable, table.ID, stmt)
	return nil
}

func (p *Parser) applyAlterAction(c *tokenCursor, table *sqlschema.Table) error {
	switch {
	case c.canConsume("ADD"):
		return p.applyAddAction(c, table)

	case c.canConsume("MODIFY"):
		c.canConsume("COLUMN")
		name, err := c.consumeName()
		if err != nil {
			return err
		}
		spec, err := parseColumnSpec(c)
		if err != nil {
			return err
		}
		p.placeColumn(c, table, name, p.buildColumn(name, spec, table.DefaultCharset))
		return nil

	case c.canConsume("CHANGE"):
		c.canConsume("COLUMN")
		oldName, err := c.consumeName()
		if err != nil {
			return err
		}
		newName, err := c.consumeName()
		if err != nil {
			return err
		}
		spec, err := parseColumnSpec(c)
		if err != nil {
			return err
		}
		p.placeColumn(c, table, oldName, p.buildColumn(newName, spec, table.DefaultCharset))
		return nil

	case c.canConsume("DROP"):
		switch {
		case c.canConsume("PRIMARY", "KEY"):
			table.SetPrimaryKey()
		case c.canConsume("FOREIGN", "KEY"), c.canConsume("KEY"), c.canConsume("INDEX"):
			c.next()
		default:
			c.canConsume("COLUMN")
			name, err := c.consumeName()
			if err != nil {
				return err
			}
			// Dropping an unknown column is ignored, not an error.
			table.RemoveColumn(name)
		}
		return nil

	case c.canConsume("RENAME"):
		if !c.canConsume("TO") {
			c.canConsume("AS")
		}
		newID, err := p.parseTableID(c)
		if err != nil {
			return err
		}
		table.ID = newID
		return nil

	default:
		// ADD INDEX variants arrive here too via their lead keyword; all
		// unmodeled actions are consumed without effect.
		for !c.done() {
			c.next()
		}
		return nil
	}
}

func (p *Parser) applyAddAction(c *tokenCursor, table *sqlschema.Table) error {
	c.canConsume("COLUMN")
	switch {
	case c.canConsume("PRIMARY", "KEY"):
		names, err := parseKeyColumns(c)
		if err != nil {
			return err
		}
		table.SetPrimaryKey(names...)
		return nil
	case c.peek().kind == tokenKeyword && constraintLeadKeywords[strings.ToUpper(c.peek().text)]:
		for !c.done() {
			c.next()
		}
		return nil
	case c.canConsume("("):
		// ADD COLUMN (def, def, ...) parenthesized form.
		defs, err := c.splitParenGroups()
		if err != nil {
			return err
		}
		for _, def := range defs {
			var dc = newTokenCursor(def)
			name, err := dc.consumeName()
			if err != nil {
				return err
			}
			spec, err := parseColumnSpec(dc)
			if err != nil {
				return err
			}
			table.AddColumn(p.buildColumn(name, spec, table.DefaultCharset))
		}
		return nil
	default:
		name, err := c.consumeName()
		if err != nil {
			return err
		}
		spec, err := parseColumnSpec(c)
		if err != nil {
			return err
		}
		var col = p.buildColumn(name, spec, table.DefaultCharset)
		switch {
		case c.canConsume("FIRST"):
			table.InsertColumnFirst(col)
		case c.canConsume("AFTER"):
			anchor, err := c.consumeName()
			if err != nil {
				return err
			}
			table.InsertColumnAfter(col, anchor)
		default:
			table.AddColumn(col)
		}
		if spec.inlinePK {
			table.SetPrimaryKey(name)
		}
		return nil
	}
}

// placeColumn applies a MODIFY/CHANGE result: the redefined column keeps the
// original position unless a FIRST or AFTER clause moves it. A name that
// doesn't resolve to an existing column is ignored.
func (p *Parser) placeColumn(c *tokenCursor, table *sqlschema.Table, oldName string, col *sqlschema.Column) {
	switch {
	case c.canConsume("FIRST"):
		table.RemoveColumn(oldName)
		table.InsertColumnFirst(col)
	case c.canConsume("AFTER"):
		if anchor, err := c.consumeName(); err == nil {
			table.RemoveColumn(oldName)
			table.InsertColumnAfter(col, anchor)
		}
	default:
		table.ReplaceColumn(oldName, col)
	}
}

func (p *Parser) parseDropTable(c *tokenCursor, stmt string, tables *sqlschema.Tables) error {
	c.canConsume("IF", "EXISTS")
	for {
		var id, err = p.parseTableID(c)
		if err != nil {
			return err
		}
		if tables.Remove(id) != nil {
			p.emit(EventDropTable, id, stmt)
		}
		if !c.canConsume(",") {
			break
		}
	}
	// Optional RESTRICT/CASCADE tail.
	return nil
}

func (p *Parser) parseCreateDatabase(c *tokenCursor) error {
	c.canConsume("IF", "NOT", "EXISTS")
	var name, err = c.consumeIdent()
	if err != nil {
		return err
	}
	var declared = ""
	for !c.done() {
		switch {
		case c.canConsume("DEFAULT"):
		case c.canConsume("CHARACTER", "SET"), c.canConsume("CHARSET"):
			c.canConsume("=")
			if cs, err := c.consumeIdent(); err == nil {
				declared = cs
			}
		case c.canConsume("COLLATE"):
			c.canConsume("=")
			c.next()
		default:
			c.next()
		}
	}
	// Recording the database default charset does not itself change
	// character_set_database; only USE does that.
	if declared != "" {
		p.databaseCharsets[name] = declared
	} else {
		delete(p.databaseCharsets, name)
	}
	return nil
}

func (p *Parser) parseDropDatabase(c *tokenCursor, tables *sqlschema.Tables) error {
	c.canConsume("IF", "EXISTS")
	var name, err = c.consumeIdent()
	if err != nil {
		return err
	}
	delete(p.databaseCharsets, name)
	for _, id := range tables.IDs() {
		if id.Database == name {
			tables.Remove(id)
		}
	}
	if p.currentDatabase == name {
		p.currentDatabase = ""
		p.vars.Unset(varCharsetDatabase)
	}
	return nil
}

func (p *Parser) parseUse(c *tokenCursor) error {
	var name, err = c.consumeIdent()
	if err != nil {
		return err
	}
	p.currentDatabase = name
	// The only construct that mutates character_set_database: it becomes
	// the used database's recorded default, or unset when it declared none.
	if cs, ok := p.databaseCharsets[name]; ok {
		p.vars.Set(varCharsetDatabase, cs, ScopeSession)
	} else {
		p.vars.Unset(varCharsetDatabase)
	}
	return nil
}

func abbreviate(stmt string) string {
	if len(stmt) > 120 {
		return stmt[:117] + "..."
	}
	return stmt
}
