package mysqlddl

import (
	"fmt"
	"strings"
)

// Names of the character-set variables with dialect-defined SET semantics.
const (
	varCharsetClient     = "character_set_client"
	varCharsetResults    = "character_set_results"
	varCharsetConnection = "character_set_connection"
	varCharsetDatabase   = "character_set_database"
	varCharsetServer     = "character_set_server"
)

// parseSet handles the three SET forms: SET CHARACTER SET / SET CHARSET,
// SET NAMES, and the general comma-separated assignment list.
func (p *Parser) parseSet(c *tokenCursor) error {
	switch {
	case c.canConsume("CHARACTER", "SET"), c.canConsume("CHARSET"):
		cs, err := c.consumeIdent()
		if err != nil {
			return err
		}
		if strings.EqualFold(cs, "DEFAULT") {
			cs = p.defaultCharset()
		}
		// Sets client and results together; connection is left alone.
		p.vars.Set(varCharsetClient, cs, ScopeSession)
		p.vars.Set(varCharsetResults, cs, ScopeSession)
		return nil

	case c.canConsume("NAMES"):
		cs, err := c.consumeIdent()
		if err != nil {
			return err
		}
		if strings.EqualFold(cs, "DEFAULT") {
			cs = p.defaultCharset()
		}
		if c.canConsume("COLLATE") {
			c.next() // parsed and discarded
		}
		p.vars.Set(varCharsetClient, cs, ScopeSession)
		p.vars.Set(varCharsetResults, cs, ScopeSession)
		p.vars.Set(varCharsetConnection, cs, ScopeSession)
		return nil
	}

	// General assignment list. An explicit scope keyword applies to its own
	// assignment and carries forward to later bare assignments until another
	// scope keyword appears.
	var scope = ScopeDefault
	for {
		switch {
		case c.canConsume("GLOBAL"):
			scope = ScopeGlobal
		case c.canConsume("SESSION"):
			scope = ScopeSession
		case c.canConsume("LOCAL"):
			scope = ScopeLocal
		}
		var assignScope = scope
		name, isUserVar, override, err := parseVariableName(c)
		if err != nil {
			return err
		}
		if override != ScopeDefault {
			assignScope = override
		}
		if !c.canConsume("=") && !c.canConsume(":=") {
			return fmt.Errorf("expected assignment operator at position %d", c.peek().pos)
		}
		var value = consumeAssignedValue(c)
		// User-defined @variables are session-local expression state, not
		// tracked schema-relevant configuration: consumed, never stored.
		if !isUserVar {
			p.vars.Set(name, value, assignScope)
		}
		if !c.canConsume(",") {
			return nil
		}
	}
}

// parseVariableName reads one variable reference on the left side of an
// assignment: a bare name (hyphens allowed), a @user variable, or a
// @@scoped.name reference whose prefix overrides the statement scope.
func parseVariableName(c *tokenCursor) (string, bool, Scope, error) {
	var tok = c.peek()
	if tok.kind != tokenWord && tok.kind != tokenKeyword && tok.kind != tokenQuotedIdent {
		return "", false, ScopeDefault, fmt.Errorf("expected variable name at position %d", tok.pos)
	}
	c.next()
	var name = tok.text
	var isUserVar = false
	var scope = ScopeDefault

	switch {
	case strings.HasPrefix(name, "@@"):
		name = name[2:]
		if c.canConsume(".") {
			switch strings.ToLower(name) {
			case "global":
				scope = ScopeGlobal
			case "session":
				scope = ScopeSession
			case "local":
				scope = ScopeLocal
			default:
				return "", false, scope, fmt.Errorf("unknown variable scope %q", name)
			}
			rest, err := c.consumeIdent()
			if err != nil {
				return "", false, scope, err
			}
			name = rest
		}
	case strings.HasPrefix(name, "@"):
		isUserVar = true
		name = name[1:]
	}

	// Hyphenated names tokenize as word/minus/word runs; stitch them back.
	for c.peekWord(0, "-") {
		var save = c.pos
		c.next()
		var part = c.peek()
		if part.kind != tokenWord && part.kind != tokenKeyword && part.kind != tokenNumber {
			c.pos = save
			break
		}
		c.next()
		name += "-" + part.text
	}
	return name, isUserVar, scope, nil
}

// consumeAssignedValue reads one assignment's value. Simple literals are
// returned as their text; parenthesized or otherwise compound expressions
// are consumed for grammar purposes but tracked as an empty value.
func consumeAssignedValue(c *tokenCursor) string {
	if c.peekWord(0, "(") {
		c.skipBalanced()
		for !c.done() && !c.peekWord(0, ",") {
			c.next()
		}
		return ""
	}
	var tok = c.next()
	var value = tok.text
	if tok.kind == tokenSymbol && (tok.text == "-" || tok.text == "+") {
		value += c.next().text
	}
	for !c.done() && !c.peekWord(0, ",") {
		c.next()
	}
	return value
}

// defaultCharset resolves the DEFAULT keyword of SET CHARACTER SET and
// SET NAMES: the current database's charset when one is set, otherwise the
// server charset.
func (p *Parser) defaultCharset() string {
	if cs, ok := p.vars.Get(varCharsetDatabase); ok {
		return cs
	}
	if cs, ok := p.vars.Get(varCharsetServer); ok {
		return cs
	}
	return ""
}
