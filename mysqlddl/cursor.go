package mysqlddl

import (
	"errors"
	"fmt"
	"strings"
)

var errMissingParen = errors.New("missing closing parenthesis")

// tokenCursor is a forward-only view over a statement's tokens with the
// lookahead helpers the grammar needs. All word matching is case-insensitive.
type tokenCursor struct {
	toks []token
	pos  int
}

func newTokenCursor(toks []token) *tokenCursor {
	return &tokenCursor{toks: toks}
}

func (c *tokenCursor) done() bool {
	return c.pos >= len(c.toks)
}

func (c *tokenCursor) peek() token {
	if c.done() {
		return token{kind: tokenSymbol}
	}
	return c.toks[c.pos]
}

func (c *tokenCursor) next() token {
	var tok = c.peek()
	if !c.done() {
		c.pos++
	}
	return tok
}

// peekWord reports whether the token at the given lookahead offset is a bare
// word or keyword matching text, case-insensitively.
func (c *tokenCursor) peekWord(offset int, text string) bool {
	var i = c.pos + offset
	if i >= len(c.toks) {
		return false
	}
	var tok = c.toks[i]
	if tok.kind != tokenWord && tok.kind != tokenKeyword && tok.kind != tokenSymbol {
		return false
	}
	return strings.EqualFold(tok.text, text)
}

// canConsume consumes the given word sequence if, and only if, the entire
// sequence matches at the current position.
func (c *tokenCursor) canConsume(words ...string) bool {
	for i, w := range words {
		if !c.peekWord(i, w) {
			return false
		}
	}
	c.pos += len(words)
	return true
}

// expect is canConsume that fails the statement when the sequence is absent.
func (c *tokenCursor) expect(words ...string) error {
	if !c.canConsume(words...) {
		return fmt.Errorf("expected %q at position %d", strings.Join(words, " "), c.peek().pos)
	}
	return nil
}

// consumeIdent consumes an identifier: a bare word, a keyword used as a
// name, or a quoted identifier.
func (c *tokenCursor) consumeIdent() (string, error) {
	var tok = c.peek()
	switch tok.kind {
	case tokenWord, tokenKeyword, tokenQuotedIdent:
		c.pos++
		return tok.text, nil
	}
	return "", fmt.Errorf("expected identifier at position %d", tok.pos)
}

// consumeName is consumeIdent extended to accept string literals, which the
// dialect tolerates in key column lists.
func (c *tokenCursor) consumeName() (string, error) {
	if tok := c.peek(); tok.kind == tokenString {
		c.pos++
		return tok.text, nil
	}
	return c.consumeIdent()
}

// skipBalanced consumes a parenthesized group if one starts at the cursor.
func (c *tokenCursor) skipBalanced() {
	if !c.canConsume("(") {
		return
	}
	var depth = 1
	for !c.done() && depth > 0 {
		switch tok := c.next(); {
		case tok.kind == tokenSymbol && tok.text == "(":
			depth++
		case tok.kind == tokenSymbol && tok.text == ")":
			depth--
		}
	}
}

// splitParenGroups consumes a comma-separated token group list up to the
// closing parenthesis matching an already-consumed open parenthesis, and
// returns the groups. Nested parentheses stay within their group.
func (c *tokenCursor) splitParenGroups() ([][]token, error) {
	var groups [][]token
	var cur []token
	var depth = 0
	var flush = func() {
		if len(cur) > 0 {
			groups = append(groups, cur)
			cur = nil
		}
	}
	for !c.done() {
		var tok = c.next()
		if tok.kind == tokenSymbol {
			switch tok.text {
			case "(":
				depth++
			case ")":
				if depth == 0 {
					flush()
					return groups, nil
				}
				depth--
			case ",":
				if depth == 0 {
					flush()
					continue
				}
			}
		}
		cur = append(cur, tok)
	}
	return nil, errMissingParen
}

// splitTopLevel splits all remaining tokens on top-level commas.
func (c *tokenCursor) splitTopLevel() [][]token {
	var groups [][]token
	var cur []token
	var depth = 0
	for !c.done() {
		var tok = c.next()
		if tok.kind == tokenSymbol {
			switch tok.text {
			case "(":
				depth++
			case ")":
				depth--
			case ",":
				if depth == 0 {
					if len(cur) > 0 {
						groups = append(groups, cur)
						cur = nil
					}
					continue
				}
			}
		}
		cur = append(cur, tok)
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}
