package template

import (
	"strings"
)

type stmtKind int

const (
	stmtFor stmtKind = iota
	stmtEndFor
	stmtIf
	stmtElif
	stmtElse
	stmtEndIf
)

type statement struct {
	kind    stmtKind
	varName string
	expr    string
	pos     Position
}

// parseStatement classifies the content of a {* *} token.
func parseStatement(tok Token) (statement, error) {
	s := statement{pos: tok.Pos}
	body := tok.Value
	head, rest, _ := strings.Cut(body, " ")
	rest = strings.TrimSpace(rest)

	switch strings.TrimSuffix(head, ":") {
	case "for":
		target, iter, ok := strings.Cut(rest, " in ")
		if !ok || !strings.HasSuffix(iter, ":") {
			return s, NewParseErrorf(tok.Pos, "invalid for statement %q: expected 'for x in items:'", body)
		}
		s.kind = stmtFor
		s.varName = strings.TrimSpace(target)
		s.expr = strings.TrimSpace(strings.TrimSuffix(iter, ":"))
		if s.varName == "" || s.expr == "" {
			return s, NewParseErrorf(tok.Pos, "invalid for statement %q", body)
		}
	case "if", "elif":
		if !strings.HasSuffix(rest, ":") || strings.TrimSpace(strings.TrimSuffix(rest, ":")) == "" {
			return s, NewParseErrorf(tok.Pos, "invalid %s statement %q: expected '%s cond:'", head, body, head)
		}
		s.kind = stmtIf
		if head == "elif" {
			s.kind = stmtElif
		}
		s.expr = strings.TrimSpace(strings.TrimSuffix(rest, ":"))
	case "else":
		if body != "else:" {
			return s, NewParseErrorf(tok.Pos, "invalid else statement %q", body)
		}
		s.kind = stmtElse
	case "endfor":
		s.kind = stmtEndFor
	case "endif":
		s.kind = stmtEndIf
	default:
		return s, NewParseErrorf(tok.Pos, "unknown statement %q", body)
	}
	if (s.kind == stmtEndFor || s.kind == stmtEndIf) && rest != "" {
		return s, NewParseErrorf(tok.Pos, "unexpected text after %s", head)
	}
	return s, nil
}

// parser builds the node tree from tokens.
type parser struct {
	tokens []Token
	pos    int
}

// Parse parses a template.
func Parse(input, file string) (*Template, error) {
	tokens, err := NewLexer(input, file).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	nodes, end, err := p.parseUntil()
	if err != nil {
		return nil, err
	}
	if end != nil {
		return nil, NewParseErrorf(end.pos, "unexpected %s", stmtName(end.kind))
	}
	return &Template{File: file, Nodes: nodes}, nil
}

// parseUntil collects nodes until EOF or a statement that closes or splits
// the enclosing block, which it returns.
func (p *parser) parseUntil() ([]Node, *statement, error) {
	var nodes []Node
	for {
		tok := p.tokens[p.pos]
		p.pos++

		switch tok.Type {
		case TokenEOF:
			return nodes, nil, nil
		case TokenText:
			nodes = append(nodes, &TextNode{nodeBase{tok.Pos}, tok.Value})
		case TokenExpr:
			if tok.Value == "" {
				return nil, nil, NewParseErrorf(tok.Pos, "empty expression")
			}
			nodes = append(nodes, &ExprNode{nodeBase{tok.Pos}, tok.Value})
		case TokenStmt:
			st, err := parseStatement(tok)
			if err != nil {
				return nil, nil, err
			}
			switch st.kind {
			case stmtFor:
				n, err := p.parseFor(st)
				if err != nil {
					return nil, nil, err
				}
				nodes = append(nodes, n)
			case stmtIf:
				n, err := p.parseIf(st)
				if err != nil {
					return nil, nil, err
				}
				nodes = append(nodes, n)
			default:
				return nodes, &st, nil
			}
		}
	}
}

func (p *parser) parseFor(st statement) (*ForBlock, error) {
	body, end, err := p.parseUntil()
	if err != nil {
		return nil, err
	}
	if end == nil {
		return nil, NewParseErrorf(st.pos, "unclosed 'for' block (missing 'endfor')")
	}
	if end.kind != stmtEndFor {
		return nil, NewParseErrorf(end.pos, "unexpected %s inside 'for' block", stmtName(end.kind))
	}
	return &ForBlock{nodeBase: nodeBase{st.pos}, VarName: st.varName, IterExpr: st.expr, Body: body}, nil
}

func (p *parser) parseIf(st statement) (*IfBlock, error) {
	block := &IfBlock{nodeBase: nodeBase{st.pos}}
	cond := st.expr
	for {
		body, end, err := p.parseUntil()
		if err != nil {
			return nil, err
		}
		if end == nil {
			return nil, NewParseErrorf(st.pos, "unclosed 'if' block (missing 'endif')")
		}
		block.Branches = append(block.Branches, Branch{Condition: cond, Body: body})

		switch end.kind {
		case stmtElif:
			cond = end.expr
		case stmtElse:
			elseBody, last, err := p.parseUntil()
			if err != nil {
				return nil, err
			}
			if last == nil || last.kind != stmtEndIf {
				return nil, NewParseErrorf(end.pos, "'else' without matching 'endif'")
			}
			block.Else = elseBody
			return block, nil
		case stmtEndIf:
			return block, nil
		default:
			return nil, NewParseErrorf(end.pos, "unexpected %s inside 'if' block", stmtName(end.kind))
		}
	}
}

func stmtName(k stmtKind) string {
	switch k {
	case stmtFor:
		return "'for'"
	case stmtEndFor:
		return "'endfor'"
	case stmtIf:
		return "'if'"
	case stmtElif:
		return "'elif'"
	case stmtElse:
		return "'else'"
	default:
		return "'endif'"
	}
}
