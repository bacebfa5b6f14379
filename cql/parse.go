package cql

import (
	"fmt"
	"strings"

	"github.com/hugr-lab/queryspec"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenWord
	tokenString
	tokenColon
	tokenComma
	tokenTilde
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits a query expression into tokens. Quoted runs keep their content
// with escapes resolved; bare words are runs of characters outside the
// punctuation set.
func lex(query string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(query) {
		c := query[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == ':':
			tokens = append(tokens, token{kind: tokenColon, pos: i})
			i++
		case c == ',':
			tokens = append(tokens, token{kind: tokenComma, pos: i})
			i++
		case c == '~':
			tokens = append(tokens, token{kind: tokenTilde, pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokenLParen, pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenRParen, pos: i})
			i++
		case c == '"' || c == '\'':
			content, next, err := lexString(query, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, text: content, pos: i})
			i = next
		default:
			start := i
			for i < len(query) && !isPunct(query[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenWord, text: query[start:i], pos: start})
		}
	}
	tokens = append(tokens, token{kind: tokenEOF, pos: len(query)})
	return tokens, nil
}

func isPunct(c byte) bool {
	switch c {
	case ':', ',', '~', '(', ')', '"', '\'', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func lexString(query string, start int) (string, int, error) {
	quote := query[start]
	var b strings.Builder
	i := start + 1
	for i < len(query) {
		c := query[i]
		if c == '\\' && i+1 < len(query) {
			b.WriteByte(query[i+1])
			i += 2
			continue
		}
		if c == quote {
			return b.String(), i + 1, nil
		}
		b.WriteByte(c)
		i++
	}
	return "", 0, &SyntaxError{Query: query, Pos: start, Msg: "unterminated string"}
}

type parser struct {
	query  string
	tokens []token
	pos    int
}

func newParser(query string) (*parser, error) {
	tokens, err := lex(query)
	if err != nil {
		return nil, err
	}
	return &parser{query: query, tokens: tokens}, nil
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	tok := p.next()
	if tok.kind != kind {
		return token{}, p.errorf(tok.pos, "expected %s", what)
	}
	return tok, nil
}

// keyword consumes the next token when it is the given bare word, compared
// case insensitively.
func (p *parser) keyword(word string) bool {
	tok := p.peek()
	if tok.kind == tokenWord && strings.EqualFold(tok.text, word) {
		p.next()
		return true
	}
	return false
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &SyntaxError{Query: p.query, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// criterionNode is one parsed attr:op:values criterion before dispatch.
type criterionNode struct {
	attr   string
	op     string
	values []any
	pos    int
}

func (p *parser) criterion() (criterionNode, error) {
	attrTok, err := p.expect(tokenWord, "attribute name")
	if err != nil {
		return criterionNode{}, err
	}
	if _, err := p.expect(tokenColon, `":" after attribute name`); err != nil {
		return criterionNode{}, err
	}
	opTok, err := p.expect(tokenWord, "operator name")
	if err != nil {
		return criterionNode{}, err
	}
	if _, err := p.expect(tokenColon, `":" after operator name`); err != nil {
		return criterionNode{}, err
	}
	values, err := p.valueList()
	if err != nil {
		return criterionNode{}, err
	}
	return criterionNode{attr: attrTok.text, op: opTok.text, values: values, pos: attrTok.pos}, nil
}

func (p *parser) valueList() ([]any, error) {
	var values []any
	for {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if p.peek().kind != tokenComma {
			return values, nil
		}
		p.next()
	}
}

func (p *parser) value() (any, error) {
	tok := p.next()
	switch tok.kind {
	case tokenString:
		return parseQuoted(tok.text), nil
	case tokenWord:
		v, ok := classifyWord(tok.text)
		if !ok {
			return nil, p.errorf(tok.pos, "invalid value %q", tok.text)
		}
		return v, nil
	default:
		return nil, p.errorf(tok.pos, "criterion does not define a value")
	}
}

// ParseCriteria parses a flat filter expression, criteria joined by tildes,
// into its criteria. Attribute and operator tokens stay in their hyphenated
// query form for a director to dispatch. Junction keywords and parentheses
// are not part of the flat form; those expressions parse with ParseFilter.
// An empty expression yields no criteria.
func ParseCriteria(query string) ([]queryspec.RawCriterion, error) {
	p, err := newParser(query)
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokenEOF {
		return nil, nil
	}
	var criteria []queryspec.RawCriterion
	for {
		node, err := p.criterion()
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, queryspec.RawCriterion{
			Attribute: node.attr,
			Operator:  node.op,
			Values:    node.values,
		})
		tok := p.peek()
		if tok.kind == tokenEOF {
			return criteria, nil
		}
		if tok.kind != tokenTilde {
			return nil, p.errorf(tok.pos, "expected %q between criteria", "~")
		}
		p.next()
	}
}

// ParseFilter parses a filter expression into a specification. Both
// expression styles are accepted: flat criteria joined by tildes, and
// junction expressions with "and", "or" and parentheses, "and" binding
// tighter than "or". Criteria whose values all normalize away drop out of
// the tree; an expression with nothing left yields a nil specification.
func ParseFilter(query string, opts ...ParseOption) (queryspec.FilterSpecification, error) {
	o := newParseOptions(opts)
	p, err := newParser(query)
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokenEOF {
		return nil, nil
	}
	spec, err := p.disjunction(&o)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, p.errorf(tok.pos, "unexpected input after expression")
	}
	return spec, nil
}

func (p *parser) disjunction(o *parseOptions) (queryspec.FilterSpecification, error) {
	left, err := p.conjunction(o)
	if err != nil {
		return nil, err
	}
	for p.keyword("or") {
		right, err := p.conjunction(o)
		if err != nil {
			return nil, err
		}
		left = junction(o.filters.Disjunction, left, right)
	}
	return left, nil
}

func (p *parser) conjunction(o *parseOptions) (queryspec.FilterSpecification, error) {
	left, err := p.unit(o)
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.peek().kind == tokenTilde:
			p.next()
		case p.keyword("and"):
		default:
			return left, nil
		}
		right, err := p.unit(o)
		if err != nil {
			return nil, err
		}
		left = junction(o.filters.Conjunction, left, right)
	}
}

func (p *parser) unit(o *parseOptions) (queryspec.FilterSpecification, error) {
	if p.peek().kind == tokenLParen {
		p.next()
		spec, err := p.disjunction(o)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen, `")"`); err != nil {
			return nil, err
		}
		return spec, nil
	}
	return p.criterionSpec(o)
}

// junction combines two subtrees, passing through the surviving side when
// the other one normalized away.
func junction(combine func(left, right queryspec.FilterSpecification) queryspec.FilterSpecification, left, right queryspec.FilterSpecification) queryspec.FilterSpecification {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	return combine(left, right)
}

func (p *parser) criterionSpec(o *parseOptions) (queryspec.FilterSpecification, error) {
	node, err := p.criterion()
	if err != nil {
		return nil, err
	}
	attr := queryspec.IdentifierFromSlug(node.attr)
	op := queryspec.IdentifierFromSlug(node.op)
	negate := strings.HasPrefix(op, "not_")
	base := strings.TrimPrefix(op, "not_")

	var newLeaf func(string, any) queryspec.FilterSpecification
	switch base {
	case queryspec.OpContained.Name(), queryspec.OpInRange.Name():
	default:
		var ok bool
		newLeaf, ok = leafFactory(o.filters, base)
		if !ok {
			return nil, &queryspec.UnknownOperatorError{Name: node.op}
		}
	}

	vals, err := queryspec.NormalizeValues(node.values, o.resolver)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, nil
	}

	var spec queryspec.FilterSpecification
	switch base {
	case queryspec.OpContained.Name():
		spec = o.filters.Contained(attr, vals)
	case queryspec.OpInRange.Name():
		for _, v := range vals {
			r, ok := v.(queryspec.Range)
			if !ok {
				return nil, p.errorf(node.pos, "operator %q expects range values", node.op)
			}
			leaf := o.filters.InRange(attr, r.From, r.To)
			if spec == nil {
				spec = leaf
				continue
			}
			spec = o.filters.Disjunction(spec, leaf)
		}
	default:
		for _, v := range vals {
			leaf := newLeaf(attr, v)
			if spec == nil {
				spec = leaf
				continue
			}
			spec = o.filters.Disjunction(spec, leaf)
		}
	}
	if negate {
		spec = o.filters.Negation(spec)
	}
	return spec, nil
}

func leafFactory(f queryspec.FilterFactory, opName string) (func(string, any) queryspec.FilterSpecification, bool) {
	switch opName {
	case queryspec.OpEqualTo.Name():
		return f.EqualTo, true
	case queryspec.OpStartsWith.Name():
		return f.StartsWith, true
	case queryspec.OpEndsWith.Name():
		return f.EndsWith, true
	case queryspec.OpContains.Name():
		return f.Contains, true
	case queryspec.OpLessThan.Name():
		return f.LessThan, true
	case queryspec.OpLessOrEqual.Name():
		return f.LessOrEqual, true
	case queryspec.OpGreaterThan.Name():
		return f.GreaterThan, true
	case queryspec.OpGreaterOrEqual.Name():
		return f.GreaterOrEqual, true
	}
	return nil, false
}
