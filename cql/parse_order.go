package cql

import "github.com/hugr-lab/queryspec"

// ParseOrderTerms parses an order expression, attr:direction terms joined by
// tildes, into its terms. Tokens stay in their hyphenated query form for a
// director to dispatch. An empty expression yields no terms.
func ParseOrderTerms(query string) ([]queryspec.RawOrder, error) {
	p, err := newParser(query)
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokenEOF {
		return nil, nil
	}
	var terms []queryspec.RawOrder
	for {
		attrTok, err := p.expect(tokenWord, "attribute name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenColon, `":" after attribute name`); err != nil {
			return nil, err
		}
		opTok, err := p.expect(tokenWord, "order direction")
		if err != nil {
			return nil, err
		}
		terms = append(terms, queryspec.RawOrder{Attribute: attrTok.text, Operator: opTok.text})
		tok := p.peek()
		if tok.kind == tokenEOF {
			return terms, nil
		}
		if tok.kind != tokenTilde {
			return nil, p.errorf(tok.pos, "expected %q between order terms", "~")
		}
		p.next()
	}
}

// ParseOrder parses an order expression into an order specification. Terms
// chain left to right, later terms breaking ties left by earlier ones. An
// empty expression yields a nil specification.
func ParseOrder(query string, opts ...ParseOption) (queryspec.OrderSpecification, error) {
	o := newParseOptions(opts)
	terms, err := ParseOrderTerms(query)
	if err != nil {
		return nil, err
	}
	var order queryspec.OrderSpecification
	for _, t := range terms {
		term, err := orderTerm(t, o.orders)
		if err != nil {
			return nil, err
		}
		if order == nil {
			order = term
			continue
		}
		order = o.orders.Conjunction(order, term)
	}
	return order, nil
}

func orderTerm(t queryspec.RawOrder, factory queryspec.OrderFactory) (queryspec.OrderSpecification, error) {
	attr := queryspec.IdentifierFromSlug(t.Attribute)
	switch queryspec.IdentifierFromSlug(t.Operator) {
	case "asc", queryspec.OpAscending.Name():
		return factory.Ascending(attr), nil
	case "desc", queryspec.OpDescending.Name():
		return factory.Descending(attr), nil
	case "natural":
		return factory.Natural(attr), nil
	}
	return nil, &queryspec.UnknownOperatorError{Name: t.Operator}
}
