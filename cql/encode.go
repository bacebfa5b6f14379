package cql

import (
	"strings"

	"github.com/hugr-lab/queryspec"
)

// fragment is one criterion of the encoded expression: attribute and
// operator slugs plus the rendered value texts.
type fragment struct {
	attr   string
	op     string
	values []string
}

// EncodeFilter renders a filter specification as a flat expression, criteria
// joined by tildes. Not every tree has a textual form: a disjunction encodes
// only when both sides reduce to criteria on the same attribute and
// operator, merging their values, and a negation encodes only over a single
// criterion, by inverting its operator. A nil specification encodes to the
// empty string.
func EncodeFilter(spec queryspec.FilterSpecification) (string, error) {
	if spec == nil {
		return "", nil
	}
	frags, err := queryspec.CompileFilter(spec, filterEncoder{})
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(frags))
	for _, f := range frags {
		parts = append(parts, f.attr+":"+f.op+":"+strings.Join(f.values, ","))
	}
	return strings.Join(parts, "~"), nil
}

type filterEncoder struct{}

func (filterEncoder) CompileCriterion(c *queryspec.CriterionSpecification) ([]fragment, error) {
	attr := queryspec.SlugFromIdentifier(c.AttributeName())
	op := queryspec.SlugFromIdentifier(c.Operator().Name())
	if c.Operator() == queryspec.OpContained {
		vals, ok := c.AttributeValue().([]any)
		if !ok || len(vals) == 0 {
			return nil, &EncodeError{Reason: "contained criterion without a value list"}
		}
		texts := make([]string, 0, len(vals))
		for _, v := range vals {
			s, err := renderValue(v)
			if err != nil {
				return nil, err
			}
			texts = append(texts, s)
		}
		return []fragment{{attr: attr, op: op, values: texts}}, nil
	}
	s, err := renderValue(c.AttributeValue())
	if err != nil {
		return nil, err
	}
	return []fragment{{attr: attr, op: op, values: []string{s}}}, nil
}

func (filterEncoder) CompileConjunction(_ *queryspec.ConjunctionSpecification, left, right []fragment) ([]fragment, error) {
	return append(left, right...), nil
}

func (filterEncoder) CompileDisjunction(_ *queryspec.DisjunctionSpecification, left, right []fragment) ([]fragment, error) {
	if len(left) != 1 || len(right) != 1 {
		return nil, &EncodeError{Reason: "disjunction of compound expressions has no flat form"}
	}
	l, r := left[0], right[0]
	if l.attr != r.attr || l.op != r.op {
		return nil, &EncodeError{Reason: "disjunction requires the same attribute and operator on both sides"}
	}
	return []fragment{{attr: l.attr, op: l.op, values: append(l.values, r.values...)}}, nil
}

func (filterEncoder) CompileNegation(_ *queryspec.NegationSpecification, wrapped []fragment) ([]fragment, error) {
	if len(wrapped) != 1 {
		return nil, &EncodeError{Reason: "negation of a compound expression has no flat form"}
	}
	f := wrapped[0]
	f.op = invertSlug(f.op)
	return []fragment{f}, nil
}

// Ordering comparisons invert into their complements; the remaining
// operators toggle the "not-" prefix.
var invertedSlugs = map[string]string{
	"less-than":        "greater-or-equal",
	"greater-or-equal": "less-than",
	"greater-than":     "less-or-equal",
	"less-or-equal":    "greater-than",
}

func invertSlug(op string) string {
	if inv, ok := invertedSlugs[op]; ok {
		return inv
	}
	if strings.HasPrefix(op, "not-") {
		return strings.TrimPrefix(op, "not-")
	}
	return "not-" + op
}

// EncodeOrder renders an order specification as attr:direction terms joined
// by tildes. Natural terms carry the "natural" direction, which has no
// descending form. A nil specification encodes to the empty string.
func EncodeOrder(spec queryspec.OrderSpecification) (string, error) {
	if spec == nil {
		return "", nil
	}
	terms, err := queryspec.CompileOrder(spec, orderEncoder{})
	if err != nil {
		return "", err
	}
	return strings.Join(terms, "~"), nil
}

type orderEncoder struct{}

func (orderEncoder) CompileTerm(t *queryspec.SimpleOrderSpecification) ([]string, error) {
	attr := queryspec.SlugFromIdentifier(t.AttributeName())
	if t.Natural() {
		if t.Operator() == queryspec.OpDescending {
			return nil, &EncodeError{Reason: "descending natural order has no expression form"}
		}
		return []string{attr + ":natural"}, nil
	}
	op := "asc"
	if t.Operator() == queryspec.OpDescending {
		op = "desc"
	}
	return []string{attr + ":" + op}, nil
}

func (orderEncoder) CompileConjunction(_ *queryspec.ConjunctionOrderSpecification, left, right []string) ([]string, error) {
	return append(left, right...), nil
}
