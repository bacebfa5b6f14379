package queryspec

import (
	"fmt"
	"strings"
)

// ReferenceResolver dereferences resource URLs appearing as criterion
// values. Builders pass every URL-shaped string value through the resolver;
// without one the string stays a plain value.
type ReferenceResolver interface {
	Resolve(url string) (any, error)
}

// FilterBuilder assembles a filter specification criterion by criterion.
// Criteria accumulate as a conjunction: each Build call contributes one
// criterion, multiple values within a call combining as alternatives. A
// second Build call for the same operator and attribute fails with a
// DuplicateCriterionError, negated variants colliding with their positive
// counterparts.
//
// The zero builder is not usable; construct with NewFilterBuilder.
type FilterBuilder struct {
	factory  FilterFactory
	resolver ReferenceResolver
	spec     FilterSpecification
	built    map[criterionKey]struct{}
}

type criterionKey struct {
	operator string
	attr     string
}

// FilterBuilderOption configures a FilterBuilder.
type FilterBuilderOption func(*FilterBuilder)

// WithReferenceResolver sets the resolver applied to URL-shaped string
// values.
func WithReferenceResolver(r ReferenceResolver) FilterBuilderOption {
	return func(b *FilterBuilder) { b.resolver = r }
}

// NewFilterBuilder returns a builder creating nodes through the given
// factory.
func NewFilterBuilder(factory FilterFactory, opts ...FilterBuilderOption) *FilterBuilder {
	b := &FilterBuilder{
		factory: factory,
		built:   make(map[criterionKey]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Specification returns the accumulated filter, or nil when no criterion
// contributed anything.
func (b *FilterBuilder) Specification() FilterSpecification { return b.spec }

// BuildEqualTo adds an equal_to criterion for the given values.
func (b *FilterBuilder) BuildEqualTo(attrName string, values []any) error {
	return b.build(OpEqualTo, attrName, values, false, b.factory.EqualTo)
}

// BuildNotEqualTo adds the negation of an equal_to criterion.
func (b *FilterBuilder) BuildNotEqualTo(attrName string, values []any) error {
	return b.build(OpEqualTo, attrName, values, true, b.factory.EqualTo)
}

// BuildStartsWith adds a starts_with criterion for the given values.
func (b *FilterBuilder) BuildStartsWith(attrName string, values []any) error {
	return b.build(OpStartsWith, attrName, values, false, b.factory.StartsWith)
}

// BuildNotStartsWith adds the negation of a starts_with criterion.
func (b *FilterBuilder) BuildNotStartsWith(attrName string, values []any) error {
	return b.build(OpStartsWith, attrName, values, true, b.factory.StartsWith)
}

// BuildEndsWith adds an ends_with criterion for the given values.
func (b *FilterBuilder) BuildEndsWith(attrName string, values []any) error {
	return b.build(OpEndsWith, attrName, values, false, b.factory.EndsWith)
}

// BuildNotEndsWith adds the negation of an ends_with criterion.
func (b *FilterBuilder) BuildNotEndsWith(attrName string, values []any) error {
	return b.build(OpEndsWith, attrName, values, true, b.factory.EndsWith)
}

// BuildContains adds a contains criterion for the given values.
func (b *FilterBuilder) BuildContains(attrName string, values []any) error {
	return b.build(OpContains, attrName, values, false, b.factory.Contains)
}

// BuildNotContains adds the negation of a contains criterion.
func (b *FilterBuilder) BuildNotContains(attrName string, values []any) error {
	return b.build(OpContains, attrName, values, true, b.factory.Contains)
}

// BuildLessThan adds a less_than criterion for the given values.
func (b *FilterBuilder) BuildLessThan(attrName string, values []any) error {
	return b.build(OpLessThan, attrName, values, false, b.factory.LessThan)
}

// BuildNotLessThan adds the negation of a less_than criterion.
func (b *FilterBuilder) BuildNotLessThan(attrName string, values []any) error {
	return b.build(OpLessThan, attrName, values, true, b.factory.LessThan)
}

// BuildLessOrEqual adds a less_or_equal criterion for the given values.
func (b *FilterBuilder) BuildLessOrEqual(attrName string, values []any) error {
	return b.build(OpLessOrEqual, attrName, values, false, b.factory.LessOrEqual)
}

// BuildNotLessOrEqual adds the negation of a less_or_equal criterion.
func (b *FilterBuilder) BuildNotLessOrEqual(attrName string, values []any) error {
	return b.build(OpLessOrEqual, attrName, values, true, b.factory.LessOrEqual)
}

// BuildGreaterThan adds a greater_than criterion for the given values.
func (b *FilterBuilder) BuildGreaterThan(attrName string, values []any) error {
	return b.build(OpGreaterThan, attrName, values, false, b.factory.GreaterThan)
}

// BuildNotGreaterThan adds the negation of a greater_than criterion.
func (b *FilterBuilder) BuildNotGreaterThan(attrName string, values []any) error {
	return b.build(OpGreaterThan, attrName, values, true, b.factory.GreaterThan)
}

// BuildGreaterOrEqual adds a greater_or_equal criterion for the given values.
func (b *FilterBuilder) BuildGreaterOrEqual(attrName string, values []any) error {
	return b.build(OpGreaterOrEqual, attrName, values, false, b.factory.GreaterOrEqual)
}

// BuildNotGreaterOrEqual adds the negation of a greater_or_equal criterion.
func (b *FilterBuilder) BuildNotGreaterOrEqual(attrName string, values []any) error {
	return b.build(OpGreaterOrEqual, attrName, values, true, b.factory.GreaterOrEqual)
}

// BuildContained adds a single contained criterion holding all given values
// as the membership list.
func (b *FilterBuilder) BuildContained(attrName string, values []any) error {
	return b.buildContained(attrName, values, false)
}

// BuildNotContained adds the negation of a contained criterion.
func (b *FilterBuilder) BuildNotContained(attrName string, values []any) error {
	return b.buildContained(attrName, values, true)
}

// BuildInRange adds an in_range criterion for the given inclusive ranges.
func (b *FilterBuilder) BuildInRange(attrName string, ranges []Range) error {
	return b.buildInRange(attrName, ranges, false)
}

// BuildNotInRange adds the negation of an in_range criterion.
func (b *FilterBuilder) BuildNotInRange(attrName string, ranges []Range) error {
	return b.buildInRange(attrName, ranges, true)
}

func (b *FilterBuilder) build(op Operator, attrName string, values []any, negate bool, newLeaf func(string, any) FilterSpecification) error {
	if err := b.record(op, attrName); err != nil {
		return err
	}
	vals, err := NormalizeValues(values, b.resolver)
	if err != nil {
		return err
	}
	if len(vals) == 0 {
		return nil
	}
	var spec FilterSpecification
	for _, v := range vals {
		leaf := newLeaf(attrName, v)
		if spec == nil {
			spec = leaf
			continue
		}
		spec = b.factory.Disjunction(spec, leaf)
	}
	if negate {
		spec = b.factory.Negation(spec)
	}
	b.append(spec)
	return nil
}

func (b *FilterBuilder) buildContained(attrName string, values []any, negate bool) error {
	if err := b.record(OpContained, attrName); err != nil {
		return err
	}
	vals, err := NormalizeValues(values, b.resolver)
	if err != nil {
		return err
	}
	if len(vals) == 0 {
		return nil
	}
	spec := b.factory.Contained(attrName, vals)
	if negate {
		spec = b.factory.Negation(spec)
	}
	b.append(spec)
	return nil
}

func (b *FilterBuilder) buildInRange(attrName string, ranges []Range, negate bool) error {
	if err := b.record(OpInRange, attrName); err != nil {
		return err
	}
	var uniq []Range
	for _, r := range ranges {
		dup := false
		for _, u := range uniq {
			if equalValues(u, r) {
				dup = true
				break
			}
		}
		if !dup {
			uniq = append(uniq, r)
		}
	}
	if len(uniq) == 0 {
		return nil
	}
	var spec FilterSpecification
	for _, r := range uniq {
		leaf := b.factory.InRange(attrName, r.From, r.To)
		if spec == nil {
			spec = leaf
			continue
		}
		spec = b.factory.Disjunction(spec, leaf)
	}
	if negate {
		spec = b.factory.Negation(spec)
	}
	b.append(spec)
	return nil
}

// record registers the operator and attribute pair, failing when a criterion
// for the pair was already built. Every Build call registers its pair, even
// one whose values all normalize away.
func (b *FilterBuilder) record(op Operator, attrName string) error {
	k := criterionKey{operator: op.Name(), attr: attrName}
	if _, ok := b.built[k]; ok {
		return &DuplicateCriterionError{Operator: op, AttributeName: attrName}
	}
	b.built[k] = struct{}{}
	return nil
}

func (b *FilterBuilder) append(spec FilterSpecification) {
	if b.spec == nil {
		b.spec = spec
		return
	}
	b.spec = b.factory.Conjunction(b.spec, spec)
}

// NormalizeValues prepares raw criterion values: empty strings are dropped,
// URL-shaped strings are resolved when a resolver is present, and duplicates
// are removed preserving first-occurrence order.
func NormalizeValues(values []any, resolver ReferenceResolver) ([]any, error) {
	var out []any
	for _, v := range values {
		if s, ok := v.(string); ok {
			if s == "" {
				continue
			}
			if resolver != nil && isResourceURL(s) {
				rv, err := resolver.Resolve(s)
				if err != nil {
					return nil, fmt.Errorf("queryspec: resolve reference %q: %w", s, err)
				}
				v = rv
			}
		}
		dup := false
		for _, u := range out {
			if equalValues(u, v) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out, nil
}

func isResourceURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// OrderBuilder assembles an order specification term by term. Terms chain
// lexicographically in the order built: later terms break ties left by
// earlier ones.
type OrderBuilder struct {
	factory OrderFactory
	order   OrderSpecification
}

// NewOrderBuilder returns a builder creating nodes through the given
// factory.
func NewOrderBuilder(factory OrderFactory) *OrderBuilder {
	return &OrderBuilder{factory: factory}
}

// Specification returns the accumulated ordering, or nil when no term was
// built.
func (b *OrderBuilder) Specification() OrderSpecification { return b.order }

// BuildAscending appends an ascending term for the attribute.
func (b *OrderBuilder) BuildAscending(attrName string) {
	b.append(b.factory.Ascending(attrName))
}

// BuildDescending appends a descending term for the attribute.
func (b *OrderBuilder) BuildDescending(attrName string) {
	b.append(b.factory.Descending(attrName))
}

// BuildNatural appends an ascending term comparing digit runs numerically.
func (b *OrderBuilder) BuildNatural(attrName string) {
	b.append(b.factory.Natural(attrName))
}

func (b *OrderBuilder) append(term OrderSpecification) {
	if b.order == nil {
		b.order = term
		return
	}
	b.order = b.factory.Conjunction(b.order, term)
}
