package queryspec

import "fmt"

// FilterSpecification is a node in an immutable filter expression tree.
// The node set is closed: criteria at the leaves, conjunction, disjunction
// and negation above them. Combinators return new trees sharing existing
// nodes, so specifications can be cached and shared freely.
type FilterSpecification interface {
	// Operator identifies the node kind.
	Operator() Operator

	// IsSatisfiedBy evaluates the specification against a candidate value.
	IsSatisfiedBy(candidate any) (bool, error)

	// And returns the conjunction of this specification and other.
	And(other FilterSpecification) FilterSpecification

	// Or returns the disjunction of this specification and other.
	Or(other FilterSpecification) FilterSpecification

	// Not returns the negation of this specification.
	Not() FilterSpecification

	// Equals reports whether other describes the same query.
	Equals(other FilterSpecification) bool

	filterMarker()
}

// CriterionSpecification is a leaf comparing an attribute path against a
// reference value under a nullary comparison operator.
type CriterionSpecification struct {
	attr  string
	value any
	op    Operator
}

// AttributeName returns the dotted attribute path the criterion inspects.
func (s *CriterionSpecification) AttributeName() string { return s.attr }

// AttributeValue returns the reference value. Contained criteria carry a
// []any, in_range criteria carry a Range.
func (s *CriterionSpecification) AttributeValue() any { return s.value }

// Operator returns the criterion's comparison operator.
func (s *CriterionSpecification) Operator() Operator { return s.op }

// IsSatisfiedBy reads the attribute path from the candidate and applies the
// comparison operator to the result.
func (s *CriterionSpecification) IsSatisfiedBy(candidate any) (bool, error) {
	v, err := AttributeValue(candidate, s.attr)
	if err != nil {
		return false, err
	}
	return s.op.Apply(derefValue(v), derefValue(s.value))
}

// Equals compares criteria by attribute name and reference value. The
// operator does not participate, so two criteria on the same attribute and
// value are equal even under different comparisons.
func (s *CriterionSpecification) Equals(other FilterSpecification) bool {
	o, ok := other.(*CriterionSpecification)
	return ok && s.attr == o.attr && equalValues(s.value, o.value)
}

func (s *CriterionSpecification) And(other FilterSpecification) FilterSpecification {
	return defaultFilterFactory.Conjunction(s, other)
}

func (s *CriterionSpecification) Or(other FilterSpecification) FilterSpecification {
	return defaultFilterFactory.Disjunction(s, other)
}

func (s *CriterionSpecification) Not() FilterSpecification {
	return defaultFilterFactory.Negation(s)
}

func (s *CriterionSpecification) String() string {
	return fmt.Sprintf("%s(%s, %v)", s.op, s.attr, s.value)
}

func (s *CriterionSpecification) filterMarker() {}

// ConjunctionSpecification matches candidates satisfying both children.
type ConjunctionSpecification struct {
	left  FilterSpecification
	right FilterSpecification
}

func (s *ConjunctionSpecification) Left() FilterSpecification  { return s.left }
func (s *ConjunctionSpecification) Right() FilterSpecification { return s.right }

func (s *ConjunctionSpecification) Operator() Operator { return OpConjunction }

// IsSatisfiedBy evaluates both children so evaluation errors surface
// regardless of the other child's outcome.
func (s *ConjunctionSpecification) IsSatisfiedBy(candidate any) (bool, error) {
	l, err := s.left.IsSatisfiedBy(candidate)
	if err != nil {
		return false, err
	}
	r, err := s.right.IsSatisfiedBy(candidate)
	if err != nil {
		return false, err
	}
	return l && r, nil
}

func (s *ConjunctionSpecification) Equals(other FilterSpecification) bool {
	o, ok := other.(*ConjunctionSpecification)
	return ok && s.left.Equals(o.left) && s.right.Equals(o.right)
}

func (s *ConjunctionSpecification) And(other FilterSpecification) FilterSpecification {
	return defaultFilterFactory.Conjunction(s, other)
}

func (s *ConjunctionSpecification) Or(other FilterSpecification) FilterSpecification {
	return defaultFilterFactory.Disjunction(s, other)
}

func (s *ConjunctionSpecification) Not() FilterSpecification {
	return defaultFilterFactory.Negation(s)
}

func (s *ConjunctionSpecification) String() string {
	return fmt.Sprintf("conjunction(%v, %v)", s.left, s.right)
}

func (s *ConjunctionSpecification) filterMarker() {}

// DisjunctionSpecification matches candidates satisfying either child.
type DisjunctionSpecification struct {
	left  FilterSpecification
	right FilterSpecification
}

func (s *DisjunctionSpecification) Left() FilterSpecification  { return s.left }
func (s *DisjunctionSpecification) Right() FilterSpecification { return s.right }

func (s *DisjunctionSpecification) Operator() Operator { return OpDisjunction }

func (s *DisjunctionSpecification) IsSatisfiedBy(candidate any) (bool, error) {
	l, err := s.left.IsSatisfiedBy(candidate)
	if err != nil {
		return false, err
	}
	r, err := s.right.IsSatisfiedBy(candidate)
	if err != nil {
		return false, err
	}
	return l || r, nil
}

func (s *DisjunctionSpecification) Equals(other FilterSpecification) bool {
	o, ok := other.(*DisjunctionSpecification)
	return ok && s.left.Equals(o.left) && s.right.Equals(o.right)
}

func (s *DisjunctionSpecification) And(other FilterSpecification) FilterSpecification {
	return defaultFilterFactory.Conjunction(s, other)
}

func (s *DisjunctionSpecification) Or(other FilterSpecification) FilterSpecification {
	return defaultFilterFactory.Disjunction(s, other)
}

func (s *DisjunctionSpecification) Not() FilterSpecification {
	return defaultFilterFactory.Negation(s)
}

func (s *DisjunctionSpecification) String() string {
	return fmt.Sprintf("disjunction(%v, %v)", s.left, s.right)
}

func (s *DisjunctionSpecification) filterMarker() {}

// NegationSpecification matches candidates its wrapped child rejects.
type NegationSpecification struct {
	wrapped FilterSpecification
}

// Wrapped returns the negated child specification.
func (s *NegationSpecification) Wrapped() FilterSpecification { return s.wrapped }

func (s *NegationSpecification) Operator() Operator { return OpNegation }

func (s *NegationSpecification) IsSatisfiedBy(candidate any) (bool, error) {
	ok, err := s.wrapped.IsSatisfiedBy(candidate)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (s *NegationSpecification) Equals(other FilterSpecification) bool {
	o, ok := other.(*NegationSpecification)
	return ok && s.wrapped.Equals(o.wrapped)
}

func (s *NegationSpecification) And(other FilterSpecification) FilterSpecification {
	return defaultFilterFactory.Conjunction(s, other)
}

func (s *NegationSpecification) Or(other FilterSpecification) FilterSpecification {
	return defaultFilterFactory.Disjunction(s, other)
}

func (s *NegationSpecification) Not() FilterSpecification {
	return defaultFilterFactory.Negation(s)
}

func (s *NegationSpecification) String() string {
	return fmt.Sprintf("negation(%v)", s.wrapped)
}

func (s *NegationSpecification) filterMarker() {}

// FilterFactory creates filter specification nodes. Builders and directors
// construct trees exclusively through a factory, so a custom implementation
// can substitute enriched node types without touching assembly logic.
type FilterFactory interface {
	StartsWith(attrName string, value any) FilterSpecification
	EndsWith(attrName string, value any) FilterSpecification
	Contains(attrName string, value any) FilterSpecification
	Contained(attrName string, values []any) FilterSpecification
	EqualTo(attrName string, value any) FilterSpecification
	LessThan(attrName string, value any) FilterSpecification
	LessOrEqual(attrName string, value any) FilterSpecification
	GreaterThan(attrName string, value any) FilterSpecification
	GreaterOrEqual(attrName string, value any) FilterSpecification
	InRange(attrName string, from, to any) FilterSpecification
	Conjunction(left, right FilterSpecification) FilterSpecification
	Disjunction(left, right FilterSpecification) FilterSpecification
	Negation(wrapped FilterSpecification) FilterSpecification
}

// NewFilterFactory returns the factory producing the tree types in this
// package.
func NewFilterFactory() FilterFactory { return filterFactory{} }

type filterFactory struct{}

var defaultFilterFactory = filterFactory{}

func (filterFactory) StartsWith(attrName string, value any) FilterSpecification {
	return &CriterionSpecification{attr: attrName, value: value, op: OpStartsWith}
}

func (filterFactory) EndsWith(attrName string, value any) FilterSpecification {
	return &CriterionSpecification{attr: attrName, value: value, op: OpEndsWith}
}

func (filterFactory) Contains(attrName string, value any) FilterSpecification {
	return &CriterionSpecification{attr: attrName, value: value, op: OpContains}
}

func (filterFactory) Contained(attrName string, values []any) FilterSpecification {
	vals := make([]any, len(values))
	copy(vals, values)
	return &CriterionSpecification{attr: attrName, value: vals, op: OpContained}
}

func (filterFactory) EqualTo(attrName string, value any) FilterSpecification {
	return &CriterionSpecification{attr: attrName, value: value, op: OpEqualTo}
}

func (filterFactory) LessThan(attrName string, value any) FilterSpecification {
	return &CriterionSpecification{attr: attrName, value: value, op: OpLessThan}
}

func (filterFactory) LessOrEqual(attrName string, value any) FilterSpecification {
	return &CriterionSpecification{attr: attrName, value: value, op: OpLessOrEqual}
}

func (filterFactory) GreaterThan(attrName string, value any) FilterSpecification {
	return &CriterionSpecification{attr: attrName, value: value, op: OpGreaterThan}
}

func (filterFactory) GreaterOrEqual(attrName string, value any) FilterSpecification {
	return &CriterionSpecification{attr: attrName, value: value, op: OpGreaterOrEqual}
}

func (filterFactory) InRange(attrName string, from, to any) FilterSpecification {
	return &CriterionSpecification{attr: attrName, value: Range{From: from, To: to}, op: OpInRange}
}

func (filterFactory) Conjunction(left, right FilterSpecification) FilterSpecification {
	return &ConjunctionSpecification{left: left, right: right}
}

func (filterFactory) Disjunction(left, right FilterSpecification) FilterSpecification {
	return &DisjunctionSpecification{left: left, right: right}
}

func (filterFactory) Negation(wrapped FilterSpecification) FilterSpecification {
	return &NegationSpecification{wrapped: wrapped}
}

// Convenience constructors building single criteria with the default
// factory. Combine them with the And, Or and Not methods.

// Eq matches candidates whose attribute equals value.
func Eq(attrName string, value any) FilterSpecification {
	return defaultFilterFactory.EqualTo(attrName, value)
}

// StartsWith matches string attributes with the given prefix, or sequence
// attributes whose first element equals value.
func StartsWith(attrName string, value any) FilterSpecification {
	return defaultFilterFactory.StartsWith(attrName, value)
}

// EndsWith matches string attributes with the given suffix, or sequence
// attributes whose last element equals value.
func EndsWith(attrName string, value any) FilterSpecification {
	return defaultFilterFactory.EndsWith(attrName, value)
}

// Contains matches attributes containing value: substring containment for
// strings, membership for sequences.
func Contains(attrName string, value any) FilterSpecification {
	return defaultFilterFactory.Contains(attrName, value)
}

// ContainedIn matches attributes whose value is one of the given values.
func ContainedIn(attrName string, values ...any) FilterSpecification {
	return defaultFilterFactory.Contained(attrName, values)
}

// Lt matches attributes ordered strictly before value.
func Lt(attrName string, value any) FilterSpecification {
	return defaultFilterFactory.LessThan(attrName, value)
}

// Le matches attributes ordered before or equal to value.
func Le(attrName string, value any) FilterSpecification {
	return defaultFilterFactory.LessOrEqual(attrName, value)
}

// Gt matches attributes ordered strictly after value.
func Gt(attrName string, value any) FilterSpecification {
	return defaultFilterFactory.GreaterThan(attrName, value)
}

// Ge matches attributes ordered after or equal to value.
func Ge(attrName string, value any) FilterSpecification {
	return defaultFilterFactory.GreaterOrEqual(attrName, value)
}

// Rng matches attributes between from and to inclusive.
func Rng(attrName string, from, to any) FilterSpecification {
	return defaultFilterFactory.InRange(attrName, from, to)
}
