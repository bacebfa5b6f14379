package queryspec

import (
	"fmt"
	"strings"
)

// Arity describes the node shape an operator produces in a specification
// tree: nullary operators label leaves, unary and binary operators label
// composite nodes with one or two children.
type Arity int

const (
	Nullary Arity = iota
	Unary
	Binary
)

// String returns the lower-case arity name.
func (a Arity) String() string {
	switch a {
	case Nullary:
		return "nullary"
	case Unary:
		return "unary"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("arity(%d)", int(a))
}

// Operator identifies a specification node kind. The zero value is invalid;
// use the Op* package variables or OperatorByName.
type Operator struct {
	name  string
	arity Arity
}

// Comparison operators label filter criteria, junction operators label
// composite filter nodes, and the two direction operators label order terms.
var (
	OpStartsWith     = Operator{name: "starts_with"}
	OpEndsWith       = Operator{name: "ends_with"}
	OpContains       = Operator{name: "contains"}
	OpContained      = Operator{name: "contained"}
	OpEqualTo        = Operator{name: "equal_to"}
	OpLessThan       = Operator{name: "less_than"}
	OpLessOrEqual    = Operator{name: "less_or_equal"}
	OpGreaterThan    = Operator{name: "greater_than"}
	OpGreaterOrEqual = Operator{name: "greater_or_equal"}
	OpInRange        = Operator{name: "in_range"}

	OpConjunction = Operator{name: "conjunction", arity: Binary}
	OpDisjunction = Operator{name: "disjunction", arity: Binary}
	OpNegation    = Operator{name: "negation", arity: Unary}

	OpAscending  = Operator{name: "ascending"}
	OpDescending = Operator{name: "descending"}
)

var operatorsByName = map[string]Operator{
	OpStartsWith.name:     OpStartsWith,
	OpEndsWith.name:       OpEndsWith,
	OpContains.name:       OpContains,
	OpContained.name:      OpContained,
	OpEqualTo.name:        OpEqualTo,
	OpLessThan.name:       OpLessThan,
	OpLessOrEqual.name:    OpLessOrEqual,
	OpGreaterThan.name:    OpGreaterThan,
	OpGreaterOrEqual.name: OpGreaterOrEqual,
	OpInRange.name:        OpInRange,
	OpConjunction.name:    OpConjunction,
	OpDisjunction.name:    OpDisjunction,
	OpNegation.name:       OpNegation,
	OpAscending.name:      OpAscending,
	OpDescending.name:     OpDescending,
}

// OperatorByName resolves an operator from its canonical snake_case name.
func OperatorByName(name string) (Operator, bool) {
	op, ok := operatorsByName[name]
	return op, ok
}

// Name returns the canonical snake_case operator name, e.g. "equal_to".
func (o Operator) Name() string { return o.name }

// Arity returns the node shape the operator labels.
func (o Operator) Arity() Arity { return o.arity }

// IsZero reports whether the operator is the invalid zero value.
func (o Operator) IsZero() bool { return o.name == "" }

func (o Operator) String() string { return o.name }

// Apply evaluates the operator against a candidate attribute value and the
// criterion's reference value. Comparison operators treat a nil candidate
// value as matching nothing, with the single exception of equal_to against a
// nil reference. Junction operators expect boolean operands and are used when
// evaluating trees value by value.
func (o Operator) Apply(value, ref any) (bool, error) {
	switch o {
	case OpStartsWith:
		return edgeEquals(value, ref, false)
	case OpEndsWith:
		return edgeEquals(value, ref, true)
	case OpContains:
		return containsValue(value, ref)
	case OpContained:
		return containsValue(ref, value)
	case OpEqualTo:
		return equalValues(value, ref), nil
	case OpLessThan:
		return compareApply(value, ref, func(c int) bool { return c < 0 })
	case OpLessOrEqual:
		return compareApply(value, ref, func(c int) bool { return c <= 0 })
	case OpGreaterThan:
		return compareApply(value, ref, func(c int) bool { return c > 0 })
	case OpGreaterOrEqual:
		return compareApply(value, ref, func(c int) bool { return c >= 0 })
	case OpInRange:
		rng, ok := ref.(Range)
		if !ok {
			return false, fmt.Errorf("queryspec: in_range reference value is %T, want Range", ref)
		}
		low, err := compareApply(value, rng.From, func(c int) bool { return c >= 0 })
		if err != nil || !low {
			return false, err
		}
		return compareApply(value, rng.To, func(c int) bool { return c <= 0 })
	case OpConjunction, OpDisjunction:
		l, lok := value.(bool)
		r, rok := ref.(bool)
		if !lok || !rok {
			return false, fmt.Errorf("queryspec: %s expects boolean operands, got %T and %T", o.name, value, ref)
		}
		if o == OpConjunction {
			return l && r, nil
		}
		return l || r, nil
	case OpNegation:
		b, ok := value.(bool)
		if !ok {
			return false, fmt.Errorf("queryspec: negation expects a boolean operand, got %T", value)
		}
		return !b, nil
	}
	return false, fmt.Errorf("queryspec: operator %q cannot be applied to values", o.name)
}

// Cmp orders two values under a direction operator: negative when a sorts
// before b, zero when they tie. Only ascending and descending support Cmp.
func (o Operator) Cmp(a, b any) (int, error) {
	switch o {
	case OpAscending:
		return compareValues(a, b)
	case OpDescending:
		c, err := compareValues(a, b)
		return -c, err
	}
	return 0, fmt.Errorf("queryspec: operator %q does not order values", o.name)
}

// compareApply runs a three-way comparison and projects it through pred.
// A nil operand on either side never satisfies an ordering comparison.
func compareApply(value, ref any, pred func(int) bool) (bool, error) {
	if value == nil || ref == nil {
		return false, nil
	}
	c, err := compareValues(value, ref)
	if err != nil {
		return false, err
	}
	return pred(c), nil
}

// edgeEquals implements starts_with and ends_with. String candidates use
// prefix/suffix matching; sequence candidates compare their first or last
// element against the reference value.
func edgeEquals(value, ref any, last bool) (bool, error) {
	if value == nil || ref == nil {
		return false, nil
	}
	if s, ok := stringValue(value); ok {
		rs, ok := stringValue(ref)
		if !ok {
			return false, fmt.Errorf("queryspec: cannot match string against %T", ref)
		}
		if last {
			return strings.HasSuffix(s, rs), nil
		}
		return strings.HasPrefix(s, rs), nil
	}
	elem, ok := sequenceEdge(value, last)
	if !ok {
		return false, fmt.Errorf("queryspec: value of type %T has no first or last element", value)
	}
	return equalValues(elem, ref), nil
}

// containsValue reports whether outer contains inner: substring containment
// for strings, element membership for sequences.
func containsValue(outer, inner any) (bool, error) {
	if outer == nil || inner == nil {
		return false, nil
	}
	if s, ok := stringValue(outer); ok {
		is, ok := stringValue(inner)
		if !ok {
			return false, fmt.Errorf("queryspec: cannot search for %T in a string", inner)
		}
		return strings.Contains(s, is), nil
	}
	elems, ok := sequenceValues(outer)
	if !ok {
		return false, fmt.Errorf("queryspec: value of type %T is not a container", outer)
	}
	for _, e := range elems {
		if equalValues(e, inner) {
			return true, nil
		}
	}
	return false, nil
}
