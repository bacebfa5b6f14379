package queryspec

import "fmt"

// OrderSpecification is a node in an immutable ordering tree. Simple terms
// order by one attribute; conjunctions chain terms lexicographically, the
// right term breaking ties the left one leaves.
type OrderSpecification interface {
	// Operator identifies the node kind: ascending or descending for simple
	// terms, conjunction for chained orders.
	Operator() Operator

	// Eq reports whether x and y tie under this ordering.
	Eq(x, y any) (bool, error)

	// Lt reports whether x sorts strictly before y.
	Lt(x, y any) (bool, error)

	// Le reports whether x sorts before y or ties with it.
	Le(x, y any) (bool, error)

	// Gt reports whether x sorts strictly after y.
	Gt(x, y any) (bool, error)

	// Ge reports whether x sorts after y or ties with it.
	Ge(x, y any) (bool, error)

	// Cmp returns a negative value when x sorts before y, zero on a tie.
	Cmp(x, y any) (int, error)

	// And returns the conjunction of this ordering and a subordinate one.
	And(other OrderSpecification) OrderSpecification

	// Reverse returns the ordering with every direction flipped.
	Reverse() OrderSpecification

	// Equals reports whether other describes the same ordering.
	Equals(other OrderSpecification) bool

	orderMarker()
}

// SimpleOrderSpecification orders candidates by a single attribute path.
type SimpleOrderSpecification struct {
	attr    string
	op      Operator
	natural bool
}

// AttributeName returns the dotted attribute path the term orders by.
func (s *SimpleOrderSpecification) AttributeName() string { return s.attr }

// Natural reports whether string values compare with embedded digit runs
// ordered numerically.
func (s *SimpleOrderSpecification) Natural() bool { return s.natural }

// Operator returns OpAscending or OpDescending.
func (s *SimpleOrderSpecification) Operator() Operator { return s.op }

// Cmp reads the attribute from both candidates and compares the values under
// the term's direction.
func (s *SimpleOrderSpecification) Cmp(x, y any) (int, error) {
	xv, err := AttributeValue(x, s.attr)
	if err != nil {
		return 0, err
	}
	yv, err := AttributeValue(y, s.attr)
	if err != nil {
		return 0, err
	}
	var c int
	if s.natural {
		c, err = naturalCompare(xv, yv)
	} else {
		c, err = compareValues(xv, yv)
	}
	if err != nil {
		return 0, err
	}
	if s.op == OpDescending {
		c = -c
	}
	return c, nil
}

func (s *SimpleOrderSpecification) Eq(x, y any) (bool, error) { return cmpIs(s, x, y, isZero) }
func (s *SimpleOrderSpecification) Lt(x, y any) (bool, error) { return cmpIs(s, x, y, isNeg) }
func (s *SimpleOrderSpecification) Le(x, y any) (bool, error) { return cmpIs(s, x, y, isNonPos) }
func (s *SimpleOrderSpecification) Gt(x, y any) (bool, error) { return cmpIs(s, x, y, isPos) }
func (s *SimpleOrderSpecification) Ge(x, y any) (bool, error) { return cmpIs(s, x, y, isNonNeg) }

func (s *SimpleOrderSpecification) And(other OrderSpecification) OrderSpecification {
	return defaultOrderFactory.Conjunction(s, other)
}

// Reverse flips the term's direction, keeping natural comparison.
func (s *SimpleOrderSpecification) Reverse() OrderSpecification {
	op := OpAscending
	if s.op == OpAscending {
		op = OpDescending
	}
	return &SimpleOrderSpecification{attr: s.attr, op: op, natural: s.natural}
}

func (s *SimpleOrderSpecification) Equals(other OrderSpecification) bool {
	o, ok := other.(*SimpleOrderSpecification)
	return ok && s.attr == o.attr && s.op == o.op && s.natural == o.natural
}

func (s *SimpleOrderSpecification) String() string {
	if s.natural {
		return fmt.Sprintf("%s(%s, natural)", s.op, s.attr)
	}
	return fmt.Sprintf("%s(%s)", s.op, s.attr)
}

func (s *SimpleOrderSpecification) orderMarker() {}

// ConjunctionOrderSpecification chains two orderings: the right one decides
// only when the left one ties.
type ConjunctionOrderSpecification struct {
	left  OrderSpecification
	right OrderSpecification
}

func (s *ConjunctionOrderSpecification) Left() OrderSpecification  { return s.left }
func (s *ConjunctionOrderSpecification) Right() OrderSpecification { return s.right }

func (s *ConjunctionOrderSpecification) Operator() Operator { return OpConjunction }

func (s *ConjunctionOrderSpecification) Cmp(x, y any) (int, error) {
	c, err := s.left.Cmp(x, y)
	if err != nil || c != 0 {
		return c, err
	}
	return s.right.Cmp(x, y)
}

func (s *ConjunctionOrderSpecification) Eq(x, y any) (bool, error) { return cmpIs(s, x, y, isZero) }
func (s *ConjunctionOrderSpecification) Lt(x, y any) (bool, error) { return cmpIs(s, x, y, isNeg) }
func (s *ConjunctionOrderSpecification) Le(x, y any) (bool, error) { return cmpIs(s, x, y, isNonPos) }
func (s *ConjunctionOrderSpecification) Gt(x, y any) (bool, error) { return cmpIs(s, x, y, isPos) }
func (s *ConjunctionOrderSpecification) Ge(x, y any) (bool, error) { return cmpIs(s, x, y, isNonNeg) }

func (s *ConjunctionOrderSpecification) And(other OrderSpecification) OrderSpecification {
	return defaultOrderFactory.Conjunction(s, other)
}

// Reverse flips every term in the chain.
func (s *ConjunctionOrderSpecification) Reverse() OrderSpecification {
	return &ConjunctionOrderSpecification{left: s.left.Reverse(), right: s.right.Reverse()}
}

func (s *ConjunctionOrderSpecification) Equals(other OrderSpecification) bool {
	o, ok := other.(*ConjunctionOrderSpecification)
	return ok && s.left.Equals(o.left) && s.right.Equals(o.right)
}

func (s *ConjunctionOrderSpecification) String() string {
	return fmt.Sprintf("conjunction(%v, %v)", s.left, s.right)
}

func (s *ConjunctionOrderSpecification) orderMarker() {}

func cmpIs(s OrderSpecification, x, y any, pred func(int) bool) (bool, error) {
	c, err := s.Cmp(x, y)
	if err != nil {
		return false, err
	}
	return pred(c), nil
}

func isZero(c int) bool   { return c == 0 }
func isNeg(c int) bool    { return c < 0 }
func isNonPos(c int) bool { return c <= 0 }
func isPos(c int) bool    { return c > 0 }
func isNonNeg(c int) bool { return c >= 0 }

// OrderFactory creates order specification nodes, mirroring FilterFactory.
type OrderFactory interface {
	Ascending(attrName string) OrderSpecification
	Descending(attrName string) OrderSpecification
	Natural(attrName string) OrderSpecification
	Conjunction(left, right OrderSpecification) OrderSpecification
}

// NewOrderFactory returns the factory producing the ordering types in this
// package.
func NewOrderFactory() OrderFactory { return orderFactory{} }

type orderFactory struct{}

var defaultOrderFactory = orderFactory{}

func (orderFactory) Ascending(attrName string) OrderSpecification {
	return &SimpleOrderSpecification{attr: attrName, op: OpAscending}
}

func (orderFactory) Descending(attrName string) OrderSpecification {
	return &SimpleOrderSpecification{attr: attrName, op: OpDescending}
}

func (orderFactory) Natural(attrName string) OrderSpecification {
	return &SimpleOrderSpecification{attr: attrName, op: OpAscending, natural: true}
}

func (orderFactory) Conjunction(left, right OrderSpecification) OrderSpecification {
	return &ConjunctionOrderSpecification{left: left, right: right}
}

// Asc orders ascending by an attribute.
func Asc(attrName string) OrderSpecification {
	return defaultOrderFactory.Ascending(attrName)
}

// Desc orders descending by an attribute.
func Desc(attrName string) OrderSpecification {
	return defaultOrderFactory.Descending(attrName)
}

// Natural orders ascending by an attribute with digit runs compared
// numerically.
func Natural(attrName string) OrderSpecification {
	return defaultOrderFactory.Natural(attrName)
}
