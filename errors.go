package queryspec

import "fmt"

// DuplicateCriterionError reports a second criterion built for an attribute
// and operator pair the FilterBuilder already holds.
type DuplicateCriterionError struct {
	Operator      Operator
	AttributeName string
}

func (e *DuplicateCriterionError) Error() string {
	return fmt.Sprintf("queryspec: duplicate %s criterion for attribute %q", e.Operator, e.AttributeName)
}

// UnknownOperatorError reports an operator name no director dispatch rule
// covers.
type UnknownOperatorError struct {
	Name string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("queryspec: unknown operator %q", e.Name)
}

// UncomparableValuesError reports two values of unrelated kinds reaching an
// ordering comparison.
type UncomparableValuesError struct {
	X any
	Y any
}

func (e *UncomparableValuesError) Error() string {
	return fmt.Sprintf("queryspec: cannot compare %T with %T", e.X, e.Y)
}

// AttributeError reports a dotted path segment that could not be read from a
// candidate value.
type AttributeError struct {
	Path    string
	Segment string
	Type    string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("queryspec: candidate of type %s has no attribute %q (path %q)", e.Type, e.Segment, e.Path)
}

// UnsupportedSpecificationError reports a specification node a compiler does
// not recognize.
type UnsupportedSpecificationError struct {
	Spec any
}

func (e *UnsupportedSpecificationError) Error() string {
	return fmt.Sprintf("queryspec: unsupported specification node %T", e.Spec)
}
