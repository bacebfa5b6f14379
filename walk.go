package queryspec

// WalkFilter visits every node of a filter tree in post order, children
// before their parent. Walking stops at the first error, which is returned.
func WalkFilter(spec FilterSpecification, fn func(FilterSpecification) error) error {
	switch s := spec.(type) {
	case *CriterionSpecification:
	case *ConjunctionSpecification:
		if err := WalkFilter(s.left, fn); err != nil {
			return err
		}
		if err := WalkFilter(s.right, fn); err != nil {
			return err
		}
	case *DisjunctionSpecification:
		if err := WalkFilter(s.left, fn); err != nil {
			return err
		}
		if err := WalkFilter(s.right, fn); err != nil {
			return err
		}
	case *NegationSpecification:
		if err := WalkFilter(s.wrapped, fn); err != nil {
			return err
		}
	default:
		return &UnsupportedSpecificationError{Spec: spec}
	}
	return fn(spec)
}

// WalkOrder visits every node of an ordering tree in post order.
func WalkOrder(spec OrderSpecification, fn func(OrderSpecification) error) error {
	switch s := spec.(type) {
	case *SimpleOrderSpecification:
	case *ConjunctionOrderSpecification:
		if err := WalkOrder(s.left, fn); err != nil {
			return err
		}
		if err := WalkOrder(s.right, fn); err != nil {
			return err
		}
	default:
		return &UnsupportedSpecificationError{Spec: spec}
	}
	return fn(spec)
}

// FilterCompiler translates filter trees into a projection-specific result
// type, one method per node kind. CompileFilter drives the recursion and
// hands each composite node its children's already-compiled results.
type FilterCompiler[T any] interface {
	CompileCriterion(spec *CriterionSpecification) (T, error)
	CompileConjunction(spec *ConjunctionSpecification, left, right T) (T, error)
	CompileDisjunction(spec *DisjunctionSpecification, left, right T) (T, error)
	CompileNegation(spec *NegationSpecification, wrapped T) (T, error)
}

// CompileFilter folds a filter tree bottom-up through the compiler. Nodes
// outside the package's closed node set yield an
// UnsupportedSpecificationError.
func CompileFilter[T any](spec FilterSpecification, c FilterCompiler[T]) (T, error) {
	var zero T
	switch s := spec.(type) {
	case *CriterionSpecification:
		return c.CompileCriterion(s)
	case *ConjunctionSpecification:
		l, err := CompileFilter(s.left, c)
		if err != nil {
			return zero, err
		}
		r, err := CompileFilter(s.right, c)
		if err != nil {
			return zero, err
		}
		return c.CompileConjunction(s, l, r)
	case *DisjunctionSpecification:
		l, err := CompileFilter(s.left, c)
		if err != nil {
			return zero, err
		}
		r, err := CompileFilter(s.right, c)
		if err != nil {
			return zero, err
		}
		return c.CompileDisjunction(s, l, r)
	case *NegationSpecification:
		w, err := CompileFilter(s.wrapped, c)
		if err != nil {
			return zero, err
		}
		return c.CompileNegation(s, w)
	}
	return zero, &UnsupportedSpecificationError{Spec: spec}
}

// OrderCompiler translates ordering trees into a projection-specific result
// type.
type OrderCompiler[T any] interface {
	CompileTerm(spec *SimpleOrderSpecification) (T, error)
	CompileConjunction(spec *ConjunctionOrderSpecification, left, right T) (T, error)
}

// CompileOrder folds an ordering tree bottom-up through the compiler.
func CompileOrder[T any](spec OrderSpecification, c OrderCompiler[T]) (T, error) {
	var zero T
	switch s := spec.(type) {
	case *SimpleOrderSpecification:
		return c.CompileTerm(s)
	case *ConjunctionOrderSpecification:
		l, err := CompileOrder(s.left, c)
		if err != nil {
			return zero, err
		}
		r, err := CompileOrder(s.right, c)
		if err != nil {
			return zero, err
		}
		return c.CompileConjunction(s, l, r)
	}
	return zero, &UnsupportedSpecificationError{Spec: spec}
}
