package memory

import (
	"github.com/hugr-lab/queryspec"
)

// Predicate reports whether a candidate matches a compiled filter.
type Predicate func(candidate any) (bool, error)

// Comparator orders two candidates under a compiled ordering: negative when x
// sorts first, zero on a tie.
type Comparator func(x, y any) (int, error)

// CompilePredicate compiles a filter tree into a Predicate. Every node kind
// delegates to the tree's own evaluation, so the predicate and the tree agree
// on every candidate; going through the compile driver still rejects foreign
// node types up front.
func CompilePredicate(spec queryspec.FilterSpecification) (Predicate, error) {
	return queryspec.CompileFilter(spec, predicateCompiler{})
}

// CompileComparator compiles an ordering tree into a Comparator.
func CompileComparator(spec queryspec.OrderSpecification) (Comparator, error) {
	return queryspec.CompileOrder(spec, comparatorCompiler{})
}

type predicateCompiler struct{}

func (predicateCompiler) CompileCriterion(spec *queryspec.CriterionSpecification) (Predicate, error) {
	return spec.IsSatisfiedBy, nil
}

func (predicateCompiler) CompileConjunction(spec *queryspec.ConjunctionSpecification, _, _ Predicate) (Predicate, error) {
	return spec.IsSatisfiedBy, nil
}

func (predicateCompiler) CompileDisjunction(spec *queryspec.DisjunctionSpecification, _, _ Predicate) (Predicate, error) {
	return spec.IsSatisfiedBy, nil
}

func (predicateCompiler) CompileNegation(spec *queryspec.NegationSpecification, _ Predicate) (Predicate, error) {
	return spec.IsSatisfiedBy, nil
}

type comparatorCompiler struct{}

func (comparatorCompiler) CompileTerm(spec *queryspec.SimpleOrderSpecification) (Comparator, error) {
	return spec.Cmp, nil
}

func (comparatorCompiler) CompileConjunction(spec *queryspec.ConjunctionOrderSpecification, _, _ Comparator) (Comparator, error) {
	return spec.Cmp, nil
}
