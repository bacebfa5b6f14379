package rdb

import (
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"

	"github.com/hugr-lab/queryspec"
)

// ClauseFactory builds a custom WHERE clause for one attribute and operator
// pair, bypassing schema path resolution. The clause must bind its values
// through the builder it receives.
type ClauseFactory func(sb *sqlbuilder.SelectBuilder, value any) string

type clauseKey struct {
	attr string
	op   string
}

type filterOptions struct {
	clauses map[clauseKey]ClauseFactory
}

// FilterOption configures a FilterCompiler.
type FilterOption func(*filterOptions)

// WithClause installs a custom clause for criteria on the attribute and
// operator pair. Custom clauses are consulted before path resolution, so the
// attribute does not need to exist in the schema.
func WithClause(attrName string, op queryspec.Operator, factory ClauseFactory) FilterOption {
	return func(o *filterOptions) {
		if o.clauses == nil {
			o.clauses = make(map[clauseKey]ClauseFactory)
		}
		o.clauses[clauseKey{attr: attrName, op: op.Name()}] = factory
	}
}

// FilterCompiler compiles filter trees into WHERE conditions on a select
// builder. Criteria on relationship paths become correlated EXISTS
// subqueries, one per hop, so a missing parent row never matches and never
// errors.
type FilterCompiler struct {
	schema  Inspector
	entity  string
	sb      *sqlbuilder.SelectBuilder
	clauses map[clauseKey]ClauseFactory
}

// NewFilterCompiler returns a compiler producing conditions bound to sb.
func NewFilterCompiler(schema Inspector, entity string, sb *sqlbuilder.SelectBuilder, opts ...FilterOption) *FilterCompiler {
	var o filterOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &FilterCompiler{schema: schema, entity: entity, sb: sb, clauses: o.clauses}
}

// Compile folds the filter tree into one WHERE condition.
func (c *FilterCompiler) Compile(spec queryspec.FilterSpecification) (string, error) {
	return queryspec.CompileFilter(spec, c)
}

// CompileCriterion compiles a single criterion. Custom clauses registered
// for the attribute and operator pair take precedence over path resolution.
func (c *FilterCompiler) CompileCriterion(spec *queryspec.CriterionSpecification) (string, error) {
	if factory, ok := c.clauses[clauseKey{attr: spec.AttributeName(), op: spec.Operator().Name()}]; ok {
		return factory(c.sb, spec.AttributeValue()), nil
	}
	hops, err := c.schema.Inspect(c.entity, spec.AttributeName())
	if err != nil {
		return "", err
	}
	return c.pathCondition(hops, spec)
}

// CompileConjunction joins both compiled children with AND.
func (c *FilterCompiler) CompileConjunction(_ *queryspec.ConjunctionSpecification, left, right string) (string, error) {
	return c.sb.And(left, right), nil
}

// CompileDisjunction joins both compiled children with OR.
func (c *FilterCompiler) CompileDisjunction(_ *queryspec.DisjunctionSpecification, left, right string) (string, error) {
	return c.sb.Or(left, right), nil
}

// CompileNegation wraps the compiled child with NOT.
func (c *FilterCompiler) CompileNegation(_ *queryspec.NegationSpecification, wrapped string) (string, error) {
	return c.sb.Not(wrapped), nil
}

// pathCondition builds the comparison for a resolved path. The terminal
// comparison is placed in the innermost scope and each relationship hop
// wraps it, right to left, in a correlated EXISTS subquery.
func (c *FilterCompiler) pathCondition(hops []Hop, spec *queryspec.CriterionSpecification) (string, error) {
	last, err := terminalHop(c.entity, spec.AttributeName(), hops)
	if err != nil {
		return "", err
	}
	rels := hops[:len(hops)-1]

	builders := make([]*sqlbuilder.SelectBuilder, len(rels)+1)
	qualifiers := make([]string, len(rels)+1)
	builders[0] = c.sb
	qualifiers[0] = hops[0].Owner.Table
	prefix := make([]string, 0, len(rels))
	for i, h := range rels {
		prefix = append(prefix, h.Name)
		alias := strings.Join(prefix, "_")
		inner := sqlbuilder.NewSelectBuilder()
		inner.Select("1")
		inner.From(inner.As(h.Target.Table, alias))
		builders[i+1] = inner
		qualifiers[i+1] = alias
	}

	innermost := builders[len(builders)-1]
	column := qualifiers[len(qualifiers)-1] + "." + last.Attr.Column
	cond, err := comparison(innermost, column, spec.Operator(), spec.AttributeValue())
	if err != nil {
		return "", err
	}
	for i := len(rels) - 1; i >= 0; i-- {
		h := rels[i]
		join := fmt.Sprintf("%s.%s = %s.%s", qualifiers[i+1], h.Attr.TargetColumn, qualifiers[i], h.Attr.LocalColumn)
		builders[i+1].Where(join, cond)
		cond = builders[i].Exists(builders[i+1])
	}
	return cond, nil
}

// comparison maps a comparison operator onto a condition on column, binding
// values through sb.
func comparison(sb *sqlbuilder.SelectBuilder, column string, op queryspec.Operator, value any) (string, error) {
	switch op {
	case queryspec.OpEqualTo:
		v := bindValue(value)
		if v == nil {
			return sb.IsNull(column), nil
		}
		return sb.Equal(column, v), nil
	case queryspec.OpLessThan:
		return sb.LessThan(column, bindValue(value)), nil
	case queryspec.OpLessOrEqual:
		return sb.LessEqualThan(column, bindValue(value)), nil
	case queryspec.OpGreaterThan:
		return sb.GreaterThan(column, bindValue(value)), nil
	case queryspec.OpGreaterOrEqual:
		return sb.GreaterEqualThan(column, bindValue(value)), nil
	case queryspec.OpStartsWith:
		s, err := likeOperand(column, value)
		if err != nil {
			return "", err
		}
		return sb.Like(column, s+"%") + likeEscape, nil
	case queryspec.OpEndsWith:
		s, err := likeOperand(column, value)
		if err != nil {
			return "", err
		}
		return sb.Like(column, "%"+s) + likeEscape, nil
	case queryspec.OpContains:
		s, err := likeOperand(column, value)
		if err != nil {
			return "", err
		}
		return sb.Like(column, "%"+s+"%") + likeEscape, nil
	case queryspec.OpContained:
		values, ok := value.([]any)
		if !ok {
			return "", fmt.Errorf("rdb: contained criterion on %s carries %T, want a value list", column, value)
		}
		bound := make([]any, len(values))
		for i, v := range values {
			bound[i] = bindValue(v)
		}
		return sb.In(column, bound...), nil
	case queryspec.OpInRange:
		rng, ok := value.(queryspec.Range)
		if !ok {
			return "", fmt.Errorf("rdb: in_range criterion on %s carries %T, want a range", column, value)
		}
		return sb.Between(column, bindValue(rng.From), bindValue(rng.To)), nil
	}
	return "", fmt.Errorf("rdb: operator %q has no SQL form", op.Name())
}

// likeEscape forces the backslash escape character. DuckDB has no default
// LIKE escape, so escaped wildcards need the explicit clause.
const likeEscape = ` ESCAPE '\'`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeOperand escapes LIKE wildcards in a literal so criterion values never
// act as patterns.
func likeOperand(column string, value any) (string, error) {
	v := bindValue(value)
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("rdb: LIKE pattern on %s needs a string value, got %T", column, v)
	}
	return likeEscaper.Replace(s), nil
}

// bindValue unwraps resolved resource references; every other value binds
// as-is.
func bindValue(v any) any {
	if ref, ok := v.(queryspec.ValueReference); ok {
		return ref.Dereference()
	}
	return v
}
