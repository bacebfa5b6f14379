package rdb

import (
	"fmt"
	"strings"

	"github.com/hugr-lab/queryspec"
)

// Join is one LEFT JOIN a compiled ordering relies on.
type Join struct {
	Table string
	Alias string
	On    string
}

// Ordering is the relational projection of an ordering tree: ORDER BY terms
// in significance order plus the joins that make their columns reachable.
type Ordering struct {
	Terms []string
	Joins []Join
}

type orderOptions struct {
	joins map[string][]Join
}

// OrderOption configures an OrderCompiler.
type OrderOption func(*orderOptions)

// WithJoin substitutes hand-written joins for an attribute path, replacing
// the schema-derived ones. Terms on the attribute qualify its last segment
// with the alias (or table) of the final join.
func WithJoin(attrName string, joins ...Join) OrderOption {
	return func(o *orderOptions) {
		if o.joins == nil {
			o.joins = make(map[string][]Join)
		}
		o.joins[attrName] = joins
	}
}

// OrderCompiler compiles ordering trees into ORDER BY terms. Relationship
// paths order by the target column through LEFT JOINs, so rows without a
// parent still appear.
type OrderCompiler struct {
	schema Inspector
	entity string
	joins  map[string][]Join
}

// NewOrderCompiler returns a compiler for orderings over entity.
func NewOrderCompiler(schema Inspector, entity string, opts ...OrderOption) *OrderCompiler {
	var o orderOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &OrderCompiler{schema: schema, entity: entity, joins: o.joins}
}

// Compile folds the ordering tree into terms and join requirements.
func (c *OrderCompiler) Compile(spec queryspec.OrderSpecification) (Ordering, error) {
	return queryspec.CompileOrder(spec, c)
}

// CompileTerm compiles a single ordering term.
func (c *OrderCompiler) CompileTerm(spec *queryspec.SimpleOrderSpecification) (Ordering, error) {
	if spec.Natural() {
		return Ordering{}, fmt.Errorf("rdb: natural order on %q has no SQL form", spec.AttributeName())
	}
	dir := " ASC"
	if spec.Operator() == queryspec.OpDescending {
		dir = " DESC"
	}

	if joins, ok := c.joins[spec.AttributeName()]; ok {
		return Ordering{
			Terms: []string{customJoinColumn(spec.AttributeName(), joins) + dir},
			Joins: joins,
		}, nil
	}

	hops, err := c.schema.Inspect(c.entity, spec.AttributeName())
	if err != nil {
		return Ordering{}, err
	}
	last, err := terminalHop(c.entity, spec.AttributeName(), hops)
	if err != nil {
		return Ordering{}, err
	}

	rels := hops[:len(hops)-1]
	joins := make([]Join, 0, len(rels))
	qualifier := hops[0].Owner.Table
	prefix := make([]string, 0, len(rels))
	for _, h := range rels {
		prefix = append(prefix, h.Name)
		alias := strings.Join(prefix, "_")
		joins = append(joins, Join{
			Table: h.Target.Table,
			Alias: alias,
			On:    fmt.Sprintf("%s.%s = %s.%s", alias, h.Attr.TargetColumn, qualifier, h.Attr.LocalColumn),
		})
		qualifier = alias
	}
	return Ordering{
		Terms: []string{qualifier + "." + last.Attr.Column + dir},
		Joins: joins,
	}, nil
}

// CompileConjunction concatenates terms left to right and merges join
// requirements, keeping each join once.
func (c *OrderCompiler) CompileConjunction(_ *queryspec.ConjunctionOrderSpecification, left, right Ordering) (Ordering, error) {
	terms := make([]string, 0, len(left.Terms)+len(right.Terms))
	terms = append(terms, left.Terms...)
	terms = append(terms, right.Terms...)
	return Ordering{Terms: terms, Joins: mergeJoins(left.Joins, right.Joins)}, nil
}

func customJoinColumn(path string, joins []Join) string {
	seg := path
	if i := strings.LastIndex(path, "."); i >= 0 {
		seg = path[i+1:]
	}
	if len(joins) == 0 {
		return seg
	}
	last := joins[len(joins)-1]
	qualifier := last.Alias
	if qualifier == "" {
		qualifier = last.Table
	}
	return qualifier + "." + seg
}

func mergeJoins(left, right []Join) []Join {
	if len(right) == 0 {
		return left
	}
	out := make([]Join, 0, len(left)+len(right))
	out = append(out, left...)
	for _, j := range right {
		seen := false
		for _, have := range out {
			if have == j {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, j)
		}
	}
	return out
}
