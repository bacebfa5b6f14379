package rdb

import (
	"github.com/huandu/go-sqlbuilder"

	"github.com/hugr-lab/queryspec"
)

// Query binds a filter, an ordering and a result slice to an entity and
// assembles them into a SELECT statement.
type Query struct {
	schema     Inspector
	entity     string
	columns    []string
	filter     queryspec.FilterSpecification
	order      queryspec.OrderSpecification
	limit      int
	offset     int
	flavor     sqlbuilder.Flavor
	filterOpts []FilterOption
	orderOpts  []OrderOption
}

// QueryOption configures a Query.
type QueryOption func(*Query)

// WithColumns selects the named columns instead of *.
func WithColumns(columns ...string) QueryOption {
	return func(q *Query) { q.columns = columns }
}

// WithFilter restricts the query to rows matching the specification.
func WithFilter(spec queryspec.FilterSpecification) QueryOption {
	return func(q *Query) { q.filter = spec }
}

// WithOrder sorts the result by the specification.
func WithOrder(spec queryspec.OrderSpecification) QueryOption {
	return func(q *Query) { q.order = spec }
}

// WithLimit caps the number of returned rows.
func WithLimit(n int) QueryOption {
	return func(q *Query) { q.limit = n }
}

// WithOffset skips the first n rows of the ordered result.
func WithOffset(n int) QueryOption {
	return func(q *Query) { q.offset = n }
}

// WithFlavor renders the statement for a specific SQL dialect. The default
// flavor produces ? placeholders, which DuckDB accepts.
func WithFlavor(flavor sqlbuilder.Flavor) QueryOption {
	return func(q *Query) { q.flavor = flavor }
}

// WithFilterOptions forwards options to the filter compiler.
func WithFilterOptions(opts ...FilterOption) QueryOption {
	return func(q *Query) { q.filterOpts = append(q.filterOpts, opts...) }
}

// WithOrderOptions forwards options to the order compiler.
func WithOrderOptions(opts ...OrderOption) QueryOption {
	return func(q *Query) { q.orderOpts = append(q.orderOpts, opts...) }
}

// NewQuery builds a query over entity.
func NewQuery(schema Inspector, entity string, opts ...QueryOption) *Query {
	q := &Query{schema: schema, entity: entity, limit: -1, offset: -1}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Entity returns the queried entity name.
func (q *Query) Entity() string { return q.entity }

// SelectBuilder assembles the full SELECT: columns, filter, order joins,
// ORDER BY and the result slice.
func (q *Query) SelectBuilder() (*sqlbuilder.SelectBuilder, error) {
	sb, err := q.builder(q.columns)
	if err != nil {
		return nil, err
	}
	if q.order != nil {
		oc := NewOrderCompiler(q.schema, q.entity, q.orderOpts...)
		ordering, err := oc.Compile(q.order)
		if err != nil {
			return nil, err
		}
		for _, j := range ordering.Joins {
			table := j.Table
			if j.Alias != "" {
				table = sb.As(j.Table, j.Alias)
			}
			sb.JoinWithOption(sqlbuilder.LeftJoin, table, j.On)
		}
		sb.OrderBy(ordering.Terms...)
	}
	if q.limit >= 0 {
		sb.Limit(q.limit)
	}
	if q.offset >= 0 {
		sb.Offset(q.offset)
	}
	return sb, nil
}

// CountBuilder assembles SELECT COUNT(*) over the filtered set, ignoring
// ordering and slicing.
func (q *Query) CountBuilder() (*sqlbuilder.SelectBuilder, error) {
	return q.builder([]string{"COUNT(*)"})
}

func (q *Query) builder(columns []string) (*sqlbuilder.SelectBuilder, error) {
	table, err := q.schema.Table(q.entity)
	if err != nil {
		return nil, err
	}
	sb := sqlbuilder.NewSelectBuilder()
	if q.flavor != 0 {
		sb.SetFlavor(q.flavor)
	}
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	sb.Select(columns...)
	sb.From(table)
	if q.filter != nil {
		fc := NewFilterCompiler(q.schema, q.entity, sb, q.filterOpts...)
		cond, err := fc.Compile(q.filter)
		if err != nil {
			return nil, err
		}
		sb.Where(cond)
	}
	return sb, nil
}

// Build returns the SELECT statement and its bound arguments.
func (q *Query) Build() (string, []any, error) {
	sb, err := q.SelectBuilder()
	if err != nil {
		return "", nil, err
	}
	sql, args := sb.Build()
	return sql, args, nil
}
