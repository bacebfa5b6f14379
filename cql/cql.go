package cql

import "github.com/hugr-lab/queryspec"

type parseOptions struct {
	filters  queryspec.FilterFactory
	orders   queryspec.OrderFactory
	resolver queryspec.ReferenceResolver
}

// ParseOption configures ParseFilter and ParseOrder.
type ParseOption func(*parseOptions)

// WithFilterFactory sets the factory filter nodes are created through.
func WithFilterFactory(f queryspec.FilterFactory) ParseOption {
	return func(o *parseOptions) { o.filters = f }
}

// WithOrderFactory sets the factory order nodes are created through.
func WithOrderFactory(f queryspec.OrderFactory) ParseOption {
	return func(o *parseOptions) { o.orders = f }
}

// WithResolver sets the resolver applied to URL-shaped string values.
func WithResolver(r queryspec.ReferenceResolver) ParseOption {
	return func(o *parseOptions) { o.resolver = r }
}

func newParseOptions(opts []ParseOption) parseOptions {
	o := parseOptions{
		filters: queryspec.NewFilterFactory(),
		orders:  queryspec.NewOrderFactory(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CriteriaParser adapts ParseCriteria to the queryspec.FilterParser
// interface expected by filter directors.
type CriteriaParser struct{}

func (CriteriaParser) Parse(query string) ([]queryspec.RawCriterion, error) {
	return ParseCriteria(query)
}

// OrderTermParser adapts ParseOrderTerms to the queryspec.OrderParser
// interface expected by order directors.
type OrderTermParser struct{}

func (OrderTermParser) Parse(query string) ([]queryspec.RawOrder, error) {
	return ParseOrderTerms(query)
}
