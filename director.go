package queryspec

import (
	"fmt"
	"log/slog"
	"strings"
)

// RawCriterion is one parsed filter criterion before dispatch: attribute and
// operator still in their hyphenated query form, values already typed.
type RawCriterion struct {
	Attribute string
	Operator  string
	Values    []any
}

// RawOrder is one parsed order term before dispatch.
type RawOrder struct {
	Attribute string
	Operator  string
}

// FilterParser extracts raw criteria from a filter query expression.
type FilterParser interface {
	Parse(query string) ([]RawCriterion, error)
}

// OrderParser extracts raw order terms from an order query expression.
type OrderParser interface {
	Parse(query string) ([]RawOrder, error)
}

// IdentifierFromSlug converts a hyphenated query token to an identifier:
// "not-equal-to" becomes "not_equal_to".
func IdentifierFromSlug(s string) string { return strings.ReplaceAll(s, "-", "_") }

// SlugFromIdentifier converts an identifier to its hyphenated query form.
func SlugFromIdentifier(s string) string { return strings.ReplaceAll(s, "_", "-") }

type directorOptions struct {
	logger *slog.Logger
}

// DirectorOption configures a FilterDirector or OrderDirector.
type DirectorOption func(*directorOptions)

// WithLogger sets the logger directors report construction steps to. The
// default is slog.Default().
func WithLogger(l *slog.Logger) DirectorOption {
	return func(o *directorOptions) { o.logger = l }
}

func newDirectorOptions(opts []DirectorOption) directorOptions {
	o := directorOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FilterDirector drives a FilterBuilder from parsed query expressions.
// Malformed expressions are collected as accumulated errors rather than
// returned, so a request handler can gather every complaint across several
// query parameters before rejecting the request. Semantic errors raised by
// the builder, such as duplicate criteria, abort construction immediately.
type FilterDirector struct {
	parser  FilterParser
	builder *FilterBuilder
	logger  *slog.Logger
	errs    []string
}

// NewFilterDirector returns a director feeding the given builder from the
// given parser.
func NewFilterDirector(parser FilterParser, builder *FilterBuilder, opts ...DirectorOption) *FilterDirector {
	o := newDirectorOptions(opts)
	return &FilterDirector{parser: parser, builder: builder, logger: o.logger}
}

// Construct parses a filter query expression and dispatches each criterion
// to the builder. Parse failures are recorded and reported through Errors;
// builder and dispatch failures are returned.
func (d *FilterDirector) Construct(query string) error {
	d.logger.Debug("constructing filter specification", "query", query)
	crits, err := d.parser.Parse(query)
	if err != nil {
		d.errs = append(d.errs, fmt.Sprintf("filter expression has errors: %v", err))
		return nil
	}
	for _, c := range crits {
		if err := d.dispatch(c); err != nil {
			return err
		}
	}
	return nil
}

func (d *FilterDirector) dispatch(c RawCriterion) error {
	attr := IdentifierFromSlug(c.Attribute)
	op := IdentifierFromSlug(c.Operator)
	negate := strings.HasPrefix(op, "not_")
	base := strings.TrimPrefix(op, "not_")
	d.logger.Debug("building criterion", "attribute", attr, "operator", op, "values", len(c.Values))
	switch base {
	case OpEqualTo.Name():
		if negate {
			return d.builder.BuildNotEqualTo(attr, c.Values)
		}
		return d.builder.BuildEqualTo(attr, c.Values)
	case OpStartsWith.Name():
		if negate {
			return d.builder.BuildNotStartsWith(attr, c.Values)
		}
		return d.builder.BuildStartsWith(attr, c.Values)
	case OpEndsWith.Name():
		if negate {
			return d.builder.BuildNotEndsWith(attr, c.Values)
		}
		return d.builder.BuildEndsWith(attr, c.Values)
	case OpContains.Name():
		if negate {
			return d.builder.BuildNotContains(attr, c.Values)
		}
		return d.builder.BuildContains(attr, c.Values)
	case OpContained.Name():
		if negate {
			return d.builder.BuildNotContained(attr, c.Values)
		}
		return d.builder.BuildContained(attr, c.Values)
	case OpLessThan.Name():
		if negate {
			return d.builder.BuildNotLessThan(attr, c.Values)
		}
		return d.builder.BuildLessThan(attr, c.Values)
	case OpLessOrEqual.Name():
		if negate {
			return d.builder.BuildNotLessOrEqual(attr, c.Values)
		}
		return d.builder.BuildLessOrEqual(attr, c.Values)
	case OpGreaterThan.Name():
		if negate {
			return d.builder.BuildNotGreaterThan(attr, c.Values)
		}
		return d.builder.BuildGreaterThan(attr, c.Values)
	case OpGreaterOrEqual.Name():
		if negate {
			return d.builder.BuildNotGreaterOrEqual(attr, c.Values)
		}
		return d.builder.BuildGreaterOrEqual(attr, c.Values)
	case OpInRange.Name():
		ranges, err := rangeValues(attr, c.Values)
		if err != nil {
			return err
		}
		if negate {
			return d.builder.BuildNotInRange(attr, ranges)
		}
		return d.builder.BuildInRange(attr, ranges)
	}
	return &UnknownOperatorError{Name: c.Operator}
}

func rangeValues(attrName string, values []any) ([]Range, error) {
	out := make([]Range, 0, len(values))
	for _, v := range values {
		r, ok := v.(Range)
		if !ok {
			return nil, fmt.Errorf("queryspec: in_range criterion for %q expects range values, got %T", attrName, v)
		}
		out = append(out, r)
	}
	return out, nil
}

// HasErrors reports whether any constructed expression failed to parse.
func (d *FilterDirector) HasErrors() bool { return len(d.errs) > 0 }

// Errors returns a copy of the accumulated parse error messages.
func (d *FilterDirector) Errors() []string {
	out := make([]string, len(d.errs))
	copy(out, d.errs)
	return out
}

// OrderDirector drives an OrderBuilder from parsed order expressions, with
// the same error split as FilterDirector.
type OrderDirector struct {
	parser  OrderParser
	builder *OrderBuilder
	logger  *slog.Logger
	errs    []string
}

// NewOrderDirector returns a director feeding the given builder from the
// given parser.
func NewOrderDirector(parser OrderParser, builder *OrderBuilder, opts ...DirectorOption) *OrderDirector {
	o := newDirectorOptions(opts)
	return &OrderDirector{parser: parser, builder: builder, logger: o.logger}
}

// Construct parses an order query expression and dispatches each term to the
// builder.
func (d *OrderDirector) Construct(query string) error {
	d.logger.Debug("constructing order specification", "query", query)
	terms, err := d.parser.Parse(query)
	if err != nil {
		d.errs = append(d.errs, fmt.Sprintf("order expression has errors: %v", err))
		return nil
	}
	for _, t := range terms {
		attr := IdentifierFromSlug(t.Attribute)
		switch IdentifierFromSlug(t.Operator) {
		case "asc", OpAscending.Name():
			d.builder.BuildAscending(attr)
		case "desc", OpDescending.Name():
			d.builder.BuildDescending(attr)
		case "natural":
			d.builder.BuildNatural(attr)
		default:
			return &UnknownOperatorError{Name: t.Operator}
		}
	}
	return nil
}

// HasErrors reports whether any constructed expression failed to parse.
func (d *OrderDirector) HasErrors() bool { return len(d.errs) > 0 }

// Errors returns a copy of the accumulated parse error messages.
func (d *OrderDirector) Errors() []string {
	out := make([]string, len(d.errs))
	copy(out, d.errs)
	return out
}
