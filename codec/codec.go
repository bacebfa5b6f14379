package codec

import (
	"fmt"
	"math"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/hugr-lab/queryspec"
)

// Node kinds of the wire form. Filter trees use the first four, order trees
// use term and conjunction.
const (
	kindCriterion   = "criterion"
	kindConjunction = "conjunction"
	kindDisjunction = "disjunction"
	kindNegation    = "negation"
	kindTerm        = "term"
)

// node is the wire form of one specification tree node. Value and the range
// bounds never use omitempty: false, zero and empty-string reference values
// must survive the trip.
type node struct {
	Kind     string     `msgpack:"kind"`
	Op       string     `msgpack:"op,omitempty"`
	Attr     string     `msgpack:"attr,omitempty"`
	Value    any        `msgpack:"value"`
	Range    *rangeNode `msgpack:"range,omitempty"`
	Natural  bool       `msgpack:"natural,omitempty"`
	Children []*node    `msgpack:"children,omitempty"`
}

// rangeNode carries the bounds of an in_range criterion.
type rangeNode struct {
	From any `msgpack:"from"`
	To   any `msgpack:"to"`
}

// DecodeError reports a payload that does not describe a valid
// specification tree.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string { return "codec: " + e.Reason }

type encodeOptions struct {
	compress bool
}

// EncodeOption configures EncodeFilter and EncodeOrder.
type EncodeOption func(*encodeOptions)

// WithCompression compresses encoded payloads with ZStandard.
func WithCompression() EncodeOption {
	return func(o *encodeOptions) { o.compress = true }
}

type decodeOptions struct {
	filters  queryspec.FilterFactory
	orders   queryspec.OrderFactory
	resolver queryspec.ReferenceResolver
}

// DecodeOption configures DecodeFilter and DecodeOrder.
type DecodeOption func(*decodeOptions)

// WithFilterFactory sets the factory filter nodes are created through.
func WithFilterFactory(f queryspec.FilterFactory) DecodeOption {
	return func(o *decodeOptions) { o.filters = f }
}

// WithOrderFactory sets the factory order nodes are created through.
func WithOrderFactory(f queryspec.OrderFactory) DecodeOption {
	return func(o *decodeOptions) { o.orders = f }
}

// WithResolver sets the resolver applied to URL-shaped string values.
// References encode as their URL, so decoding with the resolver that minted
// them restores the referenced values.
func WithResolver(r queryspec.ReferenceResolver) DecodeOption {
	return func(o *decodeOptions) { o.resolver = r }
}

func newDecodeOptions(opts []DecodeOption) decodeOptions {
	o := decodeOptions{
		filters: queryspec.NewFilterFactory(),
		orders:  queryspec.NewOrderFactory(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// EncodeFilter serializes a filter specification tree.
func EncodeFilter(spec queryspec.FilterSpecification, opts ...EncodeOption) ([]byte, error) {
	var o encodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	n, err := queryspec.CompileFilter(spec, filterEncoder{})
	if err != nil {
		return nil, err
	}
	return marshalNode(n, o)
}

// DecodeFilter reconstructs a filter specification tree from EncodeFilter
// output, compressed or not.
func DecodeFilter(data []byte, opts ...DecodeOption) (queryspec.FilterSpecification, error) {
	o := newDecodeOptions(opts)
	n, err := unmarshalNode(data)
	if err != nil {
		return nil, err
	}
	return buildFilter(n, &o)
}

// EncodeOrder serializes an order specification tree.
func EncodeOrder(spec queryspec.OrderSpecification, opts ...EncodeOption) ([]byte, error) {
	var o encodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	n, err := queryspec.CompileOrder(spec, orderEncoder{})
	if err != nil {
		return nil, err
	}
	return marshalNode(n, o)
}

// DecodeOrder reconstructs an order specification tree from EncodeOrder
// output, compressed or not.
func DecodeOrder(data []byte, opts ...DecodeOption) (queryspec.OrderSpecification, error) {
	o := newDecodeOptions(opts)
	n, err := unmarshalNode(data)
	if err != nil {
		return nil, err
	}
	return buildOrder(n, &o)
}

func marshalNode(n *node, o encodeOptions) ([]byte, error) {
	data, err := msgpack.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("codec: failed to encode specification: %w", err)
	}
	if !o.compress {
		return data, nil
	}
	return compress(data)
}

func unmarshalNode(data []byte) (*node, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Reason: "empty payload"}
	}
	if isCompressed(data) {
		var err error
		data, err = decompress(data)
		if err != nil {
			return nil, err
		}
	}
	var n node
	if err := msgpack.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("codec: failed to decode specification: %w", err)
	}
	return &n, nil
}

// filterEncoder compiles filter trees to wire nodes.
type filterEncoder struct{}

func (filterEncoder) CompileCriterion(spec *queryspec.CriterionSpecification) (*node, error) {
	n := &node{Kind: kindCriterion, Op: spec.Operator().Name(), Attr: spec.AttributeName()}
	if spec.Operator() == queryspec.OpInRange {
		rng, ok := spec.AttributeValue().(queryspec.Range)
		if !ok {
			return nil, fmt.Errorf("codec: in_range criterion on %q carries %T, want queryspec.Range",
				spec.AttributeName(), spec.AttributeValue())
		}
		n.Range = &rangeNode{From: encodeValue(rng.From), To: encodeValue(rng.To)}
		return n, nil
	}
	n.Value = encodeValue(spec.AttributeValue())
	return n, nil
}

func (filterEncoder) CompileConjunction(_ *queryspec.ConjunctionSpecification, left, right *node) (*node, error) {
	return &node{Kind: kindConjunction, Children: []*node{left, right}}, nil
}

func (filterEncoder) CompileDisjunction(_ *queryspec.DisjunctionSpecification, left, right *node) (*node, error) {
	return &node{Kind: kindDisjunction, Children: []*node{left, right}}, nil
}

func (filterEncoder) CompileNegation(_ *queryspec.NegationSpecification, wrapped *node) (*node, error) {
	return &node{Kind: kindNegation, Children: []*node{wrapped}}, nil
}

// orderEncoder compiles order trees to wire nodes.
type orderEncoder struct{}

func (orderEncoder) CompileTerm(term *queryspec.SimpleOrderSpecification) (*node, error) {
	return &node{
		Kind:    kindTerm,
		Op:      term.Operator().Name(),
		Attr:    term.AttributeName(),
		Natural: term.Natural(),
	}, nil
}

func (orderEncoder) CompileConjunction(_ *queryspec.ConjunctionOrderSpecification, left, right *node) (*node, error) {
	return &node{Kind: kindConjunction, Children: []*node{left, right}}, nil
}

// encodeValue maps criterion values onto msgpack-friendly forms. References
// flatten to their URL, lists map element by element.
func encodeValue(v any) any {
	switch val := v.(type) {
	case queryspec.ValueReference:
		return val.URL()
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = encodeValue(e)
		}
		return out
	}
	return v
}

func buildFilter(n *node, o *decodeOptions) (queryspec.FilterSpecification, error) {
	if n == nil {
		return nil, &DecodeError{Reason: "missing filter node"}
	}
	switch n.Kind {
	case kindCriterion:
		return buildCriterion(n, o)
	case kindConjunction, kindDisjunction:
		if len(n.Children) != 2 {
			return nil, &DecodeError{Reason: fmt.Sprintf("%s node has %d children, want 2", n.Kind, len(n.Children))}
		}
		left, err := buildFilter(n.Children[0], o)
		if err != nil {
			return nil, err
		}
		right, err := buildFilter(n.Children[1], o)
		if err != nil {
			return nil, err
		}
		if n.Kind == kindDisjunction {
			return o.filters.Disjunction(left, right), nil
		}
		return o.filters.Conjunction(left, right), nil
	case kindNegation:
		if len(n.Children) != 1 {
			return nil, &DecodeError{Reason: fmt.Sprintf("negation node has %d children, want 1", len(n.Children))}
		}
		wrapped, err := buildFilter(n.Children[0], o)
		if err != nil {
			return nil, err
		}
		return o.filters.Negation(wrapped), nil
	}
	return nil, &DecodeError{Reason: fmt.Sprintf("unknown filter node kind %q", n.Kind)}
}

func buildCriterion(n *node, o *decodeOptions) (queryspec.FilterSpecification, error) {
	if n.Attr == "" {
		return nil, &DecodeError{Reason: "criterion without an attribute"}
	}
	op, ok := queryspec.OperatorByName(n.Op)
	if !ok {
		return nil, &DecodeError{Reason: fmt.Sprintf("unknown operator %q", n.Op)}
	}
	switch op {
	case queryspec.OpInRange:
		if n.Range == nil {
			return nil, &DecodeError{Reason: "in_range criterion without bounds"}
		}
		from, err := o.decodeValue(n.Range.From)
		if err != nil {
			return nil, err
		}
		to, err := o.decodeValue(n.Range.To)
		if err != nil {
			return nil, err
		}
		return o.filters.InRange(n.Attr, from, to), nil
	case queryspec.OpContained:
		value, err := o.decodeValue(n.Value)
		if err != nil {
			return nil, err
		}
		vals, ok := value.([]any)
		if !ok {
			return nil, &DecodeError{Reason: fmt.Sprintf("contained criterion carries %T, want a value list", n.Value)}
		}
		return o.filters.Contained(n.Attr, vals), nil
	}
	value, err := o.decodeValue(n.Value)
	if err != nil {
		return nil, err
	}
	switch op {
	case queryspec.OpStartsWith:
		return o.filters.StartsWith(n.Attr, value), nil
	case queryspec.OpEndsWith:
		return o.filters.EndsWith(n.Attr, value), nil
	case queryspec.OpContains:
		return o.filters.Contains(n.Attr, value), nil
	case queryspec.OpEqualTo:
		return o.filters.EqualTo(n.Attr, value), nil
	case queryspec.OpLessThan:
		return o.filters.LessThan(n.Attr, value), nil
	case queryspec.OpLessOrEqual:
		return o.filters.LessOrEqual(n.Attr, value), nil
	case queryspec.OpGreaterThan:
		return o.filters.GreaterThan(n.Attr, value), nil
	case queryspec.OpGreaterOrEqual:
		return o.filters.GreaterOrEqual(n.Attr, value), nil
	}
	return nil, &DecodeError{Reason: fmt.Sprintf("operator %q does not compare values", n.Op)}
}

func buildOrder(n *node, o *decodeOptions) (queryspec.OrderSpecification, error) {
	if n == nil {
		return nil, &DecodeError{Reason: "missing order node"}
	}
	switch n.Kind {
	case kindTerm:
		return buildTerm(n, o)
	case kindConjunction:
		if len(n.Children) != 2 {
			return nil, &DecodeError{Reason: fmt.Sprintf("conjunction node has %d children, want 2", len(n.Children))}
		}
		left, err := buildOrder(n.Children[0], o)
		if err != nil {
			return nil, err
		}
		right, err := buildOrder(n.Children[1], o)
		if err != nil {
			return nil, err
		}
		return o.orders.Conjunction(left, right), nil
	}
	return nil, &DecodeError{Reason: fmt.Sprintf("unknown order node kind %q", n.Kind)}
}

func buildTerm(n *node, o *decodeOptions) (queryspec.OrderSpecification, error) {
	if n.Attr == "" {
		return nil, &DecodeError{Reason: "order term without an attribute"}
	}
	op, ok := queryspec.OperatorByName(n.Op)
	if !ok {
		return nil, &DecodeError{Reason: fmt.Sprintf("unknown operator %q", n.Op)}
	}
	switch op {
	case queryspec.OpAscending:
		if n.Natural {
			return o.orders.Natural(n.Attr), nil
		}
		return o.orders.Ascending(n.Attr), nil
	case queryspec.OpDescending:
		if n.Natural {
			return o.orders.Natural(n.Attr).Reverse(), nil
		}
		return o.orders.Descending(n.Attr), nil
	}
	return nil, &DecodeError{Reason: fmt.Sprintf("operator %q does not direct an ordering", n.Op)}
}

// decodeValue maps raw msgpack scalars onto the value vocabulary the
// operators compare: integers of every width become int64, float32 widens
// to float64 and lists rebuild element by element. URL-shaped strings pass
// through the resolver when one is configured.
func (o *decodeOptions) decodeValue(v any) (any, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return val, nil
		}
		return int64(val), nil
	case float32:
		return float64(val), nil
	case string:
		if o.resolver != nil && isResourceURL(val) {
			rv, err := o.resolver.Resolve(val)
			if err != nil {
				return nil, fmt.Errorf("codec: resolve reference %q: %w", val, err)
			}
			return rv, nil
		}
		return val, nil
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			de, err := o.decodeValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = de
		}
		return out, nil
	}
	return v, nil
}

func isResourceURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
