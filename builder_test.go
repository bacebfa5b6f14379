package queryspec

import (
	"errors"
	"fmt"
	"testing"
)

func TestFilterBuilderSingleCriterion(t *testing.T) {
	b := NewFilterBuilder(NewFilterFactory())
	if err := b.BuildEqualTo("name", []any{"alice"}); err != nil {
		t.Fatalf("BuildEqualTo failed: %v", err)
	}

	spec := b.Specification()
	crit, ok := spec.(*CriterionSpecification)
	if !ok {
		t.Fatalf("expected criterion, got %T", spec)
	}
	if crit.AttributeName() != "name" || crit.Operator() != OpEqualTo {
		t.Errorf("unexpected criterion: %v", crit)
	}
}

func TestFilterBuilderMultiValueDisjunction(t *testing.T) {
	b := NewFilterBuilder(NewFilterFactory())
	if err := b.BuildEqualTo("name", []any{"alice", "bob"}); err != nil {
		t.Fatalf("BuildEqualTo failed: %v", err)
	}

	disj, ok := b.Specification().(*DisjunctionSpecification)
	if !ok {
		t.Fatalf("expected disjunction, got %T", b.Specification())
	}
	left, ok := disj.Left().(*CriterionSpecification)
	if !ok || !equalValues(left.AttributeValue(), "alice") {
		t.Errorf("unexpected left leaf: %v", disj.Left())
	}
	right, ok := disj.Right().(*CriterionSpecification)
	if !ok || !equalValues(right.AttributeValue(), "bob") {
		t.Errorf("unexpected right leaf: %v", disj.Right())
	}
}

func TestFilterBuilderAccumulatesConjunction(t *testing.T) {
	b := NewFilterBuilder(NewFilterFactory())
	if err := b.BuildEqualTo("name", []any{"alice"}); err != nil {
		t.Fatalf("BuildEqualTo failed: %v", err)
	}
	if err := b.BuildGreaterThan("age", []any{int64(21)}); err != nil {
		t.Fatalf("BuildGreaterThan failed: %v", err)
	}

	conj, ok := b.Specification().(*ConjunctionSpecification)
	if !ok {
		t.Fatalf("expected conjunction, got %T", b.Specification())
	}
	if conj.Left().Operator() != OpEqualTo {
		t.Errorf("left operator = %s, want equal_to", conj.Left().Operator())
	}
	if conj.Right().Operator() != OpGreaterThan {
		t.Errorf("right operator = %s, want greater_than", conj.Right().Operator())
	}
}

func TestFilterBuilderContainedSingleLeaf(t *testing.T) {
	// Contained folds all values into one membership criterion instead of a
	// disjunction of leaves.
	b := NewFilterBuilder(NewFilterFactory())
	if err := b.BuildContained("status", []any{"open", "closed", "open"}); err != nil {
		t.Fatalf("BuildContained failed: %v", err)
	}

	crit, ok := b.Specification().(*CriterionSpecification)
	if !ok {
		t.Fatalf("expected criterion, got %T", b.Specification())
	}
	vals, ok := crit.AttributeValue().([]any)
	if !ok {
		t.Fatalf("expected value list, got %T", crit.AttributeValue())
	}
	if len(vals) != 2 {
		t.Errorf("expected deduplicated list of 2, got %v", vals)
	}
}

func TestFilterBuilderNegatedCriterion(t *testing.T) {
	b := NewFilterBuilder(NewFilterFactory())
	if err := b.BuildNotEqualTo("name", []any{"alice", "bob"}); err != nil {
		t.Fatalf("BuildNotEqualTo failed: %v", err)
	}

	neg, ok := b.Specification().(*NegationSpecification)
	if !ok {
		t.Fatalf("expected negation at root, got %T", b.Specification())
	}
	if _, ok := neg.Wrapped().(*DisjunctionSpecification); !ok {
		t.Errorf("expected negation to wrap the whole disjunction, got %T", neg.Wrapped())
	}
}

func TestFilterBuilderIgnoresEmptyValues(t *testing.T) {
	b := NewFilterBuilder(NewFilterFactory())
	if err := b.BuildEqualTo("name", []any{"", ""}); err != nil {
		t.Fatalf("BuildEqualTo failed: %v", err)
	}
	if b.Specification() != nil {
		t.Errorf("expected nil specification, got %v", b.Specification())
	}
}

func TestFilterBuilderDeduplicatesValues(t *testing.T) {
	b := NewFilterBuilder(NewFilterFactory())
	if err := b.BuildEqualTo("name", []any{"alice", "alice", "bob"}); err != nil {
		t.Fatalf("BuildEqualTo failed: %v", err)
	}
	// Two distinct values survive: one disjunction of two leaves.
	disj, ok := b.Specification().(*DisjunctionSpecification)
	if !ok {
		t.Fatalf("expected disjunction, got %T", b.Specification())
	}
	if _, ok := disj.Left().(*CriterionSpecification); !ok {
		t.Errorf("expected criterion leaf, got %T", disj.Left())
	}
}

func TestFilterBuilderDuplicateCriterion(t *testing.T) {
	b := NewFilterBuilder(NewFilterFactory())
	if err := b.BuildEqualTo("name", []any{"alice"}); err != nil {
		t.Fatalf("BuildEqualTo failed: %v", err)
	}

	err := b.BuildEqualTo("name", []any{"bob"})
	var dup *DuplicateCriterionError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateCriterionError, got %v", err)
	}
	if dup.AttributeName != "name" || dup.Operator != OpEqualTo {
		t.Errorf("unexpected error fields: %+v", dup)
	}

	// The negated variant shares the positive operator's slot.
	if err := b.BuildNotEqualTo("name", []any{"carol"}); !errors.As(err, &dup) {
		t.Errorf("expected duplicate for negated variant, got %v", err)
	}

	// A different operator on the same attribute is fine.
	if err := b.BuildGreaterThan("name", []any{"a"}); err != nil {
		t.Errorf("expected distinct operator to pass, got %v", err)
	}
}

func TestFilterBuilderInRange(t *testing.T) {
	b := NewFilterBuilder(NewFilterFactory())
	ranges := []Range{
		{From: int64(1), To: int64(10)},
		{From: int64(1), To: int64(10)},
		{From: int64(20), To: int64(30)},
	}
	if err := b.BuildInRange("age", ranges); err != nil {
		t.Fatalf("BuildInRange failed: %v", err)
	}

	disj, ok := b.Specification().(*DisjunctionSpecification)
	if !ok {
		t.Fatalf("expected disjunction of two deduplicated ranges, got %T", b.Specification())
	}
	leaf, ok := disj.Left().(*CriterionSpecification)
	if !ok || leaf.Operator() != OpInRange {
		t.Fatalf("expected in_range leaf, got %v", disj.Left())
	}
	if _, ok := leaf.AttributeValue().(Range); !ok {
		t.Errorf("expected Range value, got %T", leaf.AttributeValue())
	}
}

type fakeResolver struct {
	entities map[string]any
	fail     bool
}

func (r *fakeResolver) Resolve(url string) (any, error) {
	if r.fail {
		return nil, fmt.Errorf("connection refused")
	}
	e, ok := r.entities[url]
	if !ok {
		return nil, fmt.Errorf("no such resource: %s", url)
	}
	return e, nil
}

func TestFilterBuilderResolvesReferences(t *testing.T) {
	r := &fakeResolver{entities: map[string]any{
		"http://api.test/users/1": "alice",
	}}
	b := NewFilterBuilder(NewFilterFactory(), WithReferenceResolver(r))
	if err := b.BuildEqualTo("owner", []any{"http://api.test/users/1"}); err != nil {
		t.Fatalf("BuildEqualTo failed: %v", err)
	}

	crit := b.Specification().(*CriterionSpecification)
	if !equalValues(crit.AttributeValue(), "alice") {
		t.Errorf("expected resolved entity, got %v", crit.AttributeValue())
	}
}

func TestFilterBuilderResolverErrors(t *testing.T) {
	b := NewFilterBuilder(NewFilterFactory(), WithReferenceResolver(&fakeResolver{fail: true}))
	if err := b.BuildEqualTo("owner", []any{"http://api.test/users/1"}); err == nil {
		t.Error("expected resolver failure to propagate")
	}
}

func TestFilterBuilderWithoutResolverKeepsURLs(t *testing.T) {
	b := NewFilterBuilder(NewFilterFactory())
	if err := b.BuildEqualTo("owner", []any{"http://api.test/users/1"}); err != nil {
		t.Fatalf("BuildEqualTo failed: %v", err)
	}
	crit := b.Specification().(*CriterionSpecification)
	if crit.AttributeValue() != "http://api.test/users/1" {
		t.Errorf("expected URL kept as string, got %v", crit.AttributeValue())
	}
}

func TestNormalizeValues(t *testing.T) {
	got, err := NormalizeValues([]any{"", "a", "a", int64(1), int64(1), ""}, nil)
	if err != nil {
		t.Fatalf("NormalizeValues failed: %v", err)
	}
	if len(got) != 2 || got[0] != "a" || !equalValues(got[1], int64(1)) {
		t.Errorf("unexpected normalized values: %v", got)
	}
}

func TestOrderBuilderChain(t *testing.T) {
	b := NewOrderBuilder(NewOrderFactory())
	if b.Specification() != nil {
		t.Fatal("expected nil specification before building")
	}

	b.BuildAscending("disc")
	b.BuildDescending("number")
	b.BuildNatural("title")

	// ((disc asc) and (number desc)) and (title natural)
	outer, ok := b.Specification().(*ConjunctionOrderSpecification)
	if !ok {
		t.Fatalf("expected conjunction, got %T", b.Specification())
	}
	inner, ok := outer.Left().(*ConjunctionOrderSpecification)
	if !ok {
		t.Fatalf("expected nested conjunction on the left, got %T", outer.Left())
	}
	if inner.Left().Operator() != OpAscending {
		t.Errorf("first term operator = %s, want ascending", inner.Left().Operator())
	}
	if inner.Right().Operator() != OpDescending {
		t.Errorf("second term operator = %s, want descending", inner.Right().Operator())
	}
	last, ok := outer.Right().(*SimpleOrderSpecification)
	if !ok || !last.Natural() {
		t.Errorf("expected natural term last, got %v", outer.Right())
	}
}
