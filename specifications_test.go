package queryspec

import (
	"errors"
	"testing"
	"time"
)

type member struct {
	Name      string
	Age       int64
	Tags      []any
	CreatedAt time.Time
	Parent    *member
}

func TestCriterionIsSatisfiedBy(t *testing.T) {
	m := &member{
		Name:      "alice",
		Age:       42,
		Tags:      []any{"admin", "staff"},
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		spec FilterSpecification
		want bool
	}{
		{"equal on struct field", Eq("name", "alice"), true},
		{"equal mismatch", Eq("name", "bob"), false},
		{"snake case field match", Gt("created_at", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), true},
		{"greater than", Gt("age", int64(21)), true},
		{"starts with", StartsWith("name", "al"), true},
		{"contains member", Contains("tags", "staff"), true},
		{"contained in", ContainedIn("name", "alice", "bob"), true},
		{"range", Rng("age", int64(40), int64(50)), true},
		{"absent parent path is nil", Eq("parent.name", "root"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.IsSatisfiedBy(m)
			if err != nil {
				t.Fatalf("IsSatisfiedBy failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("%v on %+v = %v, want %v", tt.spec, m, got, tt.want)
			}
		})
	}
}

func TestCriterionIsSatisfiedByMap(t *testing.T) {
	candidate := map[string]any{
		"status": "open",
		"owner":  map[string]any{"name": "alice"},
	}
	ok, err := Eq("owner.name", "alice").IsSatisfiedBy(candidate)
	if err != nil {
		t.Fatalf("IsSatisfiedBy failed: %v", err)
	}
	if !ok {
		t.Error("expected nested map path to match")
	}

	_, err = Eq("missing", "x").IsSatisfiedBy(candidate)
	var ae *AttributeError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AttributeError, got %v", err)
	}
	if ae.Segment != "missing" {
		t.Errorf("AttributeError segment = %q, want %q", ae.Segment, "missing")
	}
}

func TestSpecificationCombinators(t *testing.T) {
	m := &member{Name: "alice", Age: 42}

	spec := Eq("name", "alice").And(Gt("age", int64(21)))
	ok, err := spec.IsSatisfiedBy(m)
	if err != nil {
		t.Fatalf("And failed: %v", err)
	}
	if !ok {
		t.Error("expected conjunction to match")
	}

	spec = Eq("name", "bob").Or(Eq("name", "alice"))
	ok, err = spec.IsSatisfiedBy(m)
	if err != nil {
		t.Fatalf("Or failed: %v", err)
	}
	if !ok {
		t.Error("expected disjunction to match")
	}

	spec = Eq("name", "bob").Not()
	ok, err = spec.IsSatisfiedBy(m)
	if err != nil {
		t.Fatalf("Not failed: %v", err)
	}
	if !ok {
		t.Error("expected negation to match")
	}

	spec = Eq("name", "alice").And(Eq("name", "bob"))
	ok, err = spec.IsSatisfiedBy(m)
	if err != nil {
		t.Fatalf("And failed: %v", err)
	}
	if ok {
		t.Error("expected conjunction with failing side to reject")
	}
}

func TestConjunctionSurfacesRightSideError(t *testing.T) {
	m := &member{Name: "alice"}
	// Left side already false; the bad right side must still surface its error.
	spec := Eq("name", "bob").And(Eq("no_such", "x"))
	if _, err := spec.IsSatisfiedBy(m); err == nil {
		t.Error("expected attribute error from right side")
	}
}

func TestCriterionEquals(t *testing.T) {
	// Criteria compare by attribute and value only; the operator is ignored.
	if !Eq("age", int64(5)).Equals(Gt("age", int64(5))) {
		t.Error("expected criteria with same attribute and value to be equal")
	}
	if Eq("age", int64(5)).Equals(Eq("age", int64(6))) {
		t.Error("expected criteria with different values to differ")
	}
	if Eq("age", int64(5)).Equals(Eq("size", int64(5))) {
		t.Error("expected criteria with different attributes to differ")
	}
	if Eq("age", int64(5)).Equals(Eq("age", int64(5)).Not()) {
		t.Error("expected criterion not to equal a composite")
	}
}

func TestCompositeEquals(t *testing.T) {
	a := Eq("a", int64(1)).And(Eq("b", int64(2)))
	b := Eq("a", int64(1)).And(Eq("b", int64(2)))
	c := Eq("a", int64(1)).Or(Eq("b", int64(2)))
	if !a.Equals(b) {
		t.Error("expected equal conjunctions")
	}
	if a.Equals(c) {
		t.Error("expected conjunction to differ from disjunction")
	}
	if !a.Not().Equals(b.Not()) {
		t.Error("expected equal negations")
	}
}

func TestFactoryNodeShapes(t *testing.T) {
	f := NewFilterFactory()

	leaf := f.InRange("age", int64(1), int64(10))
	crit, ok := leaf.(*CriterionSpecification)
	if !ok {
		t.Fatalf("expected criterion, got %T", leaf)
	}
	if crit.Operator() != OpInRange {
		t.Errorf("operator = %s, want in_range", crit.Operator())
	}
	rng, ok := crit.AttributeValue().(Range)
	if !ok {
		t.Fatalf("expected Range value, got %T", crit.AttributeValue())
	}
	if !equalValues(rng.From, int64(1)) || !equalValues(rng.To, int64(10)) {
		t.Errorf("unexpected range bounds: %v", rng)
	}

	cont := f.Contained("name", []any{"a", "b"})
	vals, ok := cont.(*CriterionSpecification).AttributeValue().([]any)
	if !ok || len(vals) != 2 {
		t.Fatalf("expected contained value list of 2, got %v", vals)
	}

	conj := f.Conjunction(leaf, cont)
	if conj.Operator() != OpConjunction {
		t.Errorf("operator = %s, want conjunction", conj.Operator())
	}
	if conj.(*ConjunctionSpecification).Left() != leaf {
		t.Error("conjunction left child not preserved")
	}
}

type refValue struct {
	url    string
	entity any
}

func (r refValue) URL() string      { return r.url }
func (r refValue) Dereference() any { return r.entity }

func TestCriterionDereferencesValues(t *testing.T) {
	ref := refValue{url: "http://api/users/1", entity: "alice"}
	ok, err := Eq("name", ref).IsSatisfiedBy(&member{Name: "alice"})
	if err != nil {
		t.Fatalf("IsSatisfiedBy failed: %v", err)
	}
	if !ok {
		t.Error("expected reference value to compare by its entity")
	}
}
