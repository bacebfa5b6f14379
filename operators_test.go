package queryspec

import (
	"errors"
	"testing"
	"time"
)

func TestOperatorApplyComparisons(t *testing.T) {
	mar := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		op    Operator
		value any
		ref   any
		want  bool
	}{
		{"equal strings", OpEqualTo, "a", "a", true},
		{"equal across int widths", OpEqualTo, int32(5), int64(5), true},
		{"equal int and float", OpEqualTo, int64(5), 5.0, true},
		{"unequal strings", OpEqualTo, "a", "b", false},
		{"nil equals nil", OpEqualTo, nil, nil, true},
		{"nil unequal to value", OpEqualTo, nil, int64(1), false},
		{"equal times", OpEqualTo, mar, mar, true},

		{"less than", OpLessThan, int64(1), int64(2), true},
		{"less than on equal", OpLessThan, int64(2), int64(2), false},
		{"less or equal on equal", OpLessOrEqual, int64(2), int64(2), true},
		{"greater than strings", OpGreaterThan, "b", "a", true},
		{"greater or equal mixed numbers", OpGreaterOrEqual, 2.5, int64(2), true},
		{"times ordered", OpLessThan, mar, jun, true},
		{"nil never orders", OpLessThan, nil, int64(2), false},

		{"starts with prefix", OpStartsWith, "spectrum", "spec", true},
		{"starts with non-prefix", OpStartsWith, "spectrum", "trum", false},
		{"starts with first element", OpStartsWith, []any{int64(1), int64(2)}, int64(1), true},
		{"starts with wrong first element", OpStartsWith, []any{int64(2), int64(1)}, int64(1), false},
		{"ends with suffix", OpEndsWith, "spectrum", "trum", true},
		{"ends with last element", OpEndsWith, []any{int64(1), int64(2)}, int64(2), true},

		{"contains substring", OpContains, "spectrum", "ectr", true},
		{"contains member", OpContains, []any{"a", "b"}, "b", true},
		{"contains missing member", OpContains, []any{"a", "b"}, "c", false},
		{"contained in list", OpContained, "b", []any{"a", "b"}, true},
		{"contained missing", OpContained, "c", []any{"a", "b"}, false},
		{"contained substring of reference", OpContained, "ectr", "spectrum", true},

		{"in range inside", OpInRange, int64(5), Range{From: int64(1), To: int64(10)}, true},
		{"in range on lower bound", OpInRange, int64(1), Range{From: int64(1), To: int64(10)}, true},
		{"in range on upper bound", OpInRange, int64(10), Range{From: int64(1), To: int64(10)}, true},
		{"in range below", OpInRange, int64(0), Range{From: int64(1), To: int64(10)}, false},
		{"in range above", OpInRange, int64(11), Range{From: int64(1), To: int64(10)}, false},
		{"in range of times", OpInRange, jun, Range{From: mar, To: jun}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op.Apply(tt.value, tt.ref)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("%s.Apply(%v, %v) = %v, want %v", tt.op, tt.value, tt.ref, got, tt.want)
			}
		})
	}
}

func TestOperatorApplyJunctions(t *testing.T) {
	for _, tt := range []struct {
		op    Operator
		value any
		ref   any
		want  bool
	}{
		{OpConjunction, true, true, true},
		{OpConjunction, true, false, false},
		{OpDisjunction, false, true, true},
		{OpDisjunction, false, false, false},
		{OpNegation, false, nil, true},
		{OpNegation, true, nil, false},
	} {
		got, err := tt.op.Apply(tt.value, tt.ref)
		if err != nil {
			t.Fatalf("%s.Apply failed: %v", tt.op, err)
		}
		if got != tt.want {
			t.Errorf("%s.Apply(%v, %v) = %v, want %v", tt.op, tt.value, tt.ref, got, tt.want)
		}
	}
}

func TestOperatorApplyErrors(t *testing.T) {
	if _, err := OpLessThan.Apply("a", int64(1)); err == nil {
		t.Error("expected error comparing string with int")
	} else {
		var uve *UncomparableValuesError
		if !errors.As(err, &uve) {
			t.Errorf("expected UncomparableValuesError, got %v", err)
		}
	}
	if _, err := OpContains.Apply(int64(1), int64(1)); err == nil {
		t.Error("expected error for contains on a non-container")
	}
	if _, err := OpInRange.Apply(int64(1), "not a range"); err == nil {
		t.Error("expected error for in_range without a Range reference")
	}
	if _, err := OpConjunction.Apply(true, "x"); err == nil {
		t.Error("expected error for conjunction on non-boolean operands")
	}
	if _, err := OpAscending.Apply(int64(1), int64(2)); err == nil {
		t.Error("expected error applying a direction operator")
	}
}

func TestOperatorCmp(t *testing.T) {
	tests := []struct {
		name string
		op   Operator
		a    any
		b    any
		want int
	}{
		{"ascending less", OpAscending, int64(1), int64(2), -1},
		{"ascending equal", OpAscending, int64(2), int64(2), 0},
		{"ascending greater", OpAscending, "b", "a", 1},
		{"descending flips", OpDescending, int64(1), int64(2), 1},
		{"nil sorts first ascending", OpAscending, nil, int64(5), -1},
		{"nil sorts last descending", OpDescending, nil, int64(5), 1},
		{"both nil tie", OpAscending, nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op.Cmp(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Cmp failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("%s.Cmp(%v, %v) = %d, want %d", tt.op, tt.a, tt.b, got, tt.want)
			}
		})
	}

	if _, err := OpEqualTo.Cmp(int64(1), int64(2)); err == nil {
		t.Error("expected error for Cmp on a comparison operator")
	}
}

func TestOperatorByName(t *testing.T) {
	op, ok := OperatorByName("less_or_equal")
	if !ok {
		t.Fatal("expected to resolve less_or_equal")
	}
	if op != OpLessOrEqual {
		t.Errorf("resolved wrong operator: %s", op)
	}
	if _, ok := OperatorByName("no_such_operator"); ok {
		t.Error("expected unknown name to fail")
	}
}

func TestOperatorArity(t *testing.T) {
	if got := OpEqualTo.Arity(); got != Nullary {
		t.Errorf("equal_to arity = %s, want nullary", got)
	}
	if got := OpNegation.Arity(); got != Unary {
		t.Errorf("negation arity = %s, want unary", got)
	}
	if got := OpConjunction.Arity(); got != Binary {
		t.Errorf("conjunction arity = %s, want binary", got)
	}
	if got := OpAscending.Arity(); got != Nullary {
		t.Errorf("ascending arity = %s, want nullary", got)
	}
}
