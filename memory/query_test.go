package memory

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hugr-lab/queryspec"
)

func names(items []person) []string {
	var out []string
	for _, p := range items {
		out = append(out, p.Name)
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		filter queryspec.FilterSpecification
		want   []string
	}{
		{"NilFilterKeepsEverything", nil, []string{"Alice", "Bob", "Carol", "Dave"}},
		{"Comparison", queryspec.Gt("age", 30), []string{"Alice", "Bob", "Dave"}},
		{"NestedPath", queryspec.Eq("address.city", "Berlin"), []string{"Alice", "Dave"}},
		{
			// Carol has no address, and nil never equals Berlin.
			"NegatedNestedPath",
			queryspec.Eq("address.city", "Berlin").Not(),
			[]string{"Bob", "Carol"},
		},
		{"Junction", queryspec.Lt("age", 18).Or(queryspec.StartsWith("name", "Da")), []string{"Carol", "Dave"}},
		{"NoMatches", queryspec.Eq("name", "Zoe"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(people(), tt.filter)
			if err != nil {
				t.Fatalf("Select failed: %v", err)
			}
			if !reflect.DeepEqual(names(got), tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, names(got))
			}
		})
	}
}

func TestSelectError(t *testing.T) {
	_, err := Select(people(), queryspec.Lt("age", "young"))
	var cmpErr *queryspec.UncomparableValuesError
	if !errors.As(err, &cmpErr) {
		t.Fatalf("Expected UncomparableValuesError, got %v", err)
	}
}

type hostileSource struct{}

func (hostileSource) Attribute(string) (any, bool) { panic("hostile candidate") }

func TestSelectRecoversPanic(t *testing.T) {
	_, err := Select([]hostileSource{{}}, queryspec.Eq("name", "x"))
	if err == nil || !strings.Contains(err.Error(), "panicked") {
		t.Fatalf("Expected a recovered panic error, got %v", err)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name   string
		filter queryspec.FilterSpecification
		want   int
	}{
		{"NilFilter", nil, 4},
		{"Comparison", queryspec.Gt("age", 30), 3},
		{"NoMatches", queryspec.Eq("name", "Zoe"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Count(people(), tt.filter)
			if err != nil {
				t.Fatalf("Count failed: %v", err)
			}
			if n != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, n)
			}
		})
	}
}

func TestOne(t *testing.T) {
	t.Run("Single", func(t *testing.T) {
		p, err := One(people(), queryspec.Eq("name", "Alice"))
		if err != nil {
			t.Fatalf("One failed: %v", err)
		}
		if p.Name != "Alice" {
			t.Errorf("Expected Alice, got %s", p.Name)
		}
	})

	t.Run("NoResult", func(t *testing.T) {
		_, err := One(people(), queryspec.Eq("name", "Zoe"))
		if !errors.Is(err, ErrNoResult) {
			t.Fatalf("Expected ErrNoResult, got %v", err)
		}
	})

	t.Run("MultipleResults", func(t *testing.T) {
		_, err := One(people(), queryspec.Gt("age", 30))
		var multiErr *MultipleResultsError
		if !errors.As(err, &multiErr) {
			t.Fatalf("Expected MultipleResultsError, got %v", err)
		}
		if multiErr.Count != 3 {
			t.Errorf("Expected count 3, got %d", multiErr.Count)
		}
	})
}
