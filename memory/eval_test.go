package memory

import (
	"testing"

	"github.com/hugr-lab/queryspec"
)

type address struct {
	City string
}

type person struct {
	Name    string
	Age     int
	Address *address
}

func people() []person {
	return []person{
		{Name: "Alice", Age: 42, Address: &address{City: "Berlin"}},
		{Name: "Bob", Age: 35, Address: &address{City: "Paris"}},
		{Name: "Carol", Age: 17},
		{Name: "Dave", Age: 58, Address: &address{City: "Berlin"}},
	}
}

func TestCompilePredicate(t *testing.T) {
	tests := []struct {
		name string
		spec queryspec.FilterSpecification
	}{
		{"Criterion", queryspec.Eq("name", "Alice")},
		{"Conjunction", queryspec.Gt("age", 20).And(queryspec.Eq("address.city", "Berlin"))},
		{"Disjunction", queryspec.Eq("name", "Bob").Or(queryspec.Lt("age", 18))},
		{"Negation", queryspec.Eq("address.city", "Berlin").Not()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := CompilePredicate(tt.spec)
			if err != nil {
				t.Fatalf("CompilePredicate failed: %v", err)
			}
			for _, p := range people() {
				got, err := pred(p)
				if err != nil {
					t.Fatalf("Predicate failed on %s: %v", p.Name, err)
				}
				want, err := tt.spec.IsSatisfiedBy(p)
				if err != nil {
					t.Fatalf("IsSatisfiedBy failed on %s: %v", p.Name, err)
				}
				if got != want {
					t.Errorf("Predicate disagrees with the tree on %s: got %v, want %v", p.Name, got, want)
				}
			}
		})
	}
}

func TestCompileComparator(t *testing.T) {
	tests := []struct {
		name string
		spec queryspec.OrderSpecification
	}{
		{"Term", queryspec.Asc("name")},
		{"Descending", queryspec.Desc("age")},
		{"Chain", queryspec.Asc("address.city").And(queryspec.Desc("age"))},
	}
	candidates := people()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, err := CompileComparator(tt.spec)
			if err != nil {
				t.Fatalf("CompileComparator failed: %v", err)
			}
			for _, x := range candidates {
				for _, y := range candidates {
					got, err := cmp(x, y)
					if err != nil {
						t.Fatalf("Comparator failed on (%s, %s): %v", x.Name, y.Name, err)
					}
					want, err := tt.spec.Cmp(x, y)
					if err != nil {
						t.Fatalf("Cmp failed on (%s, %s): %v", x.Name, y.Name, err)
					}
					if got != want {
						t.Errorf("Comparator disagrees with the tree on (%s, %s): got %d, want %d",
							x.Name, y.Name, got, want)
					}
				}
			}
		})
	}
}
