package memory

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hugr-lab/queryspec"
)

func TestSort(t *testing.T) {
	t.Run("Descending", func(t *testing.T) {
		items := people()
		if err := Sort(items, queryspec.Desc("age")); err != nil {
			t.Fatalf("Sort failed: %v", err)
		}
		want := []string{"Dave", "Alice", "Bob", "Carol"}
		if !reflect.DeepEqual(names(items), want) {
			t.Errorf("Expected %v, got %v", want, names(items))
		}
	})

	t.Run("NestedPathStable", func(t *testing.T) {
		// Carol's nil city sorts first; Alice and Dave tie on Berlin and
		// keep their input order.
		items := people()
		if err := Sort(items, queryspec.Asc("address.city")); err != nil {
			t.Fatalf("Sort failed: %v", err)
		}
		want := []string{"Carol", "Alice", "Dave", "Bob"}
		if !reflect.DeepEqual(names(items), want) {
			t.Errorf("Expected %v, got %v", want, names(items))
		}
	})

	t.Run("Chain", func(t *testing.T) {
		items := people()
		if err := Sort(items, queryspec.Asc("address.city").And(queryspec.Desc("age"))); err != nil {
			t.Fatalf("Sort failed: %v", err)
		}
		want := []string{"Carol", "Dave", "Alice", "Bob"}
		if !reflect.DeepEqual(names(items), want) {
			t.Errorf("Expected %v, got %v", want, names(items))
		}
	})

	t.Run("Natural", func(t *testing.T) {
		items := []person{{Name: "item10"}, {Name: "item2"}, {Name: "item1"}}
		if err := Sort(items, queryspec.Natural("name")); err != nil {
			t.Fatalf("Sort failed: %v", err)
		}
		want := []string{"item1", "item2", "item10"}
		if !reflect.DeepEqual(names(items), want) {
			t.Errorf("Expected %v, got %v", want, names(items))
		}
	})
}

func TestSortError(t *testing.T) {
	items := []any{person{Name: "Alice", Age: 42}, "not a person"}
	err := Sort(items, queryspec.Asc("age"))
	var attrErr *queryspec.AttributeError
	if !errors.As(err, &attrErr) {
		t.Fatalf("Expected AttributeError, got %v", err)
	}
}

func TestSorter(t *testing.T) {
	s := NewSorter[person](queryspec.Asc("name"))

	items := []person{{Name: "Bob"}, {Name: "Alice"}}
	if err := s.Sort(items); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	if items[0].Name != "Alice" {
		t.Errorf("Expected Alice first, got %s", items[0].Name)
	}

	t.Run("SortedCopies", func(t *testing.T) {
		items := []person{{Name: "Bob"}, {Name: "Alice"}}
		sorted, err := s.Sorted(items)
		if err != nil {
			t.Fatalf("Sorted failed: %v", err)
		}
		if sorted[0].Name != "Alice" || sorted[1].Name != "Bob" {
			t.Errorf("Expected [Alice Bob], got %v", names(sorted))
		}
		if items[0].Name != "Bob" {
			t.Error("Expected the input slice to stay untouched")
		}
	})
}
