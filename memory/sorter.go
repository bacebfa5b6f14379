package memory

import (
	"log/slog"
	"slices"

	"github.com/hugr-lab/queryspec"
	"github.com/hugr-lab/queryspec/internal/recovery"
)

// Sort stably sorts items in place by the ordering: ties keep their input
// order. A nil ordering leaves the slice untouched. The first comparison
// error aborts the pass and is returned; the slice order is unspecified after
// an error.
func Sort[T any](items []T, order queryspec.OrderSpecification) error {
	if order == nil {
		return nil
	}
	cmp, err := CompileComparator(order)
	if err != nil {
		return err
	}
	return recovery.RecoverToError(slog.Default(), "sort", func() error {
		var sortErr error
		slices.SortStableFunc(items, func(x, y T) int {
			if sortErr != nil {
				return 0
			}
			c, err := cmp(x, y)
			if err != nil {
				sortErr = err
				return 0
			}
			return c
		})
		return sortErr
	})
}

// Sorter sorts slices by a fixed ordering.
type Sorter[T any] struct {
	order queryspec.OrderSpecification
}

// NewSorter returns a sorter applying order.
func NewSorter[T any](order queryspec.OrderSpecification) *Sorter[T] {
	return &Sorter[T]{order: order}
}

// Sort stably sorts items in place.
func (s *Sorter[T]) Sort(items []T) error {
	return Sort(items, s.order)
}

// Sorted returns a sorted copy, leaving items untouched.
func (s *Sorter[T]) Sorted(items []T) ([]T, error) {
	out := append([]T(nil), items...)
	if err := Sort(out, s.order); err != nil {
		return nil, err
	}
	return out, nil
}
