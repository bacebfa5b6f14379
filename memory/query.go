package memory

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hugr-lab/queryspec"
	"github.com/hugr-lab/queryspec/internal/recovery"
)

// ErrNoResult is returned by One when nothing matches.
var ErrNoResult = errors.New("memory: no result")

// MultipleResultsError is returned by One when more than one candidate
// matches.
type MultipleResultsError struct {
	Count int
}

func (e *MultipleResultsError) Error() string {
	return fmt.Sprintf("memory: got %d results, want exactly one", e.Count)
}

// Select returns the items satisfying the filter, keeping input order. A nil
// filter keeps everything. A panic in candidate attribute access is recovered
// and reported as an error.
func Select[T any](items []T, filter queryspec.FilterSpecification) ([]T, error) {
	if filter == nil {
		return append([]T(nil), items...), nil
	}
	pred, err := CompilePredicate(filter)
	if err != nil {
		return nil, err
	}
	return recovery.RecoverToValue(slog.Default(), "filter evaluation", func() ([]T, error) {
		var out []T
		for _, item := range items {
			ok, err := pred(item)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, item)
			}
		}
		return out, nil
	})
}

// Count returns the number of items satisfying the filter.
func Count[T any](items []T, filter queryspec.FilterSpecification) (int, error) {
	if filter == nil {
		return len(items), nil
	}
	pred, err := CompilePredicate(filter)
	if err != nil {
		return 0, err
	}
	return recovery.RecoverToValue(slog.Default(), "filter evaluation", func() (int, error) {
		n := 0
		for _, item := range items {
			ok, err := pred(item)
			if err != nil {
				return 0, err
			}
			if ok {
				n++
			}
		}
		return n, nil
	})
}

// One returns the single item satisfying the filter: ErrNoResult when nothing
// matches, a *MultipleResultsError when several do.
func One[T any](items []T, filter queryspec.FilterSpecification) (T, error) {
	var zero T
	matches, err := Select(items, filter)
	if err != nil {
		return zero, err
	}
	switch len(matches) {
	case 0:
		return zero, ErrNoResult
	case 1:
		return matches[0], nil
	}
	return zero, &MultipleResultsError{Count: len(matches)}
}
