package queryspec

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Range is the inclusive bound pair carried by in_range criteria.
type Range struct {
	From any
	To   any
}

func (r Range) String() string { return fmt.Sprintf("%v-%v", r.From, r.To) }

// ValueReference is a criterion value standing in for an external resource.
// Builders store resolved references as-is; evaluation dereferences them and
// the textual encoding renders their canonical URL.
type ValueReference interface {
	// URL returns the canonical location of the referenced resource.
	URL() string

	// Dereference returns the value comparisons operate on.
	Dereference() any
}

func derefValue(v any) any {
	if r, ok := v.(ValueReference); ok {
		return r.Dereference()
	}
	return v
}

// equalValues reports loose equality across the value kinds criteria carry:
// numbers compare across integer widths and floats, everything else requires
// matching kinds. Two nils are equal.
func equalValues(a, b any) bool {
	a, b = derefValue(a), derefValue(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if an, ok := asNumber(a); ok {
		bn, ok := asNumber(b)
		return ok && compareNumbers(an, bn) == 0
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case Range:
		bv, ok := b.(Range)
		return ok && equalValues(av.From, bv.From) && equalValues(av.To, bv.To)
	}
	if as, ok := sequenceValues(a); ok {
		bs, ok := sequenceValues(b)
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !equalValues(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values: negative when a sorts before b. Nil sorts
// before every non-nil value. Values of unrelated kinds are uncomparable and
// yield an UncomparableValuesError.
func compareValues(a, b any) (int, error) {
	a, b = derefValue(a), derefValue(b)
	switch {
	case a == nil && b == nil:
		return 0, nil
	case a == nil:
		return -1, nil
	case b == nil:
		return 1, nil
	}
	if an, ok := asNumber(a); ok {
		if bn, ok := asNumber(b); ok {
			return compareNumbers(an, bn), nil
		}
		return 0, &UncomparableValuesError{X: a, Y: b}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv), nil
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0, nil
			case bv:
				return -1, nil
			}
			return 1, nil
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv), nil
		}
	}
	return 0, &UncomparableValuesError{X: a, Y: b}
}

type numberKind int

const (
	intNumber numberKind = iota
	uintNumber
	floatNumber
)

type number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

func asNumber(v any) (number, bool) {
	switch n := v.(type) {
	case int:
		return number{kind: intNumber, i: int64(n)}, true
	case int8:
		return number{kind: intNumber, i: int64(n)}, true
	case int16:
		return number{kind: intNumber, i: int64(n)}, true
	case int32:
		return number{kind: intNumber, i: int64(n)}, true
	case int64:
		return number{kind: intNumber, i: n}, true
	case uint:
		return number{kind: uintNumber, u: uint64(n)}, true
	case uint8:
		return number{kind: uintNumber, u: uint64(n)}, true
	case uint16:
		return number{kind: uintNumber, u: uint64(n)}, true
	case uint32:
		return number{kind: uintNumber, u: uint64(n)}, true
	case uint64:
		return number{kind: uintNumber, u: n}, true
	case float32:
		return number{kind: floatNumber, f: float64(n)}, true
	case float64:
		return number{kind: floatNumber, f: n}, true
	}
	return number{}, false
}

func compareNumbers(a, b number) int {
	if a.kind == floatNumber || b.kind == floatNumber {
		af, bf := a.float(), b.float()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	if a.kind == intNumber && b.kind == intNumber {
		switch {
		case a.i < b.i:
			return -1
		case a.i > b.i:
			return 1
		}
		return 0
	}
	if a.kind == uintNumber && b.kind == uintNumber {
		switch {
		case a.u < b.u:
			return -1
		case a.u > b.u:
			return 1
		}
		return 0
	}
	// Mixed signedness: a negative signed value sorts below any unsigned one.
	if a.kind == intNumber {
		if a.i < 0 {
			return -1
		}
		return compareNumbers(number{kind: uintNumber, u: uint64(a.i)}, b)
	}
	if b.i < 0 {
		return 1
	}
	return compareNumbers(a, number{kind: uintNumber, u: uint64(b.i)})
}

func (n number) float() float64 {
	switch n.kind {
	case intNumber:
		return float64(n.i)
	case uintNumber:
		return float64(n.u)
	}
	return n.f
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// sequenceEdge returns the first (or last) element of a slice or array value.
func sequenceEdge(v any, last bool) (any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	n := rv.Len()
	if n == 0 {
		return nil, false
	}
	if last {
		return rv.Index(n - 1).Interface(), true
	}
	return rv.Index(0).Interface(), true
}

// sequenceValues flattens a slice or array value into []any. Strings are not
// sequences here; they get substring semantics instead.
func sequenceValues(v any) ([]any, bool) {
	if vs, ok := v.([]any); ok {
		return vs, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// naturalCompare orders strings with embedded digit runs compared
// numerically, so "item2" sorts before "item10". Non-string values fall back
// to the plain comparison.
func naturalCompare(a, b any) (int, error) {
	a, b = derefValue(a), derefValue(b)
	as, aok := a.(string)
	bs, bok := b.(string)
	if !aok || !bok {
		return compareValues(a, b)
	}
	ak, bk := naturalKey(as), naturalKey(bs)
	for i := 0; i < len(ak) && i < len(bk); i++ {
		if c := ak[i].compare(bk[i]); c != 0 {
			return c, nil
		}
	}
	return len(ak) - len(bk), nil
}

type naturalChunk struct {
	text    string
	numeric bool
}

// compare orders two chunks. Numeric chunks sort before text chunks; two
// numeric chunks compare by magnitude without parsing, so arbitrarily long
// digit runs stay exact.
func (c naturalChunk) compare(o naturalChunk) int {
	if c.numeric != o.numeric {
		if c.numeric {
			return -1
		}
		return 1
	}
	if !c.numeric {
		return strings.Compare(c.text, o.text)
	}
	a := strings.TrimLeft(c.text, "0")
	b := strings.TrimLeft(o.text, "0")
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

func naturalKey(s string) []naturalChunk {
	var chunks []naturalChunk
	start := 0
	numeric := false
	for i, r := range s {
		isDigit := r >= '0' && r <= '9'
		if i == 0 {
			numeric = isDigit
			continue
		}
		if isDigit != numeric {
			chunks = append(chunks, naturalChunk{text: s[start:i], numeric: numeric})
			start, numeric = i, isDigit
		}
	}
	if start < len(s) {
		chunks = append(chunks, naturalChunk{text: s[start:], numeric: numeric})
	}
	return chunks
}
