package queryspec

import (
	"fmt"
	"reflect"
	"strings"
)

// AttributeSource lets a candidate expose attribute values by name instead of
// relying on reflection. Attribute reports false when the name is unknown.
type AttributeSource interface {
	Attribute(name string) (any, bool)
}

// AttributeValue reads a dotted attribute path from a candidate. Each hop
// reads one segment from the current value: an AttributeSource is asked
// directly, maps with string keys are indexed, and struct fields are matched
// by exact name or case-insensitively with underscores ignored, so the
// attribute "created_at" finds the field CreatedAt.
//
// A nil value part way through the path short-circuits to a nil attribute
// value rather than an error, mirroring an absent optional relation. A
// segment the current value cannot provide yields an *AttributeError.
func AttributeValue(candidate any, path string) (any, error) {
	current := candidate
	for _, seg := range strings.Split(path, ".") {
		if current == nil {
			return nil, nil
		}
		next, err := attributeOf(current, seg, path)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

func attributeOf(v any, segment, path string) (any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Map && rv.IsNil() {
		return nil, nil
	}
	if src, ok := v.(AttributeSource); ok {
		val, ok := src.Attribute(segment)
		if !ok {
			return nil, &AttributeError{Path: path, Segment: segment, Type: fmt.Sprintf("%T", v)}
		}
		return val, nil
	}
	if m, ok := v.(map[string]any); ok {
		val, ok := m[segment]
		if !ok {
			return nil, &AttributeError{Path: path, Segment: segment, Type: fmt.Sprintf("%T", v)}
		}
		return val, nil
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		mv := rv.MapIndex(reflect.ValueOf(segment).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, &AttributeError{Path: path, Segment: segment, Type: fmt.Sprintf("%T", v)}
		}
		return mv.Interface(), nil
	case reflect.Struct:
		if fv, ok := structField(rv, segment); ok {
			return fv, nil
		}
	}
	return nil, &AttributeError{Path: path, Segment: segment, Type: fmt.Sprintf("%T", v)}
}

func structField(rv reflect.Value, segment string) (any, bool) {
	folded := strings.ReplaceAll(segment, "_", "")
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Name == segment || strings.EqualFold(f.Name, folded) {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}
