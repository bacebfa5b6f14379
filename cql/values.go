package cql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hugr-lab/queryspec"
)

// classifyWord types an unquoted value token. Booleans and numbers are tried
// before ranges so that exponent forms like 1e-5 stay numbers.
func classifyWord(word string) (any, bool) {
	switch word {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	if n, ok := parseNumber(word); ok {
		return n, true
	}
	if r, ok := parseRange(word); ok {
		return r, true
	}
	return nil, false
}

func parseNumber(word string) (any, bool) {
	if !isNumber(word) {
		return nil, false
	}
	if !strings.ContainsAny(word, ".eE") {
		if i, err := strconv.ParseInt(word, 10, 64); err == nil {
			return i, true
		}
	}
	f, err := strconv.ParseFloat(word, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

// isNumber reports whether word is a plain decimal literal, optionally
// negated, with an optional fraction and exponent. Hex floats and inf/nan
// spellings accepted by strconv are not part of the expression grammar.
func isNumber(word string) bool {
	i, n := 0, len(word)
	if i < n && word[i] == '-' {
		i++
	}
	start := i
	for i < n && word[i] >= '0' && word[i] <= '9' {
		i++
	}
	if i == start {
		return false
	}
	if i < n && word[i] == '.' {
		i++
		start = i
		for i < n && word[i] >= '0' && word[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	if i < n && (word[i] == 'e' || word[i] == 'E') {
		i++
		if i < n && (word[i] == '-' || word[i] == '+') {
			i++
		}
		start = i
		for i < n && word[i] >= '0' && word[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	return i == n
}

func parseRange(word string) (queryspec.Range, bool) {
	for i := 1; i < len(word)-1; i++ {
		if word[i] != '-' {
			continue
		}
		from, ok := parseNumber(word[:i])
		if !ok {
			continue
		}
		to, ok := parseNumber(word[i+1:])
		if !ok {
			continue
		}
		return queryspec.Range{From: from, To: to}, true
	}
	return queryspec.Range{}, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// parseQuoted types the content of a quoted value token. Full ISO 8601
// timestamps become time values; bare dates and everything else stay
// strings.
func parseQuoted(content string) any {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, content); err == nil {
			return t
		}
	}
	return content
}

func renderValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return quoteString(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return renderFloat(float64(x)), nil
	case float64:
		return renderFloat(x), nil
	case time.Time:
		return quoteString(x.Format(time.RFC3339Nano)), nil
	case queryspec.Range:
		return renderRange(x)
	case queryspec.ValueReference:
		return quoteString(x.URL()), nil
	default:
		return "", &EncodeError{Reason: fmt.Sprintf("unsupported value of type %T", v)}
	}
}

// renderFloat keeps a fraction in the output so the value reparses as a
// float, not an integer.
func renderFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func renderRange(r queryspec.Range) (string, error) {
	from, ok := renderRangeBound(r.From)
	if !ok {
		return "", &EncodeError{Reason: fmt.Sprintf("range bound %v is not numeric", r.From)}
	}
	to, ok := renderRangeBound(r.To)
	if !ok {
		return "", &EncodeError{Reason: fmt.Sprintf("range bound %v is not numeric", r.To)}
	}
	return from + "-" + to, nil
}

func renderRangeBound(v any) (string, bool) {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		s, err := renderValue(v)
		if err != nil {
			return "", false
		}
		return s, true
	}
	return "", false
}

func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}
