package relay

import (
	"fmt"
	"strconv"
	"strings"
)

// pyDict renders attributes as a Python dict repr, e.g.
// {'order_id': 42, 'amount': 19.99}. The deployed consumers were fed this
// exact text by the historical publishers, so the legacy codec has to keep
// producing it byte for byte.
func pyDict(attrs []Attr) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, a := range attrs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pyRepr(a.Key))
		b.WriteString(": ")
		b.WriteString(pyRepr(a.Value))
	}
	b.WriteByte('}')
	return b.String()
}

// pyRepr covers the value types the platform actually sends: strings,
// numbers, booleans, None and flat lists.
func pyRepr(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case string:
		return pyStr(t)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return pyFloat(float64(t))
	case float64:
		return pyFloat(t)
	case []any:
		elems := make([]string, len(t))
		for i, e := range t {
			elems[i] = pyRepr(e)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case []Attr:
		return pyDict(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// pyStr quotes like CPython: single quotes by default, double quotes when
// the string contains a single quote but no double quote.
func pyStr(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteRune(quote)
	for _, r := range s {
		switch r {
		case quote:
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(quote)
	return b.String()
}

// pyFloat keeps Python's invariant that a float repr always looks like a
// float: 20.0 renders as "20.0", never "20".
func pyFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".einf") {
		s += ".0"
	}
	return s
}
