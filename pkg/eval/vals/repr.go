package vals

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Reprer is implemented by values outside the closed set to provide their
// own representation.
type Reprer interface {
	Repr() string
}

// Repr returns the script-level representation of a value, as produced by
// repr(): strings are quoted, containers render recursively.
func Repr(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(v)
	case *big.Int:
		return v.String()
	case float64:
		return formatFloat(v)
	case string:
		return reprString(v)
	case *List:
		return "[" + joinRepr(v.Items) + "]"
	case Tuple:
		if len(v) == 1 {
			return "(" + Repr(v[0]) + ",)"
		}
		return "(" + joinRepr(v) + ")"
	case *Dict:
		var sb strings.Builder
		sb.WriteString("{")
		first := true
		v.Each(func(k, val any) error {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(Repr(k))
			sb.WriteString(": ")
			sb.WriteString(Repr(val))
			return nil
		})
		sb.WriteString("}")
		return sb.String()
	case *Set:
		if v.Len() == 0 {
			return "set()"
		}
		return "{" + joinRepr(v.Elems()) + "}"
	case Range:
		if v.Step == 1 {
			return "range(" + strconv.Itoa(v.Start) + ", " + strconv.Itoa(v.Stop) + ")"
		}
		return "range(" + strconv.Itoa(v.Start) + ", " + strconv.Itoa(v.Stop) +
			", " + strconv.Itoa(v.Step) + ")"
	case Reprer:
		return v.Repr()
	default:
		return "<" + Kind(v) + ">"
	}
}

// ToString is the str() conversion: strings pass through unquoted,
// everything else renders like Repr.
func ToString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return Repr(v)
}

func joinRepr(items []any) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Repr(item))
	}
	return sb.String()
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// An integral float still reads as a float.
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// reprString quotes a string with single quotes, the way the source
// language's repr does.
func reprString(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				sb.WriteString(`\x`)
				const hex = "0123456789abcdef"
				sb.WriteByte(hex[r>>4])
				sb.WriteByte(hex[r&0xf])
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}
