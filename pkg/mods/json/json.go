// Package json exposes JSON encoding and decoding as an installable pyrite
// module. The names carry the original jsondumps/jsonloads spellings to
// avoid colliding with other modules' dumps/loads.
package json

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
)

// Ns is the namespace bound by install_('json').
var Ns = eval.NsBuilder{}.
	AddGoFns(map[string]any{
		"jsondumps_": dumps,
		"jsonloads_": loads,
	}).Ns()

func dumps(v any) (string, error) {
	var sb strings.Builder
	if err := encode(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func encode(sb *strings.Builder, v any) error {
	switch v := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(v))
	case int:
		sb.WriteString(strconv.Itoa(v))
	case *big.Int:
		sb.WriteString(v.String())
	case float64:
		b, err := json.Marshal(v)
		if err != nil {
			return errs.Newf(errs.Value, "%v is not JSON serializable", v)
		}
		sb.Write(b)
	case string:
		b, _ := json.Marshal(v)
		sb.Write(b)
	case *vals.List:
		return encodeArray(sb, v.Items)
	case vals.Tuple:
		return encodeArray(sb, v)
	case *vals.Dict:
		sb.WriteByte('{')
		first := true
		err := v.Each(func(k, val any) error {
			key, err := encodeKey(k)
			if err != nil {
				return err
			}
			if !first {
				sb.WriteString(", ")
			}
			first = false
			b, _ := json.Marshal(key)
			sb.Write(b)
			sb.WriteString(": ")
			return encode(sb, val)
		})
		if err != nil {
			return err
		}
		sb.WriteByte('}')
	default:
		return errs.Newf(errs.Type,
			"object of type %s is not JSON serializable", vals.Kind(v))
	}
	return nil
}

func encodeArray(sb *strings.Builder, items []any) error {
	sb.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		if err := encode(sb, item); err != nil {
			return err
		}
	}
	sb.WriteByte(']')
	return nil
}

// encodeKey coerces a dict key to the string JSON requires, following the
// usual serializer rules for non-string keys.
func encodeKey(k any) (string, error) {
	switch k := k.(type) {
	case string:
		return k, nil
	case bool:
		return strconv.FormatBool(k), nil
	case int:
		return strconv.Itoa(k), nil
	case *big.Int:
		return k.String(), nil
	case float64:
		return strconv.FormatFloat(k, 'g', -1, 64), nil
	default:
		return "", errs.Newf(errs.Type,
			"keys must be str, int, float or bool, not %s", vals.Kind(k))
	}
}

func loads(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errs.Newf(errs.Value, "invalid JSON: %v", err)
	}
	// Trailing garbage after the first value is an error too.
	if dec.More() {
		return nil, errs.New(errs.Value, "invalid JSON: trailing data")
	}
	return decode(raw)
}

func decode(raw any) (any, error) {
	switch raw := raw.(type) {
	case json.Number:
		if i, err := strconv.Atoi(raw.String()); err == nil {
			return i, nil
		}
		if b, ok := new(big.Int).SetString(raw.String(), 10); ok {
			return vals.NormalizeInt(b), nil
		}
		f, err := raw.Float64()
		if err != nil {
			return nil, errs.Newf(errs.Value, "invalid JSON number %s", raw)
		}
		return f, nil
	case []any:
		items := make([]any, len(raw))
		for i, e := range raw {
			v, err := decode(e)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return vals.NewList(items...), nil
	case map[string]any:
		d := vals.NewDict()
		// Decode in key order for a deterministic dict.
		keys := make([]string, 0, len(raw))
		for k := range raw {
			keys = append(keys, k)
		}
		sortStrings(keys)
		for _, k := range keys {
			v, err := decode(raw[k])
			if err != nil {
				return nil, err
			}
			d.Set(k, v)
		}
		return d, nil
	default:
		// null, bool and (post-UseNumber) nothing else.
		return raw, nil
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
