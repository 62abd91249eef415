package vals

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/pyritelang/pyrite/pkg/eval/errs"
)

// HashKey returns a canonical string key for a hashable value, used to key
// dict entries and set members. Values that compare equal map to the same
// key: True and 1 and 1.0 all hash as the integer 1. Mutable containers and
// callables are unhashable.
func HashKey(v any) (string, error) {
	var sb strings.Builder
	if err := writeHashKey(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeHashKey(sb *strings.Builder, v any) error {
	switch v := v.(type) {
	case nil:
		sb.WriteString("n")
	case bool:
		if v {
			sb.WriteString("i1")
		} else {
			sb.WriteString("i0")
		}
	case int:
		sb.WriteString("i")
		sb.WriteString(strconv.Itoa(v))
	case *big.Int:
		sb.WriteString("i")
		sb.WriteString(v.String())
	case float64:
		// An integral float hashes like the int it equals.
		if v == math.Trunc(v) && !math.IsInf(v, 0) &&
			v >= math.MinInt64 && v <= math.MaxInt64 {
			sb.WriteString("i")
			sb.WriteString(strconv.FormatInt(int64(v), 10))
		} else {
			sb.WriteString("f")
			sb.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
		}
	case string:
		sb.WriteString("s")
		sb.WriteString(strconv.Itoa(len(v)))
		sb.WriteString(":")
		sb.WriteString(v)
	case Tuple:
		sb.WriteString("t")
		sb.WriteString(strconv.Itoa(len(v)))
		sb.WriteString("(")
		for _, elem := range v {
			if err := writeHashKey(sb, elem); err != nil {
				return err
			}
			sb.WriteString(",")
		}
		sb.WriteString(")")
	default:
		return errs.Newf(errs.Type, "unhashable type: '%s'", Kind(v))
	}
	return nil
}
