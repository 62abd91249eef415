package vals

import (
	"math/big"
)

// Truth returns the truth value of a value: None, False, numeric zero and
// empty strings and containers are false, everything else is true.
func Truth(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case int:
		return v != 0
	case *big.Int:
		return v.Sign() != 0
	case float64:
		return v != 0
	case string:
		return v != ""
	case *List:
		return len(v.Items) != 0
	case Tuple:
		return len(v) != 0
	case *Dict:
		return v.Len() != 0
	case *Set:
		return v.Len() != 0
	case Range:
		return v.Len() != 0
	default:
		return true
	}
}
