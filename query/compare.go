package query

import (
	"cmp"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// Type ranks used for ordering values of different kinds, lowest first.
const (
	rankNull = iota
	rankNumber
	rankString
	rankObject
	rankArray
	rankBool
	rankOther
)

func rankOf(v any) int {
	switch v.(type) {
	case nil:
		return rankNull
	case string:
		return rankString
	case bool:
		return rankBool
	case map[string]any, Document:
		return rankObject
	case []any:
		return rankArray
	}
	if isNumber(v) {
		return rankNumber
	}
	return rankOther
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// Compare orders two document values. Values of different kinds are ordered by kind
// (null, number, string, object, array, bool); values of the same kind by value.
// It is the ordering stores use when sorting by a field.
func Compare(a, b any) int {
	a, b = normalize(a), normalize(b)

	ra, rb := rankOf(a), rankOf(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case rankNumber:
		return cmp.Compare(cast.ToFloat64(a), cast.ToFloat64(b))
	case rankString:
		return strings.Compare(a.(string), b.(string)) //nolint:errcheck // rank guarantees the type
	case rankBool:
		return cmp.Compare(cast.ToInt(a), cast.ToInt(b))
	case rankArray:
		return compareArrays(a.([]any), b.([]any)) //nolint:errcheck // rank guarantees the type
	default:
		return 0
	}
}

func compareArrays(a, b []any) int {
	for i := range min(len(a), len(b)) {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// comparableOrder reports the ordering of a and b when both are of the same orderable kind.
func comparableOrder(a, b any) (int, bool) {
	a, b = normalize(a), normalize(b)

	ra := rankOf(a)
	if ra != rankOf(b) {
		return 0, false
	}
	switch ra {
	case rankNumber, rankString, rankBool:
		return Compare(a, b), true
	default:
		return 0, false
	}
}

// Equal reports whether two document values are equal after normalization.
func Equal(a, b any) bool {
	a, b = normalize(a), normalize(b)
	if c, ok := comparableOrder(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}
