package dbx

import (
	"fmt"
	"time"

	"github.com/dbgate-dev/go-dbgate-core/pkg/errorx"
)

// VetParams checks that every bind parameter is a scalar the backends can
// represent natively. Anything else (maps, slices, nested structures) is
// rejected with UnsupportedParameterTypeError instead of being silently
// coerced. Runs at bind time, after the connection has been acquired, so the
// release discipline stays observable on this failure path too.
func VetParams(params []any) error {
	for i, param := range params {
		switch param.(type) {
		case nil,
			bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64,
			string,
			[]byte,
			time.Time:
		default:
			return errorx.NewUnsupportedParameterTypeError("parameter %d has unsupported type %T", i+1, param)
		}
	}

	return nil
}

// NormalizeValue converts a driver-native result value to the canonical scalar
// set: nil, int64, float64, string, []byte. Booleans surface as int64 0/1 and
// timestamps as RFC 3339 text so all backends produce one shape; values with
// no backend-neutral representation fall back to their text form.
func NormalizeValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	case string:
		return v
	case []byte:
		// Drivers may reuse the backing array across rows.
		cp := make([]byte, len(v))
		copy(cp, v)
		return cp
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// NormalizeRowValues applies NormalizeValue to a positional value slice,
// pairing it with the given column names.
func NormalizeRowValues(columns []string, values []any) Row {
	row := make(Row, len(columns))
	for i, column := range columns {
		row[column] = NormalizeValue(values[i])
	}

	return row
}
