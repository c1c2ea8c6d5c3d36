// Package coerce turns loosely typed JSON values into the numbers and shapes
// the report and anomaly handlers work with.
package coerce

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Number coerces a decoded JSON value to a finite float. Numeric strings and
// booleans are accepted; nil counts as zero. Blank strings are rejected.
func Number(v any) (float64, error) {
	if v == nil {
		return 0, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return 0, fmt.Errorf("texto vazio nao e um numero")
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v nao e um numero finito", v)
	}
	return f, nil
}

// Int64 coerces v to an integer, reporting false when it is not one.
// Fractional numbers are not integers and are refused rather than truncated.
func Int64(v any) (int64, bool) {
	if f, ok := v.(float64); ok && f != math.Trunc(f) {
		return 0, false
	}
	n, err := cast.ToInt64E(v)
	return n, err == nil
}

func IsArray(raw json.RawMessage) bool {
	return firstByte(raw) == '['
}

func IsObject(raw json.RawMessage) bool {
	return firstByte(raw) == '{'
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
