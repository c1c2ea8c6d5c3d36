package coerce

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	testCases := []struct {
		name     string
		in       any
		expected float64
		wantErr  bool
	}{
		{"nil", nil, 0, false},
		{"float", 12.5, 12.5, false},
		{"int", 3, 3, false},
		{"numeric string", "42.25", 42.25, false},
		{"bool", true, 1, false},
		{"text", "abc", 0, true},
		{"object", map[string]any{"a": 1}, 0, true},
		{"list", []any{1.0}, 0, true},
		{"nan string", "NaN", 0, true},
		{"inf string", "+Inf", 0, true},
		{"empty string", "", 0, true},
		{"blank string", " \t ", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Number(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestInt64(t *testing.T) {
	n, ok := Int64(7.0)
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)

	_, ok = Int64("sete")
	assert.False(t, ok)

	_, ok = Int64(1.9)
	assert.False(t, ok)

	n, ok = Int64(-3.0)
	assert.True(t, ok)
	assert.Equal(t, int64(-3), n)
}

func TestShapes(t *testing.T) {
	assert.True(t, IsArray(json.RawMessage("  [1]")))
	assert.False(t, IsArray(json.RawMessage("null")))
	assert.False(t, IsArray(nil))
	assert.True(t, IsObject(json.RawMessage("\n{}")))
	assert.False(t, IsObject(json.RawMessage(`"x"`)))
}
