package nulldot_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/jpicht/nulldot/lib/nulldot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringify(t *testing.T) {
	type point struct {
		X int    `json:"x"`
		Y string `json:"y"`
	}

	testCases := []struct {
		data     interface{}
		expected string
	}{
		{"plain text", "plain text"},
		{-7, "-7"},
		{uint8(200), "200"},
		{false, "false"},
		{float64(100), "100"},
		{0.25, "0.25"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{-1.5e-10, "-1.5e-10"},
		{1e100, "1e+100"},
		{math.Copysign(0, -1), "0"},
		{float32(0.5), "0.5"},
		{math.Inf(-1), "-Infinity"},
		{time.Second, "1s"},
		{[]string{"a", "b"}, `["a","b"]`},
		{point{X: 1, Y: "<&>"}, `{"x":1,"y":"<&>"}`},
		{json.RawMessage(`{ "a" : 1 }`), `{"a":1}`},
		{nil, "null"},
	}

	for _, tc := range testCases {
		s, err := nulldot.Stringify(tc.data)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, s)
	}
}

func TestStringifyUnsupported(t *testing.T) {
	_, err := nulldot.Stringify(make(chan int))
	assert.Error(t, err)
}
