package sanitize

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Scalars(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Value(math.NaN()))
	assert.Nil(t, Value(math.Inf(1)))
	assert.Nil(t, Value(math.Inf(-1)))
	assert.Nil(t, Value(float32(math.Inf(1))))
	assert.Nil(t, Value(nil))

	assert.Equal(t, 1.5, Value(1.5))
	assert.Equal(t, float32(2), Value(float32(2)))
	assert.Equal(t, 42, Value(42))
	assert.Equal(t, "NaN", Value("NaN"))
	assert.Equal(t, true, Value(true))
}

func TestValue_Nested(t *testing.T) {
	t.Parallel()

	in := map[string]any{
		"code":  "600519",
		"price": 1680.5,
		"ratio": math.NaN(),
		"series": []any{
			1.0, math.Inf(1), map[string]any{"v": math.Inf(-1), "ok": "x"},
		},
	}
	want := map[string]any{
		"code":  "600519",
		"price": 1680.5,
		"ratio": nil,
		"series": []any{
			1.0, nil, map[string]any{"v": nil, "ok": "x"},
		},
	}

	got := Value(in)
	assert.Equal(t, want, got)

	_, err := json.Marshal(got)
	require.NoError(t, err)

	// input untouched
	assert.True(t, math.IsNaN(in["ratio"].(float64)))
}

type price float64

func TestValue_TypedContainers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []any{1.0, nil}, Value([]float64{1, math.NaN()}))
	assert.Equal(t, map[string]any{"a": nil, "b": 2.0}, Value(map[string]float64{"a": math.Inf(1), "b": 2}))
	assert.Nil(t, Value(price(math.NaN())))
	assert.Equal(t, []any{nil}, Value([1]float64{math.Inf(-1)}))

	clean := []float64{1, 2}
	assert.Equal(t, clean, Value(clean))
	strs := []string{"a"}
	assert.Equal(t, strs, Value(strs))
	raw := []byte("abc")
	assert.Equal(t, raw, Value(raw))
}

func TestValue_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []any{
		math.NaN(),
		[]any{math.Inf(1), 1.0, "s"},
		map[string]any{"a": []any{math.NaN(), map[string]any{"b": math.Inf(-1)}}},
		[]float64{math.NaN(), 3},
		"plain",
	}
	for _, in := range inputs {
		once := Value(in)
		assert.Equal(t, once, Value(once))
		assert.True(t, Clean(once))
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	assert.True(t, Clean(nil))
	assert.True(t, Clean(map[string]any{"a": 1.0}))
	assert.False(t, Clean(map[string]any{"a": []any{math.NaN()}}))
	assert.False(t, Clean([]float32{float32(math.Inf(1))}))
	assert.False(t, Clean(map[int]float64{1: math.NaN()}))
	assert.Equal(t, map[string]any{"1": nil}, Value(map[int]float64{1: math.NaN()}))
}

func TestJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no tokens", `{"a":1}`, `{"a":1}`},
		{"nan", `{"a":NaN}`, `{"a":null}`},
		{"infinities", `[Infinity,-Infinity, 1]`, `[null,null, 1]`},
		{"inside strings", `{"NaN":"Infinity","b":NaN}`, `{"NaN":"Infinity","b":null}`},
		{"escaped quote", `{"s":"say \"NaN\"","v":-Infinity}`, `{"s":"say \"NaN\"","v":null}`},
		{"nested", `{"data":{"rows":[{"r":NaN}]}}`, `{"data":{"rows":[{"r":null}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JSON([]byte(tt.in))
			assert.Equal(t, tt.want, string(got))

			var v any
			require.NoError(t, json.Unmarshal(got, &v))
			assert.Equal(t, v, Value(v))
		})
	}
}

type bar struct {
	Close  float64 `json:"close"`
	Volume int     `json:"volume,omitempty"`
	Note   string  `json:"-"`
	hidden float64
}

type Meta struct {
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

type series struct {
	Meta
	Code  string   `json:"code"`
	Score float64  `json:"score"`
	Last  *bar     `json:"last"`
	Bars  []bar    `json:"bars"`
	Peak  *float64 `json:"peak,omitempty"`
	When  time.Time
}

func TestValue_StructsAndPointers(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	assert.Nil(t, Value(&nan))
	assert.Equal(t, map[string]any{"close": nil}, Value(bar{Close: nan, Note: "x", hidden: nan}))
	assert.Equal(t, []any{map[string]any{"close": nil, "volume": 3}}, Value([]bar{{Close: math.Inf(1), Volume: 3}}))
	assert.Equal(t, map[string]any{"p": map[string]any{"close": nil}}, Value(map[string]any{"p": bar{Close: nan}}))
	assert.Equal(t, map[string]any{"close": nil}, Value(&bar{Close: math.Inf(-1)}))

	when := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	in := series{
		Meta:  Meta{Source: "tushare", Score: nan},
		Code:  "600519",
		Score: 0.8,
		Last:  &bar{Close: nan},
		Bars:  []bar{{Close: 1}, {Close: math.Inf(1)}},
		When:  when,
	}
	got := Value(in)
	assert.Equal(t, map[string]any{
		"source": "tushare",
		"code":   "600519",
		"score":  0.8,
		"last":   map[string]any{"close": nil},
		"bars":   []any{bar{Close: 1}, map[string]any{"close": nil}},
		"When":   when,
	}, got)
	assert.True(t, Clean(got))
	assert.Equal(t, got, Value(got))

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"last":{"close":null}`)

	// clean structs and pointers pass through untouched
	ok := &bar{Close: 2}
	assert.Same(t, ok, Value(ok))
	assert.Equal(t, bar{Close: 2, Note: "kept"}, Value(bar{Close: 2, Note: "kept"}))
	var nilBar *bar
	assert.Nil(t, Value(nilBar))
}

func TestClean_StructsAndPointers(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	assert.False(t, Clean(&nan))
	assert.False(t, Clean(bar{Close: nan}))
	assert.False(t, Clean([]bar{{Close: math.Inf(1)}}))
	assert.False(t, Clean(map[string]any{"p": &bar{Close: nan}}))
	assert.False(t, Clean(series{Meta: Meta{Score: nan}}))

	assert.True(t, Clean(bar{Close: 1, Note: "NaN", hidden: nan}))
	assert.True(t, Clean((*bar)(nil)))
	assert.True(t, Clean(series{When: time.Now()}))
}
