package apiclient

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeParams(t *testing.T) {
	t.Parallel()

	var nilPtr *int
	got := EncodeParams(map[string]any{
		"pageNum":  1,
		"pageSize": 10.0,
		"keyword":  "",
		"skip":     nil,
		"ptr":      nilPtr,
		"asc":      true,
		"ratio":    0.25,
		"params": map[string]any{
			"beginTime": "2024-01-01",
			"endTime":   "",
			"gone":      nil,
		},
		"codes": []string{"600519", "", "000001"},
	})

	values, err := url.ParseQuery(got)
	require.NoError(t, err)

	assert.Equal(t, "1", values.Get("pageNum"))
	assert.Equal(t, "10", values.Get("pageSize"))
	assert.Equal(t, "true", values.Get("asc"))
	assert.Equal(t, "0.25", values.Get("ratio"))
	assert.Equal(t, "2024-01-01", values.Get("params[beginTime]"))
	assert.Equal(t, []string{"600519", "000001"}, values["codes"])

	for _, k := range []string{"keyword", "skip", "ptr", "params[endTime]", "params[gone]", "params"} {
		assert.False(t, values.Has(k), "unexpected key %s", k)
	}
}

func TestEncodeParams_StringMapAndEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, EncodeParams(nil))
	assert.Equal(t, "params%5Bx%5D=y", EncodeParams(map[string]any{"params": map[string]string{"x": "y"}}))

	v := 5
	assert.Equal(t, "limit=5", EncodeParams(map[string]any{"limit": &v}))
}
