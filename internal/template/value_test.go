package template

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreservesKeyOrderAndNumbers(t *testing.T) {
	v, err := Parse([]byte(` { "zeta": 1.50, "alpha": [ 1e3, -2 ], "mid": { "b": true, "a": null } } `))
	require.NoError(t, err)
	assert.Equal(t, KindObject, v.Kind)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, v.Keys())
	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1.50,"alpha":[1e3,-2],"mid":{"b":true,"a":null}}`, string(out))
}

func TestParseDuplicateKeysKeepLastValue(t *testing.T) {
	v, err := Parse([]byte(`{"a":1,"b":2,"a":3}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.Keys())
	a, _ := v.Get("a")
	assert.Equal(t, json.Number("3"), a.Number)
}

func TestParseErrors(t *testing.T) {
	for _, raw := range []string{``, `{`, `[1,]`, `{"a" 1}`, `1 2`, `}`} {
		_, err := Parse([]byte(raw))
		assert.Error(t, err, "input %q", raw)
	}
}

func TestWithoutCopiesObject(t *testing.T) {
	v := Object(Field("a", Number("1")), Field("b", String("x")), Field("c", Null()))
	out := v.Without("b", "missing")
	assert.Equal(t, []string{"a", "c"}, out.Keys())
	assert.Equal(t, []string{"a", "b", "c"}, v.Keys())
	arr := Array(String("x"))
	assert.Equal(t, arr, arr.Without("x"))
}

func TestValueRoundTripThroughUnmarshal(t *testing.T) {
	var wrapper struct {
		Body Value `json:"body"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"body":{"k2":"v","k1":[true]}}`), &wrapper))
	assert.Equal(t, []string{"k2", "k1"}, wrapper.Body.Keys())
	assert.Equal(t, map[string]any{"k2": "v", "k1": []any{true}}, wrapper.Body.Interface())
}
