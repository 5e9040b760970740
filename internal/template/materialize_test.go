package template

import (
	"encoding/json"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	uuidPattern  = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	emailPattern = regexp.MustCompile(`^[a-z]+\.[a-z]+[0-9]*@[a-z.]+$`)
)

func marshal(t *testing.T, v Value) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestMaterializeWithoutTokensIsIdentity(t *testing.T) {
	tests := []string{
		`{}`,
		`[]`,
		`"plain"`,
		`42`,
		`null`,
		`{"z":1,"a":{"nested":[1,2.50,"three",true,null]},"m":"{{ not a token }}"}`,
		`[{"b":1e3,"a":-0.0},"x",[[]]]`,
		`{"html":"<b>&amp;</b>","unicode":"héllo ✓"}`,
	}
	m := New(nil)
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, raw, marshal(t, m.Materialize(raw)))
		})
	}
}

func TestMaterializeResolvesEveryOccurrence(t *testing.T) {
	var calls int32
	m := New(ResolverFunc(func(token string) (string, bool) {
		n := atomic.AddInt32(&calls, 1)
		return token + "-" + string(rune('0'+n)), true
	}))
	out := m.Materialize(`{"a":"{{uuid}}","b":["{{uuid}}",{"c":"x {{uuid}} y {{uuid}}"}],"n":7}`)
	assert.Equal(t, int32(4), calls)
	assert.Equal(t, `{"a":"uuid-1","b":["uuid-2",{"c":"x uuid-3 y uuid-4"}],"n":7}`, marshal(t, out))
}

func TestMaterializeRepeatedUUIDsDiffer(t *testing.T) {
	out := New(nil).Materialize(`{"ids":["{{uuid}}","{{uuid}}","{{uuid}}"]}`)
	ids, ok := out.Get("ids")
	require.True(t, ok)
	require.Len(t, ids.Items, 3)
	seen := map[string]bool{}
	for _, item := range ids.Items {
		assert.Regexp(t, uuidPattern, item.Str)
		seen[item.Str] = true
	}
	assert.Len(t, seen, 3)
}

func TestExpandStringKeepsLiteralTextAndOrder(t *testing.T) {
	m := New(ResolverFunc(func(token string) (string, bool) {
		if token == "unknown" {
			return "", false
		}
		return strings.ToUpper(token), true
	}))
	assert.Equal(t, "Hi FIRSTNAME LASTNAME, ref {{unknown}}!", m.ExpandString("Hi {{firstName}} {{lastName}}, ref {{unknown}}!"))
	assert.Equal(t, "no tokens", m.ExpandString("no tokens"))
	assert.Equal(t, "{{ uuid }}", m.ExpandString("{{ uuid }}"))
}

func TestMaterializeUnknownTokenLeftVerbatim(t *testing.T) {
	out := New(nil).Materialize(`{"x":"{{company}}"}`)
	assert.Equal(t, `{"x":"{{company}}"}`, marshal(t, out))
}

func TestMaterializeInvalidTemplate(t *testing.T) {
	for _, raw := range []string{`{invalid json`, ``, `{"a":1} trailing`, `{"a":}`} {
		out := New(nil).Materialize(raw)
		assert.Equal(t, `{"error":"Invalid JSON template"}`, marshal(t, out), "input %q", raw)
	}
}

func TestMaterializeDoesNotMutateInput(t *testing.T) {
	tree, err := Parse([]byte(`{"id":"{{uuid}}","tags":["{{city}}"]}`))
	require.NoError(t, err)
	before := marshal(t, tree)
	out := New(nil).MaterializeValue(tree)
	assert.Equal(t, before, marshal(t, tree))
	assert.NotEqual(t, before, marshal(t, out))
}

func TestMaterializeScenarioFormats(t *testing.T) {
	out := New(nil).Materialize(`{"id":"{{uuid}}","email":"{{email}}"}`)
	assert.Equal(t, []string{"id", "email"}, out.Keys())
	id, _ := out.Get("id")
	email, _ := out.Get("email")
	assert.Equal(t, KindString, id.Kind)
	assert.Regexp(t, uuidPattern, id.Str)
	assert.Regexp(t, emailPattern, email.Str)
}

func TestFakerResolvesEveryToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f := Faker{Now: func() time.Time { return now }}
	for _, token := range Tokens {
		val, ok := f.Resolve(token)
		require.True(t, ok, token)
		require.NotEmpty(t, val, token)
	}
	_, ok := f.Resolve("nope")
	assert.False(t, ok)

	date, _ := f.Resolve("date")
	ts, err := time.Parse(time.RFC3339Nano, date)
	require.NoError(t, err)
	assert.False(t, ts.After(now))
	assert.True(t, ts.After(now.Add(-recentWindow-time.Second)))

	zip, _ := f.Resolve("zipCode")
	assert.Regexp(t, `^\d{5}$`, zip)
	phone, _ := f.Resolve("phone")
	assert.Regexp(t, `^\+1-\d{3}-\d{3}-\d{4}$`, phone)
	for i := 0; i < 50; i++ {
		n, _ := f.Resolve("number")
		var parsed int
		require.NoError(t, json.Unmarshal([]byte(n), &parsed))
		assert.True(t, parsed >= 0 && parsed < 1000)
		b, _ := f.Resolve("boolean")
		assert.Contains(t, []string{"true", "false"}, b)
	}
}

type fixedRand struct{ n int }

func (r fixedRand) IntN(n int) int { return r.n % n }

func TestFakerWithRandIsDeterministic(t *testing.T) {
	f := Faker{Rand: fixedRand{n: 3}}
	a, _ := f.Resolve("uuid")
	b, _ := f.Resolve("uuid")
	assert.Equal(t, a, b)
	assert.Regexp(t, uuidPattern, a)
	first, _ := f.Resolve("firstName")
	assert.Equal(t, fakerFirstNames[3], first)
}
