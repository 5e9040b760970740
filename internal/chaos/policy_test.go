package chaos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mockline/internal/template"
)

// scriptedRand replays fixed draws so tests can steer each decision.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (s *scriptedRand) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func samplePayload(t *testing.T) template.Value {
	t.Helper()
	v, err := template.Parse([]byte(`{"a":1,"b":2,"c":3,"d":4,"e":5}`))
	require.NoError(t, err)
	return v
}

func TestDisabledChaosNeverAlters(t *testing.T) {
	p := NewPolicy(Config{})
	payload := samplePayload(t)
	for i := 0; i < 200; i++ {
		out := p.Apply(Input{Enabled: false, Level: 100, Payload: payload, Status: 201})
		assert.False(t, out.Activated)
		assert.Equal(t, 201, out.Status)
		assert.Equal(t, payload, out.Body)
		assert.Zero(t, out.ExtraDelay)
	}
}

func TestLevelBounds(t *testing.T) {
	p := NewPolicy(Config{})
	for i := 0; i < 200; i++ {
		assert.True(t, p.Activates(true, 100))
		assert.False(t, p.Activates(true, 0))
	}
}

func TestActivationThreshold(t *testing.T) {
	r := &scriptedRand{floats: []float64{0.299, 0.30, 0.9}}
	p := NewPolicy(Config{}).WithRand(r)
	assert.True(t, p.Activates(true, 30))
	assert.False(t, p.Activates(true, 30))
	assert.False(t, p.Activates(true, 30))
}

func TestStatusEffect(t *testing.T) {
	r := &scriptedRand{ints: []int{0, 4}}
	p := NewPolicy(Config{Effects: []Effect{EffectStatus}}).WithRand(r)
	out := p.Apply(Input{Enabled: true, Level: 100, Payload: samplePayload(t), Status: 200})
	require.True(t, out.Activated)
	assert.Equal(t, EffectStatus, out.Effect)
	assert.Equal(t, 500, out.Status)
	body, err := out.Body.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Chaos mode activated: 500"}`, string(body))
}

func TestStatusEffectDrawsFromPool(t *testing.T) {
	p := NewPolicy(Config{Effects: []Effect{EffectStatus}})
	for i := 0; i < 100; i++ {
		out := p.Apply(Input{Enabled: true, Level: 100, Payload: template.Null(), Status: 200})
		assert.Contains(t, DefaultErrorStatuses, out.Status)
	}
}

func TestCustomErrorStatuses(t *testing.T) {
	p := NewPolicy(Config{Effects: []Effect{EffectStatus}, ErrorStatuses: []int{418}})
	out := p.Apply(Input{Enabled: true, Level: 100, Payload: template.Null(), Status: 200})
	assert.Equal(t, 418, out.Status)
}

func TestPartialEffectRemovesKeys(t *testing.T) {
	payload := samplePayload(t)
	p := NewPolicy(Config{Effects: []Effect{EffectPartial}})
	for i := 0; i < 100; i++ {
		out := p.Apply(Input{Enabled: true, Level: 100, Payload: payload, Status: 200})
		require.True(t, out.Activated)
		assert.Equal(t, 200, out.Status)
		assert.LessOrEqual(t, len(out.Body.Keys()), 5)
		assert.GreaterOrEqual(t, len(out.Body.Keys()), 3)
		assert.Equal(t, 5-len(out.RemovedKeys), len(out.Body.Keys()))
	}
	assert.Len(t, payload.Keys(), 5, "payload must not be modified")
}

func TestPartialDuplicateDraws(t *testing.T) {
	r := &scriptedRand{ints: []int{1, 1}}
	body, removed := CorruptFields(samplePayload(t), r)
	assert.Equal(t, []string{"b"}, removed)
	assert.Equal(t, []string{"a", "c", "d", "e"}, body.Keys())
}

func TestPartialLeavesNonObjects(t *testing.T) {
	arr := template.Array(template.Number("1"), template.Number("2"))
	body, removed := CorruptFields(arr, nil)
	assert.Equal(t, arr, body)
	assert.Empty(t, removed)

	single := template.Object(template.Field("only", template.Bool(true)))
	body, removed = CorruptFields(single, nil)
	assert.Equal(t, single, body)
	assert.Empty(t, removed)
}

func TestLatencyEffect(t *testing.T) {
	p := NewPolicy(Config{Effects: []Effect{EffectLatency}})
	payload := samplePayload(t)
	out := p.Apply(Input{Enabled: true, Level: 100, Payload: payload, Status: 200})
	assert.Equal(t, EffectLatency, out.Effect)
	assert.Equal(t, DefaultExtraLatency, out.ExtraDelay)
	assert.Equal(t, payload, out.Body)

	p = NewPolicy(Config{Effects: []Effect{EffectLatency}, ExtraLatency: 50 * time.Millisecond})
	out = p.Apply(Input{Enabled: true, Level: 100, Payload: payload, Status: 200})
	assert.Equal(t, 50*time.Millisecond, out.ExtraDelay)
}

func TestEffectSelection(t *testing.T) {
	r := &scriptedRand{ints: []int{2}}
	p := NewPolicy(Config{}).WithRand(r)
	out := p.Apply(Input{Enabled: true, Level: 100, Payload: samplePayload(t), Status: 200})
	assert.Equal(t, EffectLatency, out.Effect)
	assert.Equal(t, AllEffects, p.Effects())
}

func TestZeroPolicyUsesDefaults(t *testing.T) {
	var p Policy
	out := p.Apply(Input{Enabled: true, Level: 100, Payload: samplePayload(t), Status: 200})
	assert.True(t, out.Activated)
	assert.Contains(t, AllEffects, out.Effect)
}

func TestParseEffect(t *testing.T) {
	e, err := ParseEffect("partial")
	require.NoError(t, err)
	assert.Equal(t, EffectPartial, e)
	_, err = ParseEffect("explode")
	assert.Error(t, err)
}
