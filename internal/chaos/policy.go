// Package chaos decides whether and how a served mock response is disturbed.
//
// A Policy is a pure decision function over a random source: given a mock's
// chaos settings and its materialized payload it returns an Outcome. It keeps
// no state between requests.
package chaos

import (
	"fmt"
	mathrand "math/rand/v2"
	"time"

	"mockline/internal/template"
)

// Effect names one kind of injected fault.
type Effect string

const (
	EffectNone    Effect = ""
	EffectStatus  Effect = "status"
	EffectPartial Effect = "partial"
	EffectLatency Effect = "latency"
)

// AllEffects lists every supported effect in selection order.
var AllEffects = []Effect{EffectStatus, EffectPartial, EffectLatency}

// DefaultErrorStatuses is the pool status substitution draws from.
var DefaultErrorStatuses = []int{400, 401, 403, 404, 500, 502, 503}

// DefaultExtraLatency is held on top of the configured delay by the latency effect.
const DefaultExtraLatency = 2000 * time.Millisecond

// ParseEffect validates an effect name.
func ParseEffect(s string) (Effect, error) {
	switch e := Effect(s); e {
	case EffectStatus, EffectPartial, EffectLatency:
		return e, nil
	default:
		return EffectNone, fmt.Errorf("unknown chaos effect %q", s)
	}
}

// Rand is the random source a Policy draws from.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return mathrand.IntN(n) }
func (globalRand) Float64() float64 { return mathrand.Float64() }

// Config selects which effects an activation may pick from.
type Config struct {
	Effects       []Effect
	ErrorStatuses []int
	ExtraLatency  time.Duration
}

// Policy applies chaos. The zero value is usable and behaves like
// NewPolicy(Config{}).
type Policy struct {
	effects       []Effect
	errorStatuses []int
	extraLatency  time.Duration
	rand          Rand
}

// NewPolicy fills unset Config fields with the defaults.
func NewPolicy(cfg Config) Policy {
	p := Policy{
		effects:       cfg.Effects,
		errorStatuses: cfg.ErrorStatuses,
		extraLatency:  cfg.ExtraLatency,
	}
	return p.withDefaults()
}

func (p Policy) withDefaults() Policy {
	if len(p.effects) == 0 {
		p.effects = AllEffects
	}
	if len(p.errorStatuses) == 0 {
		p.errorStatuses = DefaultErrorStatuses
	}
	if p.extraLatency <= 0 {
		p.extraLatency = DefaultExtraLatency
	}
	return p
}

// WithRand returns a copy of p drawing from r. The global math/rand/v2 source
// is used when r is nil.
func (p Policy) WithRand(r Rand) Policy {
	p.rand = r
	return p
}

// Effects returns the effects an activation chooses among.
func (p Policy) Effects() []Effect {
	return append([]Effect(nil), p.withDefaults().effects...)
}

func (p Policy) rng() Rand {
	if p.rand != nil {
		return p.rand
	}
	return globalRand{}
}

// Input is the per-request data the policy decides over.
type Input struct {
	Enabled bool
	Level   int
	Payload template.Value
	Status  int
}

// Outcome is the policy's decision. When Activated is false Status and Body
// equal the input.
type Outcome struct {
	Activated   bool
	Effect      Effect
	Status      int
	Body        template.Value
	ExtraDelay  time.Duration
	RemovedKeys []string
}

// Activates rolls a uniform percentage in [0,100) and reports whether it falls
// under level. It never activates when chaos is disabled.
func (p Policy) Activates(enabled bool, level int) bool {
	if !enabled || level <= 0 {
		return false
	}
	if level >= 100 {
		return true
	}
	return p.rng().Float64()*100 < float64(level)
}

// Apply decides the outcome for one request. On activation exactly one
// effect is chosen uniformly among the configured ones.
func (p Policy) Apply(in Input) Outcome {
	out := Outcome{Status: in.Status, Body: in.Payload}
	if !p.Activates(in.Enabled, in.Level) {
		return out
	}
	p = p.withDefaults()
	r := p.rng()
	out.Activated = true
	out.Effect = p.effects[r.IntN(len(p.effects))]
	switch out.Effect {
	case EffectStatus:
		out.Status = p.errorStatuses[r.IntN(len(p.errorStatuses))]
		out.Body = ErrorBody(out.Status)
	case EffectPartial:
		out.Body, out.RemovedKeys = CorruptFields(in.Payload, r)
	case EffectLatency:
		out.ExtraDelay = p.extraLatency
	}
	return out
}

// ErrorBody is the document returned with a substituted status.
func ErrorBody(status int) template.Value {
	return template.Object(template.Field("error", template.String(fmt.Sprintf("Chaos mode activated: %d", status))))
}

// CorruptFields makes floor(n/2) removal attempts over the n top-level keys
// of an object, each drawing a key uniformly from the original key set.
// Draws may repeat, so fewer than n/2 distinct keys can be removed. Non-object
// payloads are returned unchanged.
func CorruptFields(payload template.Value, r Rand) (template.Value, []string) {
	keys := payload.Keys()
	if payload.Kind != template.KindObject || len(keys) < 2 {
		return payload, nil
	}
	if r == nil {
		r = globalRand{}
	}
	attempts := len(keys) / 2
	removed := make([]string, 0, attempts)
	seen := make(map[string]bool, attempts)
	for i := 0; i < attempts; i++ {
		k := keys[r.IntN(len(keys))]
		if seen[k] {
			continue
		}
		seen[k] = true
		removed = append(removed, k)
	}
	return payload.Without(removed...), removed
}
