package template

import (
	"fmt"
	mathrand "math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tokens is the placeholder vocabulary templates are authored against.
var Tokens = []string{
	"uuid", "name", "firstName", "lastName", "email", "phone", "address",
	"city", "country", "zipCode", "date", "number", "boolean",
}

// Resolver maps a placeholder token name to a generated value. ok is false
// for tokens the resolver does not know; the placeholder is then kept as is.
type Resolver interface {
	Resolve(token string) (value string, ok bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(token string) (string, bool)

func (f ResolverFunc) Resolve(token string) (string, bool) { return f(token) }

// Rand is the subset of *math/rand/v2.Rand the faker draws from.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return mathrand.IntN(n) }

// recentWindow bounds how far in the past {{date}} may fall.
const recentWindow = 72 * time.Hour

// Faker resolves the built-in tokens. A zero Faker uses the global
// math/rand/v2 source and the wall clock and is safe for concurrent use; a
// Faker with Rand set is only as safe as that source.
type Faker struct {
	Rand Rand
	Now  func() time.Time
}

func (f Faker) rng() Rand {
	if f.Rand != nil {
		return f.Rand
	}
	return globalRand{}
}

func (f Faker) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f Faker) pick(items []string) string {
	return items[f.rng().IntN(len(items))]
}

func (f Faker) Resolve(token string) (string, bool) {
	r := f.rng()
	switch token {
	case "uuid":
		return f.uuid(), true
	case "name":
		return f.pick(fakerFirstNames) + " " + f.pick(fakerLastNames), true
	case "firstName":
		return f.pick(fakerFirstNames), true
	case "lastName":
		return f.pick(fakerLastNames), true
	case "email":
		local := strings.ToLower(f.pick(fakerFirstNames) + "." + f.pick(fakerLastNames))
		return local + strconv.Itoa(r.IntN(100)) + "@" + f.pick(fakerEmailDomains), true
	case "phone":
		return fmt.Sprintf("+1-%03d-%03d-%04d", r.IntN(800)+200, r.IntN(900)+100, r.IntN(10000)), true
	case "address":
		return fmt.Sprintf("%d %s %s", r.IntN(9999)+1, f.pick(fakerStreetNames), f.pick(fakerStreetSuffixes)), true
	case "city":
		return f.pick(fakerCities), true
	case "country":
		return f.pick(fakerCountries), true
	case "zipCode":
		return fmt.Sprintf("%05d", r.IntN(100000)), true
	case "date":
		back := time.Duration(r.IntN(int(recentWindow / time.Millisecond))) * time.Millisecond
		return f.now().Add(-back).UTC().Format("2006-01-02T15:04:05.000Z"), true
	case "number":
		return strconv.Itoa(r.IntN(1000)), true
	case "boolean":
		return strconv.FormatBool(r.IntN(2) == 1), true
	default:
		return "", false
	}
}

func (f Faker) uuid() string {
	if f.Rand == nil {
		return uuid.New().String()
	}
	var b uuid.UUID
	for i := range b {
		b[i] = byte(f.Rand.IntN(256))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return b.String()
}
