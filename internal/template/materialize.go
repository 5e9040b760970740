package template

import (
	"regexp"
)

// InvalidTemplateMessage is reported in place of a template that is not JSON.
const InvalidTemplateMessage = "Invalid JSON template"

var placeholderRegex = regexp.MustCompile(`\{\{([A-Za-z][A-Za-z0-9_]*)\}\}`)

// InvalidTemplate returns the document served for an unparseable template.
func InvalidTemplate() Value {
	return Object(Field("error", String(InvalidTemplateMessage)))
}

// Materializer turns templates into concrete documents. It holds no
// mutable state and may be shared between goroutines.
type Materializer struct {
	resolver Resolver
}

// New returns a Materializer backed by r, or by a zero Faker when r is nil.
func New(r Resolver) *Materializer {
	if r == nil {
		r = Faker{}
	}
	return &Materializer{resolver: r}
}

// Materialize parses raw and resolves every placeholder. A template that is
// not valid JSON yields InvalidTemplate() rather than an error.
func (m *Materializer) Materialize(raw string) Value {
	tree, err := Parse([]byte(raw))
	if err != nil {
		return InvalidTemplate()
	}
	return m.MaterializeValue(tree)
}

// MaterializeValue walks an already parsed tree and returns a new tree; the
// input is not modified.
func (m *Materializer) MaterializeValue(v Value) Value {
	switch v.Kind {
	case KindString:
		return String(m.ExpandString(v.Str))
	case KindArray:
		items := make([]Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = m.MaterializeValue(item)
		}
		return Value{Kind: KindArray, Items: items}
	case KindObject:
		members := make([]Member, len(v.Members))
		for i, member := range v.Members {
			members[i] = Member{Key: member.Key, Value: m.MaterializeValue(member.Value)}
		}
		return Value{Kind: KindObject, Members: members}
	default:
		return v
	}
}

// ExpandString replaces each {{token}} in s, left to right, with a freshly
// resolved value. Unknown tokens and surrounding text are kept verbatim.
func (m *Materializer) ExpandString(s string) string {
	if !placeholderRegex.MatchString(s) {
		return s
	}
	return placeholderRegex.ReplaceAllStringFunc(s, func(match string) string {
		token := match[2 : len(match)-2]
		if val, ok := m.resolver.Resolve(token); ok {
			return val
		}
		return match
	})
}
