package envfile

import (
	"regexp"

	"github.com/dtnitsch/contentc/pkg/content"
)

var placeholderPattern = regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`)

// Resolve substitutes ${NAME} markers in every string value and mapping key of
// tree with env[NAME]. Markers whose variable is absent stay verbatim; their names
// are returned once each, in first-seen order. Non-string scalars are untouched.
func Resolve(tree *content.Map, env map[string]string) []string {
	r := &resolver{env: env, seen: make(map[string]bool)}
	r.resolveMap(tree)
	return r.missing
}

type resolver struct {
	env     map[string]string
	seen    map[string]bool
	missing []string
}

func (r *resolver) resolveMap(m *content.Map) {
	for _, key := range m.Keys() {
		if _, ok := m.Get(key); !ok {
			continue
		}
		newKey := r.expand(key)
		if newKey != key {
			m.Rename(key, newKey)
		}
		v, _ := m.Get(newKey)
		m.Set(newKey, r.resolveValue(v))
	}
}

func (r *resolver) resolveValue(v any) any {
	switch t := v.(type) {
	case string:
		return r.expand(t)
	case *content.Map:
		r.resolveMap(t)
		return t
	case []any:
		for i, item := range t {
			t[i] = r.resolveValue(item)
		}
		return t
	default:
		return v
	}
}

func (r *resolver) expand(s string) string {
	if !placeholderPattern.MatchString(s) {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(marker string) string {
		name := marker[2 : len(marker)-1]
		if value, ok := r.env[name]; ok {
			return value
		}
		if !r.seen[name] {
			r.seen[name] = true
			r.missing = append(r.missing, name)
		}
		return marker
	})
}
