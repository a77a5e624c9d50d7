package content

import (
	"sort"

	"github.com/dtnitsch/contentc/models"
)

// Index maps serialized page keys to compiled trees.
type Index struct {
	entries map[string]*Map
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]*Map)}
}

// Add stores tree under key, replacing any earlier entry.
func (i *Index) Add(key models.PageKey, tree *Map) {
	i.entries[key.String()] = tree
}

// Len returns the number of entries.
func (i *Index) Len() int {
	return len(i.entries)
}

// Keys returns every serialized key in lexical order.
func (i *Index) Keys() []string {
	keys := make([]string, 0, len(i.entries))
	for k := range i.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get looks up an exact serialized key such as "homepage-es".
func (i *Index) Get(key string) (*Map, bool) {
	tree, ok := i.entries[key]
	return tree, ok
}

// GetByPage looks up page in lang, falling back to the default language entry.
func (i *Index) GetByPage(page, lang string) (*Map, bool) {
	if lang == "" {
		lang = models.DefaultLanguage
	}
	key := models.PageKey{Page: page, Language: lang}
	if tree, ok := i.entries[key.String()]; ok {
		return tree, true
	}
	tree, ok := i.entries[key.Default().String()]
	return tree, ok
}

// Resolve is GetByPage with a synthesized Fallback when the page is absent altogether
// or its entry fails Valid. The boolean reports whether real content was used.
func (i *Index) Resolve(page, lang string, d Defaults) (*Map, bool) {
	if tree, ok := i.GetByPage(page, lang); ok && Valid(tree) {
		return tree, true
	}
	return Fallback(page, lang, d), false
}
