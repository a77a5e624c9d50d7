package content

import "github.com/dtnitsch/contentc/models"

// Fallback synthesizes a structurally complete tree for a page that has no
// compiled content. It mirrors generateFallbackContent in the emitted fallback module.
func Fallback(page, lang string, d Defaults) *Map {
	if lang == "" {
		lang = models.DefaultLanguage
	}

	meta := NewMap()
	meta.Set("title", PageTitle(page, d.Brand))
	meta.Set("description", d.Description)
	meta.Set("keywords", d.keywords())
	meta.Set("language", lang)

	hero := NewMap()
	hero.Set("title", TitleCase(page))
	hero.Set("subtitle", "")

	tree := NewMap()
	tree.Set("meta", meta)
	tree.Set("hero", hero)
	tree.Set("sections", []any{})
	return tree
}
