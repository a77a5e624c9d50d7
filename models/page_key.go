package models

// DefaultLanguage is assigned to source files without a language suffix and is
// the target of index fallback lookups.
const DefaultLanguage = "en"

// PageKey identifies one generated content module.
type PageKey struct {
	Page     string
	Language string
}

// String returns the serialized form "<page>-<language>".
func (k PageKey) String() string {
	return k.Page + "-" + k.Language
}

// Default returns the key of the same page in DefaultLanguage.
func (k PageKey) Default() PageKey {
	return PageKey{Page: k.Page, Language: DefaultLanguage}
}
