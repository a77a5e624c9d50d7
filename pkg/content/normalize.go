package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dtnitsch/contentc/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultDescription = "Discover expert-led online courses and start learning today."
)

// DefaultKeywords is used when a page declares no meta.keywords.
var DefaultKeywords = []string{"online courses", "e-learning", "education"}

// Defaults are the values injected into trees missing required meta fields.
type Defaults struct {
	Brand       string
	Description string
	Keywords    []string
}

// NewDefaults returns Defaults for brand with the stock description and keywords.
func NewDefaults(brand string) Defaults {
	if brand == "" {
		brand = models.DefaultBrand
	}
	return Defaults{
		Brand:       brand,
		Description: DefaultDescription,
		Keywords:    append([]string(nil), DefaultKeywords...),
	}
}

func (d Defaults) keywords() []any {
	out := make([]any, len(d.Keywords))
	for i, k := range d.Keywords {
		out[i] = k
	}
	return out
}

// Warning describes a field that had to be defaulted or rewritten.
type Warning struct {
	Field   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}

var wordSeparators = regexp.MustCompile(`[-_]+`)

// TitleCase turns a page name such as "about-us" into "About Us".
// Letters after the first of each word keep their case.
func TitleCase(page string) string {
	words := strings.TrimSpace(wordSeparators.ReplaceAllString(page, " "))
	return cases.Title(language.English, cases.NoLower).String(words)
}

// PageTitle returns the synthesized title for a page without one.
func PageTitle(page, brand string) string {
	return TitleCase(page) + " | " + brand
}

// Normalize enforces the shape invariant on tree in place: a meta mapping with
// string title and description, a keywords sequence, and language set to the key's
// language. It returns one Warning per defaulted field.
func Normalize(tree *Map, key models.PageKey, d Defaults) []Warning {
	var warnings []Warning

	meta, ok := tree.GetMap("meta")
	if !ok {
		if _, present := tree.Get("meta"); present {
			warnings = append(warnings, Warning{Field: "meta", Message: "not a mapping, replaced"})
		} else {
			warnings = append(warnings, Warning{Field: "meta", Message: "missing, created"})
		}
		meta = NewMap()
		tree.Set("meta", meta)
	}

	if title, ok := meta.GetString("title"); !ok || strings.TrimSpace(title) == "" {
		synthesized := PageTitle(key.Page, d.Brand)
		meta.Set("title", synthesized)
		warnings = append(warnings, Warning{Field: "meta.title", Message: fmt.Sprintf("missing, defaulted to %q", synthesized)})
	}

	if desc, ok := meta.GetString("description"); !ok || strings.TrimSpace(desc) == "" {
		meta.Set("description", d.Description)
		warnings = append(warnings, Warning{Field: "meta.description", Message: "missing, defaulted"})
	}

	if _, ok := meta.Get("keywords"); !ok {
		meta.Set("keywords", d.keywords())
		warnings = append(warnings, Warning{Field: "meta.keywords", Message: "missing, defaulted"})
	} else if _, isList := meta.values["keywords"].([]any); !isList {
		meta.Set("keywords", d.keywords())
		warnings = append(warnings, Warning{Field: "meta.keywords", Message: "not a sequence, defaulted"})
	}

	meta.Set("language", key.Language)

	return warnings
}

// Valid reports whether tree satisfies the shape invariant.
func Valid(tree *Map) bool {
	meta, ok := tree.GetMap("meta")
	if !ok {
		return false
	}
	if _, ok := meta.GetString("title"); !ok {
		return false
	}
	if _, ok := meta.GetString("description"); !ok {
		return false
	}
	if _, ok := meta.values["keywords"].([]any); !ok {
		return false
	}
	_, ok = meta.GetString("language")
	return ok
}
