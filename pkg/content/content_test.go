package content

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dtnitsch/contentc/models"
	"gopkg.in/yaml.v3"
)

func mustDecode(t *testing.T, src string) *Map {
	t.Helper()
	tree, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return tree
}

func TestDecode_PreservesOrder(t *testing.T) {
	tree := mustDecode(t, `
zeta: 1
alpha:
  second: true
  first: [a, 2, 3.5, null]
meta:
  title: Home
`)

	if got := strings.Join(tree.Keys(), ","); got != "zeta,alpha,meta" {
		t.Errorf("Keys() = %q, want %q", got, "zeta,alpha,meta")
	}
	alpha, ok := tree.GetMap("alpha")
	if !ok {
		t.Fatal("alpha is not a mapping")
	}
	if got := strings.Join(alpha.Keys(), ","); got != "second,first" {
		t.Errorf("alpha.Keys() = %q, want %q", got, "second,first")
	}
	first, _ := alpha.Get("first")
	want := []any{"a", 2, 3.5, nil}
	if !Equal(first, want) {
		t.Errorf("first = %#v, want %#v", first, want)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{name: "empty", src: "", wantErr: ErrEmptyDocument},
		{name: "comment only", src: "# nothing here\n", wantErr: ErrEmptyDocument},
		{name: "null", src: "~\n", wantErr: ErrEmptyDocument},
		{name: "sequence root", src: "- a\n- b\n", wantErr: ErrNotMapping},
		{name: "scalar root", src: "hello\n", wantErr: ErrNotMapping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.src))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecode_InvalidSyntax(t *testing.T) {
	_, err := Decode([]byte("meta: {title: \"Home\"\n  broken: ["))
	if err == nil {
		t.Fatal("Decode() error = nil, want syntax error")
	}
}

func TestDecode_AliasesAndMerge(t *testing.T) {
	tree := mustDecode(t, `
base: &base
  cta: Enroll
  color: blue
hero:
  <<: *base
  color: red
footer: *base
`)

	hero, _ := tree.GetMap("hero")
	if got, _ := hero.GetString("cta"); got != "Enroll" {
		t.Errorf("hero.cta = %q, want %q", got, "Enroll")
	}
	if got, _ := hero.GetString("color"); got != "red" {
		t.Errorf("hero.color = %q, want %q", got, "red")
	}

	footer, _ := tree.GetMap("footer")
	footer.Set("cta", "changed")
	base, _ := tree.GetMap("base")
	if got, _ := base.GetString("cta"); got != "Enroll" {
		t.Errorf("aliased mapping shares state with its anchor: base.cta = %q", got)
	}
}

func TestDecode_TimestampsStayText(t *testing.T) {
	tree := mustDecode(t, "starts: 2024-01-15\nat: 2024-01-15T09:30:00Z\nquoted: \"2024-01-15\"\n")

	for key, want := range map[string]string{
		"starts": "2024-01-15",
		"at":     "2024-01-15T09:30:00Z",
		"quoted": "2024-01-15",
	} {
		got, ok := tree.GetString(key)
		if !ok || got != want {
			v, _ := tree.Get(key)
			t.Errorf("%s = %#v, want %q", key, v, want)
		}
	}
}

func TestDecode_AliasExpansionLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&b, "l%d: &l%d [", i, i)
		for j := 0; j < 10; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "*l%d", i-1)
		}
		b.WriteString("]\n")
	}

	_, err := Decode([]byte(b.String()))
	if !errors.Is(err, ErrTooManyNodes) {
		t.Errorf("Decode() error = %v, want ErrTooManyNodes", err)
	}
}

func TestNormalize_DefaultsMissingFields(t *testing.T) {
	tree := mustDecode(t, `meta: {title: "Home"}`)
	key := models.PageKey{Page: "homepage", Language: "en"}

	warnings := Normalize(tree, key, NewDefaults("Academy"))

	meta, _ := tree.GetMap("meta")
	if got, _ := meta.GetString("title"); got != "Home" {
		t.Errorf("meta.title = %q, want %q", got, "Home")
	}
	if got, _ := meta.GetString("description"); got != DefaultDescription {
		t.Errorf("meta.description = %q, want %q", got, DefaultDescription)
	}
	if got, _ := meta.GetString("language"); got != "en" {
		t.Errorf("meta.language = %q, want %q", got, "en")
	}
	keywords, _ := meta.Get("keywords")
	if !Equal(keywords, []any{"online courses", "e-learning", "education"}) {
		t.Errorf("meta.keywords = %#v", keywords)
	}

	fields := make([]string, len(warnings))
	for i, w := range warnings {
		fields[i] = w.Field
	}
	if got := strings.Join(fields, ","); got != "meta.description,meta.keywords" {
		t.Errorf("warned fields = %q, want %q", got, "meta.description,meta.keywords")
	}
}

func TestNormalize_Shapes(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		page      string
		wantTitle string
		wantWarns int
	}{
		{name: "no meta", src: "hero: {title: Hi}", page: "about-us", wantTitle: "About Us | Academy", wantWarns: 4},
		{name: "meta scalar", src: "meta: nope", page: "faq", wantTitle: "Faq | Academy", wantWarns: 4},
		{name: "empty title", src: "meta: {title: '  ', description: d, keywords: [k]}", page: "course_catalog", wantTitle: "Course Catalog | Academy", wantWarns: 1},
		{name: "keywords string", src: "meta: {title: T, description: d, keywords: 'a, b'}", page: "x", wantTitle: "T", wantWarns: 1},
		{name: "complete", src: "meta: {title: T, description: d, keywords: [], language: fr}", page: "x", wantTitle: "T", wantWarns: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustDecode(t, tt.src)
			warnings := Normalize(tree, models.PageKey{Page: tt.page, Language: "es"}, NewDefaults("Academy"))

			if len(warnings) != tt.wantWarns {
				t.Errorf("len(warnings) = %d, want %d (%v)", len(warnings), tt.wantWarns, warnings)
			}
			meta, _ := tree.GetMap("meta")
			if got, _ := meta.GetString("title"); got != tt.wantTitle {
				t.Errorf("meta.title = %q, want %q", got, tt.wantTitle)
			}
			if got, _ := meta.GetString("language"); got != "es" {
				t.Errorf("meta.language = %q, want %q", got, "es")
			}
			if !Valid(tree) {
				t.Error("Valid() = false after Normalize")
			}
		})
	}
}

func TestIndex_Lookups(t *testing.T) {
	idx := NewIndex()
	defaults := NewDefaults("Academy")
	for _, key := range []models.PageKey{
		{Page: "homepage", Language: "en"},
		{Page: "homepage", Language: "es"},
		{Page: "pricing", Language: "de"},
	} {
		tree := mustDecode(t, "meta: {title: T}")
		Normalize(tree, key, defaults)
		idx.Add(key, tree)
	}

	for _, k := range idx.Keys() {
		tree, ok := idx.Get(k)
		if !ok {
			t.Fatalf("Get(%q) missing", k)
		}
		meta, _ := tree.GetMap("meta")
		lang, _ := meta.GetString("language")
		if !strings.HasSuffix(k, "-"+lang) {
			t.Errorf("Get(%q) meta.language = %q", k, lang)
		}
	}

	tree, ok := idx.GetByPage("homepage", "fr")
	if !ok {
		t.Fatal("GetByPage(homepage, fr) found nothing")
	}
	en, _ := idx.Get("homepage-en")
	if tree != en {
		t.Error("GetByPage(homepage, fr) did not return the homepage-en tree")
	}

	if _, ok := idx.GetByPage("pricing", "fr"); ok {
		t.Error("GetByPage(pricing, fr) found an entry without a default-language tree")
	}

	fallback, real := idx.Resolve("contact", "fr", defaults)
	if real {
		t.Error("Resolve(contact) reported real content")
	}
	if !Valid(fallback) {
		t.Error("Resolve(contact) returned an invalid fallback")
	}
}

func TestIndex_ResolveRejectsInvalidEntry(t *testing.T) {
	idx := NewIndex()
	broken := NewMap()
	broken.Set("meta", "oops")
	idx.Add(models.PageKey{Page: "careers", Language: "en"}, broken)

	tree, real := idx.Resolve("careers", "en", NewDefaults("Academy"))
	if real {
		t.Error("Resolve() used an entry that fails Valid")
	}
	meta, _ := tree.GetMap("meta")
	if got, _ := meta.GetString("title"); got != "Careers | Academy" {
		t.Errorf("meta.title = %q, want %q", got, "Careers | Academy")
	}
}

func TestFallback_Shape(t *testing.T) {
	for _, page := range []string{"homepage", "about-us", "x"} {
		tree := Fallback(page, "", NewDefaults("Academy"))
		if !Valid(tree) {
			t.Errorf("Fallback(%q) fails Valid", page)
		}
		meta, _ := tree.GetMap("meta")
		if got, _ := meta.GetString("language"); got != models.DefaultLanguage {
			t.Errorf("Fallback(%q) meta.language = %q", page, got)
		}
		if sections, _ := tree.Get("sections"); !Equal(sections, []any{}) {
			t.Errorf("Fallback(%q) sections = %#v", page, sections)
		}
	}
}

func TestMap_MarshalYAMLKeepsOrder(t *testing.T) {
	tree := mustDecode(t, "b: 1\na:\n  d: [x]\n  c: true\n")

	out, err := yaml.Marshal(tree)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	want := "b: 1\na:\n    d:\n        - x\n    c: true\n"
	if string(out) != want {
		t.Errorf("yaml.Marshal() = %q, want %q", out, want)
	}
}

func TestMap_RenameKeepsPosition(t *testing.T) {
	m := NewMap()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	m.Rename("b", "z")
	if got := strings.Join(m.Keys(), ","); got != "a,z,c" {
		t.Errorf("Keys() = %q, want %q", got, "a,z,c")
	}

	m.Rename("z", "c")
	if got := strings.Join(m.Keys(), ","); got != "a,c" {
		t.Errorf("Keys() = %q, want %q", got, "a,c")
	}
	if v, _ := m.Get("c"); v != 2 {
		t.Errorf("c = %v, want 2", v)
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"homepage":        "Homepage",
		"about-us":        "About Us",
		"course__catalog": "Course Catalog",
		"FAQ":             "FAQ",
		"über-uns":        "Über Uns",
	}
	for in, want := range tests {
		if got := TitleCase(in); got != want {
			t.Errorf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
