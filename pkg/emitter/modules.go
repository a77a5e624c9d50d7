package emitter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"unicode"

	"github.com/dtnitsch/contentc/models"
	"github.com/dtnitsch/contentc/pkg/content"
)

const (
	// GeneratedMarker starts the first line of every emitted file.
	GeneratedMarker = "// Code generated by contentc"

	ModuleExt    = ".ts"
	IndexName    = "index" + ModuleExt
	FallbackName = "fallback" + ModuleExt
)

// FileName returns the output file name for key, e.g. "homepage-es.ts".
func FileName(key models.PageKey) string {
	return key.String() + ModuleExt
}

// Identifier derives a TypeScript identifier from key: every rune outside
// [A-Za-z0-9_] becomes "_" and a leading digit gets a "_" prefix.
func Identifier(key models.PageKey) string {
	var b strings.Builder
	for _, r := range key.String() {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	id := b.String()
	if id == "" || unicode.IsDigit(rune(id[0])) {
		id = "_" + id
	}
	return id
}

// Entry is one compiled module as seen by the index.
type Entry struct {
	Key        models.PageKey
	Identifier string
}

// Entries assigns identifiers to keys, sorted by serialized key. Distinct keys that
// derive the same identifier get "_2", "_3", ... suffixes in that order.
func Entries(keys []models.PageKey) []Entry {
	sorted := make([]models.PageKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })

	used := make(map[string]bool, len(sorted))
	entries := make([]Entry, 0, len(sorted))
	for _, key := range sorted {
		base := Identifier(key)
		id := base
		for n := 2; used[id]; n++ {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		used[id] = true
		entries = append(entries, Entry{Key: key, Identifier: id})
	}
	return entries
}

var moduleTemplate = template.Must(template.New("module").Parse(`{{.Marker}} from {{.Source}}. DO NOT EDIT.

import type { PageContent } from './fallback';

export const {{.Identifier}}: PageContent = {{.Literal}};

export default {{.Identifier}};
`))

// Module renders the compiled module for one page.
func Module(entry Entry, sourceName string, tree *content.Map) ([]byte, error) {
	literal, err := Literal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", entry.Key, err)
	}

	var buf bytes.Buffer
	err = moduleTemplate.Execute(&buf, map[string]string{
		"Marker":     GeneratedMarker,
		"Source":     sourceName,
		"Identifier": entry.Identifier,
		"Literal":    string(literal),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", entry.Key, err)
	}
	return buf.Bytes(), nil
}

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{"quote": quote}).Parse(`{{.Marker}}. DO NOT EDIT.

import type { PageContent } from './fallback';
{{- range .Entries}}
import {{.Identifier}} from {{quote (printf "./%s" .Key.String)}};
{{- end}}
{{if .Entries}}
export { {{.Exports}} };
{{end}}
export const DEFAULT_LANGUAGE = {{.DefaultLanguage}};

export const contentMap: Record<string, PageContent> = {
{{- range .Entries}}
  {{quote .Key.String}}: {{.Identifier}},
{{- end}}
};

export function getContent(key: string): PageContent | undefined {
  return contentMap[key];
}

export function getContentByPage(pageName: string, language: string = DEFAULT_LANGUAGE): PageContent | undefined {
  return contentMap[` + "`${pageName}-${language}`" + `] ?? contentMap[` + "`${pageName}-${DEFAULT_LANGUAGE}`" + `];
}
`))

// Index renders the aggregating index module for entries.
func Index(entries []Entry) ([]byte, error) {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.Identifier
	}

	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, map[string]any{
		"Marker":          GeneratedMarker,
		"Entries":         entries,
		"Exports":         strings.Join(ids, ", "),
		"DefaultLanguage": quote(models.DefaultLanguage),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render index: %w", err)
	}
	return buf.Bytes(), nil
}

var fallbackTemplate = template.Must(template.New("fallback").Parse(`{{.Marker}}. DO NOT EDIT.

export interface PageMeta {
  title: string;
  description: string;
  keywords: string[];
  language: string;
  [field: string]: unknown;
}

export interface PageContent {
  meta: PageMeta;
  [section: string]: unknown;
}

const BRAND = {{.Brand}};
const DEFAULT_DESCRIPTION = {{.Description}};
const DEFAULT_KEYWORDS: string[] = {{.Keywords}};

function titleCase(pageName: string): string {
  return pageName
    .replace(/[-_]+/g, ' ')
    .trim()
    .replace(/(^|\s)(\p{L})/gu, (_, sep: string, c: string) => sep + c.toUpperCase());
}

export function isValidContent(value: unknown): value is PageContent {
  if (typeof value !== 'object' || value === null) return false;
  const meta = (value as { meta?: Partial<PageMeta> }).meta;
  return (
    typeof meta === 'object' &&
    meta !== null &&
    typeof meta.title === 'string' &&
    typeof meta.description === 'string' &&
    Array.isArray(meta.keywords) &&
    typeof meta.language === 'string'
  );
}

export function generateFallbackContent(pageName: string, language: string = {{.DefaultLanguage}}): PageContent {
  return {
    meta: {
      title: ` + "`${titleCase(pageName)} | ${BRAND}`" + `,
      description: DEFAULT_DESCRIPTION,
      keywords: [...DEFAULT_KEYWORDS],
      language,
    },
    hero: {
      title: titleCase(pageName),
      subtitle: '',
    },
    sections: [],
  };
}
`))

// Fallback renders the static fallback module. Its output depends only on d.
func Fallback(d content.Defaults) ([]byte, error) {
	keywords := make([]string, len(d.Keywords))
	for i, k := range d.Keywords {
		keywords[i] = quote(k)
	}

	var buf bytes.Buffer
	err := fallbackTemplate.Execute(&buf, map[string]string{
		"Marker":          GeneratedMarker,
		"Brand":           quote(d.Brand),
		"Description":     quote(d.Description),
		"Keywords":        "[" + strings.Join(keywords, ", ") + "]",
		"DefaultLanguage": quote(models.DefaultLanguage),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render fallback: %w", err)
	}
	return buf.Bytes(), nil
}
