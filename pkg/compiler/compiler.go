// Package compiler turns a directory of page content files into generated
// TypeScript modules: discover, decode, resolve placeholders, normalize, emit.
package compiler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dtnitsch/contentc/internal/common"
	"github.com/dtnitsch/contentc/models"
	"github.com/dtnitsch/contentc/pkg/content"
	"github.com/dtnitsch/contentc/pkg/emitter"
	"github.com/dtnitsch/contentc/pkg/envfile"
	"github.com/dtnitsch/contentc/pkg/plaintext"
	"github.com/dtnitsch/contentc/pkg/source"
	"github.com/dtnitsch/contentc/pkg/storage"
)

// ErrWrite marks failures to write the output directory. They abort the run.
var ErrWrite = errors.New("failed to write output")

// LanguageChecker flags page text that reads as a different language than the
// one its file name declares.
type LanguageChecker interface {
	Mismatch(want, text string) (string, bool)
}

// Options configure a Compiler.
type Options struct {
	ContentDir string
	OutputDir  string
	Defaults   content.Defaults
	Env        map[string]string
	Prune      bool
	Language   LanguageChecker // nil disables the language check
}

// Page is one successfully compiled source file.
type Page struct {
	Key        models.PageKey
	SourcePath string
	Tree       *content.Map
}

// Skipped is a source file that contributed nothing to the output.
type Skipped struct {
	Path   string
	Reason string
}

// Warning is a recoverable problem found while compiling a file.
type Warning struct {
	File    string
	Field   string
	Var     string
	Message string
}

func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(w.File)
	if w.Field != "" {
		b.WriteString(" " + w.Field)
	}
	if w.Var != "" {
		b.WriteString(" ${" + w.Var + "}")
	}
	b.WriteString(": " + w.Message)
	return b.String()
}

// Result is the in-memory outcome of Collect.
type Result struct {
	Pages    []Page // sorted by page key
	Skipped  []Skipped
	Warnings []Warning
	Index    *content.Index
}

// Keys returns the page keys of r in the order of r.Pages.
func (r *Result) Keys() []models.PageKey {
	keys := make([]models.PageKey, len(r.Pages))
	for i, p := range r.Pages {
		keys[i] = p.Key
	}
	return keys
}

// Written is one page module written by Run.
type Written struct {
	Key        models.PageKey
	SourcePath string
	OutputPath string
	Hash       string
}

// Output is the outcome of Run.
type Output struct {
	*Result
	Modules []Written
	Pruned  []string
}

// Compiler runs the content pipeline for one content and output directory pair.
type Compiler struct {
	opts    Options
	logger  *slog.Logger
	storage *storage.Storage
}

// New returns a Compiler. A nil logger discards log output.
func New(opts Options, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Defaults.Brand == "" {
		opts.Defaults = content.NewDefaults(opts.Defaults.Brand)
	}
	return &Compiler{opts: opts, logger: logger, storage: &storage.Storage{}}
}

// Collect compiles every source file in memory. Only a missing or unreadable
// content directory is an error; per-file problems become skips and warnings.
func (c *Compiler) Collect() (*Result, error) {
	files, err := source.Discover(c.opts.ContentDir)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("discovered source files", "dir", c.opts.ContentDir, "count", len(files))

	result := &Result{Index: content.NewIndex()}
	byKey := make(map[string]int, len(files))

	for _, path := range files {
		page, warnings, err := c.compileFile(path)
		result.Warnings = append(result.Warnings, warnings...)
		if err != nil {
			c.logger.Warn("skipping source file", "file", path, "error", err)
			result.Skipped = append(result.Skipped, Skipped{Path: path, Reason: err.Error()})
			continue
		}

		if i, dup := byKey[page.Key.String()]; dup {
			w := Warning{
				File:    path,
				Message: fmt.Sprintf("page key %s also defined by %s, using %s", page.Key, result.Pages[i].SourcePath, path),
			}
			c.logger.Warn("duplicate page key", "file", path, "key", page.Key.String(), "previous", result.Pages[i].SourcePath)
			result.Warnings = append(result.Warnings, w)
			result.Pages[i] = *page
			continue
		}
		byKey[page.Key.String()] = len(result.Pages)
		result.Pages = append(result.Pages, *page)
	}

	sort.Slice(result.Pages, func(i, j int) bool {
		return result.Pages[i].Key.String() < result.Pages[j].Key.String()
	})
	for _, p := range result.Pages {
		result.Index.Add(p.Key, p.Tree)
	}
	return result, nil
}

// compileFile runs one file through decode, placeholder resolution and
// normalization. A non-nil error means the file is skipped.
func (c *Compiler) compileFile(path string) (*Page, []Warning, error) {
	data, err := c.storage.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	tree, err := content.Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode: %w", err)
	}

	key := source.ParseFilename(path)
	var warnings []Warning
	warn := func(w Warning, msg string) {
		w.File = path
		warnings = append(warnings, w)
		attrs := []any{"file", path}
		if w.Field != "" {
			attrs = append(attrs, "field", w.Field)
		}
		if w.Var != "" {
			attrs = append(attrs, "var", w.Var)
		}
		c.logger.Warn(msg, attrs...)
	}

	for _, name := range envfile.Resolve(tree, c.opts.Env) {
		warn(Warning{Var: name, Message: "environment variable not set, placeholder left unresolved"}, "unresolved placeholder")
	}

	c.sanitizeMeta(tree, warn)

	if meta, ok := tree.GetMap("meta"); ok {
		if lang, ok := meta.GetString("language"); ok && lang != key.Language {
			c.logger.Debug("overriding meta.language", "file", path, "from", lang, "to", key.Language)
		}
	}
	text := metaText(tree)

	for _, w := range content.Normalize(tree, key, c.opts.Defaults) {
		warn(Warning{Field: w.Field, Message: w.Message}, "defaulted field")
	}

	if c.opts.Language != nil {
		if got, mismatch := c.opts.Language.Mismatch(key.Language, text); mismatch {
			warn(Warning{Field: "meta.language", Message: fmt.Sprintf("text reads as %q, file declares %q", got, key.Language)}, "language mismatch")
		}
	}

	if _, err := emitter.Literal(tree); err != nil {
		return nil, warnings, fmt.Errorf("failed to render: %w", err)
	}

	return &Page{Key: key, SourcePath: path, Tree: tree}, warnings, nil
}

// sanitizeMeta reduces markup in meta.title and meta.description to plain text.
func (c *Compiler) sanitizeMeta(tree *content.Map, warn func(Warning, string)) {
	meta, ok := tree.GetMap("meta")
	if !ok {
		return
	}
	for _, field := range []string{"title", "description"} {
		s, ok := meta.GetString(field)
		if !ok {
			continue
		}
		if text, changed := plaintext.FromMarkup(s); changed {
			meta.Set(field, text)
			warn(Warning{Field: "meta." + field, Message: "markup removed"}, "sanitized field")
		}
	}
}

// metaText joins the source-provided title and description for language detection.
func metaText(tree *content.Map) string {
	meta, ok := tree.GetMap("meta")
	if !ok {
		return ""
	}
	var parts []string
	for _, field := range []string{"title", "description"} {
		if s, ok := meta.GetString(field); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ". ")
}

// Run collects every page and writes the page modules, the index and the fallback
// module to the output directory. Any write failure aborts the run.
func (c *Compiler) Run() (*Output, error) {
	result, err := c.Collect()
	if err != nil {
		return nil, err
	}

	if err := c.storage.EnsureDir(c.opts.OutputDir); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	out := &Output{Result: result}
	keep := map[string]bool{emitter.IndexName: true, emitter.FallbackName: true}

	pages := make(map[string]Page, len(result.Pages))
	for _, p := range result.Pages {
		pages[p.Key.String()] = p
	}

	entries := emitter.Entries(result.Keys())
	for _, entry := range entries {
		page := pages[entry.Key.String()]
		data, err := emitter.Module(entry, filepath.Base(page.SourcePath), page.Tree)
		if err != nil {
			return nil, err
		}
		name := emitter.FileName(entry.Key)
		path := filepath.Join(c.opts.OutputDir, name)
		existed := c.storage.HasFile(path)
		if err := c.storage.SaveFile(path, data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWrite, err)
		}
		keep[name] = true
		out.Modules = append(out.Modules, Written{
			Key:        entry.Key,
			SourcePath: page.SourcePath,
			OutputPath: path,
			Hash:       common.ContentHash(data),
		})
		c.logger.Debug("wrote module", "key", entry.Key.String(), "path", path, "replaced", existed)
	}

	index, err := emitter.Index(entries)
	if err != nil {
		return nil, err
	}
	if err := c.storage.SaveFile(filepath.Join(c.opts.OutputDir, emitter.IndexName), index); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	fallback, err := emitter.Fallback(c.opts.Defaults)
	if err != nil {
		return nil, err
	}
	if err := c.storage.SaveFile(filepath.Join(c.opts.OutputDir, emitter.FallbackName), fallback); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	if c.opts.Prune {
		pruned, err := c.storage.Prune(c.opts.OutputDir, emitter.ModuleExt, emitter.GeneratedMarker, keep)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWrite, err)
		}
		for _, p := range pruned {
			c.logger.Info("removed stale module", "path", p)
		}
		out.Pruned = pruned
	}

	return out, nil
}

// Changed counts modules whose hash differs from previous, keyed by page key.
// Modules absent from previous count as changed.
func Changed(previous map[string]string, modules []Written) int {
	n := 0
	for _, m := range modules {
		if previous[m.Key.String()] != m.Hash {
			n++
		}
	}
	return n
}
