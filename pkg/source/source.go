// Package source discovers page content files and derives their page keys.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dtnitsch/contentc/models"
)

// ErrNoContentDir is returned when the content directory is missing or not a directory.
var ErrNoContentDir = errors.New("content directory not found")

// Extensions lists the recognised source extensions, lower case.
var Extensions = []string{".yml", ".yaml"}

var languageSuffix = regexp.MustCompile(`^(.+)-([a-z]{2})$`)

// Discover lists the source files directly inside dir in lexical order.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoContentDir, dir)
		}
		return nil, fmt.Errorf("failed to stat content directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoContentDir, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsSource(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// IsSource reports whether name carries a recognised source extension.
func IsSource(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ParseFilename derives the page key from a file name such as "homepage-es.yml".
// A trailing "-xx" two-letter code is the language; otherwise the default applies.
func ParseFilename(name string) models.PageKey {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if m := languageSuffix.FindStringSubmatch(stem); m != nil {
		return models.PageKey{Page: m[1], Language: m[2]}
	}
	return models.PageKey{Page: stem, Language: models.DefaultLanguage}
}
