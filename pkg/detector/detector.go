// Package detector guesses the natural language of page text so that content
// filed under the wrong language suffix can be flagged.
package detector

import (
	"strings"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// MinRunes is the shortest text worth running detection on.
const MinRunes = 24

// Detector wraps a lingua language detector.
type Detector struct {
	lingua lingua.LanguageDetector
}

// New builds a detector over every language lingua knows. Models load lazily, so
// only languages that come up in practice cost memory.
func New() *Detector {
	d := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		WithMinimumRelativeDistance(0.1).
		WithLowAccuracyMode().
		Build()
	return &Detector{lingua: d}
}

// Detect returns the ISO 639-1 code (lower case) of the language of text.
// ok is false when the text is too short or no language is a clear winner.
func (d *Detector) Detect(text string) (code string, ok bool) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinRunes {
		return "", false
	}
	lang, found := d.lingua.DetectLanguageOf(text)
	if !found {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// Mismatch reports the detected language when it confidently differs from want.
func (d *Detector) Mismatch(want, text string) (string, bool) {
	got, ok := d.Detect(text)
	if !ok || got == want {
		return "", false
	}
	return got, true
}
