// Package models defines data structures for configuration and content identity.
package models

import (
	"errors"
	"fmt"
)

const (
	DefaultContentDir = "content"
	DefaultOutputDir  = "src/content/generated"
	DefaultEnvFile    = ".env.local"
	DefaultLedgerPath = ".contentc/ledger.db"
	DefaultBrand      = "Academy"
)

// CompileConfig holds runtime configuration for a compile run.
// All values come from CLI flags, not external config files.
type CompileConfig struct {
	ContentDir    string
	OutputDir     string
	EnvFile       string
	LedgerPath    string // empty disables the run ledger
	Brand         string
	Prune         bool
	CheckLanguage bool
}

// Validate reports configuration errors that make a run impossible.
func (c *CompileConfig) Validate() error {
	if c.ContentDir == "" {
		return errors.New("content directory must not be empty")
	}
	if c.OutputDir == "" {
		return errors.New("output directory must not be empty")
	}
	if c.ContentDir == c.OutputDir {
		return fmt.Errorf("content and output directory must differ (both %q)", c.ContentDir)
	}
	if c.Brand == "" {
		c.Brand = DefaultBrand
	}
	return nil
}
