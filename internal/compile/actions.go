package compile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/contentc/internal/common"
	"github.com/dtnitsch/contentc/models"
	"github.com/dtnitsch/contentc/pkg/compiler"
	"github.com/dtnitsch/contentc/pkg/content"
	"github.com/dtnitsch/contentc/pkg/db"
	"github.com/dtnitsch/contentc/pkg/detector"
	"github.com/dtnitsch/contentc/pkg/envfile"
	"github.com/dtnitsch/contentc/pkg/storage"
	"github.com/urfave/cli/v2"
)

// ConfigFromContext builds the compile configuration from CLI flags.
func ConfigFromContext(c *cli.Context) (*models.CompileConfig, error) {
	config := &models.CompileConfig{
		ContentDir:    c.String("content-dir"),
		OutputDir:     c.String("output-dir"),
		EnvFile:       c.String("env-file"),
		LedgerPath:    c.String("ledger"),
		Brand:         c.String("brand"),
		Prune:         c.Bool("prune"),
		CheckLanguage: c.Bool("check-language"),
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadEnv returns the process environment with the override file layered on top.
// A missing override file is not an error.
func LoadEnv(envFile string, logger *slog.Logger) (map[string]string, error) {
	base := envfile.Environ(os.Environ())
	if envFile == "" {
		return base, nil
	}

	s := &storage.Storage{}
	data, found, err := s.ReadOptional(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
	}
	if !found {
		logger.Debug("no env override file", "path", envFile)
		return base, nil
	}

	merged, err := envfile.Merge(base, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file %s: %w", envFile, err)
	}
	logger.Debug("loaded env override file", "path", envFile, "vars", len(merged)-len(base))
	return merged, nil
}

// BuildAction compiles the content directory into the output directory and prints a summary line.
func BuildAction(c *cli.Context) error {
	logger, err := common.LoggerFromContext(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	startTime := time.Now()

	config, err := ConfigFromContext(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), 2)
	}

	env, err := LoadEnv(config.EnvFile, logger)
	if err != nil {
		logger.Error("failed to load environment", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	opts := compiler.Options{
		ContentDir: config.ContentDir,
		OutputDir:  config.OutputDir,
		Defaults:   content.NewDefaults(config.Brand),
		Env:        env,
		Prune:      config.Prune,
	}
	if config.CheckLanguage {
		opts.Language = detector.New()
	}

	out, err := compiler.New(opts, logger).Run()
	if err != nil {
		logger.Error("compile failed", "error", err)
		recordFailure(config, startTime, logger)
		return cli.Exit(err.Error(), 1)
	}

	changed := recordRun(config, startTime, out, logger)

	fmt.Fprintf(c.App.ErrWriter, "Generated %d content modules (%d skipped, %d warnings, %d changed)\n",
		len(out.Modules), len(out.Skipped), len(out.Warnings), changed)
	return nil
}

// ledgerKey is the output directory as stored in the ledger. Absolute so runs from
// different working directories compare against the same history.
func ledgerKey(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return filepath.Clean(dir)
}

// recordRun stores the run in the ledger and returns how many modules changed
// since the previous successful run. Without a ledger every module counts as changed.
func recordRun(config *models.CompileConfig, startTime time.Time, out *compiler.Output, logger *slog.Logger) int {
	if config.LedgerPath == "" {
		return len(out.Modules)
	}

	database, err := db.Open(config.LedgerPath)
	if err != nil {
		logger.Warn("run ledger unavailable", "path", config.LedgerPath, "error", err)
		return len(out.Modules)
	}
	defer database.Close()

	outputDir := ledgerKey(config.OutputDir)
	previous, err := database.LatestHashes(outputDir)
	if err != nil {
		logger.Warn("failed to read previous run", "error", err)
		previous = nil
	}

	modules := make([]db.Module, len(out.Modules))
	for i, m := range out.Modules {
		modules[i] = db.Module{
			PageKey:     m.Key.String(),
			SourcePath:  m.SourcePath,
			OutputPath:  m.OutputPath,
			ContentHash: m.Hash,
		}
	}

	warnings := make([]db.Warning, 0, len(out.Skipped)+len(out.Warnings))
	for _, s := range out.Skipped {
		warnings = append(warnings, db.Warning{File: s.Path, Message: "skipped: " + s.Reason})
	}
	for _, w := range out.Warnings {
		warnings = append(warnings, db.Warning{File: w.File, Message: w.String()})
	}

	runID, err := database.RecordRun(db.Run{
		StartedAt:  startTime,
		FinishedAt: time.Now(),
		ContentDir: config.ContentDir,
		OutputDir:  outputDir,
		Generated:  len(out.Modules),
		Skipped:    len(out.Skipped),
		Warnings:   len(out.Warnings),
		Status:     db.StatusSuccess,
	}, modules, warnings)
	if err != nil {
		logger.Warn("failed to record run", "error", err)
	} else {
		logger.Debug("recorded run", "run_id", runID, "ledger", database.Path())
	}

	return compiler.Changed(previous, out.Modules)
}

func recordFailure(config *models.CompileConfig, startTime time.Time, logger *slog.Logger) {
	if config.LedgerPath == "" {
		return
	}
	database, err := db.Open(config.LedgerPath)
	if err != nil {
		logger.Warn("run ledger unavailable", "path", config.LedgerPath, "error", err)
		return
	}
	defer database.Close()

	_, err = database.RecordRun(db.Run{
		StartedAt:  startTime,
		FinishedAt: time.Now(),
		ContentDir: config.ContentDir,
		OutputDir:  ledgerKey(config.OutputDir),
		Status:     db.StatusFailed,
	}, nil, nil)
	if err != nil {
		logger.Warn("failed to record run", "error", err)
	}
}
