package history

import (
	"errors"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/dtnitsch/contentc/pkg/db"
	"github.com/urfave/cli/v2"
)

func openLedger(c *cli.Context) (*dbpkg.DB, error) {
	path := c.String("ledger")
	if path == "" {
		return nil, cli.Exit("run ledger disabled (--ledger is empty)", 2)
	}
	database, err := dbpkg.Open(path)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("failed to open ledger: %v", err), 1)
	}
	return database, nil
}

// GetRunIDOrLatest returns the run ID from args, or the latest run if not provided.
func GetRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		runID, err := database.LatestRunID()
		if errors.Is(err, dbpkg.ErrRunNotFound) {
			return 0, cli.Exit("no runs recorded. Run 'contentc build' first", 1)
		}
		return runID, err
	}

	var runID int64
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &runID); err != nil {
		return 0, cli.Exit(fmt.Sprintf("invalid run ID: %s", c.Args().First()), 2)
	}
	return runID, nil
}

// RunsAction lists recorded runs, newest first.
func RunsAction(c *cli.Context) error {
	database, err := openLedger(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	w := c.App.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-20s %-8s %-10s %-8s %-8s %-9s %s\n",
		"ID", "Started", "Took", "Generated", "Skipped", "Warnings", "Status", "Output Dir")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range runs {
		fmt.Fprintf(w, "%-6d %-20s %-8s %-10d %-8d %-8d %-9s %s\n",
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
			r.Generated,
			r.Skipped,
			r.Warnings,
			r.Status,
			r.OutputDir,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'contentc history run <id>' to see details\n")
	return nil
}

// RunAction shows the modules and warnings of one run.
func RunAction(c *cli.Context) error {
	database, err := openLedger(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRun(runID)
	if err != nil {
		if errors.Is(err, dbpkg.ErrRunNotFound) {
			return cli.Exit(err.Error(), 1)
		}
		return cli.Exit(fmt.Sprintf("failed to get run: %v", err), 1)
	}
	modules, err := database.GetRunModules(runID)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	warnings, err := database.GetRunWarnings(runID)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Run %d\n", run.RunID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Started:     %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Status:      %s\n", run.Status)
	fmt.Fprintf(w, "Content:     %s\n", run.ContentDir)
	fmt.Fprintf(w, "Output:      %s\n", run.OutputDir)
	fmt.Fprintf(w, "Modules:     %d generated, %d skipped, %d warnings\n", run.Generated, run.Skipped, run.Warnings)

	if len(modules) > 0 {
		fmt.Fprintf(w, "\nModules (%d):\n", len(modules))
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for i, m := range modules {
			fmt.Fprintf(w, "%2d. %s <- %s\n", i+1, m.PageKey, m.SourcePath)
			fmt.Fprintf(w, "    sha256: %s\n", m.ContentHash)
		}
	}

	if len(warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings (%d):\n", len(warnings))
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for i, warning := range warnings {
			fmt.Fprintf(w, "%2d. %s\n", i+1, warning.Message)
		}
	}

	return nil
}
