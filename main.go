package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dtnitsch/contentc/internal/compile"
	"github.com/dtnitsch/contentc/internal/history"
	"github.com/dtnitsch/contentc/internal/lookup"
	"github.com/dtnitsch/contentc/models"
	"github.com/dtnitsch/contentc/pkg/help"
	"github.com/urfave/cli/v2"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	err := newApp(stdout, stderr).Run(args)
	if err == nil {
		return 0
	}

	code := 1
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(stderr, "Error:", msg)
	}
	return code
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Only log errors",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log debug detail",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Value: "json",
			Usage: "Log format: json or text",
		},
	}
}

// sourceFlags are shared by every command that reads the content directory.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "content-dir",
			Value: models.DefaultContentDir,
			Usage: "Directory of page content files (*.yml, *.yaml)",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Value: models.DefaultEnvFile,
			Usage: "Environment override file merged over the process environment",
		},
		&cli.StringFlag{
			Name:  "brand",
			Value: models.DefaultBrand,
			Usage: "Brand suffix of synthesized page titles",
		},
	}
}

func ledgerFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "ledger",
		Value: models.DefaultLedgerPath,
		Usage: "SQLite run ledger path (empty disables)",
	}
}

func buildFlags() []cli.Flag {
	flags := sourceFlags()
	flags = append(flags,
		&cli.StringFlag{
			Name:  "output-dir",
			Value: models.DefaultOutputDir,
			Usage: "Directory for generated modules",
		},
		ledgerFlag(),
		&cli.BoolFlag{
			Name:  "prune",
			Value: true,
			Usage: "Remove stale generated modules from the output directory",
		},
		&cli.BoolFlag{
			Name:  "check-language",
			Usage: "Warn when page text reads as a different language than its file name",
		},
	)
	return append(flags, loggingFlags()...)
}

func lookupFlags() []cli.Flag {
	flags := sourceFlags()
	flags = append(flags,
		&cli.StringFlag{
			Name:  "page",
			Usage: "Page name, e.g. homepage",
		},
		&cli.StringFlag{
			Name:  "lang",
			Value: models.DefaultLanguage,
			Usage: "Two-letter language code",
		},
	)
	return append(flags, loggingFlags()...)
}

func usageError(_ *cli.Context, err error, _ bool) error {
	return cli.Exit(err.Error(), 2)
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:           "contentc",
		Usage:          "Compile YAML page content into typed TypeScript modules",
		Writer:         stdout,
		ErrWriter:      stderr,
		Flags:          buildFlags(),
		Action:         compile.BuildAction,
		OnUsageError:   usageError,
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:         "build",
				Usage:        "Compile the content directory (default command)",
				Flags:        buildFlags(),
				Action:       compile.BuildAction,
				OnUsageError: usageError,
			},
			{
				Name:         "lookup",
				Usage:        "Print the content served for a page and language",
				Flags:        lookupFlags(),
				Action:       lookup.LookupAction,
				OnUsageError: usageError,
			},
			{
				Name:  "quickstart",
				Usage: "Print a quick reference of layout, commands and defaults",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(c.App.Writer, help.QuickstartYAML)
					return err
				},
			},
			{
				Name:  "history",
				Usage: "Inspect recorded compile runs",
				Subcommands: []*cli.Command{
					{
						Name:  "runs",
						Usage: "List recent runs",
						Flags: []cli.Flag{
							ledgerFlag(),
							&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum runs to show (0 for all)"},
						},
						Action:       history.RunsAction,
						OnUsageError: usageError,
					},
					{
						Name:         "run",
						Usage:        "Show modules and warnings of a run (latest if no id)",
						ArgsUsage:    "[id]",
						Flags:        []cli.Flag{ledgerFlag()},
						Action:       history.RunAction,
						OnUsageError: usageError,
					},
				},
			},
		},
	}
}
