package lookup

import (
	"fmt"

	"github.com/dtnitsch/contentc/internal/common"
	"github.com/dtnitsch/contentc/internal/compile"
	"github.com/dtnitsch/contentc/models"
	"github.com/dtnitsch/contentc/pkg/compiler"
	"github.com/dtnitsch/contentc/pkg/content"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// LookupAction compiles the content directory in memory and prints the tree the web
// application would serve for --page and --lang: the exact entry, then the
// default-language entry, then the synthesized fallback.
func LookupAction(c *cli.Context) error {
	logger, err := common.LoggerFromContext(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	page := c.String("page")
	if page == "" {
		return cli.Exit("--page is required", 2)
	}
	lang := c.String("lang")
	if lang == "" {
		lang = models.DefaultLanguage
	}

	env, err := compile.LoadEnv(c.String("env-file"), logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	defaults := content.NewDefaults(c.String("brand"))
	result, err := compiler.New(compiler.Options{
		ContentDir: c.String("content-dir"),
		Defaults:   defaults,
		Env:        env,
	}, logger).Collect()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	tree, found := result.Index.Resolve(page, lang, defaults)
	origin := "fallback"
	if found {
		key := models.PageKey{Page: page, Language: lang}
		if _, exact := result.Index.Get(key.String()); exact {
			origin = key.String()
		} else {
			origin = key.Default().String()
		}
	}

	fmt.Fprintf(c.App.Writer, "# Source: %s\n", origin)
	enc := yaml.NewEncoder(c.App.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return cli.Exit(fmt.Sprintf("failed to encode content: %v", err), 1)
	}
	return enc.Close()
}
