// Package commands holds the beautytips command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"tangled.sh/tangled.sh/beautytips/collect"
	"tangled.sh/tangled.sh/beautytips/config"
	"tangled.sh/tangled.sh/beautytips/log"
	"tangled.sh/tangled.sh/beautytips/models"
	"tangled.sh/tangled.sh/beautytips/workflow"
)

var ErrActionsFailed = errors.New("some actions failed")

func Root() *cli.Command {
	return &cli.Command{
		Name:  "beautytips",
		Usage: "run linters and formatters over changed files",
		Commands: []*cli.Command{
			RunCommand(),
			ListFilesCommand(),
			ListActionsCommand(),
		},
		Description: `
Environment variables:
	SKIP                               (comma or newline separated source/id list)
	BEAUTYTIPS_LOG_LEVEL               (default: warn)
	BEAUTYTIPS_CONFIG                  (default: beautytips.toml)
	BEAUTYTIPS_REPORTER                (terminal or json, default: terminal)
	BEAUTYTIPS_ENGINE_EVENT_BUFFER     (default: 10)
	BEAUTYTIPS_ENGINE_QUERY_BUFFER     (default: 10)
	BEAUTYTIPS_ENGINE_CONCURRENCY      (default: 0, unlimited)
`,
	}
}

func debugFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "debug",
		Usage: "log everything",
	}
}

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "from-vcs",
			Usage: "use the files changed in the version control system (default)",
		},
		&cli.StringFlag{
			Name:  "vcs",
			Usage: "version control system to ask",
			Value: "git",
		},
		&cli.StringFlag{
			Name:  "from-rev",
			Usage: "revision to look for changes from",
		},
		&cli.StringFlag{
			Name:  "to-rev",
			Usage: "revision to look for changes up to",
		},
		&cli.BoolFlag{
			Name:  "from-files",
			Usage: "use the files given as arguments",
		},
		&cli.StringFlag{
			Name:  "from-dir",
			Usage: "use every file in a directory",
		},
	}
}

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "action file to load, may be repeated",
		},
	}
}

// setup loads the configuration and puts a logger at the configured
// level into ctx.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, *config.Config, error) {
	c, err := config.Load(ctx)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := c.LogLevel
	if cmd.Bool("debug") {
		level = "debug"
	}
	if err := log.SetLevel(level); err != nil {
		return ctx, nil, fmt.Errorf("invalid log level: %w", err)
	}

	l := log.New("beautytips").With("command", cmd.Name)
	return log.IntoContext(ctx, l), c, nil
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func collectInputs(ctx context.Context, cmd *cli.Command) (models.ExecutionContext, error) {
	selected := 0
	for _, name := range []string{"from-vcs", "from-files", "from-dir"} {
		if cmd.IsSet(name) {
			selected++
		}
	}
	if selected > 1 {
		return models.ExecutionContext{}, errors.New("only one of --from-vcs, --from-files and --from-dir may be given")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return models.ExecutionContext{}, err
	}

	switch {
	case cmd.Bool("from-files"):
		return collect.Files(ctx, cwd, cmd.Args().Slice())
	case cmd.String("from-dir") != "":
		return collect.Directory(ctx, cmd.String("from-dir"))
	default:
		return collect.Changed(ctx, cwd, collect.Vcs{
			Tool:         cmd.String("vcs"),
			FromRevision: cmd.String("from-rev"),
			ToRevision:   cmd.String("to-rev"),
		})
	}
}

// loadActions reads and compiles every configured action file.
func loadActions(ctx context.Context, cmd *cli.Command, c *config.Config) ([]*models.ActionDefinition, error) {
	l := log.FromContext(ctx)

	paths := cmd.StringSlice("config")
	if len(paths) == 0 {
		paths = []string{c.ConfigPath}
	}

	executable, err := os.Executable()
	if err != nil {
		l.Warn("error getting path of executable", "error", err)
	}

	compiler := workflow.Compiler{Executable: executable}

	var raw []workflow.RawFile
	for _, p := range paths {
		f, err := workflow.ReadFile(p)
		if err != nil {
			compiler.Diagnostics.AddError(p, err)
			continue
		}
		raw = append(raw, f)
	}

	actions := compiler.Compile(compiler.Parse(raw))

	for _, w := range compiler.Diagnostics.Warnings {
		l.Warn(w.String())
	}
	if compiler.Diagnostics.IsErr() {
		return nil, compiler.Diagnostics.Err()
	}

	return actions, nil
}
