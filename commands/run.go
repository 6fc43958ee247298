package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"tangled.sh/tangled.sh/beautytips/engine"
	"tangled.sh/tangled.sh/beautytips/log"
	"tangled.sh/tangled.sh/beautytips/reporter"
	"tangled.sh/tangled.sh/beautytips/workflow"
)

func RunCommand() *cli.Command {
	flags := []cli.Flag{
		debugFlag(),
		&cli.StringSliceFlag{
			Name:    "actions",
			Aliases: []string{"a"},
			Usage:   "only run these actions (source/id or id), may be repeated",
		},
		&cli.StringFlag{
			Name:  "reporter",
			Usage: "how to report results (terminal, json)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "also report actions starting",
		},
	}
	flags = append(flags, configFlags()...)
	flags = append(flags, inputFlags()...)

	return &cli.Command{
		Name:      "run",
		Usage:     "run actions over the input files",
		ArgsUsage: "[files...]",
		Action:    Run,
		Flags:     flags,
	}
}

// resultReporter is a reporter that can tell whether anything failed.
type resultReporter interface {
	reporter.Reporter
	Failed() bool
}

func Run(ctx context.Context, cmd *cli.Command) error {
	ctx, c, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	l := log.FromContext(ctx)

	actions, err := loadActions(ctx, cmd, c)
	if err != nil {
		return err
	}
	actions, err = workflow.Select(actions, cmd.StringSlice("actions"))
	if err != nil {
		return err
	}

	ectx, err := collectInputs(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to collect input files: %w", err)
	}
	l.Debug("collected input files", "root", ectx.RootDirectory, "count", len(ectx.FilesToProcess))

	kind := c.Reporter
	if cmd.IsSet("reporter") {
		kind = cmd.String("reporter")
	}

	runId := uuid.NewString()

	var rep resultReporter
	switch kind {
	case "terminal":
		rep = reporter.NewTerminal(stdout(cmd), reporter.WithVerbose(cmd.Bool("verbose")))
	case "json":
		rep = reporter.NewJSON(stdout(cmd), reporter.WithRun(runId))
	default:
		return fmt.Errorf("unknown reporter %q, valid reporters are terminal and json", kind)
	}

	s := engine.NewScheduler(
		engine.WithSkipList(engine.ParseSkipList(c.Skip)),
		engine.WithEventBuffer(c.Engine.EventBuffer),
		engine.WithQueryBuffer(c.Engine.QueryBuffer),
		engine.WithConcurrency(c.Engine.Concurrency),
		engine.WithRunId(runId),
	)

	if err := s.Run(ctx, ectx, actions, rep); err != nil {
		return err
	}

	if rep.Failed() {
		return ErrActionsFailed
	}
	return nil
}
