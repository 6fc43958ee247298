package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"tangled.sh/tangled.sh/beautytips/args"
	"tangled.sh/tangled.sh/beautytips/inputs"
	"tangled.sh/tangled.sh/beautytips/models"
)

// Runner takes one action at a time from Started to Done.
type Runner struct {
	l        *slog.Logger
	executor Executor
	inputs   inputs.Querier
	ectx     models.ExecutionContext
	skip     SkipList
	updates  chan<- models.ActionUpdate
}

// Run reports Started and then exactly one Done for action. The returned
// error is fatal to the whole run; in that case no Done is reported.
func (r *Runner) Run(ctx context.Context, action *models.ActionDefinition) error {
	id := action.QualifiedId().String()
	l := r.l.With("action", id)

	if err := r.send(ctx, models.Started(id)); err != nil {
		return err
	}

	result, err := r.execute(ctx, l, action)
	if err != nil {
		l.Error("action failed fatally", "error", err)
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	result = applyVisibility(action.ShowOutput, result)
	l.Debug("action done", "result", result.Kind)

	return r.send(ctx, models.Done(id, result))
}

func (r *Runner) execute(ctx context.Context, l *slog.Logger, action *models.ActionDefinition) (models.ActionResult, error) {
	root := r.ectx.RootDirectory
	qid := action.QualifiedId()

	for _, name := range action.InputFilters.Names() {
		paths, err := inputs.Filtered(ctx, r.inputs, name, action.InputFilters, root)
		if err != nil || len(paths) == 0 {
			l.Debug("action not applicable", "input", name, "error", err)
			return models.NotApplicable(), nil
		}
	}

	if r.skip.Contains(qid) {
		l.Debug("skipping action")
		return models.Skipped(), nil
	}

	if len(action.Command) == 0 {
		l.Warn("action has no command")
		return models.Errored(fmt.Sprintf("%s in action '%s'", ErrNoCommand, qid)), nil
	}

	schedule, err := args.Expand(ctx, r.inputs, root, action.InputFilters, action.Command[1:])
	if err != nil {
		return models.Errored(fmt.Sprintf("Argument parsing failed: %v", err)), nil
	}
	if schedule == nil {
		l.Debug("action not applicable, an input is empty")
		return models.NotApplicable(), nil
	}

	var (
		stdout, stderr bytes.Buffer
		mismatch       bool
		program        = action.Command[0]
		env            = ConstructEnvs(r.ectx.ExtraEnvironment, action.Environment)
	)

	l.Debug("running action", "command", program, "invocations", schedule.Invocations())

	for {
		out, err := r.executor.Execute(ctx, Invocation{
			Program: program,
			Args:    schedule.Args(),
			Dir:     root,
			Env:     env,
		})
		if err != nil {
			return models.ActionResult{}, fmt.Errorf("action %s: %w", qid, err)
		}

		l.Debug("invocation finished", "args", schedule.String(), "exit", out.ExitCode)

		if out.ExitCode != action.ExpectedExitCode {
			mismatch = true
		}
		appendOutput(&stdout, out.Stdout)
		appendOutput(&stderr, out.Stderr)

		if schedule.Increment() {
			break
		}
	}

	if mismatch {
		return models.Warn(stdout.Bytes(), stderr.Bytes()), nil
	}
	return models.Ok(stdout.Bytes(), stderr.Bytes()), nil
}

func (r *Runner) send(ctx context.Context, u models.ActionUpdate) error {
	select {
	case r.updates <- u:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// appendOutput adds one invocation's output, terminated by a newline.
func appendOutput(buf *bytes.Buffer, b []byte) {
	buf.Write(b)
	if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
}

func applyVisibility(show models.OutputCondition, result models.ActionResult) models.ActionResult {
	var keep bool
	switch show {
	case models.OutputAlways:
		keep = true
	case models.OutputSuccess:
		keep = result.Kind == models.ResultOk
	case models.OutputFailure:
		keep = result.Kind == models.ResultWarn || result.Kind == models.ResultError
	}

	if !keep {
		result.Stdout = nil
		result.Stderr = nil
	}
	return result
}
