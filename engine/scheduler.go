package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"tangled.sh/tangled.sh/beautytips/inputs"
	"tangled.sh/tangled.sh/beautytips/log"
	"tangled.sh/tangled.sh/beautytips/models"
	"tangled.sh/tangled.sh/beautytips/reporter"
)

type Option func(*Scheduler)

func WithExecutor(e Executor) Option {
	return func(s *Scheduler) {
		s.executor = e
	}
}

func WithSkipList(skip SkipList) Option {
	return func(s *Scheduler) {
		s.skip = skip
	}
}

// WithEventBuffer sets how many updates may queue up before actions wait
// for the reporter.
func WithEventBuffer(size int) Option {
	return func(s *Scheduler) {
		if size >= 0 {
			s.eventBuffer = size
		}
	}
}

func WithQueryBuffer(size int) Option {
	return func(s *Scheduler) {
		s.resolverOpts = append(s.resolverOpts, inputs.WithQueryBuffer(size))
	}
}

// WithConcurrency caps the number of parallel actions. Zero or less means
// no limit.
func WithConcurrency(n int) Option {
	return func(s *Scheduler) {
		s.concurrency = n
	}
}

// WithRunId names the run in log lines. A random id is used otherwise.
func WithRunId(id string) Option {
	return func(s *Scheduler) {
		s.runId = id
	}
}

func WithGenerator(name string, g inputs.Generator) Option {
	return func(s *Scheduler) {
		s.resolverOpts = append(s.resolverOpts, inputs.WithGenerator(name, g))
	}
}

// Scheduler runs a list of actions: first every parallel action
// concurrently, then the sequential ones in order.
type Scheduler struct {
	executor     Executor
	skip         SkipList
	eventBuffer  int
	concurrency  int
	runId        string
	resolverOpts []inputs.Option
}

func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		executor:    ProcessExecutor{},
		skip:        SkipList{},
		eventBuffer: 10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes actions against ectx and feeds every update to rep. rep's
// Finish is called exactly once, after the last update. A non-nil error
// means the run was aborted.
func (s *Scheduler) Run(ctx context.Context, ectx models.ExecutionContext, actions []*models.ActionDefinition, rep reporter.Reporter) error {
	runId := s.runId
	if runId == "" {
		runId = uuid.NewString()
	}
	l := log.FromContext(ctx).With("component", "engine", "run", runId)
	ctx = log.IntoContext(ctx, l)

	// actions may be changed by the caller once Run returns, but not before
	snapshot := slices.Clone(actions)

	resolver := inputs.NewResolver(ctx, ectx.RootDirectory, ectx.FilesToProcess, s.resolverOpts...)

	updates := make(chan models.ActionUpdate, s.eventBuffer)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		reporter.Drain(updates, rep)
	}()

	runner := &Runner{
		l:        l,
		executor: s.executor,
		inputs:   resolver,
		ectx:     ectx,
		skip:     s.skip,
		updates:  updates,
	}

	err := s.run(ctx, l, runner, snapshot)

	close(updates)
	<-drained
	resolver.Shutdown()

	if err != nil {
		l.Error("run aborted", "error", err)
	} else {
		l.Debug("run finished", "actions", len(snapshot))
	}
	return err
}

func (s *Scheduler) run(ctx context.Context, l *slog.Logger, runner *Runner, actions []*models.ActionDefinition) error {
	var parallel, sequential []*models.ActionDefinition
	for _, a := range actions {
		if a.RunSequentially {
			sequential = append(sequential, a)
		} else {
			parallel = append(parallel, a)
		}
	}

	l.Debug("entering parallel phase", "actions", len(parallel))

	g, gctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for _, a := range parallel {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return runGuarded(gctx, runner, a)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	l.Debug("entering sequential phase", "actions", len(sequential))

	for _, a := range sequential {
		if err := runGuarded(ctx, runner, a); err != nil {
			return err
		}
	}

	return nil
}

// runGuarded turns a panic inside an action's worker into a fatal error.
func runGuarded(ctx context.Context, runner *Runner, action *models.ActionDefinition) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: %v", ErrWorkerPanic, action.QualifiedId(), rec)
		}
	}()
	return runner.Run(ctx, action)
}
