package inputs

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"tangled.sh/tangled.sh/beautytips/log"
)

const (
	Files        = "files"
	TopDirectory = "top:directory"
	CargoTargets = "cargo_targets"
	SourceFiles  = "source_files"
)

// Seed is what generators get to look at: the seeded inputs.
type Seed struct {
	Root  string
	Files []string
}

type Generator func(ctx context.Context, seed Seed) ([]string, error)

var defaultGenerators = map[string]Generator{
	CargoTargets: CargoPackages,
	SourceFiles:  SourcePaths,
}

type Option func(*Resolver)

// WithGenerator registers (or replaces) the generator for name.
func WithGenerator(name string, g Generator) Option {
	return func(r *Resolver) {
		r.generators[name] = g
	}
}

func WithQueryBuffer(size int) Option {
	return func(r *Resolver) {
		if size >= 0 {
			r.queryBuffer = size
		}
	}
}

// withQueryHook is called by the actor after every handled query.
func withQueryHook(fn func(name string)) Option {
	return func(r *Resolver) {
		r.onQuery = fn
	}
}

type reply struct {
	paths []string
	err   error
}

type query struct {
	name  string
	reply chan reply
}

type completion struct {
	name string
	reply
}

// entry only ever moves from generating (cached == false) to cached.
type entry struct {
	cached  bool
	value   reply
	waiters []chan reply
}

// Resolver memoizes named input sets. A single goroutine owns the cache;
// everything else talks to it through Query. Generated inputs are
// computed at most once per run, and failures are cached like results.
type Resolver struct {
	l           *slog.Logger
	seed        Seed
	generators  map[string]Generator
	queryBuffer int
	onQuery     func(name string)

	queries chan query
	quit    chan struct{}
	done    chan struct{}
	stop    sync.Once
}

func NewResolver(ctx context.Context, root string, files []string, opts ...Option) *Resolver {
	r := &Resolver{
		l:           log.FromContext(ctx).With("component", "inputs"),
		seed:        Seed{Root: root, Files: slices.Clone(files)},
		generators:  maps.Clone(defaultGenerators),
		queryBuffer: 10,
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.queries = make(chan query, r.queryBuffer)

	go r.loop(context.WithoutCancel(ctx))

	return r
}

// Query returns the contents of the named input set. The returned slice
// belongs to the caller.
func (r *Resolver) Query(ctx context.Context, name string) ([]string, error) {
	q := query{name: name, reply: make(chan reply, 1)}

	select {
	case r.queries <- q:
	case <-r.done:
		return nil, ErrResolverClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case rep := <-q.reply:
		return slices.Clone(rep.paths), rep.err
	case <-r.done:
		select {
		case rep := <-q.reply:
			return slices.Clone(rep.paths), rep.err
		default:
			return nil, ErrResolverClosed
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops the resolver and waits until every generator it started
// has finished and all waiting callers got their answer.
func (r *Resolver) Shutdown() {
	r.stop.Do(func() {
		close(r.quit)
	})
	<-r.done
	r.l.Debug("input resolver finished")
}

func (r *Resolver) loop(ctx context.Context) {
	defer close(r.done)

	entries := map[string]*entry{
		Files:        {cached: true, value: reply{paths: r.seed.Files}},
		TopDirectory: {cached: true, value: reply{paths: []string{r.seed.Root}}},
	}
	completions := make(chan completion)
	generating := 0
	quit := r.quit

	for quit != nil || generating > 0 {
		select {
		case q := <-r.queries:
			if r.handleQuery(ctx, entries, completions, q) {
				generating++
			}
			if r.onQuery != nil {
				r.onQuery(q.name)
			}
		case c := <-completions:
			generating--
			r.handleCompletion(entries, c)
		case <-quit:
			r.l.Debug("shutting down input resolver", "generating", generating)
			quit = nil
		}
	}
}

// handleQuery reports whether a generator was started.
func (r *Resolver) handleQuery(ctx context.Context, entries map[string]*entry, completions chan<- completion, q query) bool {
	r.l.Debug("querying input", "input", q.name)

	if e, ok := entries[q.name]; ok {
		if e.cached {
			q.reply <- e.value
		} else {
			e.waiters = append(e.waiters, q.reply)
		}
		return false
	}

	gen, ok := r.generators[q.name]
	if !ok {
		q.reply <- reply{err: fmt.Errorf("%w: %q", ErrUnknownInput, q.name)}
		return false
	}

	entries[q.name] = &entry{waiters: []chan reply{q.reply}}

	r.l.Debug("starting generator", "input", q.name)
	go func(name string, seed Seed) {
		paths, err := runGenerator(ctx, gen, seed)
		if err != nil {
			err = &GeneratorError{Input: name, Err: err}
		}
		completions <- completion{name: name, reply: reply{paths: paths, err: err}}
	}(q.name, Seed{Root: r.seed.Root, Files: slices.Clone(r.seed.Files)})

	return true
}

func (r *Resolver) handleCompletion(entries map[string]*entry, c completion) {
	e, ok := entries[c.name]
	if !ok || e.cached {
		panic(fmt.Sprintf("inputs: completion for %q without a pending generator", c.name))
	}

	r.l.Debug("generator finished", "input", c.name, "count", len(c.paths), "error", c.err)

	e.cached = true
	e.value = c.reply
	for _, w := range e.waiters {
		w <- c.reply
	}
	e.waiters = nil
}

func runGenerator(ctx context.Context, gen Generator, seed Seed) (paths []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("generator panicked: %v", rec)
		}
	}()
	return gen(ctx, seed)
}
