// Package args turns an action's command template into the argument
// lists of its invocations.
package args

import (
	"context"
	"strings"

	"github.com/alessio/shellescape"
	"tangled.sh/tangled.sh/beautytips/inputs"
	"tangled.sh/tangled.sh/beautytips/models"
)

// Arg is one argv position. Positions with more than one value are
// iterated across invocations.
type Arg struct {
	values []string
	pos    int
}

func newArg(values ...string) Arg {
	if len(values) == 0 {
		panic("args: an argument needs at least one value")
	}
	return Arg{values: values}
}

func (a *Arg) current() string {
	return a.values[a.pos]
}

// increment moves to the next value and reports whether it wrapped.
func (a *Arg) increment() bool {
	a.pos++
	if a.pos >= len(a.values) {
		a.pos = 0
		return true
	}
	return false
}

// Schedule is the repeat schedule of one action: a mixed-radix odometer
// over its argv positions. A Schedule is not safe for concurrent use.
type Schedule struct {
	args []Arg
}

// Increment advances to the next combination, last position first, and
// reports whether the schedule is exhausted.
func (s *Schedule) Increment() bool {
	for i := len(s.args) - 1; i >= 0; i-- {
		if !s.args[i].increment() {
			return false
		}
	}
	return true
}

// Args returns the currently selected argument values.
func (s *Schedule) Args() []string {
	out := make([]string, 0, len(s.args))
	for i := range s.args {
		out = append(out, s.args[i].current())
	}
	return out
}

// Invocations is the number of combinations the schedule goes through.
func (s *Schedule) Invocations() int {
	n := 1
	for _, a := range s.args {
		n *= len(a.values)
	}
	return n
}

// String renders the current arguments for a shell.
func (s *Schedule) String() string {
	current := s.Args()
	for i, a := range current {
		current[i] = shellescape.Quote(a)
	}
	return strings.Join(current, " ")
}

// Expand resolves every placeholder in template against q. It returns
// nil without an error when a referenced input has nothing left after
// filtering, which means the action does not apply.
func Expand(ctx context.Context, q inputs.Querier, root string, filters models.InputFilters, template []string) (*Schedule, error) {
	e := expander{
		ctx:      ctx,
		q:        q,
		root:     root,
		filters:  filters,
		resolved: make(map[string][]string),
	}

	s := &Schedule{}
	for _, token := range template {
		args, err := e.token(token)
		if err != nil {
			return nil, err
		}
		if args == nil {
			return nil, nil
		}
		s.args = append(s.args, args...)
	}
	return s, nil
}

type expander struct {
	ctx      context.Context
	q        inputs.Querier
	root     string
	filters  models.InputFilters
	resolved map[string][]string
}

func (e *expander) paths(name string) ([]string, error) {
	if p, ok := e.resolved[name]; ok {
		return p, nil
	}
	p, err := inputs.Filtered(e.ctx, e.q, name, e.filters, e.root)
	if err != nil {
		return nil, err
	}
	e.resolved[name] = p
	return p, nil
}

// token expands a single template token. A nil result with a nil error
// means a referenced input came back empty.
func (e *expander) token(token string) ([]Arg, error) {
	parts := splitToken(token)

	if len(parts) == 1 {
		name, array, ok := placeholder(parts[0])
		if !ok {
			return []Arg{newArg(token)}, nil
		}

		paths, err := e.paths(name)
		if err != nil || len(paths) == 0 {
			return nil, err
		}
		if !array {
			return []Arg{newArg(paths...)}, nil
		}
		out := make([]Arg, 0, len(paths))
		for _, p := range paths {
			out = append(out, newArg(p))
		}
		return out, nil
	}

	// Composite tokens become a single position. Every scalar placeholder
	// multiplies the candidates, the rightmost one varying fastest.
	candidates := []string{""}
	for _, part := range parts {
		name, array, ok := placeholder(part)
		if !ok {
			for i := range candidates {
				candidates[i] += part
			}
			continue
		}

		paths, err := e.paths(name)
		if err != nil || len(paths) == 0 {
			return nil, err
		}

		quoted := make([]string, len(paths))
		for i, p := range paths {
			quoted[i] = shellescape.Quote(p)
		}

		if array {
			joined := strings.Join(quoted, " ")
			for i := range candidates {
				candidates[i] += joined
			}
			continue
		}

		next := make([]string, 0, len(candidates)*len(quoted))
		for _, c := range candidates {
			for _, q := range quoted {
				next = append(next, c+q)
			}
		}
		candidates = next
	}

	return []Arg{newArg(candidates...)}, nil
}
