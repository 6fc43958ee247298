package engine

import (
	"context"
	"sync"
	"testing"

	"tangled.sh/tangled.sh/beautytips/models"
)

type spyExecutor struct {
	mu    sync.Mutex
	calls []Invocation
	fn    func(inv Invocation) (Output, error)
}

func (s *spyExecutor) Execute(_ context.Context, inv Invocation) (Output, error) {
	s.mu.Lock()
	s.calls = append(s.calls, inv)
	s.mu.Unlock()

	if s.fn == nil {
		return Output{}, nil
	}
	return s.fn(inv)
}

func (s *spyExecutor) invocations() []Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Invocation(nil), s.calls...)
}

type spyReporter struct {
	updates  []models.ActionUpdate
	finished int
}

func (s *spyReporter) ReportStart(id string) {
	s.updates = append(s.updates, models.Started(id))
}

func (s *spyReporter) ReportDone(id string, result models.ActionResult) {
	s.updates = append(s.updates, models.Done(id, result))
}

func (s *spyReporter) Finish() {
	s.finished++
}

func (s *spyReporter) results() map[string]models.ActionResult {
	out := make(map[string]models.ActionResult)
	for _, u := range s.updates {
		if u.Kind == models.UpdateDone {
			out[u.ActionId] = u.Result
		}
	}
	return out
}

func (s *spyReporter) index(kind models.UpdateKind, id string) int {
	for i, u := range s.updates {
		if u.Kind == kind && u.ActionId == id {
			return i
		}
	}
	return -1
}

const testRoot = "/tmp/51bb3d94"

func testContext(files ...string) models.ExecutionContext {
	return models.ExecutionContext{
		RootDirectory:    testRoot,
		ExtraEnvironment: map[string]string{models.EnvInput: string(models.InputFiles)},
		FilesToProcess:   files,
	}
}

func action(source, id string, command ...string) *models.ActionDefinition {
	return &models.ActionDefinition{
		Id:              id,
		Source:          source,
		Command:         command,
		RunSequentially: false,
		ShowOutput:      models.OutputAlways,
	}
}

func runActions(t *testing.T, ectx models.ExecutionContext, opts []Option, actions ...*models.ActionDefinition) (*spyReporter, error) {
	t.Helper()
	rep := &spyReporter{}
	err := NewScheduler(opts...).Run(context.Background(), ectx, actions, rep)
	return rep, err
}
