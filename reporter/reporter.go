// Package reporter presents the update stream of a run.
package reporter

import (
	"tangled.sh/tangled.sh/beautytips/models"
)

// Reporter consumes the updates of one run. Its methods are called from a
// single goroutine, and Finish is called exactly once, last.
type Reporter interface {
	ReportStart(actionId string)
	ReportDone(actionId string, result models.ActionResult)
	Finish()
}

// Drain feeds every update to r until updates is closed, then finishes r.
func Drain(updates <-chan models.ActionUpdate, r Reporter) {
	for u := range updates {
		switch u.Kind {
		case models.UpdateStarted:
			r.ReportStart(u.ActionId)
		case models.UpdateDone:
			r.ReportDone(u.ActionId, u.Result)
		}
	}
	r.Finish()
}

// Tally counts results by kind.
type Tally struct {
	counts [models.ResultError + 1]int
	total  int
}

func (t *Tally) add(kind models.ResultKind) {
	if kind >= 0 && int(kind) < len(t.counts) {
		t.counts[kind]++
	}
	t.total++
}

func (t *Tally) Count(kind models.ResultKind) int {
	if kind < 0 || int(kind) >= len(t.counts) {
		return 0
	}
	return t.counts[kind]
}

func (t *Tally) Total() int {
	return t.total
}

// Failed reports whether any action ended in a warning or an error.
func (t *Tally) Failed() bool {
	return t.counts[models.ResultWarn] > 0 || t.counts[models.ResultError] > 0
}
