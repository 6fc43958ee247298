package models

import "fmt"

type ResultKind int

const (
	ResultOk ResultKind = iota
	ResultSkipped
	ResultNotApplicable
	ResultWarn
	ResultError
)

func (k ResultKind) String() string {
	switch k {
	case ResultOk:
		return "ok"
	case ResultSkipped:
		return "skipped"
	case ResultNotApplicable:
		return "not_applicable"
	case ResultWarn:
		return "warn"
	case ResultError:
		return "error"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// ActionResult is the terminal outcome of one action. Stdout and Stderr
// are only meaningful for ResultOk and ResultWarn, Message only for
// ResultError.
type ActionResult struct {
	Kind    ResultKind
	Stdout  []byte
	Stderr  []byte
	Message string
}

func Ok(stdout, stderr []byte) ActionResult {
	return ActionResult{Kind: ResultOk, Stdout: stdout, Stderr: stderr}
}

func Warn(stdout, stderr []byte) ActionResult {
	return ActionResult{Kind: ResultWarn, Stdout: stdout, Stderr: stderr}
}

func Skipped() ActionResult {
	return ActionResult{Kind: ResultSkipped}
}

func NotApplicable() ActionResult {
	return ActionResult{Kind: ResultNotApplicable}
}

func Errored(message string) ActionResult {
	return ActionResult{Kind: ResultError, Message: message}
}

// Failed reports whether the result should make the overall run fail.
func (r ActionResult) Failed() bool {
	return r.Kind == ResultWarn || r.Kind == ResultError
}

type UpdateKind int

const (
	UpdateStarted UpdateKind = iota
	UpdateDone
)

type ActionUpdate struct {
	Kind     UpdateKind
	ActionId string
	// only set for UpdateDone
	Result ActionResult
}

func Started(actionId string) ActionUpdate {
	return ActionUpdate{Kind: UpdateStarted, ActionId: actionId}
}

func Done(actionId string, result ActionResult) ActionUpdate {
	return ActionUpdate{Kind: UpdateDone, ActionId: actionId, Result: result}
}
