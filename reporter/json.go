package reporter

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"tangled.sh/tangled.sh/beautytips/models"
)

type EventKind string

const (
	EventStarted  EventKind = "started"
	EventDone     EventKind = "done"
	EventFinished EventKind = "finished"
)

// Event is one line of JSON output.
type Event struct {
	Run     string    `json:"run"`
	Time    time.Time `json:"time"`
	Kind    EventKind `json:"kind"`
	Action  string    `json:"action,omitempty"`
	Result  string    `json:"result,omitempty"`
	Stdout  string    `json:"stdout,omitempty"`
	Stderr  string    `json:"stderr,omitempty"`
	Message string    `json:"message,omitempty"`

	// output that is not valid UTF-8 goes here instead, base64 encoded
	StdoutBase64 string `json:"stdout_base64,omitempty"`
	StderrBase64 string `json:"stderr_base64,omitempty"`

	// only set on EventFinished
	Failed *bool `json:"failed,omitempty"`
}

// JSON writes one object per update to a writer.
type JSON struct {
	Tally

	run     string
	now     func() time.Time
	encoder *json.Encoder

	errOnce sync.Once
	err     error
}

type JSONOption func(*JSON)

// WithRun sets the run id stamped on every event, so events can be matched
// with the engine's log lines. A random id is used otherwise.
func WithRun(id string) JSONOption {
	return func(j *JSON) {
		if id != "" {
			j.run = id
		}
	}
}

func NewJSON(w io.Writer, opts ...JSONOption) *JSON {
	j := &JSON{
		run:     uuid.NewString(),
		now:     time.Now,
		encoder: json.NewEncoder(w),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *JSON) ReportStart(actionId string) {
	j.encode(Event{Kind: EventStarted, Action: actionId})
}

func (j *JSON) ReportDone(actionId string, result models.ActionResult) {
	j.add(result.Kind)
	e := Event{
		Kind:    EventDone,
		Action:  actionId,
		Result:  result.Kind.String(),
		Message: result.Message,
	}
	e.Stdout, e.StdoutBase64 = encodeOutput(result.Stdout)
	e.Stderr, e.StderrBase64 = encodeOutput(result.Stderr)
	j.encode(e)
}

func encodeOutput(b []byte) (text, b64 string) {
	if utf8.Valid(b) {
		return string(b), ""
	}
	return "", base64.StdEncoding.EncodeToString(b)
}

func (j *JSON) Finish() {
	failed := j.Failed()
	j.encode(Event{Kind: EventFinished, Failed: &failed})
}

// Err returns the first error hit while writing.
func (j *JSON) Err() error {
	return j.err
}

func (j *JSON) encode(e Event) {
	e.Run = j.run
	e.Time = j.now().UTC()
	if err := j.encoder.Encode(e); err != nil {
		j.errOnce.Do(func() {
			j.err = err
		})
	}
}
