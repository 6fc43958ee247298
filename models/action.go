package models

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	validId = regexp.MustCompile(`^[a-z0-9_]+$`)

	ErrInvalidId = errors.New("invalid action id")
)

type OutputCondition int

const (
	OutputNever OutputCondition = iota
	OutputSuccess
	OutputFailure
	OutputAlways
)

func (c OutputCondition) String() string {
	switch c {
	case OutputNever:
		return "never"
	case OutputSuccess:
		return "success"
	case OutputFailure:
		return "failure"
	case OutputAlways:
		return "always"
	default:
		return fmt.Sprintf("OutputCondition(%d)", int(c))
	}
}

// ParseOutputCondition accepts the lowercase names used in action files.
// An empty string yields the default, OutputFailure.
func ParseOutputCondition(s string) (OutputCondition, error) {
	switch s {
	case "never":
		return OutputNever, nil
	case "success":
		return OutputSuccess, nil
	case "", "failure":
		return OutputFailure, nil
	case "always":
		return OutputAlways, nil
	default:
		return OutputFailure, fmt.Errorf("unknown output condition %q", s)
	}
}

type QualifiedId struct {
	Source string
	Id     string
}

func (q QualifiedId) String() string {
	if q.Source == "" {
		return q.Id
	}
	return q.Source + "/" + q.Id
}

// ParseQualifiedId parses "source/id" or a bare "id".
func ParseQualifiedId(s string) (QualifiedId, error) {
	source, id, found := strings.Cut(s, "/")
	if !found {
		source, id = "", s
	}

	if !validId.MatchString(id) {
		return QualifiedId{}, fmt.Errorf("%w: %q", ErrInvalidId, id)
	}
	if found && !validId.MatchString(source) {
		return QualifiedId{}, fmt.Errorf("%w: source %q", ErrInvalidId, source)
	}

	return QualifiedId{Source: source, Id: id}, nil
}

func ValidId(s string) bool {
	return validId.MatchString(s)
}

type EnvVar struct {
	Key   string
	Value string
}

// InputFilters maps an input name to the glob patterns its paths are
// matched against. A name without patterns passes every path through.
type InputFilters map[string][]string

// Names returns the filtered input names in sorted order.
func (f InputFilters) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type ActionDefinition struct {
	Id               string
	Source           string
	Description      string
	RunSequentially  bool
	Command          []string
	ExpectedExitCode int
	ShowOutput       OutputCondition
	InputFilters     InputFilters
	Environment      []EnvVar
}

func (a *ActionDefinition) QualifiedId() QualifiedId {
	return QualifiedId{Source: a.Source, Id: a.Id}
}

// Compare orders actions by id, then by source.
func Compare(a, b *ActionDefinition) int {
	if c := cmp.Compare(a.Id, b.Id); c != 0 {
		return c
	}
	return cmp.Compare(a.Source, b.Source)
}
