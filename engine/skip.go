package engine

import (
	"strings"

	"tangled.sh/tangled.sh/beautytips/models"
)

// SkipList holds the qualified ids of actions forced to be skipped.
type SkipList map[string]struct{}

// ParseSkipList reads a comma or newline separated list of "source/id"
// entries. Blank entries are ignored.
func ParseSkipList(s string) SkipList {
	skip := make(SkipList)
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
		if f = strings.TrimSpace(f); f != "" {
			skip[f] = struct{}{}
		}
	}
	return skip
}

func (s SkipList) Contains(id models.QualifiedId) bool {
	_, ok := s[id.String()]
	return ok
}
