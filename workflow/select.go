package workflow

import (
	"errors"
	"fmt"

	"tangled.sh/tangled.sh/beautytips/models"
)

var ErrUnknownAction = errors.New("no such action")

// Select picks the actions named by selectors, keeping the order of
// actions. A selector is either "source/id" or a bare id matching that id
// in every source. No selectors selects everything.
func Select(actions []*models.ActionDefinition, selectors []string) ([]*models.ActionDefinition, error) {
	if len(selectors) == 0 {
		return actions, nil
	}

	picked := make(map[*models.ActionDefinition]struct{})
	for _, s := range selectors {
		qid, err := models.ParseQualifiedId(s)
		if err != nil {
			return nil, err
		}

		found := false
		for _, a := range actions {
			if a.Id == qid.Id && (qid.Source == "" || a.Source == qid.Source) {
				picked[a] = struct{}{}
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAction, qid)
		}
	}

	var out []*models.ActionDefinition
	for _, a := range actions {
		if _, ok := picked[a]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}
