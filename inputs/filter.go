package inputs

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"tangled.sh/tangled.sh/beautytips/models"
)

type Querier interface {
	Query(ctx context.Context, name string) ([]string, error)
}

// Filter keeps the paths matching at least one of patterns. Patterns see
// the path relative to root with forward slashes, and `*` never crosses a
// separator. Paths outside of root are matched as they are.
func Filter(paths []string, patterns []string, root string) []string {
	if len(patterns) == 0 {
		return slices.Clone(paths)
	}

	var out []string
	for _, p := range paths {
		rel := relative(root, p)
		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Filtered queries name and applies the filters registered for it.
func Filtered(ctx context.Context, q Querier, name string, filters models.InputFilters, root string) ([]string, error) {
	paths, err := q.Query(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get inputs for %q: %w", name, err)
	}
	return Filter(paths, filters[name], root), nil
}

// ValidatePatterns reports the first malformed glob pattern.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

func relative(root, p string) string {
	if !filepath.IsAbs(p) {
		return filepath.ToSlash(p)
	}
	if !within(root, p) {
		return filepath.ToSlash(p)
	}
	rel, _ := filepath.Rel(root, p)
	return filepath.ToSlash(rel)
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
