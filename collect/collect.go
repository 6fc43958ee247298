// Package collect gathers the files a run looks at and describes where
// they came from.
package collect

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"tangled.sh/tangled.sh/beautytips/log"
	"tangled.sh/tangled.sh/beautytips/models"
)

// Files uses an explicit list of files. Relative paths are taken relative
// to root.
func Files(ctx context.Context, root string, files []string) (models.ExecutionContext, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return models.ExecutionContext{}, err
	}

	return models.ExecutionContext{
		RootDirectory:    root,
		ExtraEnvironment: map[string]string{models.EnvInput: string(models.InputFiles)},
		FilesToProcess:   canonicalize(ctx, root, files),
	}, nil
}

// Directory uses every file below dir that is not ignored by a .gitignore
// file. The .git directory is never entered.
func Directory(ctx context.Context, dir string) (models.ExecutionContext, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return models.ExecutionContext{}, err
	}

	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return models.ExecutionContext{}, err
	}
	matcher := gitignore.NewMatcher(patterns)

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")

		if d.IsDir() {
			if d.Name() == ".git" || matcher.Match(parts, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !matcher.Match(parts, false) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return models.ExecutionContext{}, err
	}

	return models.ExecutionContext{
		RootDirectory:    root,
		ExtraEnvironment: map[string]string{models.EnvInput: string(models.InputDir)},
		FilesToProcess:   canonicalize(ctx, root, files),
	}, nil
}

// canonicalize makes files absolute and drops everything that is not a
// regular file below root. The result is sorted and free of duplicates.
func canonicalize(ctx context.Context, root string, files []string) []string {
	l := log.FromContext(ctx)

	out := make([]string, 0, len(files))
	for _, f := range files {
		if !filepath.IsAbs(f) {
			f = filepath.Join(root, f)
		}
		f = filepath.Clean(f)

		rel, err := filepath.Rel(root, f)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			l.Debug("dropping file outside of root", "file", f, "root", root)
			continue
		}

		info, err := os.Stat(f)
		if err != nil || info.IsDir() {
			l.Debug("dropping non-file", "file", f)
			continue
		}

		out = append(out, f)
	}

	slices.Sort(out)
	return slices.Compact(out)
}
