package collect

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"tangled.sh/tangled.sh/beautytips/log"
	"tangled.sh/tangled.sh/beautytips/models"
)

var ErrUnsupportedVcs = errors.New("unsupported version control system")

// Vcs describes how to ask a version control system for changed files.
type Vcs struct {
	// Tool names the version control system. Empty means git.
	Tool string
	// FromRevision and ToRevision bound the changes. Without FromRevision
	// the uncommitted changes are used. Without ToRevision changes up to
	// HEAD plus uncommitted changes are used.
	FromRevision string
	ToRevision   string
}

// Changed uses the files changed according to the repository containing
// dir. The repository's top level directory becomes the root.
func Changed(ctx context.Context, dir string, vcs Vcs) (models.ExecutionContext, error) {
	tool := vcs.Tool
	if tool == "" {
		tool = "git"
	}
	if tool != "git" {
		return models.ExecutionContext{}, fmt.Errorf("%w: %q", ErrUnsupportedVcs, tool)
	}

	repo, err := Open(dir)
	if err != nil {
		return models.ExecutionContext{}, err
	}

	files, err := repo.ChangedFiles(ctx, vcs.FromRevision, vcs.ToRevision)
	if err != nil {
		return models.ExecutionContext{}, err
	}

	env := map[string]string{
		models.EnvInput: string(models.InputVcs),
		models.EnvVcs:   tool,
	}
	if vcs.FromRevision != "" {
		env[models.EnvVcsFromRev] = vcs.FromRevision
	}
	if vcs.ToRevision != "" {
		env[models.EnvVcsToRev] = vcs.ToRevision
	}

	return models.ExecutionContext{
		RootDirectory:    repo.Root(),
		ExtraEnvironment: env,
		FilesToProcess:   canonicalize(ctx, repo.Root(), files),
	}, nil
}

type GitRepo struct {
	root string
	r    *git.Repository
}

// Open finds the repository containing path.
func Open(path string) (*GitRepo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	r, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", abs, err)
	}

	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree of %s: %w", abs, err)
	}

	return &GitRepo{root: wt.Filesystem.Root(), r: r}, nil
}

func (g *GitRepo) Root() string {
	return g.root
}

// ChangedFiles lists paths, relative to the repository root, of files added
// or modified between from and to. Deleted files are left out.
func (g *GitRepo) ChangedFiles(ctx context.Context, from, to string) ([]string, error) {
	l := log.SubLogger(log.FromContext(ctx), "collect").With("root", g.root)

	var files []string

	if from != "" {
		toRev := to
		if toRev == "" {
			toRev = "HEAD"
		}
		l.Debug("diffing revisions", "from", from, "to", toRev)

		changed, err := g.diffTree(from, toRev)
		if err != nil {
			return nil, err
		}
		files = append(files, changed...)
	}

	if to == "" {
		changed, err := g.uncommitted()
		if err != nil {
			return nil, err
		}
		files = append(files, changed...)
	}

	return files, nil
}

func (g *GitRepo) commit(rev string) (*object.Commit, error) {
	hash, err := g.r.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving rev %s for %s: %w", rev, g.root, err)
	}
	return g.r.CommitObject(*hash)
}

func (g *GitRepo) diffTree(rev1, rev2 string) ([]string, error) {
	commit1, err := g.commit(rev1)
	if err != nil {
		return nil, err
	}
	commit2, err := g.commit(rev2)
	if err != nil {
		return nil, err
	}

	tree1, err := commit1.Tree()
	if err != nil {
		return nil, err
	}
	tree2, err := commit2.Tree()
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTree(tree1, tree2)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, c := range changes {
		if c.To.Name != "" {
			files = append(files, c.To.Name)
		}
	}
	return files, nil
}

func (g *GitRepo) uncommitted() ([]string, error) {
	wt, err := g.r.Worktree()
	if err != nil {
		return nil, err
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("getting status of %s: %w", g.root, err)
	}

	var files []string
	for path, s := range status {
		if s.Worktree == git.Deleted || (s.Staging == git.Deleted && s.Worktree == git.Unmodified) {
			continue
		}
		if s.Worktree != git.Unmodified || s.Staging != git.Unmodified {
			files = append(files, path)
		}
	}
	return files, nil
}
