package collect

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tangled.sh/tangled.sh/beautytips/models"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFiles(t *testing.T) {
	root := t.TempDir()
	readme := writeFile(t, root, "README.md", "")
	main := writeFile(t, root, "src/main.rs", "")
	outside := writeFile(t, t.TempDir(), "elsewhere.md", "")

	ectx, err := Files(context.Background(), root, []string{
		"src/main.rs",
		readme,
		"src",
		"missing.txt",
		outside,
		"src/../README.md",
	})
	require.NoError(t, err)

	assert.Equal(t, root, ectx.RootDirectory)
	assert.Equal(t, []string{readme, main}, ectx.FilesToProcess)
	assert.Equal(t, map[string]string{models.EnvInput: "files"}, ectx.ExtraEnvironment)
}

func TestDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "target/\n*.log\n")
	gitignore := filepath.Join(root, ".gitignore")
	readme := writeFile(t, root, "README.md", "")
	main := writeFile(t, root, "src/main.rs", "")
	writeFile(t, root, "src/.gitignore", "generated.rs\n")
	nested := filepath.Join(root, "src", ".gitignore")
	writeFile(t, root, "src/generated.rs", "")
	writeFile(t, root, "target/debug/app", "")
	writeFile(t, root, "build.log", "")
	writeFile(t, root, ".git/HEAD", "ref: refs/heads/main\n")

	ectx, err := Directory(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, root, ectx.RootDirectory)
	assert.Equal(t, []string{gitignore, readme, nested, main}, ectx.FilesToProcess)
	assert.Equal(t, "dir", ectx.ExtraEnvironment[models.EnvInput])
}

func commitAll(t *testing.T, repo *git.Repository, msg string) {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddGlob("."))
	_, err = wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestChanged(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)

	writeFile(t, root, "README.md", "hello")
	writeFile(t, root, "src/main.rs", "fn main() {}")
	writeFile(t, root, "src/old.rs", "")
	commitAll(t, repo, "initial")

	head, err := repo.Head()
	require.NoError(t, err)
	first := head.Hash().String()

	lib := writeFile(t, root, "src/lib.rs", "")
	require.NoError(t, os.Remove(filepath.Join(root, "src", "old.rs")))
	commitAll(t, repo, "second")

	main := writeFile(t, root, "src/main.rs", "fn main() { println!() }")
	untracked := writeFile(t, root, "notes.txt", "")

	t.Run("uncommitted", func(t *testing.T) {
		ectx, err := Changed(context.Background(), filepath.Join(root, "src"), Vcs{})
		require.NoError(t, err)

		assert.Equal(t, root, ectx.RootDirectory)
		assert.Equal(t, []string{untracked, main}, ectx.FilesToProcess)
		assert.Equal(t, map[string]string{
			models.EnvInput: "vcs",
			models.EnvVcs:   "git",
		}, ectx.ExtraEnvironment)
	})

	t.Run("between revisions", func(t *testing.T) {
		ectx, err := Changed(context.Background(), root, Vcs{Tool: "git", FromRevision: first, ToRevision: "HEAD"})
		require.NoError(t, err)

		assert.Equal(t, []string{lib}, ectx.FilesToProcess)
		assert.Equal(t, first, ectx.ExtraEnvironment[models.EnvVcsFromRev])
		assert.Equal(t, "HEAD", ectx.ExtraEnvironment[models.EnvVcsToRev])
	})

	t.Run("from revision to worktree", func(t *testing.T) {
		ectx, err := Changed(context.Background(), root, Vcs{FromRevision: first})
		require.NoError(t, err)

		assert.Equal(t, []string{untracked, lib, main}, ectx.FilesToProcess)
	})

	t.Run("unknown revision", func(t *testing.T) {
		_, err := Changed(context.Background(), root, Vcs{FromRevision: "does-not-exist"})
		assert.Error(t, err)
	})
}

func TestChangedUnsupportedTool(t *testing.T) {
	_, err := Changed(context.Background(), t.TempDir(), Vcs{Tool: "jj"})
	assert.ErrorIs(t, err, ErrUnsupportedVcs)
}

func TestChangedOutsideRepository(t *testing.T) {
	_, err := Changed(context.Background(), t.TempDir(), Vcs{})
	assert.Error(t, err)
}
