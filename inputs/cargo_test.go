package inputs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCargoPackages(t *testing.T) {
	top := t.TempDir()

	alphaManifest := writeFile(t, filepath.Join(top, "alpha", "Cargo.toml"), "[package]\nname = \"alpha\"\n")
	alphaLib := writeFile(t, filepath.Join(top, "alpha", "src", "lib.rs"), "")
	alphaMod := writeFile(t, filepath.Join(top, "alpha", "src", "nested", "mod.rs"), "")
	writeFile(t, filepath.Join(top, "beta", "Cargo.toml"), "[package]\nname = \"beta\"\n")
	betaMain := writeFile(t, filepath.Join(top, "beta", "src", "main.rs"), "")
	workspace := writeFile(t, filepath.Join(top, "Cargo.toml"), "[workspace]\nmembers = [\"alpha\", \"beta\"]\n")
	readme := writeFile(t, filepath.Join(top, "README.md"), "")
	stray := writeFile(t, filepath.Join(top, "scripts", "build.rs"), "")

	seed := Seed{
		Root:  top,
		Files: []string{readme, betaMain, alphaLib, alphaManifest, alphaMod, workspace, stray},
	}

	got, err := CargoPackages(context.Background(), seed)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, got)
}

func TestCargoPackagesNothingToDo(t *testing.T) {
	top := t.TempDir()
	readme := writeFile(t, filepath.Join(top, "README.md"), "")

	got, err := CargoPackages(context.Background(), Seed{Root: top, Files: []string{readme}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCargoPackagesThroughResolver(t *testing.T) {
	top := t.TempDir()
	writeFile(t, filepath.Join(top, "Cargo.toml"), "[package]\nname = \"single\"\n")
	main := writeFile(t, filepath.Join(top, "src", "main.rs"), "")

	r := NewResolver(context.Background(), top, []string{main})
	defer r.Shutdown()

	got, err := r.Query(context.Background(), CargoTargets)
	require.NoError(t, err)
	assert.Equal(t, []string{"single"}, got)
}
