package inputs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourcePaths(t *testing.T) {
	top := t.TempDir()

	main := writeFile(t, filepath.Join(top, "main.go"), "package main\n\nfunc main() {}\n")
	readme := writeFile(t, filepath.Join(top, "README.md"), "# hello\n")
	vendored := writeFile(t, filepath.Join(top, "vendor/github.com/x/y/y.go"), "package y\n")
	generated := writeFile(t, filepath.Join(top, "zz_generated.go"), "// Code generated by controller-gen. DO NOT EDIT.\n\npackage main\n")
	binary := writeFile(t, filepath.Join(top, "blob.dat"), string([]byte{0x00, 0x01, 0x02, 0x00}))

	got, err := SourcePaths(context.Background(), Seed{
		Root:  top,
		Files: []string{main, vendored, generated, readme, binary},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{main, readme}, got)
}

func TestSourcePathsMissingFile(t *testing.T) {
	top := t.TempDir()

	_, err := SourcePaths(context.Background(), Seed{
		Root:  top,
		Files: []string{filepath.Join(top, "gone.go")},
	})
	assert.Error(t, err)
}
