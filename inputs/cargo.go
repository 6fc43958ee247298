package inputs

import (
	"context"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

type cargoManifest struct {
	Package *struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

// CargoPackages maps every Rust source file or manifest among the seeded
// files to the package owning it. The result is deduplicated and sorted.
func CargoPackages(ctx context.Context, seed Seed) ([]string, error) {
	targets := make(map[string]struct{})
	for _, f := range seed.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if t, ok := cargoTarget(seed.Root, f); ok {
			targets[t] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(targets)), nil
}

func cargoTarget(top, path string) (string, bool) {
	name := filepath.Base(path)
	switch {
	case name == "Cargo.toml":
		return packageName(path)
	case strings.HasSuffix(name, ".rs"):
		return findPackage(top, filepath.Dir(path))
	default:
		return "", false
	}
}

// findPackage walks up from dir, never leaving top.
func findPackage(top, dir string) (string, bool) {
	for within(top, dir) {
		if name, ok := packageName(filepath.Join(dir, "Cargo.toml")); ok {
			return name, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

func packageName(manifest string) (string, bool) {
	var m cargoManifest
	if _, err := toml.DecodeFile(manifest, &m); err != nil {
		return "", false
	}
	if m.Package == nil || m.Package.Name == "" {
		return "", false
	}
	return m.Package.Name, true
}
