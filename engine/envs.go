package engine

import (
	"fmt"
	"maps"
	"slices"

	"tangled.sh/tangled.sh/beautytips/models"
)

type EnvVars []string

// ConstructEnvs merges the run's extra environment with an action's own
// environment into a sorted []string{"KEY=value", ...} slice. The action's
// entries win on conflicting keys.
func ConstructEnvs(extra map[string]string, own []models.EnvVar) EnvVars {
	merged := maps.Clone(extra)
	if merged == nil {
		merged = make(map[string]string, len(own))
	}
	for _, env := range own {
		merged[env.Key] = env.Value
	}

	var envs EnvVars
	for _, k := range slices.Sorted(maps.Keys(merged)) {
		envs.AddEnv(k, merged[k])
	}
	return envs
}

// Slice returns the EnvVars as a []string slice.
func (ev EnvVars) Slice() []string {
	return ev
}

// AddEnv adds a key=value string to the EnvVars.
func (ev *EnvVars) AddEnv(key, value string) {
	*ev = append(*ev, fmt.Sprintf("%s=%s", key, value))
}
