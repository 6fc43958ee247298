package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"tangled.sh/tangled.sh/beautytips/models"
)

func TestConstructEnvs(t *testing.T) {
	tests := []struct {
		name  string
		extra map[string]string
		own   []models.EnvVar
		want  EnvVars
	}{
		{
			name: "empty input",
			want: nil,
		},
		{
			name:  "extra only",
			extra: map[string]string{"BEAUTYTIPS_INPUT": "files"},
			want:  EnvVars{"BEAUTYTIPS_INPUT=files"},
		},
		{
			name: "own only, sorted",
			own:  []models.EnvVar{{Key: "FOO", Value: "bar"}, {Key: "BAZ", Value: "qux"}},
			want: EnvVars{"BAZ=qux", "FOO=bar"},
		},
		{
			name:  "own entries win",
			extra: map[string]string{"BEAUTYTIPS_INPUT": "vcs", "BEAUTYTIPS_VCS": "git"},
			own:   []models.EnvVar{{Key: "BEAUTYTIPS_VCS", Value: "jj"}},
			want:  EnvVars{"BEAUTYTIPS_INPUT=vcs", "BEAUTYTIPS_VCS=jj"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConstructEnvs(tt.extra, tt.own))
		})
	}
}

func TestConstructEnvsLeavesExtraAlone(t *testing.T) {
	extra := map[string]string{"A": "1"}
	ConstructEnvs(extra, []models.EnvVar{{Key: "A", Value: "2"}})
	assert.Equal(t, map[string]string{"A": "1"}, extra)
}

func TestAddEnv(t *testing.T) {
	ev := EnvVars{}
	ev.AddEnv("FOO", "bar")
	ev.AddEnv("BAZ", "qux")

	assert.Equal(t, EnvVars{"FOO=bar", "BAZ=qux"}, ev)
}
