package args

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tangled.sh/tangled.sh/beautytips/inputs"
	"tangled.sh/tangled.sh/beautytips/models"
)

type mapQuerier map[string][]string

func (m mapQuerier) Query(_ context.Context, name string) ([]string, error) {
	if v, ok := m[name]; ok {
		return v, nil
	}
	return nil, inputs.ErrUnknownInput
}

// collect walks the whole schedule and returns the argument lists of every
// invocation.
func collect(s *Schedule) [][]string {
	var out [][]string
	for {
		out = append(out, s.Args())
		if s.Increment() {
			return out
		}
	}
}

func TestExpandLiteral(t *testing.T) {
	s, err := Expand(context.Background(), mapQuerier{}, "/root", nil, []string{"--check", "-v"})
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, [][]string{{"--check", "-v"}}, collect(s))
}

func TestExpandNoArguments(t *testing.T) {
	s, err := Expand(context.Background(), mapQuerier{}, "/root", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, 1, s.Invocations())
	assert.Equal(t, [][]string{{}}, collect(s))
}

func TestExpandArray(t *testing.T) {
	q := mapQuerier{"files": {"a.txt", "b.txt"}}

	s, err := Expand(context.Background(), q, "/root", nil, []string{"{{files...}}"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"a.txt", "b.txt"}}, collect(s))
}

func TestExpandScalar(t *testing.T) {
	q := mapQuerier{"files": {"a.txt", "b.txt"}}

	s, err := Expand(context.Background(), q, "/root", nil, []string{"--fix", "{{files}}"})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Invocations())
	assert.Equal(t, [][]string{{"--fix", "a.txt"}, {"--fix", "b.txt"}}, collect(s))
}

func TestExpandCartesian(t *testing.T) {
	q := mapQuerier{"one": {"1", "2"}, "two": {"x", "y"}}

	s, err := Expand(context.Background(), q, "/root", nil, []string{"{{one}}{{two}}"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"1x"}, {"1y"}, {"2x"}, {"2y"}}, collect(s))
}

func TestExpandOdometerLastPositionFirst(t *testing.T) {
	q := mapQuerier{"one": {"1", "2"}, "two": {"x", "y", "z"}}

	s, err := Expand(context.Background(), q, "/root", nil, []string{"{{one}}", "{{two}}"})
	require.NoError(t, err)

	assert.Equal(t, 6, s.Invocations())
	assert.Equal(t, [][]string{
		{"1", "x"}, {"1", "y"}, {"1", "z"},
		{"2", "x"}, {"2", "y"}, {"2", "z"},
	}, collect(s))
}

func TestExpandCompositeQuotes(t *testing.T) {
	q := mapQuerier{"files": {"plain.txt", "with space.txt"}}

	s, err := Expand(context.Background(), q, "/root", nil, []string{"--files={{files...}}"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"--files=plain.txt 'with space.txt'"}}, collect(s))

	s, err = Expand(context.Background(), q, "/root", nil, []string{"--file={{files}}"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"--file=plain.txt"}, {"--file='with space.txt'"}}, collect(s))
}

func TestExpandFilters(t *testing.T) {
	q := mapQuerier{"files": {"/root/a.rs", "/root/b.md", "/root/src/c.rs"}}
	filters := models.InputFilters{"files": {"**/*.rs"}}

	s, err := Expand(context.Background(), q, "/root", filters, []string{"{{files...}}"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"/root/a.rs", "/root/src/c.rs"}}, collect(s))
}

func TestExpandNotApplicable(t *testing.T) {
	q := mapQuerier{"files": {"/root/a.rs"}}
	filters := models.InputFilters{"files": {"*.ignoreme"}}

	for _, template := range [][]string{
		{"{{files}}"},
		{"{{files...}}"},
		{"--x={{files}}"},
		{"literal", "pre{{files...}}post"},
	} {
		s, err := Expand(context.Background(), q, "/root", filters, template)
		require.NoError(t, err)
		assert.Nil(t, s, "template %v", template)
	}
}

func TestExpandUnknownInput(t *testing.T) {
	_, err := Expand(context.Background(), mapQuerier{}, "/root", nil, []string{"{{foobar}}"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, inputs.ErrUnknownInput))
	assert.Contains(t, err.Error(), "foobar")
}

func TestExpandExtraBraceIsPartOfName(t *testing.T) {
	q := mapQuerier{"files": {"a.txt"}}

	_, err := Expand(context.Background(), q, "/root", nil, []string{"{{{files}}}"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, inputs.ErrUnknownInput))
	assert.Contains(t, err.Error(), "{files")
}

func TestScheduleString(t *testing.T) {
	q := mapQuerier{"files": {"a b.txt"}}

	s, err := Expand(context.Background(), q, "/root", nil, []string{"--check", "{{files}}"})
	require.NoError(t, err)
	assert.Equal(t, "--check 'a b.txt'", s.String())
}
