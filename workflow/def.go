package workflow

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// - an action file describes a set of actions sharing one source
// - actions run external tools against the collected input files
// - the file is either TOML or YAML, picked by its extension

type (
	// this is simply a structural representation of the action file
	ActionFile struct {
		Name    string   `yaml:"-" toml:"-"` // path of the action file
		Source  string   `yaml:"source" toml:"source"`
		Actions []Action `yaml:"actions" toml:"actions"`
	}

	Action struct {
		Name            string                `yaml:"name" toml:"name"`
		Description     string                `yaml:"description" toml:"description"`
		Command         string                `yaml:"command" toml:"command"`
		RunSequentially *bool                 `yaml:"run-sequentially" toml:"run-sequentially"` // defaults to true
		ExitCode        int                   `yaml:"exit-code" toml:"exit-code"`
		ShowOutput      string                `yaml:"show-output" toml:"show-output"`
		Inputs          map[string]StringList `yaml:"inputs" toml:"inputs"`
		Environment     map[string]string     `yaml:"environment" toml:"environment"`
	}

	StringList []string
)

var ErrUnknownFormat = errors.New("unknown action file format")

// ReadFile loads an action file from disk for Compiler.Parse.
func ReadFile(path string) (RawFile, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return RawFile{}, err
	}
	return RawFile{Name: filepath.Clean(path), Contents: contents}, nil
}

func FromFile(name string, contents []byte) (ActionFile, error) {
	var af ActionFile

	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		md, err := toml.Decode(string(contents), &af)
		if err != nil {
			return af, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return af, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	case ".yml", ".yaml":
		dec := yaml.NewDecoder(strings.NewReader(string(contents)))
		dec.KnownFields(true)
		if err := dec.Decode(&af); err != nil && !errors.Is(err, io.EOF) {
			return af, err
		}
	default:
		return af, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}

	af.Name = name
	if af.Source == "" {
		af.Source = stem(name)
	}

	return af, nil
}

func stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Custom unmarshaller for StringList
func (s *StringList) UnmarshalYAML(unmarshal func(any) error) error {
	var stringType string
	if err := unmarshal(&stringType); err == nil {
		*s = []string{stringType}
		return nil
	}

	var sliceType []any
	if err := unmarshal(&sliceType); err == nil {

		if sliceType == nil {
			*s = nil
			return nil
		}

		return s.fromSlice(sliceType)
	}

	return errors.New("failed to unmarshal StringOrSlice")
}

func (s *StringList) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		*s = []string{v}
		return nil
	case []any:
		return s.fromSlice(v)
	default:
		return fmt.Errorf("cannot unmarshal '%v' of type %T into a string list", data, data)
	}
}

func (s *StringList) fromSlice(values []any) error {
	parts := make([]string, len(values))
	for k, v := range values {
		if sv, ok := v.(string); ok {
			parts[k] = sv
		} else {
			return fmt.Errorf("cannot unmarshal '%v' of type %T into a string value", v, v)
		}
	}

	*s = parts
	return nil
}
