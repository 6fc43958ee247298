package workflow

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/anmitsu/go-shlex"
	"tangled.sh/tangled.sh/beautytips/inputs"
	"tangled.sh/tangled.sh/beautytips/models"
)

// ExecutablePlaceholder as argv[0] stands for the running beautytips binary.
const ExecutablePlaceholder = "{BEAUTY_TIPS}"

type RawFile struct {
	Name     string
	Contents []byte
}

type Compiler struct {
	// Executable replaces ExecutablePlaceholder in commands
	Executable  string
	Diagnostics Diagnostics
}

type Diagnostics struct {
	Errors   []Error
	Warnings []Warning
}

func (d *Diagnostics) IsEmpty() bool {
	return len(d.Errors) == 0 && len(d.Warnings) == 0
}

func (d *Diagnostics) AddWarning(path string, kind WarningKind, reason string) {
	d.Warnings = append(d.Warnings, Warning{path, kind, reason})
}

func (d *Diagnostics) AddError(path string, err error) {
	d.Errors = append(d.Errors, Error{path, err})
}

func (d Diagnostics) IsErr() bool {
	return len(d.Errors) != 0
}

// Err joins all errors, or returns nil when there are none.
func (d Diagnostics) Err() error {
	errs := make([]error, 0, len(d.Errors))
	for _, e := range d.Errors {
		errs = append(errs, errors.New(e.String()))
	}
	return errors.Join(errs...)
}

type Error struct {
	Path  string
	Error error
}

func (e Error) String() string {
	return fmt.Sprintf("error: %s: %s", e.Path, e.Error.Error())
}

type Warning struct {
	Path   string
	Type   WarningKind
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("warning: %s: %s: %s", w.Path, w.Type, w.Reason)
}

var (
	ErrDuplicateAction = errors.New("duplicate action")
	ErrInvalidCommand  = errors.New("invalid command")
)

type WarningKind string

var (
	MissingCommand       WarningKind = "missing command"
	InvalidConfiguration WarningKind = "invalid configuration"
)

func (compiler *Compiler) Parse(files []RawFile) []ActionFile {
	var afs []ActionFile

	for _, f := range files {
		af, err := FromFile(f.Name, f.Contents)
		if err != nil {
			compiler.Diagnostics.AddError(f.Name, err)
			continue
		}

		afs = append(afs, af)
	}

	return afs
}

// convert action files into definitions the engine accepts, ordered by id
// and source
func (compiler *Compiler) Compile(files []ActionFile) []*models.ActionDefinition {
	var defs []*models.ActionDefinition
	seen := make(map[models.QualifiedId]string)

	for _, af := range files {
		if !models.ValidId(af.Source) {
			compiler.Diagnostics.AddError(af.Name, fmt.Errorf("%w: source %q", models.ErrInvalidId, af.Source))
			continue
		}

		for i, a := range af.Actions {
			path := fmt.Sprintf("%s: actions[%d]", af.Name, i)

			def := compiler.compileAction(path, af.Source, a)
			if def == nil {
				continue
			}

			qid := def.QualifiedId()
			if first, ok := seen[qid]; ok {
				compiler.Diagnostics.AddError(path, fmt.Errorf("%w %q, first defined in %s", ErrDuplicateAction, qid, first))
				continue
			}
			seen[qid] = path

			defs = append(defs, def)
		}
	}

	slices.SortStableFunc(defs, models.Compare)

	return defs
}

func (compiler *Compiler) compileAction(path, source string, a Action) *models.ActionDefinition {
	if !models.ValidId(a.Name) {
		compiler.Diagnostics.AddError(path, fmt.Errorf("%w: %q", models.ErrInvalidId, a.Name))
		return nil
	}

	def := &models.ActionDefinition{
		Id:               a.Name,
		Source:           source,
		Description:      a.Description,
		RunSequentially:  a.RunSequentially == nil || *a.RunSequentially,
		ExpectedExitCode: a.ExitCode,
	}

	show, err := models.ParseOutputCondition(a.ShowOutput)
	if err != nil {
		compiler.Diagnostics.AddError(path, err)
		return nil
	}
	def.ShowOutput = show

	command, err := shlex.Split(a.Command, true)
	if err != nil {
		compiler.Diagnostics.AddError(path, fmt.Errorf("%w: %w", ErrInvalidCommand, err))
		return nil
	}
	if len(command) == 0 {
		compiler.Diagnostics.AddWarning(path, MissingCommand, fmt.Sprintf("action %q has nothing to run", def.QualifiedId()))
	} else if command[0] == ExecutablePlaceholder {
		if compiler.Executable == "" {
			compiler.Diagnostics.AddError(path, fmt.Errorf("%w: cannot resolve %s", ErrInvalidCommand, ExecutablePlaceholder))
			return nil
		}
		command[0] = compiler.Executable
	}
	def.Command = command

	if len(a.Inputs) > 0 {
		def.InputFilters = make(models.InputFilters, len(a.Inputs))
		for name, patterns := range a.Inputs {
			if err := inputs.ValidatePatterns(patterns); err != nil {
				compiler.Diagnostics.AddError(path, fmt.Errorf("inputs.%s: %w", name, err))
				return nil
			}
			def.InputFilters[name] = slices.Clone(patterns)
		}
	}

	for _, k := range slices.Sorted(maps.Keys(a.Environment)) {
		def.Environment = append(def.Environment, models.EnvVar{Key: k, Value: a.Environment[k]})
	}

	if a.ExitCode < 0 || a.ExitCode > 255 {
		compiler.Diagnostics.AddWarning(path, InvalidConfiguration, fmt.Sprintf("exit-code %d can never be returned by a process", a.ExitCode))
	}

	return def
}
