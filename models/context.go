package models

type InputKind string

const (
	InputVcs   InputKind = "vcs"
	InputFiles InputKind = "files"
	InputDir   InputKind = "dir"
)

// Environment variables injected into every action describing where the
// input files came from.
const (
	EnvInput      = "BEAUTYTIPS_INPUT"
	EnvVcs        = "BEAUTYTIPS_VCS"
	EnvVcsFromRev = "BEAUTYTIPS_VCS_FROM_REV"
	EnvVcsToRev   = "BEAUTYTIPS_VCS_TO_REV"
)

type ExecutionContext struct {
	RootDirectory    string
	ExtraEnvironment map[string]string
	FilesToProcess   []string
}
