package engine

import "errors"

var (
	ErrSpawn       = errors.New("failed to start command")
	ErrNoCommand   = errors.New("no command defined")
	ErrWorkerPanic = errors.New("action worker panicked")
)
