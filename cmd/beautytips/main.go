package main

import (
	"context"
	"errors"
	"os"

	"tangled.sh/tangled.sh/beautytips/commands"
	"tangled.sh/tangled.sh/beautytips/log"
)

func main() {
	cmd := commands.Root()

	ctx := context.Background()
	logger := log.New("beautytips")
	ctx = log.IntoContext(ctx, logger.With("command", cmd.Name))

	if err := cmd.Run(ctx, os.Args); err != nil {
		if errors.Is(err, commands.ErrActionsFailed) {
			os.Exit(1)
		}
		logger.Error(err.Error())
		os.Exit(-1)
	}
}
