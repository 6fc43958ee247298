package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
)

func ListFilesCommand() *cli.Command {
	return &cli.Command{
		Name:      "list-files",
		Usage:     "print the input files actions would see",
		ArgsUsage: "[files...]",
		Action:    ListFiles,
		Flags:     append([]cli.Flag{debugFlag()}, inputFlags()...),
	}
}

func ListFiles(ctx context.Context, cmd *cli.Command) error {
	ctx, _, err := setup(ctx, cmd)
	if err != nil {
		return err
	}

	ectx, err := collectInputs(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to collect input files: %w", err)
	}

	w := stdout(cmd)
	for _, f := range ectx.FilesToProcess {
		fmt.Fprintln(w, f)
	}
	return nil
}

func ListActionsCommand() *cli.Command {
	return &cli.Command{
		Name:   "list-actions",
		Usage:  "print the configured actions",
		Action: ListActions,
		Flags:  append([]cli.Flag{debugFlag()}, configFlags()...),
	}
}

func ListActions(ctx context.Context, cmd *cli.Command) error {
	ctx, c, err := setup(ctx, cmd)
	if err != nil {
		return err
	}

	actions, err := loadActions(ctx, cmd, c)
	if err != nil {
		return err
	}

	width := 0
	for _, a := range actions {
		width = max(width, len(a.QualifiedId().String()))
	}

	w := stdout(cmd)
	r := lipgloss.NewRenderer(w)
	idStyle := r.NewStyle().Width(width + 2)
	muted := r.NewStyle().Foreground(lipgloss.Color("#888888"))

	for _, a := range actions {
		mode := "parallel"
		if a.RunSequentially {
			mode = "sequential"
		}
		fmt.Fprintf(w, "%s%s %s\n", idStyle.Render(a.QualifiedId().String()), a.Description, muted.Render("("+mode+")"))
	}
	return nil
}
