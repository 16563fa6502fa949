package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/aliuyar1234/studioinvite/internal/app"
	"github.com/aliuyar1234/studioinvite/internal/apperrors"
	"github.com/aliuyar1234/studioinvite/internal/config"
	"github.com/aliuyar1234/studioinvite/internal/notebooks"
)

func runNotebooks(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("notebooks", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var root, kernel, jupyter string
	var timeout = notebooks.DefaultTimeout
	fs.StringVar(&root, "root", ".", "Directory to search for notebooks")
	fs.StringVar(&kernel, "kernel", notebooks.DefaultKernel, "Jupyter kernel name")
	fs.StringVar(&jupyter, "jupyter", "jupyter", "Path to the jupyter executable")
	fs.DurationVar(&timeout, "timeout", notebooks.DefaultTimeout, "Per-cell execution timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return apperrors.ExitOK
		}
		return apperrors.ExitUsage
	}
	if timeout <= 0 {
		fmt.Fprintln(os.Stderr, "--timeout must be positive")
		return apperrors.ExitUsage
	}

	level, err := config.LoadLogLevel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return apperrors.ExitCode(err)
	}
	app.SetupLogger(level, os.Stderr)

	paths, err := notebooks.Discover(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to search %s: %v\n", root, err)
		return apperrors.ExitFailure
	}
	if len(paths) == 0 {
		fmt.Fprintf(stdout, "No notebooks found under %s\n", root)
		return apperrors.ExitOK
	}

	ctx, cancel := signalContext()
	defer cancel()

	exec := notebooks.NBConvert{Jupyter: jupyter, Kernel: kernel, CellTimeout: timeout}
	report, err := notebooks.NewRunner(exec, stdout).Run(ctx, paths)
	notebooks.WriteSummary(stdout, report)
	if err != nil {
		log.Warn().Err(err).Msg("Notebook run interrupted")
		return apperrors.ExitCode(err)
	}
	if len(report.Failures()) > 0 {
		return apperrors.ExitFailure
	}
	return apperrors.ExitOK
}
