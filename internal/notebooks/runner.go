// Package notebooks executes every notebook in a tree and reports which ones
// failed.
package notebooks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout = 600 * time.Second
	DefaultKernel  = "python3"
)

// Executor runs one notebook and writes the executed copy to out.
type Executor interface {
	Execute(ctx context.Context, nb, out string) error
}

// NBConvert executes notebooks with `jupyter nbconvert --execute`.
type NBConvert struct {
	Jupyter string
	Kernel  string
	// CellTimeout bounds each cell, as nbclient does.
	CellTimeout time.Duration
}

func (c NBConvert) Execute(ctx context.Context, nb, out string) error {
	jupyter := c.Jupyter
	if jupyter == "" {
		jupyter = "jupyter"
	}
	kernel := c.Kernel
	if kernel == "" {
		kernel = DefaultKernel
	}
	timeout := c.CellTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cmd := exec.CommandContext(ctx, jupyter, "nbconvert",
		"--to", "notebook",
		"--execute",
		fmt.Sprintf("--ExecutePreprocessor.timeout=%d", int(timeout.Seconds())),
		"--ExecutePreprocessor.kernel_name="+kernel,
		"--output-dir", filepath.Dir(out),
		"--output", strings.TrimSuffix(filepath.Base(out), notebookExt),
		nb,
	)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w\n%s", err, strings.TrimSpace(output.String()))
	}
	return nil
}

// Result is the outcome of one notebook.
type Result struct {
	Path string
	Err  error
}

// Report collects results of one run.
type Report struct {
	Results []Result
}

func (r Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Runner executes notebooks one after another, printing progress to out.
type Runner struct {
	exec Executor
	out  io.Writer
}

func NewRunner(executor Executor, out io.Writer) *Runner {
	return &Runner{exec: executor, out: out}
}

// Run executes each notebook in order. A failing notebook never stops the
// run; only context cancellation does.
func (r *Runner) Run(ctx context.Context, paths []string) (Report, error) {
	var report Report
	for _, nb := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		fmt.Fprintf(r.out, "Running %s ...\n", nb)
		start := time.Now()
		err := r.exec.Execute(ctx, nb, OutputPath(nb))
		if err != nil {
			fmt.Fprintln(r.out, "  FAIL")
			log.Debug().Err(err).Str("notebook", nb).Dur("duration", time.Since(start)).Msg("Notebook failed")
		} else {
			fmt.Fprintln(r.out, "  OK")
			log.Debug().Str("notebook", nb).Dur("duration", time.Since(start)).Msg("Notebook executed")
		}
		report.Results = append(report.Results, Result{Path: nb, Err: err})
	}
	return report, nil
}

// WriteSummary prints totals and the error of every failed notebook.
func WriteSummary(out io.Writer, report Report) {
	failures := report.Failures()
	fmt.Fprintln(out, "\nSummary:")
	fmt.Fprintf(out, "  total: %d, failed: %d\n", len(report.Results), len(failures))
	for _, f := range failures {
		fmt.Fprintf(out, "\n--- %s ---\n%v\n", f.Path, f.Err)
	}
}
