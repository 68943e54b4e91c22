package hook

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/adaptiveflow/zbdiag/internal/errors"
	"github.com/adaptiveflow/zbdiag/internal/logger"
	"github.com/adaptiveflow/zbdiag/internal/report"
)

// Runner executes the analyzer binary and captures its report.
type Runner interface {
	Run(ctx context.Context) (string, error)
}

type execRunner struct {
	bin     string
	args    []string
	timeout time.Duration
}

func NewRunner(bin string, args []string, timeout time.Duration) Runner {
	return &execRunner{
		bin:     bin,
		args:    args,
		timeout: timeout,
	}
}

// Run executes the analyzer and returns its stdout. The report is returned
// even when the analyzer exits non-zero, since a partial report still carries
// usable console highlights.
func (r *execRunner) Run(ctx context.Context) (string, error) {
	errFactory := errors.New()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.bin, r.args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if stderr.Len() > 0 {
		logger.Warn().Msgf("Analyzer stderr:\n%s", stderr.String())
	}

	if ctx.Err() == context.DeadlineExceeded {
		return stdout.String(), errFactory.New(ErrAnalysisTimeout)
	}
	if err != nil {
		return stdout.String(), errFactory.Wrap(ErrAnalysisFailed, err)
	}

	return stdout.String(), nil
}

// Highlights extracts the report lines worth pushing to the printer console:
// the per-source assessment verdicts and the issue count.
func Highlights(out string) []string {
	var highlights []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, report.MarkerAssessment) || strings.Contains(line, report.MarkerIssues) {
			highlights = append(highlights, "AF: "+strings.TrimSpace(line))
		}
	}
	return highlights
}
