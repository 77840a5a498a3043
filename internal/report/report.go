// internal/report/report.go
package report

import (
	"fmt"
	"strings"
	"time"
)

// Section marker lines. The validator greps for these literals, so they
// must never change shape.
const (
	AnalysisMarker = "=== ANALYSIS ==="
	LogsMarker     = "=== ORIGINAL LOGS (last 50 lines) ==="
	ErrorsMarker   = "=== ERRORS ==="
	TimeoutMarker  = "ANALYSIS TIMEOUT:"
)

// ExcerptLines is how many raw log lines the report keeps verbatim
const ExcerptLines = 50

// Run is one execution of the analysis against one target. It exists
// only in memory until persisted as a report.
type Run struct {
	Target   string
	Start    time.Time
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Timeout  time.Duration
}

// Header carries the report preamble fields
type Header struct {
	Target          string
	ContainerStatus string
	Model           string
}

// Format renders the two-section report body: the analysis section
// first, then the verbatim excerpt of the original logs.
func Format(run Run, hdr Header, logLines []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== LogInsights report for %s ===\n", hdr.Target)
	fmt.Fprintf(&b, "Timestamp: %s\n", run.Start.Format(time.RFC3339))
	fmt.Fprintf(&b, "Container status: %s\n", hdr.ContainerStatus)
	fmt.Fprintf(&b, "Model: %s\n", hdr.Model)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString(AnalysisMarker + "\n")
	analysis := strings.TrimSpace(run.Stdout)
	if analysis == "" {
		analysis = "Analysis produced no output."
	}
	b.WriteString(analysis + "\n\n")

	if stderr := strings.TrimSpace(run.Stderr); stderr != "" {
		b.WriteString(ErrorsMarker + "\n")
		b.WriteString(stderr + "\n\n")
	}

	if run.TimedOut {
		fmt.Fprintf(&b, "%s exceeded %s bound\n\n", TimeoutMarker, run.Timeout)
	}

	b.WriteString(LogsMarker + "\n")
	excerpt := logLines
	if len(excerpt) > ExcerptLines {
		excerpt = excerpt[len(excerpt)-ExcerptLines:]
	}
	for _, line := range excerpt {
		b.WriteString(line + "\n")
	}

	return b.String()
}
