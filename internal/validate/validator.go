// internal/validate/validator.go
package validate

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"loginsights/internal/report"
)

// Check outcomes
type Status string

const (
	Pass Status = "PASS"
	Warn Status = "WARN"
	Fail Status = "FAIL"
)

// CheckResult is one labeled outcome in the audit
type CheckResult struct {
	Name   string
	Status Status
	Detail string
}

// Audit aggregates one validation run. It is never persisted.
type Audit struct {
	Results  []CheckResult
	Total    int
	Passed   int
	Warnings int
	Failed   int
}

func (a *Audit) add(name string, status Status, format string, args ...interface{}) {
	a.Results = append(a.Results, CheckResult{
		Name:   name,
		Status: status,
		Detail: fmt.Sprintf(format, args...),
	})
	a.Total++
	switch status {
	case Pass:
		a.Passed++
	case Warn:
		a.Warnings++
	case Fail:
		a.Failed++
	}
}

// Summary renders the flat scorecard
func (a *Audit) Summary() string {
	var b strings.Builder
	for _, r := range a.Results {
		fmt.Fprintf(&b, "[%s] %s: %s\n", r.Status, r.Name, r.Detail)
	}
	fmt.Fprintf(&b, "\nChecks: %d total, %d passed, %d warnings, %d failed\n",
		a.Total, a.Passed, a.Warnings, a.Failed)
	return b.String()
}

// Backend is the slice of the inference service the validator consumes
type Backend interface {
	Ping(ctx context.Context) error
	ListModels(ctx context.Context) ([]string, error)
}

// Runtime is the slice of the container runtime the validator consumes
type Runtime interface {
	Status(ctx context.Context, name string) (string, error)
}

// Validator inspects the report corpus and the live system state as an
// external oracle. It is read-only: every finding becomes a scored
// outcome and no check gates a later one.
type Validator struct {
	Targets          []string
	BackendContainer string
	Model            string
	ReportDir        string
	Interval         time.Duration
	SocketPath       string
	ProcessLog       string

	Backend Backend
	Runtime Runtime
	Now     func() time.Time
}

// sizeFloor is the minimum byte count for a report that carried a real
// analysis plus a log excerpt
const sizeFloor = 1000

// benignLogNoise is the readiness prober's own probe failures, which
// always appear in the process log during backend startup
const benignLogNoise = "connection refused"

var logTimestampRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
var logErrorRe = regexp.MustCompile(`(?i)error|exception|traceback`)

// Audit runs the whole check battery and returns the scorecard
func (v *Validator) Audit(ctx context.Context) *Audit {
	audit := &Audit{}

	v.checkContainers(ctx, audit)
	v.checkReportsExist(audit)
	v.checkFreshness(audit)
	for _, target := range v.Targets {
		v.checkCompleteness(audit, target)
	}
	v.checkBackend(ctx, audit)
	v.checkSocket(audit)
	v.checkProcessLog(audit)

	return audit
}

func (v *Validator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

func (v *Validator) checkContainers(ctx context.Context, audit *Audit) {
	expected := append([]string{}, v.Targets...)
	if v.BackendContainer != "" {
		expected = append(expected, v.BackendContainer)
	}

	for _, name := range expected {
		status, err := v.Runtime.Status(ctx, name)
		if err != nil {
			audit.add("container "+name, Fail, "status query failed: %v", err)
			continue
		}
		if status == "running" {
			audit.add("container "+name, Pass, "running")
		} else {
			audit.add("container "+name, Fail, "container is %s", status)
		}
	}
}

func (v *Validator) checkReportsExist(audit *Audit) {
	for _, target := range v.Targets {
		paths, err := report.List(v.ReportDir, target)
		if err != nil {
			audit.add("reports for "+target, Fail, "listing failed: %v", err)
			continue
		}
		if len(paths) == 0 {
			audit.add("reports for "+target, Fail, "no reports found")
			continue
		}
		audit.add("reports for "+target, Pass, "%d report(s)", len(paths))
	}
}

// checkFreshness scores the age of the newest report relative to the
// configured interval: fixed 180s/300s thresholds would spuriously fail
// deployments whose interval exceeds them.
func (v *Validator) checkFreshness(audit *Audit) {
	path, mtime, err := report.LatestAny(v.ReportDir)
	if err != nil {
		audit.add("report freshness", Fail, "lookup failed: %v", err)
		return
	}
	if path == "" {
		audit.add("report freshness", Fail, "no reports in %s", v.ReportDir)
		return
	}

	age := v.now().Sub(mtime)
	warnAfter := 3 * v.Interval
	failAfter := 5 * v.Interval

	switch {
	case age < warnAfter:
		audit.add("report freshness", Pass, "newest report is %s old", age.Round(time.Second))
	case age < failAfter:
		audit.add("report freshness", Warn, "newest report is %s old (warn after %s)", age.Round(time.Second), warnAfter)
	default:
		audit.add("report freshness", Fail, "newest report is %s old (fail after %s)", age.Round(time.Second), failAfter)
	}
}

func (v *Validator) checkCompleteness(audit *Audit, target string) {
	path, _, err := report.Latest(v.ReportDir, target)
	if err != nil || path == "" {
		audit.add("report content "+target, Fail, "no report to inspect")
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		audit.add("report content "+target, Fail, "read failed: %v", err)
		return
	}
	body := string(data)

	if strings.Contains(body, report.AnalysisMarker) {
		audit.add("analysis section "+target, Pass, "marker present")
	} else {
		audit.add("analysis section "+target, Fail, "marker missing")
	}

	if strings.Contains(body, report.LogsMarker) {
		audit.add("logs section "+target, Pass, "marker present")
	} else {
		audit.add("logs section "+target, Fail, "marker missing")
	}

	if len(data) >= sizeFloor {
		audit.add("report size "+target, Pass, "%d bytes", len(data))
	} else {
		audit.add("report size "+target, Warn, "only %d bytes (floor %d)", len(data), sizeFloor)
	}

	if strings.Contains(body, report.TimeoutMarker) {
		audit.add("analysis timeout "+target, Warn, "last run hit its timeout bound")
	} else {
		audit.add("analysis timeout "+target, Pass, "no timeout marker")
	}

	stamped := 0
	for _, line := range strings.Split(body, "\n") {
		if logTimestampRe.MatchString(line) {
			stamped++
		}
	}
	switch {
	case stamped > 10:
		audit.add("log excerpt "+target, Pass, "%d timestamped lines", stamped)
	case stamped >= 1:
		audit.add("log excerpt "+target, Warn, "only %d timestamped lines", stamped)
	default:
		audit.add("log excerpt "+target, Fail, "no timestamped log lines")
	}
}

func (v *Validator) checkBackend(ctx context.Context, audit *Audit) {
	if err := v.Backend.Ping(ctx); err != nil {
		audit.add("backend reachable", Fail, "%v", err)
	} else {
		audit.add("backend reachable", Pass, "status call answered")
	}

	names, err := v.Backend.ListModels(ctx)
	if err != nil {
		audit.add("model available", Fail, "list failed: %v", err)
		return
	}
	for _, n := range names {
		if n == v.Model || n == v.Model+":latest" {
			audit.add("model available", Pass, "%s present", v.Model)
			return
		}
	}
	audit.add("model available", Fail, "%s not in backend model list", v.Model)
}

func (v *Validator) checkSocket(audit *Audit) {
	info, err := os.Stat(v.SocketPath)
	if err != nil {
		audit.add("docker socket", Fail, "stat failed: %v", err)
		return
	}
	audit.add("docker socket", Pass, "reachable at %s", v.SocketPath)

	mode := info.Mode().Perm()
	if mode == 0660 || mode == 0666 {
		audit.add("docker socket mode", Pass, "%04o", mode)
	} else {
		audit.add("docker socket mode", Warn, "unexpected mode %04o", mode)
	}
}

// checkProcessLog scans the orchestrator's own log for error lines,
// ignoring the prober's benign startup noise. Findings only ever warn.
func (v *Validator) checkProcessLog(audit *Audit) {
	if v.ProcessLog == "" {
		return
	}

	data, err := os.ReadFile(v.ProcessLog)
	if err != nil {
		audit.add("process log", Warn, "unreadable: %v", err)
		return
	}

	suspicious := 0
	for _, line := range strings.Split(string(data), "\n") {
		if !logErrorRe.MatchString(line) {
			continue
		}
		if strings.Contains(line, benignLogNoise) {
			continue
		}
		suspicious++
	}

	if suspicious == 0 {
		audit.add("process log", Pass, "no error lines")
	} else {
		audit.add("process log", Warn, "%d error line(s)", suspicious)
	}
}
