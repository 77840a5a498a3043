// internal/report/report_test.go
package report

import (
	"os"
	"strings"
	"testing"
	"time"
)

func sampleRun() Run {
	return Run{
		Target:   "app",
		Start:    time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
		Stdout:   "Service looks healthy.",
		Timeout:  30 * time.Second,
		ExitCode: 0,
	}
}

func TestFormatSections(t *testing.T) {
	body := Format(sampleRun(), Header{Target: "app", ContainerStatus: "running", Model: "m1"},
		[]string{"2026-08-23T09:59:58Z line one", "2026-08-23T09:59:59Z line two"})

	analysisIdx := strings.Index(body, AnalysisMarker)
	logsIdx := strings.Index(body, LogsMarker)
	if analysisIdx < 0 {
		t.Fatal("missing analysis marker")
	}
	if logsIdx < 0 {
		t.Fatal("missing logs marker")
	}
	if analysisIdx > logsIdx {
		t.Error("analysis section must precede logs section")
	}
	if strings.Contains(body, TimeoutMarker) {
		t.Error("unexpected timeout marker in clean run")
	}
	if !strings.Contains(body, "Service looks healthy.") {
		t.Error("analysis text missing from body")
	}
	if !strings.Contains(body, "line two") {
		t.Error("log excerpt missing from body")
	}
}

func TestFormatTimeoutMarker(t *testing.T) {
	run := sampleRun()
	run.TimedOut = true
	run.Stdout = ""

	body := Format(run, Header{Target: "app", ContainerStatus: "running", Model: "m1"}, nil)

	if !strings.Contains(body, TimeoutMarker) {
		t.Error("timed-out run must carry the timeout marker")
	}
	if !strings.Contains(body, "Analysis produced no output.") {
		t.Error("empty stdout should be annotated")
	}
}

func TestFormatStderrSection(t *testing.T) {
	run := sampleRun()
	run.Stderr = "warning: model cold start"
	run.ExitCode = 1

	body := Format(run, Header{Target: "app"}, nil)
	if !strings.Contains(body, ErrorsMarker) {
		t.Error("stderr content must produce the errors section")
	}
	if !strings.Contains(body, "model cold start") {
		t.Error("stderr text missing from body")
	}
}

func TestFormatExcerptCap(t *testing.T) {
	lines := make([]string, 80)
	for i := range lines {
		lines[i] = "line"
	}
	lines[len(lines)-1] = "final line"

	body := Format(sampleRun(), Header{Target: "app"}, lines)
	excerpt := body[strings.Index(body, LogsMarker):]
	count := strings.Count(excerpt, "\n") - 1
	if count != ExcerptLines {
		t.Errorf("excerpt lines = %d, want %d", count, ExcerptLines)
	}
	if !strings.Contains(excerpt, "final line") {
		t.Error("excerpt must keep the most recent lines")
	}
}

func TestPersistUniqueNames(t *testing.T) {
	dir := t.TempDir()
	fixed := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	w := &Writer{Dir: dir, Now: func() time.Time { return fixed }}

	// Same target, same frozen clock: names must still not collide.
	p1, err := w.Persist(sampleRun(), Header{Target: "app"}, nil)
	if err != nil {
		t.Fatalf("first Persist: %v", err)
	}
	p2, err := w.Persist(sampleRun(), Header{Target: "app"}, nil)
	if err != nil {
		t.Fatalf("second Persist: %v", err)
	}
	if p1 == p2 {
		t.Fatalf("colliding report paths: %s", p1)
	}

	paths, err := List(dir, "app")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Errorf("report count = %d, want 2", len(paths))
	}
}

func TestPersistNameEncodesTarget(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatal(err)
	}

	path, err := w.Persist(sampleRun(), Header{Target: "app"}, nil)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if !strings.Contains(path, "summary_app_") {
		t.Errorf("path %q does not encode the target", path)
	}
	if !strings.HasSuffix(path, ".txt") {
		t.Errorf("path %q is not a .txt report", path)
	}
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	old := dir + "/summary_app_20260823_090000.000000000.txt"
	recent := dir + "/summary_app_20260823_100000.000000000.txt"
	if err := os.WriteFile(old, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(recent, []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}
	oldTime := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, oldTime, oldTime); err != nil {
		t.Fatal(err)
	}

	path, _, err := Latest(dir, "app")
	if err != nil {
		t.Fatal(err)
	}
	if path != recent {
		t.Errorf("Latest = %q, want %q", path, recent)
	}

	path, _, err = Latest(dir, "ghost")
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("Latest for unknown target = %q, want empty", path)
	}
}
