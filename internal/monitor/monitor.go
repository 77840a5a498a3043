// internal/monitor/monitor.go
package monitor

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"loginsights/internal/docker"
	"loginsights/internal/metrics"
	"loginsights/internal/report"
)

// Backend is the slice of the inference service the monitor consumes
type Backend interface {
	Ping(ctx context.Context) error
	HasModel(ctx context.Context, name string) (bool, error)
	Pull(ctx context.Context, name string) error
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Runtime is the slice of the container runtime the monitor consumes
type Runtime interface {
	Status(ctx context.Context, name string) (string, error)
	Logs(ctx context.Context, name string, tail int) ([]string, error)
}

// Loop is the top-level scheduler: one tick analyzes every live target
// sequentially, then it sleeps for the configured interval.
type Loop struct {
	Targets    []string
	Interval   time.Duration
	MaxEntries int
	Model      string

	Runtime Runtime
	Runner  Runner
	Writer  *report.Writer
	Metrics *metrics.Set
}

// Run executes ticks until the context is cancelled. The first tick
// starts immediately; cancellation interrupts the sleep but lets an
// in-flight analysis finish or hit its own timeout.
func (l *Loop) Run(ctx context.Context) error {
	log.Printf("Monitor starting: targets=%v model=%s interval=%s",
		l.Targets, l.Model, l.Interval)

	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	l.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Monitor shutting down")
			return nil
		case <-ticker.C:
			l.Tick(ctx)
		}
	}
}

// Tick processes every configured target once, in order
func (l *Loop) Tick(ctx context.Context) {
	start := time.Now()

	for _, target := range l.Targets {
		if ctx.Err() != nil {
			return
		}
		l.process(ctx, target)
	}

	l.Metrics.Ticks.Inc()
	if n := l.reportCount(); n >= 0 {
		log.Printf("Tick complete in %s, %d reports on disk", time.Since(start).Round(time.Millisecond), n)
	}
}

func (l *Loop) process(ctx context.Context, target string) {
	status, err := l.Runtime.Status(ctx, target)
	if err != nil {
		log.Printf("Status check for %s failed: %v", target, err)
		l.Metrics.SkippedTargets.Inc()
		return
	}
	if status != docker.StateRunning {
		log.Printf("Skipping %s: container is %s", target, status)
		l.Metrics.SkippedTargets.Inc()
		return
	}

	logLines, err := l.Runtime.Logs(ctx, target, l.MaxEntries)
	if err != nil {
		log.Printf("Log fetch for %s failed: %v", target, err)
		logLines = []string{"error fetching logs: " + err.Error()}
	}

	run := l.Runner.Run(ctx, target, logLines)
	if run.TimedOut {
		log.Printf("Analysis for %s timed out after %s", target, run.Timeout)
		l.Metrics.AnalysisTimeouts.Inc()
	}

	hdr := report.Header{Target: target, ContainerStatus: status, Model: l.Model}
	path, err := l.Writer.Persist(run, hdr, logLines)
	if err != nil {
		log.Printf("Report for %s lost this cycle: %v", target, err)
		l.Metrics.WriteFailures.Inc()
		return
	}

	log.Printf("Report saved: %s", path)
	l.Metrics.ReportsWritten.Inc()
}

func (l *Loop) reportCount() int {
	paths, err := filepath.Glob(filepath.Join(l.Writer.Dir, "summary_*.txt"))
	if err != nil {
		return -1
	}
	return len(paths)
}
