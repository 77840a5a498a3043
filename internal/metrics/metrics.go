// internal/metrics/metrics.go
package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set holds the monitor loop counters
type Set struct {
	Ticks            prometheus.Counter
	ReportsWritten   prometheus.Counter
	SkippedTargets   prometheus.Counter
	AnalysisTimeouts prometheus.Counter
	WriteFailures    prometheus.Counter
}

// New registers the counter set on the given registry
func New(reg prometheus.Registerer) *Set {
	factory := promauto.With(reg)
	return &Set{
		Ticks: factory.NewCounter(prometheus.CounterOpts{
			Name: "loginsights_ticks_total",
			Help: "Completed monitor loop ticks.",
		}),
		ReportsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "loginsights_reports_written_total",
			Help: "Reports persisted to the artifact store.",
		}),
		SkippedTargets: factory.NewCounter(prometheus.CounterOpts{
			Name: "loginsights_skipped_targets_total",
			Help: "Targets skipped because they were not running.",
		}),
		AnalysisTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "loginsights_analysis_timeouts_total",
			Help: "Analysis runs that hit their wall-clock bound.",
		}),
		WriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "loginsights_report_write_failures_total",
			Help: "Reports lost to artifact store errors.",
		}),
	}
}

// Serve exposes /metrics on addr until ctx is cancelled
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("Metrics listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
