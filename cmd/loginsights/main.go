// cmd/loginsights/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"loginsights/internal/config"
	"loginsights/internal/docker"
	"loginsights/internal/metrics"
	"loginsights/internal/monitor"
	"loginsights/internal/ollama"
	"loginsights/internal/report"
	"loginsights/internal/validate"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "loginsights",
	Short:         "Container log summarization via a local LLM",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the monitoring loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMonitor()
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run a one-shot health audit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMonitor() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Tee the process log to a file so the validator can scan it.
	if cfg.ProcessLog != "" {
		f, err := os.OpenFile(cfg.ProcessLog, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open process log: %w", err)
		}
		defer f.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := ollama.NewClient(cfg.OllamaHost)

	prober := &monitor.Prober{Backend: backend}
	if err := prober.WaitReady(ctx, cfg.ReadyAttempts, cfg.ReadyDelay()); err != nil {
		return err
	}

	provisioner := &monitor.Provisioner{Backend: backend, Settle: cfg.PullSettle()}
	model, err := provisioner.Ensure(ctx, cfg.ModelChain())
	if err != nil {
		return err
	}

	writer, err := report.NewWriter(cfg.ReportDir)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	set := metrics.New(reg)
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, reg); err != nil {
				log.Printf("Metrics server failed: %v", err)
			}
		}()
	}

	var runner monitor.Runner
	if cfg.AnalysisCommand != "" {
		runner = &monitor.CommandRunner{
			Command:    cfg.AnalysisCommand,
			Model:      model,
			OllamaHost: cfg.OllamaHost,
			MaxEntries: cfg.MaxLogEntries,
			Timeout:    cfg.AnalysisTimeout(),
		}
	} else {
		runner = &monitor.OllamaRunner{
			Backend: backend,
			Model:   model,
			Timeout: cfg.AnalysisTimeout(),
		}
	}

	loop := &monitor.Loop{
		Targets:    cfg.Containers,
		Interval:   cfg.Interval(),
		MaxEntries: cfg.MaxLogEntries,
		Model:      model,
		Runtime:    &docker.CLI{},
		Runner:     runner,
		Writer:     writer,
		Metrics:    set,
	}
	return loop.Run(ctx)
}

func runValidate() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	validator := &validate.Validator{
		Targets:          cfg.Containers,
		BackendContainer: cfg.BackendContainer,
		Model:            cfg.Model,
		ReportDir:        cfg.ReportDir,
		Interval:         cfg.Interval(),
		SocketPath:       docker.DefaultSocket,
		ProcessLog:       cfg.ProcessLog,
		Backend:          ollama.NewClient(cfg.OllamaHost),
		Runtime:          &docker.CLI{},
	}

	audit := validator.Audit(ctx)
	fmt.Print(audit.Summary())

	if audit.Failed > 0 {
		return fmt.Errorf("%d check(s) failed", audit.Failed)
	}
	return nil
}
