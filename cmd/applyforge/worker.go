package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/applyforge/applyforge/internal/pipeline"
	"github.com/applyforge/applyforge/internal/queue"
	"github.com/applyforge/applyforge/internal/routing"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the queue worker that processes pipeline steps",
	Long:  "Run the worker that consumes pipeline tasks from the redis queue, with an optional Prometheus /metrics endpoint. Blocks until stopped.",
	RunE:  runWorker,
}

var workerConcurrency int

func init() {
	workerCmd.Flags().IntVar(&workerConcurrency, "concurrency", 0, "Concurrent task handlers (overrides config)")

	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if cfg.RedisAddr == "" {
		return fmt.Errorf("worker requires REDIS_ADDR or redis_addr in the config")
	}

	handles, err := buildRuntime(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer handles.Close()

	if cfg.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		handles.Agents.Usage = routing.MultiRecorder(
			handles.Usage,
			routing.NewPromRecorder(registry),
		)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				fmt.Printf("[worker] metrics server stopped: %v\n", err)
			}
		}()
		fmt.Printf("[worker] metrics on %s/metrics\n", cfg.MetricsAddr)
	}

	processor := &pipeline.Processor{Agents: handles.Agents, LogWriter: os.Stdout}
	if handles.DB != nil {
		processor.Store = handles.DB
	}

	concurrency := workerConcurrency
	if concurrency == 0 {
		concurrency = cfg.Concurrency
	}

	fmt.Printf("[worker] consuming %s tasks from %s\n", queue.TypeGTMPipeline, cfg.RedisAddr)
	return queue.RunWorker(queue.WorkerConfig{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		Concurrency:   concurrency,
	}, processor)
}
