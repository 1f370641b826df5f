package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/applyforge/applyforge/internal/ingest"
	"github.com/applyforge/applyforge/internal/pipeline"
	"github.com/applyforge/applyforge/internal/queue"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline <step>",
	Short: "Run or enqueue one go-to-market pipeline step",
	Long:  "Run one pipeline step (content, strategy, report, find_recruiters, outreach) inline, or enqueue it onto the redis-backed work queue with --enqueue.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPipelineStep,
}

var (
	pipelineChannel     string
	pipelineVertical    string
	pipelinePayload     string
	pipelinePayloadFile string
	pipelineSourceURL   string
	pipelineEnqueue     bool
)

func init() {
	pipelineCmd.Flags().StringVar(&pipelineChannel, "channel", "", "Distribution channel, e.g. linkedin")
	pipelineCmd.Flags().StringVar(&pipelineVertical, "vertical", "", "Market vertical, e.g. fintech")
	pipelineCmd.Flags().StringVar(&pipelinePayload, "payload", "", "Step payload as inline JSON")
	pipelineCmd.Flags().StringVar(&pipelinePayloadFile, "payload-file", "", "Step payload from a JSON file")
	pipelineCmd.Flags().StringVar(&pipelineSourceURL, "source-url", "", "For find_recruiters: fetch this directory page as the source data")
	pipelineCmd.Flags().BoolVar(&pipelineEnqueue, "enqueue", false, "Enqueue the step instead of running it inline")

	rootCmd.AddCommand(pipelineCmd)
}

func buildTask(cmd *cobra.Command, step string, allowBrowser bool) (pipeline.Task, error) {
	task := pipeline.Task{
		Step:     step,
		Channel:  pipelineChannel,
		Vertical: pipelineVertical,
	}

	if pipelinePayload != "" && pipelinePayloadFile != "" {
		return task, fmt.Errorf("cannot use --payload with --payload-file")
	}
	raw := []byte(pipelinePayload)
	if pipelinePayloadFile != "" {
		data, err := os.ReadFile(pipelinePayloadFile)
		if err != nil {
			return task, fmt.Errorf("failed to read --payload-file: %w", err)
		}
		raw = data
	}
	if len(raw) > 0 {
		if !json.Valid(raw) {
			return task, fmt.Errorf("payload is not valid JSON")
		}
		task.Payload = raw
	}

	// A directory URL is sugar for a find_recruiters payload built from
	// the fetched page text.
	if pipelineSourceURL != "" {
		if step != pipeline.StepFindRecruiters {
			return task, fmt.Errorf("--source-url only applies to the %s step", pipeline.StepFindRecruiters)
		}
		if task.Payload != nil {
			return task, fmt.Errorf("cannot use --source-url with an explicit payload")
		}
		text, err := ingest.FetchText(cmd.Context(), pipelineSourceURL, ingest.DirectorySelectors(), allowBrowser)
		if err != nil {
			return task, fmt.Errorf("failed to fetch source page: %w", err)
		}
		payload, err := json.Marshal(pipeline.FindRecruitersPayload{SourceData: text})
		if err != nil {
			return task, fmt.Errorf("failed to encode payload: %w", err)
		}
		task.Payload = payload
	}

	return task, nil
}

func runPipelineStep(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	task, err := buildTask(cmd, args[0], cfg.UseBrowser)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if pipelineEnqueue {
		if cfg.RedisAddr == "" {
			return fmt.Errorf("enqueue requires REDIS_ADDR or redis_addr in the config")
		}
		client := queue.NewClient(cfg.RedisAddr, cfg.RedisPassword)
		defer func() { _ = client.Close() }()

		id, err := client.Enqueue(ctx, task)
		if err != nil {
			return err
		}
		fmt.Printf("Enqueued %s (task id %s)\n", task.Step, id)
		return nil
	}

	handles, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer handles.Close()

	processor := &pipeline.Processor{Agents: handles.Agents, LogWriter: os.Stdout}
	if handles.DB != nil {
		processor.Store = handles.DB
	}

	result := processor.Process(ctx, task)
	handles.Printer.PrintPipelineResult(task.Step, result)
	handles.PrintUsage()
	if !result.OK {
		return fmt.Errorf("step failed: %s", result.Message)
	}
	return nil
}
