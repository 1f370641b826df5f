package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/applyforge/applyforge/internal/agents"
)

var roastCmd = &cobra.Command{
	Use:   "roast",
	Short: "Get a brutally honest resume critique",
	RunE:  runRoast,
}

var (
	roastResumeFile string
	roastTargetRole string
)

func init() {
	roastCmd.Flags().StringVar(&roastResumeFile, "resume", "", "Path to the resume text file (required)")
	roastCmd.Flags().StringVar(&roastTargetRole, "role", "", "Target role to critique against")

	rootCmd.AddCommand(roastCmd)
}

func runRoast(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	resume, err := readInput(roastResumeFile, "resume")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	handles, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer handles.Close()

	outcome := handles.Agents.RoastResume(ctx, agents.RoastInput{
		Resume:     resume,
		TargetRole: roastTargetRole,
	})
	if !outcome.OK {
		return fmt.Errorf("roast failed: %s", outcome.Message)
	}

	handles.Printer.PrintRoast(&outcome.Data)
	if outcome.Data.RewrittenBullet != "" {
		fmt.Printf("\nExample rewrite:\n%s\n", outcome.Data.RewrittenBullet)
	}
	handles.PrintUsage()
	return nil
}
