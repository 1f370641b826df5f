package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/applyforge/applyforge/internal/agents"
)

var pivotCmd = &cobra.Command{
	Use:   "pivot",
	Short: "Analyze a career pivot into a different field",
	Long:  "Analyze a career pivot: which existing skills bridge into the target field, how feasible the move is, and what stands in the way.",
	RunE:  runPivot,
}

var (
	pivotCurrentRole    string
	pivotTargetField    string
	pivotExperienceFile string
)

func init() {
	pivotCmd.Flags().StringVar(&pivotCurrentRole, "from", "", "Current role (required)")
	pivotCmd.Flags().StringVar(&pivotTargetField, "to", "", "Target field (required)")
	pivotCmd.Flags().StringVar(&pivotExperienceFile, "experience", "", "Path to an experience summary file (required)")

	rootCmd.AddCommand(pivotCmd)
}

func runPivot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	if pivotCurrentRole == "" || pivotTargetField == "" {
		return fmt.Errorf("--from and --to are required")
	}
	experience, err := readInput(pivotExperienceFile, "experience")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	handles, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer handles.Close()

	outcome := handles.Agents.AnalyzePivot(ctx, agents.PivotInput{
		CurrentRole: pivotCurrentRole,
		Experience:  experience,
		TargetField: pivotTargetField,
	})
	if !outcome.OK {
		return fmt.Errorf("pivot analysis failed: %s", outcome.Message)
	}

	handles.Printer.PrintPivot(&outcome.Data)
	handles.PrintUsage()
	return nil
}
