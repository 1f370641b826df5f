package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/applyforge/applyforge/internal/agents"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Extract a structured candidate profile from resume or LinkedIn text",
	RunE:  runProfile,
}

var (
	profileInputFile string
	profileOutFile   string
)

func init() {
	profileCmd.Flags().StringVarP(&profileInputFile, "in", "i", "", "Path to the source text file (required)")
	profileCmd.Flags().StringVarP(&profileOutFile, "out", "o", "", "Write the profile JSON to this file instead of stdout")

	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	source, err := readInput(profileInputFile, "in")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	handles, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer handles.Close()

	outcome := handles.Agents.ExtractProfile(ctx, agents.ProfilerInput{SourceText: source})
	if !outcome.OK {
		return fmt.Errorf("profile extraction failed: %s", outcome.Message)
	}

	jsonBytes, err := json.MarshalIndent(outcome.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if profileOutFile != "" {
		if err := os.WriteFile(profileOutFile, jsonBytes, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Profile written to %s\n", profileOutFile)
	} else {
		fmt.Println(string(jsonBytes))
	}

	if verbose {
		handles.Printer.PrintProfile(&outcome.Data)
	}
	handles.PrintUsage()
	return nil
}
