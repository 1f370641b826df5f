package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/applyforge/applyforge/internal/agents"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score how well a candidate profile matches a job description",
	RunE:  runMatch,
}

var (
	matchJDFile      string
	matchJDURL       string
	matchProfileFile string
	matchSkills      []string
	matchBrowser     bool
)

func init() {
	matchCmd.Flags().StringVar(&matchJDFile, "jd", "", "Path to the job description text file")
	matchCmd.Flags().StringVar(&matchJDURL, "jd-url", "", "URL of the job posting (alternative to --jd)")
	matchCmd.Flags().StringVar(&matchProfileFile, "profile", "", "Path to the candidate profile summary file (required)")
	matchCmd.Flags().StringSliceVar(&matchSkills, "skills", nil, "Candidate skills, comma separated")
	matchCmd.Flags().BoolVar(&matchBrowser, "browser", false, "Allow headless-browser fallback when fetching --jd-url")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	profile, err := readInput(matchProfileFile, "profile")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	jd, err := loadJobDescription(ctx, matchJDFile, matchJDURL, matchBrowser || cfg.UseBrowser)
	if err != nil {
		return err
	}

	handles, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer handles.Close()

	outcome := handles.Agents.QualifyMatch(ctx, agents.QualifyInput{
		JobDescription: jd,
		ProfileSummary: profile,
		Skills:         matchSkills,
	})
	if !outcome.OK {
		return fmt.Errorf("match scoring failed: %s", outcome.Message)
	}

	handles.Printer.PrintMatchAssessment(&outcome.Data)
	handles.PrintUsage()
	return nil
}
