package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/applyforge/applyforge/internal/agents"
	"github.com/applyforge/applyforge/internal/ingest"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a resume to a job description",
	Long:  "Tailor a resume to a job description, reordering and rephrasing existing experience without inventing anything new.",
	RunE:  runTailor,
}

var (
	tailorResumeFile string
	tailorJDFile     string
	tailorJDURL      string
	tailorRole       string
	tailorCompany    string
	tailorOutFile    string
	tailorBrowser    bool
)

func init() {
	tailorCmd.Flags().StringVar(&tailorResumeFile, "resume", "", "Path to the resume text file (required)")
	tailorCmd.Flags().StringVar(&tailorJDFile, "jd", "", "Path to the job description text file")
	tailorCmd.Flags().StringVar(&tailorJDURL, "jd-url", "", "URL of the job posting (alternative to --jd)")
	tailorCmd.Flags().StringVar(&tailorRole, "role", "", "Role title")
	tailorCmd.Flags().StringVar(&tailorCompany, "company", "", "Company name")
	tailorCmd.Flags().StringVarP(&tailorOutFile, "out", "o", "", "Write the tailored resume to this file instead of stdout")
	tailorCmd.Flags().BoolVar(&tailorBrowser, "browser", false, "Allow headless-browser fallback when fetching --jd-url")

	rootCmd.AddCommand(tailorCmd)
}

// loadJobDescription reads the JD from a file or fetches it from a URL.
func loadJobDescription(ctx context.Context, file, url string, allowBrowser bool) (string, error) {
	if file != "" && url != "" {
		return "", fmt.Errorf("cannot use --jd with --jd-url")
	}
	if url != "" {
		text, err := ingest.FetchText(ctx, url, ingest.JobPostingSelectors(), allowBrowser)
		if err != nil {
			return "", fmt.Errorf("failed to fetch job posting: %w", err)
		}
		return text, nil
	}
	return readInput(file, "jd")
}

func runTailor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	resume, err := readInput(tailorResumeFile, "resume")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	jd, err := loadJobDescription(ctx, tailorJDFile, tailorJDURL, tailorBrowser || cfg.UseBrowser)
	if err != nil {
		return err
	}

	handles, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer handles.Close()

	outcome := handles.Agents.TailorResume(ctx, agents.TailorInput{
		RoleTitle:      tailorRole,
		CompanyName:    tailorCompany,
		JobDescription: jd,
		Resume:         resume,
	})
	if !outcome.OK {
		return fmt.Errorf("tailoring failed: %s", outcome.Message)
	}

	if tailorOutFile != "" {
		if err := os.WriteFile(tailorOutFile, []byte(outcome.Data.TailoredResume), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Tailored resume written to %s\n", tailorOutFile)
	} else {
		fmt.Println(outcome.Data.TailoredResume)
	}

	if verbose {
		fmt.Printf("\nKeywords used: %d\n", len(outcome.Data.KeywordsUsed))
		fmt.Printf("Changes: %s\n", outcome.Data.ChangeSummary)
	}
	handles.PrintUsage()
	return nil
}
