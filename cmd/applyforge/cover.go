package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/applyforge/applyforge/internal/agents"
)

var coverCmd = &cobra.Command{
	Use:   "cover",
	Short: "Write a cover letter for a specific role",
	RunE:  runCover,
}

var (
	coverJDFile     string
	coverJDURL      string
	coverResumeFile string
	coverRole       string
	coverCompany    string
	coverTone       string
	coverOutFile    string
	coverBrowser    bool
)

func init() {
	coverCmd.Flags().StringVar(&coverJDFile, "jd", "", "Path to the job description text file")
	coverCmd.Flags().StringVar(&coverJDURL, "jd-url", "", "URL of the job posting (alternative to --jd)")
	coverCmd.Flags().StringVar(&coverResumeFile, "resume", "", "Path to the (ideally tailored) resume text file (required)")
	coverCmd.Flags().StringVar(&coverRole, "role", "", "Role title")
	coverCmd.Flags().StringVar(&coverCompany, "company", "", "Company name")
	coverCmd.Flags().StringVar(&coverTone, "tone", "", "Letter tone, e.g. professional, warm")
	coverCmd.Flags().StringVarP(&coverOutFile, "out", "o", "", "Write the letter to this file instead of stdout")
	coverCmd.Flags().BoolVar(&coverBrowser, "browser", false, "Allow headless-browser fallback when fetching --jd-url")

	rootCmd.AddCommand(coverCmd)
}

func runCover(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	resume, err := readInput(coverResumeFile, "resume")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	jd, err := loadJobDescription(ctx, coverJDFile, coverJDURL, coverBrowser || cfg.UseBrowser)
	if err != nil {
		return err
	}

	handles, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer handles.Close()

	outcome := handles.Agents.WriteCoverLetter(ctx, agents.ScribeInput{
		RoleTitle:      coverRole,
		CompanyName:    coverCompany,
		JobDescription: jd,
		TailoredResume: resume,
		Tone:           coverTone,
	})
	if !outcome.OK {
		return fmt.Errorf("cover letter failed: %s", outcome.Message)
	}

	letter := outcome.Data.CoverLetter
	if coverOutFile != "" {
		if err := os.WriteFile(coverOutFile, []byte(letter), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Cover letter written to %s (%d words)\n", coverOutFile, outcome.Data.WordCount)
	} else {
		fmt.Println(letter)
	}

	if outcome.Data.GenericOpener {
		fmt.Fprintln(os.Stderr, "Warning: the letter opens with a generic cliche; consider regenerating.")
	}
	handles.PrintUsage()
	return nil
}
