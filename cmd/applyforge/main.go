// Package main provides the ApplyForge command line interface: one-shot
// agent invocations plus the queue-backed GTM pipeline worker.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "applyforge",
	Short: "Model-backed job application toolkit",
	Long:  "ApplyForge tailors resumes, writes cover letters, scores job matches, and runs the go-to-market content pipeline through schema-validated model calls.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
