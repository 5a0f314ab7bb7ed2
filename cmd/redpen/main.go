package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "redpen",
	Short: "Korean spell and grammar checking for PDF documents",
	Long: `Redpen extracts text from PDF documents, runs it through Korean
spell and grammar checkers, and writes the findings back into the PDF as
highlight annotations with correction notes.

Use redpen to check a single file from the command line, or to run the
HTTP service that backs the upload form.`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
}
