package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obmakesomething/redpen"
)

var (
	bareunKey   string
	ocrFallback bool
	withSpacing bool
	snapshotDir string
)

var checkCmd = &cobra.Command{
	Use:   "check <input.pdf> [output.pdf]",
	Short: "Check a PDF and write an annotated copy",
	Long: `Check runs the full pipeline on one document: extract the text,
normalize it, send it to the checker chain, and write a copy of the PDF
with every finding highlighted.

Examples:
  # Annotate report.pdf into report_checked.pdf
  redpen check report.pdf

  # Choose the output path
  redpen check report.pdf out.pdf

  # Use the Bareun API first, fall back to the public checkers
  redpen check --bareun-key $BAREUN_API_KEY report.pdf

  # Retry with OCR when the document has no text layer
  redpen check --ocr report.pdf
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&bareunKey, "bareun-key", "", "Bareun API key (enables the Bareun checker)")
	checkCmd.Flags().BoolVar(&ocrFallback, "ocr", false, "Retry extraction with OCR when too little text is found")
	checkCmd.Flags().BoolVar(&withSpacing, "spacing", false, "Include word-spacing suggestions in the output")
	checkCmd.Flags().StringVar(&snapshotDir, "snapshots", "", "Directory for per-run analysis snapshots")
}

func runCheck(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := defaultOutputPath(input)
	if len(args) == 2 {
		output = args[1]
	}

	pipe := redpen.Open(input)
	if bareunKey != "" {
		pipe = pipe.WithBareun(bareunKey)
	}
	if ocrFallback {
		pipe = pipe.WithOCRFallback()
	}
	if withSpacing {
		pipe = pipe.WithSpacingSuggestions()
	}
	if snapshotDir != "" {
		pipe = pipe.WithSnapshots(snapshotDir)
	}

	report, warnings, err := pipe.Annotate(context.Background(), output)
	if err != nil {
		return fmt.Errorf("checking %s: %w", input, err)
	}

	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d errors found, %d highlighted, written to %s\n",
		input, len(report.Annotations), report.Highlighted, output)
	for _, a := range report.Annotations {
		fmt.Fprintf(cmd.OutOrStdout(), "  p.%d [%s] %s → %s\n",
			a.Page, a.Category, a.Wrong, a.Correct)
	}
	return nil
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_checked" + ext
}
