package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/obmakesomething/redpen/server"
)

var (
	servePort        string
	serveBareunKey   string
	serveNoOCR       bool
	serveSnapshotDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP spell-check service",
	Long: `Serve starts the HTTP API: a health probe, a PDF upload endpoint
that returns the annotated document, and a survey endpoint.

The listen port comes from --port, then the PORT environment variable,
then 5000. Result mails use the GMAIL_SENDER_EMAIL and GMAIL_APP_PASSWORD
environment variables; without them sending is simulated and only logged.
`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Listen port (overrides PORT)")
	serveCmd.Flags().StringVar(&serveBareunKey, "bareun-key", "", "Bareun API key (enables the Bareun checker)")
	serveCmd.Flags().BoolVar(&serveNoOCR, "no-ocr", false, "Disable the OCR extraction fallback")
	serveCmd.Flags().StringVar(&serveSnapshotDir, "snapshots", "", "Directory for per-run analysis snapshots")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := server.DefaultConfig()
	if servePort != "" {
		config.Addr = ":" + servePort
	}
	if serveBareunKey == "" {
		serveBareunKey = os.Getenv("BAREUN_API_KEY")
	}
	config.BareunAPIKey = serveBareunKey
	config.OCRFallback = !serveNoOCR
	config.SnapshotDir = serveSnapshotDir

	return server.NewServer(config).Run()
}
