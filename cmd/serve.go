package cmd

import (
	"github.com/spf13/cobra"

	"github.com/insightdelivered/cc-statement-consolidator/internal/api"
	"github.com/insightdelivered/cc-statement-consolidator/internal/extractor"
	"github.com/insightdelivered/cc-statement-consolidator/internal/logger"
	"github.com/insightdelivered/cc-statement-consolidator/internal/parser"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the consolidation API over HTTP",
	Long: `Start an HTTP server with the following endpoints:

  GET  /api/health       - health check
  POST /api/inspect      - extract one statement (form field "file"), JSON response
  POST /api/consolidate  - consolidate statements (form field "files"), XLSX response

Environment variables:
  SERVER_ADDR - Listen address (default: :8080)`,
	Example: `  ccstatements serve --addr :9000`,
	Args:    cobra.NoArgs,
	RunE:    runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address")
	serveCmd.Flags().String("decoder", "", "PDF decoder: auto, pdf, pdftotext or ocr")
	serveCmd.Flags().Int("workers", 1, "Number of documents extracted in parallel per request")
	serveCmd.Flags().Duration("doc-timeout", 0, "Time limit per document (0 = none)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.ServerAddr = addr
	}

	decoder, err := extractor.NewDecoder(cfg.Decoder)
	if err != nil {
		return err
	}

	api.Version = version
	app := api.NewApp(&api.Handler{
		Decoder:         decoder,
		Parser:          &parser.CardStatementParser{},
		SheetNaming:     cfg.SheetNaming,
		SheetPrefix:     cfg.SheetPrefix,
		Workers:         cfg.Workers,
		DocumentTimeout: cfg.DocumentTimeout,
	})

	go func() {
		<-cmd.Context().Done()
		log.Info().Msg("Shutting down")
		app.Shutdown()
	}()

	log.Info().Str("addr", cfg.ServerAddr).Str("decoder", decoder.Name()).Msg("Listening")
	return app.Listen(cfg.ServerAddr)
}
