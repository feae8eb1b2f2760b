package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/cc-statement-consolidator/internal/config"
	"github.com/insightdelivered/cc-statement-consolidator/internal/consolidator"
	"github.com/insightdelivered/cc-statement-consolidator/internal/extractor"
	"github.com/insightdelivered/cc-statement-consolidator/internal/logger"
	"github.com/insightdelivered/cc-statement-consolidator/internal/parser"
	"github.com/insightdelivered/cc-statement-consolidator/internal/storage"
	"github.com/insightdelivered/cc-statement-consolidator/internal/writer"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate [statements-dir]",
	Short: "Extract every statement PDF in a folder into one workbook",
	Long: `Extract transactions and statement metadata from every PDF in a folder
and write them to a single workbook: one sheet per statement, named from the
file name, followed by a Metadata sheet with one row per statement.

Documents that cannot be read are reported and skipped; use --strict to abort
the run instead.

Environment variables:
  STATEMENTS_DIR    - Folder to read when no argument is given
  OUTPUT_PATH       - Output workbook (default: Consolidated_Statements.xlsx)
  OUTPUT_FORMAT     - xlsx or csv
  PDF_DECODER       - auto, pdf, pdftotext or ocr
  SHEET_NAMING      - segment, filename or index
  BATCH_WORKERS     - Number of documents extracted in parallel (default: 1)
  S3_BUCKET         - Bucket for --upload`,
	Example: `  # Consolidate a folder of statements
  ccstatements consolidate ./statements

  # Custom output, four workers
  ccstatements consolidate ./statements --output 2024.xlsx --workers 4

  # Write CSV files instead of a workbook
  ccstatements consolidate ./statements --format csv --output ./out

  # Upload the workbook after writing it
  ccstatements consolidate ./statements --upload --bucket my-statements`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConsolidate,
}

func init() {
	rootCmd.AddCommand(consolidateCmd)

	consolidateCmd.Flags().StringP("output", "o", "", "Output workbook path (directory for csv)")
	consolidateCmd.Flags().String("format", "", "Output format: xlsx or csv")
	consolidateCmd.Flags().String("decoder", "", "PDF decoder: auto, pdf, pdftotext or ocr")
	consolidateCmd.Flags().String("sheet-naming", "", "Sheet naming: segment, filename or index")
	consolidateCmd.Flags().String("sheet-prefix", "", "Prefix for per-statement sheet names")
	consolidateCmd.Flags().Int("workers", 1, "Number of documents extracted in parallel")
	consolidateCmd.Flags().Duration("doc-timeout", 0, "Time limit per document (0 = none)")
	consolidateCmd.Flags().Bool("strict", false, "Abort the run when any document fails")
	consolidateCmd.Flags().Bool("upload", false, "Upload the output to S3 after writing it")
	consolidateCmd.Flags().String("bucket", "", "S3 bucket for --upload")
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.StatementsDir = args[0]
	}
	if cfg.StatementsDir == "" {
		return errors.New("no statements directory given (argument or STATEMENTS_DIR)")
	}
	upload, _ := cmd.Flags().GetBool("upload")
	if upload && !cfg.UploadEnabled() {
		return errors.New("--upload needs a bucket (--bucket or S3_BUCKET)")
	}

	runID := uuid.New().String()
	log := logger.WithComponent("consolidate").With().Str("run_id", runID).Logger()

	decoder, err := extractor.NewDecoder(cfg.Decoder)
	if err != nil {
		return err
	}
	namer, err := consolidator.NewSheetNamer(cfg.SheetNaming, cfg.SheetPrefix)
	if err != nil {
		return err
	}

	log.Info().
		Str("dir", cfg.StatementsDir).
		Str("decoder", decoder.Name()).
		Str("format", cfg.OutputFormat).
		Int("workers", cfg.Workers).
		Bool("strict", cfg.Strict).
		Msg("Starting consolidation")

	ctx := cmd.Context()
	wb, report, err := consolidator.Run(ctx, consolidator.Options{
		Dir:             cfg.StatementsDir,
		Decoder:         decoder,
		Parser:          &parser.CardStatementParser{},
		Namer:           namer,
		Workers:         cfg.Workers,
		DocumentTimeout: cfg.DocumentTimeout,
		Strict:          cfg.Strict,
	})
	if err != nil {
		return err
	}

	w, err := writer.New(cfg.OutputFormat)
	if err != nil {
		return err
	}
	outPath := outputPath(cfg)
	if err := w.WriteToFile(outPath, wb); err != nil {
		return err
	}
	log.Info().Str("output", outPath).Msg("Output written")

	printSummary(cmd.OutOrStdout(), report, outPath)

	if upload {
		publisher, err := storage.NewS3Publisher(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix, cfg.AWSEndpoint)
		if err != nil {
			return err
		}
		keys, err := publisher.Publish(ctx, runID, outPath)
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded: s3://%s/%s\n", cfg.S3Bucket, key)
		}
	}
	return nil
}

// outputPath drops the default .xlsx extension when writing CSV, since the
// CSV writer takes a directory.
func outputPath(cfg *config.Config) string {
	if cfg.OutputFormat == config.FormatCSV && strings.EqualFold(filepath.Ext(cfg.OutputPath), ".xlsx") {
		return strings.TrimSuffix(cfg.OutputPath, filepath.Ext(cfg.OutputPath))
	}
	return cfg.OutputPath
}

func printSummary(out io.Writer, report *consolidator.Report, outPath string) {
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, "                      SUMMARY")
	fmt.Fprintln(out, strings.Repeat("=", 60))

	for _, d := range report.Documents {
		switch d.Status {
		case consolidator.StatusFailed:
			fmt.Fprintf(out, "%-8s %s: %v\n", d.Status, d.File, d.Err)
		default:
			fmt.Fprintf(out, "%-8s %s -> %s (%d transactions", d.Status, d.File, d.Sheet, d.Transactions)
			if d.Stats.PagesFailed > 0 {
				fmt.Fprintf(out, ", %d pages failed", d.Stats.PagesFailed)
			}
			if d.Stats.SkippedCandidates > 0 {
				fmt.Fprintf(out, ", %d rows skipped", d.Stats.SkippedCandidates)
			}
			if n := len(d.Stats.MissingFields); n > 0 {
				fmt.Fprintf(out, ", %d metadata fields missing", n)
			}
			fmt.Fprintln(out, ")")
		}
	}

	debit, credit := report.Totals()
	fmt.Fprintln(out, strings.Repeat("-", 60))
	fmt.Fprintf(out, "Documents:    %d (ok %d, partial %d, failed %d)\n",
		len(report.Documents),
		report.Count(consolidator.StatusOK),
		report.Count(consolidator.StatusPartial),
		report.Count(consolidator.StatusFailed))
	fmt.Fprintf(out, "Transactions: %d\n", report.TransactionCount())
	fmt.Fprintf(out, "Debits:       %s\n", debit.StringFixed(2))
	fmt.Fprintf(out, "Credits:      %s\n", credit.StringFixed(2))
	fmt.Fprintf(out, "Elapsed:      %s\n", report.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "Output:       %s\n", outPath)
}
