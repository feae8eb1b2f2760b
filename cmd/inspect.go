package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/cc-statement-consolidator/internal/extractor"
	"github.com/insightdelivered/cc-statement-consolidator/internal/logger"
	"github.com/insightdelivered/cc-statement-consolidator/internal/parser"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <statement.pdf>",
	Short: "Show the decoded text and extracted fields of one statement",
	Long: `Decode a single statement PDF and print the text of every page, followed
by the extracted metadata and transactions. Use this to check why a statement
comes out partial in a consolidated workbook.`,
	Example: `  ccstatements inspect Card_Statement_Jan2024.pdf
  ccstatements inspect --decoder pdftotext --text=false Card_Statement_Jan2024.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().String("decoder", "", "PDF decoder: auto, pdf, pdftotext or ocr")
	inspectCmd.Flags().Bool("text", true, "Print the decoded page text")
}

func runInspect(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("inspect")
	path := args[0]

	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	showText, _ := cmd.Flags().GetBool("text")

	decoder, err := extractor.NewDecoder(cfg.Decoder)
	if err != nil {
		return err
	}
	doc, err := decoder.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer doc.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	pages, failed, err := extractor.ReadPages(ctx, doc, func(page int, err error) {
		log.Warn().Err(err).Int("page", page).Msg("Page failed to decode")
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showText {
		for i, text := range pages {
			fmt.Fprintf(out, "--- Page %d ---\n%s\n", i+1, text)
		}
	}

	st := (&parser.CardStatementParser{}).Parse(pages)

	fmt.Fprintf(out, "\nDecoder: %s, pages decoded: %d, failed: %d\n", decoder.Name(), len(pages), failed)
	fmt.Fprintln(out, "\nMetadata:")
	for _, f := range st.Metadata.Fields() {
		if f.Value == "" {
			continue
		}
		fmt.Fprintf(out, "  %-28s %s\n", f.Name+":", f.Value)
	}
	if len(st.Stats.MissingFields) > 0 {
		fmt.Fprintf(out, "  Missing: %v\n", st.Stats.MissingFields)
	}

	fmt.Fprintf(out, "\nTransactions: %d (skipped candidates: %d)\n", len(st.Transactions), st.Stats.SkippedCandidates)
	for _, txn := range st.Transactions {
		fmt.Fprintf(out, "  %s  %s  %-40s %12s  %s\n",
			txn.TransactionDate, txn.PostingDate, txn.Description, txn.Amount.StringFixed(2), txn.Kind)
	}
	return nil
}
