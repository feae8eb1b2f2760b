// Package consolidator runs extraction over a directory of card statements
// and collects the results into a single workbook.
package consolidator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/cc-statement-consolidator/internal/extractor"
	"github.com/insightdelivered/cc-statement-consolidator/internal/logger"
	"github.com/insightdelivered/cc-statement-consolidator/internal/models"
	"github.com/insightdelivered/cc-statement-consolidator/internal/parser"
)

// Extension selects source documents, compared case-insensitively.
const Extension = ".pdf"

// Options configures a batch run.
type Options struct {
	Dir     string
	Decoder extractor.Decoder
	Parser  parser.Parser
	Namer   *SheetNamer
	// Workers is the number of documents extracted at once; 1 when zero.
	Workers int
	// DocumentTimeout bounds the extraction of one document; no limit when zero.
	DocumentTimeout time.Duration
	// Strict makes any document failure abort the batch.
	Strict bool
}

// docResult is the outcome of extracting one document in isolation.
type docResult struct {
	statement *models.Statement
	err       error
	duration  time.Duration
}

// ListDocuments returns the source documents in dir in listing order.
func ListDocuments(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInputDir, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputDir, err)
	}

	var files []string
	for _, e := range entries {
		if !strings.EqualFold(filepath.Ext(e.Name()), Extension) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		mode := e.Type()
		if mode&os.ModeSymlink != 0 {
			// Follow links; dangling ones are skipped.
			target, err := os.Stat(path)
			if err != nil {
				continue
			}
			mode = target.Mode()
		}
		if mode.IsRegular() {
			files = append(files, path)
		}
	}
	return files, nil
}

// Run extracts every document in opts.Dir and returns the workbook together
// with a per-document report. Documents that fail are logged, reported and
// left out of the workbook unless opts.Strict is set, in which case the
// first failure is returned. Only an unreadable input directory, a strict
// failure or cancellation of ctx make Run return an error.
func Run(ctx context.Context, opts Options) (*models.Workbook, *Report, error) {
	log := logger.WithComponent("consolidator")
	start := time.Now()

	if opts.Decoder == nil || opts.Parser == nil {
		return nil, nil, errors.New("consolidator: decoder and parser are required")
	}
	namer := opts.Namer
	if namer == nil {
		namer, _ = NewSheetNamer(NamingSegment, "Statements_")
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	files, err := ListDocuments(opts.Dir)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Int("documents", len(files)).Str("dir", opts.Dir).Msgf("Found %d PDFs", len(files))

	results := make([]docResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		g.Go(func() error {
			log.Info().Msgf("Parsing file %d/%d (%.1f%%) - %s",
				i+1, len(files), float64(i+1)/float64(len(files))*100, filepath.Base(path))

			started := time.Now()
			st, err := extractDocument(gctx, opts, path)
			results[i] = docResult{statement: st, err: err, duration: time.Since(started)}

			if err != nil {
				log.Error().Err(err).Str("file", filepath.Base(path)).Msg("Document failed")
				if opts.Strict {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	wb := &models.Workbook{}
	report := &Report{Dir: opts.Dir}
	for i, res := range results {
		name := filepath.Base(files[i])
		dr := DocumentResult{File: name, Err: res.err, Duration: res.duration}

		if res.err != nil {
			dr.Status = StatusFailed
			report.Documents = append(report.Documents, dr)
			continue
		}

		st := res.statement
		dr.Sheet = namer.Name(name, i)
		dr.Status = statusOf(st)
		dr.Transactions = len(st.Transactions)
		dr.Debit, dr.Credit = st.Totals()
		dr.Stats = st.Stats
		wb.Add(dr.Sheet, st)
		report.Documents = append(report.Documents, dr)
	}
	report.Elapsed = time.Since(start)

	log.Info().
		Int("ok", report.Count(StatusOK)).
		Int("partial", report.Count(StatusPartial)).
		Int("failed", report.Count(StatusFailed)).
		Int("transactions", report.TransactionCount()).
		Dur("elapsed", report.Elapsed).
		Msg("Batch complete")

	return wb, report, nil
}

// extractDocument opens one document, reads its pages and parses them. The
// document is closed on every path.
func extractDocument(ctx context.Context, opts Options, path string) (st *models.Statement, err error) {
	log := logger.WithComponent("consolidator")
	name := filepath.Base(path)

	if opts.DocumentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.DocumentTimeout)
		defer cancel()
	}

	doc, err := opts.Decoder.Open(path)
	if err != nil {
		return nil, &DocumentError{File: name, Op: "open", Err: err}
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			log.Warn().Err(cerr).Str("file", name).Msg("Failed to close document")
		}
	}()

	pages, failed, err := extractor.ReadPages(ctx, doc, func(page int, err error) {
		log.Warn().Err(err).Str("file", name).Int("page", page).Msg("Skipping page that failed to decode")
	})
	if err != nil {
		return nil, &DocumentError{File: name, Op: "read", Err: err}
	}
	for i, text := range pages {
		log.Trace().Str("file", name).Int("page", i+1).Msg(text)
	}

	st = opts.Parser.Parse(pages)
	st.SourceFile = name
	st.Metadata.SourceFileName = name
	st.Stats.PagesDecoded = len(pages)
	st.Stats.PagesFailed = failed

	if st.Stats.SkippedCandidates > 0 {
		log.Debug().Str("file", name).Int("skipped", st.Stats.SkippedCandidates).
			Msg("Discarded transaction candidates with unparseable amounts")
	}
	log.Debug().Str("file", name).
		Int("transactions", len(st.Transactions)).
		Strs("missing_fields", st.Stats.MissingFields).
		Msg("Document extracted")
	return st, nil
}
