package consolidator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/cc-statement-consolidator/internal/extractor"
	"github.com/insightdelivered/cc-statement-consolidator/internal/parser"
)

type stubDocument struct {
	pages  []string
	fail   map[int]error
	delay  time.Duration
	closed *sync.Map
	name   string
}

func (d *stubDocument) NumPages() int { return len(d.pages) }

func (d *stubDocument) PageText(n int) (string, error) {
	time.Sleep(d.delay)
	if err := d.fail[n]; err != nil {
		return "", err
	}
	return d.pages[n-1], nil
}

func (d *stubDocument) Close() error {
	d.closed.Store(d.name, true)
	return nil
}

// stubDecoder serves documents by base file name.
type stubDecoder struct {
	docs    map[string]*stubDocument
	openErr map[string]error
	closed  sync.Map
}

func (d *stubDecoder) Name() string { return "stub" }

func (d *stubDecoder) Open(path string) (extractor.Document, error) {
	name := filepath.Base(path)
	if err := d.openErr[name]; err != nil {
		return nil, err
	}
	doc, ok := d.docs[name]
	if !ok {
		return nil, errors.New("no stub document")
	}
	doc.closed = &d.closed
	doc.name = name
	return doc, nil
}

func (d *stubDecoder) wasClosed(name string) bool {
	_, ok := d.closed.Load(name)
	return ok
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
}

const summaryPage = `4000 XXXX XXXX 0001
01-Jan-24 to 31-Jan-24
5,000.00
4,500.00
05/02/2024
25/02/2024
150.00`

const txnPage = `01/02/2024 02/02/2024 GROCERY STORE PURCHASE 123.45
03/02/2024 04/02/2024 PAYMENT RECEIVED 1,234.56CR`

func TestListDocuments(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b_statement.pdf", "a_statement.PDF", "notes.txt", "c.Pdf")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.pdf"), 0o755))

	files, err := ListDocuments(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{"a_statement.PDF", "b_statement.pdf", "c.Pdf"}, names)
}

func TestListDocuments_FollowsSymlinks(t *testing.T) {
	outside := t.TempDir()
	touch(t, outside, "Card_Statement_Mar2024.pdf")
	require.NoError(t, os.Mkdir(filepath.Join(outside, "archive.pdf"), 0o755))

	dir := t.TempDir()
	touch(t, dir, "local.pdf")
	if err := os.Symlink(filepath.Join(outside, "Card_Statement_Mar2024.pdf"), filepath.Join(dir, "linked.pdf")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(outside, "missing.pdf"), filepath.Join(dir, "dangling.pdf")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "archive.pdf"), filepath.Join(dir, "dirlink.pdf")))

	files, err := ListDocuments(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "linked.pdf"),
		filepath.Join(dir, "local.pdf"),
	}, files)
}

func TestListDocuments_InputDirErrors(t *testing.T) {
	_, err := ListDocuments(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrInputDir)

	file := filepath.Join(t.TempDir(), "file.pdf")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = ListDocuments(file)
	assert.ErrorIs(t, err, ErrInputDir)
}

func TestRun_ConsolidatesInListingOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Card_Statement_Jan2024.pdf", "Card_Statement_Feb2024.pdf", "Card_Statement_Mar2024.pdf")

	dec := &stubDecoder{docs: map[string]*stubDocument{
		"Card_Statement_Jan2024.pdf": {pages: []string{summaryPage, txnPage}, delay: 20 * time.Millisecond},
		"Card_Statement_Feb2024.pdf": {pages: []string{summaryPage, txnPage}},
		"Card_Statement_Mar2024.pdf": {pages: []string{summaryPage}},
	}}

	wb, report, err := Run(context.Background(), Options{
		Dir:     dir,
		Decoder: dec,
		Parser:  &parser.CardStatementParser{},
		Workers: 3,
	})
	require.NoError(t, err)

	require.Len(t, wb.Sheets, 3)
	assert.Equal(t, "Statements_Feb2024", wb.Sheets[0].Name)
	assert.Equal(t, "Statements_Jan2024", wb.Sheets[1].Name)
	assert.Equal(t, "Statements_Mar2024", wb.Sheets[2].Name)
	assert.Len(t, wb.Sheets[1].Transactions, 2)
	assert.Empty(t, wb.Sheets[2].Transactions)

	require.Len(t, wb.Metadata, 3)
	assert.Equal(t, "Card_Statement_Feb2024.pdf", wb.Metadata[0].SourceFileName)
	assert.Equal(t, "Card_Statement_Jan2024.pdf", wb.Metadata[1].SourceFileName)
	assert.Equal(t, "01/01/2024", wb.Metadata[1].StatementStartDate)
	assert.Equal(t, "4500.00", wb.Metadata[1].AvailableCreditLimit)

	require.Len(t, report.Documents, 3)
	assert.Equal(t, 4, report.TransactionCount())
	debit, credit := report.Totals()
	assert.True(t, debit.Equal(decimal.RequireFromString("-246.90")), debit.String())
	assert.True(t, credit.Equal(decimal.RequireFromString("2469.12")), credit.String())

	for name := range dec.docs {
		assert.True(t, dec.wasClosed(name), name)
	}
}

func TestRun_IsolatesDocumentFailures(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf", "b.pdf", "c.pdf")

	dec := &stubDecoder{
		docs: map[string]*stubDocument{
			"a.pdf": {pages: []string{summaryPage, txnPage}},
			"c.pdf": {
				pages: []string{summaryPage, "garbage", txnPage},
				fail:  map[int]error{2: errors.New("bad font")},
			},
		},
		openErr: map[string]error{"b.pdf": errors.New("malformed xref")},
	}

	wb, report, err := Run(context.Background(), Options{
		Dir:     dir,
		Decoder: dec,
		Parser:  &parser.CardStatementParser{},
	})
	require.NoError(t, err)

	require.Len(t, wb.Sheets, 2)
	assert.Equal(t, "a.pdf", wb.Sheets[0].SourceFile)
	assert.Equal(t, "c.pdf", wb.Sheets[1].SourceFile)
	assert.Len(t, wb.Sheets[1].Transactions, 2)

	require.Len(t, report.Documents, 3)
	assert.Equal(t, StatusOK, report.Documents[0].Status)
	assert.Equal(t, StatusFailed, report.Documents[1].Status)
	assert.Equal(t, StatusPartial, report.Documents[2].Status)
	assert.Equal(t, 1, report.Documents[2].Stats.PagesFailed)
	assert.Equal(t, 2, report.Documents[2].Stats.PagesDecoded)

	var docErr *DocumentError
	require.ErrorAs(t, report.Documents[1].Err, &docErr)
	assert.Equal(t, "open", docErr.Op)
	assert.Equal(t, "b.pdf", docErr.File)

	assert.True(t, dec.wasClosed("c.pdf"), "document with a failed page must be closed")
}

func TestRun_StrictAbortsOnFailure(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf", "b.pdf")

	dec := &stubDecoder{
		docs:    map[string]*stubDocument{"a.pdf": {pages: []string{txnPage}}},
		openErr: map[string]error{"b.pdf": extractor.ErrNoPages},
	}

	wb, report, err := Run(context.Background(), Options{
		Dir:     dir,
		Decoder: dec,
		Parser:  &parser.CardStatementParser{},
		Strict:  true,
	})
	assert.Nil(t, wb)
	assert.Nil(t, report)

	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Equal(t, "b.pdf", docErr.File)
	assert.ErrorIs(t, err, extractor.ErrNoPages)
}

func TestRun_DocumentTimeout(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "slow.pdf")

	dec := &stubDecoder{docs: map[string]*stubDocument{
		"slow.pdf": {pages: []string{txnPage, txnPage, txnPage}, delay: 50 * time.Millisecond},
	}}

	_, report, err := Run(context.Background(), Options{
		Dir:             dir,
		Decoder:         dec,
		Parser:          &parser.CardStatementParser{},
		DocumentTimeout: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	require.Len(t, report.Documents, 1)
	assert.Equal(t, StatusFailed, report.Documents[0].Status)
	assert.ErrorIs(t, report.Documents[0].Err, context.DeadlineExceeded)
	assert.True(t, dec.wasClosed("slow.pdf"))
}

func TestRun_EmptyDirectory(t *testing.T) {
	wb, report, err := Run(context.Background(), Options{
		Dir:     t.TempDir(),
		Decoder: &stubDecoder{},
		Parser:  &parser.CardStatementParser{},
	})
	require.NoError(t, err)
	assert.Empty(t, wb.Sheets)
	assert.Empty(t, wb.Metadata)
	assert.Empty(t, report.Documents)
}

func TestRun_MissingDirectoryIsFatal(t *testing.T) {
	_, _, err := Run(context.Background(), Options{
		Dir:     filepath.Join(t.TempDir(), "nope"),
		Decoder: &stubDecoder{},
		Parser:  &parser.CardStatementParser{},
	})
	assert.ErrorIs(t, err, ErrInputDir)
}

func TestRun_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Run(ctx, Options{
		Dir:     dir,
		Decoder: &stubDecoder{docs: map[string]*stubDocument{"a.pdf": {pages: []string{txnPage}}}},
		Parser:  &parser.CardStatementParser{},
	})
	assert.ErrorIs(t, err, context.Canceled)
}
