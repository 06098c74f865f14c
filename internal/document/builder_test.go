package document

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fyerfyer/doc-dashboard/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createPDF 生成指定页数的PDF
func createPDF(t *testing.T, pages int) *bytes.Reader {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Cell(40, 10, "Page content")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("Failed to write PDF: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

type stubCounter struct {
	count int
	err   error
}

func (s stubCounter) Count(io.ReadSeeker) (int, error) {
	return s.count, s.err
}

func TestPDFPageCounter(t *testing.T) {
	counter := NewPDFPageCounter()

	count, err := counter.Count(createPDF(t, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = counter.Count(strings.NewReader("not a pdf at all"))
	assert.Error(t, err)
}

func TestBuilder_RenderModePDF(t *testing.T) {
	b := NewBuilder(ModeRender)

	pages, err := b.Build(context.Background(), models.KindPDF, "blob-1", createPDF(t, 5))
	require.NoError(t, err)
	require.Len(t, pages, 5)
	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, "blob-1#page=1", pages[0].Content)
	assert.Equal(t, "blob-1#page=5", pages[4].Content)
	assert.Empty(t, pages[0].ExtractedData)
}

func TestBuilder_RenderModeSpreadsheetUsesPlaceholders(t *testing.T) {
	b := NewBuilder(ModeRender)

	pages, err := b.Build(context.Background(), models.KindCSV, "blob-2", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, PlaceholderPages(), pages)
}

func TestBuilder_PlaceholderMode(t *testing.T) {
	b := NewBuilder(ModePlaceholder, WithPageCounter(stubCounter{count: 9}))

	pages, err := b.Build(context.Background(), models.KindPDF, "blob-3", createPDF(t, 3))
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "Sample content for page 1", pages[0].Content)
	assert.Equal(t, "Sample extracted data for page 2", pages[1].ExtractedData)
}

func TestBuilder_CountFailureFallsBack(t *testing.T) {
	for _, counter := range []PageCounter{
		stubCounter{err: errors.New("broken xref")},
		stubCounter{count: 0},
	} {
		b := NewBuilder(ModeRender, WithPageCounter(counter))
		pages, err := b.Build(context.Background(), models.KindPDF, "blob-4", strings.NewReader("%PDF-"))
		require.NoError(t, err)
		assert.Equal(t, PlaceholderPages(), pages)
	}
}

func TestBuilder_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(ModeRender).Build(ctx, models.KindPDF, "blob", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParsePageMode(t *testing.T) {
	mode, err := ParsePageMode("")
	assert.NoError(t, err)
	assert.Equal(t, ModeRender, mode)

	mode, err = ParsePageMode("placeholder")
	assert.NoError(t, err)
	assert.Equal(t, ModePlaceholder, mode)

	_, err = ParsePageMode("ocr")
	assert.Error(t, err)
}
