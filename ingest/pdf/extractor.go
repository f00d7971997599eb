// Package pdf provides the PDF extractor for the ingest pipeline.
//
// It uses ledongthuc/pdf (BSD-3, pure Go, no CGO) and lives in its own
// subpackage so that callers who never touch PDFs do not pull the
// dependency.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	mosaic "github.com/nevindra/mosaic"
	"github.com/nevindra/mosaic/ingest"
)

// Extractor reads text page by page, skipping pages the parser cannot
// decode. Each readable page becomes one Section carrying its page
// number and byte range in the returned text.
type Extractor struct{}

var _ ingest.Extractor = Extractor{}
var _ ingest.SectionExtractor = Extractor{}

func (e Extractor) Extract(content []byte) (string, error) {
	ex, err := e.ExtractSections(content)
	return ex.Text, err
}

func (Extractor) ExtractSections(content []byte) (ingest.Extraction, error) {
	if len(content) == 0 {
		return ingest.Extraction{}, &mosaic.ErrExtract{
			ContentType: string(ingest.TypePDF),
			Reason:      "empty content",
		}
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return ingest.Extraction{}, fmt.Errorf("open pdf: %w", err)
	}

	var text strings.Builder
	var sections []ingest.Section
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		plain, err := page.GetPlainText(nil)
		if err != nil {
			continue // unreadable page, keep going
		}
		plain = strings.TrimSpace(plain)
		if plain == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		start := text.Len()
		text.WriteString(plain)
		sections = append(sections, ingest.Section{
			Page:  i,
			Start: start,
			End:   text.Len(),
		})
	}
	return ingest.Extraction{Text: text.String(), Sections: sections}, nil
}
