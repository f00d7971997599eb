package ingest

import (
	"path/filepath"
	"strings"
)

// Extractor converts one uploaded file format to plain text ready for
// chunking.
type Extractor interface {
	Extract(content []byte) (string, error)
}

// Extraction is extracted text plus optional section markers.
type Extraction struct {
	Text     string
	Sections []Section
}

// Section marks the byte range of Extraction.Text that belongs to one page
// or heading of the source document.
type Section struct {
	Page    int    // 1-based page number, 0 when the format has no pages
	Heading string // heading text, empty when the format has no headings
	Start   int    // byte offsets into Extraction.Text
	End     int
}

// SectionExtractor is an optional capability: extractors that can map their
// output back to pages or headings implement it, and the pipeline prefers
// it over plain Extract.
type SectionExtractor interface {
	ExtractSections(content []byte) (Extraction, error)
}

// ContentType identifies an upload's format.
type ContentType string

const (
	TypePlainText ContentType = "text/plain"
	TypeMarkdown  ContentType = "text/markdown"
	TypeHTML      ContentType = "text/html"
	TypeCSV       ContentType = "text/csv"
	TypeJSON      ContentType = "application/json"
	TypeDOCX      ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypePDF       ContentType = "application/pdf"
)

// ContentTypeFromExtension maps a file extension (without the dot) to a
// content type. Unknown extensions are treated as plain text.
func ContentTypeFromExtension(ext string) ContentType {
	switch strings.ToLower(ext) {
	case "md", "markdown", "mdown":
		return TypeMarkdown
	case "html", "htm", "xhtml":
		return TypeHTML
	case "csv":
		return TypeCSV
	case "json":
		return TypeJSON
	case "docx":
		return TypeDOCX
	case "pdf":
		return TypePDF
	default:
		return TypePlainText
	}
}

// ContentTypeFromPath detects the content type from a file path.
func ContentTypeFromPath(path string) ContentType {
	return ContentTypeFromExtension(strings.TrimPrefix(filepath.Ext(path), "."))
}

// PlainTextExtractor passes content through unchanged.
type PlainTextExtractor struct{}

var _ Extractor = PlainTextExtractor{}

func (PlainTextExtractor) Extract(content []byte) (string, error) {
	return string(content), nil
}

// builtinExtractors is the registry a new pipeline starts from. PDF support
// lives in the ingest/pdf subpackage and is registered by the caller.
func builtinExtractors() map[ContentType]Extractor {
	return map[ContentType]Extractor{
		TypePlainText: PlainTextExtractor{},
		TypeMarkdown:  MarkdownExtractor{},
		TypeHTML:      HTMLExtractor{},
		TypeCSV:       CSVExtractor{},
		TypeJSON:      JSONExtractor{},
		TypeDOCX:      DOCXExtractor{},
	}
}
