package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	mosaic "github.com/nevindra/mosaic"
)

// DOCXExtractor pulls text out of OOXML word documents. It streams the
// document XML token by token instead of unmarshaling the whole tree,
// emitting paragraphs and labeled table rows as blank-line-separated
// blocks. Paragraphs styled "Heading*" open a new Section.
type DOCXExtractor struct{}

var _ Extractor = DOCXExtractor{}
var _ SectionExtractor = DOCXExtractor{}

// maxDocxEntry caps the decompressed size of a single archive entry
// (100 MB) so a crafted zip cannot exhaust memory.
const maxDocxEntry = 100 << 20

func (e DOCXExtractor) Extract(content []byte) (string, error) {
	ex, err := e.ExtractSections(content)
	return ex.Text, err
}

func (DOCXExtractor) ExtractSections(content []byte) (Extraction, error) {
	if len(content) == 0 {
		return Extraction{}, &mosaic.ErrExtract{
			ContentType: string(TypeDOCX),
			Reason:      "empty content",
		}
	}
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return Extraction{}, fmt.Errorf("open docx archive: %w", err)
	}
	doc, err := readArchiveEntry(zr, "word/document.xml")
	if err != nil {
		return Extraction{}, err
	}
	return scanDocxXML(doc)
}

func readArchiveEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(io.LimitReader(rc, maxDocxEntry+1))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if len(data) > maxDocxEntry {
			return nil, fmt.Errorf("archive entry %s exceeds %d bytes", name, maxDocxEntry)
		}
		return data, nil
	}
	return nil, fmt.Errorf("missing %s", name)
}

func scanDocxXML(data []byte) (Extraction, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	s := &docxScanner{}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Extraction{}, fmt.Errorf("parse document xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			s.start(t)
		case xml.EndElement:
			s.end(t)
		case xml.CharData:
			s.chars(t)
		}
	}
	s.closeSection()
	return Extraction{
		Text:     strings.TrimSpace(s.text.String()),
		Sections: s.sections,
	}, nil
}

// docxScanner accumulates document text while the XML decoder streams
// tokens through it.
type docxScanner struct {
	text     strings.Builder
	sections []Section

	heading      string
	headingStart int

	inPara bool
	inRun  bool
	style  string
	runs   []string

	inTable bool
	inRow   bool
	headers []string
	rowIdx  int
	cells   []string
	cell    strings.Builder
}

func (s *docxScanner) start(t xml.StartElement) {
	switch t.Name.Local {
	case "p":
		s.inPara = true
		s.style = ""
		s.runs = nil
	case "pStyle":
		for _, attr := range t.Attr {
			if attr.Name.Local == "val" {
				s.style = attr.Value
			}
		}
	case "r":
		s.inRun = true
	case "tbl":
		s.inTable = true
		s.headers = nil
		s.rowIdx = 0
	case "tr":
		s.inRow = true
		s.cells = nil
	case "tc":
		s.cell.Reset()
	}
}

func (s *docxScanner) end(t xml.EndElement) {
	switch t.Name.Local {
	case "r":
		s.inRun = false
	case "tc":
		s.cells = append(s.cells, strings.TrimSpace(s.cell.String()))
	case "tr":
		s.inRow = false
		if !s.inTable {
			return
		}
		if s.rowIdx == 0 {
			s.headers = append([]string(nil), s.cells...)
		} else if row := labelRow(s.headers, s.cells); row != "" {
			s.writeBlock(row)
		}
		s.rowIdx++
	case "tbl":
		s.inTable = false
	case "p":
		s.endParagraph()
	}
}

func (s *docxScanner) chars(data xml.CharData) {
	switch {
	case s.inTable && s.inRow:
		s.cell.Write(data)
	case s.inPara && s.inRun:
		s.runs = append(s.runs, string(data))
	}
}

func (s *docxScanner) endParagraph() {
	s.inPara = false
	if s.inTable {
		return
	}
	para := strings.TrimSpace(strings.Join(s.runs, ""))
	if para == "" {
		return
	}
	if strings.HasPrefix(s.style, "Heading") {
		s.closeSection()
		s.writeBlock(para)
		s.heading = para
		s.headingStart = s.text.Len() - len(para)
	} else {
		s.writeBlock(para)
	}
}

func (s *docxScanner) writeBlock(block string) {
	if s.text.Len() > 0 {
		s.text.WriteString("\n\n")
	}
	s.text.WriteString(block)
}

// closeSection finalizes the section opened by the last heading, if any.
func (s *docxScanner) closeSection() {
	if s.heading == "" {
		return
	}
	s.sections = append(s.sections, Section{
		Heading: s.heading,
		Start:   s.headingStart,
		End:     s.text.Len(),
	})
	s.heading = ""
}
