package ingest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestDOCXExtractEmpty(t *testing.T) {
	_, err := DOCXExtractor{}.Extract(nil)
	if err == nil {
		t.Error("expected error for nil content")
	}
}

func TestDOCXExtractInvalid(t *testing.T) {
	_, err := DOCXExtractor{}.Extract([]byte("not a zip"))
	if err == nil {
		t.Error("expected error for invalid content")
	}
}

func TestDOCXExtractParagraphs(t *testing.T) {
	content := buildDocx(t, []docxPara{
		{text: "Hello World"},
		{text: "Second paragraph"},
	})

	out, err := DOCXExtractor{}.Extract(content)
	if err != nil {
		t.Fatal(err)
	}
	if out != "Hello World\n\nSecond paragraph" {
		t.Errorf("unexpected text: %q", out)
	}
}

func TestDOCXExtractSections(t *testing.T) {
	content := buildDocx(t, []docxPara{
		{text: "Chapter 1", style: "Heading1"},
		{text: "Some content"},
		{text: "Section 1.1", style: "Heading2"},
		{text: "More content"},
	})

	ex, err := DOCXExtractor{}.ExtractSections(content)
	if err != nil {
		t.Fatal(err)
	}
	if len(ex.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(ex.Sections))
	}
	first := ex.Sections[0]
	if first.Heading != "Chapter 1" {
		t.Errorf("first heading = %q", first.Heading)
	}
	if got := ex.Text[first.Start:first.End]; got != "Chapter 1\n\nSome content" {
		t.Errorf("first section slice = %q", got)
	}
	second := ex.Sections[1]
	if second.Heading != "Section 1.1" {
		t.Errorf("second heading = %q", second.Heading)
	}
	if second.End != len(ex.Text) {
		t.Errorf("last section should run to end of text, got %d of %d", second.End, len(ex.Text))
	}
}

func TestDOCXExtractTable(t *testing.T) {
	content := buildDocxTable(t,
		[]string{"Name", "Age"},
		[][]string{{"John", "30"}, {"Jane", "25"}},
	)

	out, err := DOCXExtractor{}.Extract(content)
	if err != nil {
		t.Fatal(err)
	}
	if out != "Name: John, Age: 30\n\nName: Jane, Age: 25" {
		t.Errorf("table rows not labeled: %q", out)
	}
}

func TestDOCXTableEmptyCells(t *testing.T) {
	content := buildDocxTable(t,
		[]string{"Name", "Age"},
		[][]string{{"John", ""}, {"", "25"}},
	)

	out, err := DOCXExtractor{}.Extract(content)
	if err != nil {
		t.Fatal(err)
	}
	if out != "Name: John\n\nAge: 25" {
		t.Errorf("empty cells not dropped: %q", out)
	}
}

func TestDOCXMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	w.Write([]byte("<styles/>"))
	zw.Close()

	_, err := DOCXExtractor{}.Extract(buf.Bytes())
	if err == nil {
		t.Fatal("expected error for missing document.xml")
	}
	if !strings.Contains(err.Error(), "missing word/document.xml") {
		t.Errorf("unexpected error: %v", err)
	}
}

// --- test helpers ---

type docxPara struct {
	text  string
	style string
}

func buildDocx(t *testing.T, paragraphs []docxPara) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	body.WriteString("\n")
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	body.WriteString("<w:body>")
	for _, p := range paragraphs {
		body.WriteString("<w:p>")
		if p.style != "" {
			body.WriteString(fmt.Sprintf(`<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, p.style))
		}
		body.WriteString(fmt.Sprintf("<w:r><w:t>%s</w:t></w:r>", p.text))
		body.WriteString("</w:p>")
	}
	body.WriteString("</w:body></w:document>")
	return zipDocumentXML(t, body.String())
}

func buildDocxTable(t *testing.T, headers []string, rows [][]string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	body.WriteString("\n")
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	body.WriteString("<w:body><w:tbl>")
	writeRow := func(cells []string) {
		body.WriteString("<w:tr>")
		for _, cell := range cells {
			body.WriteString(fmt.Sprintf("<w:tc><w:p><w:r><w:t>%s</w:t></w:r></w:p></w:tc>", cell))
		}
		body.WriteString("</w:tr>")
	}
	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	body.WriteString("</w:tbl></w:body></w:document>")
	return zipDocumentXML(t, body.String())
}

func zipDocumentXML(t *testing.T, xml string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(xml)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
