package ingest

import "testing"

func TestPlainTextExtractorIdentity(t *testing.T) {
	out, err := PlainTextExtractor{}.Extract([]byte("hello world"))
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello world" {
		t.Errorf("expected hello world, got %q", out)
	}
}

func TestContentTypeFromExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want ContentType
	}{
		{"md", TypeMarkdown},
		{"markdown", TypeMarkdown},
		{"html", TypeHTML},
		{"htm", TypeHTML},
		{"csv", TypeCSV},
		{"json", TypeJSON},
		{"docx", TypeDOCX},
		{"pdf", TypePDF},
		{"PDF", TypePDF},
		{"CSV", TypeCSV},
		{"txt", TypePlainText},
		{"", TypePlainText},
		{"exe", TypePlainText},
	}
	for _, tt := range tests {
		if got := ContentTypeFromExtension(tt.ext); got != tt.want {
			t.Errorf("ContentTypeFromExtension(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestContentTypeFromPath(t *testing.T) {
	tests := []struct {
		path string
		want ContentType
	}{
		{"docs/guide.md", TypeMarkdown},
		{"report.PDF", TypePDF},
		{"data.csv", TypeCSV},
		{"noext", TypePlainText},
		{"backup.data.json", TypeJSON},
	}
	for _, tt := range tests {
		if got := ContentTypeFromPath(tt.path); got != tt.want {
			t.Errorf("ContentTypeFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestBuiltinExtractorsCoverDeclaredTypes(t *testing.T) {
	reg := builtinExtractors()
	for _, ct := range []ContentType{TypePlainText, TypeMarkdown, TypeHTML, TypeCSV, TypeJSON, TypeDOCX} {
		if _, ok := reg[ct]; !ok {
			t.Errorf("no builtin extractor for %s", ct)
		}
	}
	if _, ok := reg[TypePDF]; ok {
		t.Error("pdf extractor lives in its subpackage, not the builtin set")
	}
}
