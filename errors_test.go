package mosaic

import "testing"

func TestErrExtractError(t *testing.T) {
	tests := []struct {
		contentType string
		reason      string
		want        string
	}{
		{"application/pdf", "encrypted document", "extract application/pdf: encrypted document"},
		{"text/csv", "row 3: wrong field count", "extract text/csv: row 3: wrong field count"},
	}
	for _, tt := range tests {
		e := &ErrExtract{ContentType: tt.contentType, Reason: tt.reason}
		if got := e.Error(); got != tt.want {
			t.Errorf("ErrExtract{%q, %q}.Error() = %q, want %q", tt.contentType, tt.reason, got, tt.want)
		}
	}
}

func TestErrExtractImplementsError(t *testing.T) {
	var _ error = (*ErrExtract)(nil)
}
