package mosaic

import "fmt"

// ErrExtract reports a content extraction failure in the ingest pipeline.
// The engine itself never returns errors; malformed parameters clamp and
// degrade instead.
type ErrExtract struct {
	ContentType string
	Reason      string
}

func (e *ErrExtract) Error() string {
	return fmt.Sprintf("extract %s: %s", e.ContentType, e.Reason)
}
