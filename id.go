package mosaic

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a globally unique, time-sortable UUIDv7 (RFC 9562). The
// ingest pipeline mints one per document.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NowUnix returns the current time as Unix seconds.
func NowUnix() int64 {
	return time.Now().Unix()
}
