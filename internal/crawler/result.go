package crawler

import (
	"time"

	"github.com/fuzumoe/sitescope-api/internal/model"
)

// Outcome summarizes a finished crawl.
type Outcome struct {
	SessionID string
	Status    model.SessionStatus
	Counters  model.Counters
	PdfLinks  int
	Duration  time.Duration
	Err       error
}
