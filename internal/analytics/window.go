package analytics

import (
	"time"

	"github.com/lablabs/cloudflare-analytics/internal/models"
)

const (
	// TimeLayout is the only accepted window timestamp format (YYYY-MM-DDTHH:MM:SSZ).
	TimeLayout = "2006-01-02T15:04:05Z"

	// RetentionSeconds is how far back the provider keeps adaptive analytics (32 days).
	RetentionSeconds = 2764800
	Retention        = RetentionSeconds * time.Second
)

// Window is a validated analytics time range. Start and End are sent to the
// provider exactly as given.
type Window struct {
	Start string
	End   string
}

// DefaultWindow covers the whole retention period ending at now.
func DefaultWindow(now time.Time) Window {
	now = now.UTC().Truncate(time.Second)
	return Window{
		Start: now.Add(-Retention).Format(TimeLayout),
		End:   now.Format(TimeLayout),
	}
}

// ValidateWindow fills empty bounds from DefaultWindow, then checks start's format
// and that it is not older than the retention boundary. end is not validated.
func ValidateWindow(start, end string, now time.Time) (Window, error) {
	now = now.UTC().Truncate(time.Second)
	def := DefaultWindow(now)
	if start == "" {
		start = def.Start
	}
	if end == "" {
		end = def.End
	}

	startTime, err := time.Parse(TimeLayout, start)
	if err != nil {
		return Window{}, &models.InvalidFormatError{Value: start}
	}

	threshold := now.Add(-Retention)
	if startTime.Before(threshold) {
		return Window{}, &models.WindowTooOldError{Start: start}
	}

	return Window{Start: start, End: end}, nil
}
