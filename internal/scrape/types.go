package scrape

import (
	"context"

	"jobalert/internal/domain"
)

// Fetcher is one postings source. Implementations own their transport,
// timeouts and parallelism; the run treats Fetch as a single blocking call.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.JobPosting, error)
}
