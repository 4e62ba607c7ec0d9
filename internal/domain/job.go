package domain

import "time"

// JobPosting is one entry scraped from a careers listing. The ID is whatever
// stable identifier the source exposes and may be empty; postings without a
// usable ID never enter the known set.
type JobPosting struct {
	ID        string
	Title     string
	Location  string
	URL       string
	Source    string // which fetcher produced it
	FetchedAt time.Time
}
