// Package detect holds the new-posting detection: a set difference over job
// identifiers with the known set updated in place.
package detect

import (
	"strings"

	"jobalert/internal/domain"
	"jobalert/internal/store"
)

// Diff returns the postings whose identifier is not yet in known, in scrape
// order, and merges every acceptable identifier into known so the set stays
// current. A posting without an identifier is never reported as new and
// never persisted, predicate or not; without a stable key a repeat
// notification every run would be worse than silence. The drop predicate
// additionally rejects sentinel identifiers.
func Diff(current []domain.JobPosting, known store.KnownJobs, drop store.DropFunc) []domain.JobPosting {
	var fresh []domain.JobPosting

	for _, p := range current {
		if strings.TrimSpace(p.ID) == "" {
			continue
		}
		if drop != nil && drop(p.ID) {
			continue
		}
		if !known.Has(p.ID) {
			fresh = append(fresh, p)
		}
		known.Add(p.ID)
	}

	return fresh
}
