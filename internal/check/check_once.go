// Package check runs one fetch/diff/notify/persist cycle.
package check

import (
	"context"
	"log"

	"jobalert/internal/detect"
	"jobalert/internal/domain"
	"jobalert/internal/notify"
	"jobalert/internal/scrape"
	"jobalert/internal/store"
)

// Deps carries everything one run needs; injected for testability.
type Deps struct {
	Fetcher  scrape.Fetcher
	Notifier notify.Notifier

	KnownJobsPath string
	Drop          store.DropFunc

	Archive *store.DB // nil disables archiving
}

type RunReport struct {
	Loaded   int // ids in the known set at start
	Found    int // postings on the page
	New      int // postings not seen before
	Archived int
	Notified bool
	Saved    bool
}

// CheckOnce is the whole pipeline: load known set, fetch, diff, notify,
// persist. Failure handling follows three rules: a broken state file means a
// fresh start, a failed or empty fetch ends the run without touching
// storage, and a failed notification never blocks persistence.
func CheckOnce(ctx context.Context, d Deps) RunReport {
	var rep RunReport

	known := store.LoadKnownJobs(d.KnownJobsPath, d.Drop)
	rep.Loaded = len(known)
	log.Printf("[check] loaded %d previously seen job ids", rep.Loaded)

	current, err := d.Fetcher.Fetch(ctx)
	if err != nil {
		log.Printf("[scrape:%s] error: %v", d.Fetcher.Name(), err)
		log.Printf("[check] no postings scraped; leaving persisted state untouched")
		return rep
	}
	if len(current) == 0 {
		log.Printf("[scrape:%s] found no postings; the page structure may have changed", d.Fetcher.Name())
		log.Printf("[check] leaving persisted state untouched")
		return rep
	}
	rep.Found = len(current)
	log.Printf("[scrape:%s] found %d postings", d.Fetcher.Name(), rep.Found)

	if d.Archive != nil {
		rep.Archived = archiveAll(ctx, d, current)
	}

	fresh := detect.Diff(current, known, d.Drop)
	rep.New = len(fresh)

	if len(fresh) > 0 {
		for _, p := range fresh {
			log.Printf("[check] NEW: %s (%s) %s", p.Title, p.Location, p.URL)
		}
		if err := d.Notifier.Notify(ctx, fresh); err != nil {
			// non-fatal: the updated set is still persisted below
			log.Printf("[notify] error: %v", err)
		} else {
			rep.Notified = true
		}
	} else {
		log.Printf("[check] no new postings since last run")
	}

	if err := known.Save(d.KnownJobsPath); err != nil {
		log.Printf("[store] error saving known jobs: %v", err)
	} else {
		rep.Saved = true
	}

	return rep
}

// archiveAll records every posting with a usable id. Archive trouble is
// logged and otherwise ignored; it must never abort a run.
func archiveAll(ctx context.Context, d Deps, current []domain.JobPosting) int {
	archived := 0
	for _, p := range current {
		if d.Drop != nil && d.Drop(p.ID) {
			continue
		}
		added, err := store.InsertPostingIgnore(ctx, d.Archive.Pool, p)
		if err != nil {
			log.Printf("[store] archive insert error id=%q: %v", p.ID, err)
			continue
		}
		if added {
			archived++
		}
	}
	return archived
}
