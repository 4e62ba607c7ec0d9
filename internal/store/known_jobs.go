package store

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// KnownJobs is the set of job identifiers already notified about in past
// runs. Invariant: never contains empty or sentinel identifiers.
type KnownJobs map[string]struct{}

// DropFunc reports identifiers that must never enter the known set. Empty
// identifiers are rejected unconditionally by the load and diff paths; the
// predicate only extends that to sentinels.
type DropFunc func(id string) bool

// SentinelDrop rejects empty identifiers and anything in sentinels.
// "unknown_id" is the historical default; see store.sentinel_ids in config.
func SentinelDrop(sentinels []string) DropFunc {
	set := make(map[string]struct{}, len(sentinels))
	for _, s := range sentinels {
		s = strings.TrimSpace(s)
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return func(id string) bool {
		if strings.TrimSpace(id) == "" {
			return true
		}
		_, bad := set[id]
		return bad
	}
}

// LoadKnownJobs reads the persisted identifier set. Missing file means a
// fresh start; so does anything we cannot parse, since refusing to run over
// a mangled state file would just wedge the alerting forever.
func LoadKnownJobs(path string, drop DropFunc) KnownJobs {
	out := KnownJobs{}

	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[store] warning: could not read %s, starting fresh: %v", path, err)
		}
		return out
	}

	// Accept any JSON array and keep only the string entries; the file has
	// historically contained junk from older scraper versions.
	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		log.Printf("[store] warning: could not parse %s, starting fresh: %v", path, err)
		return out
	}

	for _, v := range raw {
		id, ok := v.(string)
		if !ok {
			continue
		}
		if strings.TrimSpace(id) == "" {
			continue
		}
		if drop != nil && drop(id) {
			continue
		}
		out[id] = struct{}{}
	}
	return out
}

func (k KnownJobs) Has(id string) bool {
	_, ok := k[id]
	return ok
}

func (k KnownJobs) Add(id string) {
	k[id] = struct{}{}
}

// IDs returns the identifiers in sorted order.
func (k KnownJobs) IDs() []string {
	out := make([]string, 0, len(k))
	for id := range k {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Save writes the set as a sorted, indented JSON array, creating the parent
// directory if needed. Write-then-rename so a failed run never leaves a
// half-written state file behind.
func (k KnownJobs) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(k.IDs(), "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}

	log.Printf("[store] saved %d job ids to %s", len(k), path)
	return nil
}
