package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus anything worth telling
// the user about before a run.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			if seen[x] {
				continue
			}
			seen[x] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Source.Name = strings.TrimSpace(out.Source.Name)
	if out.Source.Name == "" {
		out.Source.Name = "careers"
	}
	out.Source.ListingURL = strings.TrimSpace(out.Source.ListingURL)
	out.Store.SentinelIDs = trimList(out.Store.SentinelIDs)

	if out.Source.MaxHydrate <= 0 {
		out.Source.MaxHydrate = 4
	}

	// ---- Validation rules ----

	if out.Source.ListingURL == "" {
		res.addErr("source.listing_url is required")
	} else if u, err := url.Parse(out.Source.ListingURL); err != nil || u.Scheme == "" || u.Host == "" {
		res.addErr("source.listing_url is not an absolute URL: %q", out.Source.ListingURL)
	}

	if out.Mail.Host == "" {
		res.addErr("mail.host is required")
	}
	if out.Mail.Port <= 0 || out.Mail.Port > 65535 {
		res.addErr("mail.port must be 1..65535")
	}

	// Missing sender/recipient is not an error: the notifier no-ops and the
	// run still records what it saw.
	if strings.TrimSpace(out.Mail.From) == "" {
		res.addWarn("mail.from / EMAIL_ADDRESS not set; notifications will be skipped.")
	}
	if strings.TrimSpace(out.Mail.To) == "" {
		res.addWarn("mail.to / NOTIFY_EMAIL not set; notifications will be skipped.")
	}

	if len(out.Store.SentinelIDs) == 0 {
		res.addWarn("store.sentinel_ids is empty; placeholder identifiers from the scraper will be persisted.")
	}
	if out.Source.JobSelector == "" {
		res.addWarn("source.job_selector is empty; falling back to scanning every anchor on the listing page.")
	}

	return out, res
}
