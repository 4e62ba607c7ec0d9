package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"jobalert/internal/check"
	"jobalert/internal/config"
	"jobalert/internal/notify"
	"jobalert/internal/scrape/careers"
	"jobalert/internal/secrets"
	"jobalert/internal/store"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
)

var (
	setPassword    = flag.Bool("set-password", false, "store the SMTP password in the OS keychain and exit")
	deletePassword = flag.Bool("delete-password", false, "remove the SMTP password from the OS keychain and exit")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	// Data dir: use env if provided (cron units can pass one), else local folder.
	dataDir := os.Getenv("JOBALERT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfg = config.ApplyEnv(cfg)

	cfg, res := config.NormalizeAndValidate(cfg)
	for _, w := range res.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !res.OK() {
		log.Fatalf("[config] invalid:\n- %s", strings.Join(res.Errors, "\n- "))
	}
	if cfg.App.DataDir != "" {
		dataDir = cfg.App.DataDir
	}

	if *setPassword || *deletePassword {
		manageKeychain(cfg, *setPassword)
		return
	}

	// One run at a time per data dir: last writer wins on the state file, so
	// overlapping runs would silently lose ids.
	lock := flock.New(filepath.Join(dataDir, "jobalert.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("run lock failed: %v", err)
	}
	if !locked {
		log.Printf("[main] another run holds the lock for %s; exiting", dataDir)
		return
	}
	defer func() { _ = lock.Unlock() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var archive *store.DB
	if cfg.Store.ArchiveEnabled {
		archive, err = store.Open(filepath.Join(dataDir, "jobalert.db"))
		if err != nil {
			log.Printf("[store] archive unavailable, continuing without it: %v", err)
			archive = nil
		} else {
			defer archive.Close()
			if err := store.Migrate(archive.Pool); err != nil {
				log.Printf("[store] archive migrate failed, continuing without it: %v", err)
				_ = archive.Close()
				archive = nil
			}
		}
	}

	knownPath := cfg.Store.KnownJobsFile
	if knownPath == "" {
		knownPath = filepath.Join(dataDir, "known_jobs.json")
	}

	deps := check.Deps{
		Fetcher: careers.New(careers.Config{
			Name:           cfg.Source.Name,
			ListingURL:     cfg.Source.ListingURL,
			JobSelector:    cfg.Source.JobSelector,
			HydrateDetails: cfg.Source.HydrateDetails,
			MaxHydrate:     cfg.Source.MaxHydrate,
		}),
		Notifier:      notify.NewMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.From, cfg.Mail.To),
		KnownJobsPath: knownPath,
		Drop:          store.SentinelDrop(cfg.Store.SentinelIDs),
		Archive:       archive,
	}

	log.Printf("[main] checking %s (%s)", cfg.Source.Name, cfg.Source.ListingURL)
	rep := check.CheckOnce(ctx, deps)
	log.Printf("[main] run complete: found=%d new=%d archived=%d notified=%v saved=%v",
		rep.Found, rep.New, rep.Archived, rep.Notified, rep.Saved)

	if archive != nil {
		if n, err := store.CountPostings(ctx, archive.Pool); err == nil {
			log.Printf("[store] archive holds %d postings", n)
		}
	}
}

// manageKeychain stores or removes the SMTP credential under the same
// account key the mailer looks up at send time.
func manageKeychain(cfg config.Config, set bool) {
	from := strings.TrimSpace(cfg.Mail.From)
	if from == "" {
		log.Fatal("mail.from / EMAIL_ADDRESS is required to key the keychain entry")
	}
	account := secrets.SMTPKeyringAccount(from, cfg.Mail.Host)

	if !set {
		if err := secrets.DeleteSMTPPassword(account); err != nil {
			log.Fatalf("keychain delete failed: %v", err)
		}
		log.Printf("[secrets] removed SMTP password for %s", account)
		return
	}

	fmt.Fprintf(os.Stderr, "SMTP password for %s: ", from)
	pw, err := readLine(os.Stdin)
	if err != nil {
		log.Fatalf("read password: %v", err)
	}
	if err := secrets.SetSMTPPassword(account, pw); err != nil {
		log.Fatalf("keychain store failed: %v", err)
	}
	log.Printf("[secrets] stored SMTP password for %s", account)
}

func readLine(r io.Reader) (string, error) {
	s := bufio.NewScanner(r)
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return "", err
		}
		return "", errors.New("no input")
	}
	return strings.TrimSpace(s.Text()), nil
}
