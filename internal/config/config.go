package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Source struct {
		Name           string `yaml:"name"`
		ListingURL     string `yaml:"listing_url"`
		JobSelector    string `yaml:"job_selector"` // CSS selector for job anchors; empty scans all anchors
		HydrateDetails bool   `yaml:"hydrate_details"`
		MaxHydrate     int    `yaml:"max_hydrate"` // concurrent detail-page fetches
	} `yaml:"source"`

	Mail struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		From string `yaml:"from"`
		To   string `yaml:"to"`
	} `yaml:"mail"`

	Store struct {
		KnownJobsFile  string   `yaml:"known_jobs_file"`
		SentinelIDs    []string `yaml:"sentinel_ids"`
		ArchiveEnabled bool     `yaml:"archive_enabled"`
	} `yaml:"store"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// ApplyEnv overlays mail settings from the environment. Env wins over YAML
// so the same config file works across machines.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv("EMAIL_ADDRESS"); v != "" {
		cfg.Mail.From = v
	}
	if v := os.Getenv("NOTIFY_EMAIL"); v != "" {
		cfg.Mail.To = v
	}
	return cfg
}
