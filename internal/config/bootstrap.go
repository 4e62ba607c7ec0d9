package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

const defaultConfigYAML = `app:
  data_dir: ""

source:
  name: careers
  listing_url: "https://jobs.careers.microsoft.com/global/en/search?l=en_us&pg=1"
  job_selector: ""
  hydrate_details: true
  max_hydrate: 4

mail:
  host: smtp.gmail.com
  port: 587
  from: ""
  to: ""

store:
  known_jobs_file: ""
  sentinel_ids:
    - unknown_id
  archive_enabled: true
`

// EnsureUserConfig makes sure a config file exists in the data dir. A default
// file shipped next to the binary is copied in if present; otherwise the baked
// in defaults are written so a bare checkout still runs.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	src, err := os.Open(defaultPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		if werr := os.WriteFile(userPath, []byte(defaultConfigYAML), 0o644); werr != nil {
			return "", werr
		}
		return userPath, nil
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}
