package config

import (
	"errors"
	"os"
	"path/filepath"
)

// defaultYAML is the commented config written on first run so a user
// has something concrete to edit.
const defaultYAML = `# jobmatch-engine configuration
app:
  data_dir: .

store:
  driver: sqlite        # sqlite | mongo
  path: jobmatch.db     # sqlite file, relative to data_dir
  # uri: mongodb://localhost:27017
  # database: jobmatch

# Hosts board/api sources may be fetched from. Feeds are always allowed.
whitelist:
  - jobs.acme.com

sources:
  - name: acme-rss
    type: rss
    url: https://jobs.acme.com/feed.xml
    enabled: false
  - name: acme-board
    type: board
    url: https://jobs.acme.com/careers
    company: Acme
    enabled: false
  - name: acme-api
    type: api
    url: https://jobs.acme.com/api/postings
    company: Acme
    enabled: false
    # token_env: ACME_API_TOKEN

fetch:
  timeout_seconds: 20
  per_host_rps: 1
  burst: 2
  concurrency: 4

schedule:
  ingest_every: 2h
  match_cron: "0 7 * * *"

scoring:
  # weights_file: weights.yml
  min_score: 40
  top_n: 20

skills:
  # catalog_file: skills.yml

profiles:
  dir: profiles
  # default: me

events:
  # amqp_uri_env: ENGINE_AMQP_URI

ai:
  enabled: false
  model: gemini-2.5-flash
  max_retries: 2
  # key_env: GEMINI_API_KEY
`

// EnsureDefault writes the commented default config into dataDir when
// none exists yet and returns its path.
func EnsureDefault(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(userPath, []byte(defaultYAML), 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}
