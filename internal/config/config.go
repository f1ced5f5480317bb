// Package config holds the engine's immutable runtime configuration.
// The CLI loads it once through viper and hands values to components at
// construction; nothing reads config globally after startup.
package config

import (
	"fmt"
	"strings"
	"time"
)

type AppConfig struct {
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

type StoreConfig struct {
	Driver   string `mapstructure:"driver" yaml:"driver"` // sqlite | mongo
	Path     string `mapstructure:"path" yaml:"path"`     // sqlite file, relative to data_dir
	URI      string `mapstructure:"uri" yaml:"uri"`       // mongo connection string
	Database string `mapstructure:"database" yaml:"database"`
}

// BoardConfig carries the CSS selector overrides for an HTML board
// source. Zero values fall back to greenhouse-style defaults.
type BoardConfig struct {
	RowSelector      string `mapstructure:"row_selector" yaml:"row_selector"`
	LinkContains     string `mapstructure:"link_contains" yaml:"link_contains"`
	LocationSelector string `mapstructure:"location_selector" yaml:"location_selector"`
}

// SourceConfig describes one ingestion source. Token* locate an
// optional bearer token for api sources via the secrets chain; the
// token itself never lives in this file.
type SourceConfig struct {
	Name         string      `mapstructure:"name" yaml:"name"`
	Type         string      `mapstructure:"type" yaml:"type"` // rss | board | api
	URL          string      `mapstructure:"url" yaml:"url"`
	Company      string      `mapstructure:"company" yaml:"company"`
	Enabled      bool        `mapstructure:"enabled" yaml:"enabled"`
	TokenFile    string      `mapstructure:"token_file" yaml:"token_file"`
	TokenEnv     string      `mapstructure:"token_env" yaml:"token_env"`
	TokenAccount string      `mapstructure:"token_account" yaml:"token_account"`
	Board        BoardConfig `mapstructure:"board" yaml:"board"`
}

type FetchConfig struct {
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	PerHostRPS     float64 `mapstructure:"per_host_rps" yaml:"per_host_rps"`
	Burst          int     `mapstructure:"burst" yaml:"burst"`
	Concurrency    int     `mapstructure:"concurrency" yaml:"concurrency"`
}

type ScheduleConfig struct {
	IngestEvery string `mapstructure:"ingest_every" yaml:"ingest_every"` // Go duration, e.g. 2h
	MatchCron   string `mapstructure:"match_cron" yaml:"match_cron"`     // cron spec, e.g. "0 7 * * *"
}

type ScoringConfig struct {
	WeightsFile string  `mapstructure:"weights_file" yaml:"weights_file"`
	MinScore    float64 `mapstructure:"min_score" yaml:"min_score"`
	TopN        int     `mapstructure:"top_n" yaml:"top_n"`
}

type SkillsConfig struct {
	CatalogFile string `mapstructure:"catalog_file" yaml:"catalog_file"`
}

type ProfilesConfig struct {
	Dir     string `mapstructure:"dir" yaml:"dir"`
	Default string `mapstructure:"default" yaml:"default"` // profile id the scheduled match batch uses
}

type EventsConfig struct {
	AMQPURIFile    string `mapstructure:"amqp_uri_file" yaml:"amqp_uri_file"`
	AMQPURIEnv     string `mapstructure:"amqp_uri_env" yaml:"amqp_uri_env"`
	AMQPURIAccount string `mapstructure:"amqp_uri_account" yaml:"amqp_uri_account"`
}

type AIConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Model      string `mapstructure:"model" yaml:"model"`
	MaxRetries int    `mapstructure:"max_retries" yaml:"max_retries"`
	KeyFile    string `mapstructure:"key_file" yaml:"key_file"`
	KeyEnv     string `mapstructure:"key_env" yaml:"key_env"`
	KeyAccount string `mapstructure:"key_account" yaml:"key_account"`
}

type Config struct {
	App       AppConfig      `mapstructure:"app" yaml:"app"`
	Store     StoreConfig    `mapstructure:"store" yaml:"store"`
	Whitelist []string       `mapstructure:"whitelist" yaml:"whitelist"`
	Sources   []SourceConfig `mapstructure:"sources" yaml:"sources"`
	Fetch     FetchConfig    `mapstructure:"fetch" yaml:"fetch"`
	Schedule  ScheduleConfig `mapstructure:"schedule" yaml:"schedule"`
	Scoring   ScoringConfig  `mapstructure:"scoring" yaml:"scoring"`
	Skills    SkillsConfig   `mapstructure:"skills" yaml:"skills"`
	Profiles  ProfilesConfig `mapstructure:"profiles" yaml:"profiles"`
	Events    EventsConfig   `mapstructure:"events" yaml:"events"`
	AI        AIConfig       `mapstructure:"ai" yaml:"ai"`
}

// Default returns the built-in configuration a fresh install runs with.
func Default() Config {
	return Config{
		App:   AppConfig{DataDir: "."},
		Store: StoreConfig{Driver: "sqlite", Path: "jobmatch.db", Database: "jobmatch"},
		Fetch: FetchConfig{
			TimeoutSeconds: 20,
			PerHostRPS:     1,
			Burst:          2,
			Concurrency:    4,
		},
		Schedule: ScheduleConfig{
			IngestEvery: "2h",
			MatchCron:   "0 7 * * *",
		},
		Scoring:  ScoringConfig{MinScore: 40, TopN: 20},
		Profiles: ProfilesConfig{Dir: "profiles"},
		AI:       AIConfig{Model: "gemini-2.5-flash", MaxRetries: 2},
	}
}

// IngestInterval parses schedule.ingest_every, falling back to the
// default when unset.
func (c Config) IngestInterval() (time.Duration, error) {
	spec := strings.TrimSpace(c.Schedule.IngestEvery)
	if spec == "" {
		spec = Default().Schedule.IngestEvery
	}
	d, err := time.ParseDuration(spec)
	if err != nil {
		return 0, fmt.Errorf("schedule.ingest_every %q: %w", spec, err)
	}
	return d, nil
}

// EnabledSources returns the sources a batch will attempt, in config
// order.
func (c Config) EnabledSources() []SourceConfig {
	var out []SourceConfig
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
