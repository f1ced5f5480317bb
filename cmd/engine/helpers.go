package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobmatch-engine/internal/ai/gemini"
	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/events"
	"jobmatch-engine/internal/feed"
	"jobmatch-engine/internal/feed/api"
	"jobmatch-engine/internal/feed/board"
	"jobmatch-engine/internal/feed/rss"
	"jobmatch-engine/internal/ingest"
	"jobmatch-engine/internal/logger"
	"jobmatch-engine/internal/match"
	"jobmatch-engine/internal/profile"
	"jobmatch-engine/internal/secrets"
	"jobmatch-engine/internal/skillgap"
	"jobmatch-engine/internal/source"
	"jobmatch-engine/internal/store"
	"jobmatch-engine/internal/store/mongostore"
	"jobmatch-engine/internal/store/sqlitestore"
)

// deps is the wired engine: everything a command needs, built once per
// invocation from the validated config.
type deps struct {
	cfg      config.Config
	log      *zap.Logger
	store    store.Store
	gate     *source.Gate
	fetchers []feed.Fetcher
	hub      *events.Hub
	runner   *ingest.Runner
	weights  match.ScoringWeights
	catalog  *skillgap.Catalog
	profiles *profile.FileAccessor
}

func (d *deps) Close() {
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.log.Warn("closing store", zap.Error(err))
		}
	}
	_ = d.log.Sync()
}

func buildDeps(ctx context.Context) (*deps, error) {
	zl, err := logger.New(viper.GetBool("json-log"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	raw, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}
	cfg, validation := config.NormalizeAndValidate(raw)
	for _, w := range validation.Warnings {
		zl.Warn("config", zap.String("warning", w))
	}
	if !validation.OK() {
		for _, e := range validation.Errors {
			zl.Error("config", zap.String("error", e))
		}
		return nil, fmt.Errorf("config has %d error(s)", len(validation.Errors))
	}

	if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	weights := match.DefaultWeights()
	if cfg.Scoring.WeightsFile != "" {
		weights, err = match.LoadWeights(resolvePath(cfg.App.DataDir, cfg.Scoring.WeightsFile))
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	catalog := skillgap.DefaultCatalog()
	if cfg.Skills.CatalogFile != "" {
		catalog, err = skillgap.LoadCatalog(resolvePath(cfg.App.DataDir, cfg.Skills.CatalogFile))
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	client := feed.NewClient(
		time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second,
		cfg.Fetch.PerHostRPS,
		cfg.Fetch.Burst,
	)
	fetchers := buildFetchers(cfg, client, zl)

	hub := events.NewHub()
	coord := ingest.NewCoordinator(ingest.Params{
		Gate:        source.NewGate(cfg.Whitelist),
		Store:       st,
		Hub:         hub,
		Log:         zl,
		Concurrency: cfg.Fetch.Concurrency,
		Enricher:    buildEnricher(ctx, cfg, zl),
	})

	return &deps{
		cfg:      cfg,
		log:      zl,
		store:    st,
		gate:     source.NewGate(cfg.Whitelist),
		fetchers: fetchers,
		hub:      hub,
		runner:   ingest.NewRunner(coord, fetchers, zl),
		weights:  weights,
		catalog:  catalog,
		profiles: profile.NewFileAccessor(resolvePath(cfg.App.DataDir, cfg.Profiles.Dir)),
	}, nil
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "mongo":
		return mongostore.Open(ctx, cfg.Store.URI, cfg.Store.Database)
	default:
		return sqlitestore.Open(resolvePath(cfg.App.DataDir, cfg.Store.Path))
	}
}

func buildFetchers(cfg config.Config, client *feed.Client, zl *zap.Logger) []feed.Fetcher {
	var out []feed.Fetcher
	for _, s := range cfg.EnabledSources() {
		switch s.Type {
		case "rss":
			out = append(out, rss.New(s.Name, s.URL, client))
		case "board":
			out = append(out, board.New(board.Config{
				Name:             s.Name,
				Company:          s.Company,
				URL:              s.URL,
				RowSelector:      s.Board.RowSelector,
				LinkContains:     s.Board.LinkContains,
				LocationSelector: s.Board.LocationSelector,
			}, client))
		case "api":
			token, err := loadSourceToken(s)
			if err != nil {
				zl.Warn("skipping api source, token unavailable",
					zap.String("source", s.Name), zap.Error(err))
				continue
			}
			out = append(out, api.New(api.Config{
				Name:    s.Name,
				Company: s.Company,
				URL:     s.URL,
				Token:   token,
			}, client))
		}
	}
	return out
}

// loadSourceToken resolves the optional bearer token of an api source.
// A source with no token reference configured runs unauthenticated.
func loadSourceToken(s config.SourceConfig) (string, error) {
	if s.TokenFile == "" && s.TokenEnv == "" && s.TokenAccount == "" {
		return "", nil
	}
	return secrets.Load(secrets.Source{
		Name:           fmt.Sprintf("%s api token", s.Name),
		File:           s.TokenFile,
		Env:            s.TokenEnv,
		KeyringAccount: s.TokenAccount,
	})
}

// buildEnricher wires the optional Gemini skill extractor. Any setup
// failure disables enrichment; ingestion must not depend on it.
func buildEnricher(ctx context.Context, cfg config.Config, zl *zap.Logger) ingest.Enricher {
	if !cfg.AI.Enabled {
		return nil
	}
	key, err := secrets.Load(secrets.Source{
		Name:           "gemini api key",
		File:           cfg.AI.KeyFile,
		Env:            cfg.AI.KeyEnv,
		KeyringAccount: cfg.AI.KeyAccount,
	})
	if err != nil {
		zl.Warn("ai enrichment disabled", zap.Error(err))
		return nil
	}
	client, err := gemini.NewClient(ctx, key, cfg.AI.Model, cfg.AI.MaxRetries, zl)
	if err != nil {
		zl.Warn("ai enrichment disabled", zap.Error(err))
		return nil
	}
	return gemini.NewExtractor(client, 10, zl)
}

// amqpURI resolves the optional event-bridge URI; empty means the
// bridge stays disabled.
func amqpURI(cfg config.Config) string {
	ev := cfg.Events
	if ev.AMQPURIFile == "" && ev.AMQPURIEnv == "" && ev.AMQPURIAccount == "" {
		return ""
	}
	uri, err := secrets.Load(secrets.Source{
		Name:           "amqp uri",
		File:           ev.AMQPURIFile,
		Env:            ev.AMQPURIEnv,
		KeyringAccount: ev.AMQPURIAccount,
	})
	if err != nil {
		return ""
	}
	return uri
}

func resolvePath(dataDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}

func writeJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
