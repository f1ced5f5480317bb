package config

import (
	"fmt"
	"strings"
	"time"
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

// NormalizeAndValidate trims and dedupes list fields, then checks the
// config for run-blocking errors and likely misconfigurations. The
// returned copy is the one callers should run with.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Whitelist = trimList(out.Whitelist)

	// ---- Validation rules ----

	switch out.Store.Driver {
	case "", "sqlite":
		out.Store.Driver = "sqlite"
		if strings.TrimSpace(out.Store.Path) == "" {
			out.Store.Path = Default().Store.Path
		}
	case "mongo":
		if strings.TrimSpace(out.Store.URI) == "" {
			res.addErr("store.uri is required when store.driver=mongo")
		}
		if strings.TrimSpace(out.Store.Database) == "" {
			res.addErr("store.database is required when store.driver=mongo")
		}
	default:
		res.addErr("store.driver %q is not supported (sqlite or mongo)", out.Store.Driver)
	}

	enabled := 0
	needWhitelist := false
	names := map[string]bool{}
	for i, s := range out.Sources {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			res.addErr("sources[%d].name is required", i)
			continue
		}
		if names[name] {
			res.addErr("duplicate source name %q", name)
		}
		names[name] = true

		switch s.Type {
		case "rss", "board", "api":
		default:
			res.addErr("source %q: type %q is not supported (rss, board, or api)", name, s.Type)
		}
		if strings.TrimSpace(s.URL) == "" {
			res.addErr("source %q: url is required", name)
		}
		if !s.Enabled {
			continue
		}
		enabled++
		if s.Type == "board" || s.Type == "api" {
			needWhitelist = true
		}
	}
	if enabled == 0 {
		res.addErr("no sources enabled: enable at least one rss, board, or api source")
	}
	if needWhitelist && len(out.Whitelist) == 0 {
		res.addErr("whitelist is empty but board/api sources are enabled; the gate will deny them all")
	}
	if !needWhitelist && len(out.Whitelist) == 0 && enabled > 0 {
		res.addWarn("whitelist is empty; only feed sources can pass the gate")
	}

	if out.Fetch.TimeoutSeconds < 0 {
		res.addErr("fetch.timeout_seconds must be >= 0")
	}
	if out.Fetch.PerHostRPS < 0 {
		res.addErr("fetch.per_host_rps must be >= 0")
	}
	if out.Fetch.Concurrency < 0 {
		res.addErr("fetch.concurrency must be >= 0")
	}

	if spec := strings.TrimSpace(out.Schedule.IngestEvery); spec != "" {
		d, err := time.ParseDuration(spec)
		switch {
		case err != nil:
			res.addErr("schedule.ingest_every %q is not a duration", spec)
		case d < time.Minute:
			res.addWarn("schedule.ingest_every %s is very low and may hit rate limits", d)
		}
	}

	if out.Scoring.MinScore < 0 || out.Scoring.MinScore > 100 {
		res.addErr("scoring.min_score %v out of [0,100]", out.Scoring.MinScore)
	}

	if out.AI.Enabled && out.AI.MaxRetries < 0 {
		res.addErr("ai.max_retries must be >= 0")
	}

	return out, res
}
