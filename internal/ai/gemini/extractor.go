package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"jobmatch-engine/internal/normalize"
)

// generator is what the extractor needs from the client; tests supply
// a canned implementation.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Extractor asks the model for skill tags and keeps only answers the
// fixed vocabulary recognizes, so enrichment can widen a posting's tag
// set but never invent tags scoring has no rules for.
type Extractor struct {
	gen     generator
	limiter *rate.Limiter
	log     *zap.Logger
}

func NewExtractor(gen generator, requestsPerMinute int, log *zap.Logger) *Extractor {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 10
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		gen:     gen,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), 1),
		log:     log,
	}
}

const extractPrompt = `List the technical and professional skills required by this job posting.
Respond with only a JSON array of lowercase skill names, nothing else.

Title: %s

Description:
%s`

// ExtractSkills returns the vocabulary subset of the model's answer,
// sorted. Callers treat any error as "keep the posting un-enriched".
func (e *Extractor) ExtractSkills(ctx context.Context, title, description string) ([]string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if len(description) > 4000 {
		description = description[:4000]
	}
	out, err := e.gen.Generate(ctx, fmt.Sprintf(extractPrompt, title, description))
	if err != nil {
		return nil, err
	}

	tags, err := parseTags(out)
	if err != nil {
		return nil, err
	}
	e.log.Debug("skills extracted", zap.String("title", title), zap.Strings("tags", tags))
	return tags, nil
}

// parseTags decodes the model output, tolerating a markdown code fence
// around the array, and folds each entry onto the vocabulary.
func parseTags(out string) ([]string, error) {
	out = strings.TrimSpace(out)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	out = strings.TrimSpace(out)

	var raw []string
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		return nil, fmt.Errorf("parse skills response: %w", err)
	}

	seen := map[string]bool{}
	var tags []string
	for _, r := range raw {
		tag, ok := normalize.CanonicalTag(r)
		if !ok || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}
