package match

import (
	"sort"

	"jobmatch-engine/internal/domain"
)

// Rank returns a new slice ordered by score descending, ties broken by
// posting date descending (undated postings last) and then by posting
// hash ascending. The tie-break chain is total, so equal input sets
// always rank identically and ranking commutes with filtering.
func Rank(results []domain.MatchResult) []domain.MatchResult {
	out := make([]domain.MatchResult, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		return lessRanked(out[i], out[j])
	})
	return out
}

func lessRanked(a, b domain.MatchResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	at, bt := a.PostingPostedAt, b.PostingPostedAt
	switch {
	case at != nil && bt == nil:
		return true
	case at == nil && bt != nil:
		return false
	case at != nil && bt != nil && !at.Equal(*bt):
		return at.After(*bt)
	}
	return a.PostingHash < b.PostingHash
}
