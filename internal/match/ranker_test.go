package match

import (
	"reflect"
	"testing"
	"time"

	"jobmatch-engine/internal/domain"
)

func result(hash string, score float64, posted *time.Time) domain.MatchResult {
	return domain.MatchResult{
		ProfileID:       "me",
		PostingHash:     hash,
		Score:           score,
		PostingPostedAt: posted,
	}
}

func rankFixture() []domain.MatchResult {
	older := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	return []domain.MatchResult{
		result("cc", 70, &older),
		result("aa", 90, nil),
		result("bb", 70, &newer),
		result("dd", 70, nil),
		result("ee", 95, &older),
		result("ff", 70, &newer),
	}
}

func TestRankOrder(t *testing.T) {
	got := Rank(rankFixture())

	if len(got) != 6 {
		t.Fatalf("length changed: %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Fatalf("not non-increasing at %d: %v after %v", i, got[i].Score, got[i-1].Score)
		}
	}

	wantHashes := []string{"ee", "aa", "bb", "ff", "cc", "dd"}
	for i, want := range wantHashes {
		if got[i].PostingHash != want {
			t.Fatalf("position %d = %s, want %s (full order %v)", i, got[i].PostingHash, want, hashes(got))
		}
	}
}

func TestRankPreservesInput(t *testing.T) {
	in := rankFixture()
	snapshot := make([]domain.MatchResult, len(in))
	copy(snapshot, in)

	Rank(in)
	if !reflect.DeepEqual(in, snapshot) {
		t.Fatal("input slice was reordered in place")
	}
}

func TestRankDeterministic(t *testing.T) {
	a := Rank(rankFixture())
	b := Rank(rankFixture())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same input ranked differently:\n%v\n%v", hashes(a), hashes(b))
	}
}

func TestRankMultisetPreserved(t *testing.T) {
	in := rankFixture()
	got := Rank(in)

	count := func(rs []domain.MatchResult) map[string]int {
		m := map[string]int{}
		for _, r := range rs {
			m[r.PostingHash]++
		}
		return m
	}
	if !reflect.DeepEqual(count(in), count(got)) {
		t.Fatalf("multiset changed: %v vs %v", count(in), count(got))
	}
}

func TestRankCommutesWithFiltering(t *testing.T) {
	in := rankFixture()
	keep := func(r domain.MatchResult) bool { return r.Score >= 70 && r.PostingPostedAt != nil }

	filter := func(rs []domain.MatchResult) []domain.MatchResult {
		var out []domain.MatchResult
		for _, r := range rs {
			if keep(r) {
				out = append(out, r)
			}
		}
		return out
	}

	rankedThenFiltered := filter(Rank(in))
	filteredThenRanked := Rank(filter(in))
	if !reflect.DeepEqual(rankedThenFiltered, filteredThenRanked) {
		t.Fatalf("filter does not commute:\n%v\n%v",
			hashes(rankedThenFiltered), hashes(filteredThenRanked))
	}
}

func hashes(rs []domain.MatchResult) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.PostingHash
	}
	return out
}
