package usecase

import (
	"strings"
	"testing"
)

func TestRecommendationCacheKey_Stable(t *testing.T) {
	p := strongProfile()

	a := RecommendationCacheKey(p, 3)
	b := RecommendationCacheKey(p, 3)
	if a != b {
		t.Fatalf("same profile and generation produced different keys: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "loans:rec:") {
		t.Fatalf("key missing namespace prefix: %s", a)
	}
}

func TestRecommendationCacheKey_VariesWithGeneration(t *testing.T) {
	p := strongProfile()

	if RecommendationCacheKey(p, 1) == RecommendationCacheKey(p, 2) {
		t.Fatalf("new model generation must invalidate old keys")
	}
}

func TestRecommendationCacheKey_VariesWithProfile(t *testing.T) {
	p := strongProfile()
	q := strongProfile()
	q.Salary = p.Salary + 1

	if RecommendationCacheKey(p, 1) == RecommendationCacheKey(q, 1) {
		t.Fatalf("distinct profiles must not share a key")
	}
}
