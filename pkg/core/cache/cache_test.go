package cache

import (
	"testing"
	"time"
)

func TestStoreSetGet(t *testing.T) {
	s := New(time.Minute)

	s.Set("k", 42)
	v, ok := s.Get("k")
	if !ok {
		t.Fatal("expected hit for freshly set key")
	}
	if v.(int) != 42 {
		t.Errorf("expected 42, got %v", v)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestStoreExpiry(t *testing.T) {
	s := New(10 * time.Millisecond)

	s.Set("k", "v")
	time.Sleep(30 * time.Millisecond)

	if _, ok := s.Get("k"); ok {
		t.Error("expected entry to expire after TTL")
	}
}

func TestStoreDeleteAndFlush(t *testing.T) {
	s := New(time.Minute)

	s.Set("a", 1)
	s.Set("b", 2)
	s.Delete("a")
	if _, ok := s.Get("a"); ok {
		t.Error("expected deleted key to miss")
	}

	s.Flush()
	if _, ok := s.Get("b"); ok {
		t.Error("expected flushed key to miss")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store after flush, got %d entries", s.Len())
	}
}

func TestReviewAndPriceKeys(t *testing.T) {
	if got := ReviewKey(101); got != "review_analysis_101" {
		t.Errorf("unexpected review key: %s", got)
	}
	if got := PriceKey(7); got != "price_analysis_7" {
		t.Errorf("unexpected price key: %s", got)
	}
}

func TestComparisonKeyOrderInvariant(t *testing.T) {
	a := ComparisonKey([]int64{3, 1, 2}, "detailed")
	b := ComparisonKey([]int64{2, 3, 1}, "detailed")
	if a != b {
		t.Errorf("expected permutation-invariant key, got %s vs %s", a, b)
	}
	if a != "comparison_1_2_3_detailed" {
		t.Errorf("unexpected key format: %s", a)
	}

	c := ComparisonKey([]int64{1, 2, 3}, "summary")
	if c == a {
		t.Error("expected style to distinguish keys")
	}
}

func TestComparisonKeyDoesNotMutateInput(t *testing.T) {
	ids := []int64{9, 4, 6}
	ComparisonKey(ids, "detailed")
	if ids[0] != 9 || ids[1] != 4 || ids[2] != 6 {
		t.Errorf("input slice mutated: %v", ids)
	}
}
