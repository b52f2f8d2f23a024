package cache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is a TTL cache for computed agent results. Entries expire on read
// after their TTL; a background janitor sweeps leftovers.
type Store struct {
	inner *gocache.Cache
	ttl   time.Duration
}

// New creates a Store whose entries live for ttl.
func New(ttl time.Duration) *Store {
	return &Store{
		inner: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Get returns the cached value for key and whether it was present and fresh.
func (s *Store) Get(key string) (interface{}, bool) {
	return s.inner.Get(key)
}

// Set stores value under key with the Store's TTL.
func (s *Store) Set(key string, value interface{}) {
	s.inner.Set(key, value, gocache.DefaultExpiration)
}

// Delete removes key if present.
func (s *Store) Delete(key string) {
	s.inner.Delete(key)
}

// Flush drops every entry.
func (s *Store) Flush() {
	s.inner.Flush()
}

// Len reports the number of stored entries, expired ones included until swept.
func (s *Store) Len() int {
	return s.inner.ItemCount()
}

// TTL returns the Store's configured entry lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Shared instances, one per agent. TTLs follow how fast each result goes
// stale: prices move fastest, review analyses slowest.
var (
	Reviews     = New(10 * time.Minute)
	Comparisons = New(5 * time.Minute)
	Prices      = New(3 * time.Minute)
)

// ReviewKey fingerprints a review analysis request.
func ReviewKey(productID int64) string {
	return fmt.Sprintf("review_analysis_%d", productID)
}

// PriceKey fingerprints a price analysis request.
func PriceKey(productID int64) string {
	return fmt.Sprintf("price_analysis_%d", productID)
}

// ComparisonKey fingerprints a comparison request. IDs are sorted first so
// any permutation of the same products hits the same entry.
func ComparisonKey(productIDs []int64, style string) string {
	ids := make([]int64, len(productIDs))
	copy(ids, productIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("comparison_%s_%s", strings.Join(parts, "_"), style)
}
