package kv

import "github.com/tanglekit/nodeclient/internal/strcomp"

type Pair struct {
	Key, Value string
}

// Storage keeps response header fields as an ordered list of pairs and
// looks them up by linear scan. Responses carry few headers, where
// scanning beats hashing, and insertion order is preserved for free.
// Lookups are case-insensitive, as header names are.
type Storage struct {
	pairs []Pair
}

func New() *Storage {
	return new(Storage)
}

// NewPrealloc returns a Storage with room for n pairs.
func NewPrealloc(n int) *Storage {
	return &Storage{
		pairs: make([]Pair, 0, n),
	}
}

// Add appends a pair. Duplicate keys are kept; Value returns the first.
func (s *Storage) Add(key, value string) *Storage {
	s.pairs = append(s.pairs, Pair{
		Key:   key,
		Value: value,
	})

	return s
}

// Value returns the first value for the key, or an empty string.
func (s *Storage) Value(key string) string {
	return s.ValueOr(key, "")
}

// ValueOr returns the first value for the key, or the fallback.
func (s *Storage) ValueOr(key, or string) string {
	value, found := s.Get(key)
	if !found {
		return or
	}

	return value
}

// Get returns the first value for the key and whether it was found.
func (s *Storage) Get(key string) (string, bool) {
	for _, pair := range s.pairs {
		if strcomp.EqualFold(pair.Key, key) {
			return pair.Value, true
		}
	}

	return "", false
}

// Values collects every value stored under the key.
func (s *Storage) Values(key string) (values []string) {
	for _, pair := range s.pairs {
		if strcomp.EqualFold(pair.Key, key) {
			values = append(values, pair.Value)
		}
	}

	return values
}

func (s *Storage) Has(key string) bool {
	_, found := s.Get(key)
	return found
}

// Keys returns all keys in insertion order, first occurrences only.
func (s *Storage) Keys() (keys []string) {
	for _, pair := range s.pairs {
		if !containsFold(keys, pair.Key) {
			keys = append(keys, pair.Key)
		}
	}

	return keys
}

// Pairs exposes the underlying pairs in insertion order.
func (s *Storage) Pairs() []Pair {
	return s.pairs
}

func (s *Storage) Len() int {
	return len(s.pairs)
}

func containsFold(strs []string, key string) bool {
	for _, str := range strs {
		if strcomp.EqualFold(str, key) {
			return true
		}
	}

	return false
}
