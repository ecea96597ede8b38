// Package feedback holds the client-local review and star-rating
// stores. Both live entirely in this client's durable storage; there is
// no reconciliation with any server-side record.
package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/redmango/storefront/internal/storage"
)

// ReviewsKey is the durable-storage key holding the whole review map.
const ReviewsKey = "reviews"

// KV is the slice of the durable key/value store the feedback stores need.
type KV interface {
	Get(key string) (string, error)
	Put(key, value string) error
}

// Notifier surfaces transient user-facing notifications.
type Notifier interface {
	Success(msg string)
}

// ReviewStore maps item ids to their ordered review lists. The whole
// map is loaded once and rewritten to durable storage after every
// append.
type ReviewStore struct {
	kv       KV
	notifier Notifier
	reviews  map[string][]string
}

// LoadReviews reads the stored review map. An absent value yields an
// empty store, never an error.
func LoadReviews(kv KV, notifier Notifier) (*ReviewStore, error) {
	s := &ReviewStore{kv: kv, notifier: notifier, reviews: make(map[string][]string)}

	raw, err := kv.Get(ReviewsKey)
	if errors.Is(err, storage.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading reviews: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &s.reviews); err != nil {
		return nil, fmt.Errorf("decoding reviews: %w", err)
	}
	return s, nil
}

// For returns the reviews for an item in insertion order.
func (s *ReviewStore) For(itemID string) []string {
	return slices.Clone(s.reviews[itemID])
}

// Submit appends a review for an item and rewrites the stored map. An
// empty or whitespace-only review is ignored with no state change. The
// appended text is the raw input, not the trimmed form.
func (s *ReviewStore) Submit(itemID, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.reviews[itemID] = append(s.reviews[itemID], text)

	data, err := json.Marshal(s.reviews)
	if err != nil {
		return fmt.Errorf("encoding reviews: %w", err)
	}
	if err := s.kv.Put(ReviewsKey, string(data)); err != nil {
		return fmt.Errorf("storing reviews: %w", err)
	}

	s.notifier.Success("Review submitted successfully!")
	return nil
}
