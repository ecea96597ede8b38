package feedback

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/redmango/storefront/internal/session"
)

// RatingKey derives the durable-storage key for an item's rating.
func RatingKey(itemID string) string {
	return "rating-" + itemID
}

// Sessions provides read access to the authenticated session.
type Sessions interface {
	Current() session.Session
}

// RatingStore holds one 1–5 star rating per item for this client.
// Later writes overwrite earlier ones; there is no history. Writes are
// gated on an authenticated session: without one a submission is
// ignored entirely, with no state change and no notification.
type RatingStore struct {
	kv       KV
	sessions Sessions
	notifier Notifier
	ratings  map[string]int
}

func NewRatingStore(kv KV, sessions Sessions, notifier Notifier) *RatingStore {
	return &RatingStore{kv: kv, sessions: sessions, notifier: notifier, ratings: make(map[string]int)}
}

// Get returns the stored rating for an item. Absence (or an unreadable
// stored value) is reported as ok=false, never an error.
func (s *RatingStore) Get(itemID string) (int, bool) {
	if v, ok := s.ratings[itemID]; ok {
		return v, true
	}

	raw, err := s.kv.Get(RatingKey(itemID))
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	s.ratings[itemID] = n
	return n, true
}

// Submit overwrites the rating for an item and rewrites the stored
// value. Unauthenticated submissions are silently ignored.
func (s *RatingStore) Submit(itemID string, stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("rating must be between 1 and 5 stars, got %d", stars)
	}
	if !s.sessions.Current().Authenticated() {
		return nil
	}

	s.ratings[itemID] = stars
	if err := s.kv.Put(RatingKey(itemID), strconv.Itoa(stars)); err != nil {
		return fmt.Errorf("storing rating: %w", err)
	}

	s.notifier.Success("Your star rating submitted successfully!")
	return nil
}
