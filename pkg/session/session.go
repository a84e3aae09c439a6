// Package session tracks sweeps registered with the API server.
//
// A session holds the validated options of one remotely driven sweep and
// which of its pages have been composed. Sessions expire after a period
// without steps, so abandoned sweeps do not hold memory forever.
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess := session.New(opts, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    // errors.Is(err, session.ErrNotFound) for unknown or expired ids
//	}
package session

import (
	"context"
	"errors"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/xyplot/pkg/pipeline"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long a sweep may go without a step before it expires.
const DefaultTTL = 24 * time.Hour

// Session is one registered sweep.
type Session struct {
	ID        string           `json:"id"`
	Options   pipeline.Options `json:"options"`
	Completed []int            `json:"completed"` // 0-based numbers of composed pages, sorted
	TTL       time.Duration    `json:"ttl"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// New creates a session with a fresh id for validated options.
func New(opts pipeline.Options, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Options:   opts,
		TTL:       ttl,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session by its TTL.
func (s *Session) Touch() {
	s.ExpiresAt = time.Now().Add(s.TTL)
}

// MarkComplete records page as composed. It reports false when the page
// was already recorded, as happens when a driver redoes a page.
func (s *Session) MarkComplete(page int) bool {
	i := sort.SearchInts(s.Completed, page)
	if i < len(s.Completed) && s.Completed[i] == page {
		return false
	}
	s.Completed = slices.Insert(s.Completed, i, page)
	return true
}

// Restart forgets all composed pages.
func (s *Session) Restart() {
	s.Completed = nil
}

// Done reports whether every page of the sweep has been composed.
func (s *Session) Done() bool {
	return len(s.Completed) >= s.Options.TotalPages()
}

func (s *Session) clone() *Session {
	cp := *s
	cp.Completed = slices.Clone(s.Completed)
	return &cp
}

// Store is the interface for session storage backends.
type Store interface {
	// Get returns a copy of the session. Unknown and expired sessions
	// return ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Update applies fn to the stored session atomically and returns the
	// updated copy.
	Update(ctx context.Context, id string, fn func(*Session)) (*Session, error)

	// Delete removes a session. It returns ErrNotFound for unknown ids.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns their ids.
	Cleanup(ctx context.Context) ([]string, error)
}
