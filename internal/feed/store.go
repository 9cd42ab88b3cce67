package feed

import (
	"context"
	"sync"
	"time"

	"github.com/sovouthea1111/hr-system-api/pkg/logger"
)

// DefaultPollInterval matches the server's expectation of one feed fetch
// per client every 30 seconds.
const DefaultPollInterval = 30 * time.Second

// FilterAll requests the unscoped feed.
const FilterAll = "all"

// Fetcher retrieves the feed. *Client satisfies it; tests substitute fakes.
type Fetcher interface {
	FetchFeed(ctx context.Context, filterType string) ([]*Notification, int, error)
}

// State is a point-in-time snapshot of the store.
type State struct {
	Notifications []*Notification
	UnreadCount   int
	IsLoading     bool
}

// Store owns the canonical (notifications, unreadCount, isLoading) tuple
// for a session and keeps it synchronized with the server. All mutation
// flows through Fetch and Apply; the list and counter always change
// together under one lock, never independently.
type Store struct {
	fetcher  Fetcher
	interval time.Duration
	logger   *logger.Logger

	mu            sync.Mutex
	notifications []*Notification
	unreadCount   int
	isLoading     bool

	cancel context.CancelFunc
	done   chan struct{}
}

func NewStore(fetcher Fetcher, interval time.Duration, l *logger.Logger) *Store {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Store{
		fetcher:  fetcher,
		interval: interval,
		logger:   l,
	}
}

// Start launches the poll loop: one immediate fetch, then one per interval
// until the context is cancelled or Stop is called. The ticker is owned by
// the store and released on teardown.
func (s *Store) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.Fetch(ctx, FilterAll)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Fetch(ctx, FilterAll)
			}
		}
	}()
}

// Stop cancels the poll loop and waits for it to exit.
func (s *Store) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Fetch pulls the feed and replaces the canonical state atomically. Any
// failure degrades to an empty, zero-count feed rather than surfacing an
// error or preserving stale data.
func (s *Store) Fetch(ctx context.Context, filterType string) {
	s.mu.Lock()
	s.isLoading = true
	s.mu.Unlock()

	notifications, unread, err := s.fetcher.FetchFeed(ctx, filterType)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false

	if err != nil {
		if s.logger != nil {
			s.logger.Debug("feed fetch failed", "error", err.Error(), "filter", filterType)
		}
		s.notifications = nil
		s.unreadCount = 0
		return
	}

	s.notifications = notifications
	s.unreadCount = unread
}

// Apply is the store's single merge point. Entries are upserted by id so a
// poll response landing after a local mutation cannot silently clobber it.
// The caller's counter is advisory: the unread counter is recomputed from
// the merged canonical list, keeping counter and list consistent by
// construction.
func (s *Store) Apply(notifications []*Notification, _ int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notifications == nil {
		s.notifications = notifications
	} else {
		index := make(map[string]int, len(s.notifications))
		for i, n := range s.notifications {
			index[n.ID] = i
		}
		for _, n := range notifications {
			if i, ok := index[n.ID]; ok {
				s.notifications[i] = n
			} else {
				s.notifications = append(s.notifications, n)
			}
		}
	}

	unread := 0
	for _, n := range s.notifications {
		if n.Read == ReadStateUnread {
			unread++
		}
	}
	s.unreadCount = unread
}

// State returns a deep-copied snapshot; callers may mutate it freely and
// hand a derived list back through Apply.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifications := make([]*Notification, len(s.notifications))
	for i, n := range s.notifications {
		notifications[i] = cloneNotification(n)
	}

	return State{
		Notifications: notifications,
		UnreadCount:   s.unreadCount,
		IsLoading:     s.isLoading,
	}
}
