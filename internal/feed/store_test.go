package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sovouthea1111/hr-system-api/internal/model"
)

type fakeFetcher struct {
	mu            sync.Mutex
	notifications []*Notification
	unread        int
	err           error
	calls         int
	filters       []string
}

func (f *fakeFetcher) FetchFeed(_ context.Context, filterType string) ([]*Notification, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.filters = append(f.filters, filterType)
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.notifications, f.unread, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func leaveNotification(id, leaveID string, read ReadState, status model.LeaveStatus) *Notification {
	return &Notification{
		ID:      id,
		Type:    model.NotificationTypeLeaveRequest,
		Message: "leave requested",
		Read:    read,
		LeaveRequest: &LeaveRequest{
			ID:           leaveID,
			EmployeeID:   "emp-1",
			EmployeeName: "Sarah Chen",
			Type:         model.LeaveTypeSick,
			Status:       status,
		},
	}
}

func TestStoreFetchSuccess(t *testing.T) {
	fetcher := &fakeFetcher{
		notifications: []*Notification{
			leaveNotification("n-1", "1", ReadStateUnread, model.LeaveStatusPending),
		},
		unread: 1,
	}
	store := NewStore(fetcher, time.Minute, nil)

	store.Fetch(context.Background(), FilterAll)

	state := store.State()
	require.Len(t, state.Notifications, 1)
	assert.Equal(t, "n-1", state.Notifications[0].ID)
	assert.Equal(t, 1, state.UnreadCount)
	assert.False(t, state.IsLoading)
}

func TestStoreFetchFailureDegradesToEmpty(t *testing.T) {
	fetcher := &fakeFetcher{
		notifications: []*Notification{
			leaveNotification("n-1", "1", ReadStateUnread, model.LeaveStatusPending),
		},
		unread: 1,
	}
	store := NewStore(fetcher, time.Minute, nil)

	store.Fetch(context.Background(), FilterAll)
	require.Equal(t, 1, store.State().UnreadCount)

	fetcher.mu.Lock()
	fetcher.err = errors.New("network down")
	fetcher.mu.Unlock()

	store.Fetch(context.Background(), FilterAll)

	state := store.State()
	assert.Empty(t, state.Notifications)
	assert.Equal(t, 0, state.UnreadCount)
	assert.False(t, state.IsLoading)
}

func TestStoreApplyUpsertsByID(t *testing.T) {
	fetcher := &fakeFetcher{
		notifications: []*Notification{
			leaveNotification("n-1", "1", ReadStateUnread, model.LeaveStatusPending),
			leaveNotification("n-2", "2", ReadStateUnread, model.LeaveStatusPending),
		},
		unread: 2,
	}
	store := NewStore(fetcher, time.Minute, nil)
	store.Fetch(context.Background(), FilterAll)

	updated := leaveNotification("n-1", "1", ReadStateRead, model.LeaveStatusPending)
	fresh := leaveNotification("n-3", "3", ReadStateUnread, model.LeaveStatusPending)
	store.Apply([]*Notification{updated, fresh}, 99)

	state := store.State()
	require.Len(t, state.Notifications, 3)
	assert.Equal(t, ReadStateRead, state.Notifications[0].Read)
	assert.Equal(t, "n-3", state.Notifications[2].ID)

	// The counter comes from the merged list, not the caller's argument.
	assert.Equal(t, 2, state.UnreadCount)
}

func TestStoreApplyOntoEmptyStore(t *testing.T) {
	store := NewStore(&fakeFetcher{}, time.Minute, nil)

	store.Apply([]*Notification{
		leaveNotification("n-1", "1", ReadStateUnread, model.LeaveStatusPending),
	}, 0)

	state := store.State()
	require.Len(t, state.Notifications, 1)
	assert.Equal(t, 1, state.UnreadCount)
}

func TestStoreStateIsDeepCopy(t *testing.T) {
	fetcher := &fakeFetcher{
		notifications: []*Notification{
			leaveNotification("n-1", "1", ReadStateUnread, model.LeaveStatusPending),
		},
		unread: 1,
	}
	store := NewStore(fetcher, time.Minute, nil)
	store.Fetch(context.Background(), FilterAll)

	state := store.State()
	state.Notifications[0].Read = ReadStateRead
	state.Notifications[0].LeaveRequest.Status = model.LeaveStatusApproved

	fresh := store.State()
	assert.Equal(t, ReadStateUnread, fresh.Notifications[0].Read)
	assert.Equal(t, model.LeaveStatusPending, fresh.Notifications[0].LeaveRequest.Status)
}

func TestStoreStartFetchesImmediately(t *testing.T) {
	fetcher := &fakeFetcher{unread: 0}
	store := NewStore(fetcher, time.Hour, nil)

	store.Start(context.Background())
	defer store.Stop()

	assert.Eventually(t, func() bool {
		return fetcher.callCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestStoreStopTerminatesPolling(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := NewStore(fetcher, 10*time.Millisecond, nil)

	store.Start(context.Background())
	assert.Eventually(t, func() bool {
		return fetcher.callCount() >= 2
	}, time.Second, 5*time.Millisecond)

	store.Stop()
	settled := fetcher.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, fetcher.callCount())
}

func TestStoreStartIsIdempotent(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := NewStore(fetcher, time.Hour, nil)

	store.Start(context.Background())
	store.Start(context.Background())
	defer store.Stop()

	assert.Eventually(t, func() bool {
		return fetcher.callCount() == 1
	}, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, fetcher.callCount())
}
