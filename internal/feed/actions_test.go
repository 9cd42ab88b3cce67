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

type fakeActionClient struct {
	mu          sync.Mutex
	markErr     error
	actErr      error
	actMessage  string
	markedIDs   []string
	actedLeaves []string
	actions     []string
	comments    []*string
	block       chan struct{}
}

func (c *fakeActionClient) MarkAsRead(_ context.Context, leaveID string) error {
	c.mu.Lock()
	block := c.block
	c.mu.Unlock()
	if block != nil {
		<-block
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.markedIDs = append(c.markedIDs, leaveID)
	return c.markErr
}

func (c *fakeActionClient) Act(_ context.Context, leaveID, action string, comment *string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actedLeaves = append(c.actedLeaves, leaveID)
	c.actions = append(c.actions, action)
	c.comments = append(c.comments, comment)
	return c.actMessage, c.actErr
}

type fakeToaster struct {
	successes []string
	errors    []string
}

func (t *fakeToaster) Success(message string) { t.successes = append(t.successes, message) }
func (t *fakeToaster) Error(message string)   { t.errors = append(t.errors, message) }

type fakeNavigator struct {
	visited []string
}

func (n *fakeNavigator) GoToLeave(leaveID string) { n.visited = append(n.visited, leaveID) }

func newActionsFixture(t *testing.T, client *fakeActionClient) (*Actions, *Store, *fakeFetcher, *fakeToaster, *fakeNavigator) {
	t.Helper()

	fetcher := &fakeFetcher{}
	store := NewStore(fetcher, time.Minute, nil)
	toaster := &fakeToaster{}
	navigator := &fakeNavigator{}
	actions := NewActions(store, client, toaster, navigator, nil)
	return actions, store, fetcher, toaster, navigator
}

func TestMarkAsReadSuccess(t *testing.T) {
	client := &fakeActionClient{}
	actions, store, _, _, navigator := newActionsFixture(t, client)

	store.Apply([]*Notification{
		leaveNotification("n-1", "1", ReadStateUnread, model.LeaveStatusPending),
		leaveNotification("n-2", "2", ReadStateUnread, model.LeaveStatusPending),
	}, 2)

	target := store.State().Notifications[0]
	actions.MarkAsRead(context.Background(), target)

	require.Equal(t, []string{"1"}, client.markedIDs, "target id is the nested leave id")

	state := store.State()
	assert.Equal(t, ReadStateRead, state.Notifications[0].Read)
	assert.Equal(t, ReadStateUnread, state.Notifications[1].Read)
	assert.Equal(t, 1, state.UnreadCount)
	assert.Equal(t, []string{"1"}, navigator.visited)
}

func TestMarkAsReadFailureLeavesStateUntouched(t *testing.T) {
	client := &fakeActionClient{markErr: errors.New("server unavailable")}
	actions, store, _, _, navigator := newActionsFixture(t, client)

	store.Apply([]*Notification{
		leaveNotification("n-1", "1", ReadStateUnread, model.LeaveStatusPending),
	}, 1)

	actions.MarkAsRead(context.Background(), store.State().Notifications[0])

	state := store.State()
	assert.Equal(t, ReadStateUnread, state.Notifications[0].Read)
	assert.Equal(t, 1, state.UnreadCount)
	assert.Empty(t, navigator.visited)
}

func TestMarkAsReadWithoutLeaveRequestUsesNotificationID(t *testing.T) {
	client := &fakeActionClient{}
	actions, store, _, _, navigator := newActionsFixture(t, client)

	plain := &Notification{ID: "n-9", Type: model.NotificationTypeSystem, Read: ReadStateUnread}
	store.Apply([]*Notification{plain}, 1)

	actions.MarkAsRead(context.Background(), store.State().Notifications[0])

	assert.Equal(t, []string{"n-9"}, client.markedIDs)
	assert.Empty(t, navigator.visited, "no navigation without a nested leave request")

	state := store.State()
	assert.Equal(t, ReadStateRead, state.Notifications[0].Read)
	assert.Equal(t, 0, state.UnreadCount)
}

func TestMarkAsReadCounterFlooredAtZero(t *testing.T) {
	client := &fakeActionClient{}
	actions, store, _, _, _ := newActionsFixture(t, client)

	// Already read: the canonical counter is 0 and the decrement must not
	// take it negative.
	store.Apply([]*Notification{
		leaveNotification("n-1", "1", ReadStateRead, model.LeaveStatusPending),
	}, 0)

	actions.MarkAsRead(context.Background(), store.State().Notifications[0])

	assert.Equal(t, 0, store.State().UnreadCount)
}

func TestMarkAsReadInFlightGuard(t *testing.T) {
	client := &fakeActionClient{block: make(chan struct{})}
	actions, store, _, _, _ := newActionsFixture(t, client)

	store.Apply([]*Notification{
		leaveNotification("n-1", "1", ReadStateUnread, model.LeaveStatusPending),
	}, 1)
	target := store.State().Notifications[0]

	done := make(chan struct{})
	go func() {
		defer close(done)
		actions.MarkAsRead(context.Background(), target)
	}()

	assert.Eventually(t, func() bool {
		actions.mu.Lock()
		defer actions.mu.Unlock()
		return actions.inFlight["n-1"]
	}, time.Second, 5*time.Millisecond)

	// Second call for the same row is dropped while the first is pending.
	actions.MarkAsRead(context.Background(), target)

	close(client.block)
	<-done

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Len(t, client.markedIDs, 1)
}

func TestActApproveSuccess(t *testing.T) {
	client := &fakeActionClient{actMessage: "Leave request approved successfully"}
	actions, store, fetcher, toaster, _ := newActionsFixture(t, client)

	store.Apply([]*Notification{
		leaveNotification("n-1", "1", ReadStateUnread, model.LeaveStatusPending),
	}, 1)

	err := actions.Act(context.Background(), store.State().Notifications[0], ActionApprove, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, client.actedLeaves)
	assert.Equal(t, []string{ActionApprove}, client.actions)
	require.Len(t, client.comments, 1)
	assert.Nil(t, client.comments[0], "empty comment is omitted, not sent as empty string")

	assert.Equal(t, []string{"Leave request approved successfully"}, toaster.successes)
	assert.Equal(t, 1, fetcher.callCount(), "success triggers a wholesale resync")
	assert.Equal(t, []string{FilterAll}, fetcher.filters)
}

func TestActRejectDefaultMessage(t *testing.T) {
	client := &fakeActionClient{}
	actions, store, _, toaster, _ := newActionsFixture(t, client)

	store.Apply([]*Notification{
		leaveNotification("n-1", "1", ReadStateUnread, model.LeaveStatusPending),
	}, 1)

	comment := "insufficient coverage"
	err := actions.Act(context.Background(), store.State().Notifications[0], ActionReject, comment)
	require.NoError(t, err)

	require.Len(t, client.comments, 1)
	require.NotNil(t, client.comments[0])
	assert.Equal(t, comment, *client.comments[0])
	assert.Equal(t, []string{"Leave request rejected"}, toaster.successes)
}

func TestActFailureToastsAndPreservesState(t *testing.T) {
	client := &fakeActionClient{actErr: errors.New("boom")}
	actions, store, fetcher, toaster, _ := newActionsFixture(t, client)

	store.Apply([]*Notification{
		leaveNotification("n-1", "1", ReadStateUnread, model.LeaveStatusPending),
	}, 1)

	err := actions.Act(context.Background(), store.State().Notifications[0], ActionApprove, "")
	require.Error(t, err)

	assert.Equal(t, []string{"Failed to approve leave request"}, toaster.errors)
	assert.Empty(t, toaster.successes)
	assert.Equal(t, 0, fetcher.callCount(), "no resync on failure")

	state := store.State()
	assert.Equal(t, model.LeaveStatusPending, state.Notifications[0].LeaveRequest.Status)
}

func TestActRefusesTerminalStatus(t *testing.T) {
	client := &fakeActionClient{}
	actions, _, _, _, _ := newActionsFixture(t, client)

	decided := leaveNotification("n-1", "1", ReadStateRead, model.LeaveStatusApproved)
	err := actions.Act(context.Background(), decided, ActionReject, "")

	require.Error(t, err)
	assert.Empty(t, client.actedLeaves, "terminal requests never reach the server")
}

func TestActRefusesUnknownAction(t *testing.T) {
	client := &fakeActionClient{}
	actions, _, _, _, _ := newActionsFixture(t, client)

	pending := leaveNotification("n-1", "1", ReadStateUnread, model.LeaveStatusPending)
	err := actions.Act(context.Background(), pending, "escalate", "")

	require.Error(t, err)
	assert.Empty(t, client.actedLeaves)
}
