package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/sovouthea1111/hr-system-api/pkg/logger"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// Toaster surfaces transient user-visible confirmations and errors.
type Toaster interface {
	Success(message string)
	Error(message string)
}

// Navigator moves the viewer to a leave request's detail view.
type Navigator interface {
	GoToLeave(leaveID string)
}

// ActionClient is the server surface the action layer needs. *Client
// satisfies it.
type ActionClient interface {
	MarkAsRead(ctx context.Context, leaveID string) error
	Act(ctx context.Context, leaveID, action string, comment *string) (string, error)
}

// Actions performs the two user-triggered mutations, mark-as-read and
// approve/reject, and reconciles their results with the store. In-flight
// guards are per notification id; unrelated rows stay interactive while a
// request is pending.
type Actions struct {
	store     *Store
	client    ActionClient
	toaster   Toaster
	navigator Navigator
	logger    *logger.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewActions(store *Store, client ActionClient, toaster Toaster, navigator Navigator, l *logger.Logger) *Actions {
	return &Actions{
		store:     store,
		client:    client,
		toaster:   toaster,
		navigator: navigator,
		logger:    l,
		inFlight:  make(map[string]bool),
	}
}

// MarkAsRead flags a notification read: server first, then a local merge
// flipping the one row and decrementing the counter (floored at zero), then
// navigation to the nested leave request when one exists. Failures are
// logged and otherwise silent; no state changes and no navigation happen.
func (a *Actions) MarkAsRead(ctx context.Context, n *Notification) {
	if !a.begin(n.ID) {
		return
	}
	defer a.end(n.ID)

	target := n.ID
	if n.LeaveRequest != nil {
		target = n.LeaveRequest.ID
	}

	if err := a.client.MarkAsRead(ctx, target); err != nil {
		if a.logger != nil {
			a.logger.Debug("mark-as-read failed", "notification_id", n.ID, "error", err.Error())
		}
		return
	}

	state := a.store.State()
	merged := make([]*Notification, len(state.Notifications))
	for i, existing := range state.Notifications {
		if existing.ID == n.ID {
			updated := cloneNotification(existing)
			updated.Read = ReadStateRead
			merged[i] = updated
		} else {
			merged[i] = existing
		}
	}

	count := state.UnreadCount - 1
	if count < 0 {
		count = 0
	}
	a.store.Apply(merged, count)

	if n.LeaveRequest != nil && a.navigator != nil {
		a.navigator.GoToLeave(n.LeaveRequest.ID)
	}
}

// Act submits an approve/reject decision. Terminal notifications are
// absorbing: the call is refused before reaching the server. On success a
// toast confirms and the store refetches wholesale: full resynchronization
// supersedes any local merge on this path. On failure a toast reports
// and local state stays untouched; nothing is retried.
func (a *Actions) Act(ctx context.Context, n *Notification, action string, comment string) error {
	if action != ActionApprove && action != ActionReject {
		return fmt.Errorf("unknown action %q", action)
	}
	if !n.Actionable() {
		return fmt.Errorf("leave request is no longer pending")
	}

	if !a.begin(n.ID) {
		return fmt.Errorf("action already in flight for notification %s", n.ID)
	}
	defer a.end(n.ID)

	var commentArg *string
	if comment != "" {
		commentArg = &comment
	}

	message, err := a.client.Act(ctx, n.LeaveRequest.ID, action, commentArg)
	if err != nil {
		if a.toaster != nil {
			a.toaster.Error(fmt.Sprintf("Failed to %s leave request", action))
		}
		return err
	}

	if message == "" {
		if action == ActionApprove {
			message = "Leave request approved"
		} else {
			message = "Leave request rejected"
		}
	}
	if a.toaster != nil {
		a.toaster.Success(message)
	}

	a.store.Fetch(ctx, FilterAll)
	return nil
}

func (a *Actions) begin(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inFlight[id] {
		return false
	}
	a.inFlight[id] = true
	return true
}

func (a *Actions) end(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.inFlight, id)
}
