package feed

import (
	"strings"

	"github.com/sovouthea1111/hr-system-api/internal/model"
)

// Viewer identifies who is looking at the feed. ID and Name are display
// strings as the session layer provides them.
type Viewer struct {
	ID   string
	Name string
	Role model.UserRole
}

// View derives filtered projections over the store's canonical list. It
// never mutates store-owned state.
type View struct {
	viewer    Viewer
	adminView bool
}

// NewView builds a presentation view for a viewer. adminView selects the
// tabbed admin surface; the plain employee surface never shows actions.
func NewView(viewer Viewer, adminView bool) *View {
	return &View{viewer: viewer, adminView: adminView}
}

// Visible applies the self-exclusion rule: a leave_request notification is
// hidden from its own requester. All other notification types pass through.
func (v *View) Visible(notifications []*Notification) []*Notification {
	out := make([]*Notification, 0, len(notifications))
	for _, n := range notifications {
		if n.Type == model.NotificationTypeLeaveRequest && n.LeaveRequest != nil && v.isOwnRequest(n.LeaveRequest) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// isOwnRequest resolves requester identity through a three-tier fallback,
// stopping at the first tier that can give a definitive answer. An id
// match short-circuits everything else. When no tier resolves, the
// notification stays visible.
func (v *View) isOwnRequest(lr *LeaveRequest) bool {
	viewerID := strings.TrimSpace(v.viewer.ID)
	employeeID := strings.TrimSpace(lr.EmployeeID)
	if viewerID != "" && employeeID != "" {
		return viewerID == employeeID
	}

	viewerName := strings.TrimSpace(v.viewer.Name)
	employeeName := strings.TrimSpace(lr.EmployeeName)
	if viewerName != "" && employeeName != "" && strings.EqualFold(viewerName, employeeName) {
		return true
	}

	if v.viewer.Role == model.UserRoleHR && employeeName != "" {
		lower := strings.ToLower(employeeName)
		if strings.Contains(lower, "hr") && len(strings.Fields(lower)) <= 2 {
			return true
		}
	}

	return false
}

// FilterByTab narrows a (self-filtered) list by tab key: "all" passes
// everything; any other key matches when the key, with dashes as spaces,
// appears in the lower-cased leave type.
func (v *View) FilterByTab(notifications []*Notification, tabKey string) []*Notification {
	if tabKey == "" || tabKey == FilterAll {
		return notifications
	}

	needle := strings.ToLower(strings.ReplaceAll(tabKey, "-", " "))
	out := make([]*Notification, 0, len(notifications))
	for _, n := range notifications {
		if n.LeaveRequest == nil {
			continue
		}
		if strings.Contains(strings.ToLower(string(n.LeaveRequest.Type)), needle) {
			out = append(out, n)
		}
	}
	return out
}

// TabCounts computes per-tab totals over the self-filtered set, never the
// raw canonical set.
func (v *View) TabCounts(notifications []*Notification, tabKeys []string) map[string]int {
	visible := v.Visible(notifications)
	counts := make(map[string]int, len(tabKeys))
	for _, key := range tabKeys {
		counts[key] = len(v.FilterByTab(visible, key))
	}
	return counts
}

// UnreadCount is the display counter over a filtered list. It must never
// be written back to the store, whose counter tracks the unfiltered
// canonical list.
func (v *View) UnreadCount(notifications []*Notification) int {
	count := 0
	for _, n := range notifications {
		if n.Read == ReadStateUnread {
			count++
		}
	}
	return count
}

// CanAct gates the approve/reject affordance: only a pending leave
// request, only for an elevated viewer, and only on the admin surface.
func (v *View) CanAct(n *Notification) bool {
	return v.adminView && v.viewer.Role.Elevated() && n.Actionable()
}
