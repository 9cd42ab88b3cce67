package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sovouthea1111/hr-system-api/internal/model"
)

func TestDecodeFeed(t *testing.T) {
	body := []byte(`{
		"notifications": [
			{
				"id": "n-1",
				"type": "leave_request",
				"message": "Sarah Chen requested leave",
				"read": false,
				"created_at": "2025-03-10T09:30:00Z",
				"data": {
					"leave_id": "1",
					"employee_id": "emp-7",
					"employee_name": "Sarah Chen",
					"leave_type": "sick",
					"start_date": "2025-03-12",
					"end_date": "2025-03-14",
					"reason": "Flu",
					"status": "pending"
				}
			},
			{
				"id": "n-2",
				"type": "system",
				"message": "Maintenance window tonight",
				"read": true,
				"created_at": "2025-03-09T18:00:00Z"
			}
		],
		"unread_count": 1
	}`)

	notifications, unread, err := DecodeFeed(body)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, 1, unread)

	first := notifications[0]
	assert.Equal(t, "n-1", first.ID)
	assert.Equal(t, model.NotificationTypeLeaveRequest, first.Type)
	assert.Equal(t, ReadStateUnread, first.Read)
	assert.Equal(t, "Mar 10, 2025 9:30 AM", first.Timestamp)
	require.NotNil(t, first.LeaveRequest)
	assert.Equal(t, "1", first.LeaveRequest.ID)
	assert.Equal(t, model.LeaveTypeSick, first.LeaveRequest.Type)
	assert.Equal(t, model.LeaveStatusPending, first.LeaveRequest.Status)

	second := notifications[1]
	assert.Equal(t, ReadStateRead, second.Read)
	assert.Nil(t, second.LeaveRequest)
}

func TestDecodeFeedInvalidJSON(t *testing.T) {
	_, _, err := DecodeFeed([]byte("not json"))
	assert.Error(t, err)
}

func TestDecodeFeedMissingID(t *testing.T) {
	body := []byte(`{"notifications": [{"type": "system", "message": "hi"}], "unread_count": 0}`)

	_, _, err := DecodeFeed(body)
	assert.ErrorContains(t, err, "missing id")
}

func TestDecodeFeedLeaveRequestWithoutData(t *testing.T) {
	body := []byte(`{"notifications": [{"id": "n-1", "type": "leave_request", "read": false}], "unread_count": 1}`)

	_, _, err := DecodeFeed(body)
	assert.ErrorContains(t, err, "no leave data")
}

func TestDecodeLeaveTypeLabels(t *testing.T) {
	cases := map[string]model.LeaveType{
		"sick":     model.LeaveTypeSick,
		"annual":   model.LeaveTypeAnnual,
		"vacation": model.LeaveTypeAnnual,
		"personal": model.LeaveTypePersonal,
		"sabbath":  model.LeaveTypePersonal,
		"":         model.LeaveTypePersonal,
	}

	for code, want := range cases {
		assert.Equal(t, want, model.LeaveTypeFromCode(code), "code %q", code)
	}
}

func TestDecodeLeaveStatusDefaultsToPending(t *testing.T) {
	assert.Equal(t, model.LeaveStatusPending, decodeLeaveStatus(""))
	assert.Equal(t, model.LeaveStatusPending, decodeLeaveStatus("bogus"))
	assert.Equal(t, model.LeaveStatusApproved, decodeLeaveStatus("approved"))
	assert.Equal(t, model.LeaveStatusRejected, decodeLeaveStatus("rejected"))
}

func TestDisplayTimestampPassthrough(t *testing.T) {
	assert.Equal(t, "yesterday", displayTimestamp("yesterday"))
	assert.Equal(t, "Mar 10, 2025 9:30 AM", displayTimestamp("2025-03-10T09:30:00Z"))
}
