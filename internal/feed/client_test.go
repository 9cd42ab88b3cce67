package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sovouthea1111/hr-system-api/internal/model"
)

func feedPayload() map[string]interface{} {
	return map[string]interface{}{
		"notifications": []map[string]interface{}{
			{
				"id":         "n-1",
				"type":       "leave_request",
				"message":    "Sarah Chen requested leave",
				"read":       false,
				"created_at": "2025-03-10T09:30:00Z",
				"data": map[string]interface{}{
					"leave_id":      "1",
					"employee_name": "Sarah Chen",
					"leave_type":    "sick",
					"start_date":    "2025-03-12",
					"end_date":      "2025-03-14",
					"status":        "pending",
				},
			},
		},
		"unread_count": 1,
	}
}

func TestClientFetchFeed(t *testing.T) {
	var gotFilter string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/notifications", r.URL.Path)
		gotFilter = r.URL.Query().Get("type")

		http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: "tok-123", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(feedPayload())
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, nil)
	require.NoError(t, err)

	notifications, unread, err := client.FetchFeed(context.Background(), "sick-leave")
	require.NoError(t, err)
	assert.Equal(t, "sick-leave", gotFilter)
	assert.Equal(t, 1, unread)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.LeaveTypeSick, notifications[0].LeaveRequest.Type)
}

func TestClientEchoesCSRFTokenOnMutations(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: "tok-123", Path: "/"})
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(feedPayload())
		case http.MethodPost:
			gotHeader = r.Header.Get("X-XSRF-TOKEN")
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, nil)
	require.NoError(t, err)

	// The safe request primes the cookie jar with the CSRF token.
	_, _, err = client.FetchFeed(context.Background(), FilterAll)
	require.NoError(t, err)

	require.NoError(t, client.MarkAsRead(context.Background(), "1"))
	assert.Equal(t, "tok-123", gotHeader)
}

func TestClientMarkAsReadRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, nil)
	require.NoError(t, err)

	err = client.MarkAsRead(context.Background(), "1")
	assert.ErrorContains(t, err, "403")
}

func TestClientActReturnsMessage(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/notifications", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Leave request approved"})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, nil)
	require.NoError(t, err)

	comment := "looks fine"
	message, err := client.Act(context.Background(), "1", "approve", &comment)
	require.NoError(t, err)
	assert.Equal(t, "Leave request approved", message)

	assert.Equal(t, "1", gotBody["leave_id"])
	assert.Equal(t, "approve", gotBody["action"])
	assert.Equal(t, "looks fine", gotBody["comment"])
}

func TestClientActToleratesEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, nil)
	require.NoError(t, err)

	message, err := client.Act(context.Background(), "1", "reject", nil)
	require.NoError(t, err)
	assert.Empty(t, message)
}
