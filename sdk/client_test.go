package sdk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL)
	client.Token = "test-token"
	return client, server
}

func TestClientMapsStatusCodes(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrAuthorization},
		{http.StatusForbidden, ErrAuthorization},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrInvalidTransition},
	}

	for _, tc := range cases {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		})
		_, err := client.GetCall(context.Background(), 1)
		server.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != tc.status {
			t.Fatalf("status %d: expected wrapped api error, got %v", tc.status, err)
		}
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var got string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":7,"status":"ringing"}`))
	})
	defer server.Close()

	call, err := client.GetCall(context.Background(), 7)
	if err != nil {
		t.Fatalf("unable to fetch call: %v", err)
	}
	if got != "Bearer test-token" {
		t.Fatalf("expected bearer header, got %q", got)
	}
	if call.ID != 7 || call.Status != CallRinging {
		t.Fatalf("unexpected call decoded: %+v", call)
	}
}

func TestIncomingCallAbsenceIsNotAnError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	call, err := client.IncomingCall(context.Background())
	if err != nil {
		t.Fatalf("expected absence to be nil error, got %v", err)
	}
	if call != nil {
		t.Fatalf("expected nil call, got %+v", call)
	}

	active, err := client.ActiveCall(context.Background())
	if err != nil || active != nil {
		t.Fatalf("expected no active call, got %+v / %v", active, err)
	}
}
