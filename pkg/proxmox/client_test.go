package proxmox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		Host:       server.URL,
		User:       "root@pam",
		TokenName:  "mcp",
		TokenValue: "secret",
		VerifySSL:  false,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestClientTokenAuthHeader(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":{"version":"8.2","release":"1"}}`))
	})

	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if version != "8.2-1" {
		t.Errorf("expected version 8.2-1, got %q", version)
	}
	if gotAuth != "PVEAPIToken=root@pam!mcp=secret" {
		t.Errorf("unexpected Authorization header %q", gotAuth)
	}
}

func TestClientBareReply(t *testing.T) {
	// Replies without the data envelope must decode too.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version":"7.4"}`))
	})

	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if version != "7.4" {
		t.Errorf("expected version 7.4, got %q", version)
	}
}

func TestClientAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("permission check failed"))
	})

	_, err := client.ListNodes(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", apiErr.Status)
	}
	if !strings.Contains(apiErr.Error(), "permission denied") {
		t.Errorf("unexpected error text %q", apiErr.Error())
	}
}

func TestClientPasswordAuth(t *testing.T) {
	var sawTicketRequest bool
	var gotCookie, gotCSRF string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api2/json/access/ticket" {
			sawTicketRequest = true
			if err := r.ParseForm(); err != nil {
				t.Fatalf("parsing ticket form: %v", err)
			}
			if got := r.Form.Get("username"); got != "root@pam" {
				t.Errorf("unexpected username %q", got)
			}
			w.Write([]byte(`{"data":{"ticket":"PVE:ticket","CSRFPreventionToken":"csrf-token"}}`))
			return
		}
		gotCookie = r.Header.Get("Cookie")
		gotCSRF = r.Header.Get("CSRFPreventionToken")
		w.Write([]byte(`{"data":"UPID:pve1:0001:start"}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{
		Host:     server.URL,
		User:     "root@pam",
		Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	upid, err := client.StartContainer(context.Background(), "pve1", 100)
	if err != nil {
		t.Fatalf("StartContainer failed: %v", err)
	}
	if !sawTicketRequest {
		t.Error("expected a ticket request before the API call")
	}
	if gotCookie != "PVEAuthCookie=PVE:ticket" {
		t.Errorf("unexpected cookie %q", gotCookie)
	}
	if gotCSRF != "csrf-token" {
		t.Errorf("unexpected CSRF header %q", gotCSRF)
	}
	if upid != "UPID:pve1:0001:start" {
		t.Errorf("unexpected task ID %q", upid)
	}
}

func TestClientPasswordAuthConcurrent(t *testing.T) {
	// Batch dispatch fans calls out across goroutines, so the ticket state
	// must be safe to read while a first authentication is in flight.
	var ticketRequests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api2/json/access/ticket" {
			ticketRequests.Add(1)
			w.Write([]byte(`{"data":{"ticket":"PVE:ticket","CSRFPreventionToken":"csrf-token"}}`))
			return
		}
		if got := r.Header.Get("Cookie"); got != "PVEAuthCookie=PVE:ticket" {
			t.Errorf("unexpected cookie %q", got)
		}
		w.Write([]byte(`{"data":"UPID:pve1:0002:start"}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{
		Host:     server.URL,
		User:     "root@pam",
		Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = client.StartContainer(context.Background(), "pve1", 100+i)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("concurrent call %d failed: %v", i, err)
		}
	}
	if got := ticketRequests.Load(); got != 1 {
		t.Errorf("expected a single shared authentication, got %d", got)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Error("expected error for empty host")
	}
	if _, err := NewClient(ClientConfig{Host: "pve.local", User: "root"}); err == nil {
		t.Error("expected error for user without realm")
	}
	if _, err := NewClient(ClientConfig{Host: "pve.local", User: "root@pam"}); err == nil {
		t.Error("expected error when no credentials are configured")
	}
}
