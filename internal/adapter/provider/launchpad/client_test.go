package launchpad

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(baseURL string) *Client {
	return NewClientWithURL(baseURL, 2*time.Second, newTestLogger())
}

func TestClient_LookupByEmail_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/people/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ws.op"); got != "getByEmail" {
			t.Errorf("ws.op = %q, want getByEmail", got)
		}
		if got := r.URL.Query().Get("email"); got != "jdoe@super.no" {
			t.Errorf("email = %q, want jdoe@super.no", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"name": "john_doe", "display_name": "John Doe"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	result, err := c.LookupByEmail(context.Background(), "jdoe@super.no")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result.Name != "john_doe" {
		t.Errorf("Name = %q, want john_doe", result.Name)
	}
	if result.DisplayName != "John Doe" {
		t.Errorf("DisplayName = %q, want John Doe", result.DisplayName)
	}
}

func TestClient_LookupByEmail_Unknown404(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	result, err := c.LookupByEmail(context.Background(), "inkognito@avs.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for 404, got %+v", result)
	}
}

func TestClient_LookupByEmail_NullBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`null`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	result, err := c.LookupByEmail(context.Background(), "inkognito@avs.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for null body, got %+v", result)
	}
}

func TestClient_LookupByEmail_EmptyBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	result, err := c.LookupByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for empty body, got %+v", result)
	}
}

func TestClient_LookupByEmail_ServerErrorRetrySuccess(t *testing.T) {
	t.Parallel()

	var callCount atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := callCount.Add(1)
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"name": "smith", "display_name": "Smith"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	result, err := c.LookupByEmail(context.Background(), "smith@nec.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.Name != "smith" {
		t.Fatalf("result = %+v, want smith", result)
	}
	if got := callCount.Load(); got != 2 {
		t.Errorf("call count = %d, want 2", got)
	}
}

func TestClient_LookupByEmail_ServerErrorBothAttemptsFail(t *testing.T) {
	t.Parallel()

	var callCount atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.LookupByEmail(context.Background(), "fail@example.com"); err == nil {
		t.Fatal("expected error when both attempts fail")
	}
	if got := callCount.Load(); got != 2 {
		t.Errorf("call count = %d, want 2", got)
	}
}

func TestClient_LookupByEmail_InvalidJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`not valid json`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.LookupByEmail(context.Background(), "bad@example.com"); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestClient_LookupByEmail_EmailIsEscaped(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("email"); got != "first+tag@example.com" {
			t.Errorf("email = %q, want first+tag@example.com", got)
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.LookupByEmail(context.Background(), "first+tag@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
