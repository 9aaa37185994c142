package lookup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/U1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"U1","email":"ada@example.com","name":"Ada"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(map[string]string{"user": srv.URL}, time.Second, testLogger())

	user, err := c.FetchUser(context.Background(), "U1")
	if err != nil {
		t.Fatal(err)
	}
	if user.Email != "ada@example.com" || user.Name != "Ada" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestNewHTTPClientNilLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"U1","email":"ada@example.com","name":"Ada"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(map[string]string{"user": srv.URL}, time.Second, nil)

	if _, err := c.FetchUser(context.Background(), "U1"); err != nil {
		t.Fatalf("FetchUser() with nil logger: %v", err)
	}
}

func TestFetchOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"O1","items":[{"name":"Mug","quantity":2,"price":9.5}],"total":19,"shippingAddress":"1 Main St"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(map[string]string{"order": srv.URL}, time.Second, testLogger())

	order, err := c.FetchOrder(context.Background(), "O1")
	if err != nil {
		t.Fatal(err)
	}
	if len(order.Items) != 1 || order.Items[0].Name != "Mug" {
		t.Errorf("unexpected items: %+v", order.Items)
	}
	if order.Total != 19 || order.ShippingAddress != "1 Main St" {
		t.Errorf("unexpected order: %+v", order)
	}
}

func TestFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(map[string]string{"user": srv.URL}, time.Second, testLogger())

	t.Run("server error", func(t *testing.T) {
		_, err := c.FetchUser(context.Background(), "U1")
		var lerr *Error
		if !errors.As(err, &lerr) {
			t.Fatalf("error = %v, want *Error", err)
		}
		if lerr.Service != "user" {
			t.Errorf("Service = %q, want user", lerr.Service)
		}
	})

	t.Run("unconfigured service", func(t *testing.T) {
		_, err := c.FetchOrder(context.Background(), "O1")
		var lerr *Error
		if !errors.As(err, &lerr) {
			t.Fatalf("error = %v, want *Error", err)
		}
		if lerr.Service != "order" {
			t.Errorf("Service = %q, want order", lerr.Service)
		}
	})
}

func TestCheckHealth(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer healthy.Close()

	sick := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer sick.Close()

	c := NewHTTPClient(map[string]string{
		"user":  healthy.URL,
		"order": sick.URL,
	}, time.Second, testLogger())

	if got := c.CheckHealth(context.Background(), "user"); got.Status != StatusHealthy {
		t.Errorf("user status = %q, want healthy", got.Status)
	}
	if got := c.CheckHealth(context.Background(), "order"); got.Status != StatusUnhealthy {
		t.Errorf("order status = %q, want unhealthy", got.Status)
	}
	if got := c.CheckHealth(context.Background(), "cart"); got.Status != StatusUnhealthy || got.Detail != "service not configured" {
		t.Errorf("cart status = %+v", got)
	}
}

func TestServicesSorted(t *testing.T) {
	c := NewHTTPClient(map[string]string{
		"order": "http://o", "cart": "http://c", "user": "http://u",
	}, time.Second, testLogger())

	got := c.Services()
	want := []string{"cart", "order", "user"}
	if len(got) != len(want) {
		t.Fatalf("Services() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Services()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
