package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func issueToken(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Path != "/v1/token" {
		return false
	}
	if err := r.ParseForm(); err != nil || r.PostForm.Get("client_id") != "cron" {
		w.WriteHeader(http.StatusUnauthorized)
		return true
	}
	json.NewEncoder(w).Encode(map[string]any{
		"access_token": "tok-1",
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
	return true
}

func TestCustomersFetchesTokenFirst(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/token" {
			tokenCalls.Add(1)
			issueToken(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"customers": []map[string]any{{"id": "c1", "name": "Alice", "email": "alice@example.com"}},
		})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, ClientID: "cron", ClientSecret: "s", Attempts: 1}, nil)

	got, err := c.Customers(context.Background())
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if len(got) != 1 || got[0].Email != "alice@example.com" {
		t.Fatalf("unexpected customers: %+v", got)
	}

	// second call reuses the cached token
	if _, err := c.Customers(context.Background()); err != nil {
		t.Fatalf("second Customers: %v", err)
	}
	if n := tokenCalls.Load(); n != 1 {
		t.Fatalf("token endpoint called %d times, want 1", n)
	}
}

func TestRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if issueToken(w, r) {
			return
		}
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"customers": 2, "orders": 1, "revenue": "10.00",
		})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, ClientID: "cron", ClientSecret: "s", Attempts: 3}, nil)

	rep, err := c.Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if rep.Customers != 2 || rep.Revenue.StringFixed(2) != "10.00" {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("report endpoint called %d times, want 3", n)
	}
}

func TestDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if issueToken(w, r) {
			return
		}
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, ClientID: "cron", ClientSecret: "s", Attempts: 3}, nil)

	if _, err := c.RestockLowStock(context.Background()); err == nil {
		t.Fatal("expected error on 400")
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("endpoint called %d times, want 1", n)
	}
}

func TestHealthSkipsAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/token" {
			t.Error("health check must not request a token")
		}
		if r.URL.Path != "/healthz" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Attempts: 1}, nil)
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}

func TestOrdersSinceQuery(t *testing.T) {
	since := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if issueToken(w, r) {
			return
		}
		if got := r.URL.Query().Get("since"); got != since.Format(time.RFC3339) {
			t.Errorf("since query = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"orders": []map[string]any{{
				"id":             "o1",
				"order_date":     "2026-08-25T10:00:00Z",
				"total_amount":   "15.50",
				"customer_email": "bob@example.com",
			}},
		})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, ClientID: "cron", ClientSecret: "s", Attempts: 1}, nil)
	orders, err := c.OrdersSince(context.Background(), since)
	if err != nil {
		t.Fatalf("OrdersSince: %v", err)
	}
	if len(orders) != 1 || orders[0].CustomerEmail != "bob@example.com" {
		t.Fatalf("unexpected orders: %+v", orders)
	}
	if orders[0].TotalAmount.StringFixed(2) != "15.50" {
		t.Fatalf("total = %s", orders[0].TotalAmount)
	}
}
