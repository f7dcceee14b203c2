// ABOUTME: Tests for the HTTP data loader.
// ABOUTME: Uses httptest to simulate feed hosts, error statuses, and oversized bodies.

package fetch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != UserAgent {
			t.Errorf("expected User-Agent %q, got %q", UserAgent, ua)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<rss>test content</rss>"))
	}))
	defer server.Close()

	body, err := NewClient(5*time.Second).Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "<rss>test content</rss>" {
		t.Errorf("expected body '<rss>test content</rss>', got %q", string(body))
	}
}

func TestLoad_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Not Found"))
	}))
	defer server.Close()

	body, err := NewClient(5*time.Second).Load(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for 404 response, got nil")
	}
	if body != nil {
		t.Errorf("expected nil body for error case, got %d bytes", len(body))
	}
}

func TestLoad_TooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer server.Close()

	c := NewClient(5 * time.Second)
	c.maxSize = 32

	if _, err := c.Load(context.Background(), server.URL); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewClient(5*time.Second).Load(ctx, server.URL); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", false},
		{"::1", false},
		{"10.0.0.1", true},
		{"192.168.1.10", true},
		{"169.254.1.1", true},
		{"8.8.8.8", false},
	}

	for _, tt := range tests {
		if got := isPrivateIP(net.ParseIP(tt.ip)); got != tt.want {
			t.Errorf("isPrivateIP(%s) = %v, want %v", tt.ip, got, tt.want)
		}
	}
}
