package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

func TestKeyFromURL(t *testing.T) {
	c := &R2Client{publicBaseURL: "https://img.gaon.test"}

	cases := []struct {
		in   string
		want string
	}{
		{"https://img.gaon.test/uploads/thumb/a.jpg", "uploads/thumb/a.jpg"},
		{"uploads/thumb/a.jpg", "uploads/thumb/a.jpg"},
		{"/uploads/thumb/a.jpg", "uploads/thumb/a.jpg"},
		{"  ", ""},
	}
	for _, tc := range cases {
		if got := c.keyFromURL(tc.in); got != tc.want {
			t.Fatalf("keyFromURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewR2ClientRejectsIncompleteConfig(t *testing.T) {
	_, err := NewR2Client(context.Background(), R2Config{Bucket: "b"})
	if err == nil {
		t.Fatalf("expected error for incomplete config")
	}
}

func TestLogDeleteErrorIgnoresNil(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	// must not panic and must not log on nil error
	LogDeleteError(logger, "uploads/a.jpg", nil)
}
