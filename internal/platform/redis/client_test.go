package redis

import (
	"context"
	"testing"
)

func TestNewClient_InvalidURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(context.Background(), "http://localhost:6379"); err == nil {
		t.Fatal("expected error for non-redis scheme")
	}
}
