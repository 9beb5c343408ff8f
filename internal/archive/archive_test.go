package archive

import (
	"context"
	"strings"
	"testing"

	gridcoreconfig "gridcore/internal/config"
)

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), gridcoreconfig.Archive{}); err == nil {
		t.Fatal("expected an error when Bucket is empty")
	}
}

func TestKeyNestsUnderParameterName(t *testing.T) {
	s := &Store{prefix: "snapshots/"}
	key := s.key("tax/net_flow", "abc-123")
	if !strings.HasPrefix(key, "snapshots/tax_net_flow/abc-123-") {
		t.Fatalf("key() = %q, want prefix snapshots/tax_net_flow/abc-123-", key)
	}
	if !strings.HasSuffix(key, ".json") {
		t.Fatalf("key() = %q, want a .json suffix", key)
	}
}
