package window

import (
	"strings"
	"testing"
)

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(Config{Backend: "vulkan", Width: 10, Height: 10})
	if err == nil || !strings.Contains(err.Error(), "vulkan") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}
