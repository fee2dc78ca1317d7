package recordid

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	a, b := New(), New()
	if a == b {
		t.Errorf("New() returned the same ID twice: %q", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("New() = %q, not a UUID: %v", a, err)
	}
	if IsInbox(a) {
		t.Errorf("random ID %q reported as inbox ID", a)
	}
}

func TestFromPath(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"/inbox/picnic.json", "/inbox/picnic.json", true},
		{"/inbox/picnic.json", "/inbox/./picnic.json", true},
		{"/inbox/sub/", "/inbox/sub", true},
		{"/inbox/picnic.json", "/inbox/beach.json", false},
	}
	for _, tt := range tests {
		got := FromPath(tt.a) == FromPath(tt.b)
		if got != tt.same {
			t.Errorf("FromPath(%q) == FromPath(%q) is %v, want %v", tt.a, tt.b, got, tt.same)
		}
	}
}

func TestFromPath_prefix(t *testing.T) {
	id := FromPath("/inbox/picnic.json")
	if !strings.HasPrefix(id, InboxPrefix) || !IsInbox(id) {
		t.Errorf("FromPath() = %q, want prefix %q", id, InboxPrefix)
	}
	if len(id) != len(InboxPrefix)+64 {
		t.Errorf("FromPath() length = %d, want %d", len(id), len(InboxPrefix)+64)
	}
}
