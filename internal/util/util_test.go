package util

import (
	"strings"
	"testing"
)

func TestHideSecret(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"supersecretvalue", "supe...alue"},
		{"abcdef", "ab...ef"},
		{"abc", "a...c"},
		{"ab", "ab"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := HideSecret(tc.in); got != tc.want {
			t.Fatalf("HideSecret(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskSensitiveQuery(t *testing.T) {
	masked := MaskSensitiveQuery("token=supersecretvalue&page=2")
	if strings.Contains(masked, "supersecretvalue") {
		t.Fatalf("token leaked: %s", masked)
	}
	if !strings.Contains(masked, "page=2") {
		t.Fatalf("benign param mangled: %s", masked)
	}

	if got := MaskSensitiveQuery("page=2&sort=desc"); got != "page=2&sort=desc" {
		t.Fatalf("query without secrets must pass through, got %s", got)
	}
	if got := MaskSensitiveQuery(""); got != "" {
		t.Fatalf("empty query must stay empty, got %q", got)
	}

	masked = MaskSensitiveQuery("reset_password_token=abcdefghijkl")
	if strings.Contains(masked, "abcdefghijkl") {
		t.Fatalf("reset token leaked: %s", masked)
	}
}
