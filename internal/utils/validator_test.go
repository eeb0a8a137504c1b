package utils

import "testing"

func TestIsValidRating(t *testing.T) {
	for rating, want := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false, -1: false} {
		if got := IsValidRating(rating); got != want {
			t.Errorf("IsValidRating(%d) = %v, want %v", rating, got, want)
		}
	}
}

func TestTextLengthCountsRunes(t *testing.T) {
	if got := TextLength("héllo"); got != 5 {
		t.Errorf("TextLength = %d, want 5", got)
	}
	if got := SanitizeString("  spaced  "); got != "spaced" {
		t.Errorf("SanitizeString = %q, want %q", got, "spaced")
	}
}

func TestIsValidRole(t *testing.T) {
	if !IsValidRole("admin") || !IsValidRole("member") {
		t.Error("expected admin and member to be valid roles")
	}
	if IsValidRole("root") {
		t.Error("expected root to be rejected")
	}
}
