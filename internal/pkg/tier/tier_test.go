package tier

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
	}{
		{in: "free", want: Free},
		{in: "basic", want: Basic},
		{in: "premium", want: Premium},
		{in: "PREMIUM", want: Premium},
		{in: " basic ", want: Basic},
		{in: "invalid", want: Free},
		{in: "", want: Free},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRank(t *testing.T) {
	if Rank(Free) >= Rank(Basic) {
		t.Fatalf("expected basic to outrank free")
	}
	if Rank(Basic) >= Rank(Premium) {
		t.Fatalf("expected premium to outrank basic")
	}
}

func TestHasAccess(t *testing.T) {
	tests := []struct {
		user     Tier
		required Tier
		want     bool
	}{
		{Free, Free, true},
		{Free, Basic, false},
		{Free, Premium, false},
		{Basic, Free, true},
		{Basic, Basic, true},
		{Basic, Premium, false},
		{Premium, Free, true},
		{Premium, Basic, true},
		{Premium, Premium, true},
	}

	for _, tt := range tests {
		if got := HasAccess(tt.user, tt.required); got != tt.want {
			t.Fatalf("HasAccess(%q, %q) = %v, want %v", tt.user, tt.required, got, tt.want)
		}
	}
}

func TestIsValid(t *testing.T) {
	for _, in := range []string{"free", "basic", "premium", "Premium"} {
		if !IsValid(in) {
			t.Fatalf("expected %q to be a valid tier", in)
		}
	}
	for _, in := range []string{"", "gold", "premium_max"} {
		if IsValid(in) {
			t.Fatalf("expected %q to be invalid", in)
		}
	}
}
