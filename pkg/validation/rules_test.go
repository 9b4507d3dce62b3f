package validation

import (
	"strings"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"User@Example.com":     "user@example.com",
		"  padded@example.com": "padded@example.com",
		"already@example.com":  "already@example.com",
	}
	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPasswordComplexity(t *testing.T) {
	rejected := map[string]string{
		"short1":          "at least 8",
		"alllowercase1":   "1 uppercase letter and 1 number",
		"NoDigitsHere":    "1 uppercase letter and 1 number",
		"":                "at least 8",
		strings.Repeat("Aa1", 17): "at most 50",
	}
	for password, fragment := range rejected {
		err := ValidatePasswordComplexity(password)
		if err == nil {
			t.Fatalf("password %q should be rejected", password)
		}
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("password %q: detail %q should mention %q", password, err.Error(), fragment)
		}
	}

	for _, password := range []string{"Valid123pass", "Abcdef12", "A1234567"} {
		if err := ValidatePasswordComplexity(password); err != nil {
			t.Fatalf("password %q should be accepted: %v", password, err)
		}
	}
}
