package validator

import "testing"

func TestValidator_FirstErrorWins(t *testing.T) {
	v := New()
	v.Check(false, "email", "must be provided")
	v.Check(false, "email", "must be a valid email address")

	if v.Valid() {
		t.Fatal("expected validator to be invalid")
	}
	if got := v.Errors["email"]; got != "must be provided" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestMatches_Email(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@x.com", true},
		{"user+tag@sub.example.com", true},
		{"userexample.com", false},
		{"user@", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := Matches(tt.email, EmailRX); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestPermittedValue(t *testing.T) {
	if !PermittedValue("rider", "passenger", "rider") {
		t.Fatal("expected rider to be permitted")
	}
	if PermittedValue("admin", "passenger", "rider") {
		t.Fatal("expected admin to be rejected")
	}
}

func TestNotBlank(t *testing.T) {
	if NotBlank("   ") {
		t.Fatal("spaces must count as blank")
	}
	if !NotBlank(" x ") {
		t.Fatal("expected non blank")
	}
}
