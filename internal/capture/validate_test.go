package capture

import "testing"

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"one char", "J", false},
		{"one char padded", "  J  ", false},
		{"exactly two chars", "Jo", true},
		{"full name", "John Smith", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateName(tt.input)
			if v.OK != tt.ok {
				t.Fatalf("ValidateName(%q) = %v, want ok=%v (reason %q)", tt.input, v.OK, tt.ok, v.Reason)
			}
			if !v.OK && v.Reason == "" {
				t.Fatal("invalid result must carry a reason")
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"empty", "", false},
		{"no at sign", "john.example.com", false},
		{"no domain dot", "john@example", false},
		{"one letter tld", "john@example.c", false},
		{"spaces inside", "john smith@example.com", false},
		{"plain", "john@example.com", true},
		{"subdomain", "j.smith+tag@mail.example.co", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateEmail(tt.input)
			if v.OK != tt.ok {
				t.Fatalf("ValidateEmail(%q) = %v, want ok=%v", tt.input, v.OK, tt.ok)
			}
		})
	}
}

func TestValidatePhoneDigitBoundary(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"empty", "", false},
		{"nine digits", "123-456-789", false},
		{"nine digits plain", "123456789", false},
		{"ten digits plain", "5551234567", true},
		{"ten digits punctuated", "(555) 123-4567", true},
		{"country code", "+1 555-123-4567", true},
		{"letters only", "call me maybe", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidatePhone(tt.input)
			if v.OK != tt.ok {
				t.Fatalf("ValidatePhone(%q) = %v, want ok=%v", tt.input, v.OK, tt.ok)
			}
		})
	}
}

func TestExtractedEmailAlwaysValidates(t *testing.T) {
	messages := []string{
		"reach me at john@example.com please",
		"jane.doe+leads@mail.example.co or by phone",
		"EMAIL: Bob_99@sub.domain.org.",
	}
	for _, msg := range messages {
		email := ExtractEmail(msg)
		if email == "" {
			t.Fatalf("expected an email in %q", msg)
		}
		if v := ValidateEmail(email); !v.OK {
			t.Fatalf("extracted email %q failed validation: %s", email, v.Reason)
		}
	}
}
