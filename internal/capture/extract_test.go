package capture

import "testing"

func TestExtractEmailFirstMatch(t *testing.T) {
	got := ExtractEmail("ping a@b.co or c@d.io")
	if got != "a@b.co" {
		t.Fatalf("expected first match, got %q", got)
	}
	if ExtractEmail("no address here") != "" {
		t.Fatal("expected empty result for text without an email")
	}
}

func TestExtractPhoneVerbatim(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"call +1 555-123-4567 anytime", "+1 555-123-4567"},
		{"(555) 123-4567", "(555) 123-4567"},
		{"555.123.4567 works", "555.123.4567"},
		{"5551234567", "5551234567"},
		{"no number", ""},
	}
	for _, tt := range tests {
		if got := ExtractPhone(tt.input); got != tt.want {
			t.Errorf("ExtractPhone(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractNameStoplistAndCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"my name is john smith", "John Smith"},
		{"I'm JANE", "Jane"},
		{"i am called bob, thanks", "Bob"},
		{"please thanks", ""},
		{"", ""},
		{"anna maria von trapp overflowing", "Anna Maria Von"},
	}
	for _, tt := range tests {
		if got := ExtractName(tt.input); got != tt.want {
			t.Errorf("ExtractName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractNameIgnoresEmailAndPhone(t *testing.T) {
	got := ExtractName("I'm Jane, jane@test.com")
	if got != "Jane" {
		t.Fatalf("expected Jane, got %q", got)
	}
	got = ExtractName("bob +1 555-123-4567")
	if got != "Bob" {
		t.Fatalf("expected Bob, got %q", got)
	}
}

func TestDetectPurposeFirstCategoryWins(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"I need a business website", "business"},
		{"an online shop to sell products", "ecommerce"},
		{"a personal portfolio", "portfolio"},
		{"a SaaS platform", "webapp"},
		{"an iOS thing", "mobile"},
		{"a chatbot with automation", "ai"},
		{"an analytics dashboard", "data"},
		{"branding and logo work", "design"},
		{"hello there", ""},
		// "portfolio website" hits both portfolio and business; the table
		// order makes portfolio win.
		{"a portfolio website", "portfolio"},
	}
	for _, tt := range tests {
		if got := DetectPurpose(tt.input); got != tt.want {
			t.Errorf("DetectPurpose(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractLeadCombined(t *testing.T) {
	ex := ExtractLead("I'm Jane, jane@test.com, +1 555-123-4567")
	if ex.Name != "Jane" {
		t.Errorf("name: got %q", ex.Name)
	}
	if ex.Email != "jane@test.com" {
		t.Errorf("email: got %q", ex.Email)
	}
	if ex.Phone != "+1 555-123-4567" {
		t.Errorf("phone: got %q", ex.Phone)
	}
	if ex.Purpose != "" {
		t.Errorf("purpose: got %q, want none", ex.Purpose)
	}

	ex = ExtractLead("I want to sell products in an online store")
	if ex.Purpose != "ecommerce" {
		t.Errorf("purpose: got %q, want ecommerce", ex.Purpose)
	}
}

func TestExtractLeadDiscardsOneCharName(t *testing.T) {
	ex := ExtractLead("x")
	if ex.Name != "" {
		t.Fatalf("expected one-char name discarded, got %q", ex.Name)
	}
}
