package capture

import (
	"regexp"
	"strings"
	"unicode"
)

// ---------- package-level compiled regexes ----------

var (
	emailRE = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	// Optional +country code, optional space/dot/hyphen/paren separators,
	// 3-3-4 digit grouping. The match is returned verbatim.
	phoneRE = regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// Extracted holds whatever subset of lead fields a message yielded.
// Empty fields mean "not found".
type Extracted struct {
	Name    string
	Email   string
	Phone   string
	Purpose string
}

// ExtractEmail returns the first email-shaped substring, or "".
func ExtractEmail(text string) string {
	return emailRE.FindString(text)
}

// ExtractPhone returns the first phone-shaped substring exactly as typed,
// including punctuation, or "".
func ExtractPhone(text string) string {
	return phoneRE.FindString(text)
}

// nameStoplist holds filler words dropped before treating tokens as a name.
var nameStoplist = map[string]struct{}{
	"i'm":    {},
	"i":      {},
	"my":     {},
	"name":   {},
	"is":     {},
	"am":     {},
	"called": {},
	"please": {},
	"thanks": {},
}

// ExtractName tokenizes the message, drops stoplist filler words, keeps at
// most the first 3 surviving tokens, and title-cases each. Email and phone
// substrings are stripped first so they never masquerade as name tokens.
// Returns "" when nothing survives.
func ExtractName(text string) string {
	cleaned := emailRE.ReplaceAllString(text, " ")
	cleaned = phoneRE.ReplaceAllString(cleaned, " ")

	words := strings.Fields(cleaned)
	names := make([]string, 0, 3)
	for _, word := range words {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && r != '\''
		})
		if word == "" {
			continue
		}
		if _, stop := nameStoplist[strings.ToLower(word)]; stop {
			continue
		}
		names = append(names, capitalize(word))
		if len(names) == 3 {
			break
		}
	}
	if len(names) == 0 {
		return ""
	}
	return strings.Join(names, " ")
}

func capitalize(word string) string {
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// purposeCategories maps project categories to detection keywords. Order is
// the tie-break: the first category with any keyword hit wins.
var purposeCategories = []struct {
	category string
	keywords []string
}{
	{"portfolio", []string{"portfolio", "personal", "showcase", "resume", "cv"}},
	{"business", []string{"business", "company", "corporate", "website", "site"}},
	{"ecommerce", []string{"ecommerce", "shop", "store", "product", "sell"}},
	{"webapp", []string{"app", "application", "web app", "platform", "saas", "service"}},
	{"mobile", []string{"mobile", "app", "ios", "android", "iphone"}},
	{"ai", []string{"ai", "artificial", "machine learning", "ml", "chatbot", "automation"}},
	{"data", []string{"data", "analytics", "dashboard", "visualization", "report"}},
	{"design", []string{"design", "ui", "ux", "branding", "logo", "creative"}},
}

// DetectPurpose lower-cases the message and returns the first category whose
// keyword list has a substring hit, or "".
func DetectPurpose(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range purposeCategories {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return ""
}

// PurposeCategories returns the known category names in declaration order.
func PurposeCategories() []string {
	out := make([]string, len(purposeCategories))
	for i, entry := range purposeCategories {
		out[i] = entry.category
	}
	return out
}

// ExtractLead runs every extractor over one message. Extraction is
// best-effort: each field is independently "found" or left empty. A name
// shorter than 2 characters is discarded as noise.
func ExtractLead(text string) Extracted {
	ex := Extracted{
		Email:   ExtractEmail(text),
		Phone:   ExtractPhone(text),
		Purpose: DetectPurpose(text),
	}
	if name := ExtractName(text); len([]rune(name)) > 1 {
		ex.Name = name
	}
	return ex
}
