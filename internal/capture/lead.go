package capture

import (
	"fmt"
	"strings"
)

// Stage is the conversation's position in the fixed lead-capture sequence.
type Stage string

const (
	StageGreeting   Stage = "GREETING"
	StageAskName    Stage = "ASK_NAME"
	StageAskEmail   Stage = "ASK_EMAIL"
	StageAskPhone   Stage = "ASK_PHONE"
	StageAskPurpose Stage = "ASK_PURPOSE"
	StageSummary    Stage = "SUMMARY"
	StageComplete   Stage = "COMPLETE"
)

// LeadRecord accumulates visitor facts over a conversation. Fields are
// first-write-wins: once set they are never cleared or overwritten until the
// conversation is reset.
type LeadRecord struct {
	Name               string `json:"name,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Purpose            string `json:"purpose,omitempty"`
	ConversationLength int    `json:"conversation_length"`
}

// Complete reports whether all four required fields have been captured.
func (l LeadRecord) Complete() bool {
	return l.Name != "" && l.Email != "" && l.Phone != "" && l.Purpose != ""
}

// Merge copies non-empty extracted fields into the record without touching
// fields that already have a value.
func (l LeadRecord) Merge(ex Extracted) LeadRecord {
	if l.Name == "" && ex.Name != "" {
		l.Name = ex.Name
	}
	if l.Email == "" && ex.Email != "" {
		l.Email = ex.Email
	}
	if l.Phone == "" && ex.Phone != "" {
		l.Phone = ex.Phone
	}
	if l.Purpose == "" && ex.Purpose != "" {
		l.Purpose = ex.Purpose
	}
	return l
}

// Summary renders the captured fields on one line for prompts and logs.
func (l LeadRecord) Summary() string {
	parts := make([]string, 0, 4)
	if l.Name != "" {
		parts = append(parts, fmt.Sprintf("Name: %s", l.Name))
	}
	if l.Email != "" {
		parts = append(parts, fmt.Sprintf("Email: %s", l.Email))
	}
	if l.Phone != "" {
		parts = append(parts, fmt.Sprintf("Phone: %s", l.Phone))
	}
	if l.Purpose != "" {
		parts = append(parts, fmt.Sprintf("Project: %s", l.Purpose))
	}
	if len(parts) == 0 {
		return "nothing captured yet"
	}
	return strings.Join(parts, " | ")
}
