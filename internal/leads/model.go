package leads

import (
	"strings"
	"time"

	"github.com/darknebula/leadchat/internal/capture"
)

// Lead is a captured prospect, persisted when a conversation (or the
// plain web form) hands one off.
type Lead struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	Purpose            string    `json:"purpose,omitempty"`
	Message            string    `json:"message,omitempty"`
	Source             string    `json:"source"`
	ConversationLength int       `json:"conversation_length,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// CreateLeadRequest is the request body for creating a lead.
type CreateLeadRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Purpose            string `json:"purpose"`
	Message            string `json:"message"`
	Source             string `json:"source"`
	ConversationLength int    `json:"conversation_length"`
}

// Normalize trims the contact fields and lowercases the email so the
// same address never lands twice with different casing.
func (r *CreateLeadRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Purpose = strings.ToLower(strings.TrimSpace(r.Purpose))
	r.Source = strings.TrimSpace(r.Source)
	if r.Source == "" {
		r.Source = "web"
	}
}

// Validate applies the same field rules the chatbot enforces.
func (r *CreateLeadRequest) Validate() error {
	if v := capture.ValidateName(r.Name); !v.OK {
		return ErrInvalidName
	}
	if r.Email == "" && r.Phone == "" {
		return ErrMissingContact
	}
	if r.Email != "" {
		if v := capture.ValidateEmail(r.Email); !v.OK {
			return ErrInvalidEmail
		}
	}
	if r.Phone != "" {
		if v := capture.ValidatePhone(r.Phone); !v.OK {
			return ErrInvalidPhone
		}
	}
	return nil
}
