package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/darknebula/leadchat/internal/capture"
	"github.com/darknebula/leadchat/pkg/logging"
)

// LeadNotification carries the fields announced to the sales inbox when
// a new lead is captured.
type LeadNotification struct {
	Name               string
	Email              string
	Phone              string
	Purpose            string
	Message            string
	Source             string
	ConversationLength int
	CapturedAt         time.Time
}

// Service sends new-lead announcements to the configured sales contact.
type Service struct {
	email       EmailSender
	notifyEmail string
	notifyName  string
	logger      *logging.Logger
}

func NewService(email EmailSender, notifyEmail, notifyName string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:       email,
		notifyEmail: notifyEmail,
		notifyName:  notifyName,
		logger:      logger,
	}
}

// NotifyNewLead emails the sales contact about a freshly captured lead.
// Missing configuration downgrades to a log line instead of an error so
// lead submission never depends on email being up.
func (s *Service) NotifyNewLead(ctx context.Context, lead LeadNotification) error {
	if s == nil || s.email == nil || s.notifyEmail == "" {
		s.logger.Debug("lead notification skipped: email not configured",
			"lead_email", lead.Email)
		return nil
	}

	subject := fmt.Sprintf("New lead: %s", lead.Name)
	if lead.Purpose != "" {
		subject = fmt.Sprintf("New lead: %s (%s)", lead.Name, lead.Purpose)
	}

	msg := EmailMessage{
		To:      s.notifyEmail,
		ToName:  s.notifyName,
		Subject: subject,
		Body:    buildLeadBody(lead),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("lead notification failed", "error", err, "lead_email", lead.Email)
		return fmt.Errorf("notify: send lead notification: %w", err)
	}
	return nil
}

func buildLeadBody(lead LeadNotification) string {
	var b strings.Builder
	b.WriteString("A new lead came in through the website chatbot.\n\n")
	fmt.Fprintf(&b, "Name:    %s\n", lead.Name)
	fmt.Fprintf(&b, "Email:   %s\n", lead.Email)
	fmt.Fprintf(&b, "Phone:   %s\n", lead.Phone)
	if lead.Purpose != "" {
		fmt.Fprintf(&b, "Project: %s\n", lead.Purpose)
		if band, ok := capture.PriceRange(lead.Purpose); ok {
			fmt.Fprintf(&b, "Budget:  %s\n", capture.FormatPriceRange(band))
		}
	}
	if lead.Source != "" {
		fmt.Fprintf(&b, "Source:  %s\n", lead.Source)
	}
	if lead.ConversationLength > 0 {
		fmt.Fprintf(&b, "Turns:   %d\n", lead.ConversationLength)
	}
	if lead.Message != "" {
		fmt.Fprintf(&b, "\nMessage:\n%s\n", lead.Message)
	}
	if !lead.CapturedAt.IsZero() {
		fmt.Fprintf(&b, "\nCaptured at %s\n", lead.CapturedAt.Format("January 2, 2006 at 3:04 PM"))
	}
	return b.String()
}
