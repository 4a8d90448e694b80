package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/darknebula/leadchat/pkg/logging"
)

type fakeSender struct {
	sent []EmailMessage
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestNotifyNewLead(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, "sales@darknebula.tech", "Sales", logging.New("error"))

	err := svc.NotifyNewLead(context.Background(), LeadNotification{
		Name:               "Jane",
		Email:              "jane@test.com",
		Phone:              "5551234567",
		Purpose:            "ecommerce",
		Source:             "chatbot",
		ConversationLength: 9,
	})
	if err != nil {
		t.Fatalf("NotifyNewLead failed: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}

	msg := sender.sent[0]
	if msg.To != "sales@darknebula.tech" {
		t.Fatalf("wrong recipient: %q", msg.To)
	}
	if msg.Subject != "New lead: Jane (ecommerce)" {
		t.Fatalf("unexpected subject: %q", msg.Subject)
	}
	for _, want := range []string{"jane@test.com", "5551234567", "₹60k - ₹1.5L", "chatbot"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q:\n%s", want, msg.Body)
		}
	}
}

func TestNotifySkippedWithoutRecipient(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, "", "", logging.New("error"))

	if err := svc.NotifyNewLead(context.Background(), LeadNotification{Name: "Jane"}); err != nil {
		t.Fatalf("expected silent skip, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("email sent despite missing recipient")
	}
}

func TestNotifySenderFailureWrapped(t *testing.T) {
	sendErr := errors.New("smtp exploded")
	svc := NewService(&fakeSender{err: sendErr}, "sales@darknebula.tech", "Sales", logging.New("error"))

	err := svc.NotifyNewLead(context.Background(), LeadNotification{Name: "Jane"})
	if !errors.Is(err, sendErr) {
		t.Fatalf("expected wrapped sender error, got %v", err)
	}
}
