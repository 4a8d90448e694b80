package conversation

import (
	"fmt"
	"strings"

	"github.com/darknebula/leadchat/internal/capture"
)

// Greeting opens every new session.
const Greeting = "Hey there! 👋 I'm Dark Nebula's virtual consultant. I'd love to learn about your project and see how we can help. What's your name?"

// QuestionFor returns the scripted prompt for the field the given stage
// collects. It is the guaranteed reply when the phrasing LLM is down.
func QuestionFor(stage capture.Stage) string {
	switch stage {
	case capture.StageGreeting:
		return Greeting
	case capture.StageAskName:
		return "What's your name? This helps me personalize our conversation."
	case capture.StageAskEmail:
		return "Thanks! Now, what's the best email address to reach you?"
	case capture.StageAskPhone:
		return "Got it! What's the best phone number to reach you?"
	case capture.StageAskPurpose:
		return "Perfect! Now tell me, what type of project are you looking to build? (e.g., portfolio, business website, e-commerce store, web app, mobile app, AI/ML solution, data dashboard)"
	case capture.StageSummary:
		return "Ready to get started? Click below to go to our contact form where we can discuss your project in detail."
	case capture.StageComplete:
		return "Thank you for chatting with us!"
	default:
		return ""
	}
}

// BuildSummary renders the recap shown when every field is captured.
func BuildSummary(lead capture.LeadRecord) string {
	var b strings.Builder
	b.WriteString("Great! Here's what I've gathered:\n\n")
	fmt.Fprintf(&b, "👤 Name: %s\n", orDash(lead.Name))
	fmt.Fprintf(&b, "📧 Email: %s\n", orDash(lead.Email))
	fmt.Fprintf(&b, "📞 Phone: %s\n", orDash(lead.Phone))
	fmt.Fprintf(&b, "🎯 Project: %s\n", orDash(lead.Purpose))

	if band, ok := capture.PriceRange(lead.Purpose); ok {
		b.WriteString("\n💰 Estimated Budget Range:\n")
		b.WriteString(capture.FormatPriceRange(band))
		b.WriteString("\n(This is a ballpark estimate - we'll refine it during consultation)")
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

// phrasingSystemPrompt instructs the LLM to acknowledge the user and ask
// the scripted next question without inventing extra fields.
func phrasingSystemPrompt(userInput, nextQuestion string) string {
	return fmt.Sprintf(`You are Dark Nebula's professional virtual consultant. The user has just told you: %q.

Your job is to:
1. Acknowledge what they said briefly (1 sentence)
2. Ask the next question naturally: %s

Keep it conversational. Be encouraging. Never repeat questions. Only ask for: name, email, phone, project type.
Never ask for budget or other information not in those 4 fields.`, userInput, nextQuestion)
}
