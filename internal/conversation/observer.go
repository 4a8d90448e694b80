package conversation

// Conversation lifecycle events published to the Observer.
const (
	EventTurnStarted      = "turn_started"
	EventStageAdvanced    = "stage_advanced"
	EventValidationFailed = "validation_failed"
	EventSummaryShown     = "summary_shown"
	EventReset            = "conversation_reset"
	EventContactHandoff   = "contact_handoff"
)

// Observer receives engine lifecycle events. Implementations must be
// fast and must not call back into the engine.
type Observer interface {
	OnEvent(name string, payload map[string]any)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(name string, payload map[string]any)

func (f ObserverFunc) OnEvent(name string, payload map[string]any) {
	f(name, payload)
}
