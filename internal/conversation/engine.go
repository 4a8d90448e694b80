package conversation

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/darknebula/leadchat/internal/capture"
	"github.com/darknebula/leadchat/internal/observability/metrics"
	"github.com/darknebula/leadchat/pkg/logging"
)

var (
	// ErrTurnInFlight is returned when Submit is called while a previous
	// turn is still being processed.
	ErrTurnInFlight = errors.New("conversation: a turn is already in flight")

	// ErrNotInSummary is returned when the contact handoff is requested
	// before the conversation reached the summary.
	ErrNotInSummary = errors.New("conversation: contact handoff requires the summary stage")
)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithPhraser sets the LLM used to rephrase scripted questions. Without
// one the engine always replies with the scripted text.
func WithPhraser(client LLMClient, model string) EngineOption {
	return func(e *Engine) {
		e.phraser = client
		e.model = model
	}
}

func WithStore(store SessionStore) EngineOption {
	return func(e *Engine) { e.store = store }
}

func WithObserver(obs Observer) EngineOption {
	return func(e *Engine) { e.observer = obs }
}

func WithMetrics(m *metrics.ConversationMetrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

func WithLogger(logger *logging.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source, used in tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.clock = now
		}
	}
}

// WithHistoryWindow bounds how many transcript messages are sent to the
// phrasing LLM. Zero disables history.
func WithHistoryWindow(n int) EngineOption {
	return func(e *Engine) { e.historyWindow = n }
}

func WithLLMTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.llmTimeout = d }
}

// WithContactPath sets the contact form path used by the handoff URL.
func WithContactPath(p string) EngineOption {
	return func(e *Engine) {
		if p != "" {
			e.contactPath = p
		}
	}
}

// Engine drives one lead-capture conversation. It owns the staged
// field-collection flow: every user turn runs extraction, validation,
// stage advancement, and reply selection, in that order. All methods
// are safe for concurrent use; turns themselves are serialized.
type Engine struct {
	id       string
	logger   *logging.Logger
	phraser  LLMClient
	model    string
	store    SessionStore
	observer Observer
	metrics  *metrics.ConversationMetrics
	clock    func() time.Time

	historyWindow int
	llmTimeout    time.Duration
	contactPath   string

	mu          sync.Mutex
	stage       capture.Stage
	lead        capture.LeadRecord
	messages    []Message
	nextID      int
	lastBotText string
	busy        bool
	// gen increments on every reset so replies computed against a
	// previous conversation are discarded instead of appended.
	gen uint64
}

func NewEngine(sessionID string, opts ...EngineOption) *Engine {
	e := &Engine{
		id:            sessionID,
		logger:        logging.Default(),
		clock:         time.Now,
		historyWindow: 6,
		llmTimeout:    30 * time.Second,
		contactPath:   "/contact",
		stage:         capture.StageGreeting,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) ID() string { return e.id }

// Start wipes any in-memory and persisted state and emits the greeting.
func (e *Engine) Start(ctx context.Context) Message {
	e.mu.Lock()
	e.gen++
	e.busy = false
	e.stage = capture.StageGreeting
	e.lead = capture.LeadRecord{}
	e.messages = nil
	e.nextID = 0
	greeting := e.appendLocked(Greeting, SenderBot, capture.StageGreeting)
	e.lastBotText = Greeting
	snap := e.snapshotLocked()
	e.mu.Unlock()

	if e.store != nil {
		if err := e.store.Clear(ctx, e.id); err != nil {
			e.logger.Warn("clear session failed", "error", err.Error(), "session_id", e.id)
		}
		e.persist(ctx, []Message{greeting}, snap)
	}
	return greeting
}

// Reset restarts the conversation. Any turn still waiting on the LLM is
// silently discarded when it completes.
func (e *Engine) Reset(ctx context.Context) Message {
	e.observe(EventReset, map[string]any{"session_id": e.id})
	return e.Start(ctx)
}

// Restore loads persisted state for this session, falling back to Start
// when nothing usable is stored. It returns the transcript to replay.
func (e *Engine) Restore(ctx context.Context) []Message {
	if e.store == nil {
		e.Start(ctx)
		return e.Messages()
	}

	snap, ok, err := e.store.LoadState(ctx, e.id)
	if err != nil {
		e.logger.Warn("load session state failed", "error", err.Error(), "session_id", e.id)
	}
	if !ok {
		e.Start(ctx)
		return e.Messages()
	}

	msgs, err := e.store.ListMessages(ctx, e.id, 0)
	if err != nil {
		e.logger.Warn("load transcript failed", "error", err.Error(), "session_id", e.id)
	}
	if len(msgs) == 0 {
		e.Start(ctx)
		return e.Messages()
	}

	e.mu.Lock()
	e.lead = snap.Lead
	e.stage = snap.Stage
	e.messages = msgs
	maxID := 0
	for _, m := range msgs {
		if m.ID > maxID {
			maxID = m.ID
		}
	}
	e.nextID = maxID
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == SenderBot {
			e.lastBotText = msgs[i].Text
			break
		}
	}
	e.mu.Unlock()
	return e.Messages()
}

// Submit processes one user turn and returns the bot reply, or nil when
// the reply was suppressed as a duplicate, the input was empty, or the
// conversation was reset while the turn was in flight.
func (e *Engine) Submit(ctx context.Context, text string) (*Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	e.busy = true
	gen := e.gen
	stage := e.stage
	start := e.clock()

	e.observe(EventTurnStarted, map[string]any{"session_id": e.id, "stage": string(stage)})

	pending := []Message{e.appendLocked(trimmed, SenderUser, stage)}

	ex := capture.ExtractLead(trimmed)
	if stage != capture.StageAskName {
		// The name heuristic is permissive enough to misread casual
		// replies ("Hi" would pass), so it only applies while the name
		// is actually being asked for.
		ex.Name = ""
	}
	working := e.lead.Merge(ex)

	if v := validateStageInput(stage, working, trimmed); !v.OK {
		bot := e.appendLocked(v.Reason, SenderBot, stage)
		e.lastBotText = v.Reason
		pending = append(pending, bot)
		snap := e.snapshotLocked()
		e.busy = false
		e.observe(EventValidationFailed, map[string]any{"session_id": e.id, "stage": string(stage), "reason": v.Reason})
		e.mu.Unlock()

		e.metrics.ObserveTurn(string(stage), "validation_failed", e.clock().Sub(start).Seconds())
		e.persist(ctx, pending, snap)
		return &bot, nil
	}

	working.ConversationLength = e.lead.ConversationLength + 1
	e.lead = working

	if working.Complete() {
		e.stage = capture.StageSummary
		summary := BuildSummary(e.lead)
		var bot *Message
		if summary != e.lastBotText {
			m := e.appendLocked(summary, SenderBot, capture.StageSummary)
			e.lastBotText = summary
			pending = append(pending, m)
			bot = &m
		}
		snap := e.snapshotLocked()
		e.busy = false
		e.observe(EventSummaryShown, map[string]any{"session_id": e.id})
		e.mu.Unlock()

		e.metrics.ObserveLeadCaptured()
		e.metrics.ObserveTurn(string(stage), "summary", e.clock().Sub(start).Seconds())
		e.persist(ctx, pending, snap)
		return bot, nil
	}

	next := capture.NextStage(e.lead)
	if next != stage {
		e.observe(EventStageAdvanced, map[string]any{"session_id": e.id, "from": string(stage), "to": string(next)})
	}
	e.stage = next
	canned := QuestionFor(next)
	reply := canned

	var hist []Message
	if e.phraser != nil && e.historyWindow > 0 {
		w := e.historyWindow
		if len(e.messages) < w {
			w = len(e.messages)
		}
		hist = make([]Message, w)
		copy(hist, e.messages[len(e.messages)-w:])
	}
	phraser := e.phraser
	e.mu.Unlock()

	if phraser != nil {
		phrased, err := e.phrase(ctx, trimmed, hist, canned)
		if err != nil {
			e.logger.Warn("phrasing LLM unavailable, using scripted question",
				"error", err.Error(), "session_id", e.id)
			e.metrics.ObserveLLMFallback()
		} else if strings.TrimSpace(phrased) != "" {
			reply = strings.TrimSpace(phrased)
		} else {
			e.metrics.ObserveLLMFallback()
		}
	}

	e.mu.Lock()
	if e.gen != gen {
		// Reset won the race; this reply belongs to the old conversation.
		e.mu.Unlock()
		return nil, nil
	}
	if reply == e.lastBotText {
		reply = canned
	}
	var bot *Message
	if reply != e.lastBotText {
		m := e.appendLocked(reply, SenderBot, next)
		e.lastBotText = reply
		pending = append(pending, m)
		bot = &m
	}
	snap := e.snapshotLocked()
	e.busy = false
	e.mu.Unlock()

	e.metrics.ObserveTurn(string(stage), "advanced", e.clock().Sub(start).Seconds())
	e.persist(ctx, pending, snap)
	return bot, nil
}

// AdvanceToContact finishes a summarized conversation and returns the
// contact form URL carrying the captured fields.
func (e *Engine) AdvanceToContact(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.stage != capture.StageSummary {
		e.mu.Unlock()
		return "", ErrNotInSummary
	}
	e.stage = capture.StageComplete
	lead := e.lead
	snap := e.snapshotLocked()
	e.mu.Unlock()

	params := url.Values{}
	if lead.Name != "" {
		params.Set("name", lead.Name)
	}
	if lead.Email != "" {
		params.Set("email", lead.Email)
	}
	if lead.Phone != "" {
		params.Set("phone", lead.Phone)
	}
	if lead.Purpose != "" {
		params.Set("purpose", lead.Purpose)
	}
	target := e.contactPath
	if q := params.Encode(); q != "" {
		target += "?" + q
	}

	e.observe(EventContactHandoff, map[string]any{"session_id": e.id, "target": target})
	e.persist(ctx, nil, snap)
	return target, nil
}

func (e *Engine) Stage() capture.Stage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stage
}

func (e *Engine) Lead() capture.LeadRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lead
}

// Messages returns a copy of the transcript.
func (e *Engine) Messages() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Message, len(e.messages))
	copy(out, e.messages)
	return out
}

// Busy reports whether a turn is currently being processed. The webchat
// layer uses it to drive the typing indicator.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

func (e *Engine) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return capture.Progress(e.stage)
}

func (e *Engine) StepLabel() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return capture.StepLabel(e.stage)
}

// validateStageInput checks the field the current stage collects. When
// extraction found nothing, the raw input is validated instead so the
// re-prompt names what was wrong with it.
func validateStageInput(stage capture.Stage, working capture.LeadRecord, raw string) capture.Validation {
	switch stage {
	case capture.StageAskName:
		if working.Name == "" {
			return capture.ValidateName(raw)
		}
		return capture.ValidateName(working.Name)
	case capture.StageAskEmail:
		if working.Email == "" {
			return capture.ValidateEmail(raw)
		}
		return capture.ValidateEmail(working.Email)
	case capture.StageAskPhone:
		if working.Phone == "" {
			return capture.ValidatePhone(raw)
		}
		return capture.ValidatePhone(working.Phone)
	case capture.StageAskPurpose:
		return capture.ValidatePurpose(working.Purpose)
	default:
		return capture.Validation{OK: true}
	}
}

func (e *Engine) phrase(ctx context.Context, userInput string, hist []Message, nextQuestion string) (string, error) {
	if e.llmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.llmTimeout)
		defer cancel()
	}

	msgs := make([]PromptMessage, 0, len(hist))
	for _, m := range hist {
		role := RoleUser
		if m.Sender == SenderBot {
			role = RoleAssistant
		}
		msgs = append(msgs, PromptMessage{Role: role, Content: m.Text})
	}

	resp, err := e.phraser.Complete(ctx, LLMRequest{
		Model:       e.model,
		System:      []string{phrasingSystemPrompt(userInput, nextQuestion)},
		Messages:    msgs,
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (e *Engine) appendLocked(text string, sender Sender, stage capture.Stage) Message {
	e.nextID++
	msg := Message{
		ID:        e.nextID,
		Text:      text,
		Sender:    sender,
		Timestamp: e.clock().UTC(),
		Stage:     stage,
	}
	e.messages = append(e.messages, msg)
	return msg
}

func (e *Engine) snapshotLocked() StateSnapshot {
	return StateSnapshot{
		Lead:      e.lead,
		Stage:     e.stage,
		UpdatedAt: e.clock().UTC(),
	}
}

func (e *Engine) persist(ctx context.Context, msgs []Message, snap StateSnapshot) {
	if e.store == nil {
		return
	}
	for _, msg := range msgs {
		if err := e.store.AppendMessage(ctx, e.id, msg); err != nil {
			e.logger.Warn("append transcript failed", "error", err.Error(), "session_id", e.id)
		}
	}
	if err := e.store.SaveState(ctx, e.id, snap); err != nil {
		e.logger.Warn("save session state failed", "error", err.Error(), "session_id", e.id)
	}
}

func (e *Engine) observe(name string, payload map[string]any) {
	if e.observer == nil {
		return
	}
	e.observer.OnEvent(name, payload)
}
