package webchat

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/darknebula/leadchat/internal/conversation"
	"github.com/darknebula/leadchat/pkg/logging"
)

// EngineFactory builds a conversation engine bound to a session ID.
type EngineFactory func(sessionID string) *conversation.Engine

// Handler manages web chat connections and routes messages into the
// per-session conversation engines.
type Handler struct {
	newEngine EngineFactory
	logger    *logging.Logger

	mu      sync.RWMutex
	engines map[string]*conversation.Engine
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type      string `json:"type"` // "message", "reset", "contact", "ping"
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string           `json:"type"` // "message", "typing", "history", "session", "state", "contact", "error", "pong"
	Text      string           `json:"text,omitempty"`
	Sender    string           `json:"sender,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
	Stage     string           `json:"stage,omitempty"`
	StepLabel string           `json:"step_label,omitempty"`
	Progress  float64          `json:"progress,omitempty"`
	Target    string           `json:"target,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified message for history replay.
type HistoryMessage struct {
	ID        int    `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Stage     string `json:"stage"`
	Timestamp string `json:"timestamp"`
}

// NewHandler creates a web chat handler.
func NewHandler(newEngine EngineFactory, logger *logging.Logger) *Handler {
	if newEngine == nil {
		panic("webchat: engine factory required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		newEngine: newEngine,
		logger:    logger,
		engines:   make(map[string]*conversation.Engine),
	}
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// engine returns the session's engine, creating and restoring it on
// first sight.
func (h *Handler) engine(r *http.Request, sessionID string) *conversation.Engine {
	h.mu.RLock()
	eng, ok := h.engines[sessionID]
	h.mu.RUnlock()
	if ok {
		return eng
	}

	h.mu.Lock()
	if eng, ok = h.engines[sessionID]; !ok {
		eng = h.newEngine(sessionID)
		h.engines[sessionID] = eng
		h.mu.Unlock()
		eng.Restore(r.Context())
		return eng
	}
	h.mu.Unlock()
	return eng
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	eng := h.engine(r, sessionID)

	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:      "session",
		SessionID: sessionID,
	})
	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:     "history",
		Messages: toHistory(eng.Messages()),
	})
	h.sendState(conn, eng)

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
		case "reset":
			greeting := eng.Reset(r.Context())
			_ = websocket.JSON.Send(conn, outbound(greeting))
			h.sendState(conn, eng)
		case "contact":
			target, err := eng.AdvanceToContact(r.Context())
			if err != nil {
				_ = websocket.JSON.Send(conn, OutboundMessage{
					Type: "error",
					Text: "Let's finish up first - I still need a couple of details.",
				})
				continue
			}
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "contact", Target: target})
			h.sendState(conn, eng)
		case "message":
			if strings.TrimSpace(msg.Text) == "" {
				continue
			}
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "typing"})
			reply, err := eng.Submit(r.Context(), msg.Text)
			if err != nil {
				if errors.Is(err, conversation.ErrTurnInFlight) {
					_ = websocket.JSON.Send(conn, OutboundMessage{
						Type: "error",
						Text: "One moment - I'm still working on your last message.",
					})
					continue
				}
				h.logger.Error("webchat: submit failed", "error", err, "session_id", sessionID)
				_ = websocket.JSON.Send(conn, OutboundMessage{
					Type: "error",
					Text: "Sorry, something went wrong. Please try again.",
				})
				continue
			}
			if reply != nil {
				_ = websocket.JSON.Send(conn, outbound(*reply))
			}
			h.sendState(conn, eng)
		}
	}
}

func (h *Handler) sendState(conn *websocket.Conn, eng *conversation.Engine) {
	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:      "state",
		Stage:     string(eng.Stage()),
		StepLabel: eng.StepLabel(),
		Progress:  eng.Progress(),
	})
}

func outbound(msg conversation.Message) OutboundMessage {
	return OutboundMessage{
		Type:      "message",
		Text:      msg.Text,
		Sender:    string(msg.Sender),
		Stage:     string(msg.Stage),
		Timestamp: msg.Timestamp.Format(time.RFC3339),
	}
}

func toHistory(msgs []conversation.Message) []HistoryMessage {
	history := make([]HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, HistoryMessage{
			ID:        m.ID,
			Sender:    string(m.Sender),
			Text:      m.Text,
			Stage:     string(m.Stage),
			Timestamp: m.Timestamp.Format(time.RFC3339),
		})
	}
	return history
}

// HandleMessage is the HTTP fallback for sending messages.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	eng := h.engine(r, req.SessionID)
	reply, err := eng.Submit(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, conversation.ErrTurnInFlight) {
			http.Error(w, "a turn is already being processed", http.StatusConflict)
			return
		}
		h.logger.Error("webchat: submit failed", "error", err, "session_id", req.SessionID)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	resp := struct {
		SessionID string           `json:"session_id"`
		Reply     *OutboundMessage `json:"reply,omitempty"`
		Stage     string           `json:"stage"`
		StepLabel string           `json:"step_label"`
		Progress  float64          `json:"progress"`
	}{
		SessionID: req.SessionID,
		Stage:     string(eng.Stage()),
		StepLabel: eng.StepLabel(),
		Progress:  eng.Progress(),
	}
	if reply != nil {
		out := outbound(*reply)
		resp.Reply = &out
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// HandleHistory returns the transcript for a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	eng := h.engine(r, sessionID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"messages": toHistory(eng.Messages()),
	})
}

// HandleState reports the current stage, progress, and captured fields.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	eng := h.engine(r, sessionID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"session_id": sessionID,
		"stage":      string(eng.Stage()),
		"step_label": eng.StepLabel(),
		"progress":   eng.Progress(),
		"busy":       eng.Busy(),
		"lead":       eng.Lead(),
	})
}

// HandleReset restarts a conversation.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	eng := h.engine(r, req.SessionID)
	greeting := eng.Reset(r.Context())

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"session_id": req.SessionID,
		"greeting":   outbound(greeting),
		"stage":      string(eng.Stage()),
	})
}

// HandleContactURL completes a summarized conversation and returns the
// prefilled contact form URL.
func (h *Handler) HandleContactURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	eng := h.engine(r, req.SessionID)
	target, err := eng.AdvanceToContact(r.Context())
	if err != nil {
		if errors.Is(err, conversation.ErrNotInSummary) {
			http.Error(w, "conversation has not reached the summary yet", http.StatusConflict)
			return
		}
		h.logger.Error("webchat: contact handoff failed", "error", err, "session_id", req.SessionID)
		http.Error(w, "failed to build contact url", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"session_id": req.SessionID,
		"target":     target,
	})
}
