package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/darknebula/leadchat/pkg/logging"
)

func newTestHandler() (*Handler, *InMemoryRepository) {
	repo := NewInMemoryRepository()
	return NewHandler(repo, nil, logging.New("error")), repo
}

func TestCreateWebLead(t *testing.T) {
	h, _ := newTestHandler()

	body := `{"name":"Jane","email":"  JANE@Test.com ","phone":"5551234567","purpose":"ecommerce","source":"chatbot","conversation_length":9}`
	req := httptest.NewRequest(http.MethodPost, "/leads/web", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateWebLead(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var lead Lead
	if err := json.Unmarshal(rec.Body.Bytes(), &lead); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if lead.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if lead.Email != "jane@test.com" {
		t.Fatalf("email not normalized: %q", lead.Email)
	}
	if lead.ConversationLength != 9 {
		t.Fatalf("conversation length dropped: %d", lead.ConversationLength)
	}
}

func TestCreateWebLeadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"missing name", `{"email":"jane@test.com"}`},
		{"no contact info", `{"name":"Jane"}`},
		{"bad email", `{"name":"Jane","email":"not-an-email"}`},
		{"short phone", `{"name":"Jane","phone":"12345"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler()
			req := httptest.NewRequest(http.MethodPost, "/leads/web", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.CreateWebLead(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestListLeads(t *testing.T) {
	h, repo := newTestHandler()
	ctx := context.Background()

	for _, req := range []*CreateLeadRequest{
		{Name: "Jane", Email: "jane@test.com", Purpose: "ecommerce"},
		{Name: "Bob", Email: "bob@test.com", Purpose: "ai"},
		{Name: "Ada", Email: "ada@test.com", Purpose: "ecommerce"},
	} {
		if _, err := repo.Create(ctx, req); err != nil {
			t.Fatalf("seed lead failed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/leads?purpose=ecommerce&limit=10", nil)
	rec := httptest.NewRecorder()
	h.ListLeads(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp ListLeadsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected 2 ecommerce leads, got %d", resp.Count)
	}
	for _, lead := range resp.Leads {
		if lead.Purpose != "ecommerce" {
			t.Fatalf("filter leaked purpose %q", lead.Purpose)
		}
	}
}

func TestGetLead(t *testing.T) {
	h, repo := newTestHandler()

	created, err := repo.Create(context.Background(), &CreateLeadRequest{Name: "Jane", Email: "jane@test.com"})
	if err != nil {
		t.Fatalf("seed lead failed: %v", err)
	}

	r := chi.NewRouter()
	r.Get("/admin/leads/{id}", h.GetLead)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/leads/"+created.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/leads/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
