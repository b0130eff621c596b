package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/leadspark/upwork-radar/internal/offering"
	"github.com/leadspark/upwork-radar/internal/store"
	"github.com/leadspark/upwork-radar/internal/tracker"
	"github.com/leadspark/upwork-radar/internal/upwork"
)

const batchPayload = `{
	"success": true,
	"results": [
		{"keyword": "react", "jobs": [
			{"id": "j1", "title": "React Developer Needed", "description": "Budget: $2000", "link": "https://example.com/j1"},
			{"id": "j2", "title": "Python scraper", "description": "Hourly Range: $30-$50. Skills: Python, Scrapy.", "link": "https://example.com/j2"}
		]}
	]
}`

func newTestServer(t *testing.T) (*Server, *offering.Registry) {
	t.Helper()

	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(batchPayload))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(proxy.Close)

	registry := offering.NewRegistry([]offering.Offering{
		{Name: "Web", Keywords: []string{"react"}, RateMin: 50, RateMax: 100, Skills: []string{"react"}},
		{Name: "Data", Keywords: []string{"python"}, RateMin: 60, RateMax: 90, Skills: []string{"python"}},
	})

	trk := tracker.New(zap.NewNop(), upwork.New(zap.NewNop(), proxy.URL), registry, nil, store.NewMemory())
	trk.Refresh(context.Background())

	return NewServer(zap.NewNop(), trk, registry), registry
}

func doRequest(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding %s %s response: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec, resp
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	rec, resp := doRequest(t, s, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("unexpected health response: %d %+v", rec.Code, resp)
	}
}

func TestStatusEndpoint(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	rec, resp := doRequest(t, s, http.MethodGet, "/api/status", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status code %d", rec.Code)
	}
	data := resp.Data.(map[string]any)
	if data["state"] != tracker.StateOnline {
		t.Fatalf("expected online state, got %v", data["state"])
	}
	if data["projects"].(float64) != 2 {
		t.Fatalf("expected 2 projects, got %v", data["projects"])
	}
}

func TestListProjectsWithFilters(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/api/projects/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status code %d", rec.Code)
	}
	if items := resp.Data.([]any); len(items) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(items))
	}

	_, resp = doRequest(t, s, http.MethodGet, "/api/projects/?category=Data", "")
	items := resp.Data.([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 Data project, got %d", len(items))
	}
	item := items[0].(map[string]any)["project"].(map[string]any)
	if item["id"] != "j2" {
		t.Fatalf("expected j2, got %v", item["id"])
	}
}

func TestGetProjectWithAssessment(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/api/projects/j1/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status code %d: %+v", rec.Code, resp)
	}
	data := resp.Data.(map[string]any)
	assessment := data["assessment"].(map[string]any)
	if _, ok := assessment["recommendation"]; !ok {
		t.Fatalf("expected a fit assessment, got %v", assessment)
	}

	rec, _ = doRequest(t, s, http.MethodGet, "/api/projects/nope/", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown project, got %d", rec.Code)
	}
}

func TestSavedToggleAndFilter(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/api/projects/j1/saved", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status code %d", rec.Code)
	}
	if saved := resp.Data.(map[string]any)["saved"]; saved != true {
		t.Fatalf("expected saved=true, got %v", saved)
	}

	_, resp = doRequest(t, s, http.MethodGet, "/api/projects/?saved=true", "")
	if items := resp.Data.([]any); len(items) != 1 {
		t.Fatalf("expected only the saved project, got %d", len(items))
	}
}

func TestNotesRoundTrip(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	rec, _ := doRequest(t, s, http.MethodPut, "/api/projects/j1/notes", `{"notes": "ping client tuesday"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status code %d", rec.Code)
	}

	_, resp := doRequest(t, s, http.MethodGet, "/api/projects/j1/notes", "")
	if notes := resp.Data.(map[string]any)["notes"]; notes != "ping client tuesday" {
		t.Fatalf("unexpected notes: %v", notes)
	}
}

func TestOfferingsCRUD(t *testing.T) {
	t.Parallel()

	s, registry := newTestServer(t)

	rec, _ := doRequest(t, s, http.MethodPost, "/api/offerings/", `{"name": "Video", "keywords": ["editing"], "rateMin": 40, "rateMax": 70}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec, _ = doRequest(t, s, http.MethodPut, "/api/offerings/Video", `{"name": "Video", "keywords": ["editing", "motion"], "rateMin": 45, "rateMax": 80}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if off, ok := registry.Find("Video"); !ok || len(off.Keywords) != 2 {
		t.Fatalf("expected the update applied, got %+v (ok=%v)", off, ok)
	}

	rec, _ = doRequest(t, s, http.MethodDelete, "/api/offerings/Video", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, ok := registry.Find("Video"); ok {
		t.Fatal("expected the offering deleted")
	}

	rec, _ = doRequest(t, s, http.MethodDelete, "/api/offerings/Video", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestTemplateAndProfile(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	doRequest(t, s, http.MethodPut, "/api/template", `{"template": "Hello [RATE]"}`)
	_, resp := doRequest(t, s, http.MethodGet, "/api/template", "")
	if tpl := resp.Data.(map[string]any)["template"]; tpl != "Hello [RATE]" {
		t.Fatalf("unexpected template: %v", tpl)
	}

	doRequest(t, s, http.MethodPut, "/api/profile", `{"displayName": "Lena"}`)
	_, resp = doRequest(t, s, http.MethodGet, "/api/profile", "")
	if name := resp.Data.(map[string]any)["displayName"]; name != "Lena" {
		t.Fatalf("unexpected display name: %v", name)
	}
}

func TestProposalUnavailableWithoutGenerator(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/api/projects/j1/proposal", `{"rate": 80}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a generator, got %d (%+v)", rec.Code, resp)
	}

	rec, _ = doRequest(t, s, http.MethodGet, "/api/projects/j1/proposal", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing proposal, got %d", rec.Code)
	}
}

func TestRefreshEndpointAccepted(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	rec, _ := doRequest(t, s, http.MethodPost, "/api/refresh", "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
}

func TestDashboardAndSkillsGap(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/api/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status code %d", rec.Code)
	}
	views := resp.Data.(map[string]any)
	if views["stats"].(map[string]any)["total"].(float64) != 2 {
		t.Fatalf("expected 2 projects in stats, got %v", views["stats"])
	}

	rec, resp = doRequest(t, s, http.MethodGet, "/api/skills-gap", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status code %d", rec.Code)
	}
	gap := resp.Data.(map[string]any)
	if _, ok := gap["coverage"]; !ok {
		t.Fatalf("expected a coverage field, got %v", gap)
	}
}
