// Package server_test exercises the HTTP layer with a scripted service.
package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chromabiz/chromabiz/internal/palette"
	"github.com/chromabiz/chromabiz/internal/quota"
	"github.com/chromabiz/chromabiz/internal/server"
	"github.com/chromabiz/chromabiz/internal/service"
)

// stubService is a scripted PaletteService.
type stubService struct {
	generateResult *service.GenerationResult
	generateErr    error
	refineResult   *service.RefineResult
	refineErr      error
	status         quota.Status
	statusErr      error
	lastClientID   string
}

func (s *stubService) GeneratePalettes(_ context.Context, _ palette.BrandingRequest, clientID string) (*service.GenerationResult, error) {
	s.lastClientID = clientID
	return s.generateResult, s.generateErr
}

func (s *stubService) Refine(_ context.Context, _ palette.ChatContext, _, clientID string) (*service.RefineResult, error) {
	s.lastClientID = clientID
	return s.refineResult, s.refineErr
}

func (s *stubService) RateLimit(_ context.Context, clientID string) (quota.Status, error) {
	s.lastClientID = clientID
	return s.status, s.statusErr
}

func newTestRouter(svc server.PaletteService) *server.Router {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return server.NewRouter(log, svc, nil, []string{"*"})
}

const validGenerateBody = `{
	"business_name": "Aurora Cafe",
	"business_category": "Food & Beverage",
	"target_country": "Brazil",
	"age_groups": ["18-24"],
	"target_gender": "All"
}`

func TestGeneratePalettesSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubService{generateResult: &service.GenerationResult{
		Palettes:             palette.Fallback("Technology"),
		RemainingGenerations: 0,
	}}
	router := newTestRouter(svc)

	req := httptest.NewRequest("POST", "/api/generate-palettes", strings.NewReader(validGenerateBody))
	req.RemoteAddr = "10.0.0.9:52110"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Palettes             []palette.Palette `json:"palettes"`
		RemainingGenerations int               `json:"remaining_generations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(payload.Palettes) == 0 {
		t.Error("expected palettes in response")
	}
	if svc.lastClientID != "10.0.0.9" {
		t.Errorf("expected client id from peer address, got %q", svc.lastClientID)
	}
}

func TestGeneratePalettesQuotaExceeded(t *testing.T) {
	t.Parallel()

	svc := &stubService{generateErr: service.ErrQuotaExceeded}
	router := newTestRouter(svc)

	req := httptest.NewRequest("POST", "/api/generate-palettes", strings.NewReader(validGenerateBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 429 {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Daily generation limit reached") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestGeneratePalettesValidation(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubService{})

	cases := []struct {
		name string
		body string
		want int
	}{
		{name: "malformed json", body: "{", want: 400},
		{name: "missing fields", body: `{"business_name":"X"}`, want: 422},
		{name: "empty age groups", body: `{"business_name":"X","business_category":"C","target_country":"BR","age_groups":[],"target_gender":"All"}`, want: 422},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest("POST", "/api/generate-palettes", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestClientIPFromForwardedHeader(t *testing.T) {
	t.Parallel()

	svc := &stubService{status: quota.Status{GenerationsRemaining: 1, RevisionsRemaining: 3, ResetTime: time.Now()}}
	router := newTestRouter(svc)

	req := httptest.NewRequest("GET", "/api/rate-limit", nil)
	req.RemoteAddr = "10.0.0.9:52110"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastClientID != "203.0.113.7" {
		t.Errorf("expected first forwarded address, got %q", svc.lastClientID)
	}
}

func TestRateLimitResponseShape(t *testing.T) {
	t.Parallel()

	reset := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	svc := &stubService{status: quota.Status{GenerationsRemaining: 1, RevisionsRemaining: 2, ResetTime: reset}}
	router := newTestRouter(svc)

	req := httptest.NewRequest("GET", "/api/rate-limit", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload struct {
		GenerationsRemaining int    `json:"generations_remaining"`
		RevisionsRemaining   int    `json:"revisions_remaining"`
		ResetTime            string `json:"reset_time"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if payload.GenerationsRemaining != 1 || payload.RevisionsRemaining != 2 {
		t.Errorf("unexpected counters: %+v", payload)
	}
	if payload.ResetTime != "2025-06-02T12:00:00Z" {
		t.Errorf("expected RFC 3339 reset time, got %q", payload.ResetTime)
	}
}

func TestChatProviderFailure(t *testing.T) {
	t.Parallel()

	svc := &stubService{refineErr: service.ErrProvider}
	router := newTestRouter(svc)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 502 {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestChatQuotaExceeded(t *testing.T) {
	t.Parallel()

	svc := &stubService{refineErr: service.ErrQuotaExceeded}
	router := newTestRouter(svc)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 429 {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestChatSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubService{refineResult: &service.RefineResult{Response: "try #FA8C16", RemainingRevisions: 2}}
	router := newTestRouter(svc)

	body := `{"message":"make it warmer","context":{"palettes":[],"business_info":{"business_name":"Aurora Cafe"}},"session_id":"s1"}`
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Response           string `json:"response"`
		RemainingRevisions int    `json:"remaining_revisions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if payload.Response != "try #FA8C16" || payload.RemainingRevisions != 2 {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestRootBanner(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubService{})

	req := httptest.NewRequest("GET", "/api/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ChromaBiz AI API") {
		t.Errorf("unexpected banner: %s", rec.Body.String())
	}
}

func TestStatusEndpointsWithoutStore(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubService{})

	req := httptest.NewRequest("GET", "/api/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 503 {
		t.Fatalf("expected 503 without an audit store, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubService{})

	req := httptest.NewRequest("GET", "/api/generate-palettes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 405 {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubService{})

	req := httptest.NewRequest("OPTIONS", "/api/generate-palettes", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 204 {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("unexpected allow-origin %q", got)
	}
}
