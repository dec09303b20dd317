package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/flowpbx/vmprompt/internal/api/middleware"
	"github.com/flowpbx/vmprompt/internal/database"
	"github.com/flowpbx/vmprompt/internal/database/models"
	"github.com/flowpbx/vmprompt/internal/i18n"
	"github.com/flowpbx/vmprompt/internal/intro"
	"github.com/flowpbx/vmprompt/internal/prompt"
	"github.com/flowpbx/vmprompt/internal/speech"
)

type testEnv struct {
	server   *Server
	messages database.VoicemailMessageRepository
}

func newTestEnv(t *testing.T, mode prompt.RenderingMode, limiter *middleware.IPRateLimiter) *testEnv {
	t.Helper()

	db, err := database.Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cat, err := i18n.LoadDefault(language.English, "")
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := intro.NewService(
		prompt.Dependencies{
			Resolver:  i18n.NewResolver(cat, "/prompts"),
			Formatter: speech.NewFormatter("/prompts", cat),
		},
		prompt.Settings{Mode: mode, DateTimeFormat: "IMp", Locale: language.English},
		cat,
		logger,
	)

	metricsStub := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "# metrics")
	})

	repo := database.NewVoicemailMessageRepository(db)
	return &testEnv{
		server:   NewServer(svc, repo, limiter, metricsStub, logger),
		messages: repo,
	}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createMessage(t *testing.T, m *models.VoicemailMessage) int64 {
	t.Helper()
	if err := e.messages.Create(context.Background(), m); err != nil {
		t.Fatalf("creating message: %v", err)
	}
	return m.ID
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	env := envelope{Data: data}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, prompt.NumericPlayback, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var health healthResponse
	decodeEnvelope(t, rec, &health)
	if health.Status != "ok" || health.Mode != "play_numeric" || health.Locale != "en" {
		t.Errorf("unexpected health: %+v", health)
	}
	if health.DictationAvailable {
		t.Error("expected dictation to be unavailable")
	}
}

func TestComposeIntro_SSML(t *testing.T) {
	env := newTestEnv(t, prompt.PhraseSynthesis, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/prompts/intro",
		`{"received":"2023-01-01T10:00:00Z","from":"+1 (555) 123-4567"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/ssml+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get(promptIDHeader) == "" {
		t.Error("expected X-Prompt-ID header")
	}
	body := rec.Body.String()
	if !strings.Contains(body, "from one five five five one two three four five six seven") {
		t.Errorf("unexpected body:\n%s", body)
	}
}

func TestComposeIntro_JSON(t *testing.T) {
	env := newTestEnv(t, prompt.PhraseSynthesis, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/prompts/intro",
		`{"received":"2023-01-01T10:00:00Z","from":"anonymous","mode":"play_numeric","format":"json"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp introResponse
	decodeEnvelope(t, rec, &resp)
	if resp.Mode != "play_numeric" {
		t.Errorf("Mode = %q", resp.Mode)
	}
	if resp.ID == "" || resp.ID != rec.Header().Get(promptIDHeader) {
		t.Errorf("ID %q does not match header %q", resp.ID, rec.Header().Get(promptIDHeader))
	}
	if len(resp.Segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(resp.Segments))
	}
	last := resp.Segments[3]
	if last.Type != intro.TypePlainText || last.Text != prompt.UnknownCaller {
		t.Errorf("last segment = %+v", last)
	}
}

func TestComposeIntro_BadRequests(t *testing.T) {
	env := newTestEnv(t, prompt.PhraseSynthesis, nil)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty body", "", "request body must not be empty"},
		{"missing received", `{"from":"1"}`, "received is required"},
		{"unknown mode", `{"received":"2023-01-01T10:00:00Z","mode":"shout"}`, "mode must be one of i18n_string, play_numeric, ahn_say"},
		{"bad locale", `{"received":"2023-01-01T10:00:00Z","locale":"not a tag"}`, "locale is not a valid language tag"},
		{"bad format", `{"received":"2023-01-01T10:00:00Z","format":"mp3"}`, "format must be one of ssml, twiml, json"},
		{"control chars", `{"received":"2023-01-01T10:00:00Z","from":"12\u00013"}`, "from contains invalid characters"},
		{"unknown field", `{"received":"2023-01-01T10:00:00Z","to":"1"}`, `unknown field "to"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/prompts/intro", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			got := decodeEnvelope(t, rec, nil)
			if got.Error != tt.wantErr {
				t.Errorf("error = %q, want %q", got.Error, tt.wantErr)
			}
		})
	}
}

func TestComposeIntro_DictationUnavailable(t *testing.T) {
	env := newTestEnv(t, prompt.PhraseSynthesis, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/prompts/intro",
		`{"received":"2023-01-01T10:00:00Z","from":"1001","mode":"ahn_say"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestVoicemailMessageIntro(t *testing.T) {
	env := newTestEnv(t, prompt.PhraseSynthesis, nil)
	id := env.createMessage(t, &models.VoicemailMessage{
		MailboxID:   7,
		CallerIDNum: "2000",
		Timestamp:   time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC),
		Locale:      "de",
	})
	target := "/api/v1/voicemail-messages/" + itoa(id) + "/intro"

	rec := env.do(t, http.MethodGet, target, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "von zwei null null null") {
		t.Errorf("expected message locale to apply:\n%s", rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, target+"?locale=en&format=twiml", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "from two zero zero zero") {
		t.Errorf("expected query locale to win:\n%s", rec.Body.String())
	}
}

func TestVoicemailMessageIntro_NotFound(t *testing.T) {
	env := newTestEnv(t, prompt.PhraseSynthesis, nil)

	tests := []struct {
		target string
		want   int
	}{
		{"/api/v1/voicemail-messages/42/intro", http.StatusNotFound},
		{"/api/v1/voicemail-messages/abc/intro", http.StatusBadRequest},
		{"/api/v1/voicemail-messages/0/intro", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := env.do(t, http.MethodGet, tt.target, "")
		if rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.target, rec.Code, tt.want)
		}
	}
}

func TestListAndMarkRead(t *testing.T) {
	env := newTestEnv(t, prompt.PhraseSynthesis, nil)
	first := env.createMessage(t, &models.VoicemailMessage{
		MailboxID: 3, CallerIDNum: "100", Timestamp: time.Date(2023, 1, 1, 9, 0, 0, 0, time.UTC),
	})
	env.createMessage(t, &models.VoicemailMessage{
		MailboxID: 3, CallerIDName: "Front desk", Timestamp: time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC),
	})

	rec := env.do(t, http.MethodGet, "/api/v1/voicemail-boxes/3/messages", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []voicemailMessageResponse
	decodeEnvelope(t, rec, &list)
	if len(list) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(list))
	}
	if list[0].CallerIDName != "Front desk" {
		t.Errorf("expected newest first, got %+v", list[0])
	}

	rec = env.do(t, http.MethodPut, "/api/v1/voicemail-messages/"+itoa(first)+"/read", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated voicemailMessageResponse
	decodeEnvelope(t, rec, &updated)
	if !updated.Read {
		t.Error("expected message to be read")
	}

	stored, err := env.messages.GetByID(context.Background(), first)
	if err != nil || stored == nil || !stored.Read {
		t.Errorf("stored message not marked read: %+v, %v", stored, err)
	}
}

func TestRateLimitedRoutes(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(middleware.RateLimitConfig{
		Rate:            1,
		Burst:           1,
		CleanupInterval: time.Hour,
		MaxAge:          time.Hour,
	})
	defer limiter.Stop()
	env := newTestEnv(t, prompt.PhraseSynthesis, limiter)

	body := `{"received":"2023-01-01T10:00:00Z","from":"1"}`
	if rec := env.do(t, http.MethodPost, "/api/v1/prompts/intro", body); rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/api/v1/prompts/intro", body); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}
	// Health is not limited.
	if rec := env.do(t, http.MethodGet, "/api/v1/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	env := newTestEnv(t, prompt.PhraseSynthesis, nil)

	rec := env.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "# metrics" {
		t.Fatalf("GET /metrics = %d %q", rec.Code, rec.Body.String())
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, prompt.PhraseSynthesis, nil)

	if rec := env.do(t, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, "/api/v1/prompts/intro", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
