package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rotarykeypad/internal/logger"
	"rotarykeypad/internal/models"
	"rotarykeypad/internal/service"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestHandler builds a router around the given mocks. Nil mocks are
// replaced with zero-value stubs so routes still resolve.
func newTestHandler(auth *mockAuth, mon *mockMonitoring, log *mockEventLog, keys *mockKeys) (*Handler, *gin.Engine) {
	if auth == nil {
		auth = &mockAuth{}
	}
	if mon == nil {
		mon = &mockMonitoring{}
	}
	if log == nil {
		log = &mockEventLog{}
	}
	if keys == nil {
		keys = &mockKeys{}
	}
	svc := &service.Service{
		Listener:      mockListener{},
		Monitoring:    mon,
		EventLog:      log,
		Keys:          keys,
		Authorization: auth,
	}
	h := NewHandler(svc, logger.Get("error"))
	return h, h.InitRoutes()
}

func authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func TestHealth(t *testing.T) {
	_, router := newTestHandler(nil, nil, nil, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestGetState(t *testing.T) {
	mon := &mockMonitoring{state: models.DialState{
		ID:            1,
		Phase:         models.PhaseDialing,
		PulseCount:    4,
		LastDigit:     7,
		DigitsEmitted: 3,
		OffHook:       true,
		UpdatedAt:     time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
	}}
	_, router := newTestHandler(nil, mon, nil, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/dial/state", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var got models.DialState
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.Phase != models.PhaseDialing || got.PulseCount != 4 || got.LastDigit != 7 {
		t.Fatalf("unexpected state: %+v", got)
	}
}

func TestGetState_RepoError(t *testing.T) {
	mon := &mockMonitoring{err: errors.New("db locked")}
	_, router := newTestHandler(nil, mon, nil, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/dial/state", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestTestKey(t *testing.T) {
	keys := &mockKeys{}
	_, router := newTestHandler(nil, nil, nil, keys)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/keys/test", []byte(`{"digit":0}`)))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(keys.sent) != 1 || keys.sent[0] != 0 {
		t.Fatalf("sent = %v, want [0]", keys.sent)
	}
}

func TestTestKey_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing digit", `{}`},
		{"digit too large", `{"digit":10}`},
		{"negative digit", `{"digit":-1}`},
		{"garbage body", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := &mockKeys{}
			_, router := newTestHandler(nil, nil, nil, keys)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/keys/test", []byte(tt.body)))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if len(keys.sent) != 0 {
				t.Fatalf("keystroke sent despite invalid input: %v", keys.sent)
			}
		})
	}
}

func TestTestKey_EmitterError(t *testing.T) {
	keys := &mockKeys{err: errors.New("hidg0 gone")}
	_, router := newTestHandler(nil, nil, nil, keys)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/keys/test", []byte(`{"digit":5}`)))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}
