package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/nmoreno/biblio-backend/pkg/auth"
	"github.com/nmoreno/biblio-backend/pkg/config"
	"github.com/nmoreno/biblio-backend/pkg/logger"
	"github.com/nmoreno/biblio-backend/pkg/types"
)

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})
	handler := RequestID(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected generated request id header")
	}
}

func TestRequestIDEchoesProvided(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})
	handler := RequestID(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if got := w.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("expected req-123, got %q", got)
	}
}

func TestRecovererConvertsPanicToInternalError(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})
	handler := Recoverer(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "biblio", ExpirationMinutes: 10}
	logg := logger.New(logger.Options{ServiceName: "test"})
	handler := Auth(cfg, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", w.Code)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", w.Code)
	}
}

func TestAuthSeedsClientIDFromToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "biblio", ExpirationMinutes: 10}
	logg := logger.New(logger.Options{ServiceName: "test"})

	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{ClientID: "library-agent"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var seen string
	handler := Auth(cfg, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClientIDFromContext(r.Context())
	}))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if seen != "library-agent" {
		t.Fatalf("expected client id in context, got %q", seen)
	}
}

func TestClientIDFromContextEmptyByDefault(t *testing.T) {
	if got := ClientIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty client id, got %q", got)
	}
	ctx := WithClientID(context.Background(), "abc")
	if got := ClientIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}
