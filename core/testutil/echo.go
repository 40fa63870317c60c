// Package testutil holds HTTP helpers shared by controller tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"weekend-match-api/core/controller"
	"weekend-match-api/core/middleware"
	"weekend-match-api/core/utils"
	"weekend-match-api/core/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	Secret = "test-secret"
	Issuer = "weekend-match-test"
)

// NewEcho returns an echo instance configured like the server, plus an auth
// middleware that accepts tokens from Token.
func NewEcho() (*echo.Echo, *middleware.Middleware) {
	e := echo.New()
	e.Validator = validator.New()
	return e, middleware.NewMiddleware(utils.NewHMACVerifier(Secret, Issuer))
}

// Token signs a short-lived bearer token for userID.
func Token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := utils.SignHMACToken(Secret, Issuer, userID, time.Hour)
	if err != nil {
		t.Fatalf("SignHMACToken() error = %v", err)
	}
	return tok
}

// Do performs a request against e. An empty token sends no Authorization header.
func Do(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// DecodeError parses an error body written by controller.NewErrorResponse.
func DecodeError(t *testing.T, rec *httptest.ResponseRecorder) controller.ErrorResponse {
	t.Helper()
	var body controller.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

// DecodeData parses the data field of a success envelope into dst.
func DecodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}
