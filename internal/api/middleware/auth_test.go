package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/onboarding-system/internal/core/domain"
)

type stubVerifier struct {
	tokens map[string]string
	err    error
}

func (s stubVerifier) Verify(token string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	id, ok := s.tokens[token]
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return id, nil
}

var verifier = stubVerifier{tokens: map[string]string{"good-token": "user-42"}}

func runAuth(t *testing.T, v stubVerifier, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(v)(func(c echo.Context) error {
		called = true
		if c.Get(UserIDKey) != "user-42" {
			t.Fatalf("user id not set, got %v", c.Get(UserIDKey))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	rec, called := runAuth(t, verifier, "Bearer good-token")
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	if _, called := runAuth(t, verifier, "bearer good-token"); !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token good-token",
		"no token":       "Bearer ",
		"unknown token":  "Bearer not-a-token",
		"scheme only":    "Bearer",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, called := runAuth(t, verifier, header)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	v := stubVerifier{err: fmt.Errorf("%w: %w", domain.ErrUnauthorized, jwt.ErrTokenExpired)}
	rec, called := runAuth(t, v, "Bearer good-token")
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_VerifierFailure(t *testing.T) {
	v := stubVerifier{err: errors.New("boom")}
	if rec, called := runAuth(t, v, "Bearer good-token"); called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without next, got %d (called=%v)", rec.Code, called)
	}
}
