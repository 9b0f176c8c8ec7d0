package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/99minutos/onboarding-system/internal/core/domain"
	"github.com/99minutos/onboarding-system/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sampleUser() *domain.User {
	return domain.NewUser("ana@example.com", "$2a$hash", domain.Profile{
		FirstName:  "Ana",
		LastName:   "Diaz",
		Position:   "Engineer",
		Department: "Platform",
	}, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
}

const validRegisterBody = `{"email":"ana@example.com","password":"secret1","firstName":"Ana","lastName":"Diaz","position":"Engineer","department":"Platform"}`

func TestAuthHandler_Register_Success(t *testing.T) {
	user := sampleUser()
	user.ID = primitive.NewObjectID()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
			if in.Email != "ana@example.com" || in.Password != "secret1" || in.Department != "Platform" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return "token123", user, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/api/auth/register", validRegisterBody)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "User created successfully" || resp["token"] != "token123" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	u, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if u["id"] != user.ID.Hex() || u["email"] != "ana@example.com" || u["role"] != domain.RoleEmployee {
		t.Fatalf("unexpected user payload: %+v", u)
	}
	if _, leaked := u["passwordHash"]; leaked {
		t.Fatal("password hash must not be serialized")
	}
	if _, present := u["onboardingTasks"]; present {
		t.Fatal("registration response should not carry the task list")
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
			return "", nil, domain.ErrUserExists
		},
	}
	c, _ := newTestContext(http.MethodPost, "/api/auth/register", validRegisterBody)

	err := NewAuthHandler(stub).Register(c)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}

	cases := map[string]string{
		"not json":       "not-json",
		"missing fields": `{"email":"ana@example.com","password":"secret1"}`,
		"bad email":      `{"email":"nope","password":"secret1","firstName":"A","lastName":"B","position":"C","department":"D"}`,
		"short password": `{"email":"ana@example.com","password":"123","firstName":"A","lastName":"B","position":"C","department":"D"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/api/auth/register", body)

			err := NewAuthHandler(stub).Register(c)
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 HTTPError, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	user := sampleUser()
	user.ID = primitive.NewObjectID()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "ana@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", user, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"secret1"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID              string        `json:"id"`
			Email           string        `json:"email"`
			Role            string        `json:"role"`
			OnboardingTasks []domain.Task `json:"onboardingTasks"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "Login successful" || resp.Token != "token123" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp.User.ID != user.ID.Hex() || resp.User.Email != "ana@example.com" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
	if len(resp.User.OnboardingTasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(resp.User.OnboardingTasks))
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newTestContext(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"wrong"}`)

	err := NewAuthHandler(stub).Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	c, _ := newTestContext(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com"}`)

	err := NewAuthHandler(stub).Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
