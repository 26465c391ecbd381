package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/madezdev/ecommerce-api/internal/api/middleware"
	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	currentFn  func(ctx context.Context, userID string) (*ports.ProfileResult, error)
	logoutFn   func(ctx context.Context, token string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) CreateAdmin(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Current(ctx context.Context, userID string) (*ports.ProfileResult, error) {
	return s.currentFn(ctx, userID)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) SeedAdmin(context.Context, string, string) error { return nil }

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.FirstName != "Ana" || in.Email != "ana@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{Token: "token123", User: &domain.User{ID: "u1", Role: domain.RoleGuest}}, nil
		},
	}
	handler := NewAuthHandler(stub, CookieOptions{})

	req := jsonRequest(http.MethodPost, "/api/sessions/register",
		`{"firstName":"Ana","lastName":"Diaz","email":"ana@example.com","password":"secret1"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decode(t, rec)
	if resp["status"] != "success" || resp["token"] != "token123" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.TokenCookie || cookies[0].Value != "token123" || !cookies[0].HttpOnly {
		t.Fatalf("expected http-only token cookie, got %+v", cookies)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, CookieOptions{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/", `{"email":"ana@example.com"}`), httptest.NewRecorder())

	err := handler.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if msg, _ := he.Message.(string); !strings.Contains(msg, "firstName is required") {
		t.Fatalf("expected field message, got %v", he.Message)
	}
}

func TestAuthHandler_Register_MalformedEmail(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, CookieOptions{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/",
		`{"firstName":"Ana","lastName":"Diaz","email":"ana@example..com","password":"secret1"}`), httptest.NewRecorder())

	err := handler.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if msg, _ := he.Message.(string); !strings.Contains(msg, "email must be a valid email") {
		t.Fatalf("expected email message, got %v", he.Message)
	}
}

func TestAuthHandler_Register_EmailInUse(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrEmailInUse
		},
	}
	handler := NewAuthHandler(stub, CookieOptions{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/",
		`{"firstName":"Ana","lastName":"Diaz","email":"ana@example.com","password":"secret1"}`), httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("expected email in use, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{}, CookieOptions{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/", "not-json"), httptest.NewRecorder())

	var he *echo.HTTPError
	if err := handler.Register(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "ana@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.AuthResult{
				Token:        "token123",
				User:         &domain.User{ID: "u1", FirstName: "Ana", Role: domain.RoleUser},
				Completeness: domain.Completeness{PersonalComplete: true, AddressComplete: false},
			}, nil
		},
	}
	handler := NewAuthHandler(stub, CookieOptions{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/", `{"email":"ana@example.com","password":"secret1"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decode(t, rec)
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	if resp["userIsCompleted"] != true || resp["addressIsCompleted"] != false {
		t.Fatalf("unexpected flags: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["role"] != "user" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["PasswordHash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, CookieOptions{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/", `{"email":"ana@example.com","password":"bad"}`), httptest.NewRecorder())

	if err := handler.Login(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuthHandler_Current(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		currentFn: func(ctx context.Context, userID string) (*ports.ProfileResult, error) {
			if userID != "u1" {
				t.Fatalf("unexpected user id %q", userID)
			}
			return &ports.ProfileResult{
				User:         &domain.User{ID: "u1", Role: domain.RoleUser},
				Completeness: domain.Completeness{PersonalComplete: true, AddressComplete: true},
				Promoted:     true,
			}, nil
		},
	}
	handler := NewAuthHandler(stub, CookieOptions{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set("principal", &domain.Principal{ID: "u1", Role: domain.RoleGuest})

	if err := handler.Current(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if resp["userIsCompleted"] != true || resp["addressIsCompleted"] != true {
		t.Fatalf("unexpected flags: %+v", resp)
	}
}

func TestAuthHandler_Current_RequiresPrincipal(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{}, CookieOptions{})
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if err := handler.Current(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	e := newEcho()
	var revoked string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, token string) error {
			revoked = token
			return nil
		},
	}
	handler := NewAuthHandler(stub, CookieOptions{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	c.Set("token", "token123")

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if revoked != "token123" {
		t.Fatalf("expected token to be revoked, got %q", revoked)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cookies)
	}
}
