package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serve(t *testing.T, h echo.HandlerFunc) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body readinessResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func ok(context.Context) error { return nil }

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	if err := NewHealthHandler(nil).Liveness(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	h := NewHealthHandler(map[string]Checker{
		"mongodb": CheckerFunc(ok),
		"redis":   CheckerFunc(ok),
	})
	rec, body := serve(t, h.Readiness)
	if rec.Code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("expected ok, got %d %+v", rec.Code, body)
	}
	if body.Dependencies["redis"].Status != "ok" {
		t.Fatalf("unexpected redis status %+v", body.Dependencies["redis"])
	}
}

func TestReadiness_DegradedWhenDependencyFails(t *testing.T) {
	h := NewHealthHandler(map[string]Checker{
		"mongodb": CheckerFunc(ok),
		"redis": CheckerFunc(func(context.Context) error {
			return errors.New("connection refused")
		}),
	})
	rec, body := serve(t, h.Readiness)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body.Status != "degraded" {
		t.Fatalf("expected degraded, got %q", body.Status)
	}
	if dep := body.Dependencies["redis"]; dep.Status != "unhealthy" || dep.Error != "connection refused" {
		t.Fatalf("unexpected redis status %+v", dep)
	}
	if body.Dependencies["mongodb"].Status != "ok" {
		t.Fatalf("mongodb should stay ok")
	}
}
