package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h ttl, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Mongo.Database != "ecommerce" {
		t.Errorf("unexpected database %q", cfg.Mongo.Database)
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("expected smtp port 587, got %d", cfg.SMTP.Port)
	}
	if len(cfg.ProfileRequiredFields) != 0 {
		t.Errorf("expected no field override, got %v", cfg.ProfileRequiredFields)
	}
	if cfg.IsProduction() {
		t.Errorf("development must not report production")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error when JWT_SECRET is missing")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":              "s3cret",
		"TOKEN_TTL":               "2h",
		"PROFILE_REQUIRED_FIELDS": "firstName,lastName,phone",
		"DEBUG_ERRORS":            "true",
		"ENV":                     "production",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("expected 2h, got %s", cfg.Auth.TokenTTL)
	}
	if len(cfg.ProfileRequiredFields) != 3 || cfg.ProfileRequiredFields[2] != "phone" {
		t.Errorf("unexpected fields %v", cfg.ProfileRequiredFields)
	}
	if !cfg.DebugErrors || !cfg.IsProduction() {
		t.Errorf("expected debug errors in production mode")
	}
}
