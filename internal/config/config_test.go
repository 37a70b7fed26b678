package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Errorf("port: got %d, want 4000", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 0 {
		t.Errorf("allowed origins: got %v, want empty", cfg.Server.AllowedOrigins)
	}
	if cfg.Database.Path != "data/contact_messages" {
		t.Errorf("database path: got %q", cfg.Database.Path)
	}
	if cfg.Contact.Recipient != "office@activcleaning.ro" {
		t.Errorf("contact recipient: got %q", cfg.Contact.Recipient)
	}
	if cfg.Contact.PrivacyContact != "privacy@activcleaning.ro" {
		t.Errorf("privacy contact: got %q", cfg.Contact.PrivacyContact)
	}
	if cfg.Contact.RateLimitMax != 10 {
		t.Errorf("rate limit max: got %d, want 10", cfg.Contact.RateLimitMax)
	}
	if cfg.Retention.ContactDays != 730 {
		t.Errorf("contact retention days: got %d, want 730", cfg.Retention.ContactDays)
	}
	if cfg.Retention.GDPRDays != 365 {
		t.Errorf("gdpr retention days: got %d, want 365", cfg.Retention.GDPRDays)
	}
	if cfg.Mail.Configured() {
		t.Error("mail should not be configured by default")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SITE_DB_PATH", "data/site")
	t.Setenv("CONTACT_RECIPIENT", "contact@example.com")
	t.Setenv("ALLOWED_ORIGINS", "https://example.com, https://www.example.com")
	t.Setenv("RATE_LIMIT_MAX", "3")
	t.Setenv("RETENTION_DAYS", "30")
	t.Setenv("GDPR_REQUEST_RETENTION_DAYS", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Path != "data/site" {
		t.Errorf("database path: got %q", cfg.Database.Path)
	}
	if cfg.Contact.Recipient != "contact@example.com" {
		t.Errorf("contact recipient: got %q", cfg.Contact.Recipient)
	}
	wantOrigins := []string{"https://example.com", "https://www.example.com"}
	if !reflect.DeepEqual(cfg.Server.AllowedOrigins, wantOrigins) {
		t.Errorf("allowed origins: got %v, want %v", cfg.Server.AllowedOrigins, wantOrigins)
	}
	if cfg.Contact.RateLimitMax != 3 {
		t.Errorf("rate limit max: got %d, want 3", cfg.Contact.RateLimitMax)
	}
	if cfg.Retention.ContactDays != 30 || cfg.Retention.GDPRDays != 15 {
		t.Errorf("retention: got %+v", cfg.Retention)
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out of range port")
	}
}

func TestLoadClampsBadTuning(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "-5")
	t.Setenv("RETENTION_DAYS", "-1")
	t.Setenv("GDPR_REQUEST_RETENTION_DAYS", "-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Contact.RateLimitMax != 10 {
		t.Errorf("rate limit max: got %d, want fallback 10", cfg.Contact.RateLimitMax)
	}
	if cfg.Retention.ContactDays != 0 || cfg.Retention.GDPRDays != 0 {
		t.Errorf("negative retention should clamp to 0, got %+v", cfg.Retention)
	}
}

func TestMailConfigured(t *testing.T) {
	t.Parallel()

	full := MailConfig{Host: "smtp.example.com", Port: 587, User: "site@example.com", Password: "secret"}
	if !full.Configured() {
		t.Error("complete credentials should report configured")
	}

	partials := []MailConfig{
		{},
		{Host: "smtp.example.com", Port: 587, User: "site@example.com"},
		{Host: "smtp.example.com", User: "site@example.com", Password: "secret"},
		{Port: 587, User: "site@example.com", Password: "secret"},
	}
	for i, cfg := range partials {
		if cfg.Configured() {
			t.Errorf("partial credentials %d should not report configured", i)
		}
	}
}
