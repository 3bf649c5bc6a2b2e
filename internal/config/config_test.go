package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		App:      AppConfig{Env: "local", Port: 8080},
		DB:       DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "reservations", SSLMode: "disable"},
		Auth:     AuthConfig{JWTSecret: "secret", TokenTTL: 12 * time.Hour, StaffPassword: "pw"},
		AI:       AIConfig{GeminiModel: "gemini-2.5-flash", Timeout: 2 * time.Second},
		Dialogue: DialogueConfig{MaxTurns: 20, MinConfidence: 0.5},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_AcceptsMinimalLocalConfig(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	c.DB.SSLMode = ""
	c.Auth.JWTIssuer = "issuer"
	c.Auth.JWTAudience = "aud"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_RedisIsOptional(t *testing.T) {
	c := validConfig()
	c.Redis = RedisConfig{}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error without redis, got %v", err)
	}
	if c.RedisEnabled() {
		t.Fatalf("expected redis disabled")
	}
}

func TestValidate_RedisHostRequiresPort(t *testing.T) {
	c := validConfig()
	c.Redis = RedisConfig{Host: "localhost"}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for redis host without port")
	}
}

func TestValidate_RequiresStaffPassword(t *testing.T) {
	c := validConfig()
	c.Auth.StaffPassword = ""
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "STAFF_PASSWORD") {
		t.Fatalf("expected STAFF_PASSWORD error, got %v", err)
	}
}

func TestValidate_RejectsBadConfidence(t *testing.T) {
	c := validConfig()
	c.Dialogue.MinConfidence = 1.5
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for confidence > 1")
	}
}

func TestAIEnabled(t *testing.T) {
	c := validConfig()
	if c.AIEnabled() {
		t.Fatalf("expected AI disabled without api key")
	}
	c.AI.GeminiAPIKey = "key"
	if !c.AIEnabled() {
		t.Fatalf("expected AI enabled with api key")
	}
}
