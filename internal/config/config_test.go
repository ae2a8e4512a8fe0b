package config

import "testing"

func validBase() Config {
	return Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "matrimony"},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  AuthConfig{JWTSecret: "secret"},
		Provider: ProviderConfig{
			BaseURL:   "https://api.provider.example",
			AccountID: "AC123",
			AuthToken: "tok",
		},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := validBase()
	c.App.Env = "production"
	c.Auth.JWTIssuer = "matrimony"
	c.Auth.JWTAudience = "matrimony-api"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_LocalDefaults(t *testing.T) {
	c := validBase()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.Provider.RequestTimeout <= 0 {
		t.Fatalf("expected provider timeout default, got %v", c.Provider.RequestTimeout)
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		t.Fatalf("unexpected token TTL defaults: %v / %v", c.Auth.AccessTokenTTL, c.Auth.RefreshTokenTTL)
	}
}

func TestValidate_RejectsMissingProviderCredentials(t *testing.T) {
	c := validBase()
	c.Provider.AuthToken = ""
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for missing provider token")
	}
}
