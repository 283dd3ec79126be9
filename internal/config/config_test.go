package config

import (
	"os"
	"testing"
	"time"
)

func setEnvVars(vars map[string]string) {
	for k, v := range vars {
		os.Setenv(k, v)
	}
}

func clearEnvVars(vars []string) {
	for _, k := range vars {
		os.Unsetenv(k)
	}
}

var allEnvVars = []string{
	"HOST", "PORT", "READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT", "ENVIRONMENT",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME",
	"JWT_SECRET", "TOKEN_TTL", "BCRYPT_COST",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPM", "RATE_LIMIT_BURST", "RATE_LIMIT_WINDOW",
	"RATE_LIMIT_REDIS_ADDR", "CORS_ORIGIN",
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnvVars(allEnvVars)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error with default config, got: %v", err)
	}

	if config.Server.Host != "localhost" {
		t.Errorf("Expected default host 'localhost', got %s", config.Server.Host)
	}

	if config.Server.Port != "8080" {
		t.Errorf("Expected default port '8080', got %s", config.Server.Port)
	}

	if config.Server.Environment != "development" {
		t.Errorf("Expected default environment 'development', got %s", config.Server.Environment)
	}

	if config.Database.Host != "localhost" {
		t.Errorf("Expected default DB host 'localhost', got %s", config.Database.Host)
	}

	if config.Database.Name != "taskflow" {
		t.Errorf("Expected default DB name 'taskflow', got %s", config.Database.Name)
	}

	if config.Database.MaxOpenConns != 25 {
		t.Errorf("Expected default max open conns 25, got %d", config.Database.MaxOpenConns)
	}

	if config.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("Expected default token TTL of 7 days, got %v", config.Auth.TokenTTL)
	}

	if config.Auth.BcryptCost != 12 {
		t.Errorf("Expected default bcrypt cost 12, got %d", config.Auth.BcryptCost)
	}

	if !config.RateLimit.Enabled {
		t.Error("Expected rate limiting to be enabled by default")
	}

	if config.RateLimit.RequestsPerMin != 100 {
		t.Errorf("Expected default requests per minute 100, got %d", config.RateLimit.RequestsPerMin)
	}

	if config.RateLimit.Window != 15*time.Minute {
		t.Errorf("Expected default rate limit window of 15m, got %v", config.RateLimit.Window)
	}

	if config.CORS.Origin != "http://localhost:5173" {
		t.Errorf("Expected default CORS origin for the dev client, got %s", config.CORS.Origin)
	}
}

func TestLoadConfig_CustomEnvironment(t *testing.T) {
	envVars := map[string]string{
		"HOST":        "0.0.0.0",
		"PORT":        "9000",
		"ENVIRONMENT": "staging",
		"DB_HOST":     "db.example.com",
		"DB_PORT":     "5433",
		"DB_NAME":     "taskflow_staging",
		"JWT_SECRET":  "staging-signing-key",
		"TOKEN_TTL":   "24h",
		"BCRYPT_COST": "10",
	}
	setEnvVars(envVars)
	defer clearEnvVars(allEnvVars)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if config.Server.Host != "0.0.0.0" {
		t.Errorf("Expected host '0.0.0.0', got %s", config.Server.Host)
	}

	if config.Server.Port != "9000" {
		t.Errorf("Expected port '9000', got %s", config.Server.Port)
	}

	if config.Database.Host != "db.example.com" {
		t.Errorf("Expected DB host 'db.example.com', got %s", config.Database.Host)
	}

	if config.Auth.JWTSecret != "staging-signing-key" {
		t.Error("Expected JWT secret to be read from the environment")
	}

	if config.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("Expected token TTL 24h, got %v", config.Auth.TokenTTL)
	}

	if config.Auth.BcryptCost != 10 {
		t.Errorf("Expected bcrypt cost 10, got %d", config.Auth.BcryptCost)
	}
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	clearEnvVars(allEnvVars)
	setEnvVars(map[string]string{
		"ENVIRONMENT": "production",
		"DB_PASSWORD": "secure-password",
	})
	defer clearEnvVars(allEnvVars)

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected error when running production with the default JWT secret")
	}
}

func TestLoadConfig_ProductionRequiresDBPassword(t *testing.T) {
	clearEnvVars(allEnvVars)
	setEnvVars(map[string]string{
		"ENVIRONMENT": "production",
		"JWT_SECRET":  "a-real-signing-key",
	})
	defer clearEnvVars(allEnvVars)

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected error when running production without a database password")
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	clearEnvVars(allEnvVars)
	setEnvVars(map[string]string{
		"BCRYPT_COST":        "not-a-number",
		"TOKEN_TTL":          "not-a-duration",
		"RATE_LIMIT_ENABLED": "definitely",
	})
	defer clearEnvVars(allEnvVars)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if config.Auth.BcryptCost != 12 {
		t.Errorf("Expected fallback bcrypt cost 12, got %d", config.Auth.BcryptCost)
	}

	if config.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("Expected fallback token TTL of 7 days, got %v", config.Auth.TokenTTL)
	}

	if !config.RateLimit.Enabled {
		t.Error("Expected fallback rate limit enabled=true")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	clearEnvVars(allEnvVars)
	setEnvVars(map[string]string{
		"DB_HOST":     "dbhost",
		"DB_PORT":     "5432",
		"DB_USER":     "taskflow",
		"DB_PASSWORD": "pw",
		"DB_NAME":     "taskflow",
	})
	defer clearEnvVars(allEnvVars)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := "host=dbhost port=5432 user=taskflow password=pw dbname=taskflow sslmode=disable"
	if dsn := config.GetDatabaseDSN(); dsn != expected {
		t.Errorf("Expected DSN %q, got %q", expected, dsn)
	}
}

func TestGetServerAddr(t *testing.T) {
	clearEnvVars(allEnvVars)
	setEnvVars(map[string]string{"HOST": "127.0.0.1", "PORT": "8081"})
	defer clearEnvVars(allEnvVars)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if addr := config.GetServerAddr(); addr != "127.0.0.1:8081" {
		t.Errorf("Expected addr '127.0.0.1:8081', got %q", addr)
	}
}
