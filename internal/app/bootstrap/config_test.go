// internal/app/bootstrap/config_test.go
package bootstrap

import (
	"testing"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "sceneit_test",
		SessionKey:    "a-strong-production-key-0123456789ABCDEF",
		TMDBAPIKey:    "tmdb-key",
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	coreCfg := &config.CoreConfig{Env: "dev"}
	if err := ValidateConfig(coreCfg, validAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestValidateConfig_BadMongoURI(t *testing.T) {
	appCfg := validAppConfig()
	appCfg.MongoURI = "http://not-a-mongo-uri"

	coreCfg := &config.CoreConfig{Env: "dev"}
	if err := ValidateConfig(coreCfg, appCfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for non-mongodb URI")
	}
}

func TestValidateConfig_MissingTMDBKey(t *testing.T) {
	appCfg := validAppConfig()
	appCfg.TMDBAPIKey = ""

	coreCfg := &config.CoreConfig{Env: "dev"}
	if err := ValidateConfig(coreCfg, appCfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for missing TMDB key")
	}
}

func TestValidateConfig_DevSessionKeyRejectedInProd(t *testing.T) {
	appCfg := validAppConfig()
	appCfg.SessionKey = "dev-only-change-me-please-0123456789ABCDEF"

	if err := ValidateConfig(&config.CoreConfig{Env: "prod"}, appCfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for dev session key in prod")
	}
	if err := ValidateConfig(&config.CoreConfig{Env: "dev"}, appCfg, zap.NewNop()); err != nil {
		t.Fatalf("dev session key should be allowed in dev: %v", err)
	}
}

func TestGoogleEnabled(t *testing.T) {
	var appCfg AppConfig
	if appCfg.GoogleEnabled() {
		t.Fatal("GoogleEnabled should be false with no credentials")
	}
	appCfg.GoogleClientID = "id"
	if appCfg.GoogleEnabled() {
		t.Fatal("GoogleEnabled should require both ID and secret")
	}
	appCfg.GoogleClientSecret = "secret"
	if !appCfg.GoogleEnabled() {
		t.Fatal("GoogleEnabled should be true with both credentials")
	}
}
