package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: "8081"
mongo:
  uri: mongodb://file-host:27017
  dbName: FromFile
jwt:
  secret: file-secret
  expiration: 2h
stripe:
  currency: bdt
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	t.Setenv("MONGO_URI", "mongodb://env-host:27017")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "mongodb://env-host:27017", cfg.Mongo.URI)
	assert.Equal(t, "FromFile", cfg.Mongo.DBName)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, "bdt", cfg.Stripe.Currency)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL())
}

func TestLoadConfig_EnvOnlyDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "LifeLink", cfg.Mongo.DBName)
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Empty(t, cfg.Mail.ResendAPIKey)
	assert.Equal(t, "LifeLink <noreply@lifelink.local>", cfg.Mail.From)
}

func TestLoadConfig_Mail(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("RESEND_API_KEY", "re_123")
	t.Setenv("MAIL_FROM", "Blood Bank <alerts@lifelink.test>")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "re_123", cfg.Mail.ResendAPIKey)
	assert.Equal(t, "Blood Bank <alerts@lifelink.test>", cfg.Mail.From)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestTokenTTL_InvalidFallsBack(t *testing.T) {
	cfg := Config{JWT: JWTConfig{Expiration: "soon"}}
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
}
