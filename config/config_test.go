package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "mercato", cfg.AppName)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "emails", cfg.RabbitMQEmailQueue)
	assert.Equal(t, "products", cfg.ESProductsIndex)
	assert.True(t, cfg.MailSendEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("JWT_TOKEN_TTL", "12h")
	t.Setenv("MAIL_SEND_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.MailSendEnabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("JWT_TOKEN_TTL", "soon")
	t.Setenv("MAIL_SEND_ENABLED", "yep")

	cfg := Load()

	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.MailSendEnabled)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{
		DBUser:     "app",
		DBPassword: "pw",
		DBHost:     "db",
		DBPort:     "5433",
		DBName:     "shop",
		DBSSLMode:  "require",
	}
	assert.Equal(t, "postgres://app:pw@db:5433/shop?sslmode=require", cfg.PostgresDSN())
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: "http://localhost:3000, https://shop.example.com ,"}
	assert.Equal(t, []string{"http://localhost:3000", "https://shop.example.com"}, cfg.CORSOrigins())
}

func TestESAddrs_Empty(t *testing.T) {
	cfg := &Config{ElasticsearchAddrs: ""}
	assert.Empty(t, cfg.ESAddrs())
}
