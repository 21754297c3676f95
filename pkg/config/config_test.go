package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg := Load()

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, 2, cfg.Render.MaxConcurrent)
	assert.Equal(t, 30*time.Second, cfg.Render.Timeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://receipts:secret@db:5432/receipts")
	t.Setenv("RENDER_MAX_CONCURRENT", "4")
	t.Setenv("RENDER_TIMEOUT", "10s")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres://receipts:secret@db:5432/receipts", cfg.Database.URL)
	assert.Equal(t, 4, cfg.Render.MaxConcurrent)
	assert.Equal(t, 10*time.Second, cfg.Render.Timeout)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("RENDER_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.Render.Timeout)
}
