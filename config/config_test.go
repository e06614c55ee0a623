package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_HOST", "DB_NAME", "DB_VERBOSE", "CORS_ORIGINS", "AUTH_RATE_PER_MIN", "REDIS_URL"} {
		t.Setenv(k, "")
	}

	s := Load()

	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, "localhost", s.DBHost)
	assert.Equal(t, "bookclub", s.DBName)
	assert.False(t, s.DBVerbose)
	assert.Equal(t, []string{"http://localhost:5173"}, s.CORSOrigins)
	assert.Equal(t, 10, s.AuthRatePerMin)
	assert.Empty(t, s.RedisURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "reader")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "club")
	t.Setenv("DB_VERBOSE", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("AUTH_RATE_PER_MIN", "not-a-number")
	t.Setenv("INVITE_RATE_PER_MIN", "3")

	s := Load()

	assert.Equal(t, "9090", s.Port)
	assert.True(t, s.DBVerbose)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, s.CORSOrigins)
	assert.Equal(t, 10, s.AuthRatePerMin)
	assert.Equal(t, 3, s.InviteRatePerMin)
	assert.Contains(t, s.DSN(), "host=db user=reader password=secret dbname=club port=6543")
}
