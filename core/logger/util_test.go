package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, "ok", Status(nil))
	assert.Equal(t, "error", Status(errors.New("x")))
}

func TestRoundMS(t *testing.T) {
	assert.Equal(t, time.Duration(0), RoundMS(-time.Second))
	assert.Equal(t, time.Duration(0), RoundMS(0))
	assert.Equal(t, 2*time.Millisecond, RoundMS(1500*time.Microsecond))
	assert.Equal(t, time.Millisecond, RoundMS(1400*time.Microsecond))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "", Sanitize(""))
	assert.Equal(t, "ab", Sanitize("a\x00b"))
	assert.Equal(t, "a\tb\nc", Sanitize("a\tb\nc"), "tab and newline survive")
	assert.Equal(t, "ab", Sanitize("a\x7Fb"))
	assert.Equal(t, "Главное меню", Sanitize("Главное меню"))
}

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "", SanitizeLimit("abc", 0))
	assert.Equal(t, "ab", SanitizeLimit("abcdef", 2))
	assert.Equal(t, "abc", SanitizeLimit("abc", 10))
	assert.Equal(t, "Гла", SanitizeLimit("Главное", 3), "limit counts runes, not bytes")
}

func TestBuildRID(t *testing.T) {
	assert.Equal(t, "1:2:3", BuildRID(1, 2, 3))
}
