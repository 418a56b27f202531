package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestNormalizeHandlerName(t *testing.T) {
	assert.Equal(t, "start", normalizeHandlerName("/start"))
	assert.Equal(t, "my_keys", normalizeHandlerName("My Keys"))
	assert.Equal(t, "unknown", normalizeHandlerName("  "))
}

func TestParseCallback(t *testing.T) {
	key, payload := parseCallback(nil)
	assert.Empty(t, key)
	assert.Empty(t, payload)

	key, payload = parseCallback(&tele.Callback{Unique: "select_server", Data: "russia"})
	assert.Equal(t, "select_server", key)
	assert.Equal(t, "russia", payload)

	key, payload = parseCallback(&tele.Callback{Data: "\fselect_server|germany"})
	assert.Equal(t, "select_server", key)
	assert.Equal(t, "germany", payload)

	key, payload = parseCallback(&tele.Callback{Data: "\fback_to_main"})
	assert.Equal(t, "back_to_main", key)
	assert.Empty(t, payload)
}
