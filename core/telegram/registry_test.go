package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"vpnkeybot/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

func TestRegisterCommand(t *testing.T) {
	r := NewRegistry()

	r.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start"})
	r.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Duplicate"})
	r.RegisterCommand("start", commands.Command{Handler: noop, Description: "No slash"})
	r.RegisterCommand("/bad", commands.Command{Handler: nil, Description: "No handler"})
	r.RegisterCommand("/hidden", commands.Command{Handler: noop, Description: "Hidden", Hidden: true})

	assert.Len(t, r.Commands(), 2)
	assert.Equal(t, "Start", r.Commands()["/start"].Description)

	visible := r.ListCommands(true)
	require.Len(t, visible, 1)
	assert.Equal(t, "/start", visible[0].Text)

	all := r.ListCommands(false)
	assert.Len(t, all, 2)
}

func TestRegisterCallback(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RegisterCallback("lang", noop))
	assert.Error(t, r.RegisterCallback("lang", noop), "duplicate key is rejected")
	assert.Error(t, r.RegisterCallback("", noop))
	assert.Error(t, r.RegisterCallback("x", nil))

	_, ok := r.GetCallback("lang")
	assert.True(t, ok)
	_, ok = r.GetCallback("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"lang"}, r.ListCallbacks())
}

func TestRegisterLabel(t *testing.T) {
	r := NewRegistry()

	r.RegisterLabel("💎 Tariffs", "tariffs", noop)
	r.RegisterLabel("💎 Тарифы", "tariffs", noop)
	assert.Equal(t, 2, r.LabelCount())

	// Re-registering the same label for the same handler name is a no-op.
	r.RegisterLabel("💎 Tariffs", "tariffs", noop)
	assert.Equal(t, 2, r.LabelCount())

	// A conflicting name keeps the first registration.
	r.RegisterLabel("💎 Tariffs", "account", noop)
	route, ok := r.LookupLabel("💎 Tariffs")
	require.True(t, ok)
	assert.Equal(t, "tariffs", route.Name)
}

func TestLookupLabelTrimsWhitespace(t *testing.T) {
	r := NewRegistry()
	r.RegisterLabel("🔑 My Keys", "my_keys", noop)

	_, ok := r.LookupLabel("  🔑 My Keys \n")
	assert.True(t, ok)

	_, ok = r.LookupLabel("🔑 my keys")
	assert.False(t, ok, "matching is exact after trimming")
}

func TestFallbacks(t *testing.T) {
	r := NewRegistry()

	assert.NotNil(t, r.CallbackNotFound(), "default callback fallback answers the query")
	assert.Nil(t, r.TextFallback())

	called := false
	r.SetTextFallback(func(tele.Context) error { called = true; return nil })
	require.NotNil(t, r.TextFallback())
	_ = r.TextFallback()(nil)
	assert.True(t, called)

	r.SetCallbackNotFound(nil)
	assert.NotNil(t, r.CallbackNotFound(), "nil does not clear the callback fallback")
}
