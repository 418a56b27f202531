package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpnkeybot/i18n"
)

func TestMainMenuActionsStableAcrossLanguages(t *testing.T) {
	m := NewMenus(i18n.New())

	var actions []string
	for _, o := range m.Main("en") {
		actions = append(actions, o.Action)
	}
	require.Equal(t, []string{
		actionTariffs, actionMyKeys, actionAccount,
		actionInstructions, actionHelp, actionReferral,
	}, actions)

	for _, lang := range []string{"ru", "uz"} {
		opts := m.Main(lang)
		require.Len(t, opts, len(actions))
		for i, o := range opts {
			assert.Equal(t, actions[i], o.Action, "action tokens must not vary by language")
			assert.NotEqual(t, m.Main("en")[i].Label, o.Label, "labels must be localized")
		}
	}
}

func TestMainMenuFallbackLanguage(t *testing.T) {
	m := NewMenus(i18n.New())

	opts := m.Main("xx")
	require.Len(t, opts, 6)
	assert.Equal(t, "main_menu_button_tariffs", opts[0].Label,
		"unknown languages surface raw key text instead of failing")
}

func TestServersMenuPayloads(t *testing.T) {
	m := NewMenus(i18n.New())

	opts := m.Servers("en")
	require.Len(t, opts, 5)

	payloads := map[string]bool{}
	for _, o := range opts[:4] {
		assert.Equal(t, cbKeySelectSrv, o.Action)
		payloads[o.Payload] = true
	}
	assert.Equal(t, map[string]bool{
		"russia": true, "america": true, "germany": true, "singapore": true,
	}, payloads)

	back := opts[4]
	assert.Equal(t, cbKeyBackToMain, back.Action)
	assert.Empty(t, back.Payload)
}

func TestServerPayloadsResolveInCatalog(t *testing.T) {
	m := NewMenus(i18n.New())
	catalog := DefaultCatalog()

	for _, o := range m.Servers("en")[:4] {
		srv, ok := catalog[o.Payload]
		require.True(t, ok, "menu payload %q missing from catalog", o.Payload)
		assert.Equal(t, o.Payload, srv.Location)
		assert.NotEmpty(t, srv.Address)
		assert.Positive(t, srv.Port)
	}
}

func TestLanguagesMenu(t *testing.T) {
	m := NewMenus(i18n.New())

	opts := m.LanguagesMenu("en")
	require.Len(t, opts, 3)
	codes := map[string]bool{}
	for _, o := range opts {
		assert.Equal(t, cbKeyLanguage, o.Action)
		codes[o.Payload] = true
	}
	assert.Equal(t, map[string]bool{"ru": true, "uz": true, "en": true}, codes)
}

func TestMarkupShapes(t *testing.T) {
	m := NewMenus(i18n.New())

	main := m.MainMarkup("en")
	require.Len(t, main.ReplyKeyboard, 3)
	for _, row := range main.ReplyKeyboard {
		assert.Len(t, row, 2)
	}

	servers := m.ServersMarkup("en")
	assert.Len(t, servers.InlineKeyboard, 5)

	langs := m.LanguagesMarkup("en")
	require.Len(t, langs.InlineKeyboard, 1)
	assert.Len(t, langs.InlineKeyboard[0], 3)
}
