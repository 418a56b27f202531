package bot

import (
	"vpnkeybot/core/telegram/keyboard"
	"vpnkeybot/i18n"

	tele "gopkg.in/telebot.v4"
)

// Callback unique keys. Telebot carries them on the wire together with the
// payload, so tokens stay language-independent.
const (
	cbKeyLanguage   = "lang"
	cbKeySelectSrv  = "select_server"
	cbKeyBackToMain = "back_to_main"
	cbKeyEnterPromo = "enter_promo_code"
)

// Names of the main-menu actions. Used for label routing and log summaries.
const (
	actionTariffs      = "tariffs"
	actionMyKeys       = "my_keys"
	actionAccount      = "account"
	actionInstructions = "instructions"
	actionHelp         = "help"
	actionReferral     = "referral"
)

// Option is one selectable menu entry: a localized label plus the stable
// action token (and, for callbacks, its payload) it triggers.
type Option struct {
	Label   string
	Action  string
	Payload string
}

// Menus renders localized option sets. Rendering never fails: unknown
// languages fall back to raw key text through the translator contract.
type Menus struct {
	tr *i18n.Translator
}

// NewMenus builds the menu renderer on top of the translation tables.
func NewMenus(tr *i18n.Translator) *Menus {
	return &Menus{tr: tr}
}

// Main returns the six fixed main-menu actions for lang.
func (m *Menus) Main(lang string) []Option {
	return []Option{
		{Label: m.tr.T(lang, "main_menu_button_tariffs"), Action: actionTariffs},
		{Label: m.tr.T(lang, "main_menu_button_my_keys"), Action: actionMyKeys},
		{Label: m.tr.T(lang, "main_menu_button_account"), Action: actionAccount},
		{Label: m.tr.T(lang, "main_menu_button_instructions"), Action: actionInstructions},
		{Label: m.tr.T(lang, "main_menu_button_help"), Action: actionHelp},
		{Label: m.tr.T(lang, "main_menu_button_referral"), Action: actionReferral},
	}
}

// MainMarkup renders the main menu as a two-column reply keyboard.
func (m *Menus) MainMarkup(lang string) *tele.ReplyMarkup {
	opts := m.Main(lang)
	return keyboard.ReplyButtons(
		[]string{opts[0].Label, opts[1].Label},
		[]string{opts[2].Label, opts[3].Label},
		[]string{opts[4].Label, opts[5].Label},
	)
}

// Servers returns the four fixed locations plus the back action.
func (m *Menus) Servers(lang string) []Option {
	return []Option{
		{Label: m.tr.T(lang, "server_button_russia"), Action: cbKeySelectSrv, Payload: "russia"},
		{Label: m.tr.T(lang, "server_button_america"), Action: cbKeySelectSrv, Payload: "america"},
		{Label: m.tr.T(lang, "server_button_germany"), Action: cbKeySelectSrv, Payload: "germany"},
		{Label: m.tr.T(lang, "server_button_singapore"), Action: cbKeySelectSrv, Payload: "singapore"},
		{Label: m.tr.T(lang, "button_back_to_main"), Action: cbKeyBackToMain},
	}
}

// ServersMarkup renders the server selection as an inline keyboard.
func (m *Menus) ServersMarkup(lang string) *tele.ReplyMarkup {
	return inlineMarkup(m.Servers(lang))
}

// Account returns the promo-entry action plus the back action.
func (m *Menus) Account(lang string) []Option {
	return []Option{
		{Label: m.tr.T(lang, "button_enter_promo_code"), Action: cbKeyEnterPromo},
		{Label: m.tr.T(lang, "button_back_to_main"), Action: cbKeyBackToMain},
	}
}

// AccountMarkup renders the account menu as an inline keyboard.
func (m *Menus) AccountMarkup(lang string) *tele.ReplyMarkup {
	return inlineMarkup(m.Account(lang))
}

// LanguagesMenu returns the three supported language choices.
func (m *Menus) LanguagesMenu(lang string) []Option {
	return []Option{
		{Label: m.tr.T(lang, "language_button_russian", "🇷🇺 Русский"), Action: cbKeyLanguage, Payload: "ru"},
		{Label: m.tr.T(lang, "language_button_uzbek", "🇺🇿 O'zbekcha"), Action: cbKeyLanguage, Payload: "uz"},
		{Label: m.tr.T(lang, "language_button_english", "🇬🇧 English"), Action: cbKeyLanguage, Payload: "en"},
	}
}

// LanguagesMarkup renders the language choices on a single inline row.
func (m *Menus) LanguagesMarkup(lang string) *tele.ReplyMarkup {
	opts := m.LanguagesMenu(lang)
	row := make([]keyboard.InlineBtn, 0, len(opts))
	for _, o := range opts {
		row = append(row, keyboard.InlineBtn{Text: o.Label, Unique: o.Action, Data: o.Payload})
	}
	return keyboard.InlineButtonsRows(row)
}

func inlineMarkup(opts []Option) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(opts))
	for _, o := range opts {
		buttons = append(buttons, keyboard.InlineBtn{Text: o.Label, Unique: o.Action, Data: o.Payload})
	}
	return keyboard.InlineButtons(buttons)
}
