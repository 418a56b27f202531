package bot

import (
	"fmt"
	"log/slog"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"vpnkeybot/core/logger"
	"vpnkeybot/core/telegram/format"
	tghelpers "vpnkeybot/core/telegram/helpers"
)

func userID(c tele.Context) string {
	if sender := c.Sender(); sender != nil {
		return strconv.FormatInt(sender.ID, 10)
	}
	return ""
}

func (a *App) userLang(c tele.Context) string {
	return a.store.Language(tghelpers.BuildContext(c), userID(c))
}

// onStart greets the user, shows the main menu, and always offers the
// language selection afterwards.
func (a *App) onStart(c tele.Context) error {
	lang := a.userLang(c)

	if err := tghelpers.SendText(c, a.tr.T(lang, "welcome_message"), &tele.SendOptions{
		ReplyMarkup: a.menus.MainMarkup(lang),
	}); err != nil {
		return err
	}
	return tghelpers.SendText(c, a.tr.T(lang, "language_selection_prompt"), &tele.SendOptions{
		ReplyMarkup: a.menus.LanguagesMarkup(lang),
	})
}

// onLanguage lets the user re-open the language selection explicitly.
func (a *App) onLanguage(c tele.Context) error {
	lang := a.userLang(c)
	return tghelpers.SendText(c, a.tr.T(lang, "language_selection_prompt"), &tele.SendOptions{
		ReplyMarkup: a.menus.LanguagesMarkup(lang),
	})
}

// handleTariffs opens the server-location selection.
func (a *App) handleTariffs(c tele.Context) error {
	lang := a.userLang(c)
	return tghelpers.SendText(c, a.tr.T(lang, "server_selection_prompt"), &tele.SendOptions{
		ReplyMarkup: a.menus.ServersMarkup(lang),
	})
}

// handleMyKeys lists the user's issued links as escaped code spans,
// 1-indexed in issuance order.
func (a *App) handleMyKeys(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	lang := a.userLang(c)

	rec, err := a.store.Record(ctx, userID(c))
	if err != nil {
		return err
	}

	if len(rec.Keys) == 0 {
		if err := tghelpers.SendText(c, a.tr.T(lang, "no_saved_keys")); err != nil {
			return err
		}
		return a.sendMainMenu(c, lang)
	}

	msg := format.EscapeMarkdownV2(a.tr.T(lang, "keys_message_header")) + "\n\n"
	for i, key := range rec.Keys {
		msg += fmt.Sprintf("%d\\. `%s`\n\n", i+1, format.EscapeMarkdownV2(key))
	}
	if err := tghelpers.SendMDV2(c, msg); err != nil {
		return err
	}
	return a.sendMainMenu(c, lang)
}

// handleAccount shows the user identifier and the account actions.
func (a *App) handleAccount(c tele.Context) error {
	lang := a.userLang(c)

	msg := fmt.Sprintf("%s\n\n%s `%s`",
		format.EscapeMarkdownV2(a.tr.T(lang, "account_info_header")),
		format.EscapeMarkdownV2(a.tr.T(lang, "account_info_user_id")),
		format.EscapeMarkdownV2(userID(c)),
	)
	return tghelpers.SendMDV2(c, msg, a.menus.AccountMarkup(lang))
}

// handleInstructions sends the static setup guide.
func (a *App) handleInstructions(c tele.Context) error {
	lang := a.userLang(c)
	if err := tghelpers.SendHTML(c, a.tr.T(lang, "instructions_full_text")); err != nil {
		return err
	}
	return a.sendMainMenu(c, lang)
}

// handleHelp sends the static troubleshooting text.
func (a *App) handleHelp(c tele.Context) error {
	lang := a.userLang(c)
	if err := tghelpers.SendHTML(c, a.tr.T(lang, "help_full_text")); err != nil {
		return err
	}
	return a.sendMainMenu(c, lang)
}

// handleReferral composes the referral deep link carrying the user id as the
// start parameter.
func (a *App) handleReferral(c tele.Context) error {
	lang := a.userLang(c)
	id := userID(c)

	link := fmt.Sprintf("https://t.me/%s?start=%s", a.cfg.Bot.Username, id)
	msg := fmt.Sprintf("%s\n`%s`\n\n%s",
		format.EscapeMarkdownV2(a.tr.T(lang, "referral_link_message")),
		format.EscapeMarkdownV2(link),
		format.EscapeMarkdownV2(a.tr.T(lang, "referral_bonus_info")),
	)
	if err := tghelpers.SendMDV2(c, msg); err != nil {
		return err
	}
	return a.sendMainMenu(c, lang)
}

// onUnknownText answers text that matches no menu label in any language.
func (a *App) onUnknownText(c tele.Context) error {
	lang := a.userLang(c)
	logger.TG.Debug("unmatched text",
		slog.String("event", "text.unmatched"),
		slog.String("payload", logger.SanitizeLimit(c.Text(), 128)),
	)
	return tghelpers.SendText(c, a.tr.T(lang, "unknown_message"), &tele.SendOptions{
		ReplyMarkup: a.menus.MainMarkup(lang),
	})
}

func (a *App) sendMainMenu(c tele.Context, lang string) error {
	return tghelpers.SendText(c, a.tr.T(lang, "main_menu_message_prompt"), &tele.SendOptions{
		ReplyMarkup: a.menus.MainMarkup(lang),
	})
}
