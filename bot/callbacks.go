package bot

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	tele "gopkg.in/telebot.v4"

	"vpnkeybot/core/logger"
	"vpnkeybot/core/telegram/format"
	tghelpers "vpnkeybot/core/telegram/helpers"
	"vpnkeybot/vpnlink"
)

func callbackPayload(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return strings.TrimSpace(cb.Data)
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	parts := strings.SplitN(raw, "|", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// cbLanguage stores the selected language and re-renders the menu in it.
func (a *App) cbLanguage(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	id := userID(c)
	code := callbackPayload(c)

	if err := a.store.SetLanguage(ctx, id, code); err != nil {
		return err
	}
	logger.LED.Info("language set",
		slog.String("event", "ledger.set_language"),
		slog.String("user_id", id),
		slog.String("lang", code),
	)

	if err := tghelpers.EditText(c, a.tr.T(code, "language_set_confirmation")); err != nil {
		return err
	}
	if err := tghelpers.SendText(c, a.tr.T(code, "welcome_message"), &tele.SendOptions{
		ReplyMarkup: a.menus.MainMarkup(code),
	}); err != nil {
		return err
	}
	return c.Respond()
}

// cbSelectServer issues a link for the chosen location, appends it to the
// ledger, and echoes it back together with a QR code.
func (a *App) cbSelectServer(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	id := userID(c)
	lang := a.userLang(c)
	location := callbackPayload(c)

	srv, ok := a.servers[location]
	if !ok {
		logger.TG.Warn("unknown server location",
			slog.String("event", "server.unknown"),
			slog.String("location", logger.SanitizeLimit(location, 64)),
			slog.String("user_id", id),
		)
		return c.Respond(&tele.CallbackResponse{
			Text:      a.tr.T(lang, "server_not_found"),
			ShowAlert: true,
		})
	}

	proto := vpnlink.ProtocolFor(srv.Network)
	link, err := a.enc.Encode(proto, srv.Address, srv.Port, srv.Security, srv.Network, srv.Extra)
	if err != nil {
		if errors.Is(err, vpnlink.ErrInvalidProtocol) {
			return c.Respond(&tele.CallbackResponse{
				Text:      fmt.Sprintf("%s %s", a.tr.T(lang, "error_prefix"), err),
				ShowAlert: true,
			})
		}
		_ = c.Respond(&tele.CallbackResponse{
			Text:      a.tr.T(lang, "error_during_link_generation"),
			ShowAlert: true,
		})
		return err
	}

	if err := a.store.AppendKey(ctx, id, link); err != nil {
		_ = c.Respond(&tele.CallbackResponse{
			Text:      a.tr.T(lang, "error_during_link_generation"),
			ShowAlert: true,
		})
		return err
	}
	logger.LED.Info("key issued",
		slog.String("event", "ledger.append_key"),
		slog.String("user_id", id),
		slog.String("location", location),
		slog.String("proto", string(proto)),
	)

	msg := fmt.Sprintf("%s\n`%s`",
		format.EscapeMarkdownV2(a.tr.T(lang, "your_vpn_link")),
		format.EscapeMarkdownV2(link),
	)
	if err := tghelpers.SendMDV2(c, msg); err != nil {
		return err
	}
	a.sendLinkQR(c, link)

	if err := c.Respond(&tele.CallbackResponse{Text: a.tr.T(lang, "link_generated")}); err != nil {
		return err
	}
	return a.sendMainMenu(c, lang)
}

// sendLinkQR delivers the link as a QR code image. Best effort: a QR failure
// never blocks the issuance flow.
func (a *App) sendLinkQR(c tele.Context, link string) {
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		logger.TG.Warn("qr encode failed",
			slog.String("event", "qr.encode"),
			slog.String("err", err.Error()),
		)
		return
	}
	photo := &tele.Photo{File: tele.FromReader(bytes.NewReader(png))}
	if err := c.Send(photo); err != nil {
		logger.TG.Warn("qr send failed",
			slog.String("event", "qr.send"),
			slog.String("err", err.Error()),
		)
	}
}

// cbBackToMain acknowledges and re-renders the main menu.
func (a *App) cbBackToMain(c tele.Context) error {
	lang := a.userLang(c)
	if err := c.Respond(); err != nil {
		return err
	}
	return a.sendMainMenu(c, lang)
}

// cbEnterPromo prompts for a promo code. Redemption of the typed reply is
// deliberately not handled anywhere.
func (a *App) cbEnterPromo(c tele.Context) error {
	lang := a.userLang(c)
	if err := c.Respond(); err != nil {
		return err
	}
	return tghelpers.SendText(c, a.tr.T(lang, "enter_promo_code_prompt"))
}
