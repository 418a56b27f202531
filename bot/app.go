// Package bot wires the VPN key bot: menu rendering, update routing, link
// issuance, and the per-user ledger.
package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "vpnkeybot/core/config"
	"vpnkeybot/core/logger"
	tg "vpnkeybot/core/telegram"
	"vpnkeybot/core/telegram/commands"
	tghelpers "vpnkeybot/core/telegram/helpers"
	"vpnkeybot/core/telegram/middleware"
	"vpnkeybot/core/telegram/router"
	"vpnkeybot/i18n"
	"vpnkeybot/ledger"
	"vpnkeybot/vpnlink"
)

// App holds the bot's collaborators. Handlers reach everything through the
// App receiver; there is no ambient global state.
type App struct {
	cfg     *coreconfig.Config
	store   ledger.Store
	enc     *vpnlink.Encoder
	tr      *i18n.Translator
	menus   *Menus
	servers Catalog
}

// New assembles the application on top of an opened ledger store.
func New(cfg *coreconfig.Config, store ledger.Store) *App {
	tr := i18n.New()
	if dir := strings.TrimSpace(cfg.Bot.LocalesDir); dir != "" {
		tr = i18n.NewFromDir(dir)
	}
	return &App{
		cfg:     cfg,
		store:   store,
		enc:     vpnlink.New(),
		tr:      tr,
		menus:   NewMenus(tr),
		servers: DefaultCatalog(),
	}
}

// TelegramRunOptions builds the registry, middleware chain, and routes.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.guard("start", a.onStart),
		Description: "Start the bot and show the main menu",
	})
	reg.RegisterCommand("/language", commands.Command{
		Handler:     a.guard("language", a.onLanguage),
		Description: "Choose the bot language",
	})

	_ = reg.RegisterCallback(cbKeyLanguage, a.guard("cb."+cbKeyLanguage, a.cbLanguage))
	_ = reg.RegisterCallback(cbKeySelectSrv, a.guard("cb."+cbKeySelectSrv, a.cbSelectServer))
	_ = reg.RegisterCallback(cbKeyBackToMain, a.guard("cb."+cbKeyBackToMain, a.cbBackToMain))
	_ = reg.RegisterCallback(cbKeyEnterPromo, a.guard("cb."+cbKeyEnterPromo, a.cbEnterPromo))

	a.registerLabels(reg)
	reg.SetTextFallback(a.guard("unknown_text", a.onUnknownText))

	mws := []tg.Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}
	if interval := time.Duration(a.cfg.RateLimit.IntervalMS) * time.Millisecond; interval > 0 {
		exclude := make(map[string]struct{}, len(a.cfg.RateLimit.ExcludeUpdates))
		for _, kind := range a.cfg.RateLimit.ExcludeUpdates {
			exclude[kind] = struct{}{}
		}
		mws = append(mws, tg.Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval: interval,
				Exclude:  exclude,
			}),
		})
	}

	routes := router.CommandRoutes(reg)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoute(reg, router.TextOptions{}))

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: mws,
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			logger.L.With("component", "app").Info("bot ready",
				slog.String("event", "ready"),
				slog.Int("labels", rt.Registry.LabelCount()),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			if f, ok := a.store.(interface{ Flush() error }); ok {
				if err := f.Flush(); err != nil {
					logger.LED.Error("final ledger flush failed",
						slog.String("event", "ledger.flush"),
						slog.String("err", err.Error()),
					)
				}
			}
			return nil
		},
	}, nil
}

// registerLabels generates the text routes once, from every language's menu
// labels. Identical labels across languages collapse into one route; the
// handler resolves the reply language from the ledger anyway.
func (a *App) registerLabels(reg *tg.Registry) {
	handlers := map[string]tele.HandlerFunc{
		actionTariffs:      a.guard(actionTariffs, a.handleTariffs),
		actionMyKeys:       a.guard(actionMyKeys, a.handleMyKeys),
		actionAccount:      a.guard(actionAccount, a.handleAccount),
		actionInstructions: a.guard(actionInstructions, a.handleInstructions),
		actionHelp:         a.guard(actionHelp, a.handleHelp),
		actionReferral:     a.guard(actionReferral, a.handleReferral),
	}

	for _, lang := range a.tr.Languages() {
		for _, opt := range a.menus.Main(lang) {
			if h, ok := handlers[opt.Action]; ok {
				reg.RegisterLabel(opt.Label, opt.Action, h)
			}
		}
	}
}

// guard is the top-level catch-all: an error escaping a handler becomes a
// generic localized reply, and a pending callback is still acknowledged so
// the client never hangs in the loading state.
func (a *App) guard(name string, h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		err := h(c)
		if err == nil {
			return nil
		}

		ctx := tghelpers.WithHandler(c, name)
		logger.LogEvent(ctx, logger.Component("tg"), slog.LevelError, "handler.error",
			slog.String("handler", name),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)

		lang := a.userLang(c)
		_ = tghelpers.SendText(c, a.tr.T(lang, "unexpected_error"))
		if c.Callback() != nil {
			_ = c.Respond()
		}
		return err
	}
}
