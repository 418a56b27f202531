package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	coreconfig "vpnkeybot/core/config"
)

var (
	initOnce sync.Once

	levelVar slog.LevelVar

	// L is the base logger used by component loggers below.
	L *slog.Logger

	// TG logs Telegram transport events.
	TG *slog.Logger
	// TWire logs Telegram wiring steps.
	TWire *slog.Logger
	// DB logs database-related events.
	DB *slog.Logger
	// MIG logs database migration events.
	MIG *slog.Logger
	// LED logs key ledger activity.
	LED *slog.Logger
	// ENC logs link encoder activity.
	ENC *slog.Logger
)

const (
	formatKV   = "kv"
	formatJSON = "json"
)

func init() {
	// Keep component loggers usable before InitLogger runs (tests, early startup).
	wireComponents(slog.Default())
}

// InitLogger configures the global structured logger. It may be called only once.
func InitLogger(cfg *coreconfig.Config) error {
	initOnce.Do(func() {
		levelVar.Set(selectLevel(cfg))

		opts := &slog.HandlerOptions{Level: &levelVar}
		var handler slog.Handler
		if selectFormat(cfg) == formatJSON {
			handler = slog.NewJSONHandler(os.Stdout, opts)
		} else {
			handler = slog.NewTextHandler(os.Stdout, opts)
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)
		wireComponents(logger)

		L.With("component", "app").Info("logger ready",
			slog.String("event", "init"),
			slog.String("level", levelVar.Level().String()),
		)
	})
	return nil
}

// Shutdown flushes logging resources before process exit.
func Shutdown() error {
	// Stdout handlers have nothing buffered; kept for lifecycle symmetry.
	return nil
}

// Component returns a child logger tagged with the given component name.
func Component(name string) *slog.Logger {
	if L == nil {
		return slog.Default().With("component", name)
	}
	return L.With("component", name)
}

// Background returns the base context used for log correlation.
func Background() context.Context {
	return context.Background()
}

// SetLevel overrides the active log level at runtime.
func SetLevel(level slog.Level) {
	levelVar.Set(level)
}

func wireComponents(base *slog.Logger) {
	L = base
	TG = base.With("component", "tg")
	TWire = base.With("component", "tg.wire")
	DB = base.With("component", "db")
	MIG = base.With("component", "db.migrate")
	LED = base.With("component", "ledger")
	ENC = base.With("component", "vpnlink")
}

func selectLevel(cfg *coreconfig.Config) slog.Level {
	if cfg != nil && cfg.Logging.Debug {
		return slog.LevelDebug
	}
	level := ""
	if cfg != nil {
		level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	}
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func selectFormat(cfg *coreconfig.Config) string {
	if cfg == nil {
		return formatKV
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Logging.Format), formatJSON) {
		return formatJSON
	}
	return formatKV
}

// LogEvent emits msg through the context-enriched logger at the given level.
func LogEvent(ctx context.Context, log *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if log == nil {
		log = FromContext(ctx)
	}
	all := make([]slog.Attr, 0, len(attrs)+2)
	if rid := RIDFrom(ctx); rid != "" {
		all = append(all, slog.String("rid", rid))
	}
	if handler := HandlerFrom(ctx); handler != "" {
		all = append(all, slog.String("handler", handler))
	}
	all = append(all, attrs...)
	log.LogAttrs(ctx, level, msg, all...)
}
