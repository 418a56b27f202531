// Package i18n maps (language, key) pairs to localized strings.
//
// Lookup follows a strict fallback contract: a language without a table
// behaves as an empty table, a missing key without a default returns the key
// itself, and a missing key with a default returns the default. Rendering
// therefore never fails.
package i18n

import (
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"vpnkeybot/core/logger"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

// Default is the language used for users without a stored preference.
const Default = "en"

// Translator resolves localized strings from per-language tables.
type Translator struct {
	tables map[string]map[string]string
}

// New loads the locale tables embedded into the binary.
func New() *Translator {
	sub, _ := fs.Sub(embeddedLocales, "locales")
	return load(sub)
}

// NewFromDir loads locale tables from dir, falling back to an empty table per
// missing or malformed file. It allows deployments to override the embedded
// texts without rebuilding.
func NewFromDir(dir string) *Translator {
	return load(os.DirFS(dir))
}

func load(fsys fs.FS) *Translator {
	tr := &Translator{tables: make(map[string]map[string]string)}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		logger.L.Warn("locales dir unreadable",
			slog.String("event", "i18n.load"),
			slog.String("err", err.Error()),
		)
		return tr
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		lang := e.Name()[:len(e.Name())-len(".json")]
		data, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			logger.L.Warn("locale file unreadable",
				slog.String("event", "i18n.load"),
				slog.String("lang", lang),
				slog.String("err", err.Error()),
			)
			tr.tables[lang] = map[string]string{}
			continue
		}
		table := map[string]string{}
		if err := json.Unmarshal(data, &table); err != nil {
			logger.L.Warn("locale file malformed",
				slog.String("event", "i18n.load"),
				slog.String("lang", lang),
				slog.String("err", err.Error()),
			)
			tr.tables[lang] = map[string]string{}
			continue
		}
		tr.tables[lang] = table
	}
	return tr
}

// T returns the localized string for key in lang. A missing key yields the
// optional default when given, otherwise the key itself.
func (tr *Translator) T(lang, key string, def ...string) string {
	if table, ok := tr.tables[lang]; ok {
		if v, ok := table[key]; ok {
			return v
		}
	}
	if len(def) > 0 {
		return def[0]
	}
	return key
}

// Languages returns the loaded language codes in sorted order.
func (tr *Translator) Languages() []string {
	langs := make([]string, 0, len(tr.tables))
	for lang := range tr.tables {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Labels collects the localized values of key across every loaded language.
func (tr *Translator) Labels(key string) []string {
	var labels []string
	for _, lang := range tr.Languages() {
		labels = append(labels, tr.T(lang, key))
	}
	return labels
}
