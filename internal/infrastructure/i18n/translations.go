package i18n

import (
	"embed"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"gdbot/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var _ output.T = (*Translator)(nil)

// Translator is a thin wrapper around go-i18n's Bundle.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	log             *zap.Logger
	localizers      sync.Map // locale -> *i18n.Localizer
}

// NewTranslator builds a Translator using the given default locale (e.g.
// "ja"). An unknown locale falls back to Japanese.
func NewTranslator(defaultLocale string, log *zap.Logger) *Translator {
	if log == nil {
		log = zap.NewNop()
	}
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.Japanese
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.ja.toml", "active.en.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Error("i18n: load message file failed", zap.String("file", file), zap.Error(err))
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
		log:             log,
	}
}

// T renders the message identified by key for the given locale. Discord
// locales such as "en-US" or "ja" are accepted as is. A missing key falls
// back to the default locale, then to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	msg, err := t.localizer(locale).Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.log.Warn("i18n: localize failed", zap.String("key", key), zap.String("locale", locale), zap.Error(err))
		return key
	}
	return msg
}

// localizer returns the cached localizer preferring locale, then the
// default language.
func (t *Translator) localizer(locale string) *i18n.Localizer {
	if l, ok := t.localizers.Load(locale); ok {
		return l.(*i18n.Localizer)
	}
	l := i18n.NewLocalizer(t.bundle, locale, t.defaultLanguage.String())
	actual, _ := t.localizers.LoadOrStore(locale, l)
	return actual.(*i18n.Localizer)
}
