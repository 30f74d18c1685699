package i18n

import (
	"embed"
	"encoding/json"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator renders message ids for one language.
type Translator struct {
	loc *goi18n.Localizer
}

type Bundle struct {
	b *goi18n.Bundle
}

// NewBundle loads the embedded Spanish (default) and English messages.
func NewBundle() (*Bundle, error) {
	b := goi18n.NewBundle(language.Spanish)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, f := range []string{"locales/active.es.json", "locales/active.en.json"} {
		if _, err := b.LoadMessageFileFS(localeFS, f); err != nil {
			return nil, err
		}
	}
	return &Bundle{b: b}, nil
}

// MustNewBundle panics if the embedded files are broken.
func MustNewBundle() *Bundle {
	b, err := NewBundle()
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Bundle) Translator(langs ...string) *Translator {
	return &Translator{loc: goi18n.NewLocalizer(b.b, langs...)}
}

// T returns the message id itself when no translation exists.
func (t *Translator) T(id string, data map[string]interface{}) string {
	msg, err := t.loc.Localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return id
	}
	return msg
}
