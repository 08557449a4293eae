// Package i18n resolves localized message templates by locale tag.
//
// The world server keeps its catalogs small (action feedback strings), so
// templates live in Go maps rather than external catalog files. Locale
// matching follows BCP 47 semantics via x/text.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

// Bundle holds message templates for a set of locales.
type Bundle struct {
	tags     []language.Tag
	matcher  language.Matcher
	messages map[string]map[string]string // locale -> key -> template
}

// New builds a bundle from locale-keyed template maps. The base locale must
// be present; it is the fallback for every unmatched lookup.
func New(catalogs map[string]map[string]string) (*Bundle, error) {
	if _, ok := catalogs[BaseLocale]; !ok {
		return nil, fmt.Errorf("catalog for base locale %s is required", BaseLocale)
	}

	bundle := &Bundle{messages: make(map[string]map[string]string, len(catalogs))}

	// The base locale leads so the matcher falls back to it.
	base, err := language.Parse(BaseLocale)
	if err != nil {
		return nil, fmt.Errorf("parse base locale: %w", err)
	}
	bundle.tags = append(bundle.tags, base)
	bundle.messages[base.String()] = catalogs[BaseLocale]

	for locale, templates := range catalogs {
		if locale == BaseLocale {
			continue
		}
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", locale, err)
		}
		bundle.tags = append(bundle.tags, tag)
		bundle.messages[tag.String()] = templates
	}

	bundle.matcher = language.NewMatcher(bundle.tags)
	return bundle, nil
}

// Resolve returns the best supported locale for the requested one.
func (b *Bundle) Resolve(locale string) string {
	if b == nil || b.matcher == nil {
		return BaseLocale
	}
	requested, err := language.Parse(locale)
	if err != nil {
		return BaseLocale
	}
	_, index, _ := b.matcher.Match(requested)
	if index < 0 || index >= len(b.tags) {
		return BaseLocale
	}
	return b.tags[index].String()
}

// Message returns the template for key in the best-matching locale, falling
// back to the base locale when the matched catalog lacks the key.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	resolved := b.Resolve(locale)
	if template, ok := b.messages[resolved][key]; ok {
		return template, true
	}
	template, ok := b.messages[b.tags[0].String()][key]
	return template, ok
}
