// Package service resolves translation keys into displayable reply content,
// honoring each user's stored language preference
package service

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"rolelink/internal/platform/logger"
	iddom "rolelink/internal/services/identity/domain"
)

// DefaultLanguage is used when a user has no stored preference
const DefaultLanguage = "en"

// Svc implements the bot's MessengerPort
type Svc struct {
	reader      iddom.ReaderPort
	defaultLang string
	tags        []language.Tag
	matcher     language.Matcher
	log         *logger.Logger
}

// New constructs the messenger. defaultLang falls back to DefaultLanguage
// when empty or unknown.
func New(reader iddom.ReaderPort, defaultLang string) *Svc {
	tags := make([]language.Tag, 0, len(catalogs))
	for lang := range catalogs {
		tags = append(tags, language.MustParse(lang))
	}

	s := &Svc{
		reader:      reader,
		defaultLang: DefaultLanguage,
		tags:        tags,
		matcher:     language.NewMatcher(tags),
		log:         logger.Named("messages"),
	}
	if defaultLang != "" {
		if norm, ok := s.normalize(defaultLang); ok {
			s.defaultLang = norm
		}
	}
	return s
}

// normalize maps an arbitrary language string to a catalog key
func (s *Svc) normalize(lang string) (string, bool) {
	tag, err := language.Parse(lang)
	if err != nil {
		return "", false
	}
	_, idx, conf := s.matcher.Match(tag)
	if conf < language.High {
		return "", false
	}
	base, _ := s.tags[idx].Base()
	return base.String(), true
}

// Supported reports whether the language resolves to a catalog
func (s *Svc) Supported(lang string) bool {
	_, ok := s.normalize(lang)
	return ok
}

// Get builds the reply content for a key in the user's preferred language.
// Unknown keys fall back to the default language and ultimately to the key
// itself, with a warning either way.
func (s *Svc) Get(ctx context.Context, userID, key string, args ...any) string {
	lang := s.languageFor(ctx, userID)

	tmpl, ok := catalogs[lang][key]
	if !ok {
		tmpl, ok = catalogs[s.defaultLang][key]
	}
	if !ok {
		s.log.Warn().Str("key", key).Str("lang", lang).Msg("missing translation key")
		return key
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// languageFor resolves the user's preference, tolerating lookup failures
func (s *Svc) languageFor(ctx context.Context, userID string) string {
	if userID == "" {
		return s.defaultLang
	}
	pref, err := s.reader.GetLanguage(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("discord_id", userID).Msg("language lookup failed")
		return s.defaultLang
	}
	if pref == "" {
		return s.defaultLang
	}
	if norm, ok := s.normalize(pref); ok {
		return norm
	}
	return s.defaultLang
}
