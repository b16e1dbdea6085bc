// Package i18n registers the user-facing game messages with x/text/message
// and resolves request languages against the supported locales.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys shared by the room core and the transport.
const (
	KeyDefaultPlayerName = "player.default_name"
	KeyDraw              = "round.draw"
	KeyTurnOf            = "feed.turn_of"
	KeyRolled            = "feed.rolled"
	KeyMatchWinner       = "match.default_winner"
	KeyUnknownHandle     = "error.UNKNOWN_HANDLE"
	KeyInvalidMask       = "error.INVALID_MASK"
)

var supported = []language.Tag{
	language.AmericanEnglish,
	language.Spanish,
}

var matcher = language.NewMatcher(supported)

func init() {
	for tag, messages := range catalogs {
		for key, value := range messages {
			if err := message.SetString(tag, key, value); err != nil {
				panic(fmt.Sprintf("i18n: register %s %q: %v", tag, key, err))
			}
		}
	}
}

// Supported returns the supported language tags, default first.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// DefaultTag returns the default language tag.
func DefaultTag() language.Tag {
	return supported[0]
}

// ParseTag resolves a locale string to the closest supported tag.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	return MatchTags(tag), true
}

// MatchTags picks the supported tag that best matches the preferences.
func MatchTags(tags ...language.Tag) language.Tag {
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supported[idx]
}

// FromAcceptLanguage resolves an Accept-Language header value.
func FromAcceptLanguage(header string) language.Tag {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultTag()
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultTag()
	}
	return MatchTags(tags...)
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ErrorKey returns the message key for a machine-readable error code.
func ErrorKey(code string) string {
	return "error." + code
}

// CategoryKey returns the message key for a scoring category key.
func CategoryKey(key string) string {
	return "category." + key
}
