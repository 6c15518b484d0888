package usecase

import (
	"regexp"
	"strings"

	"github.com/tutravel/intake-bot/internal/entity"
)

var emailRegex = regexp.MustCompile(`(?i)^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func isValidEmail(text string) bool {
	return emailRegex.MatchString(strings.TrimSpace(text))
}

// isValidFullName requires at least name and last name.
func isValidFullName(text string) bool {
	return len(strings.Fields(strings.TrimSpace(text))) >= 2
}

// serviceMenu maps the 1-5 menu answers to the service types used in
// HubSpot. Keep in sync with the menu texts in messages.go.
var serviceMenu = map[string]string{
	"1": "Villas & Homes",
	"2": "Boats & Yachts",
	"3": "Weddings & Events",
	"4": "Concierge",
	"5": "Sales",
}

func serviceForChoice(text string) (string, bool) {
	service, ok := serviceMenu[strings.TrimSpace(text)]
	return service, ok
}

// detectLanguage fixes the conversation language on the very first message:
// anything starting with "en" (english, en, "EN please") is English,
// everything else Spanish.
func detectLanguage(text string) entity.Language {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(text)), "en") {
		return entity.LanguageEN
	}
	return entity.LanguageES
}

// splitDateRange splits "2025-09-10 a 2025-09-15" style answers around the
// first standalone occurrence of the language's separator word. The match is
// per whole token via EqualFold; byte offsets into a lowercased copy would
// drift on runes whose case folding changes length. An answer without the
// separator is taken as a single date: start == end == the trimmed input.
func splitDateRange(text, separator string) (string, string) {
	trimmed := strings.TrimSpace(text)
	fields := strings.Fields(trimmed)
	for i := 1; i < len(fields)-1; i++ {
		if strings.EqualFold(fields[i], separator) {
			return strings.Join(fields[:i], " "), strings.Join(fields[i+1:], " ")
		}
	}
	return trimmed, trimmed
}

var numericRegex = regexp.MustCompile(`^\d+$`)

func isNumeric(text string) bool {
	return numericRegex.MatchString(strings.TrimSpace(text))
}
