package usecase

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/tutravel/intake-bot/internal/entity"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, isValidEmail("a@b.com"))
	assert.True(t, isValidEmail("ANA@GOMEZ.COM"))
	assert.True(t, isValidEmail("  a@b.com  "))

	assert.False(t, isValidEmail("a@b"))
	assert.False(t, isValidEmail("a@b."))
	assert.False(t, isValidEmail("ab.com"))
	assert.False(t, isValidEmail("a @b.com"))
	assert.False(t, isValidEmail(""))
}

func TestIsValidFullName(t *testing.T) {
	assert.False(t, isValidFullName("Ana"))
	assert.True(t, isValidFullName("Ana Gomez"))
	assert.True(t, isValidFullName("Ana María Gómez"))
	assert.False(t, isValidFullName("   "))
}

func TestServiceForChoice(t *testing.T) {
	service, ok := serviceForChoice("1")
	assert.True(t, ok)
	assert.Equal(t, "Villas & Homes", service)

	service, ok = serviceForChoice("5")
	assert.True(t, ok)
	assert.Equal(t, "Sales", service)

	_, ok = serviceForChoice("9")
	assert.False(t, ok)

	_, ok = serviceForChoice("villas")
	assert.False(t, ok)

	// whitespace around the digit is fine
	service, ok = serviceForChoice(" 2 ")
	assert.True(t, ok)
	assert.Equal(t, "Boats & Yachts", service)
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, entity.LanguageES, detectLanguage("hola"))
	assert.Equal(t, entity.LanguageES, detectLanguage("buenas tardes"))
	assert.Equal(t, entity.LanguageEN, detectLanguage("english please"))
	assert.Equal(t, entity.LanguageEN, detectLanguage("EN"))
	assert.Equal(t, entity.LanguageEN, detectLanguage("  en  "))
}

func TestSplitDateRange(t *testing.T) {
	start, end := splitDateRange("2025-09-10 a 2025-09-15", "a")
	assert.Equal(t, "2025-09-10", start)
	assert.Equal(t, "2025-09-15", end)

	start, end = splitDateRange("2025-09-10 to 2025-09-15", "to")
	assert.Equal(t, "2025-09-10", start)
	assert.Equal(t, "2025-09-15", end)

	// no separator: the whole trimmed input becomes both dates
	start, end = splitDateRange("  2025-12-24  ", "a")
	assert.Equal(t, "2025-12-24", start)
	assert.Equal(t, "2025-12-24", end)

	// the separator must stand alone between spaces
	start, end = splitDateRange("La Guajira", "a")
	assert.Equal(t, "La Guajira", start)
	assert.Equal(t, "La Guajira", end)

	// only the first occurrence splits
	start, end = splitDateRange("10 a 12 a 15", "a")
	assert.Equal(t, "10", start)
	assert.Equal(t, "12 a 15", end)

	// the separator is case-insensitive as a whole word
	start, end = splitDateRange("2025-09-10 A 2025-09-15", "a")
	assert.Equal(t, "2025-09-10", start)
	assert.Equal(t, "2025-09-15", end)
}

// Runes like İ (U+0130) shrink from 2 bytes to 1 when lowercased; the split
// must still land between tokens and keep both halves valid UTF-8.
func TestSplitDateRangeMultibyteInput(t *testing.T) {
	start, end := splitDateRange("İİİİ a 2025-09-15", "a")
	assert.Equal(t, "İİİİ", start)
	assert.Equal(t, "2025-09-15", end)
	assert.True(t, utf8.ValidString(start))
	assert.True(t, utf8.ValidString(end))

	// multi-byte text without a standalone separator stays whole
	start, end = splitDateRange("Bogotá", "a")
	assert.Equal(t, "Bogotá", start)
	assert.Equal(t, "Bogotá", end)
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, isNumeric("4"))
	assert.True(t, isNumeric(" 12 "))
	assert.False(t, isNumeric("four"))
	assert.False(t, isNumeric("4 personas"))
	assert.False(t, isNumeric(""))
}
