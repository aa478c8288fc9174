package assets

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Key returns the sound key of an audio file: its base name without
// extension, slugged. "sfx/Épée Clash 02.wav" becomes "epee_clash_02".
func Key(filePath string) string {
	name := path.Base(filePath)
	return Slug(strings.TrimSuffix(name, path.Ext(name)))
}

// Slug lower-cases text, strips diacritics and anything outside ASCII
// letters and digits, and joins the remaining words with underscores
func Slug(text string) string {
	// Decompose and remove non-spacing marks
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	normalized, _, err := transform.String(t, text)
	if err != nil {
		normalized = text
	}

	fields := strings.FieldsFunc(strings.ToLower(normalized), func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	return strings.Join(fields, "_")
}
