package services

import (
	"strings"

	"github.com/pemistahl/lingua-go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var detector lingua.LanguageDetector

// InitLanguageDetector builds the detector over the given ISO 639-1 codes.
// Detection stays disabled when fewer than two known languages are given.
func InitLanguageDetector(codes []string) {
	languages := lo.Filter(lingua.AllLanguages(), func(item lingua.Language, _ int) bool {
		return lo.ContainsBy(codes, func(code string) bool {
			return strings.EqualFold(item.IsoCode639_1().String(), code)
		})
	})
	if len(languages) < 2 {
		log.Warn().Strs("languages", codes).Msg("Not enough languages configured, language detection is disabled.")
		detector = nil
		return
	}

	detector = lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		WithLowAccuracyMode().
		Build()
}

// DetectLanguage returns the lower-case ISO 639-1 code or empty when unsure.
func DetectLanguage(content string) string {
	if detector == nil {
		return ""
	}
	if lang, ok := detector.DetectLanguageOf(content); ok {
		return strings.ToLower(lang.IsoCode639_1().String())
	}
	return ""
}
