// Package lang buckets message text into the coarse language categories
// the dashboard charts: Arabic script, Franco-Arabic (Arabic written in
// Latin letters with digit substitutions), English, or unknown.
package lang

import (
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/forPelevin/gomoji"
)

// Language is a coarse language bucket.
type Language string

const (
	Arabic  Language = "arabic"
	Franco  Language = "franco"
	English Language = "english"
	Unknown Language = "unknown"
)

var urlRe = regexp.MustCompile(`https?://\S+|www\.\S+|\S+\.(?:com|org|net)\S*`)

// francoPatterns match Arabic written with Latin letters and digit
// substitutions (2, 3, 5, 7, 8, 9 standing in for Arabic letters).
var francoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b7[ao]g[ao]\b`),
	regexp.MustCompile(`\b[aeiou]?7[aeiou]\w*\b`),
	regexp.MustCompile(`\b[aeiou]?3[aeiou]\w*\b`),
	regexp.MustCompile(`\b[aeiou]?2[aeiou]\w*\b`),
	regexp.MustCompile(`\b[aeiou]?5[aeiou]\w*\b`),
	regexp.MustCompile(`\b[aeiou]?8[aeiou]\w*\b`),
	regexp.MustCompile(`\b[aeiou]?9[aeiou]\w*\b`),
	regexp.MustCompile(`\b(?:el|al)-?\w+\b`),
	regexp.MustCompile(`\b(?:ana|enta|enti|ehna)\b`),
	regexp.MustCompile(`\bm(?:sh|esh|4)\b`),
	regexp.MustCompile(`\bf[iy]\b`),
	regexp.MustCompile(`\bw[ae]l?l?[ae]h[iy]?\b`),
	regexp.MustCompile(`\bb[ae]2[ae]\b`),
	regexp.MustCompile(`\bkid[ae]\b`),
	regexp.MustCompile(`\b3[ae]yz[ae]?\b`),
}

var arabicContextWords = []string{"ya", "el", "al", "fi", "we", "ana", "enta", "da", "di", "fe"}

var digitRe = regexp.MustCompile(`\d`)
var letterRe = regexp.MustCompile(`[a-zA-Z]`)

// Detect classifies a message text. It never fails: anything the
// heuristics and the generic detector cannot place lands in Unknown.
func Detect(text string) Language {
	// URLs and emoji confuse the detector; classify on what remains.
	cleaned := urlRe.ReplaceAllString(text, "")
	cleaned = gomoji.RemoveEmojis(cleaned)
	cleaned = strings.TrimSpace(cleaned)

	if len([]rune(cleaned)) < 3 {
		return Unknown
	}

	if hasArabicScript(cleaned) {
		return Arabic
	}
	if isFrancoArabic(cleaned) {
		return Franco
	}

	info := whatlanggo.Detect(cleaned)
	switch info.Lang {
	case whatlanggo.Arb:
		return Arabic
	case whatlanggo.Eng:
		return English
	case whatlanggo.Deu, whatlanggo.Nld, whatlanggo.Swe, whatlanggo.Dan, whatlanggo.Afr:
		// Franco-Arabic is routinely misread as a Germanic language;
		// short texts especially.
		if isFrancoArabic(cleaned) || len(strings.Fields(cleaned)) <= 3 {
			return Franco
		}
		return English
	case -1:
		return Unknown
	}

	return English
}

// hasArabicScript reports whether any rune falls in the Arabic block.
func hasArabicScript(s string) bool {
	for _, r := range s {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}

// isFrancoArabic detects Franco-Arabic via common spelling patterns, or a
// digit/letter mix alongside Arabic context words.
func isFrancoArabic(s string) bool {
	lower := strings.ToLower(s)
	for _, re := range francoPatterns {
		if re.MatchString(lower) {
			return true
		}
	}

	if !digitRe.MatchString(s) || !letterRe.MatchString(s) {
		return false
	}
	for _, word := range arabicContextWords {
		for _, field := range strings.Fields(lower) {
			if field == word {
				return true
			}
		}
	}
	return false
}
