package tajreba

import (
	"strings"
	"unicode"
)

// Direction represents the writing direction of text.
type Direction string

// Writing directions.
const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

// rtlScripts are the scripts with right-to-left writing direction that the
// detector recognizes.
var rtlScripts = []*unicode.RangeTable{
	unicode.Arabic,
	unicode.Hebrew,
	unicode.Syriac,
	unicode.Thaana,
	unicode.Nko,
}

// DetectDirection returns the dominant writing direction of text by counting
// strong directional runes. Digits, punctuation, whitespace, and symbols are
// neutral. Text with no strong directional runes is reported as LTR.
func DetectDirection(text string) Direction {
	ltr, rtl := 0, 0
	for _, r := range text {
		if unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		if isRTLRune(r) {
			rtl++
		} else if unicode.IsLetter(r) {
			ltr++
		}
	}
	if rtl > ltr {
		return DirectionRTL
	}
	return DirectionLTR
}

func isRTLRune(r rune) bool {
	for _, script := range rtlScripts {
		if unicode.Is(script, r) {
			return true
		}
	}
	return false
}

// DirectionForLang returns the writing direction for a language tag.
func DirectionForLang(tag string) Direction {
	base := strings.ToLower(tag)
	if i := strings.IndexByte(base, '-'); i > 0 {
		base = base[:i]
	}
	switch base {
	case "ar", "fa", "ur", "ps", "he", "yi", "dv", "sd", "ckb":
		return DirectionRTL
	}
	return DirectionLTR
}
