package homework

import "unicode"

// DetectSubject guesses the subject of already-extracted text by script
// composition, with no engine call. Latin-letter dominance reads as
// English homework, digits with arithmetic symbols as math, kana/kanji
// as Japanese language work. Empty text is the only input that yields
// SubjectUnknown: an unknown subject collapses the whole downstream
// response, so any visible content must map to a real subject.
func DetectSubject(text string) Subject {
	var latin, digit, op, jp int

	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			latin++
		case r >= '0' && r <= '9' || r >= '０' && r <= '９':
			digit++
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '=' ||
			r == '×' || r == '÷' || r == '＋' || r == '－' || r == '＝':
			op++
		case unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han):
			jp++
		}
	}

	switch {
	case latin == 0 && digit == 0 && op == 0 && jp == 0:
		return SubjectUnknown
	case latin > digit && latin > jp:
		return SubjectEnglish
	case digit > 0 && (op > 0 || digit > jp):
		return SubjectMath
	default:
		// Kana/kanji dominance, and the fallback for anything else:
		// a Japanese elementary worksheet defaults to 国語.
		return SubjectLanguage
	}
}
