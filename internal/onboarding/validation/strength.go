package validation

import (
	"unicode"
	"unicode/utf8"
)

// MinSubmitStrength is the lowest score ("Fair") that permits submission.
const MinSubmitStrength = 3

const strongLength = 8

// Score rates a password 0..5 by adding one point for each of: at least 8
// characters, a lowercase letter, an uppercase letter, a digit, and a
// non-alphanumeric character. It is a UX heuristic with no dictionary or
// entropy check and is not a security guarantee.
func Score(password string) int {
	if password == "" {
		return 0
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		// Uncased letters (e.g. CJK) count as lowercase.
		case unicode.IsLower(r), unicode.IsLetter(r) && !unicode.IsUpper(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case isSymbol(r):
			symbol = true
		}
	}
	score := 0
	for _, ok := range []bool{utf8.RuneCountInString(password) >= strongLength, lower, upper, digit, symbol} {
		if ok {
			score++
		}
	}
	return score
}

// StrengthLabel names a score for display.
func StrengthLabel(score int) string {
	switch score {
	case 1:
		return "Very Weak"
	case 2:
		return "Weak"
	case 3:
		return "Fair"
	case 4:
		return "Good"
	case 5:
		return "Strong"
	}
	return ""
}
