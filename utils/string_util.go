package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const ellipsis = "..."

// Abbreviate shortens s to at most limit characters without splitting a word,
// appending an ellipsis when anything was cut. A word is split mid-way only
// when the text has no earlier break point. Already-abbreviated strings pass
// through unchanged, so the operation is idempotent. A non-positive limit
// disables truncation.
func Abbreviate(s string, limit int) string {
	if limit <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	if limit <= len(ellipsis) {
		return string(runes[:limit])
	}

	cut := limit - len(ellipsis)
	head := runes[:cut]

	if idx := lastSpace(head); idx > 0 {
		head = head[:idx]
	}

	return strings.TrimRight(string(head), " ") + ellipsis
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}

	return -1
}

// StarList converts an upstream rating on the 0-10 scale into a five element
// star list. Each element is 2 for a filled star, 1 for a half star and 0 for
// an empty one. A blank or non-numeric rating yields nil.
func StarList(raw string) []int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}

	units := int(math.Round(val))
	if units < 0 {
		units = 0
	}

	if units > 10 {
		units = 10
	}

	stars := make([]int, 5)
	for i := 0; i < units/2; i++ {
		stars[i] = 2
	}

	if units%2 == 1 {
		stars[units/2] = 1
	}

	return stars
}

// FormatPhone renders a ten digit phone number as (AAA) EEE-NNNN for display.
// Anything that is not ten digits after stripping separators is returned
// trimmed but otherwise untouched.
func FormatPhone(raw string) string {
	trimmed := strings.TrimSpace(raw)

	var digits []rune

	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}

	if len(digits) != 10 {
		return trimmed
	}

	d := string(digits)

	return fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:])
}

// LocationString builds the "City, ST" display string, omitting whichever
// part is blank.
func LocationString(city, state string) string {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)

	switch {
	case city == "":
		return state
	case state == "":
		return city
	default:
		return city + ", " + state
	}
}

// ToInt parses s leniently, returning 0 for blank or non-numeric input.
func ToInt(s string) int {
	val, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}

	return val
}
