package validate

import (
	"strconv"
	"strings"
)

const MinPasswordLen = 6

// ID parses a positive integer resource id (product/order ids).
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Username trims and bounds-checks a username; format is otherwise free.
func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 50 {
		return "", false
	}
	return s, true
}

// Password enforces the registration minimum length.
func Password(s string) bool {
	return len(s) >= MinPasswordLen
}

// NotBlank reports whether s has any non-space content.
func NotBlank(s string) bool { return strings.TrimSpace(s) != "" }

// OptionPrice parses a non-negative option price.
func OptionPrice(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}
