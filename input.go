package stepper

import (
	"errors"
	"strconv"
	"strings"
)

// suppressedKeys are keys the text field swallows. Stepping is done with
// the buttons only, and Enter never submits a surrounding form.
var suppressedKeys = map[string]bool{
	"ArrowUp":   true,
	"ArrowDown": true,
	"PageUp":    true,
	"PageDown":  true,
	"Home":      true,
	"End":       true,
	"+":         true,
	"-":         true,
	"=":         true,
	"<":         true,
	">":         true,
	"Enter":     true,
}

// KeySuppressed reports whether a key press in the text field must be
// swallowed. key is the produced character or key name; code is the
// physical key, which matters for the numpad plus and minus.
func KeySuppressed(key, code string) bool {
	if suppressedKeys[key] {
		return true
	}
	numpadPlus := key == "+" && code == "NumpadAdd"
	numpadMinus := key == "-" && code == "NumpadSubtract"
	return numpadPlus || numpadMinus
}

// ValidInput reports whether s is acceptable draft text: empty, or ASCII
// digits only.
func ValidInput(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// ParseAndClamp converts draft text into a value within [lo, hi].
// Blank or unparsable text yields current.
func ParseAndClamp(s string, current, lo, hi int) int {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return current
	}
	n, err := strconv.Atoi(leadingInt(trimmed))
	if err != nil {
		// Out of int range still has a side to clamp to.
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(trimmed, "-") {
				return lo
			}
			return hi
		}
		return current
	}
	return Clamp(n, lo, hi)
}

// leadingInt returns the optionally signed run of digits at the start of s,
// so "12px" parses as 12.
func leadingInt(s string) string {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return ""
	}
	return s[:end]
}
