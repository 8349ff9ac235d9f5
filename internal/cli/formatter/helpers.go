package formatter

import "fmt"

// FormatMinutes renders a minute count as a compact duration: "45m",
// "2h", "2h30m".
func FormatMinutes(min int) string {
	if min < 60 {
		return fmt.Sprintf("%dm", min)
	}
	h, m := min/60, min%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

// FormatProgress renders completed/total minutes with a percentage.
func FormatProgress(completedMin, totalMin int) string {
	if totalMin <= 0 {
		return Dim("—")
	}
	pct := completedMin * 100 / totalMin
	return fmt.Sprintf("%s / %s (%d%%)", FormatMinutes(completedMin), FormatMinutes(totalMin), pct)
}

// Truncate shortens s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
