package util

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatINR renders an amount in paise as rupees with Indian digit grouping,
// e.g. 16000000 -> "₹1,60,000". Paise are shown only when non-zero.
func FormatINR(paise int64) string {
	neg := paise < 0
	if neg {
		paise = -paise
	}
	rupees := paise / 100
	frac := paise % 100

	s := "₹" + groupIndian(strconv.FormatInt(rupees, 10))
	if frac != 0 {
		s += fmt.Sprintf(".%02d", frac)
	}
	if neg {
		s = "-" + s
	}
	return s
}

// FormatPct renders a fractional rate as a percentage, e.g. 0.07 -> "7.0%".
func FormatPct(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// groupIndian inserts commas in the Indian system: last three digits, then
// groups of two.
func groupIndian(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	head, tail := digits[:n-3], digits[n-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	parts = append([]string{head}, parts...)
	return strings.Join(parts, ",") + "," + tail
}
