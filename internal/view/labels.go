package view

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Label turns a backend enum such as IN_PROGRESS into display text.
func Label[T ~string](v T) string {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(strings.ToLower(s), "_", " ")
	// Casers keep state, so one is created per call.
	return cases.Title(language.English).String(s)
}

// Amount formats a payment amount with thousands separators.
func Amount(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.2f", v)
}
