package web

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// formatIncome renders v with thousands grouping and a rupee prefix,
// e.g. 50000 -> "₹50,000", 1234.5 -> "₹1,234.5".
func formatIncome(v float64) string {
	return "₹" + printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}

func formatSubmitted(t time.Time) string {
	return t.UTC().Format("02 Jan 2006, 15:04 MST")
}
