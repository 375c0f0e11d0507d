// Package format renders amounts and dates the way the application displays
// them to users.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-payoff/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency returns a whole-dollar string with thousands separators (e.g.,
// "-$1,235"). Amounts round half away from zero; an amount that rounds to
// zero is rendered without a sign.
func Currency(amount float64) string {
	rounded := math.Round(amount)
	if rounded == 0 {
		return "$0"
	}
	formatted := printer.Sprintf("%.0f", math.Abs(rounded))
	if rounded < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// CurrencyCents returns a currency string with cents (e.g., "$1,093.75").
func CurrencyCents(amount float64) string {
	rounded := math.Round(amount*constants.DecimalPrecision) / constants.DecimalPrecision
	if rounded == 0 {
		return "$0.00"
	}
	formatted := printer.Sprintf("%.2f", math.Abs(rounded))
	if rounded < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Date returns a long-form calendar date such as "March 15, 2024".
func Date(t time.Time) string {
	return t.Format(constants.DisplayDateLayout)
}

// Months renders a month count as years and months (e.g., "2 years, 6 months").
func Months(months int) string {
	sign := ""
	if months < 0 {
		sign = "-"
		months = -months
	}
	years, rest := months/constants.MonthsPerYear, months%constants.MonthsPerYear

	var parts []string
	if years > 0 {
		parts = append(parts, plural(years, "year"))
	}
	if rest > 0 || years == 0 {
		parts = append(parts, plural(rest, "month"))
	}
	return sign + strings.Join(parts, ", ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
