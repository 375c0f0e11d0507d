// Package output provides utilities for formatting and displaying projection
// reports.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/mortgage-payoff/internal/projection"
	"github.com/iwvelando/mortgage-payoff/pkg/amortization"
	"github.com/iwvelando/mortgage-payoff/pkg/constants"
	"github.com/iwvelando/mortgage-payoff/pkg/datetime"
	"github.com/iwvelando/mortgage-payoff/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders report to w in the named format.
func Write(w io.Writer, outputFormat string, report projection.Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty, "":
		return PrettyFormat(w, report)
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	}
	return fmt.Errorf("unsupported output format %q", outputFormat)
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report projection.Report) error {
	p := message.NewPrinter(language.English)
	m := report.Mortgage

	var b strings.Builder
	b.WriteString("--- Mortgage payoff projection ---\n")
	_, _ = p.Fprintf(&b, "Balance %s at %.2f%% over %d years, paying %s per month from %s\n",
		format.Currency(m.Balance), m.InterestRate, m.OriginalTerm, format.CurrencyCents(m.MonthlyPayment),
		format.Date(datetime.ResolveStart(m.StartDate, report.GeneratedAt)))
	fmt.Fprintf(&b, "Original payoff: %s | total interest %s\n",
		format.Date(report.Baseline.OriginalPayoffDate), format.Currency(report.Baseline.OriginalTotalInterest.InexactFloat64()))
	fmt.Fprintf(&b, "With %s extra per month: payoff %s (%s sooner) | interest %s | saved %s\n",
		format.Currency(report.ExtraPayment), format.Date(report.Plan.NewPayoffDate), format.Months(report.Plan.TimeShaved),
		format.Currency(report.Plan.NewTotalInterest.InexactFloat64()), format.Currency(report.Plan.InterestSaved.InexactFloat64()))

	if len(report.Scenarios) > 0 {
		b.WriteString("\n--- Scenarios ---\n")
		b.WriteString("Scenario     | Extra  | Payoff date        | Time saved          | Interest saved\n")
		b.WriteString("________     | _____  | ___________        | __________          | ______________\n")
		for _, s := range report.Scenarios {
			fmt.Fprintf(&b, "%-12s | %-6s | %-18s | %-19s | %s\n",
				s.Label, format.Currency(s.ExtraPayment), format.Date(s.Stats.NewPayoffDate),
				format.Months(s.Stats.TimeShaved), format.Currency(s.Stats.InterestSaved.InexactFloat64()))
		}
	}

	if report.Surplus != nil {
		b.WriteString("\n--- Surplus pot ---\n")
		fmt.Fprintf(&b, "Round-ups: %s | Pot: %s of %s (%.0f%%)",
			format.CurrencyCents(report.RoundUps.InexactFloat64()),
			format.CurrencyCents(report.Surplus.Balance.InexactFloat64()),
			format.Currency(report.Surplus.Threshold.InexactFloat64()),
			report.Surplus.Percent)
		switch {
		case report.Surplus.AutoTransfer:
			b.WriteString(" | auto-transfer ready\n")
		case report.Surplus.ManualTransfer:
			fmt.Fprintf(&b, " | %s to auto-transfer, manual transfer available\n",
				format.CurrencyCents(report.Surplus.Remaining.InexactFloat64()))
		default:
			fmt.Fprintf(&b, " | %s to auto-transfer\n", format.CurrencyCents(report.Surplus.Remaining.InexactFloat64()))
		}
	}

	if report.Goal != nil {
		g := report.Goal
		b.WriteString("\n--- Goal ---\n")
		if g.Converged {
			fmt.Fprintf(&b, "Pay %s extra per month: payoff in %s, saving %s (%d iterations)\n",
				g.ValueDisplay, format.Months(g.TotalPayments), format.Currency(g.InterestSaved), g.Iterations)
		} else {
			fmt.Fprintf(&b, "Goal not reachable with up to %s extra per month\n", format.CurrencyCents(g.Max))
		}
		for _, note := range g.Notes {
			fmt.Fprintf(&b, "  note: %s\n", note)
		}
	}

	if len(report.Schedule) > 0 {
		b.WriteString("\n--- Schedule ---\n")
		b.WriteString("Month | Date               | Payment     | Principal   | Interest    | Balance\n")
		b.WriteString("_____ | ____               | _______     | _________   | ________    | _______\n")
		for _, e := range report.Schedule {
			fmt.Fprintf(&b, "%5d | %-18s | %-11s | %-11s | %-11s | %s\n",
				e.Month, format.Date(e.Date),
				format.CurrencyCents(e.Payment.InexactFloat64()),
				format.CurrencyCents(e.Principal.InexactFloat64()),
				format.CurrencyCents(e.Interest.InexactFloat64()),
				format.CurrencyCents(e.Balance.InexactFloat64()))
		}
	}

	if len(report.Warnings) > 0 {
		b.WriteString("\n--- Warnings ---\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// CsvFormat outputs in comma-separated value format. A report carrying a
// schedule is written month by month; otherwise the baseline, plan and
// scenarios are written one row each.
func CsvFormat(w io.Writer, report projection.Report) error {
	cw := csv.NewWriter(w)
	if len(report.Schedule) > 0 {
		if err := cw.Write([]string{"month", "date", "payment", "principal", "interest", "balance"}); err != nil {
			return err
		}
		for _, e := range report.Schedule {
			record := []string{
				strconv.Itoa(e.Month),
				e.Date.Format(constants.StartDateLayout),
				e.Payment.StringFixed(constants.CentPlaces),
				e.Principal.StringFixed(constants.CentPlaces),
				e.Interest.StringFixed(constants.CentPlaces),
				e.Balance.StringFixed(constants.CentPlaces),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	} else {
		if err := cw.Write([]string{"scenario", "extra payment", "payoff date", "payments", "months saved", "total interest", "interest saved"}); err != nil {
			return err
		}
		rows := []projection.Scenario{
			{Label: "Baseline", Stats: report.Baseline},
			{Label: "Plan", ExtraPayment: report.ExtraPayment, Stats: report.Plan},
		}
		for _, s := range append(rows, report.Scenarios...) {
			if err := cw.Write(statsRecord(s.Label, s.ExtraPayment, s.Stats)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs the report as indented JSON.
func JSONFormat(w io.Writer, report projection.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func statsRecord(label string, extra float64, stats amortization.Stats) []string {
	return []string{
		label,
		strconv.FormatFloat(extra, 'f', constants.CentPlaces, 64),
		stats.NewPayoffDate.Format(constants.StartDateLayout),
		strconv.Itoa(stats.TotalPayments),
		strconv.Itoa(stats.TimeShaved),
		stats.NewTotalInterest.StringFixed(constants.CentPlaces),
		stats.InterestSaved.StringFixed(constants.CentPlaces),
	}
}
