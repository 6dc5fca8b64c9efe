/*
format.go - Plain-text contract record for print/export collaborators
*/
package engine

import (
	"fmt"
	"strings"
)

// FormatContractRecord renders the full contract record: charges breakdown,
// lien timeline, payments table, notes. The export and print collaborators
// consume this verbatim.
func FormatContractRecord(c Contract, asOf Date, cfg Config) string {
	ev := Evaluate(c, asOf, cfg)

	var rateLine string
	switch c.RateMode {
	case RateWeekly:
		rateLine = fmt.Sprintf("Weekly Rate: %s", c.WeeklyRate)
	case RateMonthly:
		rateLine = fmt.Sprintf("Monthly Rate: %s", c.MonthlyRate)
	default:
		rateLine = fmt.Sprintf("Daily Rate: %s", c.DailyRate)
	}

	lines := []string{
		"Storage & Recovery Contract Record",
		"==================================",
		fmt.Sprintf("Contract #: %d", c.ID),
		fmt.Sprintf("Contract Type: %s (effective: %s)", c.Type, ev.EffectiveType),
		fmt.Sprintf("Customer: %s | %s", c.Customer.Name, c.Customer.Phone),
		fmt.Sprintf("Address: %s", c.Customer.Address),
		fmt.Sprintf("Vehicle: %s %s %s (%s)", c.Vehicle.Type, c.Vehicle.Make, c.Vehicle.Model, c.Vehicle.Plate),
		fmt.Sprintf("VIN: %s | Color: %s", c.Vehicle.VIN, c.Vehicle.Color),
		fmt.Sprintf("Start Date: %s", c.StartDate),
		rateLine,
		fmt.Sprintf("Admin Fee: %s", c.AdminFee),
		"",
		"CHARGES BREAKDOWN:",
		fmt.Sprintf("  Storage: %s (%d days)", ev.Charges.Storage, ev.Charges.StorageDays),
		fmt.Sprintf("  Tow Fees: %s", ev.Charges.Tow),
		fmt.Sprintf("  Recovery Fees: %s", ev.Charges.Recovery),
		fmt.Sprintf("  Admin: %s", ev.Charges.Admin),
		fmt.Sprintf("  Total Charges: %s", ev.Charges.Total),
		fmt.Sprintf("  Total Payments: %s", ev.TotalPaid),
		fmt.Sprintf("  BALANCE as of %s: %s", asOf, ev.Balance),
		"",
		"Lien Timeline:",
		fmt.Sprintf("  Notice deadline: %s", dateOrNA(ev.Timeline.NoticeDeadline)),
		fmt.Sprintf("  Notice sent: %s", dateOr(c.NoticeSentDate, "Not sent")),
		fmt.Sprintf("  Lien eligible: %s (%s)", dateOrNA(ev.Timeline.LienEligibleDate), eligibleLabel(ev.Timeline.LienEligible)),
		fmt.Sprintf("  Earliest sale date: %s (%s)", dateOrNA(ev.Timeline.SaleEligibleDate), eligibleLabel(ev.Timeline.SaleEligible)),
	}

	for _, w := range ev.Timeline.Warnings {
		lines = append(lines, "  "+w)
	}

	lines = append(lines, "", "Payments Recorded:")
	if len(c.Payments) == 0 {
		lines = append(lines, "- None recorded")
	} else {
		lines = append(lines, fmt.Sprintf("%-12s %-10s %-15s %-30s", "Date", "Amount", "Method", "Note"))
		lines = append(lines, strings.Repeat("-", 67))
		for _, p := range c.Payments {
			lines = append(lines, fmt.Sprintf("%-12s %-10s %-15s %-30s", p.Date, p.Amount, p.Method, p.Note))
		}
	}

	if len(ev.Warnings) > 0 {
		lines = append(lines, "", "Warnings:")
		for _, w := range ev.Warnings {
			lines = append(lines, "- "+w)
		}
	}

	if len(c.Notes) > 0 {
		lines = append(lines, "", "Notes:")
		for _, n := range c.Notes {
			lines = append(lines, "- "+n)
		}
	}

	return strings.Join(lines, "\n")
}

func dateOrNA(d Date) string { return dateOr(d, "N/A") }

func dateOr(d Date, fallback string) string {
	if d.IsZero() {
		return fallback
	}
	return d.String()
}

func eligibleLabel(eligible bool) string {
	if eligible {
		return "Eligible"
	}
	return "Not yet"
}
