/*
validate.go - Advisory validation warnings

Warnings never block anything. Contract creation, payment recording, and
charge calculation always succeed; every clamp that changes a user-visible
number shows up here instead, for the presentation layer to render.
*/
package engine

import "fmt"

// Validate returns the advisory warnings for a contract as of a date.
// eff must be the classifier's output.
func Validate(c Contract, eff ContractType, asOf Date, cfg Config) []string {
	var warnings []string

	switch c.RateMode {
	case RateDaily, RateWeekly, RateMonthly:
	default:
		warnings = append(warnings, "Rate mode must be daily, weekly, or monthly; daily rate assumed")
	}

	if c.AdminFee.GreaterThan(cfg.MaxAdminFee) {
		warnings = append(warnings, fmt.Sprintf(
			"Admin fee %s exceeds the FL cap of %s; the cap is applied at calculation time",
			c.AdminFee, cfg.MaxAdminFee))
	}

	switch eff {
	case TypeStorage:
		if c.Tow.BaseFee.IsPositive() || c.Recovery.HandlingFee.IsPositive() {
			warnings = append(warnings, "Storage contract should not carry tow or recovery fees")
		}

	case TypeTow:
		if c.Tow.BaseFee.IsNegative() {
			warnings = append(warnings, "Tow base fee is negative and charges as zero")
		}

	case TypeRecovery:
		warnings = append(warnings, recoveryWarnings(c, asOf, cfg)...)
	}

	return warnings
}

func recoveryWarnings(c Contract, asOf Date, cfg Config) []string {
	var warnings []string

	if c.Recovery.LienProcessingFee.GreaterThan(cfg.MaxLienFee) {
		warnings = append(warnings, fmt.Sprintf(
			"Lien processing fee %s exceeds the FL cap of %s; the cap is applied at calculation time",
			c.Recovery.LienProcessingFee, cfg.MaxLienFee))
	}

	// Combined cap check is a warning, not a hard block.
	combined := c.AdminFee.Add(c.Recovery.LienProcessingFee)
	if combined.GreaterThan(cfg.MaxAdminFee) {
		warnings = append(warnings, fmt.Sprintf(
			"COMPLIANCE: combined admin + lien fees (%s) exceed the FL cap of %s",
			combined, cfg.MaxAdminFee))
	}

	if !c.Recovery.CertMailFee.IsPositive() {
		warnings = append(warnings, "Certified mail fee must be set for lien notices")
	}
	if c.Tow.BaseFee.IsPositive() {
		warnings = append(warnings, "Recovery contract should use the recovery handling fee, not the tow base fee")
	}
	if c.Vehicle.Year == 0 || c.Vehicle.Year < 1900 {
		warnings = append(warnings, "Vehicle year required for the sale timeline calculation")
	}

	// Surface late/overdue notice state here too so a single validation
	// call covers everything the intake screen shows.
	deadlineDays := cfg.Recovery.NoticeDeadlineDays
	if c.NoticeSentDate.IsZero() {
		if days := DaysBetween(c.StartDate, asOf); days > deadlineDays {
			warnings = append(warnings, fmt.Sprintf(
				"Lien notice OVERDUE - must be sent within %d days per FL 713.78 (deadline: %s)",
				deadlineDays, c.StartDate.AddDays(deadlineDays)))
		}
	} else if days := DaysBetween(c.StartDate, c.NoticeSentDate); days > deadlineDays {
		warnings = append(warnings, fmt.Sprintf(
			"Lien notice sent late (day %d of a %d-day deadline) - lien is invalid per FL 713.78",
			days, deadlineDays))
	}

	return warnings
}
