/*
timeline.go - Lien notice deadlines and sale eligibility

Two schedules, selected by effective contract type:

  Storage/Tow (lenient): milestones are pure date offsets from the start
  date - first notice +30d, second notice +60d, lien +90d, sale +120d.
  Eligibility is simply asOf >= milestone. Warnings are recommendations
  only; nothing ever invalidates. Tow contracts get the same dates but no
  lien is ever pursued for a voluntary service - the engine still reports
  the schedule and the caller decides whether to show it.

  Recovery (strict, FL 713.78): the lien notice must go out within 7
  calendar days of the start date. A timely notice makes the lien eligible
  immediately; the earliest sale is 35 days after notice for vehicles 3+
  years old, 50 days for newer ones, and never under 30 days after notice.
  A missing or late notice is a HARD invalidation: no lien, no sale, and a
  warning describing the overdue/late state.
*/
package engine

import "fmt"

// Timeline is the computed lien/sale schedule for one contract.
type Timeline struct {
	// NoticeDeadline is the first-notice milestone: a recommendation date
	// for Storage/Tow, a statutory deadline for Recovery.
	NoticeDeadline Date `json:"notice_deadline"`

	// SecondNoticeDate is set only on the lenient schedule.
	SecondNoticeDate Date `json:"second_notice_date"`

	LienEligibleDate Date `json:"lien_eligible_date"` // zero when invalidated/pending
	LienEligible     bool `json:"lien_eligible"`
	SaleEligibleDate Date `json:"sale_eligible_date"` // zero when invalidated/pending
	SaleEligible     bool `json:"sale_eligible"`

	// Recovery-only context for display.
	VehicleAge   int `json:"vehicle_age,omitempty"`
	SaleWaitDays int `json:"sale_wait_days,omitempty"`

	Warnings []string `json:"warnings"`
}

// LienTimeline computes the schedule for a contract as of a date.
// eff must be the classifier's output.
func LienTimeline(c Contract, eff ContractType, asOf Date, cfg Config) Timeline {
	if eff == TypeRecovery {
		return recoveryTimeline(c, asOf, cfg)
	}
	return storageTimeline(c, eff, asOf, cfg)
}

// storageTimeline is the lenient day-count schedule shared by Storage and Tow.
func storageTimeline(c Contract, eff ContractType, asOf Date, cfg Config) Timeline {
	s := cfg.Storage
	tl := Timeline{
		NoticeDeadline:   c.StartDate.AddDays(s.FirstNoticeDays),
		SecondNoticeDate: c.StartDate.AddDays(s.SecondNoticeDays),
		LienEligibleDate: c.StartDate.AddDays(s.LienEligibleDays),
		SaleEligibleDate: c.StartDate.AddDays(s.SaleEligibleDays),
	}
	tl.LienEligible = asOf.AfterOrEqual(tl.LienEligibleDate)
	tl.SaleEligible = asOf.AfterOrEqual(tl.SaleEligibleDate)

	if eff == TypeTow {
		tl.Warnings = append(tl.Warnings,
			fmt.Sprintf("Voluntary tow: no lien process applies. Payment expected within %d days.", cfg.TowGraceDays))
	}

	switch {
	case tl.SaleEligible:
		tl.Warnings = append(tl.Warnings, "SALE ELIGIBLE - contract has reached its sale eligibility date")
	case tl.LienEligible:
		tl.Warnings = append(tl.Warnings,
			fmt.Sprintf("Lien eligible - sale eligible in %d days", DaysBetween(asOf, tl.SaleEligibleDate)))
	default:
		tl.Warnings = append(tl.Warnings,
			fmt.Sprintf("Storage period in progress - lien eligible in %d days", DaysBetween(asOf, tl.LienEligibleDate)))
	}

	// Notice reminders. Recommendations only: a skipped notice never
	// invalidates storage charges on this schedule.
	if c.NoticeSentDate.IsZero() && asOf.AfterOrEqual(tl.NoticeDeadline) {
		tl.Warnings = append(tl.Warnings,
			fmt.Sprintf("First notice recommended (eligible since %s)", tl.NoticeDeadline))
	}
	if asOf.AfterOrEqual(tl.SecondNoticeDate) {
		tl.Warnings = append(tl.Warnings,
			fmt.Sprintf("Second notice recommended (eligible since %s)", tl.SecondNoticeDate))
	}

	return tl
}

// recoveryTimeline is the strict FL 713.78 schedule.
func recoveryTimeline(c Contract, asOf Date, cfg Config) Timeline {
	r := cfg.Recovery
	tl := Timeline{
		NoticeDeadline: c.StartDate.AddDays(r.NoticeDeadlineDays),
	}

	if c.NoticeSentDate.IsZero() {
		daysSince := DaysBetween(c.StartDate, asOf)
		if daysSince > r.NoticeDeadlineDays {
			tl.Warnings = append(tl.Warnings, fmt.Sprintf(
				"Lien notice overdue by %d days (must be sent within %d days of the storage date per FL 713.78)",
				daysSince-r.NoticeDeadlineDays, r.NoticeDeadlineDays))
		} else {
			tl.Warnings = append(tl.Warnings, fmt.Sprintf(
				"Lien notice due by %s (%d days remaining)",
				tl.NoticeDeadline, r.NoticeDeadlineDays-daysSince))
		}
		return tl
	}

	daysToNotice := DaysBetween(c.StartDate, c.NoticeSentDate)
	if daysToNotice > r.NoticeDeadlineDays {
		// Late notice invalidates the lien outright.
		tl.Warnings = append(tl.Warnings, fmt.Sprintf(
			"Lien notice sent %d days after the storage date (must be within %d days per FL 713.78) - lien invalid",
			daysToNotice, r.NoticeDeadlineDays))
		return tl
	}

	// Timely notice: lien eligible immediately.
	tl.LienEligible = true
	tl.LienEligibleDate = c.NoticeSentDate

	// Sale wait depends on vehicle age as of the evaluation year. An
	// unknown model year is treated as current-year (the longer wait).
	vehicleYear := c.Vehicle.Year
	if vehicleYear == 0 {
		vehicleYear = asOf.Year()
	}
	tl.VehicleAge = asOf.Year() - vehicleYear
	if tl.VehicleAge >= r.VehicleAgeThresholdYears {
		tl.SaleWaitDays = r.SaleWaitOldVehicleDays
	} else {
		tl.SaleWaitDays = r.SaleWaitNewVehicleDays
	}

	saleDate := c.NoticeSentDate.AddDays(tl.SaleWaitDays)
	minSaleDate := c.NoticeSentDate.AddDays(r.MinNoticeToSaleDays)
	if saleDate.Before(minSaleDate) {
		saleDate = minSaleDate
		tl.Warnings = append(tl.Warnings, fmt.Sprintf(
			"Sale date adjusted to meet the %d-day minimum after notice", r.MinNoticeToSaleDays))
	}
	tl.SaleEligibleDate = saleDate
	tl.SaleEligible = asOf.AfterOrEqual(saleDate)

	if tl.SaleEligible {
		tl.Warnings = append(tl.Warnings, "SALE ELIGIBLE - contact legal for the sale process")
	} else {
		tl.Warnings = append(tl.Warnings, fmt.Sprintf(
			"Lien notice sent on time - sale eligible in %d days (vehicle is %d years old, requires a %d day wait)",
			DaysBetween(asOf, saleDate), tl.VehicleAge, tl.SaleWaitDays))
	}

	return tl
}
