/*
balance.go - Balance, past-due status, and collectibility

PURPOSE:
  Nets charges against recorded payments and answers the two questions the
  front office asks about every contract: "what is owed?" and "are they
  late?". For towed-in contracts it also partitions accrued storage days
  into legally billable and legally questionable, because storage fees
  accrued after a missed lien-notice deadline may not be enforceable under
  FL 713.78.

BALANCE:
  balance = total charges - sum(payments dated on or before asOf)
  Overpayment legitimately yields a negative balance (a credit); the
  engine never clamps it.

PAST DUE (type-specific):
  Storage:  balance outstanding and 30+ days elapsed.
  Tow:      fixed 7-day payment expectation from the later of the start
            date and the last payment; no lien timeline involved. A
            paid-off tow is never past due.
  Recovery: balance outstanding once the 7-day notice deadline has passed.
*/
package engine

import "fmt"

// TotalPayments sums payments dated on or before asOf. Payments with no
// recorded date count unconditionally (legacy records).
func TotalPayments(c Contract, asOf Date) Money {
	total := MoneyZero()
	for _, p := range c.Payments {
		if p.Date.IsZero() || p.Date.BeforeOrEqual(asOf) {
			total = total.Add(p.Amount)
		}
	}
	return total.Round2()
}

// Balance returns the outstanding amount as of a date. Negative means the
// customer holds a credit.
func Balance(c Contract, asOf Date, eff ContractType, cfg Config) Money {
	charges := CalculateCharges(c, asOf, eff, cfg)
	return charges.Total.Sub(TotalPayments(c, asOf)).Round2()
}

// PastDue reports whether the contract is past due and by how many days.
func PastDue(c Contract, asOf Date, eff ContractType, cfg Config) (bool, int) {
	bal := Balance(c, asOf, eff, cfg)
	if !bal.IsPositive() {
		return false, 0
	}

	days := DaysBetween(c.StartDate, asOf)

	switch eff {
	case TypeTow:
		// Grace runs from the most recent payment when one exists.
		anchor := c.StartDate
		for _, p := range c.Payments {
			if !p.Date.IsZero() && p.Date.BeforeOrEqual(asOf) && p.Date.After(anchor) {
				anchor = p.Date
			}
		}
		due := anchor.AddDays(cfg.TowGraceDays)
		if asOf.After(due) {
			return true, DaysBetween(due, asOf)
		}
		return false, 0

	case TypeRecovery:
		if days >= cfg.Recovery.NoticeDeadlineDays {
			return true, days
		}
		return false, 0

	default: // Storage
		if days >= cfg.StorageGraceDays {
			return true, days - cfg.StorageGraceDays
		}
		return false, 0
	}
}

// =============================================================================
// COLLECTIBILITY BREAKDOWN
// =============================================================================

// CollectibilityBreakdown partitions storage days by legal collectibility.
type CollectibilityBreakdown struct {
	TotalDays        int    `json:"total_days"`
	BillableDays     int    `json:"billable_days"`
	QuestionableDays int    `json:"questionable_days"`
	Warning          string `json:"warning,omitempty"`
	Details          string `json:"details"`
}

// StorageDaysBreakdown analyzes which storage days are clearly billable
// given lien-notice timing. Only meaningful for effective Tow/Recovery
// contracts; pure Storage days are always billable.
func StorageDaysBreakdown(c Contract, asOf Date, eff ContractType, cfg Config) CollectibilityBreakdown {
	totalDays := DaysBetween(c.StartDate, asOf)
	if totalDays < 0 {
		totalDays = 0
	}

	bd := CollectibilityBreakdown{
		TotalDays:    totalDays,
		BillableDays: totalDays,
	}

	if eff == TypeStorage {
		bd.Details = fmt.Sprintf(
			"Storage contract: all %d storage days are billable. Notice timing does not affect collectibility for this contract type.",
			totalDays)
		return bd
	}

	deadlineDays := cfg.Recovery.NoticeDeadlineDays

	if !c.NoticeSentDate.IsZero() {
		daysToNotice := DaysBetween(c.StartDate, c.NoticeSentDate)
		if daysToNotice > deadlineDays {
			lateBy := daysToNotice - deadlineDays
			bd.QuestionableDays = lateBy
			if bd.QuestionableDays > totalDays {
				bd.QuestionableDays = totalDays
			}
			bd.BillableDays = totalDays - bd.QuestionableDays
			bd.Warning = fmt.Sprintf(
				"COLLECTIBILITY RISK: lien notice sent %d days late. Storage charges for %d days (after the %d-day deadline) may not be collectible under FL 713.78.",
				lateBy, bd.QuestionableDays, deadlineDays)
			bd.Details = fmt.Sprintf(
				"Notice sent on day %d (due by day %d). Of %d total storage days: %d clearly billable, %d may be disputed.",
				daysToNotice, deadlineDays, totalDays, bd.BillableDays, bd.QuestionableDays)
		} else {
			bd.Details = fmt.Sprintf(
				"Lien notice sent within the %d-day deadline (sent on day %d). All %d storage days are billable.",
				deadlineDays, daysToNotice, totalDays)
		}
		return bd
	}

	// Notice never sent.
	if totalDays > deadlineDays {
		bd.QuestionableDays = totalDays - deadlineDays
		bd.BillableDays = totalDays - bd.QuestionableDays
		bd.Warning = fmt.Sprintf(
			"COLLECTIBILITY RISK: lien notice not sent (overdue by %d days). Storage charges for %d days (after the %d-day deadline) may not be collectible under FL 713.78.",
			bd.QuestionableDays, bd.QuestionableDays, deadlineDays)
		bd.Details = fmt.Sprintf(
			"Notice deadline was day %d, now on day %d. Of %d total storage days: %d may be billable, %d are at risk.",
			deadlineDays, totalDays, totalDays, bd.BillableDays, bd.QuestionableDays)
	} else {
		bd.Details = fmt.Sprintf(
			"Notice deadline is day %d (currently day %d). All %d storage days remain billable if the notice goes out on time.",
			deadlineDays, totalDays, totalDays)
	}
	return bd
}

// =============================================================================
// EVALUATION - single entry point for external collaborators
// =============================================================================

// Evaluation bundles everything the presentation layer renders for one
// contract: charges, timeline, balance, past-due status, the collectibility
// breakdown for towed-in contracts, and advisory validation warnings.
type Evaluation struct {
	ContractID    int                      `json:"contract_id"`
	AsOf          Date                     `json:"as_of"`
	EffectiveType ContractType             `json:"effective_type"`
	Charges       ChargeBreakdown          `json:"charges"`
	Timeline      Timeline                 `json:"timeline"`
	TotalPaid     Money                    `json:"total_paid"`
	Balance       Money                    `json:"balance"`
	PastDue       bool                     `json:"past_due"`
	DaysPastDue   int                      `json:"days_past_due"`
	Breakdown     *CollectibilityBreakdown `json:"collectibility,omitempty"`
	Warnings      []string                 `json:"warnings"`
}

// Evaluate runs the full pipeline: classify, charge, schedule, net, validate.
// Pure function over (contract, asOf, config); the contract is treated as a
// read-only snapshot for the duration of the call.
func Evaluate(c Contract, asOf Date, cfg Config) Evaluation {
	eff := EffectiveType(c.Type, cfg.InvoluntaryEnabled)
	charges := CalculateCharges(c, asOf, eff, cfg)
	paid := TotalPayments(c, asOf)

	ev := Evaluation{
		ContractID:    c.ID,
		AsOf:          asOf,
		EffectiveType: eff,
		Charges:       charges,
		Timeline:      LienTimeline(c, eff, asOf, cfg),
		TotalPaid:     paid,
		Balance:       charges.Total.Sub(paid).Round2(),
		Warnings:      Validate(c, eff, asOf, cfg),
	}
	ev.PastDue, ev.DaysPastDue = PastDue(c, asOf, eff, cfg)

	if eff == TypeTow || eff == TypeRecovery {
		bd := StorageDaysBreakdown(c, asOf, eff, cfg)
		ev.Breakdown = &bd
	}
	return ev
}
