/*
charges.go - Itemized charge calculation

PURPOSE:
  Computes the charge breakdown for a contract as of a date, per effective
  contract type. This answers "how much is owed before payments?".

COMPONENT RULES:
  Storage:  whole days x the rate selected by rate mode. Weekly/monthly
            rates are independent values applied per period count under the
            configured rounding policy. Effective Tow/Recovery contracts
            accrue nothing while on the lot for under 6 hours.
  Tow:      base + mileage rate x miles + labor rate x hours + after-hours.
  Recovery: handling + capped lien processing + cert mail x notices sent
            + title search + DMV + sale.
  Admin:    capped at the statutory maximum.

  Totals include only the components applicable to the effective type.

CLAMPING:
  Every component is floored at zero and caps are applied silently. A
  data-entry mistake must never block collecting money; the validator
  reports the discrepancy separately.
*/
package engine

import "github.com/shopspring/decimal"

// ChargeBreakdown is the itemized result of CalculateCharges.
type ChargeBreakdown struct {
	Storage     Money `json:"storage"`
	Tow         Money `json:"tow"`
	Recovery    Money `json:"recovery"`
	Admin       Money `json:"admin"`
	Total       Money `json:"total"`
	StorageDays int   `json:"storage_days"`
}

// CalculateCharges computes the itemized charges for a contract as of a date.
// eff must be the classifier's output, not the stored type.
// Pure function: identical inputs always produce identical output.
func CalculateCharges(c Contract, asOf Date, eff ContractType, cfg Config) ChargeBreakdown {
	days := DaysBetween(c.StartDate, asOf)
	if days < 0 {
		days = 0
	}

	bd := ChargeBreakdown{StorageDays: days}
	bd.Storage = storageCharge(c, asOf, days, eff, cfg)
	bd.Admin = c.AdminFee.Cap(cfg.MaxAdminFee).ClampZero().Round2()

	switch eff {
	case TypeTow:
		bd.Tow = towCharge(c)
	case TypeRecovery:
		bd.Recovery = recoveryCharge(c, cfg)
	}

	bd.Total = bd.Storage.Add(bd.Tow).Add(bd.Recovery).Add(bd.Admin).Round2()
	return bd
}

// storageCharge applies the rate mode and the Florida 6-hour exemption.
func storageCharge(c Contract, asOf Date, days int, eff ContractType, cfg Config) Money {
	// Exemption applies to towed-in vehicles only, not voluntary storage.
	// "On lot < 6 hours" is strictly less-than: at exactly 6 hours the
	// charge applies.
	if eff == TypeTow || eff == TypeRecovery {
		if HoursBetween(c.StartDate, asOf) < float64(cfg.TowStorageExemptionHours) {
			return MoneyZero()
		}
	}

	if days == 0 {
		return MoneyZero()
	}

	var charge Money
	switch c.RateMode {
	case RateWeekly:
		charge = periodCharge(days, 7, c.WeeklyRate, cfg.StorageRounding)
	case RateMonthly:
		charge = periodCharge(days, 30, c.MonthlyRate, cfg.StorageRounding)
	default:
		// Daily, and the fallback for an unset or unknown mode.
		charge = c.DailyRate.MulInt(days)
	}
	return charge.ClampZero().Round2()
}

// periodCharge bills days at a per-period rate under the rounding policy.
func periodCharge(days, periodLen int, rate Money, policy RoundingPolicy) Money {
	switch policy {
	case RoundFloor:
		return rate.MulInt(days / periodLen)
	case RoundProrate:
		frac := decimal.NewFromInt(int64(days)).Div(decimal.NewFromInt(int64(periodLen)))
		return Money{Value: rate.Value.Mul(frac)}
	default: // RoundCeil
		periods := (days + periodLen - 1) / periodLen
		return rate.MulInt(periods)
	}
}

func towCharge(c Contract) Money {
	t := c.Tow
	total := t.BaseFee.ClampZero()
	total = total.Add(t.MileageRate.MulFloat(t.MilesUsed).ClampZero())
	total = total.Add(t.HourlyLaborRate.MulFloat(t.LaborHours).ClampZero())
	total = total.Add(t.AfterHoursFee.ClampZero())
	return total.ClampZero().Round2()
}

func recoveryCharge(c Contract, cfg Config) Money {
	r := c.Recovery
	notices := r.NoticesSent
	if notices < 0 {
		notices = 0
	}
	total := r.HandlingFee.ClampZero()
	total = total.Add(r.LienProcessingFee.ClampZero().Cap(cfg.MaxLienFee))
	total = total.Add(r.CertMailFee.ClampZero().MulInt(notices))
	total = total.Add(r.TitleSearchFee.ClampZero())
	total = total.Add(r.DMVFee.ClampZero())
	total = total.Add(r.SaleFee.ClampZero())
	return total.Round2()
}
