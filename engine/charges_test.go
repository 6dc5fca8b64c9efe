package engine_test

import (
	"testing"
	"time"

	"github.com/suncoast/lot-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// Shared by the other engine test files in this package.

func d(year int, month time.Month, day int) engine.Date {
	return engine.NewDate(year, month, day)
}

func usd(v float64) engine.Money {
	return engine.NewMoney(v)
}

// recoveryConfig is the default config with the wrecker license active, so
// Recovery contracts keep their strict schedule.
func recoveryConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.InvoluntaryEnabled = true
	return cfg
}

func storageContract() engine.Contract {
	return engine.Contract{
		ID:        1,
		Type:      engine.TypeStorage,
		StartDate: d(2025, time.January, 1),
		RateMode:  engine.RateDaily,
		DailyRate: usd(30),
		AdminFee:  usd(50),
		Vehicle:   engine.Vehicle{Type: engine.VehicleCar, Plate: "ABC123", Year: 2018},
		Customer:  engine.Customer{Name: "Pat Delgado"},
	}
}

func recoveryContract() engine.Contract {
	c := storageContract()
	c.Type = engine.TypeRecovery
	c.Recovery = engine.RecoveryFees{
		HandlingFee:       usd(125),
		LienProcessingFee: usd(250),
		CertMailFee:       usd(10),
		NoticesSent:       2,
		TitleSearchFee:    usd(25),
		DMVFee:            usd(20),
		SaleFee:           usd(100),
	}
	return c
}

func moneyEqual(t *testing.T, label string, got, want engine.Money) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s: got %s, want %s", label, got, want)
	}
}

// =============================================================================
// STORAGE CHARGES
// =============================================================================

func TestCharges_DailyStorage(t *testing.T) {
	// GIVEN: A daily storage contract at $30/day with a $50 admin fee
	// WHEN: Evaluated 10 days after the start date
	// THEN: Storage is $300 and the total is $350

	c := storageContract()
	asOf := d(2025, time.January, 11)

	bd := engine.CalculateCharges(c, asOf, engine.TypeStorage, engine.DefaultConfig())

	if bd.StorageDays != 10 {
		t.Errorf("storage days: got %d, want 10", bd.StorageDays)
	}
	moneyEqual(t, "storage", bd.Storage, usd(300))
	moneyEqual(t, "admin", bd.Admin, usd(50))
	moneyEqual(t, "total", bd.Total, usd(350))
}

func TestCharges_BeforeStartDate(t *testing.T) {
	// GIVEN: A contract starting January 10
	// WHEN: Evaluated on January 5
	// THEN: Zero storage days, only the admin fee accrues

	c := storageContract()
	c.StartDate = d(2025, time.January, 10)

	bd := engine.CalculateCharges(c, d(2025, time.January, 5), engine.TypeStorage, engine.DefaultConfig())

	if bd.StorageDays != 0 {
		t.Errorf("storage days: got %d, want 0", bd.StorageDays)
	}
	moneyEqual(t, "storage", bd.Storage, engine.MoneyZero())
	moneyEqual(t, "total", bd.Total, usd(50))
}

func TestCharges_WeeklyRounding(t *testing.T) {
	// GIVEN: A weekly contract at $210/week, 8 days elapsed
	// WHEN: Evaluated under each rounding policy
	// THEN: ceil bills 2 weeks, floor bills 1, prorate bills 8/7

	c := storageContract()
	c.RateMode = engine.RateWeekly
	c.WeeklyRate = usd(210)
	asOf := d(2025, time.January, 9) // day 8

	cases := []struct {
		policy engine.RoundingPolicy
		want   engine.Money
	}{
		{engine.RoundCeil, usd(420)},
		{engine.RoundFloor, usd(210)},
		{engine.RoundProrate, usd(240)}, // 210 * 8/7
	}

	for _, tc := range cases {
		cfg := engine.DefaultConfig()
		cfg.StorageRounding = tc.policy
		bd := engine.CalculateCharges(c, asOf, engine.TypeStorage, cfg)
		moneyEqual(t, string(tc.policy), bd.Storage, tc.want)
	}
}

func TestCharges_MonthlyIsNotThirtyDailies(t *testing.T) {
	// GIVEN: A monthly contract whose monthly rate is cheaper than 30 dailies
	// WHEN: Evaluated at day 30
	// THEN: The monthly rate applies, not daily x 30

	c := storageContract()
	c.RateMode = engine.RateMonthly
	c.MonthlyRate = usd(840)

	bd := engine.CalculateCharges(c, d(2025, time.January, 31), engine.TypeStorage, engine.DefaultConfig())

	moneyEqual(t, "storage", bd.Storage, usd(840))
}

func TestCharges_UnsetRateModeFallsBackToDaily(t *testing.T) {
	c := storageContract()
	c.RateMode = ""

	bd := engine.CalculateCharges(c, d(2025, time.January, 6), engine.TypeStorage, engine.DefaultConfig())

	moneyEqual(t, "storage", bd.Storage, usd(150))
}

// =============================================================================
// SIX-HOUR EXEMPTION
// =============================================================================

func TestCharges_SixHourExemption_UnderSixHours(t *testing.T) {
	// GIVEN: A towed vehicle dropped off at 11pm, evaluated at 2am next day
	// WHEN: Charges are calculated (3 hours on the lot, 1 calendar day)
	// THEN: No storage accrues; the day count alone does not bill

	c := storageContract()
	c.Type = engine.TypeTow
	c.Tow.BaseFee = usd(125)
	c.StartDate = engine.NewDateHour(2025, time.January, 1, 23, 0)
	asOf := engine.NewDateHour(2025, time.January, 2, 2, 0)

	bd := engine.CalculateCharges(c, asOf, engine.TypeTow, engine.DefaultConfig())

	moneyEqual(t, "storage", bd.Storage, engine.MoneyZero())
	moneyEqual(t, "tow", bd.Tow, usd(125))
}

func TestCharges_SixHourExemption_ExactlySixHours(t *testing.T) {
	// GIVEN: A towed vehicle on the lot for exactly 6 hours spanning midnight
	// WHEN: Charges are calculated
	// THEN: The exemption is strictly less-than, so the day bills

	c := storageContract()
	c.Type = engine.TypeTow
	c.StartDate = engine.NewDateHour(2025, time.January, 1, 20, 0)
	asOf := engine.NewDateHour(2025, time.January, 2, 2, 0)

	bd := engine.CalculateCharges(c, asOf, engine.TypeTow, engine.DefaultConfig())

	moneyEqual(t, "storage", bd.Storage, usd(30))
}

func TestCharges_SixHourExemption_VoluntaryStorageUnaffected(t *testing.T) {
	// GIVEN: A voluntary storage contract spanning midnight in under 6 hours
	// WHEN: Charges are calculated
	// THEN: The exemption does not apply to voluntary storage

	c := storageContract()
	c.StartDate = engine.NewDateHour(2025, time.January, 1, 23, 0)
	asOf := engine.NewDateHour(2025, time.January, 2, 2, 0)

	bd := engine.CalculateCharges(c, asOf, engine.TypeStorage, engine.DefaultConfig())

	moneyEqual(t, "storage", bd.Storage, usd(30))
}

// =============================================================================
// TOW AND RECOVERY COMPONENTS
// =============================================================================

func TestCharges_TowComponents(t *testing.T) {
	c := storageContract()
	c.Type = engine.TypeTow
	c.Tow = engine.TowFees{
		BaseFee:         usd(125),
		MileageRate:     usd(4),
		MilesUsed:       12.5,
		HourlyLaborRate: usd(90),
		LaborHours:      1.5,
		AfterHoursFee:   usd(50),
	}

	bd := engine.CalculateCharges(c, d(2025, time.January, 2), engine.TypeTow, engine.DefaultConfig())

	// 125 + 50 + 135 + 50 = 360
	moneyEqual(t, "tow", bd.Tow, usd(360))
}

func TestCharges_NegativeComponentsChargeAsZero(t *testing.T) {
	// GIVEN: A tow contract with a negative base fee (data entry error)
	// WHEN: Charges are calculated
	// THEN: The component charges as zero; the total never goes negative

	c := storageContract()
	c.Type = engine.TypeTow
	c.Tow.BaseFee = usd(-500)
	c.DailyRate = usd(30)

	bd := engine.CalculateCharges(c, d(2025, time.January, 2), engine.TypeTow, engine.DefaultConfig())

	moneyEqual(t, "tow", bd.Tow, engine.MoneyZero())
	if bd.Total.IsNegative() {
		t.Errorf("total went negative: %s", bd.Total)
	}
}

func TestCharges_RecoveryComponents(t *testing.T) {
	c := recoveryContract()

	bd := engine.CalculateCharges(c, d(2025, time.January, 2), engine.TypeRecovery, recoveryConfig())

	// 125 + 250 + 2x10 + 25 + 20 + 100 = 540
	moneyEqual(t, "recovery", bd.Recovery, usd(540))
}

func TestCharges_StatutoryCaps(t *testing.T) {
	// GIVEN: Admin and lien fees above the Florida caps
	// WHEN: Charges are calculated
	// THEN: Both components bill at the $250 cap

	c := recoveryContract()
	c.AdminFee = usd(400)
	c.Recovery.LienProcessingFee = usd(900)

	bd := engine.CalculateCharges(c, d(2025, time.January, 2), engine.TypeRecovery, recoveryConfig())

	moneyEqual(t, "admin", bd.Admin, usd(250))
	// 125 + 250(capped) + 20 + 25 + 20 + 100 = 540
	moneyEqual(t, "recovery", bd.Recovery, usd(540))
}

func TestCharges_NegativeNoticesSentClampToZero(t *testing.T) {
	c := recoveryContract()
	c.Recovery.NoticesSent = -3

	bd := engine.CalculateCharges(c, d(2025, time.January, 2), engine.TypeRecovery, recoveryConfig())

	// Cert mail drops out entirely: 125 + 250 + 25 + 20 + 100 = 520
	moneyEqual(t, "recovery", bd.Recovery, usd(520))
}

func TestCharges_Idempotent(t *testing.T) {
	// Same inputs, same output. The calculation reads no clock and no state.
	c := recoveryContract()
	asOf := d(2025, time.February, 1)
	cfg := recoveryConfig()

	first := engine.CalculateCharges(c, asOf, engine.TypeRecovery, cfg)
	second := engine.CalculateCharges(c, asOf, engine.TypeRecovery, cfg)

	moneyEqual(t, "total", first.Total, second.Total)
	if first.StorageDays != second.StorageDays {
		t.Errorf("storage days diverged: %d vs %d", first.StorageDays, second.StorageDays)
	}
}
