package engine_test

import (
	"testing"
	"time"

	"github.com/suncoast/lot-engine/engine"
)

// =============================================================================
// BALANCE
// =============================================================================

func TestBalance_ChargesMinusPayments(t *testing.T) {
	// GIVEN: $350 in charges and two $100 payments
	// WHEN: The balance is computed
	// THEN: $150 remains

	c := storageContract()
	c.Payments = []engine.Payment{
		{Date: d(2025, time.January, 5), Amount: usd(100), Method: "cash"},
		{Date: d(2025, time.January, 8), Amount: usd(100), Method: "card"},
	}

	bal := engine.Balance(c, d(2025, time.January, 11), engine.TypeStorage, engine.DefaultConfig())

	moneyEqual(t, "balance", bal, usd(150))
}

func TestBalance_OverpaymentGoesNegative(t *testing.T) {
	// Overpayment is a legitimate credit; the balance is never clamped.
	c := storageContract()
	c.Payments = []engine.Payment{
		{Date: d(2025, time.January, 5), Amount: usd(500)},
	}

	bal := engine.Balance(c, d(2025, time.January, 11), engine.TypeStorage, engine.DefaultConfig())

	moneyEqual(t, "balance", bal, usd(-150))
}

func TestBalance_FuturePaymentsExcluded(t *testing.T) {
	// GIVEN: A payment dated after the evaluation date
	// WHEN: The balance is computed as of the earlier date
	// THEN: The future payment does not count

	c := storageContract()
	c.Payments = []engine.Payment{
		{Date: d(2025, time.January, 20), Amount: usd(100)},
	}

	bal := engine.Balance(c, d(2025, time.January, 11), engine.TypeStorage, engine.DefaultConfig())

	moneyEqual(t, "balance", bal, usd(350))
}

func TestBalance_UndatedLegacyPaymentsAlwaysCount(t *testing.T) {
	c := storageContract()
	c.Payments = []engine.Payment{
		{Amount: usd(50), Note: "migrated from paper ledger"},
	}

	total := engine.TotalPayments(c, d(2025, time.January, 2))

	moneyEqual(t, "total paid", total, usd(50))
}

// =============================================================================
// PAST DUE
// =============================================================================

func TestPastDue_Storage(t *testing.T) {
	// Storage: outstanding balance and 30+ days elapsed.
	c := storageContract()
	cfg := engine.DefaultConfig()

	if due, _ := engine.PastDue(c, d(2025, time.January, 30), engine.TypeStorage, cfg); due {
		t.Error("day 29 should not be past due")
	}

	due, days := engine.PastDue(c, d(2025, time.February, 5), engine.TypeStorage, cfg)
	if !due || days != 5 {
		t.Errorf("day 35: got due=%v days=%d, want due 5 days", due, days)
	}
}

func TestPastDue_StoragePaidOffNeverPastDue(t *testing.T) {
	c := storageContract()
	asOf := d(2025, time.March, 1)
	c.Payments = []engine.Payment{
		{Date: asOf, Amount: engine.Balance(c, asOf, engine.TypeStorage, engine.DefaultConfig())},
	}

	if due, _ := engine.PastDue(c, asOf, engine.TypeStorage, engine.DefaultConfig()); due {
		t.Error("a settled balance is never past due")
	}
}

func TestPastDue_TowGraceFromStart(t *testing.T) {
	// Tow: fixed 7-day payment expectation from the start date.
	c := storageContract()
	c.Type = engine.TypeTow
	c.Tow.BaseFee = usd(125)
	cfg := engine.DefaultConfig()

	if due, _ := engine.PastDue(c, d(2025, time.January, 8), engine.TypeTow, cfg); due {
		t.Error("day 7 is within the tow grace period")
	}

	due, days := engine.PastDue(c, d(2025, time.January, 9), engine.TypeTow, cfg)
	if !due || days != 1 {
		t.Errorf("day 8: got due=%v days=%d, want due 1 day", due, days)
	}
}

func TestPastDue_TowGraceRestartsOnPayment(t *testing.T) {
	// GIVEN: A partial payment on day 6
	// WHEN: Evaluated on day 10
	// THEN: The grace clock runs from the payment, so not yet past due

	c := storageContract()
	c.Type = engine.TypeTow
	c.Tow.BaseFee = usd(125)
	c.Payments = []engine.Payment{
		{Date: d(2025, time.January, 7), Amount: usd(10)},
	}

	if due, _ := engine.PastDue(c, d(2025, time.January, 11), engine.TypeTow, engine.DefaultConfig()); due {
		t.Error("grace must restart from the most recent payment")
	}
}

func TestPastDue_RecoveryAfterNoticeDeadline(t *testing.T) {
	c := recoveryContract()
	cfg := recoveryConfig()

	if due, _ := engine.PastDue(c, d(2025, time.January, 7), engine.TypeRecovery, cfg); due {
		t.Error("day 6 should not be past due")
	}

	due, days := engine.PastDue(c, d(2025, time.January, 8), engine.TypeRecovery, cfg)
	if !due || days != 7 {
		t.Errorf("day 7: got due=%v days=%d, want due 7 days", due, days)
	}
}

// =============================================================================
// COLLECTIBILITY BREAKDOWN
// =============================================================================

func TestCollectibility_LateNoticePartitionsDays(t *testing.T) {
	// GIVEN: 21 storage days with the lien notice sent on day 12
	// WHEN: The breakdown is computed
	// THEN: 16 days are clearly billable, 5 are questionable (12 - 7)

	c := recoveryContract()
	c.NoticeSentDate = d(2025, time.January, 13) // day 12

	bd := engine.StorageDaysBreakdown(c, d(2025, time.January, 22), engine.TypeRecovery, recoveryConfig())

	if bd.TotalDays != 21 {
		t.Fatalf("total days: got %d, want 21", bd.TotalDays)
	}
	if bd.BillableDays != 16 || bd.QuestionableDays != 5 {
		t.Errorf("got billable=%d questionable=%d, want 16/5", bd.BillableDays, bd.QuestionableDays)
	}
	if bd.Warning == "" {
		t.Error("a late notice must carry a collectibility warning")
	}
}

func TestCollectibility_NoticeNeverSent(t *testing.T) {
	// GIVEN: 21 storage days, notice never sent
	// WHEN: The breakdown is computed
	// THEN: Everything past the 7-day deadline is questionable

	c := recoveryContract()

	bd := engine.StorageDaysBreakdown(c, d(2025, time.January, 22), engine.TypeRecovery, recoveryConfig())

	if bd.BillableDays != 7 || bd.QuestionableDays != 14 {
		t.Errorf("got billable=%d questionable=%d, want 7/14", bd.BillableDays, bd.QuestionableDays)
	}
}

func TestCollectibility_TimelyNoticeAllBillable(t *testing.T) {
	c := recoveryContract()
	c.NoticeSentDate = d(2025, time.January, 6)

	bd := engine.StorageDaysBreakdown(c, d(2025, time.January, 22), engine.TypeRecovery, recoveryConfig())

	if bd.QuestionableDays != 0 || bd.BillableDays != bd.TotalDays {
		t.Errorf("timely notice: got billable=%d questionable=%d of %d",
			bd.BillableDays, bd.QuestionableDays, bd.TotalDays)
	}
	if bd.Warning != "" {
		t.Errorf("unexpected warning: %s", bd.Warning)
	}
}

func TestCollectibility_StorageContractAllBillable(t *testing.T) {
	c := storageContract()

	bd := engine.StorageDaysBreakdown(c, d(2025, time.March, 1), engine.TypeStorage, engine.DefaultConfig())

	if bd.QuestionableDays != 0 {
		t.Errorf("storage days are always billable, got %d questionable", bd.QuestionableDays)
	}
}

// =============================================================================
// EVALUATION
// =============================================================================

func TestEvaluate_BundlesEverything(t *testing.T) {
	c := recoveryContract()
	c.NoticeSentDate = d(2025, time.January, 6)
	c.Payments = []engine.Payment{{Date: d(2025, time.January, 10), Amount: usd(200)}}
	asOf := d(2025, time.January, 22)

	ev := engine.Evaluate(c, asOf, recoveryConfig())

	if ev.EffectiveType != engine.TypeRecovery {
		t.Errorf("effective type: got %s", ev.EffectiveType)
	}
	if ev.Breakdown == nil {
		t.Error("towed-in contracts must include the collectibility breakdown")
	}
	moneyEqual(t, "balance", ev.Balance, ev.Charges.Total.Sub(usd(200)).Round2())
	if !ev.PastDue {
		t.Error("unpaid recovery past the notice deadline is past due")
	}
}

func TestEvaluate_StorageHasNoBreakdown(t *testing.T) {
	ev := engine.Evaluate(storageContract(), d(2025, time.January, 11), engine.DefaultConfig())

	if ev.Breakdown != nil {
		t.Error("pure storage contracts carry no collectibility breakdown")
	}
}
