package engine_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/suncoast/lot-engine/engine"
)

// =============================================================================
// PAYMENT - legacy field migration
// =============================================================================

func TestPayment_LegacyNotesFieldMerged(t *testing.T) {
	// GIVEN: A stored payment using the historical "notes" key
	// WHEN: It is deserialized
	// THEN: The value lands in the canonical note field

	var p engine.Payment
	raw := `{"date":"2025-01-05","amount":100,"method":"cash","notes":"partial"}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if p.Note != "partial" {
		t.Errorf("note: got %q, want %q", p.Note, "partial")
	}
	moneyEqual(t, "amount", p.Amount, usd(100))
}

func TestPayment_CanonicalNoteWinsOverLegacy(t *testing.T) {
	var p engine.Payment
	raw := `{"date":"2025-01-05","amount":100,"note":"current","notes":"stale"}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if p.Note != "current" {
		t.Errorf("note: got %q, want %q", p.Note, "current")
	}
}

func TestPayment_MarshalNeverEmitsLegacyKey(t *testing.T) {
	p := engine.Payment{Date: d(2025, time.January, 5), Amount: usd(100), Note: "x"}
	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), `"notes"`) {
		t.Errorf("serialized payment resurrects the legacy key: %s", out)
	}
}

// =============================================================================
// ENUMERATIONS
// =============================================================================

func TestParseContractType_LegacySynonyms(t *testing.T) {
	cases := map[string]engine.ContractType{
		"storage":        engine.TypeStorage,
		"Storage Only":   engine.TypeStorage,
		"TOW":            engine.TypeTow,
		"recovery":       engine.TypeRecovery,
		"Tow & Recovery": engine.TypeRecovery,
	}

	for input, want := range cases {
		got, ok := engine.ParseContractType(input)
		if !ok || got != want {
			t.Errorf("ParseContractType(%q): got %s ok=%v, want %s", input, got, ok, want)
		}
	}

	if _, ok := engine.ParseContractType("impound"); ok {
		t.Error("unknown labels must not parse")
	}
}

// =============================================================================
// MONEY / DATE WIRE FORMAT
// =============================================================================

func TestMoney_TravelsAsJSONNumber(t *testing.T) {
	out, err := json.Marshal(usd(35.5))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "35.50" {
		t.Errorf("got %s, want 35.50", out)
	}

	var m engine.Money
	if err := json.Unmarshal([]byte("42.10"), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	moneyEqual(t, "round trip", m, usd(42.10))
}

func TestDate_EmptyStringIsZero(t *testing.T) {
	var dt engine.Date
	if err := json.Unmarshal([]byte(`""`), &dt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !dt.IsZero() {
		t.Error("empty string must deserialize to the zero date")
	}

	out, err := json.Marshal(engine.Date{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `""` {
		t.Errorf("zero date: got %s, want \"\"", out)
	}
}

func TestDaysBetween_IgnoresHours(t *testing.T) {
	// 11pm to 1am next day is one storage day.
	from := engine.NewDateHour(2025, time.January, 1, 23, 0)
	to := engine.NewDateHour(2025, time.January, 2, 1, 0)

	if got := engine.DaysBetween(from, to); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

// =============================================================================
// AUDIT LOG
// =============================================================================

func TestAppendAudit_Format(t *testing.T) {
	c := storageContract()
	at := time.Date(2025, time.January, 5, 14, 30, 0, 0, time.UTC)

	c.AppendAudit(at, "Payment recorded", "$100.00 via cash")

	want := "[2025-01-05 14:30:00] Payment recorded - $100.00 via cash"
	if len(c.AuditLog) != 1 || c.AuditLog[0] != want {
		t.Errorf("got %v, want %q", c.AuditLog, want)
	}
}
