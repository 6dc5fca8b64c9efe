package engine_test

import (
	"testing"
	"time"

	"github.com/suncoast/lot-engine/engine"
)

func TestValidate_CleanContractHasNoWarnings(t *testing.T) {
	c := storageContract()

	warnings := engine.Validate(c, engine.TypeStorage, d(2025, time.January, 11), engine.DefaultConfig())

	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestValidate_AdminFeeOverCap(t *testing.T) {
	// The warning surfaces the clamp; the charge itself still bills capped.
	c := storageContract()
	c.AdminFee = usd(400)

	warnings := engine.Validate(c, engine.TypeStorage, d(2025, time.January, 11), engine.DefaultConfig())

	if !hasWarning(warnings, "exceeds the FL cap") {
		t.Errorf("expected cap warning, got %v", warnings)
	}
}

func TestValidate_InvalidRateMode(t *testing.T) {
	c := storageContract()
	c.RateMode = "hourly"

	warnings := engine.Validate(c, engine.TypeStorage, d(2025, time.January, 11), engine.DefaultConfig())

	if !hasWarning(warnings, "Rate mode") {
		t.Errorf("expected rate mode warning, got %v", warnings)
	}
}

func TestValidate_RecoveryCombinedCapCompliance(t *testing.T) {
	// GIVEN: Admin and lien fees individually under cap but over it combined
	// WHEN: Validated as recovery
	// THEN: The COMPLIANCE warning fires

	c := recoveryContract()
	c.AdminFee = usd(150)
	c.Recovery.LienProcessingFee = usd(150)

	warnings := engine.Validate(c, engine.TypeRecovery, d(2025, time.January, 2), recoveryConfig())

	if !hasWarning(warnings, "COMPLIANCE") {
		t.Errorf("expected combined-cap warning, got %v", warnings)
	}
}

func TestValidate_RecoveryCertMailRequired(t *testing.T) {
	c := recoveryContract()
	c.Recovery.CertMailFee = engine.MoneyZero()

	warnings := engine.Validate(c, engine.TypeRecovery, d(2025, time.January, 2), recoveryConfig())

	if !hasWarning(warnings, "Certified mail") {
		t.Errorf("expected cert mail warning, got %v", warnings)
	}
}

func TestValidate_RecoveryOverdueNotice(t *testing.T) {
	c := recoveryContract()

	warnings := engine.Validate(c, engine.TypeRecovery, d(2025, time.January, 15), recoveryConfig())

	if !hasWarning(warnings, "OVERDUE") {
		t.Errorf("expected overdue warning, got %v", warnings)
	}
}

func TestValidate_WarningsNeverBlockCalculation(t *testing.T) {
	// A contract full of data problems still evaluates.
	c := recoveryContract()
	c.AdminFee = usd(999)
	c.Recovery.LienProcessingFee = usd(999)
	c.Vehicle.Year = 0
	c.RateMode = "fortnightly"

	ev := engine.Evaluate(c, d(2025, time.February, 1), recoveryConfig())

	if len(ev.Warnings) == 0 {
		t.Error("expected warnings on a malformed contract")
	}
	if !ev.Charges.Total.IsPositive() {
		t.Error("charges must still compute")
	}
}
