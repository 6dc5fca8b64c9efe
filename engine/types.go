/*
Package engine implements the contract lifecycle and fee/timeline computation
core for a Florida vehicle storage lot.

PURPOSE:
  Given a contract snapshot, an as-of date, and a configuration, the engine
  computes itemized charges, lien/sale timelines, outstanding balance,
  past-due status, and advisory validation warnings. Every function is a pure
  computation: nothing here mutates the contract or performs I/O.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A currency amount backed by decimal.Decimal (no float drift)
  - Contract: Immutable-by-convention snapshot of one vehicle's stay
  - Payment: Append-only financial history entry
  - ContractType / RateMode / VehicleType: Closed enumerations

DESIGN PRINCIPLES:
  1. Purity: all calculations are functions over (contract, asOf, config)
  2. Precision: decimal arithmetic for every dollar figure
  3. Availability over strictness: out-of-range fees are capped, never
     rejected; the validator surfaces the discrepancy as a warning
  4. Derived classification: the licensing flag reclassifies Recovery as
     Storage at calculation time without touching stored data

SEE ALSO:
  - classify.go: effective contract type resolution
  - charges.go:  itemized charge calculation
  - timeline.go: lien notice deadlines and sale eligibility
  - balance.go:  balance, past-due status, collectibility breakdown
*/
package engine

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Currency amount with decimal precision
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(v float64) Money       { return Money{Value: decimal.NewFromFloat(v)} }
func NewMoneyFromInt(v int) Money    { return Money{Value: decimal.NewFromInt(int64(v))} }
func MoneyZero() Money               { return Money{Value: decimal.Zero} }

func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return MoneyZero()
	}
	return Money{Value: d}
}

func (m Money) Add(o Money) Money          { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money          { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Neg() Money                 { return Money{Value: m.Value.Neg()} }
func (m Money) MulInt(n int) Money         { return Money{Value: m.Value.Mul(decimal.NewFromInt(int64(n)))} }
func (m Money) MulFloat(f float64) Money   { return Money{Value: m.Value.Mul(decimal.NewFromFloat(f))} }
func (m Money) IsZero() bool               { return m.Value.IsZero() }
func (m Money) IsNegative() bool           { return m.Value.IsNegative() }
func (m Money) IsPositive() bool           { return m.Value.IsPositive() }
func (m Money) GreaterThan(o Money) bool   { return m.Value.GreaterThan(o.Value) }
func (m Money) LessThan(o Money) bool      { return m.Value.LessThan(o.Value) }
func (m Money) Equal(o Money) bool         { return m.Value.Equal(o.Value) }
func (m Money) Round2() Money              { return Money{Value: m.Value.Round(2)} }
func (m Money) Float64() float64           { f, _ := m.Value.Float64(); return f }

// Cap returns m limited to max. Statutory caps are applied with this, never
// by rejecting the stored value.
func (m Money) Cap(max Money) Money {
	if m.GreaterThan(max) {
		return max
	}
	return m
}

// ClampZero floors a computed component at zero. Charges never go negative
// regardless of input sign.
func (m Money) ClampZero() Money {
	if m.IsNegative() {
		return MoneyZero()
	}
	return m
}

func (m Money) String() string { return "$" + m.Value.StringFixed(2) }

// Money travels as a plain JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Value.StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*m = MoneyZero()
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.Value = d
	return nil
}

// =============================================================================
// ENUMERATIONS
// =============================================================================

type ContractType string

const (
	TypeStorage  ContractType = "storage"
	TypeTow      ContractType = "tow"
	TypeRecovery ContractType = "recovery"
)

// ParseContractType normalizes the free-text labels that legacy records used.
func ParseContractType(s string) (ContractType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "storage", "storage only", "storageonly":
		return TypeStorage, true
	case "tow":
		return TypeTow, true
	case "recovery", "tow & recovery", "tow&recovery":
		return TypeRecovery, true
	}
	return "", false
}

type RateMode string

const (
	RateDaily   RateMode = "daily"
	RateWeekly  RateMode = "weekly"
	RateMonthly RateMode = "monthly"
)

type VehicleType string

const (
	VehicleCar        VehicleType = "Car"
	VehicleTruck      VehicleType = "Truck"
	VehicleMotorcycle VehicleType = "Motorcycle"
	VehicleRV         VehicleType = "RV"
	VehicleBoat       VehicleType = "Boat"
	VehicleTrailer    VehicleType = "Trailer"
)

// =============================================================================
// CONTRACT - Snapshot of one vehicle's stay
// =============================================================================

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Vehicle struct {
	Plate string      `json:"plate"`
	VIN   string      `json:"vin"`
	Type  VehicleType `json:"vehicle_type"`
	Make  string      `json:"make"`
	Model string      `json:"model"`
	Year  int         `json:"year"` // 0 = unknown; affects the Recovery sale wait
	Color string      `json:"color"`
}

// TowFees are the voluntary-tow service inputs.
type TowFees struct {
	BaseFee         Money   `json:"base_fee"`
	MileageRate     Money   `json:"mileage_rate"`
	MilesUsed       float64 `json:"miles_used"`
	HourlyLaborRate Money   `json:"hourly_labor_rate"`
	LaborHours      float64 `json:"labor_hours"`
	AfterHoursFee   Money   `json:"after_hours_fee"`
}

// RecoveryFees are the involuntary-recovery inputs (FL 713.78 fee items).
type RecoveryFees struct {
	HandlingFee       Money `json:"handling_fee"`
	LienProcessingFee Money `json:"lien_processing_fee"`
	CertMailFee       Money `json:"cert_mail_fee"`
	NoticesSent       int   `json:"notices_sent"`
	TitleSearchFee    Money `json:"title_search_fee"`
	DMVFee            Money `json:"dmv_fee"`
	SaleFee           Money `json:"sale_fee"`
}

type Payment struct {
	Date   Date
	Amount Money
	Method string
	Note   string
}

// paymentJSON is the wire/stored shape. The legacy field name "notes" is
// merged into the canonical "note" here, at the deserialization boundary;
// calculation code never sees the synonym.
type paymentJSON struct {
	Date        Date   `json:"date"`
	Amount      Money  `json:"amount"`
	Method      string `json:"method"`
	Note        string `json:"note"`
	LegacyNotes string `json:"notes,omitempty"`
}

func (p Payment) MarshalJSON() ([]byte, error) {
	return json.Marshal(paymentJSON{Date: p.Date, Amount: p.Amount, Method: p.Method, Note: p.Note})
}

func (p *Payment) UnmarshalJSON(data []byte) error {
	var raw paymentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	note := raw.Note
	if note == "" {
		note = raw.LegacyNotes
	}
	*p = Payment{Date: raw.Date, Amount: raw.Amount, Method: raw.Method, Note: note}
	return nil
}

// Contract is the central entity: one vehicle's stay on the lot.
//
// The engine treats every Contract it receives as a read-only snapshot.
// Mutation happens only in the contract store: appending payments, appending
// audit entries, recording a notice, and whole-record replacement.
type Contract struct {
	ID       int          `json:"contract_id"`
	Customer Customer     `json:"customer"`
	Vehicle  Vehicle      `json:"vehicle"`
	Type     ContractType `json:"contract_type"`

	StartDate      Date `json:"start_date"`
	NoticeSentDate Date `json:"notice_sent_date"` // zero = lien notice not sent

	// Storage rates are three independent values. Monthly is NOT daily x 30.
	RateMode    RateMode `json:"rate_mode"`
	DailyRate   Money    `json:"daily_storage_fee"`
	WeeklyRate  Money    `json:"weekly_storage_fee"`
	MonthlyRate Money    `json:"monthly_storage_fee"`

	Tow      TowFees      `json:"tow"`
	Recovery RecoveryFees `json:"recovery"`
	AdminFee Money        `json:"admin_fee"`

	Payments []Payment `json:"payments"`
	Notes    []string  `json:"notes"`

	// AuditLog is append-only, never reordered or pruned. Entries are
	// informational: a missing entry never blocks a computation.
	AuditLog []string `json:"audit_log"`

	Status string `json:"status"`
}

// AppendAudit adds a timestamped history entry.
func (c *Contract) AppendAudit(at time.Time, action, details string) {
	entry := fmt.Sprintf("[%s] %s", at.Format("2006-01-02 15:04:05"), action)
	if details != "" {
		entry += " - " + details
	}
	c.AuditLog = append(c.AuditLog, entry)
}
