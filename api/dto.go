/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

The engine's result types (Evaluation, ChargeBreakdown, Timeline) already
carry wire-ready JSON tags and are returned as-is; only the inbound shapes
and the list summary need dedicated types here.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/balance.go: Evaluation response shape
*/
package api

import (
	"fmt"

	"github.com/suncoast/lot-engine/engine"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ContractRequest is the inbound contract shape, shared by create and
// whole-record update. Fee fields left at zero are filled from the vehicle
// type's template.
type ContractRequest struct {
	Customer engine.Customer `json:"customer"`
	Vehicle  engine.Vehicle  `json:"vehicle"`

	ContractType string `json:"contract_type"`
	StartDate    string `json:"start_date"`
	RateMode     string `json:"rate_mode"`

	DailyRate   engine.Money `json:"daily_storage_fee"`
	WeeklyRate  engine.Money `json:"weekly_storage_fee"`
	MonthlyRate engine.Money `json:"monthly_storage_fee"`

	Tow      engine.TowFees      `json:"tow"`
	Recovery engine.RecoveryFees `json:"recovery"`
	AdminFee engine.Money        `json:"admin_fee"`

	Notes  []string `json:"notes"`
	Status string   `json:"status"`
}

// toContract validates the enumerated fields and builds the domain snapshot.
func (req ContractRequest) toContract() (engine.Contract, error) {
	ctype, ok := engine.ParseContractType(req.ContractType)
	if !ok {
		return engine.Contract{}, fmt.Errorf("unknown contract_type %q", req.ContractType)
	}

	rateMode := engine.RateMode(req.RateMode)
	switch rateMode {
	case engine.RateDaily, engine.RateWeekly, engine.RateMonthly:
	case "":
		rateMode = engine.RateDaily
	default:
		return engine.Contract{}, fmt.Errorf("unknown rate_mode %q", req.RateMode)
	}

	start, err := engine.ParseDate(req.StartDate)
	if err != nil {
		return engine.Contract{}, fmt.Errorf("invalid start_date (use YYYY-MM-DD): %w", err)
	}

	return engine.Contract{
		Customer:    req.Customer,
		Vehicle:     req.Vehicle,
		Type:        ctype,
		StartDate:   start,
		RateMode:    rateMode,
		DailyRate:   req.DailyRate,
		WeeklyRate:  req.WeeklyRate,
		MonthlyRate: req.MonthlyRate,
		Tow:         req.Tow,
		Recovery:    req.Recovery,
		AdminFee:    req.AdminFee,
		Notes:       req.Notes,
		Status:      req.Status,
	}, nil
}

// RecordPaymentRequest records one payment against a contract.
type RecordPaymentRequest struct {
	Date   string       `json:"date"` // empty = today
	Amount engine.Money `json:"amount"`
	Method string       `json:"method"`
	Note   string       `json:"note"`
}

// RecordNoticeRequest records the lien notice sent date.
type RecordNoticeRequest struct {
	SentDate string `json:"sent_date"` // empty = today
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ContractSummaryDTO is the list-view row: identity plus the evaluated
// balance position as of the requested date.
type ContractSummaryDTO struct {
	ID            int                 `json:"contract_id"`
	CustomerName  string              `json:"customer_name"`
	Plate         string              `json:"plate"`
	VehicleType   engine.VehicleType  `json:"vehicle_type"`
	ContractType  engine.ContractType `json:"contract_type"`
	EffectiveType engine.ContractType `json:"effective_type"`
	StartDate     engine.Date         `json:"start_date"`
	Status        string              `json:"status"`
	Balance       engine.Money        `json:"balance"`
	PastDue       bool                `json:"past_due"`
	DaysPastDue   int                 `json:"days_past_due"`
}

// ValidationDTO wraps the advisory warning list.
type ValidationDTO struct {
	ContractID int         `json:"contract_id"`
	AsOf       engine.Date `json:"as_of"`
	Warnings   []string    `json:"warnings"`
}

// ErrorResponse is the error body for all non-2xx responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
