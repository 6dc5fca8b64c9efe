/*
handlers.go - HTTP API handlers for the contract engine

PURPOSE:
  Exposes the contract engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Contracts:
    GET    /api/contracts                    List contracts with balances
    POST   /api/contracts                    Create contract (template-defaulted)
    GET    /api/contracts/{id}               Get contract record
    PUT    /api/contracts/{id}               Whole-record edit

  Lifecycle:
    POST   /api/contracts/{id}/payments      Record payment (append-only)
    POST   /api/contracts/{id}/notice        Record lien notice sent date
    GET    /api/contracts/{id}/evaluation    Full evaluation as of a date
    GET    /api/contracts/{id}/validation    Advisory warnings
    GET    /api/contracts/{id}/record        Plain-text printable record

  Fees:
    GET    /api/fees                         Enumerated vehicle types
    GET    /api/fees/{vehicleType}           Rate card for a vehicle type

  Alerts:
    GET    /api/alerts                       Latest background scan results

AS-OF HANDLING:
  Every read that evaluates a contract accepts ?as_of=YYYY-MM-DD and
  defaults to today. The engine itself never reads the clock.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Contract not found
  - 422: Configuration errors (unknown vehicle type, bad template)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - alerts.go: Background alert scanner
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/suncoast/lot-engine/engine"
	"github.com/suncoast/lot-engine/fees"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    engine.ContractStore
	Registry *fees.Registry
	Config   engine.Config
	Scanner  *AlertScanner
}

// NewHandler creates a new handler.
func NewHandler(store engine.ContractStore, registry *fees.Registry, cfg engine.Config) *Handler {
	return &Handler{
		Store:    store,
		Registry: registry,
		Config:   cfg,
	}
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

// ListContracts returns all contracts with their evaluated balance position.
// GET /api/contracts?as_of=YYYY-MM-DD
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	asOf, err := asOfParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", err)
		return
	}

	contracts, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contracts", err)
		return
	}

	dtos := make([]ContractSummaryDTO, 0, len(contracts))
	for _, c := range contracts {
		ev := engine.Evaluate(c, asOf, h.Config)
		dtos = append(dtos, ContractSummaryDTO{
			ID:            c.ID,
			CustomerName:  c.Customer.Name,
			Plate:         c.Vehicle.Plate,
			VehicleType:   c.Vehicle.Type,
			ContractType:  c.Type,
			EffectiveType: ev.EffectiveType,
			StartDate:     c.StartDate,
			Status:        c.Status,
			Balance:       ev.Balance,
			PastDue:       ev.PastDue,
			DaysPastDue:   ev.DaysPastDue,
		})
	}

	writeJSON(w, http.StatusOK, dtos)
}

// CreateContract creates a contract. Fee fields the intake form left at
// zero are filled from the vehicle type's template.
// POST /api/contracts
func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req ContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, err := req.toContract()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contract", err)
		return
	}

	defaults, err := h.Registry.DefaultsFor(c.Vehicle.Type)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Unknown vehicle type", err)
		return
	}
	defaults.ApplyTo(&c)

	c.AppendAudit(time.Now(), "Contract created",
		fmt.Sprintf("%s contract for %s starting %s", c.Type, c.Vehicle.Plate, c.StartDate))

	created, err := h.Store.Create(r.Context(), c)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create contract", err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetContract returns one contract record.
// GET /api/contracts/{id}
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contractID(w, r)
	if !ok {
		return
	}

	c, err := h.Store.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "Failed to get contract")
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// UpdateContract performs a whole-record edit. Recorded payments and audit
// entries survive unchanged regardless of the request body.
// PUT /api/contracts/{id}
func (h *Handler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contractID(w, r)
	if !ok {
		return
	}

	var req ContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, err := req.toContract()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contract", err)
		return
	}
	c.ID = id

	// The notice date is carried by the edit form too.
	existing, err := h.Store.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "Failed to get contract")
		return
	}
	c.NoticeSentDate = existing.NoticeSentDate

	if err := h.Store.Replace(r.Context(), c); err != nil {
		h.storeError(w, err, "Failed to update contract")
		return
	}

	if err := h.Store.AppendAudit(r.Context(), id, auditEntry(time.Now(), "Contract updated", "")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record audit entry", err)
		return
	}

	updated, err := h.Store.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "Failed to get contract")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// =============================================================================
// LIFECYCLE HANDLERS
// =============================================================================

// RecordPayment appends one payment.
// POST /api/contracts/{id}/payments
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contractID(w, r)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "Payment amount must be positive", nil)
		return
	}

	paidOn := engine.Today()
	if req.Date != "" {
		var err error
		paidOn, err = engine.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid payment date (use YYYY-MM-DD)", err)
			return
		}
	}

	p := engine.Payment{Date: paidOn, Amount: req.Amount, Method: req.Method, Note: req.Note}
	if err := h.Store.AppendPayment(r.Context(), id, p); err != nil {
		h.storeError(w, err, "Failed to record payment")
		return
	}

	entry := auditEntry(time.Now(), "Payment recorded",
		fmt.Sprintf("%s via %s on %s", p.Amount, p.Method, p.Date))
	if err := h.Store.AppendAudit(r.Context(), id, entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record audit entry", err)
		return
	}

	c, err := h.Store.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "Failed to get contract")
		return
	}
	writeJSON(w, http.StatusCreated, engine.Evaluate(c, engine.Today(), h.Config))
}

// RecordNotice sets the lien notice sent date.
// POST /api/contracts/{id}/notice
func (h *Handler) RecordNotice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contractID(w, r)
	if !ok {
		return
	}

	var req RecordNoticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sent := engine.Today()
	if req.SentDate != "" {
		var err error
		sent, err = engine.ParseDate(req.SentDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid sent_date (use YYYY-MM-DD)", err)
			return
		}
	}

	if err := h.Store.RecordNoticeSent(r.Context(), id, sent); err != nil {
		h.storeError(w, err, "Failed to record notice")
		return
	}

	entry := auditEntry(time.Now(), "Lien notice sent", sent.String())
	if err := h.Store.AppendAudit(r.Context(), id, entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record audit entry", err)
		return
	}

	c, err := h.Store.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "Failed to get contract")
		return
	}
	writeJSON(w, http.StatusOK, engine.Evaluate(c, engine.Today(), h.Config))
}

// GetEvaluation returns the full evaluation for one contract.
// GET /api/contracts/{id}/evaluation?as_of=YYYY-MM-DD
func (h *Handler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contractID(w, r)
	if !ok {
		return
	}

	asOf, err := asOfParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", err)
		return
	}

	c, err := h.Store.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "Failed to get contract")
		return
	}

	writeJSON(w, http.StatusOK, engine.Evaluate(c, asOf, h.Config))
}

// GetValidation returns the advisory warnings for one contract.
// GET /api/contracts/{id}/validation?as_of=YYYY-MM-DD
func (h *Handler) GetValidation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contractID(w, r)
	if !ok {
		return
	}

	asOf, err := asOfParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", err)
		return
	}

	c, err := h.Store.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "Failed to get contract")
		return
	}

	eff := engine.EffectiveType(c.Type, h.Config.InvoluntaryEnabled)
	writeJSON(w, http.StatusOK, ValidationDTO{
		ContractID: id,
		AsOf:       asOf,
		Warnings:   engine.Validate(c, eff, asOf, h.Config),
	})
}

// GetRecord returns the plain-text printable contract record.
// GET /api/contracts/{id}/record?as_of=YYYY-MM-DD
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contractID(w, r)
	if !ok {
		return
	}

	asOf, err := asOfParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", err)
		return
	}

	c, err := h.Store.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "Failed to get contract")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, engine.FormatContractRecord(c, asOf, h.Config))
}

// =============================================================================
// FEE HANDLERS
// =============================================================================

// ListVehicleTypes returns the enumerated vehicle types.
// GET /api/fees
func (h *Handler) ListVehicleTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Registry.VehicleTypes())
}

// GetFees returns the rate card for one vehicle type.
// GET /api/fees/{vehicleType}
func (h *Handler) GetFees(w http.ResponseWriter, r *http.Request) {
	vt := engine.VehicleType(chi.URLParam(r, "vehicleType"))

	defaults, err := h.Registry.DefaultsFor(vt)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Unknown vehicle type", err)
		return
	}

	writeJSON(w, http.StatusOK, defaults)
}

// =============================================================================
// ALERT HANDLERS
// =============================================================================

// ListAlerts returns the latest background scan results.
// GET /api/alerts
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	if h.Scanner == nil {
		writeJSON(w, http.StatusOK, []Alert{})
		return
	}
	writeJSON(w, http.StatusOK, h.Scanner.Alerts())
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) contractID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contract id", err)
		return 0, false
	}
	return id, true
}

func (h *Handler) storeError(w http.ResponseWriter, err error, message string) {
	if engine.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Contract not found", err)
		return
	}
	writeError(w, http.StatusInternalServerError, message, err)
}

// asOfParam reads ?as_of=YYYY-MM-DD, defaulting to today.
func asOfParam(r *http.Request) (engine.Date, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return engine.Today(), nil
	}
	return engine.ParseDate(raw)
}

// auditEntry mirrors Contract.AppendAudit formatting for store-side appends.
func auditEntry(at time.Time, action, details string) string {
	entry := fmt.Sprintf("[%s] %s", at.Format("2006-01-02 15:04:05"), action)
	if details != "" {
		entry += " - " + details
	}
	return entry
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
