/*
Package fees provides the per-vehicle-type fee schedule registry.

PURPOSE:
  Intake forms start from a fee template keyed by vehicle type. The
  registry holds the built-in Florida defaults, accepts replacement
  templates from the settings collaborator, and applies the configured
  default-admin-fee override before the values reach the charge
  calculator.

FAILURE MODE:
  Lookup for a vehicle type outside the enumerated set fails with a
  ConfigurationError - the one hard failure in the whole engine surface.
  A missing individual fee on a contract defaults to zero; a missing
  TEMPLATE is a configuration fault and is never silently defaulted.
*/
package fees

import (
	"sync"

	"github.com/suncoast/lot-engine/engine"
)

// Defaults is the full rate card for one vehicle type.
type Defaults struct {
	DailyStorage   engine.Money `json:"daily_storage_fee"`
	WeeklyStorage  engine.Money `json:"weekly_storage_fee"`
	MonthlyStorage engine.Money `json:"monthly_storage_fee"`

	TowBase       engine.Money `json:"tow_base_fee"`
	TowMileage    engine.Money `json:"tow_mileage_rate"`
	TowHourlyRate engine.Money `json:"tow_hourly_labor_rate"`
	AfterHours    engine.Money `json:"after_hours_fee"`

	RecoveryHandling engine.Money `json:"recovery_handling_fee"`
	LienProcessing   engine.Money `json:"lien_processing_fee"`
	CertMail         engine.Money `json:"cert_mail_fee"`
	TitleSearch      engine.Money `json:"title_search_fee"`
	DMV              engine.Money `json:"dmv_fee"`
	Sale             engine.Money `json:"sale_fee"`

	Admin     engine.Money `json:"admin_fee"`
	LaborRate engine.Money `json:"labor_rate"`
}

// ApplyTo seeds a contract's rate fields from the template. Fields the
// intake clerk already filled in are left alone (non-zero wins).
func (d Defaults) ApplyTo(c *engine.Contract) {
	setIfZero(&c.DailyRate, d.DailyStorage)
	setIfZero(&c.WeeklyRate, d.WeeklyStorage)
	setIfZero(&c.MonthlyRate, d.MonthlyStorage)
	setIfZero(&c.AdminFee, d.Admin)

	setIfZero(&c.Tow.BaseFee, d.TowBase)
	setIfZero(&c.Tow.MileageRate, d.TowMileage)
	setIfZero(&c.Tow.HourlyLaborRate, d.TowHourlyRate)
	setIfZero(&c.Tow.AfterHoursFee, d.AfterHours)

	setIfZero(&c.Recovery.HandlingFee, d.RecoveryHandling)
	setIfZero(&c.Recovery.LienProcessingFee, d.LienProcessing)
	setIfZero(&c.Recovery.CertMailFee, d.CertMail)
	setIfZero(&c.Recovery.TitleSearchFee, d.TitleSearch)
	setIfZero(&c.Recovery.DMVFee, d.DMV)
	setIfZero(&c.Recovery.SaleFee, d.Sale)
}

func setIfZero(dst *engine.Money, v engine.Money) {
	if dst.IsZero() {
		*dst = v
	}
}

func money(v float64) engine.Money { return engine.NewMoney(v) }

// builtin carries the shipped Florida rate card.
func builtin() map[engine.VehicleType]Defaults {
	return map[engine.VehicleType]Defaults{
		engine.VehicleCar: {
			DailyStorage: money(35), WeeklyStorage: money(210), MonthlyStorage: money(840),
			TowBase: money(125), TowMileage: money(4), TowHourlyRate: money(90), AfterHours: money(50),
			RecoveryHandling: money(125), LienProcessing: money(250), CertMail: money(10),
			TitleSearch: money(25), DMV: money(20), Sale: money(100),
			Admin: money(75), LaborRate: money(90),
		},
		engine.VehicleTruck: {
			DailyStorage: money(35), WeeklyStorage: money(210), MonthlyStorage: money(840),
			TowBase: money(150), TowMileage: money(4.5), TowHourlyRate: money(90), AfterHours: money(50),
			RecoveryHandling: money(150), LienProcessing: money(250), CertMail: money(10),
			TitleSearch: money(25), DMV: money(20), Sale: money(100),
			Admin: money(75), LaborRate: money(90),
		},
		engine.VehicleMotorcycle: {
			DailyStorage: money(20), WeeklyStorage: money(120), MonthlyStorage: money(480),
			TowBase: money(75), TowMileage: money(3), TowHourlyRate: money(90), AfterHours: money(35),
			RecoveryHandling: money(75), LienProcessing: money(250), CertMail: money(10),
			TitleSearch: money(25), DMV: money(20), Sale: money(100),
			Admin: money(50), LaborRate: money(90),
		},
		engine.VehicleRV: {
			DailyStorage: money(45), WeeklyStorage: money(270), MonthlyStorage: money(1080),
			TowBase: money(200), TowMileage: money(5), TowHourlyRate: money(90), AfterHours: money(75),
			RecoveryHandling: money(200), LienProcessing: money(250), CertMail: money(10),
			TitleSearch: money(25), DMV: money(20), Sale: money(100),
			Admin: money(100), LaborRate: money(90),
		},
		engine.VehicleBoat: {
			DailyStorage: money(40), WeeklyStorage: money(240), MonthlyStorage: money(960),
			TowBase: money(175), TowMileage: money(4.5), TowHourlyRate: money(90), AfterHours: money(60),
			RecoveryHandling: money(175), LienProcessing: money(250), CertMail: money(10),
			TitleSearch: money(25), DMV: money(20), Sale: money(100),
			Admin: money(85), LaborRate: money(90),
		},
		engine.VehicleTrailer: {
			DailyStorage: money(25), WeeklyStorage: money(150), MonthlyStorage: money(600),
			TowBase: money(100), TowMileage: money(3.5), TowHourlyRate: money(90), AfterHours: money(40),
			RecoveryHandling: money(100), LienProcessing: money(250), CertMail: money(10),
			TitleSearch: money(25), DMV: money(20), Sale: money(100),
			Admin: money(60), LaborRate: money(90),
		},
	}
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry resolves fee defaults per vehicle type. Safe for concurrent use.
type Registry struct {
	mu            sync.RWMutex
	templates     map[engine.VehicleType]Defaults
	adminOverride *engine.Money
}

// NewRegistry returns a registry seeded with the built-in rate card.
func NewRegistry() *Registry {
	return &Registry{templates: builtin()}
}

// SetTemplate replaces one vehicle type's template (settings collaborator).
func (r *Registry) SetTemplate(vt engine.VehicleType, d Defaults) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[vt] = d
}

// SetAdminOverride configures the default-admin-fee override. When set, it
// replaces every template's admin fee at lookup time.
func (r *Registry) SetAdminOverride(m engine.Money) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adminOverride = &m
}

// ClearAdminOverride reverts to per-template admin fees.
func (r *Registry) ClearAdminOverride() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adminOverride = nil
}

// DefaultsFor returns the rate card for a vehicle type. Unknown types fail
// with a ConfigurationError; callers must supply one of the enumerated
// types.
func (r *Registry) DefaultsFor(vt engine.VehicleType) (Defaults, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.templates[vt]
	if !ok {
		return Defaults{}, engine.NewUnknownVehicleTypeError(string(vt))
	}
	if r.adminOverride != nil {
		d.Admin = *r.adminOverride
	}
	return d, nil
}

// VehicleTypes returns the enumerated set, for intake form dropdowns.
func (r *Registry) VehicleTypes() []engine.VehicleType {
	return []engine.VehicleType{
		engine.VehicleCar, engine.VehicleTruck, engine.VehicleMotorcycle,
		engine.VehicleRV, engine.VehicleBoat, engine.VehicleTrailer,
	}
}
