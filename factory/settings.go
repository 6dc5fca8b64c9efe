/*
Package factory builds engine configuration and fee registries from the
JSON settings file.

PURPOSE:
  The settings collaborator owns a small JSON document (licensing flag,
  fee caps, exemption hours, rounding policy, default admin fee, fee
  template overrides). This package parses it and constructs the
  engine.Config and fees.Registry the rest of the system consumes. The
  engine itself never reads files or globals.

DEFAULTING:
  Every omitted setting falls back to the production Florida default
  (engine.DefaultConfig / the built-in rate card). A PRESENT but
  incomplete fee template is a configuration error, not a default.
*/
package factory

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/suncoast/lot-engine/engine"
	"github.com/suncoast/lot-engine/fees"
)

// TemplateJSON is one vehicle type's fee template as stored on disk. Keys
// match the historical settings file format.
type TemplateJSON map[string]float64

// requiredTemplateFields must be present in any configured template; the
// built-in card is used only when no template is configured at all.
var requiredTemplateFields = []string{
	"daily_storage_fee",
	"weekly_storage_fee",
	"monthly_storage_fee",
	"admin_fee",
}

// SettingsJSON is the on-disk shape. Pointer fields distinguish "absent"
// from zero values.
type SettingsJSON struct {
	InvoluntaryEnabled       *bool                   `json:"involuntary_enabled,omitempty"`
	MaxAdminFee              *float64                `json:"max_admin_fee,omitempty"`
	MaxLienFee               *float64                `json:"max_lien_fee,omitempty"`
	TowStorageExemptionHours *int                    `json:"tow_storage_exemption_hours,omitempty"`
	StorageRounding          string                  `json:"storage_rounding,omitempty"`
	DefaultAdminFee          string                  `json:"default_admin_fee,omitempty"` // empty = use template
	FeeTemplates             map[string]TemplateJSON `json:"fee_templates,omitempty"`
}

// Settings is a parsed settings document.
type Settings struct {
	raw SettingsJSON
}

// LoadSettings reads the settings file. A missing file yields defaults.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, err
	}
	return ParseSettings(data)
}

// ParseSettings parses a settings document from JSON.
func ParseSettings(data []byte) (*Settings, error) {
	var raw SettingsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return &Settings{raw: raw}, nil
}

// EngineConfig builds the engine configuration, defaults filled in.
func (s *Settings) EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()

	if s.raw.InvoluntaryEnabled != nil {
		cfg.InvoluntaryEnabled = *s.raw.InvoluntaryEnabled
	}
	if s.raw.MaxAdminFee != nil {
		cfg.MaxAdminFee = engine.NewMoney(*s.raw.MaxAdminFee)
	}
	if s.raw.MaxLienFee != nil {
		cfg.MaxLienFee = engine.NewMoney(*s.raw.MaxLienFee)
	}
	if s.raw.TowStorageExemptionHours != nil {
		cfg.TowStorageExemptionHours = *s.raw.TowStorageExemptionHours
	}
	switch engine.RoundingPolicy(s.raw.StorageRounding) {
	case engine.RoundCeil, engine.RoundFloor, engine.RoundProrate:
		cfg.StorageRounding = engine.RoundingPolicy(s.raw.StorageRounding)
	}

	return cfg
}

// FeeRegistry builds the fee registry: built-in card, then configured
// template overrides, then the default-admin-fee override.
func (s *Settings) FeeRegistry() (*fees.Registry, error) {
	registry := fees.NewRegistry()

	for name, tpl := range s.raw.FeeTemplates {
		for _, field := range requiredTemplateFields {
			if _, ok := tpl[field]; !ok {
				return nil, engine.NewMissingTemplateFieldError(name, field)
			}
		}
		registry.SetTemplate(engine.VehicleType(name), templateDefaults(tpl))
	}

	if s.raw.DefaultAdminFee != "" {
		override := engine.MustParseMoney(s.raw.DefaultAdminFee)
		registry.SetAdminOverride(override)
	}

	return registry, nil
}

// templateDefaults maps the flat settings keys onto the rate card. Keys
// beyond the required set default to zero when absent (missing individual
// field, not a missing template).
func templateDefaults(tpl TemplateJSON) fees.Defaults {
	m := func(key string) engine.Money { return engine.NewMoney(tpl[key]) }
	return fees.Defaults{
		DailyStorage:   m("daily_storage_fee"),
		WeeklyStorage:  m("weekly_storage_fee"),
		MonthlyStorage: m("monthly_storage_fee"),

		TowBase:       m("tow_base_fee"),
		TowMileage:    m("tow_mileage_rate"),
		TowHourlyRate: m("tow_hourly_labor_rate"),
		AfterHours:    m("after_hours_fee"),

		RecoveryHandling: m("recovery_handling_fee"),
		LienProcessing:   m("lien_processing_fee"),
		CertMail:         m("cert_mail_fee"),
		TitleSearch:      m("title_search_fee"),
		DMV:              m("dmv_fee"),
		Sale:             m("sale_fee"),

		Admin:     m("admin_fee"),
		LaborRate: m("labor_rate"),
	}
}
