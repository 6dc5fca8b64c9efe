/*
errors.go - Centralized error types for the engine

ERROR CATEGORIES:
  1. Configuration errors - unknown vehicle type, missing fee template fields.
     These are the ONLY hard failures the core produces; the caller must
     handle them (abort contract creation, prompt for a valid type).
  2. Store errors - missing contract records.
  3. Everything else is a soft validation warning (plain strings from
     Validate), never an error: charge calculation always succeeds.
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownVehicleType is returned when the fee registry is asked for a
	// vehicle type outside the enumerated set.
	ErrUnknownVehicleType = errors.New("unknown vehicle type")

	// ErrMissingTemplateField is returned when a configured fee template
	// omits a required rate. A missing individual field on a contract
	// defaults to zero; a missing template field is a configuration fault.
	ErrMissingTemplateField = errors.New("fee template missing required field")

	// ErrContractNotFound is returned by stores for unknown contract IDs.
	ErrContractNotFound = errors.New("contract not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ConfigurationError reports a fee-schedule configuration fault. It is fatal
// to the specific calculation and is never silently defaulted.
type ConfigurationError struct {
	VehicleType string
	Field       string
	err         error
}

func NewUnknownVehicleTypeError(vehicleType string) *ConfigurationError {
	return &ConfigurationError{VehicleType: vehicleType, err: ErrUnknownVehicleType}
}

func NewMissingTemplateFieldError(vehicleType, field string) *ConfigurationError {
	return &ConfigurationError{VehicleType: vehicleType, Field: field, err: ErrMissingTemplateField}
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("fee template for %q missing required field %q", e.VehicleType, e.Field)
	}
	return fmt.Sprintf("unknown vehicle type %q", e.VehicleType)
}

func (e *ConfigurationError) Unwrap() error { return e.err }

// NotFoundError reports a missing contract with its ID.
type NotFoundError struct {
	ContractID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("contract %d not found", e.ContractID)
}

func (e *NotFoundError) Unwrap() error { return ErrContractNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConfiguration returns true for fee-schedule configuration faults.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrUnknownVehicleType) || errors.Is(err, ErrMissingTemplateField)
}

// IsNotFound returns true if the error indicates a missing contract.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrContractNotFound)
}
