package engine

// =============================================================================
// CONTRACT TYPE CLASSIFIER
// =============================================================================

// EffectiveType resolves the classification actually used for calculation.
//
// Recovery work requires a Florida wrecker license. When the licensing flag
// is off, a contract stored as Recovery is treated as Storage for every
// downstream rule - fees, timeline, past-due - without altering the stored
// type. Total function: any other input passes through unchanged.
func EffectiveType(stored ContractType, involuntaryEnabled bool) ContractType {
	if stored == TypeRecovery && !involuntaryEnabled {
		return TypeStorage
	}
	return stored
}
