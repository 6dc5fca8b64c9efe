/*
config.go - Engine configuration and statutory schedules

PURPOSE:
  Gathers every tunable the calculations depend on: the licensing flag,
  Florida fee caps, the 6-hour storage exemption, the two lien schedules,
  and the storage-period rounding policy.

DESIGN:
  The configuration is an explicit value threaded through every engine call.
  There is no package-level flag: callers resolve the config once (settings
  collaborator) and pass it down, which keeps each function independently
  testable.
*/
package engine

// RoundingPolicy governs how elapsed days convert to billed weekly/monthly
// periods. The original billing behavior rounds partial periods up; the exact
// rule was never nailed down in documentation, so it is configurable.
type RoundingPolicy string

const (
	// RoundCeil bills any partial period as a full one (day 8 of a weekly
	// contract bills 2 weeks). Default.
	RoundCeil RoundingPolicy = "ceil"
	// RoundFloor bills only completed periods (day 8 bills 1 week).
	RoundFloor RoundingPolicy = "floor"
	// RoundProrate bills the exact fraction (day 8 bills 8/7 of a week).
	RoundProrate RoundingPolicy = "prorate"
)

// StorageSchedule is the lenient day-count schedule for Storage/Tow
// contracts. Milestones are pure date offsets from the start date; missing a
// notice never invalidates anything, it only produces recommendations.
type StorageSchedule struct {
	FirstNoticeDays  int
	SecondNoticeDays int
	LienEligibleDays int
	SaleEligibleDays int
}

// RecoverySchedule is the strict FL 713.78 schedule for Recovery contracts.
//
// NoticeDeadlineDays is counted in CALENDAR days. The statute's prose says
// "business days" but every working implementation of this system used
// calendar-day arithmetic; the stricter reading would need a holiday
// calendar the business never maintained.
type RecoverySchedule struct {
	NoticeDeadlineDays       int
	SaleWaitNewVehicleDays   int // vehicles younger than the age threshold
	SaleWaitOldVehicleDays   int // vehicles at or past the age threshold
	MinNoticeToSaleDays      int
	VehicleAgeThresholdYears int
}

type Config struct {
	// InvoluntaryEnabled mirrors the wrecker-license flag. When false, every
	// Recovery contract is treated as Storage for all calculations.
	InvoluntaryEnabled bool

	// Florida statutory caps. Values above the cap are capped at calculation
	// time, never rejected and never written back.
	MaxAdminFee Money
	MaxLienFee  Money

	// No storage charge when a towed vehicle is on the lot for strictly less
	// than this many hours.
	TowStorageExemptionHours int

	StorageRounding RoundingPolicy
	Storage         StorageSchedule
	Recovery        RecoverySchedule

	// Past-due grace periods.
	StorageGraceDays int // storage: balance outstanding past this many days
	TowGraceDays     int // tow: fixed payment expectation, no lien process
}

// DefaultConfig returns the production Florida configuration.
func DefaultConfig() Config {
	return Config{
		InvoluntaryEnabled:       false,
		MaxAdminFee:              NewMoneyFromInt(250),
		MaxLienFee:               NewMoneyFromInt(250),
		TowStorageExemptionHours: 6,
		StorageRounding:          RoundCeil,
		Storage: StorageSchedule{
			FirstNoticeDays:  30,
			SecondNoticeDays: 60,
			LienEligibleDays: 90,
			SaleEligibleDays: 120,
		},
		Recovery: RecoverySchedule{
			NoticeDeadlineDays:       7,
			SaleWaitNewVehicleDays:   50,
			SaleWaitOldVehicleDays:   35,
			MinNoticeToSaleDays:      30,
			VehicleAgeThresholdYears: 3,
		},
		StorageGraceDays: 30,
		TowGraceDays:     7,
	}
}
