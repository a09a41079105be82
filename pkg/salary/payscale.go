package salary

import (
	"time"
)

// payStep is one row of the published pay-scale table: an hourly rate for a
// wage group, valid from its effective date until superseded.
type payStep struct {
	group         string
	effectiveFrom time.Time
	hourlyRate    float64
}

// DefaultWageGroup is used when the caller has no group information.
const DefaultWageGroup = "B"

// Published collective-agreement hourly rates per wage group. Ordered by
// effective date within each group; selection picks the latest step whose
// effective date is not in the future.
var payScaleTable = []payStep{
	{group: "A", effectiveFrom: date(2023, 6, 1), hourlyRate: 9.38},
	{group: "A", effectiveFrom: date(2024, 6, 1), hourlyRate: 9.60},
	{group: "A", effectiveFrom: date(2025, 6, 1), hourlyRate: 9.84},

	{group: "B", effectiveFrom: date(2023, 6, 1), hourlyRate: 10.34},
	{group: "B", effectiveFrom: date(2024, 6, 1), hourlyRate: 10.57},
	{group: "B", effectiveFrom: date(2025, 6, 1), hourlyRate: 10.83},

	{group: "C", effectiveFrom: date(2023, 6, 1), hourlyRate: 11.27},
	{group: "C", effectiveFrom: date(2024, 6, 1), hourlyRate: 11.52},
	{group: "C", effectiveFrom: date(2025, 6, 1), hourlyRate: 11.81},
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DefaultRate returns the published hourly rate for a wage group at the
// given moment. Unknown groups fall back to the default group so the
// engine can always produce an estimate when only hours are known.
func DefaultRate(group string, now time.Time) float64 {
	if group == "" {
		group = DefaultWageGroup
	}

	var best *payStep
	for i := range payScaleTable {
		step := &payScaleTable[i]
		if step.group != group {
			continue
		}
		if step.effectiveFrom.After(now) {
			continue
		}
		if best == nil || step.effectiveFrom.After(best.effectiveFrom) {
			best = step
		}
	}

	if best == nil {
		if group != DefaultWageGroup {
			return DefaultRate(DefaultWageGroup, now)
		}
		// Before the first table step: use the oldest known rate.
		return payScaleTable[3].hourlyRate
	}
	return best.hourlyRate
}
