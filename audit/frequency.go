// audit/frequency.go
package audit

import (
	"time"

	"github.com/CareO-HQ/careo-sub009/models"
)

// frequencyDays maps a cadence label to the day count used for next-due
// scheduling. Labels without an entry (daily, weekly, adhoc, or anything
// unexpected) take the 30-day fallback.
var frequencyDays = map[models.Frequency]int{
	models.FrequencyMonthly:   30,
	models.FrequencyQuarterly: 90,
	models.FrequencySixMonths: 180,
	models.FrequencyYearly:    365,
}

const fallbackFrequencyDays = 30

// FrequencyDays returns the scheduling day count for a frequency label.
func FrequencyDays(f models.Frequency) int {
	if days, ok := frequencyDays[f]; ok {
		return days
	}
	return fallbackFrequencyDays
}

// NextDue computes the next audit due date from a completion time.
func NextDue(completedAt time.Time, f models.Frequency) time.Time {
	return completedAt.Add(time.Duration(FrequencyDays(f)) * 24 * time.Hour)
}

func validFrequency(f models.Frequency) bool {
	switch f {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly,
		models.FrequencyQuarterly, models.FrequencySixMonths, models.FrequencyYearly,
		models.FrequencyAdHoc:
		return true
	}
	return false
}
