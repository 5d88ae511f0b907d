package audit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/CareO-HQ/careo-sub009/audit"
	"github.com/CareO-HQ/careo-sub009/models"
)

func TestFrequencyDays(t *testing.T) {
	tests := []struct {
		freq models.Frequency
		days int
	}{
		{models.FrequencyMonthly, 30},
		{models.FrequencyQuarterly, 90},
		{models.FrequencySixMonths, 180},
		{models.FrequencyYearly, 365},
		// Unmapped labels fall back to 30 days.
		{models.FrequencyDaily, 30},
		{models.FrequencyWeekly, 30},
		{models.FrequencyAdHoc, 30},
		{models.Frequency("fortnightly"), 30},
	}
	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			assert.Equal(t, tt.days, audit.FrequencyDays(tt.freq))
		})
	}
}

func TestNextDueIsDeterministic(t *testing.T) {
	completed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		audit.NextDue(completed, models.FrequencyMonthly))
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		audit.NextDue(completed, models.FrequencyQuarterly))
	assert.Equal(t, completed.Add(30*24*time.Hour),
		audit.NextDue(completed, models.Frequency("unknown")))
}
