package service

import (
	"testing"
	"time"

	"github.com/atlas-pm/portfolio-backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifyRisk(t *testing.T) {
	start := date(2025, time.January, 1)

	tests := []struct {
		name     string
		budget   int64
		end      time.Time
		expected string
	}{
		{"low budget and short schedule", 100_000, start.AddDate(0, 3, 0), types.RiskLow},
		{"budget just over the low ceiling", 100_001, start.AddDate(0, 3, 0), types.RiskMedium},
		{"high budget boundary stays medium", 500_000, start.AddDate(0, 6, 0), types.RiskMedium},
		{"budget over the high floor", 500_001, start.AddDate(0, 3, 0), types.RiskHigh},
		{"long schedule forces high", 100_000, start.AddDate(0, 7, 0), types.RiskHigh},
		{"cheap but long is high via months", 1_000, start.AddDate(0, 8, 0), types.RiskHigh},
		{"mid budget mid schedule", 250_000, start.AddDate(0, 5, 0), types.RiskMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyRisk(decimal.NewFromInt(tt.budget), start, tt.end)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassifyRisk_LowWinsOverHigh(t *testing.T) {
	// A huge budget with a 7-month schedule is HIGH; a tiny budget with
	// the same schedule is also HIGH because LOW requires months <= 3.
	start := date(2025, time.March, 10)
	got := ClassifyRisk(decimal.NewFromInt(500_000), start, start.AddDate(0, 7, 0))
	assert.Equal(t, types.RiskHigh, got)
}

func TestWholeMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{"exact months", date(2025, time.January, 15), date(2025, time.April, 15), 3},
		{"one day short of a month", date(2025, time.January, 15), date(2025, time.April, 14), 2},
		{"partial month truncated", date(2025, time.January, 1), date(2025, time.February, 27), 1},
		{"same day", date(2025, time.January, 1), date(2025, time.January, 1), 0},
		{"across year boundary", date(2024, time.November, 5), date(2025, time.February, 5), 3},
		{"end-of-month stub", date(2025, time.January, 31), date(2025, time.February, 28), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, wholeMonthsBetween(tt.start, tt.end))
		})
	}
}
