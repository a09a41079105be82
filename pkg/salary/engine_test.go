package salary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRate(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name   string
		text   string
		want   float64
		wantOK bool
	}{
		{
			name:   "russian rate keyword with comma decimal",
			text:   "ставка 12,26",
			want:   12.26,
			wantOK: true,
		},
		{
			name:   "amount out of wage band",
			text:   "I earn 500 euros",
			wantOK: false,
		},
		{
			name:   "finnish rate keyword",
			text:   "tuntipalkka on 10.57",
			want:   10.57,
			wantOK: true,
		},
		{
			name:   "bare decimal in band",
			text:   "12,26",
			want:   12.26,
			wantOK: true,
		},
		{
			name:   "bare whole number without marker",
			text:   "25",
			wantOK: false,
		},
		{
			name:   "whole number with currency marker",
			text:   "I get 12 € per hour",
			want:   12,
			wantOK: true,
		},
		{
			name:   "too low even with marker",
			text:   "rate 2.50",
			wantOK: false,
		},
		{
			name:   "no numbers at all",
			text:   "how much will I earn?",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.ExtractRate(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestExtractHours(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name   string
		text   string
		want   float64
		wantOK bool
	}{
		{
			name:   "direct english",
			text:   "25 h/week",
			want:   25,
			wantOK: true,
		},
		{
			name:   "compound day times week",
			text:   "15 hours per day, 6 days per week",
			want:   90,
			wantOK: true,
		},
		{
			name:   "finnish direct",
			text:   "teen 30 tuntia viikossa",
			want:   30,
			wantOK: true,
		},
		{
			name:   "russian direct",
			text:   "работаю 20 часов в неделю",
			want:   20,
			wantOK: true,
		},
		{
			name:   "compound out of band",
			text:   "24 hours per day, 7 days per week",
			wantOK: false,
		},
		{
			name:   "no hours phrasing",
			text:   "my rate is 12.26",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.ExtractHours(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestEstimate(t *testing.T) {
	e := NewEngine()

	est := e.Estimate(12.26, 25)

	// rate × hours × 52/12 and rate × hours × 4, both rounded to 2 dp.
	assert.InDelta(t, 1328.17, est.ByAverageWeeksPerMonth, 1e-9)
	assert.InDelta(t, 1226.00, est.ByFourWeekMonth, 1e-9)
}

func TestMonthlyEstimate_NoHours(t *testing.T) {
	e := NewEngine()

	_, _, err := e.MonthlyEstimate(12.26, 0, DefaultWageGroup)
	require.ErrorIs(t, err, ErrNoHours)
}

func TestMonthlyEstimate_DefaultRate(t *testing.T) {
	now := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	e := NewEngineAt(func() time.Time { return now })

	est, usedRate, err := e.MonthlyEstimate(0, 25, "B")
	require.NoError(t, err)

	// Group B step effective 2024-06-01.
	assert.InDelta(t, 10.57, usedRate, 1e-9)
	assert.InDelta(t, e.Estimate(10.57, 25).ByFourWeekMonth, est.ByFourWeekMonth, 1e-9)
}

func TestDefaultRate_TransitionDates(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want float64
	}{
		{"before 2024 step", time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), 10.34},
		{"on 2024 step", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 10.57},
		{"after 2025 step", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 10.83},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DefaultRate("B", tt.now), 1e-9)
		})
	}
}

func TestInStrictHoursBand(t *testing.T) {
	assert.True(t, InStrictHoursBand(25))
	assert.False(t, InStrictHoursBand(3))
	assert.False(t, InStrictHoursBand(90))
}
