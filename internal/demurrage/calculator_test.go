package demurrage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightops-pro/boxtrace/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func testRules() models.FreeTimeRules {
	return models.FreeTimeRules{
		PortFreeDays:    4,
		PerDiemFreeDays: 3,
		WeekendCounts:   false,
		HolidayCounts:   false,
		DemurrageRates:  models.RateSchedule{Days1To5: 150, Days6To10: 300, Days11Plus: 600},
		PerDiemRates:    models.RateSchedule{Days1To5: 125, Days6To10: 175, Days11Plus: 225},
	}
}

func TestCalculateLastFreeDay(t *testing.T) {
	tests := []struct {
		name          string
		discharge     time.Time
		freeDays      int
		weekendCounts bool
		holidayCounts bool
		want          time.Time
	}{
		{
			// Monday discharge, four chargeable weekdays forward.
			name:      "weekdays only from Monday",
			discharge: date(2024, time.January, 15),
			freeDays:  4,
			want:      date(2024, time.January, 19),
		},
		{
			// Friday discharge: the weekend is skipped before counting starts.
			name:      "weekend skipped after Friday discharge",
			discharge: date(2024, time.March, 1),
			freeDays:  4,
			want:      date(2024, time.March, 7),
		},
		{
			// With weekends counting, four calendar days from Friday lands on Tuesday.
			name:          "weekends count",
			discharge:     date(2024, time.March, 1),
			freeDays:      4,
			weekendCounts: true,
			holidayCounts: true,
			want:          date(2024, time.March, 5),
		},
		{
			// July 4th 2024 falls mid-window and is skipped.
			name:      "holiday skipped",
			discharge: date(2024, time.July, 1), // Monday
			freeDays:  4,
			want:      date(2024, time.July, 8),
		},
		{
			name:      "zero free days means discharge day is the LFD",
			discharge: date(2024, time.March, 1),
			freeDays:  0,
			want:      date(2024, time.March, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateLastFreeDay(tt.discharge, tt.freeDays, tt.weekendCounts, tt.holidayCounts)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountChargeableDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"end before start", date(2024, time.March, 8), date(2024, time.March, 7), 0},
		{"single chargeable day", date(2024, time.March, 8), date(2024, time.March, 8), 1},
		{"single weekend day", date(2024, time.March, 9), date(2024, time.March, 9), 0},
		{"full week skips weekend", date(2024, time.March, 4), date(2024, time.March, 10), 5},
		{"window with holiday", date(2024, time.July, 1), date(2024, time.July, 5), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountChargeableDays(tt.start, tt.end, false, false)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Years beyond the enumerated holiday table have no holidays at all.
func TestHolidayTableFallthrough(t *testing.T) {
	assert.True(t, IsHoliday(date(2024, time.December, 25)))
	assert.False(t, IsHoliday(date(2100, time.December, 25)))

	// A 2100 window over Christmas counts every weekday.
	got := CountChargeableDays(date(2100, time.December, 20), date(2100, time.December, 26), false, false)
	assert.Equal(t, 5, got)
}

func TestCalculateTieredCharges(t *testing.T) {
	rates := models.RateSchedule{Days1To5: 150, Days6To10: 300, Days11Plus: 600}

	tests := []struct {
		days      int
		wantTotal float64
		wantTiers int
	}{
		{0, 0, 0},
		{1, 150, 1},
		{5, 750, 1},
		{6, 750 + 300, 2},
		{10, 750 + 1500, 2},
		{11, 750 + 1500 + 600, 3},
		{20, 750 + 1500 + 6000, 3},
	}

	for _, tt := range tests {
		total, breakdown := CalculateTieredCharges(tt.days, rates)
		assert.Equalf(t, tt.wantTotal, total, "days=%d", tt.days)
		assert.Lenf(t, breakdown, tt.wantTiers, "days=%d", tt.days)
	}
}

// The breakdown must sum exactly to the total for every day count.
func TestTieredChargesSumInvariant(t *testing.T) {
	rates := models.RateSchedule{Days1To5: 185, Days6To10: 370, Days11Plus: 740}

	for days := 0; days <= 30; days++ {
		total, breakdown := CalculateTieredCharges(days, rates)

		sum := 0.0
		for _, line := range breakdown {
			sum += line.Amount
			assert.Equal(t, float64(line.Days)*line.Rate, line.Amount)
		}
		assert.Equalf(t, total, sum, "days=%d", days)
	}
}

// A zero-rate tier still consumes its day allocation but emits no line item.
func TestTieredChargesZeroRateTier(t *testing.T) {
	rates := models.RateSchedule{Days1To5: 0, Days6To10: 300, Days11Plus: 600}

	total, breakdown := CalculateTieredCharges(7, rates)
	require.Len(t, breakdown, 1)
	assert.Equal(t, 2, breakdown[0].Days)
	assert.Equal(t, 600.0, total)
}

func TestClassifyWarning(t *testing.T) {
	tests := []struct {
		days int
		want models.WarningLevel
	}{
		{-5, models.WarningOverdue},
		{-1, models.WarningOverdue},
		{0, models.WarningUrgent},
		{1, models.WarningUrgent},
		{2, models.WarningWarning},
		{3, models.WarningWarning},
		{4, models.WarningNone},
		{30, models.WarningNone},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, ClassifyWarning(tt.days), "days=%d", tt.days)
	}
}

// Friday discharge, 4 free days, no outgate: one chargeable day past the LFD
// by the following Friday, billed at the tier-1 rate and flagged overdue.
func TestCalculateEndToEnd(t *testing.T) {
	discharge := date(2024, time.March, 1)
	now := date(2024, time.March, 8)
	rules := testRules()

	calc := Calculate(Input{
		ContainerNumber: "MSCU1234567",
		PortCode:        "USLAX",
		DischargeDate:   &discharge,
	}, rules, now)

	require.NotNil(t, calc.LastFreeDay)
	assert.Equal(t, date(2024, time.March, 7), *calc.LastFreeDay)
	assert.Equal(t, 1, calc.DemurrageDays)
	assert.Equal(t, rules.DemurrageRates.Days1To5, calc.DemurrageAmount)
	assert.True(t, calc.IsIncurringCharges)
	assert.Equal(t, models.WarningOverdue, calc.WarningLevel)

	require.NotNil(t, calc.DaysUntilLFD)
	assert.Equal(t, -1, *calc.DaysUntilLFD)

	assert.Equal(t, 0, calc.PerDiemDays)
	assert.Equal(t, calc.DemurrageAmount+calc.PerDiemAmount+calc.DetentionAmount, calc.TotalAmount)
}

func TestCalculateOutgateBeforeLFD(t *testing.T) {
	discharge := date(2024, time.March, 1)
	outgate := date(2024, time.March, 5) // before the March 7 LFD
	now := date(2024, time.March, 20)

	calc := Calculate(Input{
		ContainerNumber: "MSCU1234567",
		PortCode:        "USLAX",
		DischargeDate:   &discharge,
		OutgateDate:     &outgate,
	}, testRules(), now)

	assert.Equal(t, 0, calc.DemurrageDays)
	assert.Equal(t, 0.0, calc.DemurrageAmount)
	// Per diem still runs from the outgate: per-diem LFD is March 8
	// (3 chargeable days from March 5), chargeable March 11..20 = 8 days.
	assert.Equal(t, 8, calc.PerDiemDays)
	assert.Equal(t, 5*125.0+3*175.0, calc.PerDiemAmount)
}

func TestCalculatePerDiemStopsAtEmptyReturn(t *testing.T) {
	discharge := date(2024, time.March, 1)
	outgate := date(2024, time.March, 5)
	emptyReturn := date(2024, time.March, 12)
	now := date(2024, time.April, 1)

	calc := Calculate(Input{
		ContainerNumber: "MSCU1234567",
		PortCode:        "USLAX",
		DischargeDate:   &discharge,
		OutgateDate:     &outgate,
		EmptyReturnDate: &emptyReturn,
	}, testRules(), now)

	// Per-diem LFD March 8; chargeable March 11 and March 12 only.
	assert.Equal(t, 2, calc.PerDiemDays)
}

func TestCalculateExplicitLFDOverride(t *testing.T) {
	discharge := date(2024, time.March, 1)
	lfd := date(2024, time.March, 11)
	now := date(2024, time.March, 8)

	calc := Calculate(Input{
		ContainerNumber: "MSCU1234567",
		PortCode:        "USLAX",
		DischargeDate:   &discharge,
		LastFreeDay:     &lfd,
	}, testRules(), now)

	require.NotNil(t, calc.LastFreeDay)
	assert.Equal(t, lfd, *calc.LastFreeDay)
	assert.Equal(t, 0, calc.DemurrageDays)
	require.NotNil(t, calc.DaysUntilLFD)
	assert.Equal(t, 3, *calc.DaysUntilLFD)
	assert.Equal(t, models.WarningWarning, calc.WarningLevel)
}

func TestCalculateNoDatesAtAll(t *testing.T) {
	calc := Calculate(Input{ContainerNumber: "MSCU1234567", PortCode: "USLAX"}, testRules(), date(2024, time.March, 8))

	assert.Nil(t, calc.LastFreeDay)
	assert.Nil(t, calc.DaysUntilLFD)
	assert.Equal(t, 0.0, calc.TotalAmount)
	assert.False(t, calc.IsIncurringCharges)
	assert.Equal(t, models.WarningNone, calc.WarningLevel)
}

// Two calls with identical inputs and the same "now" must agree exactly.
func TestCalculateIdempotent(t *testing.T) {
	discharge := date(2024, time.March, 1)
	outgate := date(2024, time.March, 12)
	now := date(2024, time.March, 25)

	input := Input{
		ContainerNumber: "MSCU1234567",
		PortCode:        "USLAX",
		DischargeDate:   &discharge,
		OutgateDate:     &outgate,
	}

	first := Calculate(input, testRules(), now)
	second := Calculate(input, testRules(), now)
	assert.Equal(t, first, second)
}

func TestCalculateFromLookupTrustsReportedAmount(t *testing.T) {
	lfd := date(2024, time.March, 7)
	reported := 925.0
	now := date(2024, time.March, 8)

	result := &models.ContainerLookupResult{
		Success:         true,
		ContainerNumber: "MSCU1234567",
		PortCode:        "USLAX",
		LastFreeDay:     &lfd,
		DemurrageAmount: &reported,
	}

	calc := CalculateFromLookup(result, testRules(), now)

	assert.Equal(t, reported, calc.DemurrageAmount)
	assert.Equal(t, reported, calc.TotalAmount)
	assert.True(t, calc.IsIncurringCharges)
	assert.Equal(t, models.WarningOverdue, calc.WarningLevel)

	// Breakdown still sums to the trusted total.
	sum := 0.0
	for _, line := range calc.DemurrageBreakdown {
		sum += line.Amount
	}
	assert.Equal(t, calc.DemurrageAmount, sum)
}

func TestCalculateFromLookupRecomputesWithoutReportedAmount(t *testing.T) {
	discharge := date(2024, time.March, 1)
	now := date(2024, time.March, 8)

	result := &models.ContainerLookupResult{
		Success:         true,
		ContainerNumber: "MSCU1234567",
		PortCode:        "USLAX",
		DischargeDate:   &discharge,
	}

	calc := CalculateFromLookup(result, testRules(), now)

	require.NotNil(t, calc.LastFreeDay)
	assert.Equal(t, date(2024, time.March, 7), *calc.LastFreeDay)
	assert.Equal(t, 1, calc.DemurrageDays)
}

func TestDaysUntilLFDIgnoresTimeOfDay(t *testing.T) {
	lfd := time.Date(2024, time.March, 10, 23, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.March, 8, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysUntilLFD(lfd, now))
}
