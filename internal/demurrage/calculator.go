// Package demurrage computes storage and rental charges for containers that
// overstay their free time: business-day-aware last-free-day windows, tiered
// charge amounts and urgency classification.
//
// Every function here is pure with respect to the clock: "now" is always an
// argument, so two calls with identical inputs produce identical output.
package demurrage

import (
	"fmt"
	"time"

	"github.com/freightops-pro/boxtrace/models"
)

// Input carries the source dates for one calculation. LastFreeDay, when set,
// overrides the LFD derived from the discharge date (terminals that publish
// their own LFD are authoritative for it).
type Input struct {
	ContainerNumber string
	PortCode        string
	DischargeDate   *time.Time
	OutgateDate     *time.Time
	EmptyReturnDate *time.Time
	LastFreeDay     *time.Time
}

// dateOnly truncates a timestamp to its calendar date in UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// chargeable reports whether a calendar day counts toward free time and
// charges under the given rules.
func chargeable(d time.Time, weekendCounts, holidayCounts bool) bool {
	if !weekendCounts && IsWeekend(d) {
		return false
	}
	if !holidayCounts && IsHoliday(d) {
		return false
	}
	return true
}

// CalculateLastFreeDay walks forward one calendar day at a time starting the
// day after discharge, counting only chargeable days, until freeDays have
// been consumed. The date where the count lands is the Last Free Day. This
// is "skip N chargeable days forward", not "add N calendar days".
func CalculateLastFreeDay(dischargeDate time.Time, freeDays int, weekendCounts, holidayCounts bool) time.Time {
	day := dateOnly(dischargeDate)
	if freeDays <= 0 {
		return day
	}

	counted := 0
	for counted < freeDays {
		day = day.AddDate(0, 0, 1)
		if chargeable(day, weekendCounts, holidayCounts) {
			counted++
		}
	}
	return day
}

// CountChargeableDays counts chargeable days between start and end, both
// endpoints included once truncated to calendar dates. A window whose end
// precedes its start counts zero.
func CountChargeableDays(start, end time.Time, weekendCounts, holidayCounts bool) int {
	s := dateOnly(start)
	e := dateOnly(end)
	if e.Before(s) {
		return 0
	}

	count := 0
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		if chargeable(d, weekendCounts, holidayCounts) {
			count++
		}
	}
	return count
}

// tierSize is the width of the first two rate tiers.
const tierSize = 5

// CalculateTieredCharges allocates chargeable days across the three rate
// tiers (days 1-5, 6-10, 11+) and returns the total with one breakdown line
// per active tier. A zero-rate tier consumes its day allocation but emits no
// line item; the breakdown always sums exactly to the total.
func CalculateTieredCharges(days int, rates models.RateSchedule) (float64, []models.ChargeBreakdown) {
	breakdown := []models.ChargeBreakdown{}
	if days <= 0 {
		return 0, breakdown
	}

	type tier struct {
		number int
		days   int
		rate   float64
		label  string
	}

	tiers := []tier{
		{1, min(days, tierSize), rates.Days1To5, "Days 1-5"},
		{2, 0, rates.Days6To10, "Days 6-10"},
		{3, 0, rates.Days11Plus, "Days 11+"},
	}
	if days > tierSize {
		tiers[1].days = min(days-tierSize, tierSize)
	}
	if days > 2*tierSize {
		tiers[2].days = days - 2*tierSize
	}

	total := 0.0
	for _, t := range tiers {
		if t.days == 0 || t.rate == 0 {
			continue
		}
		amount := float64(t.days) * t.rate
		total += amount
		breakdown = append(breakdown, models.ChargeBreakdown{
			Tier:        t.number,
			Days:        t.days,
			Rate:        t.rate,
			Amount:      amount,
			Description: fmt.Sprintf("%s: %d day(s) @ $%.2f/day", t.label, t.days, t.rate),
		})
	}
	return total, breakdown
}

// DaysUntilLFD returns the whole-day distance from today to the Last Free
// Day: positive while the LFD is still ahead, negative once it has passed.
func DaysUntilLFD(lfd, now time.Time) int {
	return int(dateOnly(lfd).Sub(dateOnly(now)).Hours() / 24)
}

// ClassifyWarning maps days-until-LFD onto an urgency level. It is the only
// input: overdue below zero, urgent at one day or less, warning at three or
// less, none otherwise.
func ClassifyWarning(daysUntilLFD int) models.WarningLevel {
	switch {
	case daysUntilLFD < 0:
		return models.WarningOverdue
	case daysUntilLFD <= 1:
		return models.WarningUrgent
	case daysUntilLFD <= 3:
		return models.WarningWarning
	default:
		return models.WarningNone
	}
}

// Calculate produces the full charge picture for one container from its
// source dates and the port's free-time rules, evaluated at "now".
//
// Demurrage accrues on chargeable days from the day after the LFD through
// the outgate date (or now, whichever is earlier). Per diem accrues only
// once the container has outgated: a second free-time window is applied from
// the outgate date, and chargeable days run from its end through the empty
// return date (or now).
func Calculate(input Input, rules models.FreeTimeRules, now time.Time) *models.DemurrageCalculation {
	calc := &models.DemurrageCalculation{
		ContainerNumber:    input.ContainerNumber,
		PortCode:           input.PortCode,
		DischargeDate:      input.DischargeDate,
		OutgateDate:        input.OutgateDate,
		EmptyReturnDate:    input.EmptyReturnDate,
		DemurrageBreakdown: []models.ChargeBreakdown{},
		PerDiemBreakdown:   []models.ChargeBreakdown{},
		WarningLevel:       models.WarningNone,
	}

	var lfd *time.Time
	switch {
	case input.LastFreeDay != nil:
		d := dateOnly(*input.LastFreeDay)
		lfd = &d
	case input.DischargeDate != nil:
		d := CalculateLastFreeDay(*input.DischargeDate, rules.PortFreeDays, rules.WeekendCounts, rules.HolidayCounts)
		lfd = &d
	}
	calc.LastFreeDay = lfd

	if lfd != nil {
		demEnd := dateOnly(now)
		if input.OutgateDate != nil && dateOnly(*input.OutgateDate).Before(demEnd) {
			demEnd = dateOnly(*input.OutgateDate)
		}
		demStart := lfd.AddDate(0, 0, 1)
		calc.DemurrageDays = CountChargeableDays(demStart, demEnd, rules.WeekendCounts, rules.HolidayCounts)
		calc.DemurrageAmount, calc.DemurrageBreakdown = CalculateTieredCharges(calc.DemurrageDays, rules.DemurrageRates)

		days := DaysUntilLFD(*lfd, now)
		calc.DaysUntilLFD = &days
		calc.WarningLevel = ClassifyWarning(days)
	}

	if input.OutgateDate != nil {
		pdLFD := CalculateLastFreeDay(*input.OutgateDate, rules.PerDiemFreeDays, rules.WeekendCounts, rules.HolidayCounts)
		pdEnd := dateOnly(now)
		if input.EmptyReturnDate != nil && dateOnly(*input.EmptyReturnDate).Before(pdEnd) {
			pdEnd = dateOnly(*input.EmptyReturnDate)
		}
		calc.PerDiemDays = CountChargeableDays(pdLFD.AddDate(0, 0, 1), pdEnd, rules.WeekendCounts, rules.HolidayCounts)
		calc.PerDiemAmount, calc.PerDiemBreakdown = CalculateTieredCharges(calc.PerDiemDays, rules.PerDiemRates)
	}

	calc.TotalAmount = calc.DemurrageAmount + calc.PerDiemAmount + calc.DetentionAmount
	calc.IsIncurringCharges = calc.TotalAmount > 0

	return calc
}

// CalculateFromLookup derives a calculation from a lookup result. When the
// terminal reports its own demurrage dollar amount, that figure is trusted
// as-is and only the warning level is re-derived from the reported LFD;
// otherwise the full computation runs from the result's dates.
//
// EmptyReturnBy on the result is a deadline, not an actual return date, so
// it never feeds the per-diem window.
func CalculateFromLookup(result *models.ContainerLookupResult, rules models.FreeTimeRules, now time.Time) *models.DemurrageCalculation {
	if result.DemurrageAmount != nil {
		calc := &models.DemurrageCalculation{
			ContainerNumber: result.ContainerNumber,
			PortCode:        result.PortCode,
			DischargeDate:   result.DischargeDate,
			LastFreeDay:     result.LastFreeDay,
			OutgateDate:     result.OutgateDate,
			DemurrageAmount: *result.DemurrageAmount,
			DemurrageBreakdown: []models.ChargeBreakdown{
				{
					Days:        0,
					Rate:        0,
					Amount:      *result.DemurrageAmount,
					Description: "Demurrage as reported by terminal",
				},
			},
			PerDiemBreakdown: []models.ChargeBreakdown{},
			WarningLevel:     models.WarningNone,
		}
		if result.PerDiemAmount != nil {
			calc.PerDiemAmount = *result.PerDiemAmount
			calc.PerDiemBreakdown = append(calc.PerDiemBreakdown, models.ChargeBreakdown{
				Amount:      *result.PerDiemAmount,
				Description: "Per diem as reported by terminal",
			})
		}
		calc.TotalAmount = calc.DemurrageAmount + calc.PerDiemAmount
		calc.IsIncurringCharges = calc.TotalAmount > 0

		if result.LastFreeDay != nil {
			days := DaysUntilLFD(*result.LastFreeDay, now)
			calc.DaysUntilLFD = &days
			calc.WarningLevel = ClassifyWarning(days)
		}
		return calc
	}

	return Calculate(Input{
		ContainerNumber: result.ContainerNumber,
		PortCode:        result.PortCode,
		DischargeDate:   result.DischargeDate,
		OutgateDate:     result.OutgateDate,
		LastFreeDay:     result.LastFreeDay,
	}, rules, now)
}
