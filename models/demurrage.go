package models

import "time"

// WarningLevel classifies how close a container is to incurring (or already
// incurring) storage charges. It is a pure function of days-until-LFD.
type WarningLevel string

const (
	WarningNone    WarningLevel = "none"
	WarningWarning WarningLevel = "warning"
	WarningUrgent  WarningLevel = "urgent"
	WarningOverdue WarningLevel = "overdue"
)

// RateSchedule is a three-tier daily rate table. Tier boundaries are fixed:
// days 1-5, days 6-10, and day 11 onward.
type RateSchedule struct {
	Days1To5   float64 `json:"days_1_5" yaml:"days_1_5"`
	Days6To10  float64 `json:"days_6_10" yaml:"days_6_10"`
	Days11Plus float64 `json:"days_11_plus" yaml:"days_11_plus"`
}

// FreeTimeRules is the per-port configuration driving free-time and charge
// computation. Values are read-only once loaded; ports without an override
// use the published defaults.
type FreeTimeRules struct {
	PortFreeDays    int          `json:"port_free_days" yaml:"port_free_days"`
	PerDiemFreeDays int          `json:"per_diem_free_days" yaml:"per_diem_free_days"`
	WeekendCounts   bool         `json:"weekend_counts" yaml:"weekend_counts"`
	HolidayCounts   bool         `json:"holiday_counts" yaml:"holiday_counts"`
	DemurrageRates  RateSchedule `json:"demurrage_rates" yaml:"demurrage_rates"`
	PerDiemRates    RateSchedule `json:"per_diem_rates" yaml:"per_diem_rates"`
}

// ChargeBreakdown is one line item of a tiered charge. A list of breakdowns
// always sums exactly to the total computed for the same day count.
type ChargeBreakdown struct {
	Tier        int     `json:"tier"`
	Days        int     `json:"days"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// DemurrageCalculation is the aggregate result of one charge computation.
// It is derived fresh on every request from the source dates; it is never
// stored as a source of truth.
type DemurrageCalculation struct {
	ContainerNumber string `json:"container_number"`
	PortCode        string `json:"port_code"`

	DischargeDate   *time.Time `json:"discharge_date,omitempty"`
	LastFreeDay     *time.Time `json:"last_free_day,omitempty"`
	OutgateDate     *time.Time `json:"outgate_date,omitempty"`
	EmptyReturnDate *time.Time `json:"empty_return_date,omitempty"`

	DemurrageDays      int               `json:"demurrage_days"`
	DemurrageAmount    float64           `json:"demurrage_amount"`
	DemurrageBreakdown []ChargeBreakdown `json:"demurrage_breakdown"`

	PerDiemDays      int               `json:"per_diem_days"`
	PerDiemAmount    float64           `json:"per_diem_amount"`
	PerDiemBreakdown []ChargeBreakdown `json:"per_diem_breakdown"`

	// Detention is reserved for street-dwell charges; always zero for now.
	DetentionDays   int     `json:"detention_days"`
	DetentionAmount float64 `json:"detention_amount"`

	TotalAmount        float64      `json:"total_amount"`
	IsIncurringCharges bool         `json:"is_incurring_charges"`
	DaysUntilLFD       *int         `json:"days_until_lfd,omitempty"`
	WarningLevel       WarningLevel `json:"warning_level"`
}
