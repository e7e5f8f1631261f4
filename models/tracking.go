package models

import "time"

// ContainerStatus is the canonical lifecycle status of a container, normalized
// from each terminal operating system's own status vocabulary.
type ContainerStatus string

const (
	StatusAdvised      ContainerStatus = "ADVISED"
	StatusInTransit    ContainerStatus = "IN_TRANSIT"
	StatusDischarged   ContainerStatus = "DISCHARGED"
	StatusInYard       ContainerStatus = "IN_YARD"
	StatusAvailable    ContainerStatus = "AVAILABLE"
	StatusOnHold       ContainerStatus = "ON_HOLD"
	StatusOutgate      ContainerStatus = "OUTGATE"
	StatusDeparted     ContainerStatus = "DEPARTED"
	StatusNotInNetwork ContainerStatus = "NOT_IN_NETWORK"
	StatusUnknown      ContainerStatus = "UNKNOWN"
)

// Description returns a human-readable summary for a status.
func (s ContainerStatus) Description() string {
	switch s {
	case StatusAdvised:
		return "Advised on inbound vessel, not yet arrived"
	case StatusInTransit:
		return "On the water, en route to port"
	case StatusDischarged:
		return "Discharged from vessel"
	case StatusInYard:
		return "In terminal yard"
	case StatusAvailable:
		return "Available for pickup"
	case StatusOnHold:
		return "Held at terminal, not available for pickup"
	case StatusOutgate:
		return "Picked up, departed terminal gate"
	case StatusDeparted:
		return "Departed port area"
	case StatusNotInNetwork:
		return "Not found in terminal network"
	default:
		return "Status unknown"
	}
}

// ContainerLookupResult is the canonical tracking record produced by one
// adapter call. It is built once and never mutated afterwards; callers that
// need a different view construct a new value.
type ContainerLookupResult struct {
	Success         bool            `json:"success"`
	ContainerNumber string          `json:"container_number"`
	PortCode        string          `json:"port_code,omitempty"`
	Terminal        string          `json:"terminal,omitempty"`
	Error           string          `json:"error,omitempty"`
	Status          ContainerStatus `json:"status"`
	StatusText      string          `json:"status_description,omitempty"`
	IsAvailable     bool            `json:"is_available"`
	Holds           []string        `json:"holds"`

	VesselName   string     `json:"vessel_name,omitempty"`
	VesselVoyage string     `json:"vessel_voyage,omitempty"`
	VesselETA    *time.Time `json:"vessel_eta,omitempty"`
	VesselATA    *time.Time `json:"vessel_ata,omitempty"`

	DischargeDate *time.Time `json:"discharge_date,omitempty"`
	LastFreeDay   *time.Time `json:"last_free_day,omitempty"`
	EmptyReturnBy *time.Time `json:"empty_return_by,omitempty"`
	OutgateDate   *time.Time `json:"outgate_date,omitempty"`

	Size          string `json:"size,omitempty"`
	ContainerType string `json:"container_type,omitempty"`
	CarrierSCAC   string `json:"carrier_scac,omitempty"`

	// Charges the terminal computed on its own, when its API exposes them.
	DemurrageAmount *float64 `json:"demurrage_amount,omitempty"`
	PerDiemAmount   *float64 `json:"per_diem_amount,omitempty"`

	// TraceID ties the result back to one orchestrated lookup.
	TraceID   string    `json:"trace_id,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// FailedLookup builds a failure result for a container that could not be
// resolved. The status defaults to NOT_IN_NETWORK so callers can treat
// "nowhere to be found" and "terminal said no" uniformly.
func FailedLookup(containerNumber, portCode, terminal, errMsg string) *ContainerLookupResult {
	return &ContainerLookupResult{
		Success:         false,
		ContainerNumber: containerNumber,
		PortCode:        portCode,
		Terminal:        terminal,
		Error:           errMsg,
		Status:          StatusNotInNetwork,
		StatusText:      StatusNotInNetwork.Description(),
		Holds:           []string{},
		CheckedAt:       time.Now().UTC(),
	}
}

// ContainerEvent is one entry in a terminal's event history for a container.
type ContainerEvent struct {
	ContainerNumber string    `json:"container_number"`
	PortCode        string    `json:"port_code"`
	Terminal        string    `json:"terminal,omitempty"`
	EventType       string    `json:"event_type"`
	Description     string    `json:"description,omitempty"`
	Location        string    `json:"location,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// VesselSchedule is one vessel call at a terminal. Rail ramps and other
// adapters without a vessel concept return no schedules at all.
type VesselSchedule struct {
	VesselName string     `json:"vessel_name"`
	Voyage     string     `json:"voyage,omitempty"`
	PortCode   string     `json:"port_code"`
	Terminal   string     `json:"terminal,omitempty"`
	ETA        *time.Time `json:"eta,omitempty"`
	ETD        *time.Time `json:"etd,omitempty"`
	Berth      string     `json:"berth,omitempty"`
}
