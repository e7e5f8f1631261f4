package api

import "github.com/freightops-pro/boxtrace/models"

// TrackRequest asks for one container lookup. PortCode and Terminal are
// optional hints; without a port code the orchestrator searches the priority
// list.
type TrackRequest struct {
	ContainerNumber string `json:"container_number" validate:"required,containernum"`
	PortCode        string `json:"port_code,omitempty" validate:"omitempty,unlocode"`
	Terminal        string `json:"terminal,omitempty"`
}

// DemurrageRequest carries explicit dates for a charge calculation. Dates
// are ISO-8601; a bare date (2024-03-01) is accepted alongside a full
// timestamp.
type DemurrageRequest struct {
	ContainerNumber string `json:"container_number" validate:"required,containernum"`
	PortCode        string `json:"port_code" validate:"required,unlocode"`
	DischargeDate   string `json:"discharge_date" validate:"required"`
	OutgateDate     string `json:"outgate_date,omitempty"`
	EmptyReturnDate string `json:"empty_return_date,omitempty"`
	LastFreeDay     string `json:"last_free_day,omitempty"`
}

// DemurrageCheckRequest is the composite lookup-then-calculate request.
type DemurrageCheckRequest struct {
	ContainerNumber string `json:"container_number" validate:"required,containernum"`
	PortCode        string `json:"port_code,omitempty" validate:"omitempty,unlocode"`
	Terminal        string `json:"terminal,omitempty"`
}

// DemurrageCheckResponse pairs a lookup with the charges it implies.
type DemurrageCheckResponse struct {
	Lookup      *models.ContainerLookupResult `json:"lookup"`
	Calculation *models.DemurrageCalculation  `json:"calculation,omitempty"`
}

// PortInfo describes a supported port in /ports listings.
type PortInfo struct {
	PortCode  string   `json:"port_code"`
	Terminals []string `json:"terminals"`
}

// PortRulesResponse carries the effective free-time rules for a port.
type PortRulesResponse struct {
	PortCode string               `json:"port_code"`
	Rules    models.FreeTimeRules `json:"rules"`
}
