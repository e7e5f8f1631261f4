package adapters

import "github.com/freightops-pro/boxtrace/models"

// Shared status vocabularies. Terminal operating systems cluster into a few
// software families (Navis/eModal, Tideworks, Advent) that reuse the same
// status words, so the vocabularies are shared across descriptors.

var navisStatusVocab = map[string]models.ContainerStatus{
	"ADVISED":      models.StatusAdvised,
	"INBOUND":      models.StatusInTransit,
	"DISCHARGED":   models.StatusDischarged,
	"YARD":         models.StatusInYard,
	"GROUNDED":     models.StatusInYard,
	"AVAILABLE":    models.StatusAvailable,
	"HOLD":         models.StatusOnHold,
	"DELIVERED":    models.StatusOutgate,
	"GATE OUT":     models.StatusOutgate,
	"DEPARTED":     models.StatusDeparted,
	"NOT ON FILE":  models.StatusNotInNetwork,
	"NOT IN FILE":  models.StatusNotInNetwork,
}

var tideworksStatusVocab = map[string]models.ContainerStatus{
	"EXPECTED":     models.StatusAdvised,
	"ON VESSEL":    models.StatusInTransit,
	"DISCHARGED":   models.StatusDischarged,
	"IN YARD":      models.StatusInYard,
	"IMPORT AVAIL": models.StatusAvailable,
	"AVAILABLE":    models.StatusAvailable,
	"HELD":         models.StatusOnHold,
	"OUTGATED":     models.StatusOutgate,
	"GATED OUT":    models.StatusOutgate,
	"SAILED":       models.StatusDeparted,
	"UNKNOWN UNIT": models.StatusNotInNetwork,
}

var railStatusVocab = map[string]models.ContainerStatus{
	"BILLED":      models.StatusAdvised,
	"EN ROUTE":    models.StatusInTransit,
	"ARRIVED":     models.StatusInYard,
	"GROUNDED":    models.StatusInYard,
	"NOTIFIED":    models.StatusAvailable,
	"OUTGATED":    models.StatusOutgate,
	"NOT ON FILE": models.StatusNotInNetwork,
}

var navisFields = FieldMap{
	Status:        "unitStatus",
	Available:     "availability",
	Holds:         "holds",
	VesselName:    "vessel.name",
	VesselVoyage:  "vessel.voyage",
	VesselETA:     "vessel.eta",
	DischargeDate: "dischargeDate",
	LastFreeDay:   "lastFreeDay",
	EmptyReturnBy: "emptyReturnBy",
	OutgateDate:   "gateOutDate",
	Size:          "equipment.size",
	ContainerType: "equipment.type",
	CarrierSCAC:   "line",
	Demurrage:     "charges.demurrage",
}

var tideworksFields = FieldMap{
	Status:        "status",
	Holds:         "holdFlags",
	VesselName:    "vesselName",
	VesselVoyage:  "voyageNumber",
	VesselETA:     "vesselEta",
	DischargeDate: "dischargedDate",
	LastFreeDay:   "freeTimeExpiration",
	OutgateDate:   "gateOutDate",
	Size:          "sizeType",
	CarrierSCAC:   "shippingLine",
	Demurrage:     "demurrageDue",
}

var railFields = FieldMap{
	Status:        "loadStatus",
	LastFreeDay:   "lastFreeDay",
	OutgateDate:   "outgateDateTime",
	Size:          "equipmentLength",
	CarrierSCAC:   "scac",
}

// DefaultDescriptors is the built-in terminal network. Order within a port is
// the documented terminal preference order: the terminal with the richest API
// first, degrading to less complete data sources.
//
// Port order across the slice does not matter; query priority across ports
// lives in the orchestrator.
func DefaultDescriptors() []TerminalDescriptor {
	return []TerminalDescriptor{
		// Los Angeles
		{
			PortCode: "USLAX", Terminal: "APM", Name: "APM Terminals Pier 400",
			BaseURL: "https://api.apmterminals.com/lax", Auth: AuthAPIKey,
			TrackPath: "/import-availability/{number}", EventsPath: "/events/{number}",
			SchedulePath: "/vessel-schedule", PingPath: "/status",
			Fields: navisFields, StatusVocab: navisStatusVocab, RateLimit: 5,
		},
		{
			PortCode: "USLAX", Terminal: "TRAPAC", Name: "TraPac Los Angeles",
			BaseURL: "https://losangeles.trapac.com/api", Auth: AuthBearer,
			TokenPath: "/auth/token", TrackPath: "/containers/{number}",
			SchedulePath: "/schedule", PingPath: "/ping",
			Fields: tideworksFields, StatusVocab: tideworksStatusVocab, RateLimit: 2,
		},
		{
			PortCode: "USLAX", Terminal: "EVERPORT", Name: "Everport Terminal Services",
			BaseURL: "https://api.etslink.com", Auth: AuthBasic,
			TrackPath: "/track/{number}",
			Fields: tideworksFields, StatusVocab: tideworksStatusVocab, RateLimit: 2,
		},
		// Long Beach
		{
			PortCode: "USLGB", Terminal: "LBCT", Name: "Long Beach Container Terminal",
			BaseURL: "https://api.lbct.com/v2", Auth: AuthBearer,
			TokenPath: "/oauth/token", TrackPath: "/containers/{number}",
			EventsPath: "/containers/{number}/events", SchedulePath: "/vessels",
			PingPath: "/health",
			Fields: navisFields, StatusVocab: navisStatusVocab, RateLimit: 5,
		},
		{
			PortCode: "USLGB", Terminal: "ITS", Name: "International Transportation Service",
			BaseURL: "https://api.itslb.com", Auth: AuthAPIKey, APIKeyHeader: "Ocp-Apim-Subscription-Key",
			TrackPath: "/import/{number}", SchedulePath: "/schedule",
			Fields: tideworksFields, StatusVocab: tideworksStatusVocab, RateLimit: 2,
		},
		{
			PortCode: "USLGB", Terminal: "TTI", Name: "Total Terminals International",
			BaseURL: "https://api.ttilgb.com", Auth: AuthBasic,
			TrackPath: "/availability/{number}",
			Fields: tideworksFields, StatusVocab: tideworksStatusVocab, RateLimit: 1,
		},
		// New York / New Jersey
		{
			PortCode: "USNYC", Terminal: "APM", Name: "APM Terminals Elizabeth",
			BaseURL: "https://api.apmterminals.com/nyc", Auth: AuthAPIKey,
			TrackPath: "/import-availability/{number}", EventsPath: "/events/{number}",
			SchedulePath: "/vessel-schedule", PingPath: "/status",
			Fields: navisFields, StatusVocab: navisStatusVocab, RateLimit: 5,
		},
		{
			PortCode: "USNYC", Terminal: "MAHER", Name: "Maher Terminals",
			BaseURL: "https://api.maherterminals.com", Auth: AuthBearer,
			TokenPath: "/token", TrackPath: "/containers/{number}",
			Fields: navisFields, StatusVocab: navisStatusVocab, RateLimit: 2,
		},
		{
			PortCode: "USNYC", Terminal: "PNCT", Name: "Port Newark Container Terminal",
			BaseURL: "https://api.pnct.net", Auth: AuthBasic,
			TrackPath: "/track/{number}",
			Fields: tideworksFields, StatusVocab: tideworksStatusVocab, RateLimit: 1,
		},
		// Savannah
		{
			PortCode: "USSAV", Terminal: "GPA", Name: "Georgia Ports Authority Garden City",
			BaseURL: "https://api.gaports.com", Auth: AuthAPIKey,
			TrackPath: "/container/{number}", EventsPath: "/container/{number}/history",
			SchedulePath: "/vessels", PingPath: "/health",
			Fields: navisFields, StatusVocab: navisStatusVocab, RateLimit: 5,
		},
		// Houston
		{
			PortCode: "USHOU", Terminal: "BARBOURS_CUT", Name: "Port Houston Barbours Cut",
			BaseURL: "https://api.porthouston.com", Auth: AuthBearer,
			TokenPath: "/auth", TrackPath: "/cargo/{number}",
			SchedulePath: "/vessel-schedule",
			Fields: navisFields, StatusVocab: navisStatusVocab, RateLimit: 2,
		},
		{
			PortCode: "USHOU", Terminal: "BAYPORT", Name: "Port Houston Bayport",
			BaseURL: "https://api.porthouston.com/bayport", Auth: AuthBearer,
			TokenPath: "/auth", TrackPath: "/cargo/{number}",
			Fields: navisFields, StatusVocab: navisStatusVocab, RateLimit: 2,
		},
		// Norfolk
		{
			PortCode: "USORF", Terminal: "VIG", Name: "Virginia International Gateway",
			BaseURL: "https://api.portofvirginia.com", Auth: AuthAPIKey,
			TrackPath: "/pro-pass/{number}",
			Fields: navisFields, StatusVocab: navisStatusVocab, RateLimit: 2,
		},
		// Charleston
		{
			PortCode: "USCHS", Terminal: "WANDO_WELCH", Name: "SCPA Wando Welch",
			BaseURL: "https://api.scspa.com", Auth: AuthBasic,
			TrackPath: "/cargo/{number}",
			Fields: tideworksFields, StatusVocab: tideworksStatusVocab, RateLimit: 1,
		},
		// Seattle
		{
			PortCode: "USSEA", Terminal: "T18", Name: "SSA Terminal 18",
			BaseURL: "https://tideworks.t18.com/api", Auth: AuthBasic,
			TrackPath: "/containers/{number}",
			Fields: tideworksFields, StatusVocab: tideworksStatusVocab, RateLimit: 1,
		},
		// Oakland
		{
			PortCode: "USOAK", Terminal: "OICT", Name: "Oakland International Container Terminal",
			BaseURL: "https://api.ssamarine.com/oict", Auth: AuthBasic,
			TrackPath: "/containers/{number}",
			Fields: tideworksFields, StatusVocab: tideworksStatusVocab, RateLimit: 1,
		},
		// Tacoma
		{
			PortCode: "USTIW", Terminal: "HUSKY", Name: "Husky Terminal",
			BaseURL: "https://api.huskyterminal.com", Auth: AuthAPIKey,
			TrackPath: "/track/{number}",
			Fields: tideworksFields, StatusVocab: tideworksStatusVocab, RateLimit: 1,
		},
		// BNSF rail ramp, Chicago. No vessel concept, no event history API.
		{
			PortCode: "USCHI", Terminal: "BNSF_LPC", Name: "BNSF Logistics Park Chicago",
			BaseURL: "https://api.bnsf.com/intermodal", Auth: AuthBearer,
			TokenPath: "/oauth/token", TrackPath: "/units/{number}",
			Fields: railFields, StatusVocab: railStatusVocab, RateLimit: 2,
		},
	}
}

// BuildRegistry constructs the default adapter registry from the built-in
// descriptor table, injecting per-terminal credentials keyed by
// "PORT/TERMINAL" (falling back to a port-wide "PORT" entry).
func BuildRegistry(credentials map[string]Credentials) *Registry {
	registry := NewRegistry()
	for _, desc := range DefaultDescriptors() {
		creds, ok := credentials[desc.PortCode+"/"+desc.Terminal]
		if !ok {
			creds = credentials[desc.PortCode]
		}
		registry.Register(desc.PortCode, desc.Terminal, NewTerminalClient(desc, creds))
	}
	return registry
}
