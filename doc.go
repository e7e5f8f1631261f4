// Package boxtrace tracks shipping containers across port terminal
// operating systems and computes demurrage and per-diem charges.
//
// # Overview
//
// Every terminal operating system speaks its own dialect: its own auth
// scheme, field names and status vocabulary. boxtrace normalizes them into
// one canonical tracking schema and layers a business-day-aware charge
// engine on top.
//
// The service consists of three main components:
//   - Lookup Orchestrator: queries terminal APIs through a registry of
//     descriptor-driven adapters, falling back across ports when the caller
//     does not know where a container sits
//   - Demurrage Engine: computes free-time windows, tiered charge amounts
//     and urgency classification from a handful of dates
//   - API Server: REST API (Echo) plus a CLI over both
//
// # Architecture
//
//	┌─────────────────┐
//	│  CLI / REST API │
//	│  (Cobra / Echo) │
//	└────────┬────────┘
//	         │
//	┌────────▼────────┐       ┌─────────────────┐
//	│   Orchestrator  │◄──────┤ Demurrage Engine│
//	│   (fallback)    │       │ (rules, tiers)  │
//	└────────┬────────┘       └─────────────────┘
//	         │
//	┌────────▼────────┐
//	│ Adapter Registry│
//	│ (per terminal)  │
//	└─────────────────┘
package boxtrace
