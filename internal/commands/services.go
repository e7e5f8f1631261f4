package commands

import (
	"fmt"

	"github.com/freightops-pro/boxtrace/internal/adapters"
	"github.com/freightops-pro/boxtrace/internal/config"
	"github.com/freightops-pro/boxtrace/internal/demurrage"
	"github.com/freightops-pro/boxtrace/internal/tracking"
)

// buildServices wires the registry, orchestrator and rule table from
// configuration. Every command that touches the core goes through here so
// the CLI and the server agree on construction.
func buildServices(cfg *config.Config) (*adapters.Registry, *tracking.Orchestrator, *demurrage.RuleTable, error) {
	registry := adapters.BuildRegistry(cfg.Credentials)

	orchestrator := tracking.NewOrchestrator(registry,
		tracking.WithPortPriority(cfg.Lookup.PortPriority),
		tracking.WithTimeout(cfg.Lookup.Timeout),
		tracking.WithDebug(cfg.Server.Debug),
	)

	rules := demurrage.NewRuleTable()
	if cfg.Rules.File != "" {
		if err := rules.LoadRuleFile(cfg.Rules.File); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load rules file: %w", err)
		}
	}

	return registry, orchestrator, rules, nil
}
