package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List supported ports and terminals",
	Long: `List every port in the adapter registry with its terminals in
preference order, plus the free-time rules that apply to it.`,
	RunE: runPorts,
}

func runPorts(cmd *cobra.Command, args []string) error {
	registry, _, rules, err := buildServices(cfg)
	if err != nil {
		return err
	}

	for _, code := range registry.Ports() {
		r := rules.RulesFor(code)
		fmt.Printf("%s  terminals: %s\n", code, strings.Join(registry.TerminalsFor(code), ", "))
		fmt.Printf("       free days: %d demurrage / %d per diem, weekends count: %v, holidays count: %v\n",
			r.PortFreeDays, r.PerDiemFreeDays, r.WeekendCounts, r.HolidayCounts)
	}
	return nil
}
