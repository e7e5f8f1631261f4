package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/freightops-pro/boxtrace/internal/demurrage"
	"github.com/freightops-pro/boxtrace/internal/tracking"
)

var (
	demContainer   string
	demPort        string
	demDischarge   string
	demOutgate     string
	demEmptyReturn string
	demLastFreeDay string
)

var demurrageCmd = &cobra.Command{
	Use:   "demurrage",
	Short: "Calculate demurrage and per diem charges",
	Long: `Calculate demurrage and per diem charges for a container from explicit
dates and the port's free-time rules, and print the full breakdown as JSON.

Dates are ISO-8601, with or without a time component:

  boxtrace demurrage --container MSCU1234567 --port USLAX \
      --discharge 2024-03-01 --outgate 2024-03-12`,
	RunE: runDemurrage,
}

func init() {
	demurrageCmd.Flags().StringVar(&demContainer, "container", "", "container number (required)")
	demurrageCmd.Flags().StringVar(&demPort, "port", "", "UN/LOCODE port code (required)")
	demurrageCmd.Flags().StringVar(&demDischarge, "discharge", "", "discharge date (required)")
	demurrageCmd.Flags().StringVar(&demOutgate, "outgate", "", "outgate date")
	demurrageCmd.Flags().StringVar(&demEmptyReturn, "empty-return", "", "empty return date")
	demurrageCmd.Flags().StringVar(&demLastFreeDay, "last-free-day", "", "terminal-reported last free day, overrides the derived one")

	_ = demurrageCmd.MarkFlagRequired("container") //nolint:errcheck
	_ = demurrageCmd.MarkFlagRequired("port")      //nolint:errcheck
	_ = demurrageCmd.MarkFlagRequired("discharge") //nolint:errcheck
}

func parseDateFlag(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("--%s must be an ISO-8601 date, got %q", name, raw)
}

func runDemurrage(cmd *cobra.Command, args []string) error {
	_, _, rules, err := buildServices(cfg)
	if err != nil {
		return err
	}

	number := tracking.NormalizeContainerNumber(demContainer)
	if err := tracking.ValidateContainerNumber(number); err != nil {
		return err
	}

	input := demurrage.Input{
		ContainerNumber: number,
		PortCode:        strings.ToUpper(demPort),
	}
	if input.DischargeDate, err = parseDateFlag("discharge", demDischarge); err != nil {
		return err
	}
	if input.OutgateDate, err = parseDateFlag("outgate", demOutgate); err != nil {
		return err
	}
	if input.EmptyReturnDate, err = parseDateFlag("empty-return", demEmptyReturn); err != nil {
		return err
	}
	if input.LastFreeDay, err = parseDateFlag("last-free-day", demLastFreeDay); err != nil {
		return err
	}

	calc := demurrage.Calculate(input, rules.RulesFor(input.PortCode), time.Now())

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(calc)
}
