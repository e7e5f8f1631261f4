package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/freightops-pro/boxtrace/internal/tracking"
)

var (
	trackPort     string
	trackTerminal string
)

var trackCmd = &cobra.Command{
	Use:   "track CONTAINER_NUMBER",
	Short: "Look up one container",
	Long: `Look up a container at its terminal and print the canonical tracking
record as JSON.

With --port the named port is queried directly; without it the major US
ports are searched in priority order until the container is found.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().StringVar(&trackPort, "port", "", "UN/LOCODE port hint (e.g. USLAX)")
	trackCmd.Flags().StringVar(&trackTerminal, "terminal", "", "terminal hint within the port")
}

func runTrack(cmd *cobra.Command, args []string) error {
	_, orchestrator, _, err := buildServices(cfg)
	if err != nil {
		return err
	}

	result := orchestrator.Lookup(context.Background(), tracking.LookupRequest{
		ContainerNumber: args[0],
		PortCode:        trackPort,
		Terminal:        trackTerminal,
	})

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if !result.Success {
		os.Exit(1)
	}
	return nil
}
