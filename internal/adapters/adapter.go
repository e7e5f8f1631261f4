// Package adapters defines the port-adapter capability contract and the
// registry that maps port and terminal codes to concrete adapters.
//
// Every terminal operating system integration implements the PortAdapter
// interface. Each adapter owns its credentials and any cached auth token;
// there is no shared mutable state between adapters, and a read-only lookup
// never mutates terminal state.
package adapters

import (
	"context"
	"time"

	"github.com/freightops-pro/boxtrace/models"
)

// PortAdapter is the one polymorphic capability every terminal integration
// exposes: resolve a container number at a port into the canonical tracking
// record, or fail with a typed error (see errors.go).
type PortAdapter interface {
	// TrackContainer looks up one container. Failures are typed:
	// *NotFoundError, *AuthenticationError, *RateLimitError or the generic
	// *AdapterError. A nil error always comes with a non-nil result.
	TrackContainer(ctx context.Context, containerNumber, portCode string) (*models.ContainerLookupResult, error)

	// GetContainerEvents returns the terminal's event history for a
	// container, newest last. Terminals without an event API return an
	// empty slice, not an error.
	GetContainerEvents(ctx context.Context, containerNumber, portCode string, since *time.Time) ([]models.ContainerEvent, error)

	// GetVesselSchedule returns upcoming vessel calls. Rail ramps and other
	// adapter types with no vessel concept return an empty slice.
	GetVesselSchedule(ctx context.Context, vesselName, portCode string) ([]models.VesselSchedule, error)

	// TestConnection is a best-effort liveness probe.
	TestConnection(ctx context.Context) bool

	// Name identifies the adapter for logs and registry listings.
	Name() string
}

// Credentials holds the per-terminal secrets injected into an adapter at
// construction time. Adapters never read ambient process state for these.
type Credentials struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	APIKey   string `mapstructure:"api_key"`
}
