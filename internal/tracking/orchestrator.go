// Package tracking implements the container lookup orchestrator: it
// normalizes and validates container numbers, resolves adapters through the
// registry, and falls back across ports when the caller does not know where
// a container sits.
package tracking

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freightops-pro/boxtrace/internal/adapters"
	"github.com/freightops-pro/boxtrace/models"
)

// containerNumberPattern is the ISO 6346 shape: a four-letter owner code
// followed by a seven-digit serial (which includes the check digit). The
// check digit itself is not validated.
var containerNumberPattern = regexp.MustCompile(`^[A-Z]{4}[0-9]{7}$`)

// DefaultPortPriority is the fixed multi-port search order, highest US
// import container volume first. Sequential on purpose: each port
// rate-limits and charges independently, and most containers are found on
// the first or second try, so parallel fan-out would burn quota without
// helping the common case.
var DefaultPortPriority = []string{
	"USLAX", "USLGB", "USNYC", "USSAV", "USHOU",
	"USORF", "USCHS", "USSEA", "USOAK", "USTIW",
}

// ValidationError rejects malformed input before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NormalizeContainerNumber strips spaces and dashes and uppercases the
// input. It does not validate; see ValidateContainerNumber.
func NormalizeContainerNumber(raw string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(raw)
	return strings.ToUpper(cleaned)
}

// ValidateContainerNumber checks an already-normalized container number
// against the ISO 6346 shape.
func ValidateContainerNumber(number string) error {
	if number == "" {
		return &ValidationError{Field: "container_number", Reason: "must not be empty"}
	}
	if !containerNumberPattern.MatchString(number) {
		return &ValidationError{
			Field:  "container_number",
			Reason: "must be 4 letters followed by 7 digits (e.g. MSCU1234567)",
		}
	}
	return nil
}

// LookupRequest is one orchestrated lookup. PortCode and Terminal are hints;
// an empty PortCode triggers the priority-ordered multi-port search.
type LookupRequest struct {
	ContainerNumber string
	PortCode        string
	Terminal        string
}

// Orchestrator coordinates lookups across the adapter registry. It never
// propagates adapter errors to its caller: every failure is converted into a
// failed ContainerLookupResult carrying the error text.
type Orchestrator struct {
	registry *adapters.Registry
	priority []string
	timeout  time.Duration
	debug    bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPortPriority overrides the multi-port search order.
func WithPortPriority(ports []string) Option {
	return func(o *Orchestrator) {
		if len(ports) > 0 {
			o.priority = ports
		}
	}
}

// WithTimeout sets the per-adapter-call budget.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithDebug enables per-attempt debug logging.
func WithDebug(debug bool) Option {
	return func(o *Orchestrator) { o.debug = debug }
}

// NewOrchestrator creates an orchestrator over a registry. Defaults: the
// fixed port priority list and a 30 second per-call timeout.
func NewOrchestrator(registry *adapters.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		priority: DefaultPortPriority,
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) debugLog(format string, args ...any) {
	if o.debug {
		log.Printf(format, args...)
	}
}

// Lookup resolves one container. The returned result is always non-nil; a
// failed lookup has Success=false and an explanatory Error, never a Go
// error. Only programming errors would escape as panics.
func (o *Orchestrator) Lookup(ctx context.Context, req LookupRequest) *models.ContainerLookupResult {
	traceID := uuid.NewString()

	number := NormalizeContainerNumber(req.ContainerNumber)
	if err := ValidateContainerNumber(number); err != nil {
		result := models.FailedLookup(number, req.PortCode, req.Terminal, err.Error())
		result.TraceID = traceID
		return result
	}

	if req.PortCode != "" {
		return o.lookupAtPort(ctx, traceID, number, strings.ToUpper(req.PortCode), req.Terminal)
	}
	return o.searchPorts(ctx, traceID, number)
}

// lookupAtPort resolves exactly one adapter for the hinted port (narrowed by
// the terminal hint when given) and calls it once.
func (o *Orchestrator) lookupAtPort(ctx context.Context, traceID, number, portCode, terminal string) *models.ContainerLookupResult {
	adapter, err := o.registry.Resolve(portCode, terminal)
	if err != nil {
		result := models.FailedLookup(number, portCode, terminal, err.Error())
		result.TraceID = traceID
		return result
	}

	result, err := o.callAdapter(ctx, adapter, number, portCode)
	if err != nil {
		o.debugLog("lookup %s: %s at %s failed: %v", traceID, number, adapter.Name(), err)
		failed := models.FailedLookup(number, portCode, terminal, err.Error())
		failed.TraceID = traceID
		return failed
	}
	result.TraceID = traceID
	return result
}

// searchPorts walks the fixed priority list sequentially, trying each
// registered adapter for each port in terminal preference order, and stops
// at the first success. One outstanding request at a time; a blown timeout
// on one port is that port's failure and the walk continues.
func (o *Orchestrator) searchPorts(ctx context.Context, traceID, number string) *models.ContainerLookupResult {
	attempts := 0
	var authFailures []string

	for _, portCode := range o.priority {
		for _, adapter := range o.registry.AdaptersFor(portCode) {
			attempts++
			result, err := o.callAdapter(ctx, adapter, number, portCode)
			if err == nil && result.Success {
				o.debugLog("lookup %s: found %s at %s after %d attempt(s)", traceID, number, adapter.Name(), attempts)
				result.TraceID = traceID
				return result
			}
			if err != nil {
				o.debugLog("lookup %s: %s at %s: %v", traceID, number, adapter.Name(), err)
				if adapters.IsAuthentication(err) {
					authFailures = append(authFailures, adapter.Name())
				}
			}
		}
	}

	msg := fmt.Sprintf(
		"container %s was not found at any of the %d supported ports; supply port_code if you know where it is",
		number, len(o.priority),
	)
	if len(authFailures) > 0 {
		msg += fmt.Sprintf(" (credentials rejected by: %s)", strings.Join(authFailures, ", "))
	}
	result := models.FailedLookup(number, "", "", msg)
	result.TraceID = traceID
	return result
}

// callAdapter runs one adapter call under the per-call timeout, converting
// panics in adapter code into an *adapters.AdapterError so a misbehaving
// integration cannot take the whole search down.
func (o *Orchestrator) callAdapter(ctx context.Context, adapter adapters.PortAdapter, number, portCode string) (result *models.ContainerLookupResult, err error) {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &adapters.AdapterError{
				PortCode: portCode,
				Op:       "track container",
				Err:      fmt.Errorf("adapter panic: %v", r),
			}
		}
	}()

	return adapter.TrackContainer(callCtx, number, portCode)
}

// ContainerEvents fetches the event history for a container at a specific
// port. Unlike Lookup this requires a port hint; histories are not searched
// across ports.
func (o *Orchestrator) ContainerEvents(ctx context.Context, req LookupRequest, since *time.Time) ([]models.ContainerEvent, error) {
	number := NormalizeContainerNumber(req.ContainerNumber)
	if err := ValidateContainerNumber(number); err != nil {
		return nil, err
	}
	if req.PortCode == "" {
		return nil, &ValidationError{Field: "port_code", Reason: "required for event history"}
	}

	adapter, err := o.registry.Resolve(req.PortCode, req.Terminal)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return adapter.GetContainerEvents(callCtx, number, strings.ToUpper(req.PortCode), since)
}
