package adapters

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// registration pairs a terminal code with its adapter. Order within a port
// matters: it is the documented terminal preference order, richest API first.
type registration struct {
	Terminal string
	Adapter  PortAdapter
}

// Registry maps port codes (and terminal codes within a port) to adapters.
// It maintains one adapter per terminal and preserves registration order as
// the fallback preference order within a multi-terminal port.
//
// Thread-safe for concurrent access.
type Registry struct {
	ports map[string][]registration
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ports: make(map[string][]registration),
	}
}

// Register adds an adapter for a port/terminal pair. Registering the same
// pair again replaces the previous adapter in place, keeping its position in
// the preference order.
func (r *Registry) Register(portCode, terminal string, adapter PortAdapter) {
	portCode = strings.ToUpper(portCode)
	terminal = strings.ToUpper(terminal)

	r.mu.Lock()
	defer r.mu.Unlock()

	regs := r.ports[portCode]
	for i, reg := range regs {
		if reg.Terminal == terminal {
			regs[i].Adapter = adapter
			return
		}
	}
	r.ports[portCode] = append(regs, registration{Terminal: terminal, Adapter: adapter})
}

// Resolve returns the adapter for a port, optionally narrowed to a specific
// terminal. With no terminal hint the first registered (preferred) terminal
// wins. Returns an error for unknown ports or terminals.
func (r *Registry) Resolve(portCode, terminal string) (PortAdapter, error) {
	portCode = strings.ToUpper(portCode)
	terminal = strings.ToUpper(terminal)

	r.mu.RLock()
	defer r.mu.RUnlock()

	regs, ok := r.ports[portCode]
	if !ok || len(regs) == 0 {
		return nil, fmt.Errorf("no adapter registered for port %s", portCode)
	}

	if terminal == "" {
		return regs[0].Adapter, nil
	}

	for _, reg := range regs {
		if reg.Terminal == terminal {
			return reg.Adapter, nil
		}
	}
	return nil, fmt.Errorf("no adapter registered for terminal %s at port %s", terminal, portCode)
}

// AdaptersFor returns every adapter registered for a port, in terminal
// preference order. The slice is a copy; callers may not mutate registry
// state through it.
func (r *Registry) AdaptersFor(portCode string) []PortAdapter {
	portCode = strings.ToUpper(portCode)

	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := r.ports[portCode]
	out := make([]PortAdapter, 0, len(regs))
	for _, reg := range regs {
		out = append(out, reg.Adapter)
	}
	return out
}

// TerminalsFor returns the terminal codes registered for a port, in
// preference order.
func (r *Registry) TerminalsFor(portCode string) []string {
	portCode = strings.ToUpper(portCode)

	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := r.ports[portCode]
	out := make([]string, 0, len(regs))
	for _, reg := range regs {
		out = append(out, reg.Terminal)
	}
	return out
}

// Ports returns all registered port codes, sorted.
func (r *Registry) Ports() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ports := make([]string, 0, len(r.ports))
	for code := range r.ports {
		ports = append(ports, code)
	}
	sort.Strings(ports)
	return ports
}

// HasPort checks if any adapter is registered for a port.
func (r *Registry) HasPort(portCode string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.ports[strings.ToUpper(portCode)]
	return ok
}

// Count returns the number of registered adapters across all ports.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, regs := range r.ports {
		n += len(regs)
	}
	return n
}
