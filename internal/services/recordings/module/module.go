// Package module wires recordings into the API
package module

import (
	modkit "voxanote/internal/modkit"
	"voxanote/internal/modkit/httpkit"
	recordingshttp "voxanote/internal/services/recordings/http"
	recordingssvc "voxanote/internal/services/recordings/service"
)

// Module implements the modkit.Module interface
type Module struct {
	svc   recordingssvc.Service
	extra []func(httpkit.Router)
}

// New constructs a recordings module. Extra register functions let sibling
// verticals add routes under the same prefix
func New(svc recordingssvc.Service, extra ...func(httpkit.Router)) modkit.Module {
	return &Module{svc: svc, extra: extra}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route("/recordings", func(rr httpkit.Router) {
		recordingshttp.Register(rr, m.svc)
		for _, fn := range m.extra {
			fn(rr)
		}
	})
}

// Ports returns the service port for cross wiring
func (m *Module) Ports() any { return m.svc }

// Name returns the module name
func (m *Module) Name() string { return "recordings" }
