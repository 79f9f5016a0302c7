// Package http provides http transport for recordings
package http

import (
	stdhttp "net/http"

	"voxanote/internal/modkit/httpkit"
	"voxanote/internal/services/recordings/domain"
	svc "voxanote/internal/services/recordings/service"
)

// Register mounts recording endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CreateInput](r, "/", h.create)
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.Get(r, "/{id}/status", h.status)
	httpkit.Put(r, "/{id}/process", h.process)
	httpkit.Delete(r, "/{id}", h.remove)
}

type handlers struct{ svc svc.Service }

func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	rec, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(rec), nil
}

func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.Param(r, "id"))
}

func (h *handlers) status(r *stdhttp.Request) (any, error) {
	return h.svc.Status(r.Context(), httpkit.Param(r, "id"))
}

func (h *handlers) process(r *stdhttp.Request) (any, error) {
	ack, err := h.svc.Process(r.Context(), httpkit.Param(r, "id"))
	if err != nil {
		return nil, err
	}
	return httpkit.Accepted(ack), nil
}

func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	if err := h.svc.Delete(r.Context(), httpkit.Param(r, "id")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}
