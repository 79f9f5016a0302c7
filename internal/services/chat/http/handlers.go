// Package http provides http transport for chat
package http

import (
	stdhttp "net/http"

	"voxanote/internal/modkit/httpkit"
	"voxanote/internal/services/chat/domain"
	svc "voxanote/internal/services/chat/service"
)

// Register mounts chat endpoints under the recordings prefix
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/{id}/messages", h.messages)
	httpkit.PostJSON[domain.AskInput](r, "/{id}/chat", h.ask)
}

type handlers struct{ svc svc.Service }

func (h *handlers) messages(r *stdhttp.Request) (any, error) {
	return h.svc.Messages(r.Context(), httpkit.Param(r, "id"))
}

func (h *handlers) ask(r *stdhttp.Request, in domain.AskInput) (any, error) {
	id := httpkit.Param(r, "id")
	ans, err := h.svc.Ask(r.Context(), id, in.Question)
	if err != nil {
		return nil, err
	}
	return domain.AskResponse{ID: id, Answer: ans.Answer, Citations: ans.Citations}, nil
}
