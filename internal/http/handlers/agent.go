package handlers

import (
	"net/http"
	"strings"

	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
)

// AgentHandler serves HTTP endpoints for delivery agents.
type AgentHandler struct {
	uc     agentUsecase
	logger logx.Logger
}

// NewAgentHandler wires an agentUsecase into HTTP handlers.
func NewAgentHandler(logger logx.Logger, uc agentUsecase) *AgentHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &AgentHandler{uc: uc, logger: logger}
}

// Register handles POST /api/v1/agents.
func (h *AgentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerAgentRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	model := req.toModel()
	if model.UserID == "" {
		if actor, ok := domain.ActorFrom(r.Context()); ok && actor.Role == domain.RoleAgent {
			model.UserID = actor.ID
		}
	}

	a, err := h.uc.Register(r.Context(), model)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/agents/"+a.ID)
	writeJSON(h.logger, w, r, http.StatusCreated, agentResponse{Success: true, Agent: agentToResponse(a)})
}

// Get handles GET /api/v1/agents/{id}.
func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid id")
		return
	}
	a, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, agentResponse{Success: true, Agent: agentToResponse(a)})
}

// List handles GET /api/v1/agents.
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		f   domain.AgentFilter
		err error
	)
	if f.Limit, err = queryInt(r, "limit"); err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid limit")
		return
	}
	if f.Offset, err = queryInt(r, "offset"); err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid offset")
		return
	}
	if f.Available, err = queryBool(r, "available"); err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid available")
		return
	}
	if s := queryString(r, "approval_status"); s != nil {
		st := domain.ApprovalStatus(strings.ToLower(*s))
		f.Approval = &st
	}

	list, err := h.uc.List(r.Context(), f)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, agentListResponse{
		Success: true,
		Agents:  agentsToResponse(list),
		Count:   len(list),
	})
}

// SetAvailability handles PUT /api/v1/agents/{id}/availability.
func (h *AgentHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid id")
		return
	}
	var req availabilityRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Available == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "available is required")
		return
	}

	a, err := h.uc.SetAvailability(r.Context(), id, *req.Available)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, agentResponse{Success: true, Agent: agentToResponse(a)})
}

// PushLocation handles PUT /api/v1/agents/{id}/location.
func (h *AgentHandler) PushLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid id")
		return
	}
	var req locationRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Lat == nil || req.Lon == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "lat and lon are required")
		return
	}

	a, err := h.uc.PushLocation(r.Context(), id, domain.Coordinates{Lat: *req.Lat, Lon: *req.Lon})
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, agentResponse{Success: true, Agent: agentToResponse(a)})
}

// Review handles POST /api/v1/agents/{id}/review.
func (h *AgentHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid id")
		return
	}
	var req reviewRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	decision := domain.ApprovalStatus(strings.ToLower(strings.TrimSpace(req.Decision)))

	a, err := h.uc.Review(r.Context(), id, decision)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, agentResponse{Success: true, Agent: agentToResponse(a)})
}
