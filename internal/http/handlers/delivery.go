package handlers

import (
	"net/http"
	"strings"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
)

// DeliveryHandler handles HTTP requests for delivery resources.
type DeliveryHandler struct {
	usecase  deliveryUsecase
	tracking trackingUsecase
	logger   logx.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(logger logx.Logger, uc deliveryUsecase, tracking trackingUsecase) *DeliveryHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &DeliveryHandler{usecase: uc, tracking: tracking, logger: logger}
}

// Create handles POST /api/v1/deliveries. A new record answers 201, an
// existing one 200.
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDeliveryRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if strings.TrimSpace(req.OrderID) == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "order_id is required")
		return
	}

	res, err := h.usecase.Create(r.Context(), req.OrderID)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
		w.Header().Set("Location", "/api/v1/deliveries/"+res.Delivery.ID)
	}
	created := res.Created
	w.Header().Set("ETag", etag(res.Delivery.Version))
	writeJSON(h.logger, w, r, status, deliveryResponse{
		Success:  true,
		Created:  &created,
		Delivery: deliveryToResponse(res.Delivery),
	})
}

// Get handles GET /api/v1/deliveries/{id}.
func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid id")
		return
	}
	d, err := h.usecase.Get(r.Context(), id)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	w.Header().Set("ETag", etag(d.Version))
	writeJSON(h.logger, w, r, http.StatusOK, deliveryResponse{Success: true, Delivery: deliveryToResponse(d)})
}

// List handles GET /api/v1/deliveries.
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		f   domain.DeliveryFilter
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
	unassigned, err := queryBool(r, "unassigned")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid unassigned")
		return
	}
	f.Unassigned = unassigned != nil && *unassigned
	f.AgentID = queryString(r, "agent_id")
	f.OrderID = queryString(r, "order_id")
	if s := queryString(r, "status"); s != nil {
		st := domain.ParseDeliveryStatus(*s)
		f.Status = &st
	}

	list, err := h.usecase.List(r.Context(), f)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveryListResponse{
		Success:    true,
		Deliveries: deliveriesToResponse(list),
		Count:      len(list),
	})
}

// Update handles PATCH /api/v1/deliveries/{id}. If-Match carries the
// expected version and takes precedence over a "version" body field.
func (h *DeliveryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid id")
		return
	}
	version, err := ifMatchVersion(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid If-Match")
		return
	}
	var req updateDeliveryRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	u := req.toModel()
	if version != nil {
		u.ExpectedVersion = version
	}
	if u.Empty() {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "nothing to update")
		return
	}

	d, err := h.usecase.Update(r.Context(), id, u)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	w.Header().Set("ETag", etag(d.Version))
	writeJSON(h.logger, w, r, http.StatusOK, deliveryResponse{Success: true, Delivery: deliveryToResponse(d)})
}

// Accept handles POST /api/v1/deliveries/{id}/accept. Agents accept for
// themselves; an admin may name the agent in the body.
func (h *DeliveryHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid id")
		return
	}
	var req acceptDeliveryRequest
	if ok := decodeOptionalJSON(h.logger, w, r, &req); !ok {
		return
	}
	actor, ok := domain.ActorFrom(r.Context())
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, "UNAUTHORIZED", "caller identity required")
		return
	}

	var (
		d   domain.Delivery
		err error
	)
	switch {
	case actor.Role == domain.RoleAdmin && strings.TrimSpace(req.AgentID) != "":
		d, err = h.usecase.Accept(r.Context(), id, req.AgentID)
	case req.AgentID != "" && actor.Role != domain.RoleAdmin:
		err = apperr.ErrForbidden
	default:
		d, err = h.usecase.AcceptAs(r.Context(), id, actor)
	}
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	w.Header().Set("ETag", etag(d.Version))
	writeJSON(h.logger, w, r, http.StatusOK, deliveryResponse{Success: true, Delivery: deliveryToResponse(d)})
}

// Tracking handles GET /api/v1/orders/{orderID}/tracking.
func (h *DeliveryHandler) Tracking(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "orderID")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid order id")
		return
	}
	snap, err := h.tracking.ForOrder(r.Context(), orderID)
	h.writeTracking(w, r, snap, err)
}

// DeliveryTracking handles GET /api/v1/deliveries/{id}/tracking.
func (h *DeliveryHandler) DeliveryTracking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid delivery id")
		return
	}
	snap, err := h.tracking.ForDelivery(r.Context(), id)
	h.writeTracking(w, r, snap, err)
}

func (h *DeliveryHandler) writeTracking(w http.ResponseWriter, r *http.Request, snap domain.TrackingSnapshot, err error) {
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(h.logger, w, r, http.StatusOK, trackingResponse{Success: true, Tracking: trackingToResponse(snap)})
}
