package api

import (
	"net/http"

	"github.com/Domenick1991/flightops/internal/service/routes"
	"github.com/gin-gonic/gin"
)

type RouteHandler struct {
	service routes.RouteUseCase
}

type resolveRouteRequest struct {
	Mode          string           `json:"mode"`
	RouteID       *int64           `json:"route_id,omitempty"`
	OriginID      *int64           `json:"origin_airport_id,omitempty"`
	DestinationID *int64           `json:"destination_airport_id,omitempty"`
	Segments      []segmentRequest `json:"segments,omitempty"`
	Label         string           `json:"label,omitempty"`
}

type segmentRequest struct {
	OriginID          int64 `json:"origin_airport_id"`
	DestinationID     int64 `json:"destination_airport_id"`
	ConnectionMinutes int   `json:"connection_minutes,omitempty"`
}

type resolveRouteResponse struct {
	RouteID int64 `json:"route_id"`
}

func NewRouteHandler(service routes.RouteUseCase) *RouteHandler {
	return &RouteHandler{service: service}
}

func (h *RouteHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/resolve", h.resolve)
	router.DELETE("/:id", h.deactivate)
}

func (h *RouteHandler) list(c *gin.Context) {
	active, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, active)
}

func (h *RouteHandler) resolve(c *gin.Context) {
	var req resolveRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	segments := make([]routes.SegmentPair, 0, len(req.Segments))
	for _, seg := range req.Segments {
		segments = append(segments, routes.SegmentPair{
			OriginID:          seg.OriginID,
			DestinationID:     seg.DestinationID,
			ConnectionMinutes: seg.ConnectionMinutes,
		})
	}

	routeID, err := h.service.Resolve(c.Request.Context(), routes.ResolveRequest{
		Mode:          routes.CreationMode(req.Mode),
		RouteID:       req.RouteID,
		OriginID:      req.OriginID,
		DestinationID: req.DestinationID,
		Segments:      segments,
		ChainLabel:    req.Label,
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resolveRouteResponse{RouteID: routeID})
}

func (h *RouteHandler) deactivate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
