package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightops/internal/domain"
	"github.com/Domenick1991/flightops/internal/importer"
	"github.com/Domenick1991/flightops/internal/service/itinerary"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service  itinerary.ItineraryUseCase
	importer *importer.Importer
}

type legPayload struct {
	SegmentNumber int    `json:"segment_number"`
	OriginID      int64  `json:"origin_airport_id"`
	DestinationID int64  `json:"destination_airport_id"`
	Date          string `json:"date"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
}

type connectingFlightRequest struct {
	FlightNumber      string       `json:"flight_number"`
	AirlineID         int64        `json:"airline_id"`
	AircraftID        int64        `json:"aircraft_id"`
	PassengerCapacity int          `json:"passenger_capacity"`
	CargoCapacityKg   int          `json:"cargo_capacity_kg"`
	Legs              []legPayload `json:"legs"`
}

func NewFlightHandler(service itinerary.ItineraryUseCase, imp *importer.Importer) *FlightHandler {
	return &FlightHandler{service: service, importer: imp}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.POST("/connecting", h.create)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
	router.POST("/:id/status/recompute", h.recomputeStatus)
	router.POST("/import", h.importCSV)
}

func (h *FlightHandler) create(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	result, err := h.service.Assemble(c.Request.Context(), *req)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	result, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		// An unknown id or a non-itinerary flight is a 404; store failures
		// keep their usual mapping.
		status := statusForError(err)
		var invalidRequest *domain.InvalidRequestError
		if errors.As(err, &invalidRequest) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	if err := h.service.Update(c.Request.Context(), id, *req); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FlightHandler) recomputeStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	status, err := h.service.RecomputeStatus(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *FlightHandler) importCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	result, err := h.importer.Import(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) bindRequest(c *gin.Context) (*itinerary.AssembleRequest, bool) {
	var req connectingFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	legs := make([]itinerary.LegRequest, 0, len(req.Legs))
	for _, leg := range req.Legs {
		departure, err := resolveScheduleTime(leg.Date, leg.Departure)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("segment %d: %v", leg.SegmentNumber, err)})
			return nil, false
		}
		arrival, err := resolveScheduleTime(leg.Date, leg.Arrival)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("segment %d: %v", leg.SegmentNumber, err)})
			return nil, false
		}
		legs = append(legs, itinerary.LegRequest{
			SegmentNumber:      leg.SegmentNumber,
			OriginID:           leg.OriginID,
			DestinationID:      leg.DestinationID,
			ScheduledDeparture: departure,
			ScheduledArrival:   arrival,
		})
	}

	return &itinerary.AssembleRequest{
		FlightNumber:      req.FlightNumber,
		AirlineID:         req.AirlineID,
		AircraftID:        req.AircraftID,
		PassengerCapacity: req.PassengerCapacity,
		CargoCapacityKg:   req.CargoCapacityKg,
		Legs:              legs,
	}, true
}

// resolveScheduleTime accepts either a full RFC3339 timestamp or a bare
// HH:MM clock combined with the leg's date field.
func resolveScheduleTime(date, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q", date)
	}
	clock, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time %q, want RFC3339 or HH:MM", value)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
