package itinerary

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flightops/internal/domain"
	"github.com/Domenick1991/flightops/internal/kafka"
	"github.com/Domenick1991/flightops/internal/service/routes"
	"github.com/Domenick1991/flightops/pkg/logger"
)

const (
	MinSegments = 2
	MaxSegments = 10

	MinConnectionMinutes = 30
	MaxConnectionMinutes = 1440
)

// LegRequest is one leg of a requested connecting flight.
type LegRequest struct {
	SegmentNumber      int
	OriginID           int64
	DestinationID      int64
	ScheduledDeparture time.Time
	ScheduledArrival   time.Time
}

// AssembleRequest describes a connecting flight: one customer-facing flight
// number over 2..10 chained legs. Airline, aircraft and capacity are shared
// by every segment.
type AssembleRequest struct {
	FlightNumber      string
	AirlineID         int64
	AircraftID        int64
	PassengerCapacity int
	CargoCapacityKg   int
	Legs              []LegRequest
}

// Itinerary is the persisted shape of a connecting flight: the main record,
// its ordered segment flights, and one connection row per segment.
type Itinerary struct {
	Main        domain.Flight
	Segments    []domain.Flight
	Connections []domain.FlightConnection
}

type ItineraryUseCase interface {
	Assemble(ctx context.Context, req AssembleRequest) (*Itinerary, error)
	Get(ctx context.Context, mainID int64) (*Itinerary, error)
	RecomputeStatus(ctx context.Context, mainID int64) (domain.FlightStatus, error)
	Update(ctx context.Context, mainID int64, req AssembleRequest) error
	Delete(ctx context.Context, mainID int64) error
	SweepStatuses(ctx context.Context) (int, error)
}

type RouteResolver interface {
	Resolve(ctx context.Context, req routes.ResolveRequest) (int64, error)
}

type ReferenceLookup interface {
	GetAirline(ctx context.Context, id int64) (*domain.Airline, error)
	GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error)
}

type FlightStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	GetChildren(ctx context.Context, mainID int64) ([]domain.Flight, error)
	GetConnections(ctx context.Context, mainID int64) ([]domain.FlightConnection, error)
	ConnectingFlightExists(ctx context.Context, number string, date time.Time, excludeID int64) (bool, error)
	CreateItinerary(ctx context.Context, main *domain.Flight, children []domain.Flight, connections []domain.FlightConnection) error
	ReplaceItinerary(ctx context.Context, main *domain.Flight, expectedVersion int64, children []domain.Flight, connections []domain.FlightConnection) error
	DeleteItinerary(ctx context.Context, mainID int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) error
	SetActualTimes(ctx context.Context, id int64, departure, arrival *time.Time) error
	ListConnectingMains(ctx context.Context, statuses []domain.FlightStatus) ([]domain.Flight, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Assembler validates and persists connecting-flight requests as one main
// flight plus ordered segment flights and connection rows. All writes for a
// request are atomic; validation failures never leave partial rows behind.
type Assembler struct {
	flights     FlightStore
	resolver    RouteResolver
	lookup      ReferenceLookup
	producer    Producer
	eventsTopic string
	log         logger.Logger
}

type AssemblerOption func(*Assembler)

// WithProducer publishes lifecycle events to the topic; publish failures are
// logged, never surfaced to the caller.
func WithProducer(producer Producer, topic string) AssemblerOption {
	return func(a *Assembler) {
		a.producer = producer
		a.eventsTopic = topic
	}
}

func NewAssembler(flights FlightStore, resolver RouteResolver, lookup ReferenceLookup, log logger.Logger, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		flights:  flights,
		resolver: resolver,
		lookup:   lookup,
		log:      log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assembler) Assemble(ctx context.Context, req AssembleRequest) (*Itinerary, error) {
	if err := a.validate(ctx, req, 0); err != nil {
		return nil, err
	}

	main, children, connections, err := a.build(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := a.flights.CreateItinerary(ctx, main, children, connections); err != nil {
		return nil, err
	}

	a.publish(ctx, "itinerary_created", main, len(children))
	a.log.Info("itinerary assembled", "main_flight_id", main.ID, "number", main.Number, "segments", len(children))

	return &Itinerary{Main: *main, Segments: children, Connections: connections}, nil
}

func (a *Assembler) Get(ctx context.Context, mainID int64) (*Itinerary, error) {
	main, err := a.mainFlight(ctx, mainID)
	if err != nil {
		return nil, err
	}
	children, err := a.flights.GetChildren(ctx, mainID)
	if err != nil {
		return nil, err
	}
	connections, err := a.flights.GetConnections(ctx, mainID)
	if err != nil {
		return nil, err
	}
	return &Itinerary{Main: *main, Segments: children, Connections: connections}, nil
}

// RecomputeStatus re-derives the aggregate status from the current segment
// statuses and mirrors segment actual times onto the main record. Actual
// times are set once and never overwritten.
func (a *Assembler) RecomputeStatus(ctx context.Context, mainID int64) (domain.FlightStatus, error) {
	main, err := a.mainFlight(ctx, mainID)
	if err != nil {
		return "", err
	}
	children, err := a.flights.GetChildren(ctx, mainID)
	if err != nil {
		return "", err
	}

	status := AggregateStatus(children)
	if status != main.Status {
		if err := a.flights.UpdateStatus(ctx, mainID, status); err != nil {
			return "", err
		}
		main.Status = status
		a.publish(ctx, "itinerary_status_changed", main, len(children))
	}

	if len(children) > 0 {
		first := &children[0]
		last := &children[len(children)-1]
		if first.ActualDeparture != nil || last.ActualArrival != nil {
			if err := a.flights.SetActualTimes(ctx, mainID, first.ActualDeparture, last.ActualArrival); err != nil {
				return "", err
			}
		}
	}

	return status, nil
}

// Update replaces every segment of the itinerary with the new request. The
// whole swap is atomic and serialized through the main flight's version.
func (a *Assembler) Update(ctx context.Context, mainID int64, req AssembleRequest) error {
	main, err := a.mainFlight(ctx, mainID)
	if err != nil {
		return err
	}
	if err := a.guardNotDeparted(ctx, main); err != nil {
		return err
	}
	if err := a.validate(ctx, req, mainID); err != nil {
		return err
	}

	updated, children, connections, err := a.build(ctx, req)
	if err != nil {
		return err
	}
	updated.ID = main.ID
	updated.IsConnecting = true

	if err := a.flights.ReplaceItinerary(ctx, updated, main.Version, children, connections); err != nil {
		return err
	}

	a.publish(ctx, "itinerary_updated", updated, len(children))
	a.log.Info("itinerary updated", "main_flight_id", mainID, "segments", len(children))
	return nil
}

func (a *Assembler) Delete(ctx context.Context, mainID int64) error {
	main, err := a.mainFlight(ctx, mainID)
	if err != nil {
		return err
	}
	if err := a.guardNotDeparted(ctx, main); err != nil {
		return err
	}

	if err := a.flights.DeleteItinerary(ctx, mainID); err != nil {
		return err
	}

	a.publish(ctx, "itinerary_deleted", main, 0)
	a.log.Info("itinerary deleted", "main_flight_id", mainID, "number", main.Number)
	return nil
}

// SweepStatuses recomputes the aggregate status of every itinerary that is
// not yet terminal; used by the worker ticker.
func (a *Assembler) SweepStatuses(ctx context.Context) (int, error) {
	mains, err := a.flights.ListConnectingMains(ctx, openStatuses())
	if err != nil {
		return 0, err
	}

	recomputed := 0
	for i := range mains {
		if _, err := a.RecomputeStatus(ctx, mains[i].ID); err != nil {
			a.log.Warn("status recompute failed", "main_flight_id", mains[i].ID, "error", err)
			continue
		}
		recomputed++
	}
	return recomputed, nil
}

// validate runs steps 1-5 of the assembly sequence: structure, continuity,
// timing, uniqueness, references. Nothing is written until all of them pass.
func (a *Assembler) validate(ctx context.Context, req AssembleRequest, excludeID int64) error {
	if req.FlightNumber == "" {
		return &domain.InvalidRequestError{Reason: "flight number is required"}
	}
	if err := validateStructure(req.Legs); err != nil {
		return err
	}
	if err := validateContinuity(req.Legs); err != nil {
		return err
	}
	if err := validateTiming(req.Legs); err != nil {
		return err
	}

	date := dateOnly(req.Legs[0].ScheduledDeparture)
	exists, err := a.flights.ConnectingFlightExists(ctx, req.FlightNumber, date, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return &domain.DuplicateFlightError{Number: req.FlightNumber, Date: date}
	}

	return a.validateReferences(ctx, req)
}

func validateStructure(legs []LegRequest) error {
	if len(legs) < MinSegments || len(legs) > MaxSegments {
		return &domain.InvalidRequestError{Reason: fmt.Sprintf("a connecting flight needs between %d and %d segments, got %d", MinSegments, MaxSegments, len(legs))}
	}
	for i := range legs {
		if legs[i].SegmentNumber != i+1 {
			return &domain.InvalidRequestError{Reason: fmt.Sprintf("segment numbers must be contiguous starting at 1, position %d has number %d", i+1, legs[i].SegmentNumber)}
		}
	}
	return nil
}

func validateContinuity(legs []LegRequest) error {
	for i := 0; i < len(legs)-1; i++ {
		if legs[i].DestinationID != legs[i+1].OriginID {
			return &domain.RouteContinuityError{FromSegment: i + 1, ToSegment: i + 2}
		}
	}
	return nil
}

func validateTiming(legs []LegRequest) error {
	for i := range legs {
		if !legs[i].ScheduledArrival.After(legs[i].ScheduledDeparture) {
			return &domain.ConnectionTimingError{FromSegment: i + 1, ToSegment: i + 1, Reason: "non-increasing"}
		}
	}
	// Gaps are compared as durations, not whole minutes: schedules arrive at
	// second granularity, and 1440m30s must not slip past the maximum.
	for i := 0; i < len(legs)-1; i++ {
		gap := legs[i+1].ScheduledDeparture.Sub(legs[i].ScheduledArrival)
		minutes := int(gap.Minutes())
		switch {
		case gap <= 0:
			return &domain.ConnectionTimingError{FromSegment: i + 1, ToSegment: i + 2, GapMinutes: minutes, Reason: "non-increasing"}
		case gap < MinConnectionMinutes*time.Minute:
			return &domain.ConnectionTimingError{FromSegment: i + 1, ToSegment: i + 2, GapMinutes: minutes, Reason: "too tight"}
		case gap > MaxConnectionMinutes*time.Minute:
			return &domain.ConnectionTimingError{FromSegment: i + 1, ToSegment: i + 2, GapMinutes: minutes, Reason: "too long"}
		}
	}
	return nil
}

func (a *Assembler) validateReferences(ctx context.Context, req AssembleRequest) error {
	airline, err := a.lookup.GetAirline(ctx, req.AirlineID)
	if err != nil {
		return &domain.InvalidReferenceError{Kind: "airline", ID: req.AirlineID, Err: err}
	}
	if airline == nil || !airline.Active {
		return &domain.InvalidReferenceError{Kind: "airline", ID: req.AirlineID}
	}

	aircraft, err := a.lookup.GetAircraft(ctx, req.AircraftID)
	if err != nil {
		return &domain.InvalidReferenceError{Kind: "aircraft", ID: req.AircraftID, Err: err}
	}
	if aircraft == nil || !aircraft.Active {
		return &domain.InvalidReferenceError{Kind: "aircraft", ID: req.AircraftID}
	}
	return nil
}

// build resolves a route per leg and materializes the main flight, its
// segment flights and connection rows. Nothing is persisted here.
func (a *Assembler) build(ctx context.Context, req AssembleRequest) (*domain.Flight, []domain.Flight, []domain.FlightConnection, error) {
	children := make([]domain.Flight, 0, len(req.Legs))
	connections := make([]domain.FlightConnection, 0, len(req.Legs))
	var firstRouteID int64

	for i, leg := range req.Legs {
		routeID, err := a.resolver.Resolve(ctx, routes.ResolveRequest{
			Mode:          routes.ModeAirportPair,
			OriginID:      &leg.OriginID,
			DestinationID: &leg.DestinationID,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		if i == 0 {
			firstRouteID = routeID
		}

		rid := routeID
		children = append(children, domain.Flight{
			Number:             fmt.Sprintf("%s-S%d", req.FlightNumber, leg.SegmentNumber),
			RouteID:            &rid,
			AirlineID:          req.AirlineID,
			AircraftID:         req.AircraftID,
			FlightDate:         dateOnly(leg.ScheduledDeparture),
			ScheduledDeparture: leg.ScheduledDeparture,
			ScheduledArrival:   leg.ScheduledArrival,
			Status:             domain.FlightStatusScheduled,
			SegmentNumber:      leg.SegmentNumber,
			IsConnecting:       false,
			PassengerCapacity:  req.PassengerCapacity,
			CargoCapacityKg:    req.CargoCapacityKg,
		})

		var gap *int
		if i < len(req.Legs)-1 {
			minutes := int(req.Legs[i+1].ScheduledDeparture.Sub(leg.ScheduledArrival).Minutes())
			gap = &minutes
		}
		connections = append(connections, domain.FlightConnection{
			SegmentOrder:      leg.SegmentNumber,
			ConnectionMinutes: gap,
		})
	}

	first := req.Legs[0]
	last := req.Legs[len(req.Legs)-1]
	main := &domain.Flight{
		Number:             req.FlightNumber,
		RouteID:            &firstRouteID,
		AirlineID:          req.AirlineID,
		AircraftID:         req.AircraftID,
		FlightDate:         dateOnly(first.ScheduledDeparture),
		ScheduledDeparture: first.ScheduledDeparture,
		ScheduledArrival:   last.ScheduledArrival,
		Status:             domain.FlightStatusScheduled,
		SegmentNumber:      0,
		IsConnecting:       true,
		PassengerCapacity:  req.PassengerCapacity,
		CargoCapacityKg:    req.CargoCapacityKg,
	}

	return main, children, connections, nil
}

func (a *Assembler) mainFlight(ctx context.Context, mainID int64) (*domain.Flight, error) {
	main, err := a.flights.GetByID(ctx, mainID)
	if err != nil {
		return nil, err
	}
	if main == nil || !main.IsConnecting {
		return nil, &domain.InvalidRequestError{Reason: fmt.Sprintf("flight %d is not a connecting itinerary", mainID)}
	}
	return main, nil
}

func (a *Assembler) guardNotDeparted(ctx context.Context, main *domain.Flight) error {
	if main.HasDeparted() {
		return &domain.ImmutableAfterDepartureError{FlightID: main.ID}
	}
	children, err := a.flights.GetChildren(ctx, main.ID)
	if err != nil {
		return err
	}
	for i := range children {
		if children[i].HasDeparted() {
			return &domain.ImmutableAfterDepartureError{FlightID: children[i].ID}
		}
	}
	return nil
}

func (a *Assembler) publish(ctx context.Context, eventType string, main *domain.Flight, segments int) {
	if a.producer == nil || a.eventsTopic == "" {
		return
	}

	event := kafka.NewFlightEvent(eventType)
	event.MainFlightID = main.ID
	event.FlightNumber = main.Number
	event.FlightDate = main.FlightDate.Format("2006-01-02")
	if main.RouteID != nil {
		event.RouteID = *main.RouteID
	}
	event.Status = string(main.Status)
	event.SegmentCount = segments

	if err := a.producer.Publish(ctx, a.eventsTopic, main.Number, event); err != nil {
		a.log.Warn("event publish failed", "type", eventType, "main_flight_id", main.ID, "error", err)
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var _ ItineraryUseCase = (*Assembler)(nil)
