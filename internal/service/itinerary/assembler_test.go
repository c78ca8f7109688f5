package itinerary

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/flightops/internal/domain"
	"github.com/Domenick1991/flightops/internal/service/routes"
	"github.com/Domenick1991/flightops/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightStore struct {
	mock.Mock
}

func (m *MockFlightStore) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightStore) GetChildren(ctx context.Context, mainID int64) ([]domain.Flight, error) {
	args := m.Called(ctx, mainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightStore) GetConnections(ctx context.Context, mainID int64) ([]domain.FlightConnection, error) {
	args := m.Called(ctx, mainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightConnection), args.Error(1)
}

func (m *MockFlightStore) ConnectingFlightExists(ctx context.Context, number string, date time.Time, excludeID int64) (bool, error) {
	args := m.Called(ctx, number, date, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFlightStore) CreateItinerary(ctx context.Context, main *domain.Flight, children []domain.Flight, connections []domain.FlightConnection) error {
	args := m.Called(ctx, main, children, connections)
	if args.Error(0) == nil {
		main.ID = 500
	}
	return args.Error(0)
}

func (m *MockFlightStore) ReplaceItinerary(ctx context.Context, main *domain.Flight, expectedVersion int64, children []domain.Flight, connections []domain.FlightConnection) error {
	args := m.Called(ctx, main, expectedVersion, children, connections)
	return args.Error(0)
}

func (m *MockFlightStore) DeleteItinerary(ctx context.Context, mainID int64) error {
	args := m.Called(ctx, mainID)
	return args.Error(0)
}

func (m *MockFlightStore) UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockFlightStore) SetActualTimes(ctx context.Context, id int64, departure, arrival *time.Time) error {
	args := m.Called(ctx, id, departure, arrival)
	return args.Error(0)
}

func (m *MockFlightStore) ListConnectingMains(ctx context.Context, statuses []domain.FlightStatus) ([]domain.Flight, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, req routes.ResolveRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

type MockReferenceLookup struct {
	mock.Mock
}

func (m *MockReferenceLookup) GetAirline(ctx context.Context, id int64) (*domain.Airline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airline), args.Error(1)
}

func (m *MockReferenceLookup) GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Aircraft), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func activeAirline() *domain.Airline {
	return &domain.Airline{ID: 1, IATACode: "TK", Name: "Test Air", Active: true}
}

func activeAircraft() *domain.Aircraft {
	return &domain.Aircraft{ID: 2, TailNumber: "TC-TST", Model: "A321", Active: true}
}

// twoLegRequest is IST(10) -> ANK(20) -> IZM(30) with a 90-minute connection.
func twoLegRequest() AssembleRequest {
	return AssembleRequest{
		FlightNumber:      "TK100",
		AirlineID:         1,
		AircraftID:        2,
		PassengerCapacity: 180,
		CargoCapacityKg:   2000,
		Legs: []LegRequest{
			{
				SegmentNumber:      1,
				OriginID:           10,
				DestinationID:      20,
				ScheduledDeparture: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
				ScheduledArrival:   time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
			},
			{
				SegmentNumber:      2,
				OriginID:           20,
				DestinationID:      30,
				ScheduledDeparture: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
				ScheduledArrival:   time.Date(2026, 3, 1, 13, 30, 0, 0, time.UTC),
			},
		},
	}
}

func expectValidReferences(mockLookup *MockReferenceLookup, ctx context.Context) {
	mockLookup.On("GetAirline", ctx, int64(1)).Return(activeAirline(), nil)
	mockLookup.On("GetAircraft", ctx, int64(2)).Return(activeAircraft(), nil)
}

func TestAssembler_Assemble_Success(t *testing.T) {
	mockStore := &MockFlightStore{}
	mockResolver := &MockResolver{}
	mockLookup := &MockReferenceLookup{}
	assembler := NewAssembler(mockStore, mockResolver, mockLookup, logger.NewNop())
	ctx := context.Background()

	req := twoLegRequest()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mockStore.On("ConnectingFlightExists", ctx, "TK100", date, int64(0)).Return(false, nil)
	expectValidReferences(mockLookup, ctx)
	mockResolver.On("Resolve", ctx, mock.MatchedBy(func(r routes.ResolveRequest) bool {
		return r.Mode == routes.ModeAirportPair && *r.OriginID == 10 && *r.DestinationID == 20
	})).Return(int64(100), nil)
	mockResolver.On("Resolve", ctx, mock.MatchedBy(func(r routes.ResolveRequest) bool {
		return r.Mode == routes.ModeAirportPair && *r.OriginID == 20 && *r.DestinationID == 30
	})).Return(int64(101), nil)
	mockStore.On("CreateItinerary", ctx, mock.AnythingOfType("*domain.Flight"), mock.Anything, mock.Anything).Return(nil)

	result, err := assembler.Assemble(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, int64(500), result.Main.ID)
	assert.Equal(t, "TK100", result.Main.Number)
	assert.True(t, result.Main.IsConnecting)
	assert.Equal(t, 0, result.Main.SegmentNumber)
	assert.Equal(t, int64(100), *result.Main.RouteID)
	assert.Equal(t, req.Legs[0].ScheduledDeparture, result.Main.ScheduledDeparture)
	assert.Equal(t, req.Legs[1].ScheduledArrival, result.Main.ScheduledArrival)

	assert.Len(t, result.Segments, 2)
	assert.Equal(t, "TK100-S1", result.Segments[0].Number)
	assert.Equal(t, "TK100-S2", result.Segments[1].Number)
	assert.False(t, result.Segments[0].IsConnecting)
	assert.Equal(t, 1, result.Segments[0].SegmentNumber)
	assert.Equal(t, 2, result.Segments[1].SegmentNumber)
	assert.Equal(t, int64(101), *result.Segments[1].RouteID)
	assert.Equal(t, 180, result.Segments[0].PassengerCapacity)

	assert.Len(t, result.Connections, 2)
	assert.Equal(t, 1, result.Connections[0].SegmentOrder)
	assert.Equal(t, 90, *result.Connections[0].ConnectionMinutes)
	assert.Nil(t, result.Connections[1].ConnectionMinutes)
	mockStore.AssertExpectations(t)
}

func TestAssembler_Assemble_PublishesEvent(t *testing.T) {
	mockStore := &MockFlightStore{}
	mockResolver := &MockResolver{}
	mockLookup := &MockReferenceLookup{}
	mockProducer := &MockProducer{}
	assembler := NewAssembler(mockStore, mockResolver, mockLookup, logger.NewNop(),
		WithProducer(mockProducer, "flight-events"))
	ctx := context.Background()

	mockStore.On("ConnectingFlightExists", ctx, "TK100", mock.Anything, int64(0)).Return(false, nil)
	expectValidReferences(mockLookup, ctx)
	mockResolver.On("Resolve", ctx, mock.Anything).Return(int64(100), nil)
	mockStore.On("CreateItinerary", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockProducer.On("Publish", ctx, "flight-events", "TK100", mock.Anything).Return(nil)

	_, err := assembler.Assemble(ctx, twoLegRequest())

	assert.NoError(t, err)
	mockProducer.AssertExpectations(t)
}

func TestAssembler_Assemble_TooFewSegments(t *testing.T) {
	assembler := NewAssembler(&MockFlightStore{}, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())

	req := twoLegRequest()
	req.Legs = req.Legs[:1]

	_, err := assembler.Assemble(context.Background(), req)

	var reqErr *domain.InvalidRequestError
	assert.ErrorAs(t, err, &reqErr)
}

func TestAssembler_Assemble_TooManySegments(t *testing.T) {
	assembler := NewAssembler(&MockFlightStore{}, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())

	req := twoLegRequest()
	base := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	req.Legs = nil
	for i := 0; i < 11; i++ {
		req.Legs = append(req.Legs, LegRequest{
			SegmentNumber:      i + 1,
			OriginID:           int64(10 + i),
			DestinationID:      int64(11 + i),
			ScheduledDeparture: base.Add(time.Duration(i) * 2 * time.Hour),
			ScheduledArrival:   base.Add(time.Duration(i)*2*time.Hour + time.Hour),
		})
	}

	_, err := assembler.Assemble(context.Background(), req)

	var reqErr *domain.InvalidRequestError
	assert.ErrorAs(t, err, &reqErr)
}

func TestAssembler_Assemble_NonContiguousSegmentNumbers(t *testing.T) {
	assembler := NewAssembler(&MockFlightStore{}, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())

	req := twoLegRequest()
	req.Legs[1].SegmentNumber = 3

	_, err := assembler.Assemble(context.Background(), req)

	var reqErr *domain.InvalidRequestError
	assert.ErrorAs(t, err, &reqErr)
	assert.Contains(t, err.Error(), "contiguous")
}

func TestAssembler_Assemble_BrokenContinuity(t *testing.T) {
	assembler := NewAssembler(&MockFlightStore{}, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())

	req := twoLegRequest()
	req.Legs[1].OriginID = 99

	_, err := assembler.Assemble(context.Background(), req)

	var contErr *domain.RouteContinuityError
	assert.ErrorAs(t, err, &contErr)
	assert.Equal(t, 1, contErr.FromSegment)
	assert.Equal(t, 2, contErr.ToSegment)
}

func TestAssembler_Assemble_ConnectionTooTight(t *testing.T) {
	assembler := NewAssembler(&MockFlightStore{}, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())

	req := twoLegRequest()
	// 20-minute connection.
	req.Legs[1].ScheduledDeparture = req.Legs[0].ScheduledArrival.Add(20 * time.Minute)

	_, err := assembler.Assemble(context.Background(), req)

	var timingErr *domain.ConnectionTimingError
	assert.ErrorAs(t, err, &timingErr)
	assert.Equal(t, "too tight", timingErr.Reason)
	assert.Equal(t, 20, timingErr.GapMinutes)
	assert.Equal(t, 1, timingErr.FromSegment)
	assert.Equal(t, 2, timingErr.ToSegment)
}

func TestAssembler_Assemble_ConnectionTooLong(t *testing.T) {
	assembler := NewAssembler(&MockFlightStore{}, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())

	req := twoLegRequest()
	req.Legs[1].ScheduledDeparture = req.Legs[0].ScheduledArrival.Add(25 * time.Hour)
	req.Legs[1].ScheduledArrival = req.Legs[1].ScheduledDeparture.Add(time.Hour)

	_, err := assembler.Assemble(context.Background(), req)

	var timingErr *domain.ConnectionTimingError
	assert.ErrorAs(t, err, &timingErr)
	assert.Equal(t, "too long", timingErr.Reason)
}

func TestValidateTiming_GapBoundaries(t *testing.T) {
	legsWithGap := func(gap time.Duration) []LegRequest {
		departure := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		arrival := departure.Add(time.Hour)
		return []LegRequest{
			{SegmentNumber: 1, OriginID: 10, DestinationID: 20, ScheduledDeparture: departure, ScheduledArrival: arrival},
			{SegmentNumber: 2, OriginID: 20, DestinationID: 30, ScheduledDeparture: arrival.Add(gap), ScheduledArrival: arrival.Add(gap + time.Hour)},
		}
	}

	assert.NoError(t, validateTiming(legsWithGap(MinConnectionMinutes*time.Minute)))
	assert.NoError(t, validateTiming(legsWithGap(MaxConnectionMinutes*time.Minute)))

	var timingErr *domain.ConnectionTimingError

	// 29m30s truncates to 29 whole minutes but must still be too tight.
	err := validateTiming(legsWithGap(29*time.Minute + 30*time.Second))
	assert.ErrorAs(t, err, &timingErr)
	assert.Equal(t, "too tight", timingErr.Reason)

	// 1440m30s truncates to exactly 1440 whole minutes but is over the limit.
	err = validateTiming(legsWithGap(1440*time.Minute + 30*time.Second))
	assert.ErrorAs(t, err, &timingErr)
	assert.Equal(t, "too long", timingErr.Reason)
}

func TestAssembler_Assemble_NonIncreasingSchedule(t *testing.T) {
	assembler := NewAssembler(&MockFlightStore{}, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())

	req := twoLegRequest()
	req.Legs[1].ScheduledDeparture = req.Legs[0].ScheduledArrival.Add(-10 * time.Minute)

	_, err := assembler.Assemble(context.Background(), req)

	var timingErr *domain.ConnectionTimingError
	assert.ErrorAs(t, err, &timingErr)
	assert.Equal(t, "non-increasing", timingErr.Reason)
}

func TestAssembler_Assemble_DuplicateFlight(t *testing.T) {
	mockStore := &MockFlightStore{}
	assembler := NewAssembler(mockStore, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())
	ctx := context.Background()

	mockStore.On("ConnectingFlightExists", ctx, "TK100", mock.Anything, int64(0)).Return(true, nil)

	_, err := assembler.Assemble(ctx, twoLegRequest())

	var dupErr *domain.DuplicateFlightError
	assert.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "TK100", dupErr.Number)
}

func TestAssembler_Assemble_InactiveAirline(t *testing.T) {
	mockStore := &MockFlightStore{}
	mockLookup := &MockReferenceLookup{}
	assembler := NewAssembler(mockStore, &MockResolver{}, mockLookup, logger.NewNop())
	ctx := context.Background()

	grounded := activeAirline()
	grounded.Active = false
	mockStore.On("ConnectingFlightExists", ctx, "TK100", mock.Anything, int64(0)).Return(false, nil)
	mockLookup.On("GetAirline", ctx, int64(1)).Return(grounded, nil)

	_, err := assembler.Assemble(ctx, twoLegRequest())

	var refErr *domain.InvalidReferenceError
	assert.ErrorAs(t, err, &refErr)
	assert.Equal(t, "airline", refErr.Kind)
}

func TestAssembler_Assemble_UnknownAircraft(t *testing.T) {
	mockStore := &MockFlightStore{}
	mockLookup := &MockReferenceLookup{}
	assembler := NewAssembler(mockStore, &MockResolver{}, mockLookup, logger.NewNop())
	ctx := context.Background()

	mockStore.On("ConnectingFlightExists", ctx, "TK100", mock.Anything, int64(0)).Return(false, nil)
	mockLookup.On("GetAirline", ctx, int64(1)).Return(activeAirline(), nil)
	mockLookup.On("GetAircraft", ctx, int64(2)).Return(nil, nil)

	_, err := assembler.Assemble(ctx, twoLegRequest())

	var refErr *domain.InvalidReferenceError
	assert.ErrorAs(t, err, &refErr)
	assert.Equal(t, "aircraft", refErr.Kind)
}

func TestAssembler_Assemble_RouteResolutionFailureWritesNothing(t *testing.T) {
	mockStore := &MockFlightStore{}
	mockResolver := &MockResolver{}
	mockLookup := &MockReferenceLookup{}
	assembler := NewAssembler(mockStore, mockResolver, mockLookup, logger.NewNop())
	ctx := context.Background()

	mockStore.On("ConnectingFlightExists", ctx, "TK100", mock.Anything, int64(0)).Return(false, nil)
	expectValidReferences(mockLookup, ctx)
	mockResolver.On("Resolve", ctx, mock.Anything).Return(int64(0), &domain.InvalidReferenceError{Kind: "airport", ID: 20})

	_, err := assembler.Assemble(ctx, twoLegRequest())

	var refErr *domain.InvalidReferenceError
	assert.ErrorAs(t, err, &refErr)
	mockStore.AssertNotCalled(t, "CreateItinerary", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssembler_RecomputeStatus_UpdatesAndMirrors(t *testing.T) {
	mockStore := &MockFlightStore{}
	assembler := NewAssembler(mockStore, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())
	ctx := context.Background()

	departedAt := time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)
	main := &domain.Flight{ID: 500, Number: "TK100", IsConnecting: true, Status: domain.FlightStatusScheduled}
	children := []domain.Flight{
		{ID: 501, SegmentNumber: 1, Status: domain.FlightStatusDeparted, ActualDeparture: &departedAt},
		{ID: 502, SegmentNumber: 2, Status: domain.FlightStatusScheduled},
	}

	mockStore.On("GetByID", ctx, int64(500)).Return(main, nil)
	mockStore.On("GetChildren", ctx, int64(500)).Return(children, nil)
	mockStore.On("UpdateStatus", ctx, int64(500), domain.FlightStatusDeparted).Return(nil)
	mockStore.On("SetActualTimes", ctx, int64(500), &departedAt, (*time.Time)(nil)).Return(nil)

	status, err := assembler.RecomputeStatus(ctx, 500)

	assert.NoError(t, err)
	assert.Equal(t, domain.FlightStatusDeparted, status)
	mockStore.AssertExpectations(t)
}

func TestAssembler_RecomputeStatus_NoChangeNoWrite(t *testing.T) {
	mockStore := &MockFlightStore{}
	assembler := NewAssembler(mockStore, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())
	ctx := context.Background()

	main := &domain.Flight{ID: 500, Number: "TK100", IsConnecting: true, Status: domain.FlightStatusScheduled}
	children := []domain.Flight{
		{ID: 501, SegmentNumber: 1, Status: domain.FlightStatusScheduled},
		{ID: 502, SegmentNumber: 2, Status: domain.FlightStatusScheduled},
	}

	mockStore.On("GetByID", ctx, int64(500)).Return(main, nil)
	mockStore.On("GetChildren", ctx, int64(500)).Return(children, nil)

	status, err := assembler.RecomputeStatus(ctx, 500)

	assert.NoError(t, err)
	assert.Equal(t, domain.FlightStatusScheduled, status)
	mockStore.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	mockStore.AssertNotCalled(t, "SetActualTimes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssembler_Update_RejectedAfterDeparture(t *testing.T) {
	mockStore := &MockFlightStore{}
	assembler := NewAssembler(mockStore, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())
	ctx := context.Background()

	main := &domain.Flight{ID: 500, Number: "TK100", IsConnecting: true, Status: domain.FlightStatusDeparted}
	mockStore.On("GetByID", ctx, int64(500)).Return(main, nil)

	err := assembler.Update(ctx, 500, twoLegRequest())

	var immErr *domain.ImmutableAfterDepartureError
	assert.ErrorAs(t, err, &immErr)
	assert.Equal(t, int64(500), immErr.FlightID)
}

func TestAssembler_Update_RejectedWhenChildDeparted(t *testing.T) {
	mockStore := &MockFlightStore{}
	assembler := NewAssembler(mockStore, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())
	ctx := context.Background()

	main := &domain.Flight{ID: 500, Number: "TK100", IsConnecting: true, Status: domain.FlightStatusScheduled}
	children := []domain.Flight{
		{ID: 501, SegmentNumber: 1, Status: domain.FlightStatusDeparted},
		{ID: 502, SegmentNumber: 2, Status: domain.FlightStatusScheduled},
	}
	mockStore.On("GetByID", ctx, int64(500)).Return(main, nil)
	mockStore.On("GetChildren", ctx, int64(500)).Return(children, nil)

	err := assembler.Update(ctx, 500, twoLegRequest())

	var immErr *domain.ImmutableAfterDepartureError
	assert.ErrorAs(t, err, &immErr)
	assert.Equal(t, int64(501), immErr.FlightID)
}

func TestAssembler_Update_ReplacesSegments(t *testing.T) {
	mockStore := &MockFlightStore{}
	mockResolver := &MockResolver{}
	mockLookup := &MockReferenceLookup{}
	assembler := NewAssembler(mockStore, mockResolver, mockLookup, logger.NewNop())
	ctx := context.Background()

	main := &domain.Flight{ID: 500, Number: "TK100", IsConnecting: true, Status: domain.FlightStatusScheduled, Version: 3}
	mockStore.On("GetByID", ctx, int64(500)).Return(main, nil)
	mockStore.On("GetChildren", ctx, int64(500)).Return([]domain.Flight{}, nil)
	mockStore.On("ConnectingFlightExists", ctx, "TK100", mock.Anything, int64(500)).Return(false, nil)
	expectValidReferences(mockLookup, ctx)
	mockResolver.On("Resolve", ctx, mock.Anything).Return(int64(100), nil)
	mockStore.On("ReplaceItinerary", ctx, mock.MatchedBy(func(f *domain.Flight) bool {
		return f.ID == 500 && f.IsConnecting
	}), int64(3), mock.Anything, mock.Anything).Return(nil)

	err := assembler.Update(ctx, 500, twoLegRequest())

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestAssembler_Update_VersionConflictSurfaces(t *testing.T) {
	mockStore := &MockFlightStore{}
	mockResolver := &MockResolver{}
	mockLookup := &MockReferenceLookup{}
	assembler := NewAssembler(mockStore, mockResolver, mockLookup, logger.NewNop())
	ctx := context.Background()

	main := &domain.Flight{ID: 500, Number: "TK100", IsConnecting: true, Status: domain.FlightStatusScheduled, Version: 3}
	mockStore.On("GetByID", ctx, int64(500)).Return(main, nil)
	mockStore.On("GetChildren", ctx, int64(500)).Return([]domain.Flight{}, nil)
	mockStore.On("ConnectingFlightExists", ctx, "TK100", mock.Anything, int64(500)).Return(false, nil)
	expectValidReferences(mockLookup, ctx)
	mockResolver.On("Resolve", ctx, mock.Anything).Return(int64(100), nil)
	mockStore.On("ReplaceItinerary", ctx, mock.Anything, int64(3), mock.Anything, mock.Anything).Return(domain.ErrVersionConflict)

	err := assembler.Update(ctx, 500, twoLegRequest())

	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestAssembler_Delete_RejectedAfterDeparture(t *testing.T) {
	mockStore := &MockFlightStore{}
	assembler := NewAssembler(mockStore, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())
	ctx := context.Background()

	departedAt := time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)
	main := &domain.Flight{ID: 500, Number: "TK100", IsConnecting: true, Status: domain.FlightStatusScheduled, ActualDeparture: &departedAt}
	mockStore.On("GetByID", ctx, int64(500)).Return(main, nil)

	err := assembler.Delete(ctx, 500)

	var immErr *domain.ImmutableAfterDepartureError
	assert.ErrorAs(t, err, &immErr)
	mockStore.AssertNotCalled(t, "DeleteItinerary", mock.Anything, mock.Anything)
}

func TestAssembler_Delete_Success(t *testing.T) {
	mockStore := &MockFlightStore{}
	assembler := NewAssembler(mockStore, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())
	ctx := context.Background()

	main := &domain.Flight{ID: 500, Number: "TK100", IsConnecting: true, Status: domain.FlightStatusScheduled}
	mockStore.On("GetByID", ctx, int64(500)).Return(main, nil)
	mockStore.On("GetChildren", ctx, int64(500)).Return([]domain.Flight{}, nil)
	mockStore.On("DeleteItinerary", ctx, int64(500)).Return(nil)

	err := assembler.Delete(ctx, 500)

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestAssembler_Get_NotConnecting(t *testing.T) {
	mockStore := &MockFlightStore{}
	assembler := NewAssembler(mockStore, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())
	ctx := context.Background()

	standalone := &domain.Flight{ID: 42, Number: "TK900", IsConnecting: false}
	mockStore.On("GetByID", ctx, int64(42)).Return(standalone, nil)

	_, err := assembler.Get(ctx, 42)

	var reqErr *domain.InvalidRequestError
	assert.ErrorAs(t, err, &reqErr)
}

func TestAssembler_SweepStatuses(t *testing.T) {
	mockStore := &MockFlightStore{}
	assembler := NewAssembler(mockStore, &MockResolver{}, &MockReferenceLookup{}, logger.NewNop())
	ctx := context.Background()

	mains := []domain.Flight{
		{ID: 500, Number: "TK100", IsConnecting: true, Status: domain.FlightStatusScheduled},
	}
	children := []domain.Flight{
		{ID: 501, SegmentNumber: 1, Status: domain.FlightStatusScheduled},
		{ID: 502, SegmentNumber: 2, Status: domain.FlightStatusScheduled},
	}
	mockStore.On("ListConnectingMains", ctx, mock.Anything).Return(mains, nil)
	mockStore.On("GetByID", ctx, int64(500)).Return(&mains[0], nil)
	mockStore.On("GetChildren", ctx, int64(500)).Return(children, nil)

	recomputed, err := assembler.SweepStatuses(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, recomputed)
}
