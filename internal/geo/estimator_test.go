package geo

import (
	"testing"

	"github.com/Domenick1991/flightops/internal/domain"
	"github.com/stretchr/testify/assert"
)

func coords(lat, lon float64) (*float64, *float64) {
	return &lat, &lon
}

func TestDistanceKm_KnownPair(t *testing.T) {
	// Istanbul (IST) to Ankara (ESB), roughly 310-320 km great-circle.
	d := DistanceKm(41.2753, 28.7519, 40.1281, 32.9951)

	assert.InDelta(t, 315, d, 15)
}

func TestDistanceKm_IdenticalPoints(t *testing.T) {
	d := DistanceKm(41.2753, 28.7519, 41.2753, 28.7519)

	assert.Equal(t, 0.0, d)
}

func TestAirportDistanceKm_MissingCoordinatesFallsBack(t *testing.T) {
	lat, lon := coords(41.2753, 28.7519)
	withCoords := &domain.Airport{ID: 1, Latitude: lat, Longitude: lon}
	withoutCoords := &domain.Airport{ID: 2}

	assert.Equal(t, DefaultDomesticKm, AirportDistanceKm(withCoords, withoutCoords, domain.RouteKindDomestic))
	assert.Equal(t, DefaultInternationalKm, AirportDistanceKm(withoutCoords, withCoords, domain.RouteKindInternational))
}

func TestFlightMinutes_RoundsUp(t *testing.T) {
	// 315 km at 800 km/h is 23.625 minutes, rounded up to 24.
	assert.Equal(t, 24, FlightMinutes(315))
	assert.Equal(t, 60, FlightMinutes(800))
}

func TestFlightMinutes_UnknownDistanceDefault(t *testing.T) {
	assert.Equal(t, DefaultFlightMinutes, FlightMinutes(0))
	assert.Equal(t, DefaultFlightMinutes, FlightMinutes(-1))
}
