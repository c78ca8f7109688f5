package geo

import (
	"math"

	"github.com/Domenick1991/flightops/internal/domain"
	"github.com/golang/geo/s2"
)

const (
	EarthRadiusKm  = 6371.0
	CruiseSpeedKmh = 800.0

	// Fallback estimates for airports without stored coordinates.
	DefaultDomesticKm      = 400.0
	DefaultInternationalKm = 1200.0
	DefaultFlightMinutes   = 90
)

// DistanceKm returns the great-circle (Haversine) distance in kilometers
// between two points given in degrees. Identical points yield 0.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// AirportDistanceKm estimates the distance between two airports, falling back
// to a fixed per-kind default when either airport has no coordinates.
func AirportDistanceKm(origin, destination *domain.Airport, kind domain.RouteKind) float64 {
	if !origin.HasCoordinates() || !destination.HasCoordinates() {
		return FallbackDistanceKm(kind)
	}
	return DistanceKm(*origin.Latitude, *origin.Longitude, *destination.Latitude, *destination.Longitude)
}

// FallbackDistanceKm is the assumed leg length when coordinates are missing.
func FallbackDistanceKm(kind domain.RouteKind) float64 {
	if kind == domain.RouteKindInternational {
		return DefaultInternationalKm
	}
	return DefaultDomesticKm
}

// FlightMinutes estimates flight time at the assumed cruise speed, rounded up
// to a whole minute. Non-positive distances act as an "unknown" sentinel and
// get the fixed default; a true zero-length leg never reaches this code since
// origin and destination airports are required to differ, and rounding a zero
// estimate up to the default is the wanted behavior anyway.
func FlightMinutes(distanceKm float64) int {
	if distanceKm <= 0 {
		return DefaultFlightMinutes
	}
	return int(math.Ceil(distanceKm / CruiseSpeedKmh * 60))
}
