package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/Domenick1991/flightops/internal/service/itinerary"
	"github.com/Domenick1991/flightops/pkg/logger"
	"github.com/jszwec/csvutil"
)

// flightRow is one CSV line: a single leg of a connecting flight. Legs of the
// same flight number are grouped into one itinerary.
type flightRow struct {
	FlightNumber       string `csv:"flight_number"`
	SegmentNumber      int    `csv:"segment_number"`
	OriginAirportID    int64  `csv:"origin_airport_id"`
	DestAirportID      int64  `csv:"destination_airport_id"`
	AirlineID          int64  `csv:"airline_id"`
	AircraftID         int64  `csv:"aircraft_id"`
	ScheduledDeparture string `csv:"scheduled_departure"`
	ScheduledArrival   string `csv:"scheduled_arrival"`
	PassengerCapacity  int    `csv:"passenger_capacity"`
	CargoCapacityKg    int    `csv:"cargo_capacity_kg"`
}

// RowError reports why one flight group failed; the rest of the file still
// imports.
type RowError struct {
	FlightNumber string `json:"flight_number"`
	Error        string `json:"error"`
}

type Result struct {
	Imported int        `json:"imported"`
	Failed   []RowError `json:"failed,omitempty"`
}

type Assembler interface {
	Assemble(ctx context.Context, req itinerary.AssembleRequest) (*itinerary.Itinerary, error)
}

type Importer struct {
	assembler Assembler
	log       logger.Logger
}

func NewImporter(assembler Assembler, log logger.Logger) *Importer {
	return &Importer{assembler: assembler, log: log}
}

// Import reads connecting-flight legs from CSV and assembles one itinerary
// per flight number. Schedule times are RFC3339.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	decoder, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder: %w", err)
	}

	var rows []flightRow
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode flight CSV: %w", err)
	}

	groups := make(map[string][]flightRow)
	order := make([]string, 0)
	for _, row := range rows {
		if _, seen := groups[row.FlightNumber]; !seen {
			order = append(order, row.FlightNumber)
		}
		groups[row.FlightNumber] = append(groups[row.FlightNumber], row)
	}

	result := &Result{}
	for _, number := range order {
		req, err := buildRequest(number, groups[number])
		if err != nil {
			result.Failed = append(result.Failed, RowError{FlightNumber: number, Error: err.Error()})
			continue
		}
		if _, err := i.assembler.Assemble(ctx, *req); err != nil {
			result.Failed = append(result.Failed, RowError{FlightNumber: number, Error: err.Error()})
			continue
		}
		result.Imported++
	}

	i.log.Info("flight import finished", "imported", result.Imported, "failed", len(result.Failed))
	return result, nil
}

func buildRequest(number string, rows []flightRow) (*itinerary.AssembleRequest, error) {
	sort.Slice(rows, func(a, b int) bool { return rows[a].SegmentNumber < rows[b].SegmentNumber })

	legs := make([]itinerary.LegRequest, 0, len(rows))
	for _, row := range rows {
		departure, err := time.Parse(time.RFC3339, row.ScheduledDeparture)
		if err != nil {
			return nil, fmt.Errorf("segment %d: bad departure time %q", row.SegmentNumber, row.ScheduledDeparture)
		}
		arrival, err := time.Parse(time.RFC3339, row.ScheduledArrival)
		if err != nil {
			return nil, fmt.Errorf("segment %d: bad arrival time %q", row.SegmentNumber, row.ScheduledArrival)
		}
		legs = append(legs, itinerary.LegRequest{
			SegmentNumber:      row.SegmentNumber,
			OriginID:           row.OriginAirportID,
			DestinationID:      row.DestAirportID,
			ScheduledDeparture: departure,
			ScheduledArrival:   arrival,
		})
	}

	first := rows[0]
	return &itinerary.AssembleRequest{
		FlightNumber:      number,
		AirlineID:         first.AirlineID,
		AircraftID:        first.AircraftID,
		PassengerCapacity: first.PassengerCapacity,
		CargoCapacityKg:   first.CargoCapacityKg,
		Legs:              legs,
	}, nil
}
