package domain

// Airport is reference data, read-only to the scheduling core.
type Airport struct {
	ID        int64
	IATACode  string
	ICAOCode  string
	Name      string
	City      string
	Country   string
	Latitude  *float64
	Longitude *float64
	Active    bool
}

func (a *Airport) HasCoordinates() bool {
	return a != nil && a.Latitude != nil && a.Longitude != nil
}

type Airline struct {
	ID       int64
	IATACode string
	Name     string
	Active   bool
}

type Aircraft struct {
	ID           int64
	TailNumber   string
	Model        string
	SeatCapacity int
	Active       bool
}
