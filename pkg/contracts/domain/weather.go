package domain

import (
	"time"
)

// DateFormat is the canonical string form of a reading date. It is used
// both when parsing permissive input and when keying date-grouped results.
const DateFormat = "2006-01-02"

// Unit selects which temperature column a query reads.
type Unit string

const (
	UnitCelsius    Unit = "celsius"
	UnitFahrenheit Unit = "fahrenheit"
)

// Valid reports whether the unit is one of the supported temperature units.
func (u Unit) Valid() bool {
	return u == UnitCelsius || u == UnitFahrenheit
}

// Reading represents a single row of the weather dataset.
// Date is nil when the source cell could not be coerced to a calendar
// date; such rows still participate in city-keyed aggregates but are
// excluded from date-keyed aggregates.
type Reading struct {
	Date                  *time.Time `json:"date"`
	City                  string     `json:"city" validate:"required"`
	TemperatureCelsius    float64    `json:"temperature_celsius"`
	TemperatureFahrenheit float64    `json:"temperature_fahrenheit"`
}

// Temperature returns the reading's value for the given unit.
func (r Reading) Temperature(unit Unit) float64 {
	if unit == UnitCelsius {
		return r.TemperatureCelsius
	}
	return r.TemperatureFahrenheit
}

// DateString returns the canonical date string for the reading, or the
// empty string when the date is null.
func (r Reading) DateString() string {
	if r.Date == nil {
		return ""
	}
	return r.Date.Format(DateFormat)
}

// Dataset is the ordered table of readings produced by a single load.
// It is either fully loaded or absent; once constructed it is never
// mutated, so concurrent readers are safe without locking.
type Dataset struct {
	Readings []Reading `json:"readings"`
}

// Len returns the number of readings in the dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Readings)
}

// AggregateReport bundles the five summary queries for one
// (threshold, unit) invocation.
type AggregateReport struct {
	HighestTemperatureByCity  map[string]float64 `json:"highest_temperature_by_city"`
	HighestTemperatureByDate  map[string]string  `json:"highest_temperature_by_date"`
	CitiesWithHighFluctuation []string           `json:"cities_with_high_fluctuation"`
	CityAverages              map[string]float64 `json:"city_averages"`
	AverageTemperature        float64            `json:"average_temperature"`
}
