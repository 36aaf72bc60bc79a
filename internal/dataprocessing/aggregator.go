package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/go-playground/validator/v10"

	apperrors "weathercli/internal/errors"
	"weathercli/pkg/contracts/domain"
)

// Aggregator answers summary queries over a loaded weather Dataset.
// The dataset is read-only after construction; no operation mutates it.
type Aggregator struct {
	dataset  *domain.Dataset
	logger   *slog.Logger
	validate *validator.Validate
}

// analyzeParams carries the caller-supplied Analyze parameters through
// struct-tag validation.
type analyzeParams struct {
	Unit      string  `json:"uom" validate:"required,oneof=celsius fahrenheit"`
	Threshold float64 `json:"fluctuation_threshold" validate:"required,gt=0"`
}

// New creates an aggregator over an already loaded dataset. A nil
// dataset is valid and represents a failed load: every query
// short-circuits to an absence result.
func New(dataset *domain.Dataset, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		dataset:  dataset,
		logger:   logger,
		validate: validator.New(),
	}
}

// NewFromFile loads the dataset at path and wraps it in an aggregator.
// Load failures are absorbed here: they are logged with their
// classification and yield an aggregator with an absent dataset, never
// an error.
func NewFromFile(path string, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}

	dataset, err := NewLoader(logger).Load(path)
	if err != nil {
		logger.Error("failed to load weather data",
			slog.String("path", path),
			slog.String("error_type", string(apperrors.TypeOf(err))),
			slog.String("error", err.Error()))
		dataset = nil
	}

	return New(dataset, logger)
}

// Loaded reports whether a dataset was successfully loaded.
func (a *Aggregator) Loaded() bool {
	return a.dataset != nil
}

// HighestByCity returns the maximum temperature per city for the given
// unit, rounded to one decimal place.
func (a *Aggregator) HighestByCity(unit domain.Unit) map[string]float64 {
	result := make(map[string]float64)
	for city, stats := range a.cityStats(unit) {
		result[city] = round1(stats.max)
	}
	return result
}

// LowestByCity returns the minimum temperature per city for the given
// unit, rounded to one decimal place.
func (a *Aggregator) LowestByCity(unit domain.Unit) map[string]float64 {
	result := make(map[string]float64)
	for city, stats := range a.cityStats(unit) {
		result[city] = round1(stats.min)
	}
	return result
}

// AverageByCity returns the mean temperature per city for the given
// unit, rounded to one decimal place.
func (a *Aggregator) AverageByCity(unit domain.Unit) map[string]float64 {
	result := make(map[string]float64)
	for city, stats := range a.cityStats(unit) {
		result[city] = round1(stats.sum / float64(stats.count))
	}
	return result
}

// FluctuationCities returns the cities whose rounded (max − min)
// temperature range strictly exceeds threshold. The threshold must be
// positive; a non-positive value is a precondition failure.
func (a *Aggregator) FluctuationCities(threshold float64, unit domain.Unit) ([]string, error) {
	if threshold <= 0 {
		return nil, apperrors.NewValidationError("fluctuation threshold must be greater than 0", nil)
	}

	cities := make([]string, 0)
	for city, stats := range a.cityStats(unit) {
		if round1(stats.max-stats.min) > threshold {
			cities = append(cities, city)
		}
	}
	sort.Strings(cities)
	return cities, nil
}

// HighestByDate returns, for each distinct non-null date, the city of
// the row holding the maximum temperature on that date. Ties break to
// the earliest-loaded row: a later row replaces the leader only when
// strictly warmer.
func (a *Aggregator) HighestByDate(unit domain.Unit) map[string]string {
	type leader struct {
		city string
		temp float64
	}

	leaders := groupReduce(a.readings(),
		func(r domain.Reading) (string, bool) {
			key := r.DateString()
			return key, key != ""
		},
		func(r domain.Reading) leader {
			return leader{city: r.City, temp: r.Temperature(unit)}
		},
		func(acc leader, r domain.Reading) leader {
			if r.Temperature(unit) > acc.temp {
				return leader{city: r.City, temp: r.Temperature(unit)}
			}
			return acc
		},
	)

	result := make(map[string]string, len(leaders))
	for date, l := range leaders {
		result[date] = l.city
	}
	return result
}

// OverallAverage returns the mean of the selected temperature column
// across all rows, rounded to one decimal place.
func (a *Aggregator) OverallAverage(unit domain.Unit) float64 {
	readings := a.readings()
	if len(readings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range readings {
		sum += r.Temperature(unit)
	}
	return round1(sum / float64(len(readings)))
}

// Analyze bundles all five summary queries into one AggregateReport.
// It returns (nil, nil) when no dataset was loaded: the load failure
// was already logged and absence is the documented result. Invalid
// parameters are rejected before any aggregation runs.
func (a *Aggregator) Analyze(ctx context.Context, threshold float64, unit domain.Unit) (*domain.AggregateReport, error) {
	if !a.Loaded() {
		a.logger.WarnContext(ctx, "no dataset loaded, returning absent report")
		return nil, nil
	}

	params := analyzeParams{Unit: string(unit), Threshold: threshold}
	if err := a.validate.Struct(params); err != nil {
		return nil, apperrors.NewValidationError("invalid analysis parameters", err).
			WithContext("uom", string(unit)).
			WithContext("fluctuation_threshold", threshold)
	}

	fluctuation, err := a.FluctuationCities(threshold, unit)
	if err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "analyzing weather dataset",
		slog.Int("readings", a.dataset.Len()),
		slog.String("uom", string(unit)),
		slog.Float64("fluctuation_threshold", threshold))

	return &domain.AggregateReport{
		HighestTemperatureByCity:  a.HighestByCity(unit),
		HighestTemperatureByDate:  a.HighestByDate(unit),
		CitiesWithHighFluctuation: fluctuation,
		CityAverages:              a.AverageByCity(unit),
		AverageTemperature:        a.OverallAverage(unit),
	}, nil
}

// readings returns the underlying rows, or nil when the dataset is absent.
func (a *Aggregator) readings() []domain.Reading {
	if a.dataset == nil {
		return nil
	}
	return a.dataset.Readings
}

// tempStats accumulates the per-group reduction state for one city.
type tempStats struct {
	min   float64
	max   float64
	sum   float64
	count int
}

// cityStats runs the min/max/sum reduction grouped by city in a single pass.
func (a *Aggregator) cityStats(unit domain.Unit) map[string]tempStats {
	return groupReduce(a.readings(),
		func(r domain.Reading) (string, bool) {
			return r.City, r.City != ""
		},
		func(r domain.Reading) tempStats {
			t := r.Temperature(unit)
			return tempStats{min: t, max: t, sum: t, count: 1}
		},
		func(acc tempStats, r domain.Reading) tempStats {
			t := r.Temperature(unit)
			if t < acc.min {
				acc.min = t
			}
			if t > acc.max {
				acc.max = t
			}
			acc.sum += t
			acc.count++
			return acc
		},
	)
}

// groupReduce groups readings by key and folds each group, visiting
// rows in original load order. The key function may exclude a row by
// returning false; init seeds a group from its first row and merge
// folds every subsequent row into the accumulator.
func groupReduce[T any](readings []domain.Reading, key func(domain.Reading) (string, bool), init func(domain.Reading) T, merge func(T, domain.Reading) T) map[string]T {
	groups := make(map[string]T)
	for _, r := range readings {
		k, ok := key(r)
		if !ok {
			continue
		}
		if acc, exists := groups[k]; exists {
			groups[k] = merge(acc, r)
		} else {
			groups[k] = init(r)
		}
	}
	return groups
}

// round1 rounds to one decimal place, applied at the point a value is
// finalized for output.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
