package simulator

import (
	"fmt"
	"math"
	"strconv"

	"github.com/julianstephens/trailpace/internal/constants"
	"github.com/julianstephens/trailpace/internal/models"
)

// Itinerary keeps only results that carry a category.
func Itinerary(results []models.SimulationResult) []models.ItineraryRow {
	rows := make([]models.ItineraryRow, 0)
	for _, r := range results {
		if r.Category == "" {
			continue
		}
		rows = append(rows, models.ItineraryRow{
			WaypointIndex:        r.WaypointIndex,
			Category:             r.Category,
			CategoryLabel:        r.CategoryLabel,
			CumulativeDistanceKm: r.CumulativeDistanceKm,
			SectionDistanceKm:    r.SectionSinceNamedKm,
			ElevationM:           r.ElevationM,
			Arrival:              ArrivalHHMM(r.ArrivalTimeFormatted),
			Elapsed:              FormatElapsed(r.ElapsedMs),
			GateTime:             r.GateTimeForDisplay,
			RestMinutes:          cloneFloat(r.RestMinutes),
		})
	}
	return rows
}

// Chart builds the elevation profile and its named-point markers.
func Chart(results []models.SimulationResult) models.ChartSeries {
	series := models.ChartSeries{
		Elevation:   make([]models.ChartPoint, 0, len(results)),
		AidStations: make([]models.ChartMarker, 0),
		Finish:      make([]models.ChartMarker, 0, 1),
	}

	for _, r := range results {
		series.Elevation = append(series.Elevation, models.ChartPoint{X: r.CumulativeDistanceKm, Y: r.ElevationM})

		marker := models.ChartMarker{
			WaypointIndex: r.WaypointIndex,
			X:             r.CumulativeDistanceKm,
			Y:             r.ElevationM,
			Label:         markerLabel(r),
			Arrival:       ArrivalHHMM(r.ArrivalTimeFormatted),
		}
		switch r.Category {
		case "", constants.CategoryStart:
		case constants.CategoryFinish:
			series.Finish = append(series.Finish, marker)
		default:
			series.AidStations = append(series.AidStations, marker)
		}
	}

	return series
}

func markerLabel(r models.SimulationResult) string {
	if r.CategoryLabel != "" {
		return r.CategoryLabel
	}
	return r.Category
}

// ArrivalHHMM truncates an HH:MM:SS clock to HH:MM.
func ArrivalHHMM(hhmmss string) string {
	if len(hhmmss) < 5 {
		return hhmmss
	}
	return hhmmss[:5]
}

// FormatElapsed renders milliseconds as HH:MM:SS. Hours are not wrapped at 24.
// Negative durations, reachable through negative rest minutes, get a single
// leading minus sign.
func FormatElapsed(ms float64) string {
	sign := ""
	totalSeconds := int64(math.Floor(math.Abs(ms) / 1000))
	if ms < 0 && totalSeconds > 0 {
		sign = "-"
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, hours, minutes, seconds)
}

// FormatDistance renders kilometers with one decimal place.
func FormatDistance(km float64) string {
	return strconv.FormatFloat(km, 'f', 1, 64)
}

// FormatElevation truncates meters toward zero for display.
func FormatElevation(m float64) string {
	return strconv.Itoa(int(m))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
