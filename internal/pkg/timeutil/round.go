package timeutil

import "math"

// RoundMode selects how RoundToStep snaps a minute value onto the step grid.
type RoundMode string

const (
	RoundNearest RoundMode = "nearest"
	RoundUp      RoundMode = "up"
	RoundDown    RoundMode = "down"
)

// ParseRoundMode maps a config string to a RoundMode, defaulting to nearest.
func ParseRoundMode(s string) RoundMode {
	switch s {
	case string(RoundUp):
		return RoundUp
	case string(RoundDown):
		return RoundDown
	default:
		return RoundNearest
	}
}

// RoundToStep rounds minutes onto a grid of step minutes. Negative or
// non-finite input yields 0. A non-positive step passes the value through
// (floored at 0).
func RoundToStep(minutes float64, step int, mode RoundMode) int {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes <= 0 {
		return 0
	}
	if step <= 0 {
		return int(math.Round(minutes))
	}

	s := float64(step)
	var rounded float64
	switch mode {
	case RoundUp:
		rounded = math.Ceil(minutes/s) * s
	case RoundDown:
		rounded = math.Floor(minutes/s) * s
	default:
		rounded = math.Round(minutes/s) * s
	}
	if rounded < 0 {
		return 0
	}
	return int(rounded)
}

// HoursFromMinutes converts minutes to hours. No rounding happens here;
// all rounding is applied on minutes before conversion.
func HoursFromMinutes(minutes int) float64 {
	return float64(minutes) / 60.0
}

// QuarterHours rounds minutes to the nearest quarter hour and returns hours.
// Used by the site pivot display figures.
func QuarterHours(minutes int) float64 {
	return HoursFromMinutes(RoundToStep(float64(minutes), 15, RoundNearest))
}
