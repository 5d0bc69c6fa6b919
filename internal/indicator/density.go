package indicator

import "math"

// Density returns POIs per square kilometer for a circular search radius.
// The area denominator is floored to keep tiny radii from exploding the ratio.
func Density(total int64, radiusM int) float64 {
	rKm := float64(radiusM) / 1000.0
	area := math.Pi * rKm * rKm
	return float64(total) / math.Max(area, 1e-6)
}

// ComposeMergedDensity averages two source counts and converts to density over
// the same circular area. The average is rounded before division so the result
// is symmetric in its arguments.
func ComposeMergedDensity(countA, countB int64, radiusM int) float64 {
	merged := math.Round(float64(countA+countB) / 2.0)
	rKm := float64(radiusM) / 1000.0
	area := math.Pi * rKm * rKm
	return merged / math.Max(area, 1e-6)
}
