package hrtf

import "math"

// AzimuthIndex maps an azimuth in degrees onto one of count responses that
// are spaced evenly around the listener, starting at 0 degrees. Angles wrap,
// so 360 selects the same response as 0.
func AzimuthIndex(degrees float64, count int) int {
	if count <= 0 || math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return 0
	}

	deg := math.Mod(degrees, 360)
	if deg < 0 {
		deg += 360
	}

	idx := int(math.Round(deg * float64(count) / 360))
	return idx % count
}

// IndexAzimuth returns the azimuth in degrees of response index in a set of
// count evenly spaced responses.
func IndexAzimuth(index, count int) float64 {
	if count <= 0 {
		return 0
	}
	return float64(index) * 360 / float64(count)
}
