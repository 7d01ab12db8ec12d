// Package graph provides spatial lookup over the vertices of a
// transportation graph. The search core itself consumes vertices through
// interfaces; this package is what drivers use to resolve coordinates to
// vertices before starting a search.
package graph

import "math"

const (
	// RadiusOfEarthInMeters is RADIUS_OF_EARTH_IN_KM * 1000
	RadiusOfEarthInMeters = 6371010.0
)

// Distance calculates the distance between two points on the Earth.
// For short distances (under ~22km), it uses a highly optimized
// Equirectangular approximation to save CPU cycles. For longer distances,
// it falls back to the exact formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	// Fast-path for short distances: coordinate differences less than 0.2
	// degrees (~22km). Bypasses the expensive Atan2 and trig calls for
	// nearly all origin/destination lookups.
	if math.Abs(lat2-lat1) < 0.2 && math.Abs(lon2-lon1) < 0.2 {
		lat1Rad := lat1 * (math.Pi / 180)
		lat2Rad := lat2 * (math.Pi / 180)
		dLatRad := (lat2 - lat1) * (math.Pi / 180)
		dLonRad := (lon2 - lon1) * (math.Pi / 180)

		// Equirectangular approximation
		x := dLonRad * math.Cos((lat1Rad+lat2Rad)/2)
		y := dLatRad
		return RadiusOfEarthInMeters * math.Sqrt(x*x+y*y)
	}

	lat1Rad := lat1 * (math.Pi / 180)
	lon1Rad := lon1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	lon2Rad := lon2 * (math.Pi / 180)

	deltaLon := lon2Rad - lon1Rad

	y := math.Sqrt(math.Pow(math.Cos(lat2Rad)*math.Sin(deltaLon), 2) +
		math.Pow(math.Cos(lat1Rad)*math.Sin(lat2Rad)-math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(deltaLon), 2))
	x := math.Sin(lat1Rad)*math.Sin(lat2Rad) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Cos(deltaLon)

	return RadiusOfEarthInMeters * math.Atan2(y, x)
}

// boundsAround returns a lat/lon bounding box centered on the given point
// that fully contains a circle of the given radius in meters.
func boundsAround(lat, lon, radiusMeters float64) (min, max [2]float64) {
	latRadians := lat * math.Pi / 180

	latOffset := radiusMeters / RadiusOfEarthInMeters * 180 / math.Pi
	lonRadius := math.Cos(latRadians) * RadiusOfEarthInMeters
	lonOffset := radiusMeters / lonRadius * 180 / math.Pi

	min = [2]float64{lon - lonOffset, lat - latOffset}
	max = [2]float64{lon + lonOffset, lat + latOffset}
	return min, max
}
