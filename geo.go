package main

import "math"

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance in kilometres between two
// points given in degrees.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := lat1 * math.Pi / 180
	p2 := lat2 * math.Pi / 180
	dp := (lat2 - lat1) * math.Pi / 180
	dl := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dp/2)*math.Sin(dp/2) + math.Cos(p1)*math.Cos(p2)*math.Sin(dl/2)*math.Sin(dl/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// scoreFromDistanceKm maps a guess distance to points: 5000 at zero distance,
// decaying exponentially, never negative.
func scoreFromDistanceKm(d float64) float64 {
	return math.Max(0.0, 5000.0*math.Exp(-d/2000.0))
}

// validCoords reports whether a latitude/longitude pair is finite and within
// the usual WGS84 ranges. Used at the gateway boundary; the state machine
// assumes coordinates have already passed this check.
func validCoords(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
