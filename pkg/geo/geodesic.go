package geo

import "math"

// WGS84 equatorial radius in meters
const earthRadius = 6378137.0

// Destination computes the point reached by travelling distanceM meters on
// the given bearing (degrees clockwise from north) from a start coordinate.
// Spherical forward calculation; deterministic for identical input.
func Destination(lat, lon, distanceM, bearingDeg float64) (float64, float64) {
	if distanceM == 0 {
		return lat, lon
	}

	delta := distanceM / earthRadius
	theta := bearingDeg * math.Pi / 180
	phi1 := lat * math.Pi / 180
	lambda1 := lon * math.Pi / 180

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(delta) +
		math.Cos(phi1)*math.Sin(delta)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2))

	newLat := phi2 * 180 / math.Pi
	newLon := lambda2 * 180 / math.Pi
	if newLon > 180 {
		newLon -= 360
	} else if newLon < -180 {
		newLon += 360
	}
	return newLat, newLon
}

// DistanceMeters calculates the haversine distance between two lat/lon points.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const r = 6371000.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return r * c
}

// ValidLatitude reports whether lat is a usable geographic latitude.
func ValidLatitude(lat float64) bool { return lat >= -90 && lat <= 90 }

// ValidLongitude reports whether lon is a usable geographic longitude.
func ValidLongitude(lon float64) bool { return lon >= -180 && lon <= 180 }
