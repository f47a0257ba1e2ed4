// Package golf holds the course-side arithmetic the API needs: distances between
// GPS fixes, the club lookup table and score classification.
package golf

import "math"

const (
	earthRadiusMeters = 6371008.8
	metersPerYard     = 0.9144
	metersPerMile     = 1609.344
)

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Valid reports whether p is inside the WGS84 coordinate range.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180 &&
		!math.IsNaN(p.Lat) && !math.IsNaN(p.Lon)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// DistanceMeters is the great-circle (haversine) distance between a and b.
func DistanceMeters(a, b Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

func DistanceYards(a, b Point) float64 {
	return DistanceMeters(a, b) / metersPerYard
}

func DistanceMiles(a, b Point) float64 {
	return DistanceMeters(a, b) / metersPerMile
}

// Bearing is the initial compass bearing from a to b in degrees [0, 360).
func Bearing(a, b Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLon := radians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Mod(degrees(math.Atan2(y, x))+360, 360)
}

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassDirection maps a bearing to one of eight compass points.
func CompassDirection(bearing float64) string {
	idx := int(math.Round(math.Mod(bearing+360, 360)/45)) % len(compassPoints)
	return compassPoints[idx]
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// MilesToMeters converts statute miles to meters.
func MilesToMeters(miles float64) float64 {
	return miles * metersPerMile
}

// Bounds returns the south-west and north-east corners of a box that contains
// every point within radiusMeters of center. Longitude is not wrapped at the antimeridian.
func Bounds(center Point, radiusMeters float64) (sw, ne Point) {
	dLat := degrees(radiusMeters / earthRadiusMeters)

	dLon := 180.0
	if c := math.Cos(radians(center.Lat)); c > 1e-9 {
		dLon = math.Min(180, degrees(radiusMeters/(earthRadiusMeters*c)))
	}

	sw = Point{Lat: math.Max(-90, center.Lat-dLat), Lon: math.Max(-180, center.Lon-dLon)}
	ne = Point{Lat: math.Min(90, center.Lat+dLat), Lon: math.Min(180, center.Lon+dLon)}
	return sw, ne
}
