package geo

import "math"

const earthRadiusKm = 6371.0

type Point struct {
	Lat float64
	Lng float64
}

type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

func DistanceKm(a, b Point) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// BoundingBox returns a box that contains every point within radiusKm of
// center. It is a prefilter only; callers still check the exact distance.
func BoundingBox(center Point, radiusKm float64) Box {
	dLat := radiusKm / earthRadiusKm * 180 / math.Pi
	cos := math.Cos(toRad(center.Lat))
	dLng := 180.0
	if cos > 1e-9 {
		dLng = math.Min(180, dLat/cos)
	}
	return Box{
		MinLat: math.Max(-90, center.Lat-dLat),
		MaxLat: math.Min(90, center.Lat+dLat),
		MinLng: center.Lng - dLng,
		MaxLng: center.Lng + dLng,
	}
}

// Affinity maps a distance inside the search radius to a score that falls
// linearly from 100 at the center to 50 at the edge.
func Affinity(distanceKm, radiusKm float64) float64 {
	if radiusKm <= 0 {
		return 0
	}
	s := 100 - 50*distanceKm/radiusKm
	return math.Round(math.Max(50, math.Min(100, s))*100) / 100
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
