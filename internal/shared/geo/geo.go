package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// DistanceM returns the great-circle distance in meters between two WGS-84 coordinates.
func DistanceM(lat1, lng1, lat2, lng2 float64) float64 {
	return orbgeo.DistanceHaversine(orb.Point{lng1, lat1}, orb.Point{lng2, lat2})
}

func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	return DistanceM(lat1, lng1, lat2, lng2) / 1000
}

// LatLng is a coordinate pair in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// LineString converts coordinates to an orb line string (lng, lat order).
func LineString(coords []LatLng) orb.LineString {
	ls := make(orb.LineString, 0, len(coords))
	for _, c := range coords {
		ls = append(ls, orb.Point{c.Lng, c.Lat})
	}
	return ls
}
