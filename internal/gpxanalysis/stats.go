package gpxanalysis

import (
	"time"

	"backend-trailhub/internal/shared/geo"
)

// ComputeStats walks consecutive point pairs of each segment. A pair counts
// as moving when both points are timed and its speed lies within the
// configured bounds; only moving pairs add distance and time. Elevation
// change is summed for every pair with both elevations, moving or not.
func ComputeStats(track Track, opts Options) MovingStats {
	opts = opts.withDefaults()

	var stats MovingStats
	var moving time.Duration
	for _, seg := range track.Segments {
		for i := 1; i < len(seg.Points); i++ {
			prev, cur := seg.Points[i-1], seg.Points[i]

			if prev.Elevation != nil && cur.Elevation != nil {
				delta := *cur.Elevation - *prev.Elevation
				if delta > 0 {
					stats.TotalAscentMeters += delta
				} else {
					stats.TotalDescentMeters -= delta
				}
			}

			if prev.Time == nil || cur.Time == nil {
				continue
			}
			elapsed := cur.Time.Sub(*prev.Time)
			if elapsed <= 0 {
				continue
			}
			dist := pairDistance(prev, cur)
			speed := dist / elapsed.Seconds()
			if speed < opts.MinMovingSpeed || speed > opts.MaxMovingSpeed {
				continue
			}
			moving += elapsed
			stats.MovingDistanceMeters += dist
		}
	}
	stats.MovingTimeSeconds = int64(moving / time.Second)
	return stats
}

// PathLength is the summed distance of all consecutive pairs, ignoring the
// moving classification.
func PathLength(track Track) float64 {
	var total float64
	for _, seg := range track.Segments {
		for i := 1; i < len(seg.Points); i++ {
			total += pairDistance(seg.Points[i-1], seg.Points[i])
		}
	}
	return total
}

func pairDistance(a, b TrackPoint) float64 {
	return geo.DistanceM(a.Lat, a.Lon, b.Lat, b.Lon)
}
