package gpxanalysis

import "time"

// TrackPoint is one recorded fix. Elevation and Time are nil when the
// recording did not carry them.
type TrackPoint struct {
	Lat       float64
	Lon       float64
	Elevation *float64
	Time      *time.Time
}

type Segment struct {
	Points []TrackPoint
}

// Track is the parsed geometry of one upload, in input order.
type Track struct {
	Segments []Segment
}

// Points returns every point of every segment in order.
func (t Track) Points() []TrackPoint {
	n := 0
	for _, seg := range t.Segments {
		n += len(seg.Points)
	}
	points := make([]TrackPoint, 0, n)
	for _, seg := range t.Segments {
		points = append(points, seg.Points...)
	}
	return points
}

// Waypoint is an author-placed marker, separate from the recorded points.
type Waypoint struct {
	Name      *string
	Time      *time.Time
	Elevation *float64
}

type MovingStats struct {
	MovingTimeSeconds    int64   `json:"movingTimeSeconds"`
	MovingDistanceMeters float64 `json:"movingDistanceMeters"`
	TotalAscentMeters    float64 `json:"totalAscentMeters"`
	TotalDescentMeters   float64 `json:"totalDescentMeters"`
}

type TimelineEntry struct {
	Label     string  `json:"name"`
	Time      *string `json:"time"`
	Elevation string  `json:"elevation"`
}

type Summary struct {
	TotalTime string `json:"totalTime"`
	Distance  string `json:"distance"`
	Ascent    string `json:"ascent"`
	Descent   string `json:"descent"`
}

// Result is the response body of one analysis. Summary and Waypoints are
// display strings; Stats keeps the raw numbers they were formatted from.
type Result struct {
	Summary   Summary         `json:"summary"`
	Waypoints []TimelineEntry `json:"waypoints"`
	Stats     MovingStats     `json:"stats"`
	TrackID   string          `json:"trackId,omitempty"`
}
