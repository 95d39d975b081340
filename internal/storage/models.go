package storage

import (
	"time"

	"github.com/paulmach/orb"
)

// TrackRecord is one analyzed upload kept in a hiker's history.
type TrackRecord struct {
	ID          string         `json:"id"`
	HikerID     string         `json:"hiker_id"`
	TrailID     string         `json:"trail_id,omitempty"`
	FileName    string         `json:"file_name"`
	Route       orb.LineString `json:"-"`
	MovingTimeS int64          `json:"moving_time_s"`
	DistanceM   float64        `json:"distance_m"`
	AscentM     float64        `json:"ascent_m"`
	DescentM    float64        `json:"descent_m"`
	CreatedAt   time.Time      `json:"created_at"`
}
