package gpxanalysis

import "fmt"

// FormatResult renders stats and timeline into the display strings clients
// show: moving time as hours and minutes, moving distance in kilometers,
// ascent and descent in whole meters.
func FormatResult(stats MovingStats, timeline []TimelineEntry) Result {
	if timeline == nil {
		timeline = []TimelineEntry{}
	}
	hours := stats.MovingTimeSeconds / 3600
	minutes := (stats.MovingTimeSeconds % 3600) / 60
	return Result{
		Summary: Summary{
			TotalTime: fmt.Sprintf("%d 小時 %d 分鐘", hours, minutes),
			Distance:  fmt.Sprintf("%.2f 公里", stats.MovingDistanceMeters/1000),
			Ascent:    fmt.Sprintf("%.0f 公尺", stats.TotalAscentMeters),
			Descent:   fmt.Sprintf("%.0f 公尺", stats.TotalDescentMeters),
		},
		Waypoints: timeline,
		Stats:     stats,
	}
}

// Analyze parses one GPX upload and returns its formatted analysis. The
// only error it returns is a *ParseError.
func Analyze(data []byte, opts Options) (Result, error) {
	track, waypoints, err := Parse(data)
	if err != nil {
		return Result{}, err
	}
	return analyzeTrack(track, waypoints, opts), nil
}

func analyzeTrack(track Track, waypoints []Waypoint, opts Options) Result {
	stats := ComputeStats(track, opts)
	return FormatResult(stats, BuildTimeline(track, waypoints, opts))
}
