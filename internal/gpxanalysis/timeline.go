package gpxanalysis

import (
	"fmt"
	"time"
)

const (
	labelStart      = "開始行程"
	labelInProgress = "行程中"
	labelEnd        = "結束行程"
	labelUnnamed    = "未命名航點"
)

// BuildTimeline lists explicit waypoints when the upload has any. Otherwise
// it samples the track: a start entry, one entry per crossed interval
// boundary (anchored at the start time), and an end entry.
func BuildTimeline(track Track, waypoints []Waypoint, opts Options) []TimelineEntry {
	opts = opts.withDefaults()
	if len(waypoints) > 0 {
		return waypointTimeline(waypoints, opts.Location)
	}

	points := track.Points()
	if len(points) == 0 {
		return []TimelineEntry{}
	}

	start := points[0]
	entries := []TimelineEntry{pointEntry(labelStart, start, opts.Location)}
	if start.Time == nil {
		return entries
	}

	next := start.Time.Add(opts.SampleInterval)
	for _, p := range points[1:] {
		if p.Time == nil || p.Time.Before(next) {
			continue
		}
		entries = append(entries, pointEntry(labelInProgress, p, opts.Location))
		next = next.Add(opts.SampleInterval)
	}

	// Minute granularity: an end point sharing the last entry's "HH:MM" is dropped.
	end := points[len(points)-1]
	if end.Time == nil {
		return entries
	}
	last := entries[len(entries)-1]
	if last.Time == nil || *last.Time != clock(*end.Time, opts.Location) {
		entries = append(entries, pointEntry(labelEnd, end, opts.Location))
	}
	return entries
}

func waypointTimeline(waypoints []Waypoint, loc *time.Location) []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(waypoints))
	for _, wp := range waypoints {
		label := labelUnnamed
		if wp.Name != nil && *wp.Name != "" {
			label = *wp.Name
		}
		entries = append(entries, TimelineEntry{
			Label:     label,
			Time:      clockPtr(wp.Time, loc),
			Elevation: elevationLabel(wp.Elevation),
		})
	}
	return entries
}

func pointEntry(label string, p TrackPoint, loc *time.Location) TimelineEntry {
	return TimelineEntry{
		Label:     label,
		Time:      clockPtr(p.Time, loc),
		Elevation: elevationLabel(p.Elevation),
	}
}

func clock(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("15:04")
}

func clockPtr(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := clock(*t, loc)
	return &s
}

func elevationLabel(ele *float64) string {
	if ele == nil {
		return ""
	}
	return fmt.Sprintf("H %.0f m", *ele)
}
