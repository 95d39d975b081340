package gpxanalysis

import (
	"fmt"
	"strings"
	"time"
)

var base = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func at(minutes int) *time.Time {
	t := base.Add(time.Duration(minutes) * time.Minute)
	return &t
}

func ele(v float64) *float64 {
	return &v
}

func str(s string) *string {
	return &s
}

// pt places a point lat degrees north of 24N on meridian 121E.
func pt(lat float64, elevation *float64, ts *time.Time) TrackPoint {
	return TrackPoint{Lat: 24 + lat, Lon: 121, Elevation: elevation, Time: ts}
}

func single(points ...TrackPoint) Track {
	return Track{Segments: []Segment{{Points: points}}}
}

// evenTrack has n points ten minutes and 0.01 degrees apart (about 1.86 m/s).
func evenTrack(n int) Track {
	points := make([]TrackPoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, pt(float64(i)*0.01, ele(1000+float64(i)), at(i*10)))
	}
	return single(points...)
}

// roundTripTrack is the five point hike used across the tests:
// 00:00, 00:10, 00:35, 01:05, 01:06 at 100, 110, 105, 120, 120 m.
func roundTripTrack() Track {
	return single(
		pt(0, ele(100), at(0)),
		pt(0.009, ele(110), at(10)),
		pt(0.029, ele(105), at(35)),
		pt(0.049, ele(120), at(65)),
		pt(0.050, ele(120), at(66)),
	)
}

func gpxDoc(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">` + body + `</gpx>`
}

func trkpt(lat, lon float64, extra string) string {
	return fmt.Sprintf(`<trkpt lat="%g" lon="%g">%s</trkpt>`, lat, lon, extra)
}

func roundTripGPX() string {
	return roundTripGPXIn(time.UTC)
}

// roundTripGPXIn writes roundTripTrack as GPX with timestamps rendered in loc.
func roundTripGPXIn(loc *time.Location) string {
	var b strings.Builder
	b.WriteString("<trk><name>Round trip</name><trkseg>")
	for _, p := range roundTripTrack().Points() {
		extra := fmt.Sprintf("<ele>%g</ele><time>%s</time>", *p.Elevation, p.Time.In(loc).Format(time.RFC3339))
		b.WriteString(trkpt(p.Lat, p.Lon, extra))
	}
	b.WriteString("</trkseg></trk>")
	return gpxDoc(b.String())
}

func names(entries []TimelineEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		t := "-"
		if e.Time != nil {
			t = *e.Time
		}
		out = append(out, e.Label+"@"+t)
	}
	return out
}
