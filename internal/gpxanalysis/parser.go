package gpxanalysis

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tkrajina/gpxgo/gpx"
)

var (
	errEmptyInput      = errors.New("empty input")
	errTrailingContent = errors.New("content after closing </gpx>")
)

// ParseError reports that an upload is not a well-formed GPX document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid gpx: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// rawTimes mirrors the <time> text of every trkpt and wpt in document
// order. gpxgo drops UTC offsets other than Z and +00:00, so instants are
// read from here and gpxgo's value is only a fallback.
type rawTimes struct {
	Tracks []struct {
		Segments []struct {
			Points []struct {
				Time string `xml:"time"`
			} `xml:"trkpt"`
		} `xml:"trkseg"`
	} `xml:"trk"`
	Waypoints []struct {
		Time string `xml:"time"`
	} `xml:"wpt"`
}

// Parse decodes a GPX document held in memory. Track segments of every
// <trk> are returned in document order, <wpt> elements as waypoints.
func Parse(data []byte) (Track, []Waypoint, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Track{}, nil, &ParseError{Err: errEmptyInput}
	}
	raw, err := readTimes(data)
	if err != nil {
		return Track{}, nil, &ParseError{Err: err}
	}

	doc, err := gpx.ParseBytes(data)
	if err != nil {
		return Track{}, nil, &ParseError{Err: err}
	}

	var track Track
	for ti, trk := range doc.Tracks {
		for si, seg := range trk.Segments {
			s := Segment{Points: make([]TrackPoint, 0, len(seg.Points))}
			for pi, p := range seg.Points {
				s.Points = append(s.Points, trackPoint(p, raw.point(ti, si, pi)))
			}
			track.Segments = append(track.Segments, s)
		}
	}

	waypoints := make([]Waypoint, 0, len(doc.Waypoints))
	for i, p := range doc.Waypoints {
		waypoints = append(waypoints, waypoint(p, raw.waypoint(i)))
	}
	return track, waypoints, nil
}

// readTimes checks that <gpx> is the root element and that nothing but
// comments, processing instructions and whitespace follows it, collecting
// the raw <time> values on the way.
func readTimes(data []byte) (rawTimes, error) {
	var raw rawTimes
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var root xml.StartElement
	for {
		tok, err := dec.Token()
		if err != nil {
			return raw, fmt.Errorf("read root element: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			root = start
			break
		}
	}
	if root.Name.Local != "gpx" {
		return raw, fmt.Errorf("unexpected root element <%s>", root.Name.Local)
	}
	if err := dec.DecodeElement(&raw, &root); err != nil {
		return raw, fmt.Errorf("read gpx: %w", err)
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return raw, nil
		}
		if err != nil {
			return raw, fmt.Errorf("read after root: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return raw, errTrailingContent
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return raw, errTrailingContent
			}
		}
	}
}

func (r rawTimes) point(track, seg, idx int) string {
	if track >= len(r.Tracks) || seg >= len(r.Tracks[track].Segments) {
		return ""
	}
	points := r.Tracks[track].Segments[seg].Points
	if idx >= len(points) {
		return ""
	}
	return points[idx].Time
}

func (r rawTimes) waypoint(idx int) string {
	if idx >= len(r.Waypoints) {
		return ""
	}
	return r.Waypoints[idx].Time
}

// instant prefers an RFC 3339 reading of the raw text, which keeps any
// offset and fractional seconds, and otherwise takes gpxgo's value.
func instant(text string, parsed time.Time) *time.Time {
	if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(text)); err == nil {
		return &t
	}
	if parsed.IsZero() {
		return nil
	}
	return &parsed
}

func trackPoint(p gpx.GPXPoint, rawTime string) TrackPoint {
	tp := TrackPoint{Lat: p.Latitude, Lon: p.Longitude}
	if p.Elevation.NotNull() {
		ele := p.Elevation.Value()
		tp.Elevation = &ele
	}
	tp.Time = instant(rawTime, p.Timestamp)
	return tp
}

func waypoint(p gpx.GPXPoint, rawTime string) Waypoint {
	var wp Waypoint
	if p.Name != "" {
		name := p.Name
		wp.Name = &name
	}
	if p.Elevation.NotNull() {
		ele := p.Elevation.Value()
		wp.Elevation = &ele
	}
	wp.Time = instant(rawTime, p.Timestamp)
	return wp
}
