package gpxanalysis

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestFormatResult(t *testing.T) {
	res := FormatResult(MovingStats{
		MovingTimeSeconds:    2*3600 + 35*60 + 59,
		MovingDistanceMeters: 12345.678,
		TotalAscentMeters:    1024.4,
		TotalDescentMeters:   987.6,
	}, nil)

	want := Summary{TotalTime: "2 小時 35 分鐘", Distance: "12.35 公里", Ascent: "1024 公尺", Descent: "988 公尺"}
	if res.Summary != want {
		t.Fatalf("got %+v, want %+v", res.Summary, want)
	}
	if res.Waypoints == nil {
		t.Fatalf("expected non-nil waypoints")
	}
}

func TestFormatResultZero(t *testing.T) {
	res := FormatResult(MovingStats{}, nil)
	want := Summary{TotalTime: "0 小時 0 分鐘", Distance: "0.00 公里", Ascent: "0 公尺", Descent: "0 公尺"}
	if res.Summary != want {
		t.Fatalf("got %+v", res.Summary)
	}
}

func TestAnalyzeRoundTrip(t *testing.T) {
	res, err := Analyze([]byte(roundTripGPX()), DefaultOptions())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Summary.TotalTime != "1 小時 6 分鐘" || res.Summary.Ascent != "25 公尺" || res.Summary.Descent != "5 公尺" {
		t.Fatalf("unexpected summary %+v", res.Summary)
	}
	got := names(res.Waypoints)
	want := []string{"開始行程@00:00", "行程中@00:35", "行程中@01:05", "結束行程@01:06"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAnalyzeJSONShape(t *testing.T) {
	doc := gpxDoc(`<wpt lat="24" lon="121"></wpt>`)
	res, err := Analyze([]byte(doc), DefaultOptions())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)
	for _, key := range []string{`"summary":{"totalTime":"0 小時 0 分鐘"`, `"waypoints":[{"name":"未命名航點","time":null,"elevation":""}]`} {
		if !strings.Contains(body, key) {
			t.Fatalf("expected %s in %s", key, body)
		}
	}
	if strings.Contains(body, "trackId") {
		t.Fatalf("trackId must be omitted when unset")
	}
}

func TestAnalyzeEmptyTrack(t *testing.T) {
	res, err := Analyze([]byte(gpxDoc("<trk><trkseg></trkseg></trk>")), DefaultOptions())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Stats != (MovingStats{}) || len(res.Waypoints) != 0 {
		t.Fatalf("expected zero result, got %+v", res)
	}
}

func TestAnalyzeMalformed(t *testing.T) {
	_, err := Analyze([]byte("<gpx><trk>"), DefaultOptions())
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestAnalyzeOffsetRoundTrip(t *testing.T) {
	taipei := time.FixedZone("UTC+8", 8*3600)
	opts := DefaultOptions()
	opts.Location = time.UTC

	utc, err := Analyze([]byte(roundTripGPX()), opts)
	if err != nil {
		t.Fatalf("analyze utc: %v", err)
	}
	local, err := Analyze([]byte(roundTripGPXIn(taipei)), opts)
	if err != nil {
		t.Fatalf("analyze offset: %v", err)
	}
	if !reflect.DeepEqual(local, utc) {
		t.Fatalf("offset track differs:\n%+v\n%+v", local, utc)
	}

	// Without a configured zone the labels keep the recorded offset.
	res, err := Analyze([]byte(roundTripGPXIn(taipei)), DefaultOptions())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	want := []string{"開始行程@08:00", "行程中@08:35", "行程中@09:05", "結束行程@09:06"}
	if got := names(res.Waypoints); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if res.Stats != utc.Stats {
		t.Fatalf("stats differ: %+v vs %+v", res.Stats, utc.Stats)
	}
}
