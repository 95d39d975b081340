package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const forecastBody = `{
  "success": "true",
  "records": {"Locations": [{"Location": [{"LocationName": "海端鄉", "WeatherElement": [
    {"ElementName": "平均溫度", "Time": [
      {"StartTime": "2024-05-01T06:00:00+08:00", "ElementValue": [{"Temperature": "12"}]},
      {"StartTime": "2024-05-01T18:00:00+08:00", "ElementValue": [{"Temperature": "8"}]}
    ]},
    {"ElementName": "12小時降雨機率", "Time": [
      {"StartTime": "2024-05-01T06:00:00+08:00", "ElementValue": [{"ProbabilityOfPrecipitation": "30"}]},
      {"StartTime": "2024-05-01T18:00:00+08:00", "ElementValue": [{"ProbabilityOfPrecipitation": "60"}]}
    ]},
    {"ElementName": "天氣現象", "Time": [
      {"StartTime": "2024-05-01T12:00:00+08:00", "ElementValue": [{"Weather": "多雲午後短暫雷陣雨"}]}
    ]}
  ]}]}]}
}`

func upstream(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if r.URL.Query().Get("Authorization") != "key" || r.URL.Query().Get("format") != "JSON" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestForecast(t *testing.T) {
	srv := upstream(t, http.StatusOK, forecastBody, nil)
	client := NewClient(srv.Client(), srv.URL, "F-D0047-091", "key", nil, 0)

	slots, err := client.Forecast(context.Background(), "海端鄉")
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	want := []Slot{
		{Time: "2024-05-01T06:00:00+08:00", Temp: "12", PoP: "30", Wx: "N/A"},
		{Time: "2024-05-01T18:00:00+08:00", Temp: "8", PoP: "60", Wx: "多雲午後短暫雷陣雨"},
	}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots", len(slots))
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("slot %d: got %+v, want %+v", i, slots[i], want[i])
		}
	}
}

func TestForecastCached(t *testing.T) {
	var hits int32
	srv := upstream(t, http.StatusOK, forecastBody, &hits)
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer rdb.Close()

	client := NewClient(srv.Client(), srv.URL, "F-D0047-091", "key", rdb, time.Minute)
	for i := 0; i < 3; i++ {
		if _, err := client.Forecast(context.Background(), "海端鄉"); err != nil {
			t.Fatalf("forecast: %v", err)
		}
	}
	if hits != 1 {
		t.Fatalf("expected one upstream call, got %d", hits)
	}
	if !s.Exists("weather:海端鄉") {
		t.Fatalf("expected cache entry")
	}
}

func TestForecastErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"upstream status", http.StatusServiceUnavailable, "", ErrUpstream},
		{"not json", http.StatusOK, "<html>", ErrMalformed},
		{"no records", http.StatusOK, `{"records":{}}`, ErrMalformed},
		{"missing element", http.StatusOK, `{"records":{"Locations":[{"Location":[{"WeatherElement":[{"ElementName":"平均溫度","Time":[]}]}]}]}}`, ErrIncomplete},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := upstream(t, tc.status, tc.body, nil)
			client := NewClient(srv.Client(), srv.URL, "F-D0047-091", "key", nil, 0)
			if _, err := client.Forecast(context.Background(), "海端鄉"); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestForecastTransportError(t *testing.T) {
	srv := upstream(t, http.StatusOK, forecastBody, nil)
	srv.Close()
	client := NewClient(nil, srv.URL, "F-D0047-091", "key", nil, 0)
	if _, err := client.Forecast(context.Background(), "海端鄉"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
