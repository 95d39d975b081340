package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"
)

var (
	ErrUpstream   = errors.New("weather upstream unavailable")
	ErrMalformed  = errors.New("weather upstream returned unexpected data")
	ErrIncomplete = errors.New("weather elements missing")
)

const (
	elementTemp = "平均溫度"
	elementPoP  = "12小時降雨機率"
	elementWx   = "天氣現象"
	notAvail    = "N/A"
)

type Client struct {
	http     *http.Client
	baseURL  string
	endpoint string
	apiKey   string
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewClient(httpClient *http.Client, baseURL, endpoint, apiKey string, cache *redis.Client, cacheTTL time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		http:     httpClient,
		baseURL:  baseURL,
		endpoint: endpoint,
		apiKey:   apiKey,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Forecast returns the township forecast for location, one slot per
// temperature period.
func (c *Client) Forecast(ctx context.Context, location string) ([]Slot, error) {
	key := "weather:" + location
	if slots, ok := c.cached(ctx, key); ok {
		return slots, nil
	}

	body, err := c.fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	slots, err := parseForecast(body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		raw, _ := json.Marshal(slots)
		if err := c.cache.Set(ctx, key, raw, c.cacheTTL).Err(); err != nil {
			log.Printf("weather cache set: %v", err)
		}
	}
	return slots, nil
}

func (c *Client) fetch(ctx context.Context, location string) ([]byte, error) {
	q := url.Values{}
	q.Set("Authorization", c.apiKey)
	q.Set("format", "JSON")
	q.Set("LocationName", location)
	target := fmt.Sprintf("%s/%s?%s", c.baseURL, c.endpoint, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return body, nil
}

func (c *Client) cached(ctx context.Context, key string) ([]Slot, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("weather cache get: %v", err)
		}
		return nil, false
	}
	var slots []Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

// parseForecast pairs every temperature period with the latest rain and
// weather-phenomenon entries that started no later than it.
func parseForecast(body []byte) ([]Slot, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformed
	}
	elements := gjson.GetBytes(body, "records.Locations.0.Location.0.WeatherElement")
	if !elements.IsArray() {
		return nil, ErrMalformed
	}

	byName := map[string][]gjson.Result{}
	for _, el := range elements.Array() {
		byName[el.Get("ElementName").String()] = el.Get("Time").Array()
	}
	temps, okT := byName[elementTemp]
	pops, okP := byName[elementPoP]
	wxs, okW := byName[elementWx]
	if !okT || !okP || !okW {
		return nil, ErrIncomplete
	}

	slots := make([]Slot, 0, len(temps))
	for _, t := range temps {
		start := t.Get("StartTime").String()
		slot := Slot{
			Time: start,
			Temp: t.Get("ElementValue.0.Temperature").String(),
			PoP:  notAvail,
			Wx:   notAvail,
		}
		if p, ok := latestBefore(pops, start); ok {
			slot.PoP = p.Get("ElementValue.0.ProbabilityOfPrecipitation").String()
		}
		if w, ok := latestBefore(wxs, start); ok {
			slot.Wx = w.Get("ElementValue.0.Weather").String()
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// latestBefore compares StartTime strings lexically; CWA timestamps share
// one ISO-8601 layout and offset.
func latestBefore(entries []gjson.Result, start string) (gjson.Result, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Get("StartTime").String() <= start {
			return entries[i], true
		}
	}
	return gjson.Result{}, false
}
