package gpxanalysis

import (
	"strings"
	"time"
)

const (
	defaultSampleInterval = 30 * time.Minute
	defaultMinMovingSpeed = 1.0 / 3.6  // 1 km/h
	defaultMaxMovingSpeed = 50.0 / 3.6 // 50 km/h
)

// Options tunes the statistics calculator and the timeline sampler.
// Zero or negative fields take their defaults.
type Options struct {
	// SampleInterval is the cadence of in-progress timeline entries.
	SampleInterval time.Duration
	// MinMovingSpeed and MaxMovingSpeed bound, in m/s, the speed of a point
	// pair counted as moving.
	MinMovingSpeed float64
	MaxMovingSpeed float64
	// Location is the zone "HH:MM" labels are rendered in. Nil keeps the
	// zone the timestamp was parsed with.
	Location *time.Location
}

func DefaultOptions() Options {
	return Options{
		SampleInterval: defaultSampleInterval,
		MinMovingSpeed: defaultMinMovingSpeed,
		MaxMovingSpeed: defaultMaxMovingSpeed,
	}
}

func (o Options) withDefaults() Options {
	if o.SampleInterval <= 0 {
		o.SampleInterval = defaultSampleInterval
	}
	if o.MinMovingSpeed <= 0 {
		o.MinMovingSpeed = defaultMinMovingSpeed
	}
	if o.MaxMovingSpeed <= 0 {
		o.MaxMovingSpeed = defaultMaxMovingSpeed
	}
	return o
}

// NewOptions builds Options from operator settings given in km/h and an
// IANA zone name. Unset or invalid values fall back to the defaults.
func NewOptions(interval time.Duration, minKmh, maxKmh float64, timezone string) Options {
	opts := DefaultOptions()
	if interval > 0 {
		opts.SampleInterval = interval
	}
	if minKmh > 0 {
		opts.MinMovingSpeed = minKmh / 3.6
	}
	if maxKmh > 0 {
		opts.MaxMovingSpeed = maxKmh / 3.6
	}
	if tz := strings.TrimSpace(timezone); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			opts.Location = loc
		}
	}
	return opts
}
