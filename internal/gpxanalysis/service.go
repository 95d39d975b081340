package gpxanalysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"time"

	"backend-trailhub/internal/shared/geo"
	"backend-trailhub/internal/storage"

	"github.com/paulmach/orb"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "gpxanalysis:"

// Archiver keeps analyzed uploads of signed-in hikers.
type Archiver interface {
	SaveTrack(ctx context.Context, rec storage.TrackRecord) (string, error)
}

// Notifier fans activity events out to a trail's subscribers.
type Notifier interface {
	Broadcast(trailID string, payload []byte)
}

// Upload is one received GPX file with the caller's attribution.
type Upload struct {
	Data     []byte
	FileName string
	HikerID  string
	TrailID  string
}

type Service struct {
	opts     Options
	cache    *redis.Client
	cacheTTL time.Duration
	archive  Archiver
	notifier Notifier
}

// NewService wires the analysis to its optional collaborators; any of
// cache, archive and notifier may be nil.
func NewService(opts Options, cache *redis.Client, cacheTTL time.Duration, archive Archiver, notifier Notifier) *Service {
	return &Service{
		opts:     opts,
		cache:    cache,
		cacheTTL: cacheTTL,
		archive:  archive,
		notifier: notifier,
	}
}

// Analyze runs the track analysis for one upload. Anonymous uploads are
// served from the result cache when the same bytes were seen before.
func (s *Service) Analyze(ctx context.Context, up Upload) (Result, error) {
	key := cacheKey(up.Data)
	if up.HikerID == "" {
		if res, ok := s.lookup(ctx, key); ok {
			if up.TrailID != "" && s.notifier != nil {
				s.notify(up, res)
			}
			return res, nil
		}
	}

	track, waypoints, err := Parse(up.Data)
	if err != nil {
		return Result{}, err
	}
	res := analyzeTrack(track, waypoints, s.opts)
	s.store(ctx, key, res)

	if up.HikerID != "" && s.archive != nil {
		id, err := s.archive.SaveTrack(ctx, storage.TrackRecord{
			HikerID:     up.HikerID,
			TrailID:     up.TrailID,
			FileName:    up.FileName,
			Route:       route(track),
			MovingTimeS: res.Stats.MovingTimeSeconds,
			DistanceM:   res.Stats.MovingDistanceMeters,
			AscentM:     res.Stats.TotalAscentMeters,
			DescentM:    res.Stats.TotalDescentMeters,
		})
		if err != nil {
			log.Printf("archive track for %s: %v", up.HikerID, err)
		} else {
			res.TrackID = id
		}
	}

	if up.TrailID != "" && s.notifier != nil {
		s.notify(up, res)
	}
	return res, nil
}

type activityEvent struct {
	TrailID string  `json:"trailId"`
	HikerID string  `json:"hikerId,omitempty"`
	TrackID string  `json:"trackId,omitempty"`
	Summary Summary `json:"summary"`
}

func (s *Service) notify(up Upload, res Result) {
	payload, err := json.Marshal(activityEvent{
		TrailID: up.TrailID,
		HikerID: up.HikerID,
		TrackID: res.TrackID,
		Summary: res.Summary,
	})
	if err != nil {
		log.Printf("encode activity event: %v", err)
		return
	}
	s.notifier.Broadcast(up.TrailID, payload)
}

func (s *Service) lookup(ctx context.Context, key string) (Result, bool) {
	if s.cache == nil {
		return Result{}, false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("analysis cache get: %v", err)
		}
		return Result{}, false
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		log.Printf("analysis cache decode: %v", err)
		return Result{}, false
	}
	return res, true
}

func (s *Service) store(ctx context.Context, key string, res Result) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		log.Printf("analysis cache encode: %v", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		log.Printf("analysis cache set: %v", err)
	}
}

func cacheKey(data []byte) string {
	sum := sha256.Sum256(data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func route(track Track) orb.LineString {
	points := track.Points()
	coords := make([]geo.LatLng, 0, len(points))
	for _, p := range points {
		coords = append(coords, geo.LatLng{Lat: p.Lat, Lng: p.Lon})
	}
	return geo.LineString(coords)
}
