package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"backend-trailhub/internal/db"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// SaveTrack archives an analyzed upload and returns its id. Routes with
// fewer than two points are stored without geometry.
func (s *Service) SaveTrack(ctx context.Context, rec TrackRecord) (string, error) {
	route, err := routeGeoJSON(rec.Route)
	if err != nil {
		return "", err
	}
	var trailID *string
	if rec.TrailID != "" {
		trailID = &rec.TrailID
	}

	id := uuid.NewString()
	_, err = s.db.Exec(ctx, `
		INSERT INTO user_gpx.tracks (id, hiker_id, trail_id, file_name, route, moving_time_s, distance_m, ascent_m, descent_m)
		VALUES ($1,$2,$3,$4, ST_SetSRID(ST_GeomFromGeoJSON($5), 4326), $6,$7,$8,$9)
	`, id, rec.HikerID, trailID, rec.FileName, route, rec.MovingTimeS, rec.DistanceM, rec.AscentM, rec.DescentM)
	if err != nil {
		return "", fmt.Errorf("save track: %w", err)
	}
	return id, nil
}

func (s *Service) ListTracks(ctx context.Context, hikerID string) ([]TrackRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, hiker_id, COALESCE(trail_id,''), file_name, moving_time_s, distance_m, ascent_m, descent_m, created_at
		FROM user_gpx.tracks WHERE hiker_id=$1
		ORDER BY created_at DESC
	`, hikerID)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	records := []TrackRecord{}
	for rows.Next() {
		var r TrackRecord
		if err := rows.Scan(&r.ID, &r.HikerID, &r.TrailID, &r.FileName, &r.MovingTimeS, &r.DistanceM, &r.AscentM, &r.DescentM, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func routeGeoJSON(route orb.LineString) (*string, error) {
	if len(route) < 2 {
		return nil, nil
	}
	raw, err := json.Marshal(geojson.NewGeometry(route))
	if err != nil {
		return nil, fmt.Errorf("encode route: %w", err)
	}
	s := string(raw)
	return &s, nil
}
