package poi

import (
	"context"
	"errors"
	"fmt"

	"backend-trailhub/internal/db"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("poi not found")

const selectPOI = `
		SELECT poi_id, trail_id, name, COALESCE(poi_type,''), COALESCE(description,''),
		       ST_Y(location), ST_X(location)
		FROM paths.pois`

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// ByTrail lists a trail's POIs in insertion order.
func (s *Service) ByTrail(ctx context.Context, trailID string) ([]POI, error) {
	rows, err := s.db.Query(ctx, selectPOI+`
		WHERE trail_id=$1
		ORDER BY poi_id
	`, trailID)
	if err != nil {
		return nil, fmt.Errorf("query trail pois: %w", err)
	}
	return collect(rows)
}

func (s *Service) Get(ctx context.Context, id string) (POI, error) {
	row := s.db.QueryRow(ctx, selectPOI+`
		WHERE poi_id=$1
	`, id)
	p, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return POI{}, ErrNotFound
	}
	if err != nil {
		return POI{}, fmt.Errorf("get poi: %w", err)
	}
	return p, nil
}

// Search returns POIs within radiusKm of the given coordinate, nearest first.
func (s *Service) Search(ctx context.Context, lat, lng, radiusKm float64) ([]POI, error) {
	rows, err := s.db.Query(ctx, selectPOI+`
		WHERE ST_DWithin(location::geography, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography, $3)
		ORDER BY ST_Distance(location::geography, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography)
	`, lng, lat, radiusKm*1000)
	if err != nil {
		return nil, fmt.Errorf("search pois: %w", err)
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]POI, error) {
	defer rows.Close()

	results := []POI{}
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

func scan(row pgx.Row) (POI, error) {
	var p POI
	err := row.Scan(&p.ID, &p.TrailID, &p.Name, &p.Type, &p.Description, &p.Lat, &p.Lng)
	return p, err
}
