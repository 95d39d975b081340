package trail

import (
	"context"
	"errors"
	"fmt"

	"backend-trailhub/internal/db"
	"backend-trailhub/internal/poi"

	"github.com/jackc/pgx/v5"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var ErrNotFound = errors.New("trail not found")

// POISource supplies the points of interest drawn alongside a route.
type POISource interface {
	ByTrail(ctx context.Context, trailID string) ([]poi.POI, error)
}

type Service struct {
	db   db.Querier
	pois POISource
}

func NewService(db db.Querier, pois POISource) *Service {
	return &Service{db: db, pois: pois}
}

func (s *Service) List(ctx context.Context) ([]Trail, error) {
	rows, err := s.db.Query(ctx, `
		SELECT trail_id, name, COALESCE(location,''), COALESCE(difficulty,0), COALESCE(permit_required,false)
		FROM paths.trails
		ORDER BY trail_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list trails: %w", err)
	}
	defer rows.Close()

	trails := []Trail{}
	for rows.Next() {
		var t Trail
		if err := rows.Scan(&t.ID, &t.Name, &t.Location, &t.Difficulty, &t.PermitRequired); err != nil {
			return nil, err
		}
		trails = append(trails, t)
	}
	return trails, rows.Err()
}

// Detail returns the trail as a FeatureCollection: the route LineString
// first, then one Point feature per POI.
func (s *Service) Detail(ctx context.Context, id string) (*geojson.FeatureCollection, error) {
	var (
		t        Trail
		rawRoute *string
	)
	err := s.db.QueryRow(ctx, `
		SELECT trail_id, name, COALESCE(location,''), COALESCE(difficulty,0), COALESCE(permit_required,false),
		       COALESCE(length_km,0)::float8, COALESCE(elevation_gain_m,0), COALESCE(descent_m,0),
		       COALESCE(estimated_duration_h,0)::float8, COALESCE(weather_station,''),
		       ST_AsGeoJSON(route_geometry)
		FROM paths.trails WHERE trail_id=$1
	`, id).Scan(&t.ID, &t.Name, &t.Location, &t.Difficulty, &t.PermitRequired,
		&t.LengthKm, &t.ElevationGainM, &t.DescentM, &t.DurationH, &t.WeatherStation, &rawRoute)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trail: %w", err)
	}

	var route orb.Geometry
	if rawRoute != nil {
		g, err := geojson.UnmarshalGeometry([]byte(*rawRoute))
		if err != nil {
			return nil, fmt.Errorf("decode route of %s: %w", id, err)
		}
		route = g.Geometry()
	}

	fc := geojson.NewFeatureCollection()
	fc.Append(routeFeature(t, route))

	if s.pois != nil {
		points, err := s.pois.ByTrail(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, p := range points {
			f := geojson.NewFeature(orb.Point{p.Lng, p.Lat})
			f.Properties = geojson.Properties{
				"type":        p.Type,
				"name":        p.Name,
				"description": p.Description,
			}
			fc.Append(f)
		}
	}
	return fc, nil
}

func routeFeature(t Trail, route orb.Geometry) *geojson.Feature {
	f := geojson.NewFeature(route)
	f.Properties = geojson.Properties{
		"type":           "route",
		"id":             t.ID,
		"name":           t.Name,
		"location":       t.Location,
		"difficulty":     t.Difficulty,
		"permitRequired": t.PermitRequired,
		"stats":          statsOf(t),
		"weatherStation": map[string]string{"locationName": t.WeatherStation},
	}
	return f
}

// statsOf renders duration and length at the two decimal scale the
// columns are stored with, so 5.5 hours reads "5.50 小時".
func statsOf(t Trail) Stats {
	return Stats{
		TotalTime: fmt.Sprintf("%.2f 小時", t.DurationH),
		Distance:  fmt.Sprintf("%.2f 公里", t.LengthKm),
		Ascent:    fmt.Sprintf("%d 公尺", t.ElevationGainM),
		Descent:   fmt.Sprintf("%d 公尺", t.DescentM),
	}
}
