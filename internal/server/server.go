package server

import (
	"backend-trailhub/internal/auth"
	"backend-trailhub/internal/config"
	"backend-trailhub/internal/gpxanalysis"
	"backend-trailhub/internal/mapdata"
	"backend-trailhub/internal/poi"
	"backend-trailhub/internal/storage"
	"backend-trailhub/internal/stream"
	"backend-trailhub/internal/tiles"
	"backend-trailhub/internal/trail"
	"backend-trailhub/internal/weather"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.MaxUploadBytes,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

// Close releases the stream subscription. The caller owns DB and Redis.
func (s *Server) Close() error {
	return s.Stream.Close()
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	optionalJWT := auth.OptionalJWT(s.Cfg.JWTSecret)

	api := s.App.Group("/api")
	pois := poi.NewService(s.DB)
	archive := storage.NewService(s.DB)

	// A nil pool must not reach the analysis service as a non-nil Archiver.
	var archiver gpxanalysis.Archiver
	if s.DB != nil {
		archiver = archive
	}
	analysis := gpxanalysis.NewService(analysisOptions(s.Cfg), s.Redis, s.Cfg.AnalysisCacheTTL, archiver, s.Stream)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	gpxanalysis.RegisterRoutes(api, analysis, optionalJWT)
	storage.RegisterRoutes(api, archive, jwtMiddleware)
	trail.RegisterRoutes(api.Group("/trails"), trail.NewService(s.DB, pois))
	poi.RegisterRoutes(api.Group("/pois"), pois)
	weather.RegisterRoutes(api.Group("/weather"), weather.NewClient(
		nil, s.Cfg.WeatherAPIBase, s.Cfg.WeatherEndpoint, s.Cfg.WeatherAPIKey, s.Redis, s.Cfg.WeatherCacheTTL))
	tiles.RegisterRoutes(api.Group("/tiles"), tiles.NewDownloader(
		nil, s.Cfg.TileURLTemplate, s.Cfg.TileUserAgent, s.Cfg.TileMaxBatch, s.Cfg.TileRPS, s.Cfg.TileConcurrency))
	mapdata.RegisterRoutes(api.Group("/map"), mapdata.NewSource(s.Cfg.CoordinatesFile))
	stream.RegisterRoutes(api.Group("/stream"), s.Stream)
}

func analysisOptions(cfg config.Config) gpxanalysis.Options {
	return gpxanalysis.NewOptions(cfg.AnalysisSampleInterval, cfg.AnalysisMinSpeedKmh, cfg.AnalysisMaxSpeedKmh, cfg.AnalysisTimezone)
}
