package tiles

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var (
	ErrNoTiles   = errors.New("no tiles requested")
	ErrTooMany   = errors.New("too many tiles requested")
	ErrAllFailed = errors.New("every tile download failed")
)

// Coord addresses one slippy-map tile.
type Coord struct {
	Z int `json:"z"`
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) path() string {
	return fmt.Sprintf("%d/%d/%d.png", c.Z, c.X, c.Y)
}

type Downloader struct {
	http        *http.Client
	urlTemplate string
	userAgent   string
	maxBatch    int
	concurrency int
	limiter     *rate.Limiter
}

func NewDownloader(httpClient *http.Client, urlTemplate, userAgent string, maxBatch int, rps float64, concurrency int) *Downloader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if concurrency < 1 {
		concurrency = 1
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Downloader{
		http:        httpClient,
		urlTemplate: urlTemplate,
		userAgent:   userAgent,
		maxBatch:    maxBatch,
		concurrency: concurrency,
		limiter:     rate.NewLimiter(limit, concurrency),
	}
}

// Download fetches every tile and packs the successful ones into a zip at
// z/x/y.png, in request order. Failures are reported per tile; the call
// only fails outright when nothing could be fetched.
func (d *Downloader) Download(ctx context.Context, coords []Coord) ([]byte, []string, error) {
	if len(coords) == 0 {
		return nil, nil, ErrNoTiles
	}
	if d.maxBatch > 0 && len(coords) > d.maxBatch {
		return nil, nil, ErrTooMany
	}

	bodies := make([][]byte, len(coords))
	failures := make([]string, len(coords))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, c := range coords {
		i, c := i, c
		g.Go(func() error {
			body, err := d.fetch(gctx, c)
			if err != nil {
				failures[i] = err.Error()
				return nil
			}
			bodies[i] = body
			return nil
		})
	}
	_ = g.Wait()

	var (
		buf    bytes.Buffer
		errs   []string
		stored int
	)
	zw := zip.NewWriter(&buf)
	for i, c := range coords {
		if failures[i] != "" {
			errs = append(errs, failures[i])
			continue
		}
		w, err := zw.Create(c.path())
		if err != nil {
			return nil, errs, fmt.Errorf("zip %s: %w", c.path(), err)
		}
		if _, err := w.Write(bodies[i]); err != nil {
			return nil, errs, fmt.Errorf("zip %s: %w", c.path(), err)
		}
		stored++
	}
	if err := zw.Close(); err != nil {
		return nil, errs, fmt.Errorf("close zip: %w", err)
	}

	if stored == 0 {
		return nil, errs, ErrAllFailed
	}
	if len(errs) > 0 {
		log.Printf("部分圖磚下載失敗: %d/%d", len(errs), len(coords))
	}
	return buf.Bytes(), errs, nil
}

func (d *Downloader) fetch(ctx context.Context, c Coord) ([]byte, error) {
	target := d.tileURL(c)
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("例外: %s %v", target, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("例外: %s %v", target, err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("例外: %s %v", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("下載失敗: %s 狀態碼: %d", target, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("例外: %s %v", target, err)
	}
	return body, nil
}

func (d *Downloader) tileURL(c Coord) string {
	return strings.NewReplacer(
		"{z}", strconv.Itoa(c.Z),
		"{x}", strconv.Itoa(c.X),
		"{y}", strconv.Itoa(c.Y),
	).Replace(d.urlTemplate)
}
