// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package tator

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/time/rate"

	"github.com/tomtom215/uavreview/internal/cache"
	"github.com/tomtom215/uavreview/internal/config"
	"github.com/tomtom215/uavreview/internal/logging"
	"github.com/tomtom215/uavreview/internal/metrics"
)

const (
	thumbnailQuality = 80
	graphicCacheSize = 2048
)

// GraphicFetcher is the upstream half of graphic retrieval. *Client
// implements it.
type GraphicFetcher interface {
	LocalizationGraphic(ctx context.Context, id int64) (Graphic, error)
	MediaGraphic(ctx context.Context, path string) (Graphic, error)
}

// Graphics fetches detection and media graphics through a TTL cache and a
// request rate limiter, optionally downscaling them to thumbnails. Failed
// fetches yield an SVG placeholder that is not cached.
type Graphics struct {
	fetcher    GraphicFetcher
	cache      *cache.Cache[Graphic]
	limiter    *rate.Limiter
	thumbWidth int
}

// NewGraphics creates a graphics service from the graphics config section.
func NewGraphics(fetcher GraphicFetcher, cfg config.GraphicsConfig) *Graphics {
	limit := rate.Inf
	if cfg.FetchRPS > 0 {
		limit = rate.Limit(cfg.FetchRPS)
	}
	burst := cfg.FetchBurst
	if burst < 1 {
		burst = 1
	}
	width := cfg.ThumbnailWidth
	if width < 1 {
		width = 320
	}
	return &Graphics{
		fetcher:    fetcher,
		cache:      cache.New[Graphic](cfg.CacheTTL, graphicCacheSize),
		limiter:    rate.NewLimiter(limit, burst),
		thumbWidth: width,
	}
}

// Cache exposes the underlying cache so its cleanup loop can be supervised.
func (g *Graphics) Cache() *cache.Cache[Graphic] {
	return g.cache
}

// Detection returns the graphic for a localization.
func (g *Graphics) Detection(ctx context.Context, id int64, thumbnail bool) Graphic {
	return g.get(ctx, "loc:"+strconv.FormatInt(id, 10), thumbnail,
		func(ctx context.Context) (Graphic, error) { return g.fetcher.LocalizationGraphic(ctx, id) },
		func() Graphic { return DetectionPlaceholder(id) })
}

// Media returns the graphic stored at a media file path.
func (g *Graphics) Media(ctx context.Context, path string, thumbnail bool) Graphic {
	return g.get(ctx, "media:"+path, thumbnail,
		func(ctx context.Context) (Graphic, error) { return g.fetcher.MediaGraphic(ctx, path) },
		func() Graphic { return MediaPlaceholder(path) })
}

func (g *Graphics) get(ctx context.Context, key string, thumbnail bool, fetch func(context.Context) (Graphic, error), placeholder func() Graphic) Graphic {
	if thumbnail {
		key += ":thumb"
	}
	if v, ok := g.cache.Get(key); ok {
		metrics.GraphicCacheHits.Inc()
		return v
	}
	metrics.GraphicCacheMisses.Inc()

	if err := g.limiter.Wait(ctx); err != nil {
		return placeholder()
	}

	gr, err := fetch(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("graphic", key).Msg("Graphic unavailable, serving placeholder")
		metrics.RecordFallback("graphic")
		return placeholder()
	}
	if thumbnail {
		if thumb, err := Thumbnail(gr, g.thumbWidth); err == nil {
			gr = thumb
		} else {
			logging.Ctx(ctx).Debug().Err(err).Str("graphic", key).Msg("Thumbnail failed, serving original")
		}
	}

	g.cache.Set(key, gr)
	metrics.GraphicCacheEntries.Set(float64(g.cache.Len()))
	return gr
}

// Thumbnail downscales an image to at most width pixels wide, keeping the
// aspect ratio, and re-encodes it as JPEG. Images already narrow enough are
// returned unchanged.
func Thumbnail(gr Graphic, width int) (Graphic, error) {
	img, err := imaging.Decode(bytes.NewReader(gr.Data), imaging.AutoOrientation(true))
	if err != nil {
		return gr, fmt.Errorf("decode graphic: %w", err)
	}
	if img.Bounds().Dx() <= width {
		return gr, nil
	}
	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		return gr, fmt.Errorf("encode thumbnail: %w", err)
	}
	return Graphic{Data: buf.Bytes(), ContentType: "image/jpeg"}, nil
}

const placeholderSVG = `<svg width="200" height="150" xmlns="http://www.w3.org/2000/svg">
  <rect width="200" height="150" fill="#f3f4f6"/>
  <text x="100" y="75" text-anchor="middle" fill="#6b7280" font-family="Arial" font-size="14">%s</text>
  <text x="100" y="95" text-anchor="middle" fill="#9ca3af" font-family="Arial" font-size="10">Image not available</text>
</svg>`

// DetectionPlaceholder is the stand-in graphic for a localization.
func DetectionPlaceholder(id int64) Graphic {
	return placeholderGraphic(fmt.Sprintf("Detection %d", id))
}

// MediaPlaceholder is the stand-in graphic for a media path.
func MediaPlaceholder(path string) Graphic {
	return placeholderGraphic("Media " + path)
}

func placeholderGraphic(title string) Graphic {
	return Graphic{
		Data:        []byte(fmt.Sprintf(placeholderSVG, html.EscapeString(title))),
		ContentType: "image/svg+xml",
		Placeholder: true,
	}
}

// DataURL encodes the graphic as a base64 data URL.
func (g Graphic) DataURL() string {
	return "data:" + g.ContentType + ";base64," + base64.StdEncoding.EncodeToString(g.Data)
}

// cleanupInterval is how often expired graphics are swept.
const cleanupInterval = time.Minute

// RunCacheCleanup sweeps expired graphics until ctx is done.
func (g *Graphics) RunCacheCleanup(ctx context.Context) {
	g.cache.Run(ctx, cleanupInterval)
}
