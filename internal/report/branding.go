package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/huangang/compliancewatch/pkg/logger"
	gocache "github.com/patrickmn/go-cache"
)

const maxLogoBytes = 2 << 20

// Logo is a decoded brand image ready to be embedded in a pdf.
type Logo struct {
	Data   []byte
	Type   string // fpdf image type: PNG, JPG, GIF
	Width  int
	Height int
}

// LogoLoader fetches the brand logo from a URL or local path. Loads are
// bounded by a timeout and successful results are cached.
type LogoLoader struct {
	source  string
	timeout time.Duration
	client  *http.Client
	cache   *gocache.Cache
}

func NewLogoLoader(source string, timeout, ttl time.Duration) *LogoLoader {
	if timeout <= 0 {
		timeout = 1500 * time.Millisecond
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &LogoLoader{
		source:  strings.TrimSpace(source),
		timeout: timeout,
		client:  &http.Client{},
		cache:   gocache.New(ttl, 2*ttl),
	}
}

// Load returns the logo or nil. It never blocks longer than the timeout
// and never fails the caller.
func (l *LogoLoader) Load(ctx context.Context) *Logo {
	if l == nil || l.source == "" {
		return nil
	}
	if cached, ok := l.cache.Get(l.source); ok {
		return cached.(*Logo)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := l.fetch(ctx)
		done <- result{data: data, err: err}
	}()

	log := logger.Module("branding")
	select {
	case <-ctx.Done():
		log.Warn().Str("source", l.source).Dur("timeout", l.timeout).Msg("logo load timed out, rendering without logo")
		return nil
	case res := <-done:
		if res.err != nil {
			log.Warn().Err(res.err).Str("source", l.source).Msg("logo unavailable, rendering without logo")
			return nil
		}
		logo, err := DecodeLogo(res.data)
		if err != nil {
			log.Warn().Err(err).Str("source", l.source).Msg("logo is not a usable image")
			return nil
		}
		l.cache.SetDefault(l.source, logo)
		return logo
	}
}

func (l *LogoLoader) fetch(ctx context.Context) ([]byte, error) {
	if !strings.HasPrefix(l.source, "http://") && !strings.HasPrefix(l.source, "https://") {
		return os.ReadFile(l.source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("logo request returned %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
}

var errUnsupportedImage = errors.New("unsupported image format")

// DecodeLogo inspects raw image bytes and records their dimensions.
func DecodeLogo(data []byte) (*Logo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("%w: empty image", errUnsupportedImage)
	}

	var kind string
	switch format {
	case "png":
		kind = "PNG"
	case "jpeg":
		kind = "JPG"
	case "gif":
		kind = "GIF"
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedImage, format)
	}
	return &Logo{Data: data, Type: kind, Width: cfg.Width, Height: cfg.Height}, nil
}
