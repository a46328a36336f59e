package mapview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TileProber checks that a tile source answers before a map is handed out.
type TileProber interface {
	Probe(ctx context.Context, opts MapOptions) error
}

// HTTPTileProber fetches the z=0 tile of the configured template.
type HTTPTileProber struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

func NewHTTPTileProber(timeout time.Duration, userAgent string) *HTTPTileProber {
	return &HTTPTileProber{
		client:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		timeout:   timeout,
		userAgent: userAgent,
	}
}

func (p *HTTPTileProber) Probe(ctx context.Context, opts MapOptions) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	url := opts.TileURLFor(0, 0, 0)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build tile request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("tile request %s: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tile request %s: unexpected status %d", url, resp.StatusCode)
	}
	return nil
}
