// Package extract talks to the AI trade extraction backend.
package extract

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jask/tradesnipper/internal/paste"
	"github.com/jask/tradesnipper/internal/prefs"
	"github.com/jask/tradesnipper/internal/trade"
)

// FailureMessage is the only thing the user sees when extraction fails.
const FailureMessage = "Failed to process trade."

// ErrExtractionFailed wraps every transport, status and decode failure.
var ErrExtractionFailed = errors.New("extraction failed")

const maxResponseBytes = 8 << 20

// Config holds endpoint settings.
type Config struct {
	FXURL   string
	SwapURL string
	// Timeout bounds one request. Zero means no deadline.
	Timeout time.Duration
	// CacheTTL keeps successful responses for identical requests. Zero
	// disables the cache.
	CacheTTL time.Duration
}

// Client posts pasted content to the FX or swap endpoint.
type Client struct {
	cfg   Config
	http  *http.Client
	cache *cache.Cache
}

func NewClient(cfg Config, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	c := &Client{cfg: cfg, http: hc}
	if cfg.CacheTTL > 0 {
		c.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c
}

func (c *Client) endpoint(kind trade.Kind) string {
	if kind == trade.KindSwap {
		return c.cfg.SwapURL
	}
	return c.cfg.FXURL
}

// FX extracts an FX trade.
func (c *Client) FX(ctx context.Context, content paste.Content, p prefs.Preferences) (trade.FXTrade, error) {
	return fetch(ctx, c, trade.KindFX, content, p, trade.DecodeFX)
}

// Swap extracts an interest-rate swap.
func (c *Client) Swap(ctx context.Context, content paste.Content, p prefs.Preferences) (trade.SwapTrade, error) {
	return fetch(ctx, c, trade.KindSwap, content, p, trade.DecodeSwap)
}

// Raw posts the request and returns the undecoded response body, serving
// repeats from the cache.
func (c *Client) Raw(ctx context.Context, kind trade.Kind, req Request) ([]byte, error) {
	data, _, err := c.raw(ctx, kind, req)
	return data, err
}

func (c *Client) raw(ctx context.Context, kind trade.Kind, req Request) (data []byte, key string, err error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: encode request: %w", ErrExtractionFailed, err)
	}
	key = cacheKey(kind, body)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			slog.Debug("extraction cache hit", "kind", kind)
			return v.([]byte), key, nil
		}
	}
	data, err = c.post(ctx, c.endpoint(kind), body)
	return data, key, err
}

func (c *Client) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrExtractionFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrExtractionFailed, resp.StatusCode, snippet(data))
	}
	return data, nil
}

func fetch[T any](ctx context.Context, c *Client, kind trade.Kind, content paste.Content, p prefs.Preferences, decode func([]byte) (T, error)) (T, error) {
	var zero T
	req, err := NewRequest(content, p)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	start := time.Now()
	data, key, err := c.raw(ctx, kind, req)
	if err != nil {
		slog.Warn("extraction request failed", "kind", kind, "url", c.endpoint(kind), "input", req.InputType, "err", err)
		return zero, err
	}
	out, err := decode(data)
	if err != nil {
		slog.Warn("extraction response unreadable", "kind", kind, "err", err, "body", snippet(data))
		return zero, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	// only responses that decode are worth replaying
	if c.cache != nil {
		c.cache.SetDefault(key, data)
	}
	slog.Info("trade extracted", "kind", kind, "input", req.InputType, "provider", req.AIProvider, "took", time.Since(start))
	return out, nil
}

func cacheKey(kind trade.Kind, body []byte) string {
	sum := sha256.Sum256(body)
	return string(kind) + ":" + hex.EncodeToString(sum[:])
}

func snippet(b []byte) string {
	const n = 200
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
