// Package salesapi fetches recent orders from the merchant sales API.
// Raw response bodies go through a ResponseCache keyed by the URL hash;
// decoded orders are also kept in memory until Invalidate is called.
package salesapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/0xcro3dile/salesinsight-go/internal/domain/entities"
	"github.com/0xcro3dile/salesinsight-go/internal/domain/ports"
	"github.com/0xcro3dile/salesinsight-go/internal/observability"
)

// DefaultURL is the sandbox recent-orders endpoint.
const DefaultURL = "https://sandbox.mkonnekt.net/ch-portal/api/v1/orders/recent"

// ErrUpstreamStatus is returned when the API answers with a non-2xx status.
var ErrUpstreamStatus = errors.New("sales API returned non-2xx status")

// Client implements ports.OrderSource over HTTP.
type Client struct {
	url     string
	client  *http.Client
	cache   ports.ResponseCache
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger

	mu       sync.RWMutex
	snapshot []entities.Order
}

// NewClient creates a sales API client. cache may be nil to always download.
func NewClient(url string, timeout time.Duration, cache ports.ResponseCache, log *zap.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		cache:   cache,
		breaker: observability.NewBreaker("sales-api", log),
		log:     log,
	}
}

// CacheKey is the hex SHA-256 of url.
func CacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// FetchOrders returns every recent order. Without forceRefresh it serves the
// in-memory snapshot, then the cached body, and downloads only on a miss.
func (c *Client) FetchOrders(ctx context.Context, forceRefresh bool) ([]entities.Order, error) {
	if !forceRefresh {
		c.mu.RLock()
		snap := c.snapshot
		c.mu.RUnlock()
		if snap != nil {
			observability.OrderFetchTotal.WithLabelValues("memory").Inc()
			return snap, nil
		}
	}

	key := CacheKey(c.url)

	if !forceRefresh && c.cache != nil {
		body, found, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			c.log.Warn("cache read failed, downloading", zap.String("cache_key", key), zap.Error(err))
		case found:
			orders, err := decodeOrders(body)
			if err != nil {
				return nil, fmt.Errorf("cached body: %w", err)
			}
			observability.OrderFetchTotal.WithLabelValues("cache").Inc()
			c.log.Debug("orders served from cache", zap.String("cache_key", key), zap.Int("orders", len(orders)))
			c.store(orders)
			return orders, nil
		}
	}

	body, err := c.download(ctx)
	if err != nil {
		return nil, err
	}
	observability.OrderFetchTotal.WithLabelValues("upstream").Inc()

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body); err != nil {
			c.log.Warn("cache write failed", zap.String("cache_key", key), zap.Error(err))
		}
	}

	orders, err := decodeOrders(body)
	if err != nil {
		return nil, err
	}
	c.log.Info("orders downloaded", zap.String("cache_key", key), zap.Int("orders", len(orders)))
	c.store(orders)
	return orders, nil
}

// Invalidate drops the in-memory snapshot so the next fetch rereads the cache.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
	c.log.Debug("order snapshot invalidated")
}

func (c *Client) store(orders []entities.Order) {
	c.mu.Lock()
	c.snapshot = orders
	c.mu.Unlock()
}

func (c *Client) download(ctx context.Context) ([]byte, error) {
	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("calling sales API: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}
		return body, nil
	})
	c.log.Debug("sales API call",
		zap.String("url", c.url),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}
