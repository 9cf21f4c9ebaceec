package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/metrics"
)

// Cache stores completion text by key. Get returns an error on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Cached is a read-through completion cache. Cache failures are logged and
// never fail the call.
type Cached struct {
	next      Client
	cache     Cache
	namespace string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewCached wraps next with cache. namespace separates entries produced by
// different models.
func NewCached(next Client, cache Cache, namespace string, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{
		next:      next,
		cache:     cache,
		namespace: namespace,
		timeout:   2 * time.Second,
		logger:    logger,
	}
}

// Complete returns the cached text for an identical request, or calls through
// and stores the result.
func (c *Cached) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	key := CacheKey(c.namespace, messages, opts)

	getCtx, cancel := context.WithTimeout(ctx, c.timeout)
	text, err := c.cache.Get(getCtx, key)
	cancel()
	if err == nil {
		metrics.CacheHitsTotal.Inc()
		return text, nil
	}
	metrics.CacheMissesTotal.Inc()

	text, err = c.next.Complete(ctx, messages, opts)
	if err != nil {
		return "", err
	}

	setCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.cache.Set(setCtx, key, text); err != nil {
		c.logger.Warn("failed to cache completion", zap.String("key", key), zap.Error(err))
	}
	return text, nil
}

// CacheKey derives a stable key from the request contents.
func CacheKey(namespace string, messages []Message, opts Options) string {
	h := sha256.New()
	h.Write([]byte(namespace))
	h.Write([]byte{0})
	h.Write([]byte(opts.System))
	for _, m := range messages {
		h.Write([]byte{0})
		h.Write([]byte(m.Role))
		h.Write([]byte{0})
		h.Write([]byte(m.Content))
	}
	return "completion:" + hex.EncodeToString(h.Sum(nil))
}
