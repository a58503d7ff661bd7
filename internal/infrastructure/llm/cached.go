package llm

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/domain/ports"
	"github.com/ersonp/deckcheck/internal/infrastructure/cache"
)

// Generation holds the backend settings that shape a response.
type Generation struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// CachedDetector reuses earlier responses for an identical backend, generation settings and prompt.
type CachedDetector struct {
	next   ports.Detector
	gen    Generation
	store  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedDetector wraps next with a response cache.
func NewCachedDetector(next ports.Detector, gen Generation, store cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDetector{
		next:   next,
		gen:    gen,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

var _ ports.Detector = (*CachedDetector)(nil)

// Name returns the wrapped backend name.
func (c *CachedDetector) Name() string {
	return c.next.Name()
}

// Detect returns cached findings when available, otherwise calls the backend and caches its result.
// Failed calls are never cached.
func (c *CachedDetector) Detect(ctx context.Context, slides []entities.SlideContent) ([]entities.Inconsistency, error) {
	key := cache.Key(
		c.next.Name(),
		c.gen.Model,
		strconv.Itoa(c.gen.MaxTokens),
		strconv.FormatFloat(c.gen.Temperature, 'g', -1, 64),
		SystemPrompt,
		BuildPrompt(slides),
	)

	if data, found := c.store.Get(key); found {
		var findings []entities.Inconsistency
		if err := json.Unmarshal(data, &findings); err == nil {
			c.logger.Debug("AI response cache hit", zap.String("backend", c.next.Name()))
			return findings, nil
		}
		c.logger.Debug("discarding unreadable cache entry", zap.String("backend", c.next.Name()))
	}

	findings, err := c.next.Detect(ctx, slides)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(findings)
	if err != nil {
		c.logger.Warn("caching AI response failed", zap.Error(err))
		return findings, nil
	}
	if err := c.store.Set(key, data, c.ttl); err != nil {
		c.logger.Warn("caching AI response failed", zap.Error(err))
	}
	return findings, nil
}
