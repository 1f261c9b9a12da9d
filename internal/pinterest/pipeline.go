package pinterest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fitfindr/fitfindr-server/internal/metrics"
	"github.com/fitfindr/fitfindr-server/internal/model"
)

// DefaultMaxItems bounds a result list when the caller does not say otherwise.
const DefaultMaxItems = 20

// Source labels which branch produced a result list. The HTTP contract never
// exposes it; it exists so logging, metrics, and activity events can tell
// live data from degraded data.
type Source string

// Result sources.
const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Archiver stores raw provider payloads for audit. Implementations live in
// internal/archive.
type Archiver interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Pipeline composes the fetcher, normalizer, and fallback generator. One
// invocation is a single bounded request/response cycle: fetch, then either
// normalize or degrade. No state persists between invocations.
type Pipeline struct {
	searcher   Searcher
	normalizer *Normalizer
	fallback   *FallbackGenerator
	archiver   Archiver
	logger     *zap.Logger
}

// NewPipeline wires a Pipeline. archiver may be nil to disable raw payload
// archival.
func NewPipeline(searcher Searcher, rand Rand, archiver Archiver, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		searcher:   searcher,
		normalizer: NewNormalizer(rand),
		fallback:   NewFallbackGenerator(rand),
		archiver:   archiver,
		logger:     logger,
	}
}

// Process turns a keyword into a bounded, well-formed list of Items. It never
// fails: a fetch error, an unsuccessful payload, or an empty pin list all
// degrade to a full-count synthetic list. On the live path the list holds at
// most maxItems entries in provider order.
func (p *Pipeline) Process(ctx context.Context, keyword string, maxItems int) ([]model.Item, Source) {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	resp, err := p.searcher.Search(ctx, keyword)
	if err != nil {
		p.logger.Warn("pinterest fetch failed; serving fallback items",
			zap.String("keyword", keyword),
			zap.Error(err),
		)
		metrics.ObserveScrape(string(SourceFallback), maxItems)
		return p.fallback.Generate(keyword, maxItems), SourceFallback
	}

	p.archive(ctx, keyword, resp.Raw)

	if len(resp.Pins) == 0 {
		p.logger.Warn("pinterest returned no pins; serving fallback items",
			zap.String("keyword", keyword),
		)
		metrics.ObserveScrape(string(SourceFallback), maxItems)
		return p.fallback.Generate(keyword, maxItems), SourceFallback
	}

	items := p.normalizer.Normalize(resp, keyword, maxItems)
	p.logger.Info("pinterest pins normalized",
		zap.String("keyword", keyword),
		zap.Int("count", len(items)),
	)
	metrics.ObserveScrape(string(SourceLive), len(items))
	return items, SourceLive
}

func (p *Pipeline) archive(ctx context.Context, keyword string, raw []byte) {
	if p.archiver == nil || len(raw) == 0 {
		return
	}
	path := fmt.Sprintf("scrapes/%s/%d.json", sanitizeKeyword(keyword), time.Now().UTC().UnixNano())
	uri, err := p.archiver.PutObject(ctx, path, "application/json", raw)
	if err != nil {
		p.logger.Warn("archive raw payload failed", zap.String("keyword", keyword), zap.Error(err))
		return
	}
	p.logger.Debug("raw payload archived", zap.String("uri", uri))
}

func sanitizeKeyword(keyword string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, strings.ToLower(keyword))
	if cleaned == "" {
		return "keyword"
	}
	return cleaned
}
