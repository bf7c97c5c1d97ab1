// Package gencache memoizes generator completions by prompt.
package gencache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/hylur/internal/ai"
)

// WrapLRUToGenerator serves repeated prompts from an expirable LRU. Failed and
// empty completions are not cached. A non-positive size disables caching.
func WrapLRUToGenerator(g ai.IGenerator, size int, ttl time.Duration) ai.IGenerator {
	if g == nil || size <= 0 {
		return g
	}
	return &lruGenerator{
		next:  g,
		cache: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

type lruGenerator struct {
	next  ai.IGenerator
	cache *expirable.LRU[string, string]
}

func (l *lruGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	key := buildCacheKey(prompt)
	if out, ok := l.cache.Get(key); ok {
		logutil.GetLogger(ctx).Debug("completion cache hit", zap.String("key", key[:12]))
		return out, nil
	}
	out, err := l.next.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if out != "" {
		l.cache.Add(key, out)
	}
	return out, nil
}

func buildCacheKey(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(hash[:])
}
