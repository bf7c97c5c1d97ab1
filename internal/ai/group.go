package ai

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/hylur/internal/config"
)

type GeneratorEntry struct {
	Name      string
	Generator IGenerator
}

type groupGenerator struct {
	items []GeneratorEntry
}

// NewGroupGenerator tries each entry in order and returns the first success.
func NewGroupGenerator(items []GeneratorEntry) IGenerator {
	if len(items) == 0 {
		return nil
	}
	return &groupGenerator{items: items}
}

func (g *groupGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for i, item := range g.items {
		if item.Generator == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		res, err := item.Generator.Generate(ctx, prompt)
		if err == nil {
			return res, nil
		}
		lastErr = err
		logutil.GetLogger(ctx).Warn("generator failed", zap.Int("index", i), zap.String("name", item.Name), zap.Error(err))
	}
	if lastErr == nil {
		return "", fmt.Errorf("generator not configured")
	}
	return "", lastErr
}

// BuildGenerator wires the configured providers, in order, into one
// fallback generator. It returns nil when no provider is configured.
func BuildGenerator(cfg config.AIConfig) (IGenerator, error) {
	opts := GenerateOptions{MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature}
	entries := make([]GeneratorEntry, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		provider, err := NewProvider(p.Type, p.Data)
		if err != nil {
			return nil, fmt.Errorf("init ai provider %s: %w", p.Name, err)
		}
		entries = append(entries, GeneratorEntry{Name: p.Name, Generator: NewGenerator(provider, p.Model, opts)})
	}
	return NewGroupGenerator(entries), nil
}
