package gencache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingGenerator struct {
	out   string
	err   error
	calls int
}

func (c *countingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	c.calls++
	return c.out + prompt, c.err
}

func TestLRUGeneratorCachesByPrompt(t *testing.T) {
	next := &countingGenerator{out: "re:"}
	g := WrapLRUToGenerator(next, 8, time.Minute)

	for i := 0; i < 3; i++ {
		out, err := g.Generate(context.Background(), "a")
		require.NoError(t, err)
		require.Equal(t, "re:a", out)
	}
	require.Equal(t, 1, next.calls)

	_, err := g.Generate(context.Background(), "b")
	require.NoError(t, err)
	require.Equal(t, 2, next.calls)
}

func TestLRUGeneratorSkipsFailures(t *testing.T) {
	next := &countingGenerator{err: errors.New("down")}
	g := WrapLRUToGenerator(next, 8, time.Minute)
	_, err := g.Generate(context.Background(), "a")
	require.Error(t, err)
	_, err = g.Generate(context.Background(), "a")
	require.Error(t, err)
	require.Equal(t, 2, next.calls)
}

func TestWrapDisabled(t *testing.T) {
	next := &countingGenerator{}
	require.Same(t, next, WrapLRUToGenerator(next, 0, time.Minute))
	require.Nil(t, WrapLRUToGenerator(nil, 8, time.Minute))
}
