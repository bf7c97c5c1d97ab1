package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/hylur/internal/config"
)

func TestOpenAICompatibleGenerate(t *testing.T) {
	var (
		got    openAIChatRequest
		header http.Header
		path   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, header = r.URL.Path, r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  hello there \n"}}]}`))
	}))
	defer srv.Close()

	provider, err := NewProvider("OpenRouter", map[string]interface{}{
		"api_key":  "k1",
		"base_url": srv.URL + "/v1/",
		"x_title":  "hylur",
	})
	require.NoError(t, err)
	temp := 0.7
	out, err := NewGenerator(provider, "gpt-4.1-mini", GenerateOptions{MaxTokens: 1000, Temperature: &temp}).Generate(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, "hello there", out)
	require.Equal(t, "/v1/chat/completions", path)
	require.Equal(t, "Bearer k1", header.Get("Authorization"))
	require.Equal(t, "hylur", header.Get("X-Title"))
	require.Equal(t, "gpt-4.1-mini", got.Model)
	require.Equal(t, 1000, got.MaxTokens)
	require.NotNil(t, got.Temperature)
	require.InDelta(t, 0.7, *got.Temperature, 1e-9)
	require.Equal(t, []openAIChatMsg{{Role: "user", Content: "prompt"}}, got.Messages)
}

func TestOpenAIFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	provider, err := NewProvider("abacus", map[string]interface{}{"api_key": "k", "base_url": srv.URL})
	require.NoError(t, err)
	_, err = provider.Generate(context.Background(), "m", "p", GenerateOptions{})
	require.ErrorContains(t, err, "429")
	require.ErrorContains(t, err, "quota exceeded")
}

func TestProviderWithoutKeyIsUnavailable(t *testing.T) {
	for _, name := range []string{"openai", "abacus", "openrouter", "gemini"} {
		provider, err := NewProvider(name, map[string]interface{}{})
		require.NoError(t, err)
		_, err = provider.Generate(context.Background(), "m", "p", GenerateOptions{})
		require.ErrorIs(t, err, ErrUnavailable, name)
	}
	_, err := NewProvider("nope", map[string]interface{}{})
	require.Error(t, err)
	_, err = NewProvider("openai", nil)
	require.Error(t, err)
}

type stubGenerator struct {
	out   string
	err   error
	calls int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.out, s.err
}

func TestGroupGeneratorFallback(t *testing.T) {
	first := &stubGenerator{err: errors.New("down")}
	second := &stubGenerator{out: "ok"}
	third := &stubGenerator{out: "unused"}
	g := NewGroupGenerator([]GeneratorEntry{{Name: "a", Generator: first}, {Name: "b", Generator: second}, {Name: "c", Generator: third}})

	out, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "ok", out)
	require.Equal(t, 1, first.calls)
	require.Zero(t, third.calls)

	failing := NewGroupGenerator([]GeneratorEntry{{Name: "a", Generator: first}})
	_, err = failing.Generate(context.Background(), "p")
	require.ErrorContains(t, err, "down")

	require.Nil(t, NewGroupGenerator(nil))
}

func TestGroupGeneratorStopsOnCancel(t *testing.T) {
	gen := &stubGenerator{out: "x"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGroupGenerator([]GeneratorEntry{{Generator: gen}}).Generate(ctx, "p")
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, gen.calls)
}

func TestBuildGenerator(t *testing.T) {
	gen, err := BuildGenerator(config.AIConfig{})
	require.NoError(t, err)
	require.Nil(t, gen)

	gen, err = BuildGenerator(config.AIConfig{Providers: []config.AIProviderConfig{
		{Name: "primary", Type: "openai", Model: "gpt-4.1-mini", Data: map[string]interface{}{"api_key": "k"}},
	}})
	require.NoError(t, err)
	require.NotNil(t, gen)

	_, err = BuildGenerator(config.AIConfig{Providers: []config.AIProviderConfig{{Name: "x", Type: "unknown"}}})
	require.Error(t, err)
}

func TestGeminiGenerateConfig(t *testing.T) {
	require.Nil(t, geminiGenerateConfig(GenerateOptions{}))
	temp := 0.5
	cfg := geminiGenerateConfig(GenerateOptions{MaxTokens: 200, Temperature: &temp})
	require.Equal(t, int32(200), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.Temperature)
	require.InDelta(t, 0.5, *cfg.Temperature, 1e-6)
}
