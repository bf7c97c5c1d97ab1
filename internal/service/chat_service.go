package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"github.com/xxxsen/hylur/internal/ai"
	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
)

// FallbackReply is returned when the model answers with nothing.
const FallbackReply = "I apologize, but I encountered an error processing your request."

var ErrAIUnavailable = ai.ErrUnavailable

// ContextAssembler renders the grounding prompt for one chat message.
type ContextAssembler interface {
	Assemble(ctx context.Context, userID, message string) (string, error)
}

type ChatReply struct {
	Response string `json:"response"`
	HTML     string `json:"html"`
}

type ChatService struct {
	assembler ContextAssembler
	generator ai.IGenerator
	timeout   time.Duration
	markdown  goldmark.Markdown
}

func NewChatService(assembler ContextAssembler, generator ai.IGenerator, timeout time.Duration) *ChatService {
	return &ChatService{
		assembler: assembler,
		generator: generator,
		timeout:   timeout,
		markdown:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (s *ChatService) Chat(ctx context.Context, userID, message string) (*ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is required", appErr.ErrInvalid)
	}
	if s.generator == nil {
		return nil, ErrAIUnavailable
	}
	prompt, err := s.assembler.Assemble(ctx, userID, message)
	if err != nil {
		return nil, err
	}
	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	out, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		logutil.GetLogger(ctx).Error("chat completion failed", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrAIUnavailable, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		out = FallbackReply
	}
	return &ChatReply{Response: out, HTML: s.render(ctx, out)}, nil
}

// render falls back to an empty HTML body; the markdown reply is still usable.
func (s *ChatService) render(ctx context.Context, md string) string {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(md), &buf); err != nil {
		logutil.GetLogger(ctx).Warn("render chat reply failed", zap.Error(err))
		return ""
	}
	return buf.String()
}
