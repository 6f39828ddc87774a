package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	config "github.com/flowpost/flowpost/configs"
	"github.com/flowpost/flowpost/internal/queue"
	"github.com/flowpost/flowpost/internal/transfer"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type GenerateService interface {
	Generate(ctx context.Context, userID int64, request *transfer.GenerateRequest) (*transfer.GenerateResponse, error)
	// GenerateStream writes content chunks to w as they arrive.
	GenerateStream(ctx context.Context, userID int64, request *transfer.GenerateRequest, w io.Writer) error
}

type generateService struct {
	cfg    config.Config
	ai     openai.Client
	client queue.Enqueuer
}

func NewGenerateService(cfg config.Config, client queue.Enqueuer) GenerateService {
	return &generateService{
		cfg:    cfg,
		ai:     openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey)),
		client: client,
	}
}

func buildSystemPrompt(platform, tone string) string {
	var b strings.Builder
	b.WriteString("You are a social media copywriter for small marketing teams. ")
	b.WriteString("Write a single ready-to-publish post. No preamble, no quotation marks around the post.")

	switch platform {
	case "twitter":
		b.WriteString(" The post is for X/Twitter: stay under 280 characters.")
	case "linkedin":
		b.WriteString(" The post is for LinkedIn: professional register, short paragraphs.")
	case "instagram", "facebook", "pinterest":
		b.WriteString(fmt.Sprintf(" The post is for %s: conversational, include a handful of relevant hashtags at the end.", platform))
	case "youtube":
		b.WriteString(" Write a video title and description, separated by a blank line.")
	}

	if tone != "" {
		b.WriteString(fmt.Sprintf(" Tone: %s.", tone))
	}

	return b.String()
}

func (s *generateService) Generate(ctx context.Context, userID int64, request *transfer.GenerateRequest) (*transfer.GenerateResponse, error) {
	if request.Prompt == "" {
		slog.Info("generation prompt is empty")
		return nil, ErrInvalidInput
	}

	completion, err := s.ai.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.cfg.OpenAIModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(buildSystemPrompt(request.Platform, request.Tone)),
			openai.UserMessage(request.Prompt),
		},
	})
	if err != nil {
		slog.Info(err.Error())
		return nil, ErrUpstream
	}

	if len(completion.Choices) == 0 {
		slog.Info("completion has no choices")
		return nil, ErrUpstream
	}

	s.recordUsage(userID, completion.Model, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)

	return &transfer.GenerateResponse{
		Content: completion.Choices[0].Message.Content,
		Model:   completion.Model,
	}, nil
}

func (s *generateService) GenerateStream(ctx context.Context, userID int64, request *transfer.GenerateRequest, w io.Writer) error {
	if request.Prompt == "" {
		slog.Info("generation prompt is empty")
		return ErrInvalidInput
	}

	stream := s.ai.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.cfg.OpenAIModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(buildSystemPrompt(request.Platform, request.Tone)),
			openai.UserMessage(request.Prompt),
		},
		StreamOptions: openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		},
	})

	acc := openai.ChatCompletionAccumulator{}
	wrote := false

	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if _, err := io.WriteString(w, chunk.Choices[0].Delta.Content); err != nil {
				return err
			}
			wrote = true
		}
	}

	if err := stream.Err(); err != nil {
		slog.Info(err.Error())
		if !wrote {
			return ErrUpstream
		}
		return err
	}

	if !wrote {
		return errors.New("stream produced no content")
	}

	s.recordUsage(userID, acc.Model, acc.Usage.PromptTokens, acc.Usage.CompletionTokens)

	return nil
}

// recordUsage happens post-hoc through the task queue so the response path
// never waits on the database.
func (s *generateService) recordUsage(userID int64, model string, promptTokens, completionTokens int64) {
	if model == "" {
		model = s.cfg.OpenAIModel
	}

	payload := queue.UsageRecordPayload{
		UserID:           userID,
		Model:            model,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
	}
	if err := queue.EnqueueUsageRecord(s.client, payload); err != nil {
		slog.Info(err.Error())
	}
}
