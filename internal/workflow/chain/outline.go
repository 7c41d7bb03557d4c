package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	llmctx "storyloom-api/internal/domain/service"
	wfmodel "storyloom-api/internal/workflow/model"
	workflowport "storyloom-api/internal/workflow/port"
	workflowprompt "storyloom-api/internal/workflow/prompt"
)

type OutlineChain struct {
	factory workflowport.ChatModelFactory
}

func NewOutlineChain(factory workflowport.ChatModelFactory) *OutlineChain {
	return &OutlineChain{factory: factory}
}

func (c *OutlineChain) Invoke(ctx context.Context, in *wfmodel.OutlineInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if strings.TrimSpace(in.InterviewQA) == "" {
		return nil, fmt.Errorf("interview_qa is required")
	}
	if in.ChapterCount <= 0 {
		return nil, fmt.Errorf("chapter_count is required")
	}

	ctx = llmctx.WithStageProvider(ctx, "outline", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatOutlineMessages(ctx, in)
	if err != nil {
		return nil, err
	}

	outMsg, err := chatModel.Generate(ctx, msgs, buildModelOptions(in.Temperature, in.MaxTokens, in.Model)...)
	if err != nil {
		return nil, err
	}
	if outMsg == nil {
		return nil, fmt.Errorf("empty llm response")
	}
	return outMsg, nil
}

var outlinePromptRegistry = workflowprompt.NewRegistry()

func formatOutlineMessages(ctx context.Context, in *wfmodel.OutlineInput) ([]*schema.Message, error) {
	tpl, err := outlinePromptRegistry.ChatTemplate(workflowprompt.PromptOutlineV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"topic":         strings.TrimSpace(in.Topic),
		"genre":         strings.TrimSpace(in.Genre),
		"interview_qa":  strings.TrimSpace(in.InterviewQA),
		"chapter_count": in.ChapterCount,
	}
	return tpl.Format(ctx, vars)
}
