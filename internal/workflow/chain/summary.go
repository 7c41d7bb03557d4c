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

type SummaryChain struct {
	factory workflowport.ChatModelFactory
}

func NewSummaryChain(factory workflowport.ChatModelFactory) *SummaryChain {
	return &SummaryChain{factory: factory}
}

func (c *SummaryChain) Invoke(ctx context.Context, in *wfmodel.SummaryInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Story) == "" {
		return nil, fmt.Errorf("story text is required")
	}

	ctx = llmctx.WithStageProvider(ctx, "summary", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatSummaryMessages(ctx, in)
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

var summaryPromptRegistry = workflowprompt.NewRegistry()

func formatSummaryMessages(ctx context.Context, in *wfmodel.SummaryInput) ([]*schema.Message, error) {
	tpl, err := summaryPromptRegistry.ChatTemplate(workflowprompt.PromptSummaryV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"story": strings.TrimSpace(in.Story),
	}
	return tpl.Format(ctx, vars)
}
