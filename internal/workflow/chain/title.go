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

type TitleChain struct {
	factory workflowport.ChatModelFactory
}

func NewTitleChain(factory workflowport.ChatModelFactory) *TitleChain {
	return &TitleChain{factory: factory}
}

func (c *TitleChain) Invoke(ctx context.Context, in *wfmodel.TitleInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Summary) == "" {
		return nil, fmt.Errorf("summary is required")
	}
	if in.TitleCount <= 0 {
		return nil, fmt.Errorf("title_count is required")
	}

	ctx = llmctx.WithStageProvider(ctx, "titles", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatTitleMessages(ctx, in)
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

var titlePromptRegistry = workflowprompt.NewRegistry()

func formatTitleMessages(ctx context.Context, in *wfmodel.TitleInput) ([]*schema.Message, error) {
	tpl, err := titlePromptRegistry.ChatTemplate(workflowprompt.PromptTitlesV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"summary":     strings.TrimSpace(in.Summary),
		"title_count": in.TitleCount,
	}
	return tpl.Format(ctx, vars)
}
