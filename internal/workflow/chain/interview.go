package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	llmctx "storyloom-api/internal/domain/service"
	wfmodel "storyloom-api/internal/workflow/model"
	workflowport "storyloom-api/internal/workflow/port"
	workflowprompt "storyloom-api/internal/workflow/prompt"
)

type InterviewChain struct {
	factory workflowport.ChatModelFactory
}

func NewInterviewChain(factory workflowport.ChatModelFactory) *InterviewChain {
	return &InterviewChain{factory: factory}
}

func (c *InterviewChain) Invoke(ctx context.Context, in *wfmodel.InterviewInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if in.QuestionCount <= 0 {
		return nil, fmt.Errorf("question_count is required")
	}

	ctx = llmctx.WithStageProvider(ctx, "interview", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatInterviewMessages(ctx, in)
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

var interviewPromptRegistry = workflowprompt.NewRegistry()

func formatInterviewMessages(ctx context.Context, in *wfmodel.InterviewInput) ([]*schema.Message, error) {
	tpl, err := interviewPromptRegistry.ChatTemplate(workflowprompt.PromptInterviewV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"topic":          strings.TrimSpace(in.Topic),
		"genre":          strings.TrimSpace(in.Genre),
		"question_count": in.QuestionCount,
	}
	return tpl.Format(ctx, vars)
}

// buildModelOptions 组装各链共用的模型调用选项
func buildModelOptions(temperature *float32, maxTokens *int, modelName string) []model.Option {
	opts := make([]model.Option, 0, 3)
	if temperature != nil {
		opts = append(opts, model.WithTemperature(*temperature))
	}
	if maxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*maxTokens))
	}
	if strings.TrimSpace(modelName) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(modelName)))
	}
	return opts
}
