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

type ChapterChain struct {
	factory workflowport.ChatModelFactory
}

func NewChapterChain(factory workflowport.ChatModelFactory) *ChapterChain {
	return &ChapterChain{factory: factory}
}

func (c *ChapterChain) Invoke(ctx context.Context, in *wfmodel.ChapterDraftInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.ChapterTitle) == "" {
		return nil, fmt.Errorf("chapter title is required")
	}
	if in.ChapterNumber <= 0 {
		return nil, fmt.Errorf("chapter number is required")
	}
	if strings.TrimSpace(in.OutlineDigest) == "" {
		return nil, fmt.Errorf("outline is required")
	}

	ctx = llmctx.WithStageProvider(ctx, "chapter_draft", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatChapterMessages(ctx, in)
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

var chapterPromptRegistry = workflowprompt.NewRegistry()

func formatChapterMessages(ctx context.Context, in *wfmodel.ChapterDraftInput) ([]*schema.Message, error) {
	tpl, err := chapterPromptRegistry.ChatTemplate(workflowprompt.PromptChapterDraftV1)
	if err != nil {
		return nil, err
	}
	memoryContext := strings.TrimSpace(in.MemoryContext)
	if memoryContext == "" {
		memoryContext = "(no sections written yet)"
	}
	vars := map[string]any{
		"topic":          strings.TrimSpace(in.Topic),
		"genre":          strings.TrimSpace(in.Genre),
		"outline":        strings.TrimSpace(in.OutlineDigest),
		"memory_context": memoryContext,
		"chapter_number": in.ChapterNumber,
		"chapter_title":  strings.TrimSpace(in.ChapterTitle),
		"interview_qa":   strings.TrimSpace(in.InterviewQA),
		"characters":     strings.TrimSpace(in.Characters),
	}
	return tpl.Format(ctx, vars)
}
