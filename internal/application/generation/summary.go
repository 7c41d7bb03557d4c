package generation

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "storyloom-api/pkg/errors"
	"storyloom-api/pkg/logger"

	"storyloom-api/internal/domain/entity"
	"storyloom-api/internal/domain/repository"
	workflowchain "storyloom-api/internal/workflow/chain"
	wfmodel "storyloom-api/internal/workflow/model"
	"storyloom-api/internal/workflow/node"
	workflowport "storyloom-api/internal/workflow/port"
)

// SummaryStage 摘要阶段：汇总已持久化的章节正文，生成并落库故事摘要
type SummaryStage struct {
	chain    *workflowchain.SummaryChain
	stories  repository.StoryRepository
	chapters repository.ChapterRepository
}

func NewSummaryStage(factory workflowport.ChatModelFactory, stories repository.StoryRepository, chapters repository.ChapterRepository) *SummaryStage {
	return &SummaryStage{
		chain:    workflowchain.NewSummaryChain(factory),
		stories:  stories,
		chapters: chapters,
	}
}

// Run 生成摘要并写回故事行
func (s *SummaryStage) Run(ctx context.Context, story *entity.Story) (string, error) {
	chapters, err := s.chapters.ListByStory(ctx, story.ID)
	if err != nil {
		return "", apperrors.Persistence(err, "failed to load chapters for summary")
	}
	if len(chapters) == 0 {
		return "", apperrors.Validation("story has no drafted chapters to summarize")
	}

	parts := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		parts = append(parts, ch.Content)
	}

	outMsg, err := s.chain.Invoke(ctx, &wfmodel.SummaryInput{
		Story: strings.Join(parts, "\n\n"),
	})
	if err != nil {
		return "", apperrors.UpstreamGeneration("summary generation failed").WithError(err)
	}

	raw := node.ExtractJSONObject(outMsg.Content)
	if strings.TrimSpace(raw) == "" {
		return "", apperrors.UpstreamGeneration("empty summary output")
	}

	var env wfmodel.StorySummary
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		logger.Error(ctx, "failed to unmarshal summary output", err, "raw", raw)
		return "", apperrors.SchemaViolation("summary output is not valid JSON").WithError(err)
	}
	summary := strings.TrimSpace(env.Summary)
	if summary == "" {
		return "", apperrors.UpstreamGeneration("summary output is empty")
	}

	if err := s.stories.UpdateSummary(ctx, story.ID, summary); err != nil {
		return "", apperrors.Persistence(err, "failed to persist story summary")
	}
	return summary, nil
}
