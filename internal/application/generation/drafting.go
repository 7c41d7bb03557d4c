package generation

import (
	"context"
	"fmt"
	"strings"

	apperrors "storyloom-api/pkg/errors"
	"storyloom-api/pkg/logger"
	"storyloom-api/pkg/metrics"

	"storyloom-api/internal/domain/entity"
	"storyloom-api/internal/domain/repository"
	workflowchain "storyloom-api/internal/workflow/chain"
	wfmodel "storyloom-api/internal/workflow/model"
	workflowport "storyloom-api/internal/workflow/port"
)

// ChapterDraftingStage 章节起草阶段。
// 严格按大纲编号升序逐章生成：第 n+1 章的提示依赖第 n 章的生成文本，
// 所以章节不能乱序、不能并发。记忆缓冲只累积模型的生成输出。
type ChapterDraftingStage struct {
	chain          *workflowchain.ChapterChain
	chapters       repository.ChapterRepository
	memoryMaxRunes int
}

func NewChapterDraftingStage(factory workflowport.ChatModelFactory, chapters repository.ChapterRepository, memoryMaxRunes int) *ChapterDraftingStage {
	return &ChapterDraftingStage{
		chain:          workflowchain.NewChapterChain(factory),
		chapters:       chapters,
		memoryMaxRunes: memoryMaxRunes,
	}
}

// Run 起草全部章节并按大纲位置持久化。
// 位置冲突快速失败：生成前先查一遍已占用位置，
// 并发竞争的最终仲裁交给 (story_id, position) 唯一索引。
func (s *ChapterDraftingStage) Run(
	ctx context.Context,
	story *entity.Story,
	topic, genre string,
	outline *wfmodel.Outline,
	interviewQA string,
	roster string,
) ([]string, error) {
	for _, ch := range outline.Chapters {
		taken, err := s.chapters.ExistsAtPosition(ctx, story.ID, ch.ChapterNumber)
		if err != nil {
			return nil, apperrors.Persistence(err, "failed to check chapter positions")
		}
		if taken {
			return nil, apperrors.New(apperrors.CodePositionTaken, "chapter position already taken for this story").
				WithDetail(fmt.Sprintf("position %d is already occupied", ch.ChapterNumber))
		}
	}

	memory := NewMemoryBuffer(s.memoryMaxRunes)
	digest := outlineDigest(outline)
	texts := make([]string, 0, len(outline.Chapters))

	for _, ch := range outline.Chapters {
		outMsg, err := s.chain.Invoke(ctx, &wfmodel.ChapterDraftInput{
			Topic:         topic,
			Genre:         genre,
			OutlineDigest: digest,
			ChapterNumber: ch.ChapterNumber,
			ChapterTitle:  ch.ChapterTitle,
			InterviewQA:   interviewQA,
			Characters:    roster,
			MemoryContext: memory.Context(),
		})
		if err != nil {
			return nil, apperrors.UpstreamGeneration(
				fmt.Sprintf("drafting failed at chapter %d", ch.ChapterNumber)).WithError(err)
		}
		text := strings.TrimSpace(outMsg.Content)
		if text == "" {
			return nil, apperrors.UpstreamGeneration(
				fmt.Sprintf("empty draft for chapter %d", ch.ChapterNumber))
		}

		// 只记生成文本，指令提示词不进入记忆
		memory.Append(text)
		texts = append(texts, text)
	}

	for i, ch := range outline.Chapters {
		chapter := entity.NewChapter(story.ID, ch.ChapterTitle, texts[i], ch.ChapterNumber)
		if err := s.chapters.Create(ctx, chapter); err != nil {
			if apperrors.IsCode(err, apperrors.CodePositionTaken) {
				return nil, err
			}
			return nil, apperrors.Persistence(err,
				fmt.Sprintf("failed to persist chapter at position %d", ch.ChapterNumber))
		}
		metrics.ChaptersDrafted.Inc()
	}

	logger.Info(ctx, "chapters drafted and persisted", "story_id", story.ID, "count", len(texts))
	return texts, nil
}
